package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

func TestTolerancePolicy_QuantityMatches(t *testing.T) {
	policy := DefaultTolerancePolicy()

	t.Run("exact quantities match with zero tolerance", func(t *testing.T) {
		if !policy.QuantityMatches(dec(t, "10"), dec(t, "10"), dec(t, "10")) {
			t.Error("expected exact quantities to match")
		}
	})

	t.Run("invoice deviation fails with zero tolerance", func(t *testing.T) {
		if policy.QuantityMatches(dec(t, "10"), dec(t, "10"), dec(t, "10.001")) {
			t.Error("expected invoice deviation to fail")
		}
	})

	t.Run("received deviation fails even when invoice agrees", func(t *testing.T) {
		if policy.QuantityMatches(dec(t, "10"), dec(t, "9"), dec(t, "10")) {
			t.Error("expected received-quantity deviation to fail")
		}
	})

	t.Run("deviation within a non-zero tolerance matches", func(t *testing.T) {
		loose := TolerancePolicy{
			QuantityTolerance: dec(t, "0.5"),
			PriceTolerance:    dec(t, "0.05"),
		}
		if !loose.QuantityMatches(dec(t, "10"), dec(t, "9.6"), dec(t, "10.4")) {
			t.Error("expected deviations within tolerance to match")
		}
		if loose.QuantityMatches(dec(t, "10"), dec(t, "9.4"), dec(t, "10")) {
			t.Error("expected received deviation beyond tolerance to fail")
		}
	})
}

func TestTolerancePolicy_PriceMatches(t *testing.T) {
	policy := DefaultTolerancePolicy()

	t.Run("price at the tolerance boundary matches", func(t *testing.T) {
		if !policy.PriceMatches(dec(t, "2.00"), dec(t, "2.05")) {
			t.Error("expected a five-cent deviation to match")
		}
	})

	t.Run("price beyond the tolerance fails", func(t *testing.T) {
		if policy.PriceMatches(dec(t, "2.00"), dec(t, "2.06")) {
			t.Error("expected a six-cent deviation to fail")
		}
	})

	t.Run("deviation below the ordered price also matches", func(t *testing.T) {
		if !policy.PriceMatches(dec(t, "2.00"), dec(t, "1.95")) {
			t.Error("expected a negative deviation within tolerance to match")
		}
	})
}

func TestTolerancePolicy_Classify(t *testing.T) {
	policy := DefaultTolerancePolicy()

	tests := []struct {
		name     string
		poQty    string
		poPrice  string
		roQty    string
		invQty   string
		invPrice string
		want     MatchStatus
	}{
		{"all within tolerance", "10", "2.00", "10", "10", "2.03", StatusMatched},
		{"quantity off", "10", "2.00", "10", "12", "2.00", StatusQuantityMismatch},
		{"received quantity off", "10", "2.00", "8", "10", "2.00", StatusQuantityMismatch},
		{"price off", "10", "2.00", "10", "10", "2.50", StatusPriceMismatch},
		{"both off", "10", "2.00", "8", "12", "2.50", StatusBothMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.Classify(
				dec(t, tt.poQty), dec(t, tt.poPrice),
				dec(t, tt.roQty),
				dec(t, tt.invQty), dec(t, tt.invPrice),
			)
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSummaryThresholds_OverallStatusFor(t *testing.T) {
	thresholds := DefaultSummaryThresholds()

	t.Run("100 percent is fully matched", func(t *testing.T) {
		if got := thresholds.OverallStatusFor(dec(t, "100"), 5); got != OverallFullyMatched {
			t.Errorf("expected fully_matched, got %s", got)
		}
	})

	t.Run("80 percent is partially matched", func(t *testing.T) {
		if got := thresholds.OverallStatusFor(dec(t, "80"), 5); got != OverallPartiallyMatched {
			t.Errorf("expected partially_matched, got %s", got)
		}
	})

	t.Run("below 80 percent has significant variances", func(t *testing.T) {
		if got := thresholds.OverallStatusFor(dec(t, "79.99"), 5); got != OverallSignificantVariances {
			t.Errorf("expected significant_variances, got %s", got)
		}
	})

	t.Run("no complete records has significant variances", func(t *testing.T) {
		if got := thresholds.OverallStatusFor(dec(t, "0"), 0); got != OverallSignificantVariances {
			t.Errorf("expected significant_variances, got %s", got)
		}
	})
}
