// Package valueobject contains domain value objects for the procurement
// matching service.
package valueobject

import "github.com/shopspring/decimal"

// TolerancePolicy defines the acceptable quantity and price deviation for a
// line item before it is flagged as mismatched. The policy is a pure value;
// it can be swapped per supplier or contract without touching the engine.
type TolerancePolicy struct {
	// QuantityTolerance is the maximum absolute quantity deviation allowed
	// for a quantity match. Zero means quantities must agree exactly.
	QuantityTolerance decimal.Decimal

	// PriceTolerance is the maximum absolute unit-price deviation allowed
	// for a price match, in currency units.
	PriceTolerance decimal.Decimal
}

// DefaultTolerancePolicy returns the default policy: exact quantities and a
// five-cent price tolerance.
func DefaultTolerancePolicy() TolerancePolicy {
	return TolerancePolicy{
		QuantityTolerance: decimal.Zero,
		PriceTolerance:    decimal.NewFromFloat(0.05),
	}
}

// QuantityMatches reports whether both the received and the invoiced quantity
// agree with the ordered quantity within the quantity tolerance.
func (p TolerancePolicy) QuantityMatches(poQty, roQty, invoiceQty decimal.Decimal) bool {
	if invoiceQty.Sub(poQty).Abs().GreaterThan(p.QuantityTolerance) {
		return false
	}
	return roQty.Sub(poQty).Abs().LessThanOrEqual(p.QuantityTolerance)
}

// PriceMatches reports whether the invoiced unit price agrees with the
// ordered unit price within the price tolerance.
func (p TolerancePolicy) PriceMatches(poPrice, invoicePrice decimal.Decimal) bool {
	return invoicePrice.Sub(poPrice).Abs().LessThanOrEqual(p.PriceTolerance)
}

// Classify determines the match status for a line present in all three
// documents.
func (p TolerancePolicy) Classify(poQty, poPrice, roQty, invoiceQty, invoicePrice decimal.Decimal) MatchStatus {
	qtyOK := p.QuantityMatches(poQty, roQty, invoiceQty)
	priceOK := p.PriceMatches(poPrice, invoicePrice)

	switch {
	case qtyOK && priceOK:
		return StatusMatched
	case !qtyOK && priceOK:
		return StatusQuantityMismatch
	case qtyOK && !priceOK:
		return StatusPriceMismatch
	default:
		return StatusBothMismatch
	}
}

// SummaryThresholds defines the match-percentage boundaries used to derive a
// summary's overall status.
type SummaryThresholds struct {
	// FullMatchPercent is the matched percentage required for FullyMatched.
	FullMatchPercent decimal.Decimal

	// PartialMatchPercent is the matched percentage required for
	// PartiallyMatched. Anything below is SignificantVariances.
	PartialMatchPercent decimal.Decimal
}

// DefaultSummaryThresholds returns the default thresholds (100% / 80%).
func DefaultSummaryThresholds() SummaryThresholds {
	return SummaryThresholds{
		FullMatchPercent:    decimal.NewFromInt(100),
		PartialMatchPercent: decimal.NewFromInt(80),
	}
}

// OverallStatusFor derives the overall status from a matched percentage.
func (t SummaryThresholds) OverallStatusFor(matchedPercent decimal.Decimal, consideredCount int) OverallStatus {
	if consideredCount == 0 {
		return OverallSignificantVariances
	}
	if matchedPercent.GreaterThanOrEqual(t.FullMatchPercent) {
		return OverallFullyMatched
	}
	if matchedPercent.GreaterThanOrEqual(t.PartialMatchPercent) {
		return OverallPartiallyMatched
	}
	return OverallSignificantVariances
}
