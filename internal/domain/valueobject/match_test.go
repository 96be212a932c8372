package valueobject

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/domain/entity"
	domainerror "github.com/procure-match/backend/internal/domain/error"
)

func line(t *testing.T, key, description, qty, price string) entity.LineItem {
	t.Helper()
	return entity.LineItem{
		ItemKey:     key,
		Description: description,
		Quantity:    dec(t, qty),
		UnitPrice:   dec(t, price),
	}
}

func purchaseOrder(lines ...entity.LineItem) *entity.PurchaseOrder {
	return &entity.PurchaseOrder{
		ID:            uuid.New(),
		SupplierEmail: "orders@freshfarms.example",
		SupplierName:  "Fresh Farms",
		LineItems:     lines,
	}
}

func receivingOrder(poID uuid.UUID, lines ...entity.LineItem) *entity.ReceivingOrder {
	return &entity.ReceivingOrder{
		ID:              uuid.New(),
		PurchaseOrderID: poID,
		Condition:       entity.ConditionGood,
		LineItems:       lines,
	}
}

func invoice(poID uuid.UUID, lines ...entity.LineItem) *entity.Invoice {
	return &entity.Invoice{
		ID:              uuid.New(),
		PurchaseOrderID: poID,
		LineItems:       lines,
	}
}

func TestMatchLineItems(t *testing.T) {
	policy := DefaultTolerancePolicy()

	t.Run("all documents agree", func(t *testing.T) {
		po := purchaseOrder(
			line(t, "tomatoes", "Roma tomatoes", "10", "2.50"),
			line(t, "onions", "Yellow onions", "5", "1.20"),
		)
		ro := receivingOrder(po.ID,
			line(t, "tomatoes", "Roma tomatoes", "10", "0"),
			line(t, "onions", "Yellow onions", "5", "0"),
		)
		inv := invoice(po.ID,
			line(t, "tomatoes", "Roma tomatoes", "10", "2.50"),
			line(t, "onions", "Yellow onions", "5", "1.20"),
		)

		records, err := MatchLineItems(po, ro, inv, policy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 records, got %d", len(records))
		}
		for _, record := range records {
			if record.Status != StatusMatched {
				t.Errorf("record %s: expected matched, got %s", record.ItemKey, record.Status)
			}
			if !record.TotalVariance.IsZero() {
				t.Errorf("record %s: expected zero variance, got %s", record.ItemKey, record.TotalVariance)
			}
		}
	})

	t.Run("quantity and price mismatches are classified per line", func(t *testing.T) {
		po := purchaseOrder(
			line(t, "tomatoes", "Roma tomatoes", "10", "2.50"),
			line(t, "onions", "Yellow onions", "5", "1.20"),
			line(t, "garlic", "Garlic bulbs", "3", "0.80"),
		)
		ro := receivingOrder(po.ID,
			line(t, "tomatoes", "Roma tomatoes", "12", "0"),
			line(t, "onions", "Yellow onions", "5", "0"),
			line(t, "garlic", "Garlic bulbs", "3", "0"),
		)
		inv := invoice(po.ID,
			line(t, "tomatoes", "Roma tomatoes", "12", "2.50"),
			line(t, "onions", "Yellow onions", "5", "1.50"),
			line(t, "garlic", "Garlic bulbs", "4", "1.00"),
		)

		records, err := MatchLineItems(po, ro, inv, policy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := map[string]MatchStatus{
			"tomatoes": StatusQuantityMismatch,
			"onions":   StatusPriceMismatch,
			"garlic":   StatusBothMismatch,
		}
		for _, record := range records {
			if record.Status != want[record.ItemKey] {
				t.Errorf("record %s: expected %s, got %s", record.ItemKey, want[record.ItemKey], record.Status)
			}
		}
	})

	t.Run("received quantity deviation flags a quantity mismatch", func(t *testing.T) {
		po := purchaseOrder(line(t, "tomatoes", "Roma tomatoes", "10", "2.50"))
		ro := receivingOrder(po.ID, line(t, "tomatoes", "Roma tomatoes", "8", "0"))
		inv := invoice(po.ID, line(t, "tomatoes", "Roma tomatoes", "10", "2.50"))

		records, err := MatchLineItems(po, ro, inv, policy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if records[0].Status != StatusQuantityMismatch {
			t.Errorf("expected quantity_mismatch, got %s", records[0].Status)
		}
		// The invoice agrees with the order, so the billed variance is zero.
		if !records[0].TotalVariance.IsZero() {
			t.Errorf("expected zero total variance, got %s", records[0].TotalVariance)
		}
	})

	t.Run("variances are invoice minus purchase order", func(t *testing.T) {
		po := purchaseOrder(line(t, "tomatoes", "Roma tomatoes", "10", "2.50"))
		ro := receivingOrder(po.ID, line(t, "tomatoes", "Roma tomatoes", "12", "0"))
		inv := invoice(po.ID, line(t, "tomatoes", "Roma tomatoes", "12", "2.60"))

		records, err := MatchLineItems(po, ro, inv, policy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		record := records[0]
		if !record.QtyVariance.Equal(dec(t, "2")) {
			t.Errorf("expected qty variance 2, got %s", record.QtyVariance)
		}
		if !record.PriceVariance.Equal(dec(t, "0.10")) {
			t.Errorf("expected price variance 0.10, got %s", record.PriceVariance)
		}
		// 12 * 2.60 - 10 * 2.50 = 31.20 - 25.00
		if !record.TotalVariance.Equal(dec(t, "6.20")) {
			t.Errorf("expected total variance 6.20, got %s", record.TotalVariance)
		}
	})

	t.Run("missing receiving order marks all lines awaiting", func(t *testing.T) {
		po := purchaseOrder(line(t, "tomatoes", "Roma tomatoes", "10", "2.50"))
		inv := invoice(po.ID, line(t, "tomatoes", "Roma tomatoes", "10", "2.50"))

		records, err := MatchLineItems(po, nil, inv, policy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if records[0].Status != StatusAwaitingDocuments {
			t.Errorf("expected awaiting_documents, got %s", records[0].Status)
		}
		if records[0].IsComplete() {
			t.Error("expected record to be incomplete")
		}
	})

	t.Run("keys absent from a document produce awaiting records", func(t *testing.T) {
		po := purchaseOrder(
			line(t, "tomatoes", "Roma tomatoes", "10", "2.50"),
			line(t, "onions", "Yellow onions", "5", "1.20"),
		)
		ro := receivingOrder(po.ID,
			line(t, "tomatoes", "Roma tomatoes", "10", "0"),
		)
		inv := invoice(po.ID,
			line(t, "tomatoes", "Roma tomatoes", "10", "2.50"),
			line(t, "basil", "Fresh basil", "2", "3.00"),
		)

		records, err := MatchLineItems(po, ro, inv, policy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// PO order first, then keys found only in later documents.
		wantOrder := []string{"tomatoes", "onions", "basil"}
		if len(records) != len(wantOrder) {
			t.Fatalf("expected %d records, got %d", len(wantOrder), len(records))
		}
		for i, key := range wantOrder {
			if records[i].ItemKey != key {
				t.Errorf("position %d: expected %s, got %s", i, key, records[i].ItemKey)
			}
		}

		if records[0].Status != StatusMatched {
			t.Errorf("tomatoes: expected matched, got %s", records[0].Status)
		}
		if records[1].Status != StatusAwaitingDocuments {
			t.Errorf("onions: expected awaiting_documents, got %s", records[1].Status)
		}
		if records[2].Status != StatusAwaitingDocuments {
			t.Errorf("basil: expected awaiting_documents, got %s", records[2].Status)
		}
		if records[2].POQuantity != nil {
			t.Error("basil: expected nil PO quantity for an invoice-only key")
		}
	})

	t.Run("matching is idempotent", func(t *testing.T) {
		po := purchaseOrder(line(t, "tomatoes", "Roma tomatoes", "10", "2.50"))
		ro := receivingOrder(po.ID, line(t, "tomatoes", "Roma tomatoes", "12", "0"))
		inv := invoice(po.ID, line(t, "tomatoes", "Roma tomatoes", "12", "2.50"))

		first, err := MatchLineItems(po, ro, inv, policy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		second, err := MatchLineItems(po, ro, inv, policy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(first) != len(second) {
			t.Fatalf("expected identical record counts, got %d and %d", len(first), len(second))
		}
		for i := range first {
			if first[i].ItemKey != second[i].ItemKey || first[i].Status != second[i].Status {
				t.Errorf("record %d differs between runs", i)
			}
		}
	})

	t.Run("duplicate item keys are rejected", func(t *testing.T) {
		po := purchaseOrder(
			line(t, "tomatoes", "Roma tomatoes", "10", "2.50"),
			line(t, "tomatoes", "Roma tomatoes", "4", "2.50"),
		)

		_, err := MatchLineItems(po, nil, nil, policy)
		if err == nil {
			t.Fatal("expected an error for duplicate keys")
		}
		var matchingErr *domainerror.MatchingError
		if !errors.As(err, &matchingErr) {
			t.Fatalf("expected a matching error, got %T", err)
		}
		if matchingErr.Code != domainerror.ErrCodeDuplicateItemKey {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeDuplicateItemKey, matchingErr.Code)
		}
	})

	t.Run("negative quantities are rejected", func(t *testing.T) {
		po := purchaseOrder(line(t, "tomatoes", "Roma tomatoes", "-1", "2.50"))

		_, err := MatchLineItems(po, nil, nil, policy)
		var matchingErr *domainerror.MatchingError
		if !errors.As(err, &matchingErr) {
			t.Fatalf("expected a matching error, got %v", err)
		}
		if matchingErr.Code != domainerror.ErrCodeNegativeQuantity {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeNegativeQuantity, matchingErr.Code)
		}
	})

	t.Run("empty item keys are rejected", func(t *testing.T) {
		po := purchaseOrder(line(t, "tomatoes", "Roma tomatoes", "10", "2.50"))
		inv := invoice(po.ID, line(t, "", "Mystery item", "1", "1.00"))

		_, err := MatchLineItems(po, nil, inv, policy)
		var matchingErr *domainerror.MatchingError
		if !errors.As(err, &matchingErr) {
			t.Fatalf("expected a matching error, got %v", err)
		}
		if matchingErr.Code != domainerror.ErrCodeEmptyItemKey {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeEmptyItemKey, matchingErr.Code)
		}
	})
}

func TestSummarize(t *testing.T) {
	thresholds := DefaultSummaryThresholds()
	policy := DefaultTolerancePolicy()
	poID := uuid.New()

	build := func(t *testing.T, po *entity.PurchaseOrder, ro *entity.ReceivingOrder, inv *entity.Invoice) []MatchRecord {
		t.Helper()
		records, err := MatchLineItems(po, ro, inv, policy)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return records
	}

	t.Run("fully matched order", func(t *testing.T) {
		po := purchaseOrder(line(t, "tomatoes", "Roma tomatoes", "10", "2.50"))
		ro := receivingOrder(po.ID, line(t, "tomatoes", "Roma tomatoes", "10", "0"))
		inv := invoice(po.ID, line(t, "tomatoes", "Roma tomatoes", "10", "2.50"))

		summary := Summarize(poID, build(t, po, ro, inv), thresholds)
		if summary.OverallStatus != OverallFullyMatched {
			t.Errorf("expected fully_matched, got %s", summary.OverallStatus)
		}
		if !summary.MatchedPercent.Equal(dec(t, "100")) {
			t.Errorf("expected 100 percent, got %s", summary.MatchedPercent)
		}
		if !summary.TotalVariance.IsZero() {
			t.Errorf("expected zero total variance, got %s", summary.TotalVariance)
		}
	})

	t.Run("awaiting records are excluded from the denominator", func(t *testing.T) {
		po := purchaseOrder(
			line(t, "tomatoes", "Roma tomatoes", "10", "2.50"),
			line(t, "onions", "Yellow onions", "5", "1.20"),
		)
		ro := receivingOrder(po.ID, line(t, "tomatoes", "Roma tomatoes", "10", "0"))
		inv := invoice(po.ID, line(t, "tomatoes", "Roma tomatoes", "10", "2.50"))

		summary := Summarize(poID, build(t, po, ro, inv), thresholds)
		if !summary.MatchedPercent.Equal(dec(t, "100")) {
			t.Errorf("expected 100 percent over complete records only, got %s", summary.MatchedPercent)
		}
		if summary.OverallStatus != OverallFullyMatched {
			t.Errorf("expected fully_matched, got %s", summary.OverallStatus)
		}
	})

	t.Run("variance totals sum complete records", func(t *testing.T) {
		po := purchaseOrder(
			line(t, "tomatoes", "Roma tomatoes", "10", "2.50"),
			line(t, "onions", "Yellow onions", "5", "1.20"),
		)
		ro := receivingOrder(po.ID,
			line(t, "tomatoes", "Roma tomatoes", "12", "0"),
			line(t, "onions", "Yellow onions", "4", "0"),
		)
		inv := invoice(po.ID,
			line(t, "tomatoes", "Roma tomatoes", "12", "2.50"),
			line(t, "onions", "Yellow onions", "4", "1.20"),
		)

		summary := Summarize(poID, build(t, po, ro, inv), thresholds)
		// (12-10) * 2.50 + (4-5) * 1.20 = 5.00 - 1.20
		if !summary.TotalVariance.Equal(dec(t, "3.80")) {
			t.Errorf("expected total variance 3.80, got %s", summary.TotalVariance)
		}
		if summary.OverallStatus != OverallSignificantVariances {
			t.Errorf("expected significant_variances, got %s", summary.OverallStatus)
		}
	})

	t.Run("all records awaiting yields significant variances", func(t *testing.T) {
		po := purchaseOrder(line(t, "tomatoes", "Roma tomatoes", "10", "2.50"))

		summary := Summarize(poID, build(t, po, nil, nil), thresholds)
		if summary.OverallStatus != OverallSignificantVariances {
			t.Errorf("expected significant_variances, got %s", summary.OverallStatus)
		}
		if !summary.MatchedPercent.IsZero() {
			t.Errorf("expected zero matched percent, got %s", summary.MatchedPercent)
		}
	})
}

func TestMatchRecord_ApplyResolution(t *testing.T) {
	reviewer := uuid.New()
	now := time.Now()

	record := MatchRecord{
		ItemKey:        "tomatoes",
		Status:         StatusQuantityMismatch,
		ComputedStatus: StatusQuantityMismatch,
	}

	record.ApplyResolution(reviewer, "short delivery credited on next order", now)

	if record.Status != StatusMatched {
		t.Errorf("expected status matched, got %s", record.Status)
	}
	if record.ComputedStatus != StatusQuantityMismatch {
		t.Errorf("expected computed status to be retained, got %s", record.ComputedStatus)
	}
	if !record.IsResolved() {
		t.Error("expected record to be resolved")
	}
	if record.Resolution.ResolvedBy != reviewer {
		t.Error("expected resolver to be recorded")
	}
}
