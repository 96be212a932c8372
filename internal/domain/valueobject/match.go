package valueobject

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procure-match/backend/internal/domain/entity"
	domainerror "github.com/procure-match/backend/internal/domain/error"
)

// MatchLineItems joins the line items of a purchase order, its receiving
// order and its invoice by item key and classifies each line using the given
// tolerance policy.
//
// The receiving order and invoice may be nil when the corresponding document
// has not been submitted yet; affected records are emitted as
// AwaitingDocuments. The result ordering is deterministic: purchase order
// line order first, then receiving-order-only keys, then invoice-only keys.
// The function is pure and safe to call repeatedly.
func MatchLineItems(po *entity.PurchaseOrder, ro *entity.ReceivingOrder, inv *entity.Invoice, policy TolerancePolicy) ([]MatchRecord, error) {
	poLines, err := indexLineItems("purchase order", po.LineItems)
	if err != nil {
		return nil, err
	}

	var roItems, invItems []entity.LineItem
	if ro != nil {
		roItems = ro.LineItems
	}
	if inv != nil {
		invItems = inv.LineItems
	}

	roLines, err := indexLineItems("receiving order", roItems)
	if err != nil {
		return nil, err
	}
	invLines, err := indexLineItems("invoice", invItems)
	if err != nil {
		return nil, err
	}

	// Union of keys: PO order first, then RO-only, then invoice-only.
	keys := make([]string, 0, len(po.LineItems))
	seen := make(map[string]bool, len(po.LineItems))
	for _, line := range po.LineItems {
		keys = append(keys, line.ItemKey)
		seen[line.ItemKey] = true
	}
	for _, line := range roItems {
		if !seen[line.ItemKey] {
			keys = append(keys, line.ItemKey)
			seen[line.ItemKey] = true
		}
	}
	for _, line := range invItems {
		if !seen[line.ItemKey] {
			keys = append(keys, line.ItemKey)
			seen[line.ItemKey] = true
		}
	}

	records := make([]MatchRecord, 0, len(keys))
	for _, key := range keys {
		poLine, inPO := poLines[key]
		roLine, inRO := roLines[key]
		invLine, inInv := invLines[key]

		record := MatchRecord{ItemKey: key}

		switch {
		case inPO:
			record.Description = poLine.Description
		case inRO:
			record.Description = roLine.Description
		default:
			record.Description = invLine.Description
		}

		if inPO {
			record.POQuantity = decimalPtr(poLine.Quantity)
			record.POUnitPrice = decimalPtr(poLine.UnitPrice)
		}
		if inRO {
			record.ReceivedQuantity = decimalPtr(roLine.Quantity)
		}
		if inInv {
			record.InvoiceQuantity = decimalPtr(invLine.Quantity)
			record.InvoiceUnitPrice = decimalPtr(invLine.UnitPrice)
		}

		if inPO && inRO && inInv {
			record.QtyVariance = invLine.Quantity.Sub(poLine.Quantity)
			record.PriceVariance = invLine.UnitPrice.Sub(poLine.UnitPrice)
			record.TotalVariance = invLine.LineTotal().Sub(poLine.LineTotal())
			record.Status = policy.Classify(
				poLine.Quantity, poLine.UnitPrice,
				roLine.Quantity,
				invLine.Quantity, invLine.UnitPrice,
			)
		} else {
			// Missing from at least one document: pending, contributes
			// nothing to variance totals.
			record.QtyVariance = decimal.Zero
			record.PriceVariance = decimal.Zero
			record.TotalVariance = decimal.Zero
			record.Status = StatusAwaitingDocuments
		}
		record.ComputedStatus = record.Status

		records = append(records, record)
	}

	return records, nil
}

// Summarize rolls line-level records into a purchase-order-level summary.
// AwaitingDocuments records are excluded from both the variance total and the
// matched-percentage denominator.
func Summarize(purchaseOrderID uuid.UUID, records []MatchRecord, thresholds SummaryThresholds) MatchSummary {
	totalVariance := decimal.Zero
	considered := 0
	matched := 0

	for i := range records {
		if !records[i].IsComplete() {
			continue
		}
		considered++
		totalVariance = totalVariance.Add(records[i].TotalVariance)
		if records[i].Status == StatusMatched {
			matched++
		}
	}

	matchedPercent := decimal.Zero
	if considered > 0 {
		matchedPercent = decimal.NewFromInt(100).
			Mul(decimal.NewFromInt(int64(matched))).
			Div(decimal.NewFromInt(int64(considered)))
	}

	return MatchSummary{
		PurchaseOrderID: purchaseOrderID,
		Records:         records,
		TotalVariance:   totalVariance,
		MatchedPercent:  matchedPercent,
		OverallStatus:   thresholds.OverallStatusFor(matchedPercent, considered),
	}
}

// indexLineItems builds a key index over a document's line items and rejects
// malformed documents: empty or duplicate keys, negative quantities or
// prices.
func indexLineItems(document string, lines []entity.LineItem) (map[string]entity.LineItem, error) {
	index := make(map[string]entity.LineItem, len(lines))
	for _, line := range lines {
		if line.ItemKey == "" {
			return nil, domainerror.NewMatchingError(
				domainerror.ErrCodeEmptyItemKey,
				fmt.Sprintf("%s has a line item with an empty key", document),
				domainerror.ErrEmptyItemKey,
			)
		}
		if line.Quantity.IsNegative() {
			return nil, domainerror.NewMatchingError(
				domainerror.ErrCodeNegativeQuantity,
				fmt.Sprintf("%s line %q has a negative quantity", document, line.ItemKey),
				domainerror.ErrNegativeQuantity,
			)
		}
		if line.UnitPrice.IsNegative() {
			return nil, domainerror.NewMatchingError(
				domainerror.ErrCodeNegativePrice,
				fmt.Sprintf("%s line %q has a negative unit price", document, line.ItemKey),
				domainerror.ErrNegativePrice,
			)
		}
		if _, exists := index[line.ItemKey]; exists {
			return nil, domainerror.NewMatchingError(
				domainerror.ErrCodeDuplicateItemKey,
				fmt.Sprintf("%s has duplicate line items for key %q", document, line.ItemKey),
				domainerror.ErrDuplicateItemKey,
			)
		}
		index[line.ItemKey] = line
	}
	return index, nil
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}
