package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Invoice represents the supplier's billed quantities and prices for a
// purchase order.
type Invoice struct {
	ID              uuid.UUID
	PurchaseOrderID uuid.UUID
	DateIssued      time.Time
	DateDue         time.Time
	SupplierRef     string
	LineItems       []LineItem
	Total           decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ComputedTotal returns the sum of line totals across all invoice lines.
func (inv *Invoice) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range inv.LineItems {
		total = total.Add(line.LineTotal())
	}
	return total
}
