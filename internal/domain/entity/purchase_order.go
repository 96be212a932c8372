// Package entity defines the core business entities for the domain layer.
package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem represents a single item line on a procurement document.
// The same shape is shared by purchase orders, receiving orders and invoices.
type LineItem struct {
	ItemKey     string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
}

// LineTotal returns Quantity * UnitPrice for this line.
func (l LineItem) LineTotal() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// PurchaseOrder represents the ordering document specifying expected
// quantities and prices. Documents are created externally and handed to the
// matching engine read-only; they are never mutated here.
type PurchaseOrder struct {
	ID                   uuid.UUID
	SupplierID           uuid.UUID
	SupplierEmail        string
	SupplierName         string
	DateOrdered          time.Time
	DateExpectedDelivery time.Time
	PaymentTerms         string
	LineItems            []LineItem
	TotalExpected        decimal.Decimal
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ComputedTotal returns the sum of line totals across all line items.
func (po *PurchaseOrder) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, line := range po.LineItems {
		total = total.Add(line.LineTotal())
	}
	return total
}
