package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreditNote is the corrective financial document produced when the supplier
// has overbilled a purchase order. Amount is always positive.
type CreditNote struct {
	ID              uuid.UUID
	PurchaseOrderID uuid.UUID
	Amount          decimal.Decimal
	IssuedBy        uuid.UUID
	IssuedAt        time.Time
}

// NewCreditNote creates a new CreditNote entity.
func NewCreditNote(purchaseOrderID uuid.UUID, amount decimal.Decimal, issuedBy uuid.UUID) *CreditNote {
	return &CreditNote{
		ID:              uuid.New(),
		PurchaseOrderID: purchaseOrderID,
		Amount:          amount,
		IssuedBy:        issuedBy,
		IssuedAt:        time.Now().UTC(),
	}
}
