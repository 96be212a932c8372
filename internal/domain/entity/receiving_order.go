package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReceivingCondition describes the overall condition of a delivery.
type ReceivingCondition string

const (
	ConditionGood    ReceivingCondition = "good"
	ConditionPartial ReceivingCondition = "partial"
	ConditionDamaged ReceivingCondition = "damaged"
)

// ReceivingOrder records the quantities actually received against a purchase
// order. PurchaseOrderID is a back-reference, not ownership.
type ReceivingOrder struct {
	ID              uuid.UUID
	PurchaseOrderID uuid.UUID
	DateReceived    time.Time
	ReceivedBy      string
	Condition       ReceivingCondition
	LineItems       []LineItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
