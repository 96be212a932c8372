package entity

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction identifies the workflow action that produced an audit event.
type AuditAction string

const (
	ActionResolveVariance  AuditAction = "resolve_variance"
	ActionAcceptForPayment AuditAction = "accept_for_payment"
	ActionIssueCreditNote  AuditAction = "issue_credit_note"
)

// AuditEvent records a single workflow action against a purchase order's
// reconciliation. The audit log is append-only; events are never updated or
// deleted.
type AuditEvent struct {
	ID              uuid.UUID
	PurchaseOrderID uuid.UUID
	CycleNumber     int
	Actor           uuid.UUID
	ActorEmail      string
	Action          AuditAction
	ItemKeys        []string
	FromStatus      string
	ToStatus        string
	OccurredAt      time.Time
}

// NewAuditEvent creates a new AuditEvent entity.
func NewAuditEvent(
	purchaseOrderID uuid.UUID,
	cycleNumber int,
	actor uuid.UUID,
	actorEmail string,
	action AuditAction,
	itemKeys []string,
	fromStatus string,
	toStatus string,
) *AuditEvent {
	return &AuditEvent{
		ID:              uuid.New(),
		PurchaseOrderID: purchaseOrderID,
		CycleNumber:     cycleNumber,
		Actor:           actor,
		ActorEmail:      actorEmail,
		Action:          action,
		ItemKeys:        itemKeys,
		FromStatus:      fromStatus,
		ToStatus:        toStatus,
		OccurredAt:      time.Now().UTC(),
	}
}
