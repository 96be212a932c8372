package adapter

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/domain/entity"
	"github.com/procure-match/backend/internal/domain/valueobject"
)

// CycleData is the persisted workflow position of a purchase order's current
// reconciliation cycle. Version increments on every committed workflow
// action and backs the optimistic concurrency check.
type CycleData struct {
	PurchaseOrderID uuid.UUID
	CycleNumber     int
	State           valueobject.WorkflowState
	Version         int64
}

// ResolutionData is a persisted manual resolution of one match record.
type ResolutionData struct {
	ItemKey    string
	Reason     string
	ResolvedBy uuid.UUID
	ResolvedAt time.Time
}

// ReconciliationRepository persists the derived reconciliation state:
// cycles, resolutions, credit notes and the append-only audit log.
type ReconciliationRepository interface {
	// GetOrCreateCycle returns the current cycle for the purchase order,
	// creating cycle 1 in UnderReview on first access.
	GetOrCreateCycle(ctx context.Context, purchaseOrderID uuid.UUID) (*CycleData, error)

	// ListResolutions returns all resolutions applied within the cycle, in
	// application order.
	ListResolutions(ctx context.Context, purchaseOrderID uuid.UUID, cycleNumber int) ([]ResolutionData, error)

	// AppendResolution stores a resolution and bumps the cycle version.
	// Fails with a workflow concurrency error when expectedVersion no longer
	// matches, or with an invalid-state error when the item key is already
	// resolved within the cycle.
	AppendResolution(ctx context.Context, purchaseOrderID uuid.UUID, cycleNumber int, resolution ResolutionData, expectedVersion int64) error

	// TransitionCycleState moves the cycle from one workflow state to
	// another and bumps the version. Fails with a workflow concurrency
	// error when expectedVersion no longer matches.
	TransitionCycleState(ctx context.Context, purchaseOrderID uuid.UUID, cycleNumber int, from, to valueobject.WorkflowState, expectedVersion int64) error

	// SaveCreditNote persists an issued credit note.
	SaveCreditNote(ctx context.Context, note *entity.CreditNote) error

	// AppendAuditEvent appends a workflow audit event. The log is
	// append-only; events are never updated.
	AppendAuditEvent(ctx context.Context, event *entity.AuditEvent) error

	// ListAuditEvents returns all audit events for a purchase order in
	// chronological order.
	ListAuditEvents(ctx context.Context, purchaseOrderID uuid.UUID) ([]*entity.AuditEvent, error)
}
