package workflow

import (
	"context"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/domain/entity"
)

// GetAuditTrailInput represents the input for retrieving an audit trail.
type GetAuditTrailInput struct {
	PurchaseOrderID uuid.UUID
}

// GetAuditTrailOutput represents the output of retrieving an audit trail.
type GetAuditTrailOutput struct {
	Events []*entity.AuditEvent
}

// GetAuditTrailUseCase handles retrieving the workflow audit trail of a
// purchase order.
type GetAuditTrailUseCase struct {
	documentRepo adapter.DocumentRepository
	reconRepo    adapter.ReconciliationRepository
}

// NewGetAuditTrailUseCase creates a new GetAuditTrailUseCase instance.
func NewGetAuditTrailUseCase(
	documentRepo adapter.DocumentRepository,
	reconRepo adapter.ReconciliationRepository,
) *GetAuditTrailUseCase {
	return &GetAuditTrailUseCase{
		documentRepo: documentRepo,
		reconRepo:    reconRepo,
	}
}

// Execute retrieves the audit events for the purchase order in chronological order.
func (uc *GetAuditTrailUseCase) Execute(ctx context.Context, input GetAuditTrailInput) (*GetAuditTrailOutput, error) {
	// Validate the purchase order exists before returning an empty trail.
	if _, err := uc.documentRepo.GetDocumentSet(ctx, input.PurchaseOrderID); err != nil {
		return nil, err
	}

	events, err := uc.reconRepo.ListAuditEvents(ctx, input.PurchaseOrderID)
	if err != nil {
		return nil, err
	}

	return &GetAuditTrailOutput{Events: events}, nil
}
