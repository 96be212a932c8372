package workflow

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/application/usecase/matching"
	"github.com/procure-match/backend/internal/domain/entity"
	domainerror "github.com/procure-match/backend/internal/domain/error"
	"github.com/procure-match/backend/internal/domain/valueobject"
)

// AcceptAllInput represents the input for accepting a purchase order for payment.
type AcceptAllInput struct {
	PurchaseOrderID uuid.UUID
	ActorID         uuid.UUID
	ActorEmail      string
}

// AcceptAllOutput represents the output of accepting a purchase order for payment.
type AcceptAllOutput struct {
	Summary *valueobject.MatchSummary
}

// AcceptAllUseCase finalizes the reconciliation cycle as accepted for
// payment, open variances included. A reviewer may accept regardless of the
// remaining variance; the audit event records which lines were still open.
type AcceptAllUseCase struct {
	lock          adapter.SessionLock
	documentRepo  adapter.DocumentRepository
	reconRepo     adapter.ReconciliationRepository
	cache         adapter.SummaryCache
	notifications adapter.NotificationService
	summaries     *matching.ComputeSummaryUseCase
}

// NewAcceptAllUseCase creates a new AcceptAllUseCase instance.
func NewAcceptAllUseCase(
	lock adapter.SessionLock,
	documentRepo adapter.DocumentRepository,
	reconRepo adapter.ReconciliationRepository,
	cache adapter.SummaryCache,
	notifications adapter.NotificationService,
	summaries *matching.ComputeSummaryUseCase,
) *AcceptAllUseCase {
	return &AcceptAllUseCase{
		lock:          lock,
		documentRepo:  documentRepo,
		reconRepo:     reconRepo,
		cache:         cache,
		notifications: notifications,
		summaries:     summaries,
	}
}

// Execute accepts the purchase order for payment.
func (uc *AcceptAllUseCase) Execute(ctx context.Context, input AcceptAllInput) (*AcceptAllOutput, error) {
	release, err := uc.lock.Acquire(ctx, input.PurchaseOrderID)
	if err != nil {
		return nil, err
	}
	defer release()

	current, err := uc.summaries.Execute(ctx, matching.ComputeSummaryInput{PurchaseOrderID: input.PurchaseOrderID})
	if err != nil {
		return nil, err
	}
	summary := current.Summary

	if summary.State.IsTerminal() {
		return nil, domainerror.NewWorkflowError(
			domainerror.ErrCodeCycleFinalized,
			"reconciliation cycle is already finalized",
			domainerror.ErrCycleFinalized,
		)
	}

	if err := uc.reconRepo.TransitionCycleState(
		ctx,
		input.PurchaseOrderID,
		summary.CycleNumber,
		valueobject.StateUnderReview,
		valueobject.StateAcceptedForPayment,
		summary.Version,
	); err != nil {
		return nil, err
	}

	event := entity.NewAuditEvent(
		input.PurchaseOrderID,
		summary.CycleNumber,
		input.ActorID,
		input.ActorEmail,
		entity.ActionAcceptForPayment,
		openVarianceKeys(summary),
		string(valueobject.StateUnderReview),
		string(valueobject.StateAcceptedForPayment),
	)
	if err := uc.reconRepo.AppendAuditEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx, input.PurchaseOrderID); err != nil {
		return nil, err
	}

	// The state change is committed; notifying the supplier must not undo it.
	if !summary.TotalVariance.IsZero() {
		uc.notifySupplier(ctx, input, summary)
	}

	updated, err := uc.summaries.Execute(ctx, matching.ComputeSummaryInput{PurchaseOrderID: input.PurchaseOrderID})
	if err != nil {
		return nil, err
	}

	return &AcceptAllOutput{Summary: updated.Summary}, nil
}

func (uc *AcceptAllUseCase) notifySupplier(ctx context.Context, input AcceptAllInput, summary *valueobject.MatchSummary) {
	documents, err := uc.documentRepo.GetDocumentSet(ctx, input.PurchaseOrderID)
	if err != nil {
		slog.Error("Failed to load documents for acceptance notification", "error", err, "purchaseOrderID", input.PurchaseOrderID)
		return
	}

	err = uc.notifications.QueueVariancesAccepted(ctx, adapter.QueueVariancesAcceptedInput{
		SupplierEmail:   documents.PurchaseOrder.SupplierEmail,
		SupplierName:    documents.PurchaseOrder.SupplierName,
		PurchaseOrderID: input.PurchaseOrderID.String(),
		TotalVariance:   summary.TotalVariance.StringFixed(2),
		AcceptedByEmail: input.ActorEmail,
	})
	if err != nil {
		slog.Error("Failed to queue variances accepted notification", "error", err, "purchaseOrderID", input.PurchaseOrderID)
	}
}

// openVarianceKeys lists the item keys still carrying an unresolved mismatch.
func openVarianceKeys(summary *valueobject.MatchSummary) []string {
	keys := make([]string, 0)
	for i := range summary.Records {
		record := &summary.Records[i]
		if !record.IsComplete() {
			continue
		}
		if record.Status != valueobject.StatusMatched {
			keys = append(keys, record.ItemKey)
		}
	}
	return keys
}
