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

// GenerateCreditNoteInput represents the input for issuing a credit note.
type GenerateCreditNoteInput struct {
	PurchaseOrderID uuid.UUID
	ActorID         uuid.UUID
	ActorEmail      string
}

// GenerateCreditNoteOutput represents the output of issuing a credit note.
type GenerateCreditNoteOutput struct {
	CreditNote *entity.CreditNote
	Summary    *valueobject.MatchSummary
}

// GenerateCreditNoteUseCase finalizes the reconciliation cycle with a credit
// note covering the overbilled amount. Only allowed when the invoice total
// exceeds the ordered total, i.e. the total variance is negative in the
// buyer's favor once corrected.
type GenerateCreditNoteUseCase struct {
	lock          adapter.SessionLock
	documentRepo  adapter.DocumentRepository
	reconRepo     adapter.ReconciliationRepository
	cache         adapter.SummaryCache
	notifications adapter.NotificationService
	summaries     *matching.ComputeSummaryUseCase
}

// NewGenerateCreditNoteUseCase creates a new GenerateCreditNoteUseCase instance.
func NewGenerateCreditNoteUseCase(
	lock adapter.SessionLock,
	documentRepo adapter.DocumentRepository,
	reconRepo adapter.ReconciliationRepository,
	cache adapter.SummaryCache,
	notifications adapter.NotificationService,
	summaries *matching.ComputeSummaryUseCase,
) *GenerateCreditNoteUseCase {
	return &GenerateCreditNoteUseCase{
		lock:          lock,
		documentRepo:  documentRepo,
		reconRepo:     reconRepo,
		cache:         cache,
		notifications: notifications,
		summaries:     summaries,
	}
}

// Execute issues a credit note for the purchase order's negative variance.
func (uc *GenerateCreditNoteUseCase) Execute(ctx context.Context, input GenerateCreditNoteInput) (*GenerateCreditNoteOutput, error) {
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
	if !summary.TotalVariance.IsNegative() {
		return nil, domainerror.NewWorkflowError(
			domainerror.ErrCodeCreditNoteNotAllowed,
			"credit note requires an overbilled purchase order",
			domainerror.ErrCreditNoteNotAllowed,
		)
	}

	note := entity.NewCreditNote(input.PurchaseOrderID, summary.TotalVariance.Abs(), input.ActorID)
	if err := uc.reconRepo.SaveCreditNote(ctx, note); err != nil {
		return nil, err
	}

	if err := uc.reconRepo.TransitionCycleState(
		ctx,
		input.PurchaseOrderID,
		summary.CycleNumber,
		valueobject.StateUnderReview,
		valueobject.StateCreditNoteIssued,
		summary.Version,
	); err != nil {
		return nil, err
	}

	event := entity.NewAuditEvent(
		input.PurchaseOrderID,
		summary.CycleNumber,
		input.ActorID,
		input.ActorEmail,
		entity.ActionIssueCreditNote,
		openVarianceKeys(summary),
		string(valueobject.StateUnderReview),
		string(valueobject.StateCreditNoteIssued),
	)
	if err := uc.reconRepo.AppendAuditEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx, input.PurchaseOrderID); err != nil {
		return nil, err
	}

	// The credit note is committed; notifying the supplier must not undo it.
	uc.notifySupplier(ctx, input, note)

	updated, err := uc.summaries.Execute(ctx, matching.ComputeSummaryInput{PurchaseOrderID: input.PurchaseOrderID})
	if err != nil {
		return nil, err
	}

	return &GenerateCreditNoteOutput{
		CreditNote: note,
		Summary:    updated.Summary,
	}, nil
}

func (uc *GenerateCreditNoteUseCase) notifySupplier(ctx context.Context, input GenerateCreditNoteInput, note *entity.CreditNote) {
	documents, err := uc.documentRepo.GetDocumentSet(ctx, input.PurchaseOrderID)
	if err != nil {
		slog.Error("Failed to load documents for credit note notification", "error", err, "purchaseOrderID", input.PurchaseOrderID)
		return
	}

	err = uc.notifications.QueueCreditNoteIssued(ctx, adapter.QueueCreditNoteIssuedInput{
		SupplierEmail:   documents.PurchaseOrder.SupplierEmail,
		SupplierName:    documents.PurchaseOrder.SupplierName,
		PurchaseOrderID: input.PurchaseOrderID.String(),
		CreditAmount:    note.Amount.StringFixed(2),
		IssuedByEmail:   input.ActorEmail,
	})
	if err != nil {
		slog.Error("Failed to queue credit note notification", "error", err, "purchaseOrderID", input.PurchaseOrderID)
	}
}
