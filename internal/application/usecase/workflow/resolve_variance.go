// Package workflow contains the reconciliation workflow use cases. Every
// action in this package serializes on the purchase order's session lock,
// commits against the cycle version it observed and appends an audit event.
package workflow

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/application/usecase/matching"
	"github.com/procure-match/backend/internal/domain/entity"
	domainerror "github.com/procure-match/backend/internal/domain/error"
	"github.com/procure-match/backend/internal/domain/valueobject"
)

// ResolveVarianceInput represents the input for resolving a mismatched line.
type ResolveVarianceInput struct {
	PurchaseOrderID uuid.UUID
	ItemKey         string
	Reason          string
	ActorID         uuid.UUID
	ActorEmail      string
}

// ResolveVarianceOutput represents the output of resolving a mismatched line.
type ResolveVarianceOutput struct {
	Summary *valueobject.MatchSummary
}

// ResolveVarianceUseCase handles the manual resolution of a single mismatched
// match record.
type ResolveVarianceUseCase struct {
	lock      adapter.SessionLock
	reconRepo adapter.ReconciliationRepository
	cache     adapter.SummaryCache
	summaries *matching.ComputeSummaryUseCase
}

// NewResolveVarianceUseCase creates a new ResolveVarianceUseCase instance.
func NewResolveVarianceUseCase(
	lock adapter.SessionLock,
	reconRepo adapter.ReconciliationRepository,
	cache adapter.SummaryCache,
	summaries *matching.ComputeSummaryUseCase,
) *ResolveVarianceUseCase {
	return &ResolveVarianceUseCase{
		lock:      lock,
		reconRepo: reconRepo,
		cache:     cache,
		summaries: summaries,
	}
}

// Execute resolves the variance on one match record.
func (uc *ResolveVarianceUseCase) Execute(ctx context.Context, input ResolveVarianceInput) (*ResolveVarianceOutput, error) {
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

	record := summary.RecordByKey(input.ItemKey)
	if record == nil {
		return nil, domainerror.NewMatchingError(
			domainerror.ErrCodeRecordNotFound,
			"no match record for item key",
			domainerror.ErrRecordNotFound,
		)
	}
	if !record.IsComplete() {
		return nil, domainerror.NewWorkflowError(
			domainerror.ErrCodeRecordAwaitingDocuments,
			"record is still awaiting documents and cannot be resolved",
			domainerror.ErrRecordAwaitingDocuments,
		)
	}
	if record.Status == valueobject.StatusMatched {
		// Already matched, whether by classification or a prior resolution.
		return nil, domainerror.NewWorkflowError(
			domainerror.ErrCodeAlreadyResolved,
			"record has no open variance to resolve",
			domainerror.ErrAlreadyResolved,
		)
	}

	resolution := adapter.ResolutionData{
		ItemKey:    input.ItemKey,
		Reason:     input.Reason,
		ResolvedBy: input.ActorID,
		ResolvedAt: time.Now().UTC(),
	}
	if err := uc.reconRepo.AppendResolution(ctx, input.PurchaseOrderID, summary.CycleNumber, resolution, summary.Version); err != nil {
		return nil, err
	}

	event := entity.NewAuditEvent(
		input.PurchaseOrderID,
		summary.CycleNumber,
		input.ActorID,
		input.ActorEmail,
		entity.ActionResolveVariance,
		[]string{input.ItemKey},
		string(summary.State),
		string(summary.State),
	)
	if err := uc.reconRepo.AppendAuditEvent(ctx, event); err != nil {
		return nil, err
	}

	if err := uc.cache.Invalidate(ctx, input.PurchaseOrderID); err != nil {
		return nil, err
	}

	updated, err := uc.summaries.Execute(ctx, matching.ComputeSummaryInput{PurchaseOrderID: input.PurchaseOrderID})
	if err != nil {
		return nil, err
	}

	return &ResolveVarianceOutput{Summary: updated.Summary}, nil
}
