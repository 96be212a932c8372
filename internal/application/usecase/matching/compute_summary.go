// Package matching contains the three-way match computation use cases.
package matching

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/domain/valueobject"
)

// ComputeSummaryInput represents the input for computing a match summary.
type ComputeSummaryInput struct {
	PurchaseOrderID uuid.UUID
}

// ComputeSummaryOutput represents the output of computing a match summary.
type ComputeSummaryOutput struct {
	Summary *valueobject.MatchSummary
}

// ComputeSummaryUseCase recomputes the three-way match for a purchase order
// from its documents, the tolerance policy and the cycle's resolutions. The
// result is cached per cycle version; any workflow action bumps the version
// and makes the cached entry stale.
type ComputeSummaryUseCase struct {
	documentRepo adapter.DocumentRepository
	reconRepo    adapter.ReconciliationRepository
	cache        adapter.SummaryCache
	policy       valueobject.TolerancePolicy
	thresholds   valueobject.SummaryThresholds
}

// NewComputeSummaryUseCase creates a new ComputeSummaryUseCase instance.
func NewComputeSummaryUseCase(
	documentRepo adapter.DocumentRepository,
	reconRepo adapter.ReconciliationRepository,
	cache adapter.SummaryCache,
	policy valueobject.TolerancePolicy,
	thresholds valueobject.SummaryThresholds,
) *ComputeSummaryUseCase {
	return &ComputeSummaryUseCase{
		documentRepo: documentRepo,
		reconRepo:    reconRepo,
		cache:        cache,
		policy:       policy,
		thresholds:   thresholds,
	}
}

// Execute computes the match summary for the purchase order.
func (uc *ComputeSummaryUseCase) Execute(ctx context.Context, input ComputeSummaryInput) (*ComputeSummaryOutput, error) {
	cycle, err := uc.reconRepo.GetOrCreateCycle(ctx, input.PurchaseOrderID)
	if err != nil {
		return nil, err
	}

	if cached, err := uc.cache.Get(ctx, input.PurchaseOrderID); err == nil && cached != nil {
		if cached.Version == cycle.Version {
			return &ComputeSummaryOutput{Summary: cached}, nil
		}
	}

	documents, err := uc.documentRepo.GetDocumentSet(ctx, input.PurchaseOrderID)
	if err != nil {
		return nil, err
	}

	records, err := valueobject.MatchLineItems(
		documents.PurchaseOrder,
		documents.ReceivingOrder,
		documents.Invoice,
		uc.policy,
	)
	if err != nil {
		return nil, err
	}

	resolutions, err := uc.reconRepo.ListResolutions(ctx, input.PurchaseOrderID, cycle.CycleNumber)
	if err != nil {
		return nil, err
	}
	applyResolutions(records, resolutions)

	summary := valueobject.Summarize(input.PurchaseOrderID, records, uc.thresholds)
	summary.State = cycle.State
	summary.CycleNumber = cycle.CycleNumber
	summary.Version = cycle.Version

	if err := uc.cache.Set(ctx, &summary); err != nil {
		// The cache is an optimization; a write failure must not fail the read.
		slog.Warn("Failed to cache match summary", "error", err, "purchaseOrderID", input.PurchaseOrderID)
	}

	return &ComputeSummaryOutput{Summary: &summary}, nil
}

// applyResolutions replays the cycle's stored resolutions over freshly
// computed records. Resolutions were validated when appended; ones whose item
// key no longer yields a complete record are skipped rather than failing the
// whole summary.
func applyResolutions(records []valueobject.MatchRecord, resolutions []adapter.ResolutionData) {
	if len(resolutions) == 0 {
		return
	}

	index := make(map[string]*valueobject.MatchRecord, len(records))
	for i := range records {
		index[records[i].ItemKey] = &records[i]
	}

	for _, resolution := range resolutions {
		record, ok := index[resolution.ItemKey]
		if !ok || !record.IsComplete() {
			slog.Warn("Stored resolution no longer applies to a complete record",
				"itemKey", resolution.ItemKey,
			)
			continue
		}
		record.ApplyResolution(resolution.ResolvedBy, resolution.Reason, resolution.ResolvedAt)
	}
}
