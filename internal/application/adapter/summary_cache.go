// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/domain/valueobject"
)

// SummaryCache caches computed match summaries per purchase order. Cached
// entries carry the cycle version they were computed at; callers must discard
// entries whose version no longer matches the current cycle.
type SummaryCache interface {
	// Get returns the cached summary for the purchase order, or nil on a
	// cache miss. Cache failures are reported as a miss.
	Get(ctx context.Context, purchaseOrderID uuid.UUID) (*valueobject.MatchSummary, error)

	// Set stores the summary. Failures are non-fatal to the caller.
	Set(ctx context.Context, summary *valueobject.MatchSummary) error

	// Invalidate drops the cached summary after a workflow action.
	Invalidate(ctx context.Context, purchaseOrderID uuid.UUID) error
}
