// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/domain/valueobject"
)

// summaryTTL caps staleness for summaries whose documents changed without a
// workflow action bumping the cycle version.
const summaryTTL = 10 * time.Minute

// redisSummaryCache implements the adapter.SummaryCache interface.
type redisSummaryCache struct {
	client *redis.Client
}

// NewRedisSummaryCache creates a new summary cache instance.
func NewRedisSummaryCache(client *redis.Client) adapter.SummaryCache {
	return &redisSummaryCache{
		client: client,
	}
}

// Get returns the cached summary for the purchase order, or nil on a miss.
func (c *redisSummaryCache) Get(ctx context.Context, purchaseOrderID uuid.UUID) (*valueobject.MatchSummary, error) {
	payload, err := c.client.Get(ctx, summaryKey(purchaseOrderID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var summary valueobject.MatchSummary
	if err := json.Unmarshal(payload, &summary); err != nil {
		// A corrupt entry is a miss; it will be overwritten on the next Set.
		return nil, nil
	}
	return &summary, nil
}

// Set stores the summary.
func (c *redisSummaryCache) Set(ctx context.Context, summary *valueobject.MatchSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, summaryKey(summary.PurchaseOrderID), payload, summaryTTL).Err()
}

// Invalidate drops the cached summary.
func (c *redisSummaryCache) Invalidate(ctx context.Context, purchaseOrderID uuid.UUID) error {
	return c.client.Del(ctx, summaryKey(purchaseOrderID)).Err()
}

func summaryKey(purchaseOrderID uuid.UUID) string {
	return fmt.Sprintf("match:summary:%s", purchaseOrderID)
}
