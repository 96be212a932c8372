// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/procure-match/backend/internal/application/adapter"
	domainerror "github.com/procure-match/backend/internal/domain/error"
)

// lockTTL bounds how long a crashed holder can block other reviewers.
const lockTTL = 30 * time.Second

// redisSessionLock implements the adapter.SessionLock interface on top of
// redislock. One lock per purchase order serializes workflow actions across
// service instances.
type redisSessionLock struct {
	locker *redislock.Client
}

// NewRedisSessionLock creates a new session lock instance.
func NewRedisSessionLock(client *redis.Client) adapter.SessionLock {
	return &redisSessionLock{
		locker: redislock.New(client),
	}
}

// Acquire takes the lock for the purchase order.
func (l *redisSessionLock) Acquire(ctx context.Context, purchaseOrderID uuid.UUID) (func(), error) {
	key := fmt.Sprintf("match:lock:%s", purchaseOrderID)

	lock, err := l.locker.Obtain(ctx, key, lockTTL, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, domainerror.NewWorkflowError(
			domainerror.ErrCodeSessionLocked,
			"purchase order is being reviewed by another session",
			domainerror.ErrSessionLocked,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain session lock: %w", err)
	}

	release := func() {
		if err := lock.Release(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("Failed to release session lock", "error", err, "key", key)
		}
	}
	return release, nil
}
