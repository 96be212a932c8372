// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"
)

// SessionLock serializes workflow actions on a single purchase order across
// service instances. Acquire returns a release function that must be called
// once the action is committed.
type SessionLock interface {
	// Acquire takes the lock for the purchase order. Returns a workflow
	// session-locked error when another actor currently holds it.
	Acquire(ctx context.Context, purchaseOrderID uuid.UUID) (release func(), err error)
}
