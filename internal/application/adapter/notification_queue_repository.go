// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/domain/entity"
)

// NotificationQueueRepository defines the interface for notification queue persistence operations.
type NotificationQueueRepository interface {
	// Create adds a new notification job to the queue.
	Create(ctx context.Context, job *entity.NotificationJob) error

	// GetPendingJobs retrieves jobs ready to be processed, ordered by scheduled_at.
	GetPendingJobs(ctx context.Context, limit int) ([]*entity.NotificationJob, error)

	// Update saves changes to a notification job.
	Update(ctx context.Context, job *entity.NotificationJob) error

	// GetByID retrieves a specific job by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*entity.NotificationJob, error)

	// GetByRecipient retrieves jobs for a specific email address (for testing/debugging).
	GetByRecipient(ctx context.Context, email string) ([]*entity.NotificationJob, error)
}
