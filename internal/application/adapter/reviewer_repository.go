// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/domain/entity"
)

// ReviewerRepository defines the interface for reviewer persistence operations.
type ReviewerRepository interface {
	// Create creates a new reviewer in the database.
	Create(ctx context.Context, reviewer *entity.Reviewer) error

	// FindByID retrieves a reviewer by their ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reviewer, error)

	// FindByEmail retrieves a reviewer by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.Reviewer, error)
}
