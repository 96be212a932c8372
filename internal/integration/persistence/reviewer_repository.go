// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/domain/entity"
	domainerror "github.com/procure-match/backend/internal/domain/error"
	"github.com/procure-match/backend/internal/integration/persistence/model"
)

// reviewerRepository implements the adapter.ReviewerRepository interface.
type reviewerRepository struct {
	db *gorm.DB
}

// NewReviewerRepository creates a new reviewer repository instance.
func NewReviewerRepository(db *gorm.DB) adapter.ReviewerRepository {
	return &reviewerRepository{
		db: db,
	}
}

// Create creates a new reviewer in the database.
func (r *reviewerRepository) Create(ctx context.Context, reviewer *entity.Reviewer) error {
	reviewerModel := model.ReviewerFromEntity(reviewer)
	return r.db.WithContext(ctx).Create(reviewerModel).Error
}

// FindByID retrieves a reviewer by their ID.
func (r *reviewerRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reviewer, error) {
	var reviewerModel model.ReviewerModel
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&reviewerModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrReviewerNotFound
		}
		return nil, result.Error
	}
	return reviewerModel.ToEntity(), nil
}

// FindByEmail retrieves a reviewer by their email address.
func (r *reviewerRepository) FindByEmail(ctx context.Context, email string) (*entity.Reviewer, error) {
	var reviewerModel model.ReviewerModel
	result := r.db.WithContext(ctx).Where("email = ?", email).First(&reviewerModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrReviewerNotFound
		}
		return nil, result.Error
	}
	return reviewerModel.ToEntity(), nil
}
