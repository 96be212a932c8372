// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/domain/entity"
	domainerror "github.com/procure-match/backend/internal/domain/error"
	"github.com/procure-match/backend/internal/domain/valueobject"
	"github.com/procure-match/backend/internal/integration/persistence/model"
)

// reconciliationRepository implements the adapter.ReconciliationRepository interface.
type reconciliationRepository struct {
	db *gorm.DB
}

// NewReconciliationRepository creates a new reconciliation repository instance.
func NewReconciliationRepository(db *gorm.DB) adapter.ReconciliationRepository {
	return &reconciliationRepository{
		db: db,
	}
}

// GetOrCreateCycle returns the latest cycle for the purchase order, creating
// cycle 1 in UnderReview on first access.
func (r *reconciliationRepository) GetOrCreateCycle(ctx context.Context, purchaseOrderID uuid.UUID) (*adapter.CycleData, error) {
	var cycleModel model.ReconciliationCycleModel
	result := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", purchaseOrderID).
		Order("cycle_number DESC").
		First(&cycleModel)

	if result.Error != nil {
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, result.Error
		}

		now := time.Now().UTC()
		cycleModel = model.ReconciliationCycleModel{
			ID:              uuid.New(),
			PurchaseOrderID: purchaseOrderID,
			CycleNumber:     1,
			State:           string(valueobject.StateUnderReview),
			Version:         1,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := r.db.WithContext(ctx).Create(&cycleModel).Error; err != nil {
			return nil, err
		}
	}

	return &adapter.CycleData{
		PurchaseOrderID: cycleModel.PurchaseOrderID,
		CycleNumber:     cycleModel.CycleNumber,
		State:           valueobject.WorkflowState(cycleModel.State),
		Version:         cycleModel.Version,
	}, nil
}

// ListResolutions returns all resolutions of the cycle in application order.
func (r *reconciliationRepository) ListResolutions(ctx context.Context, purchaseOrderID uuid.UUID, cycleNumber int) ([]adapter.ResolutionData, error) {
	var models []model.ResolutionModel
	result := r.db.WithContext(ctx).
		Where("purchase_order_id = ? AND cycle_number = ?", purchaseOrderID, cycleNumber).
		Order("resolved_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	resolutions := make([]adapter.ResolutionData, len(models))
	for i, m := range models {
		resolutions[i] = adapter.ResolutionData{
			ItemKey:    m.ItemKey,
			Reason:     m.Reason,
			ResolvedBy: m.ResolvedBy,
			ResolvedAt: m.ResolvedAt,
		}
	}

	return resolutions, nil
}

// AppendResolution stores a resolution and bumps the cycle version in one
// transaction. The version predicate makes concurrent workflow actions lose
// cleanly instead of double-applying.
func (r *reconciliationRepository) AppendResolution(ctx context.Context, purchaseOrderID uuid.UUID, cycleNumber int, resolution adapter.ResolutionData, expectedVersion int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		err := tx.Model(&model.ResolutionModel{}).
			Where("purchase_order_id = ? AND cycle_number = ? AND item_key = ?", purchaseOrderID, cycleNumber, resolution.ItemKey).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return domainerror.NewWorkflowError(
				domainerror.ErrCodeAlreadyResolved,
				"item key already resolved within this cycle",
				domainerror.ErrAlreadyResolved,
			)
		}

		resolutionModel := model.ResolutionModel{
			ID:              uuid.New(),
			PurchaseOrderID: purchaseOrderID,
			CycleNumber:     cycleNumber,
			ItemKey:         resolution.ItemKey,
			Reason:          resolution.Reason,
			ResolvedBy:      resolution.ResolvedBy,
			ResolvedAt:      resolution.ResolvedAt,
		}
		if err := tx.Create(&resolutionModel).Error; err != nil {
			return err
		}

		return bumpCycleVersion(tx, purchaseOrderID, cycleNumber, expectedVersion)
	})
}

// TransitionCycleState moves the cycle between workflow states and bumps the
// version. Both the source state and the expected version are part of the
// update predicate.
func (r *reconciliationRepository) TransitionCycleState(ctx context.Context, purchaseOrderID uuid.UUID, cycleNumber int, from, to valueobject.WorkflowState, expectedVersion int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.ReconciliationCycleModel{}).
		Where("purchase_order_id = ? AND cycle_number = ? AND state = ? AND version = ?",
			purchaseOrderID, cycleNumber, string(from), expectedVersion).
		Updates(map[string]interface{}{
			"state":      string(to),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.NewWorkflowError(
			domainerror.ErrCodeConcurrencyConflict,
			"reconciliation state changed concurrently",
			domainerror.ErrConcurrencyConflict,
		)
	}
	return nil
}

// SaveCreditNote persists an issued credit note.
func (r *reconciliationRepository) SaveCreditNote(ctx context.Context, note *entity.CreditNote) error {
	noteModel := model.CreditNoteFromEntity(note)
	return r.db.WithContext(ctx).Create(noteModel).Error
}

// AppendAuditEvent appends a workflow audit event.
func (r *reconciliationRepository) AppendAuditEvent(ctx context.Context, event *entity.AuditEvent) error {
	eventModel := model.AuditEventFromEntity(event)
	return r.db.WithContext(ctx).Create(eventModel).Error
}

// ListAuditEvents returns all audit events for a purchase order in
// chronological order.
func (r *reconciliationRepository) ListAuditEvents(ctx context.Context, purchaseOrderID uuid.UUID) ([]*entity.AuditEvent, error) {
	var models []model.AuditEventModel
	result := r.db.WithContext(ctx).
		Where("purchase_order_id = ?", purchaseOrderID).
		Order("occurred_at ASC").
		Find(&models)
	if result.Error != nil {
		return nil, result.Error
	}

	events := make([]*entity.AuditEvent, len(models))
	for i, m := range models {
		events[i] = m.ToEntity()
	}

	return events, nil
}

// bumpCycleVersion increments the cycle version if it still matches the
// version the caller observed.
func bumpCycleVersion(tx *gorm.DB, purchaseOrderID uuid.UUID, cycleNumber int, expectedVersion int64) error {
	result := tx.Model(&model.ReconciliationCycleModel{}).
		Where("purchase_order_id = ? AND cycle_number = ? AND version = ?", purchaseOrderID, cycleNumber, expectedVersion).
		Updates(map[string]interface{}{
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.NewWorkflowError(
			domainerror.ErrCodeConcurrencyConflict,
			"reconciliation state changed concurrently",
			domainerror.ErrConcurrencyConflict,
		)
	}
	return nil
}
