// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/procure-match/backend/internal/application/adapter"
	domainerror "github.com/procure-match/backend/internal/domain/error"
	"github.com/procure-match/backend/internal/integration/persistence/model"
)

// documentRepository implements the adapter.DocumentRepository interface.
type documentRepository struct {
	db *gorm.DB
}

// NewDocumentRepository creates a new document repository instance.
func NewDocumentRepository(db *gorm.DB) adapter.DocumentRepository {
	return &documentRepository{
		db: db,
	}
}

// GetDocumentSet retrieves the purchase order and, when present, its
// receiving order and invoice. Line items are loaded in document order.
func (r *documentRepository) GetDocumentSet(ctx context.Context, purchaseOrderID uuid.UUID) (*adapter.DocumentSet, error) {
	var poModel model.PurchaseOrderModel
	result := r.db.WithContext(ctx).
		Preload("Lines", orderByPosition).
		Where("id = ?", purchaseOrderID).
		First(&poModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.NewMatchingError(
				domainerror.ErrCodePurchaseOrderNotFound,
				"purchase order not found",
				domainerror.ErrPurchaseOrderNotFound,
			)
		}
		return nil, result.Error
	}

	documents := &adapter.DocumentSet{
		PurchaseOrder: poModel.ToEntity(),
	}

	var roModel model.ReceivingOrderModel
	result = r.db.WithContext(ctx).
		Preload("Lines", orderByPosition).
		Where("purchase_order_id = ?", purchaseOrderID).
		First(&roModel)
	switch {
	case result.Error == nil:
		documents.ReceivingOrder = roModel.ToEntity()
	case !errors.Is(result.Error, gorm.ErrRecordNotFound):
		return nil, result.Error
	}

	var invModel model.InvoiceModel
	result = r.db.WithContext(ctx).
		Preload("Lines", orderByPosition).
		Where("purchase_order_id = ?", purchaseOrderID).
		First(&invModel)
	switch {
	case result.Error == nil:
		documents.Invoice = invModel.ToEntity()
	case !errors.Is(result.Error, gorm.ErrRecordNotFound):
		return nil, result.Error
	}

	return documents, nil
}

// orderByPosition preserves the original line ordering on preloads.
func orderByPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
