// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/domain/entity"
)

// DocumentSet bundles the three documents under reconciliation for one
// purchase order. ReceivingOrder and Invoice are nil when not yet submitted.
type DocumentSet struct {
	PurchaseOrder  *entity.PurchaseOrder
	ReceivingOrder *entity.ReceivingOrder
	Invoice        *entity.Invoice
}

// DocumentRepository provides read-only access to the procurement document
// store. The engine never writes documents; they are owned externally.
type DocumentRepository interface {
	// GetDocumentSet retrieves the purchase order and, when present, its
	// receiving order and invoice. Returns a matching domain error when the
	// purchase order does not exist.
	GetDocumentSet(ctx context.Context, purchaseOrderID uuid.UUID) (*DocumentSet, error)
}
