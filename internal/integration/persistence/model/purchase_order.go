// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procure-match/backend/internal/domain/entity"
)

// PurchaseOrderModel represents the purchase_orders table in the database.
type PurchaseOrderModel struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	SupplierID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierEmail        string          `gorm:"type:varchar(255);not null"`
	SupplierName         string          `gorm:"type:varchar(255);not null"`
	DateOrdered          time.Time       `gorm:"type:date;not null"`
	DateExpectedDelivery time.Time       `gorm:"type:date;not null"`
	PaymentTerms         string          `gorm:"type:varchar(100)"`
	TotalExpected        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt            time.Time       `gorm:"not null"`
	UpdatedAt            time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Lines []PurchaseOrderLineModel `gorm:"foreignKey:PurchaseOrderID;references:ID"`
}

// TableName returns the table name for the PurchaseOrderModel.
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderLineModel represents the purchase_order_lines table in the database.
// Position preserves the document's original line ordering.
type PurchaseOrderLineModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position        int             `gorm:"not null"`
	ItemKey         string          `gorm:"type:varchar(100);not null"`
	Description     string          `gorm:"type:varchar(255)"`
	Quantity        decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the table name for the PurchaseOrderLineModel.
func (PurchaseOrderLineModel) TableName() string {
	return "purchase_order_lines"
}

// ToEntity converts a PurchaseOrderModel to a domain PurchaseOrder entity.
func (m *PurchaseOrderModel) ToEntity() *entity.PurchaseOrder {
	lines := make([]entity.LineItem, len(m.Lines))
	for i, line := range m.Lines {
		lines[i] = entity.LineItem{
			ItemKey:     line.ItemKey,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}

	return &entity.PurchaseOrder{
		ID:                   m.ID,
		SupplierID:           m.SupplierID,
		SupplierEmail:        m.SupplierEmail,
		SupplierName:         m.SupplierName,
		DateOrdered:          m.DateOrdered,
		DateExpectedDelivery: m.DateExpectedDelivery,
		PaymentTerms:         m.PaymentTerms,
		LineItems:            lines,
		TotalExpected:        m.TotalExpected,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}

// PurchaseOrderFromEntity creates a PurchaseOrderModel from a domain PurchaseOrder entity.
func PurchaseOrderFromEntity(po *entity.PurchaseOrder) *PurchaseOrderModel {
	lines := make([]PurchaseOrderLineModel, len(po.LineItems))
	for i, line := range po.LineItems {
		lines[i] = PurchaseOrderLineModel{
			ID:              uuid.New(),
			PurchaseOrderID: po.ID,
			Position:        i,
			ItemKey:         line.ItemKey,
			Description:     line.Description,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
		}
	}

	return &PurchaseOrderModel{
		ID:                   po.ID,
		SupplierID:           po.SupplierID,
		SupplierEmail:        po.SupplierEmail,
		SupplierName:         po.SupplierName,
		DateOrdered:          po.DateOrdered,
		DateExpectedDelivery: po.DateExpectedDelivery,
		PaymentTerms:         po.PaymentTerms,
		TotalExpected:        po.TotalExpected,
		CreatedAt:            po.CreatedAt,
		UpdatedAt:            po.UpdatedAt,
		Lines:                lines,
	}
}
