// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procure-match/backend/internal/domain/entity"
)

// InvoiceModel represents the invoices table in the database.
type InvoiceModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	DateIssued      time.Time       `gorm:"type:date;not null"`
	DateDue         time.Time       `gorm:"type:date;not null"`
	SupplierRef     string          `gorm:"type:varchar(100)"`
	Total           decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt       time.Time       `gorm:"not null"`
	UpdatedAt       time.Time       `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Lines []InvoiceLineModel `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for the InvoiceModel.
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceLineModel represents the invoice_lines table in the database.
type InvoiceLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"`
	InvoiceID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position    int             `gorm:"not null"`
	ItemKey     string          `gorm:"type:varchar(100);not null"`
	Description string          `gorm:"type:varchar(255)"`
	Quantity    decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the table name for the InvoiceLineModel.
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToEntity converts an InvoiceModel to a domain Invoice entity.
func (m *InvoiceModel) ToEntity() *entity.Invoice {
	lines := make([]entity.LineItem, len(m.Lines))
	for i, line := range m.Lines {
		lines[i] = entity.LineItem{
			ItemKey:     line.ItemKey,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}

	return &entity.Invoice{
		ID:              m.ID,
		PurchaseOrderID: m.PurchaseOrderID,
		DateIssued:      m.DateIssued,
		DateDue:         m.DateDue,
		SupplierRef:     m.SupplierRef,
		LineItems:       lines,
		Total:           m.Total,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// InvoiceFromEntity creates an InvoiceModel from a domain Invoice entity.
func InvoiceFromEntity(inv *entity.Invoice) *InvoiceModel {
	lines := make([]InvoiceLineModel, len(inv.LineItems))
	for i, line := range inv.LineItems {
		lines[i] = InvoiceLineModel{
			ID:          uuid.New(),
			InvoiceID:   inv.ID,
			Position:    i,
			ItemKey:     line.ItemKey,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}

	return &InvoiceModel{
		ID:              inv.ID,
		PurchaseOrderID: inv.PurchaseOrderID,
		DateIssued:      inv.DateIssued,
		DateDue:         inv.DateDue,
		SupplierRef:     inv.SupplierRef,
		Total:           inv.Total,
		CreatedAt:       inv.CreatedAt,
		UpdatedAt:       inv.UpdatedAt,
		Lines:           lines,
	}
}
