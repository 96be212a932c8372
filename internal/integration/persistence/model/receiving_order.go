// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procure-match/backend/internal/domain/entity"
)

// ReceivingOrderModel represents the receiving_orders table in the database.
type ReceivingOrderModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DateReceived    time.Time `gorm:"type:date;not null"`
	ReceivedBy      string    `gorm:"type:varchar(255)"`
	Condition       string    `gorm:"type:varchar(20);not null"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`

	// Relationships (not loaded by default, use Preload)
	Lines []ReceivingOrderLineModel `gorm:"foreignKey:ReceivingOrderID;references:ID"`
}

// TableName returns the table name for the ReceivingOrderModel.
func (ReceivingOrderModel) TableName() string {
	return "receiving_orders"
}

// ReceivingOrderLineModel represents the receiving_order_lines table in the database.
type ReceivingOrderLineModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ReceivingOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position         int             `gorm:"not null"`
	ItemKey          string          `gorm:"type:varchar(100);not null"`
	Description      string          `gorm:"type:varchar(255)"`
	Quantity         decimal.Decimal `gorm:"type:decimal(15,3);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the table name for the ReceivingOrderLineModel.
func (ReceivingOrderLineModel) TableName() string {
	return "receiving_order_lines"
}

// ToEntity converts a ReceivingOrderModel to a domain ReceivingOrder entity.
func (m *ReceivingOrderModel) ToEntity() *entity.ReceivingOrder {
	lines := make([]entity.LineItem, len(m.Lines))
	for i, line := range m.Lines {
		lines[i] = entity.LineItem{
			ItemKey:     line.ItemKey,
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
		}
	}

	return &entity.ReceivingOrder{
		ID:              m.ID,
		PurchaseOrderID: m.PurchaseOrderID,
		DateReceived:    m.DateReceived,
		ReceivedBy:      m.ReceivedBy,
		Condition:       entity.ReceivingCondition(m.Condition),
		LineItems:       lines,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ReceivingOrderFromEntity creates a ReceivingOrderModel from a domain ReceivingOrder entity.
func ReceivingOrderFromEntity(ro *entity.ReceivingOrder) *ReceivingOrderModel {
	lines := make([]ReceivingOrderLineModel, len(ro.LineItems))
	for i, line := range ro.LineItems {
		lines[i] = ReceivingOrderLineModel{
			ID:               uuid.New(),
			ReceivingOrderID: ro.ID,
			Position:         i,
			ItemKey:          line.ItemKey,
			Description:      line.Description,
			Quantity:         line.Quantity,
			UnitPrice:        line.UnitPrice,
		}
	}

	return &ReceivingOrderModel{
		ID:              ro.ID,
		PurchaseOrderID: ro.PurchaseOrderID,
		DateReceived:    ro.DateReceived,
		ReceivedBy:      ro.ReceivedBy,
		Condition:       string(ro.Condition),
		CreatedAt:       ro.CreatedAt,
		UpdatedAt:       ro.UpdatedAt,
		Lines:           lines,
	}
}
