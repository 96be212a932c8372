// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/procure-match/backend/internal/domain/entity"
)

// ReconciliationCycleModel represents the reconciliation_cycles table in the database.
// Version is bumped by every committed workflow action and backs the
// optimistic concurrency check.
type ReconciliationCycleModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_cycle_po_number,priority:1"`
	CycleNumber     int       `gorm:"not null;uniqueIndex:idx_cycle_po_number,priority:2"`
	State           string    `gorm:"type:varchar(30);not null"`
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

// TableName returns the table name for the ReconciliationCycleModel.
func (ReconciliationCycleModel) TableName() string {
	return "reconciliation_cycles"
}

// ResolutionModel represents the match_resolutions table in the database.
// A line may be resolved at most once per cycle.
type ResolutionModel struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_resolution_cycle_item,priority:1"`
	CycleNumber     int       `gorm:"not null;uniqueIndex:idx_resolution_cycle_item,priority:2"`
	ItemKey         string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_resolution_cycle_item,priority:3"`
	Reason          string    `gorm:"type:text;not null"`
	ResolvedBy      uuid.UUID `gorm:"type:uuid;not null"`
	ResolvedAt      time.Time `gorm:"not null"`
}

// TableName returns the table name for the ResolutionModel.
func (ResolutionModel) TableName() string {
	return "match_resolutions"
}

// CreditNoteModel represents the credit_notes table in the database.
type CreditNoteModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount          decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	IssuedBy        uuid.UUID       `gorm:"type:uuid;not null"`
	IssuedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for the CreditNoteModel.
func (CreditNoteModel) TableName() string {
	return "credit_notes"
}

// ToEntity converts a CreditNoteModel to a domain CreditNote entity.
func (m *CreditNoteModel) ToEntity() *entity.CreditNote {
	return &entity.CreditNote{
		ID:              m.ID,
		PurchaseOrderID: m.PurchaseOrderID,
		Amount:          m.Amount,
		IssuedBy:        m.IssuedBy,
		IssuedAt:        m.IssuedAt,
	}
}

// CreditNoteFromEntity creates a CreditNoteModel from a domain CreditNote entity.
func CreditNoteFromEntity(note *entity.CreditNote) *CreditNoteModel {
	return &CreditNoteModel{
		ID:              note.ID,
		PurchaseOrderID: note.PurchaseOrderID,
		Amount:          note.Amount,
		IssuedBy:        note.IssuedBy,
		IssuedAt:        note.IssuedAt,
	}
}

// AuditEventModel represents the audit_events table in the database.
type AuditEventModel struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	PurchaseOrderID uuid.UUID      `gorm:"type:uuid;not null;index"`
	CycleNumber     int            `gorm:"not null"`
	Actor           uuid.UUID      `gorm:"type:uuid;not null"`
	ActorEmail      string         `gorm:"type:varchar(255);not null"`
	Action          string         `gorm:"type:varchar(30);not null"`
	ItemKeys        pq.StringArray `gorm:"type:text[]"`
	FromStatus      string         `gorm:"type:varchar(30);not null"`
	ToStatus        string         `gorm:"type:varchar(30);not null"`
	OccurredAt      time.Time      `gorm:"not null;index"`
}

// TableName returns the table name for the AuditEventModel.
func (AuditEventModel) TableName() string {
	return "audit_events"
}

// ToEntity converts an AuditEventModel to a domain AuditEvent entity.
func (m *AuditEventModel) ToEntity() *entity.AuditEvent {
	return &entity.AuditEvent{
		ID:              m.ID,
		PurchaseOrderID: m.PurchaseOrderID,
		CycleNumber:     m.CycleNumber,
		Actor:           m.Actor,
		ActorEmail:      m.ActorEmail,
		Action:          entity.AuditAction(m.Action),
		ItemKeys:        []string(m.ItemKeys),
		FromStatus:      m.FromStatus,
		ToStatus:        m.ToStatus,
		OccurredAt:      m.OccurredAt,
	}
}

// AuditEventFromEntity creates an AuditEventModel from a domain AuditEvent entity.
func AuditEventFromEntity(event *entity.AuditEvent) *AuditEventModel {
	return &AuditEventModel{
		ID:              event.ID,
		PurchaseOrderID: event.PurchaseOrderID,
		CycleNumber:     event.CycleNumber,
		Actor:           event.Actor,
		ActorEmail:      event.ActorEmail,
		Action:          string(event.Action),
		ItemKeys:        pq.StringArray(event.ItemKeys),
		FromStatus:      event.FromStatus,
		ToStatus:        event.ToStatus,
		OccurredAt:      event.OccurredAt,
	}
}
