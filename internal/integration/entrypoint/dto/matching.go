// Package dto defines data transfer objects for API requests and responses.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/procure-match/backend/internal/domain/entity"
	"github.com/procure-match/backend/internal/domain/valueobject"
)

// ResolveVarianceRequest represents the request body for resolving a variance.
type ResolveVarianceRequest struct {
	ItemKey string `json:"item_key" binding:"required"`
	Reason  string `json:"reason" binding:"required,min=3,max=500"`
}

// ResolutionDTO represents a manual resolution in API responses.
type ResolutionDTO struct {
	ResolvedBy string    `json:"resolved_by"`
	ResolvedAt time.Time `json:"resolved_at"`
	Reason     string    `json:"reason"`
}

// MatchRecordDTO represents a single line-level match result in API responses.
// Document-side fields are null when the item key is absent from the document.
type MatchRecordDTO struct {
	ItemKey     string `json:"item_key"`
	Description string `json:"description"`

	POQuantity       *string `json:"po_quantity"`
	POUnitPrice      *string `json:"po_unit_price"`
	ReceivedQuantity *string `json:"received_quantity"`
	InvoiceQuantity  *string `json:"invoice_quantity"`
	InvoiceUnitPrice *string `json:"invoice_unit_price"`

	QtyVariance   string `json:"qty_variance"`
	PriceVariance string `json:"price_variance"`
	TotalVariance string `json:"total_variance"`

	Status         string         `json:"status"`
	ComputedStatus string         `json:"computed_status"`
	Resolution     *ResolutionDTO `json:"resolution,omitempty"`
}

// MatchSummaryResponse represents the purchase-order-level match result.
type MatchSummaryResponse struct {
	PurchaseOrderID string           `json:"purchase_order_id"`
	Records         []MatchRecordDTO `json:"records"`
	TotalVariance   string           `json:"total_variance"`
	MatchedPercent  string           `json:"matched_percent"`
	OverallStatus   string           `json:"overall_status"`
	State           string           `json:"state"`
	CycleNumber     int              `json:"cycle_number"`
	Version         int64            `json:"version"`
}

// CreditNoteDTO represents an issued credit note in API responses.
type CreditNoteDTO struct {
	ID              string    `json:"id"`
	PurchaseOrderID string    `json:"purchase_order_id"`
	Amount          string    `json:"amount"`
	IssuedBy        string    `json:"issued_by"`
	IssuedAt        time.Time `json:"issued_at"`
}

// GenerateCreditNoteResponse represents the response for issuing a credit note.
type GenerateCreditNoteResponse struct {
	CreditNote CreditNoteDTO        `json:"credit_note"`
	Summary    MatchSummaryResponse `json:"summary"`
}

// ExplainVarianceResponse represents the AI variance assessment.
type ExplainVarianceResponse struct {
	Explanation     string `json:"explanation"`
	ProbableCause   string `json:"probable_cause"`
	SuggestedAction string `json:"suggested_action"`
}

// AuditEventDTO represents a workflow audit event in API responses.
type AuditEventDTO struct {
	ID          string    `json:"id"`
	CycleNumber int       `json:"cycle_number"`
	Actor       string    `json:"actor"`
	ActorEmail  string    `json:"actor_email"`
	Action      string    `json:"action"`
	ItemKeys    []string  `json:"item_keys"`
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// AuditTrailResponse represents the audit trail of a purchase order.
type AuditTrailResponse struct {
	PurchaseOrderID string          `json:"purchase_order_id"`
	Events          []AuditEventDTO `json:"events"`
}

// ToMatchSummaryResponse converts a domain MatchSummary to its response DTO.
func ToMatchSummaryResponse(summary *valueobject.MatchSummary) MatchSummaryResponse {
	records := make([]MatchRecordDTO, len(summary.Records))
	for i := range summary.Records {
		records[i] = toMatchRecordDTO(&summary.Records[i])
	}

	return MatchSummaryResponse{
		PurchaseOrderID: summary.PurchaseOrderID.String(),
		Records:         records,
		TotalVariance:   summary.TotalVariance.String(),
		MatchedPercent:  summary.MatchedPercent.StringFixed(2),
		OverallStatus:   string(summary.OverallStatus),
		State:           string(summary.State),
		CycleNumber:     summary.CycleNumber,
		Version:         summary.Version,
	}
}

// ToCreditNoteDTO converts a domain CreditNote entity to its DTO.
func ToCreditNoteDTO(note *entity.CreditNote) CreditNoteDTO {
	return CreditNoteDTO{
		ID:              note.ID.String(),
		PurchaseOrderID: note.PurchaseOrderID.String(),
		Amount:          note.Amount.String(),
		IssuedBy:        note.IssuedBy.String(),
		IssuedAt:        note.IssuedAt,
	}
}

// ToAuditEventDTO converts a domain AuditEvent entity to its DTO.
func ToAuditEventDTO(event *entity.AuditEvent) AuditEventDTO {
	itemKeys := event.ItemKeys
	if itemKeys == nil {
		itemKeys = []string{}
	}

	return AuditEventDTO{
		ID:          event.ID.String(),
		CycleNumber: event.CycleNumber,
		Actor:       event.Actor.String(),
		ActorEmail:  event.ActorEmail,
		Action:      string(event.Action),
		ItemKeys:    itemKeys,
		FromStatus:  event.FromStatus,
		ToStatus:    event.ToStatus,
		OccurredAt:  event.OccurredAt,
	}
}

func toMatchRecordDTO(record *valueobject.MatchRecord) MatchRecordDTO {
	dto := MatchRecordDTO{
		ItemKey:          record.ItemKey,
		Description:      record.Description,
		POQuantity:       decimalToStringPtr(record.POQuantity),
		POUnitPrice:      decimalToStringPtr(record.POUnitPrice),
		ReceivedQuantity: decimalToStringPtr(record.ReceivedQuantity),
		InvoiceQuantity:  decimalToStringPtr(record.InvoiceQuantity),
		InvoiceUnitPrice: decimalToStringPtr(record.InvoiceUnitPrice),
		QtyVariance:      record.QtyVariance.String(),
		PriceVariance:    record.PriceVariance.String(),
		TotalVariance:    record.TotalVariance.String(),
		Status:           string(record.Status),
		ComputedStatus:   string(record.ComputedStatus),
	}

	if record.Resolution != nil {
		dto.Resolution = &ResolutionDTO{
			ResolvedBy: record.Resolution.ResolvedBy.String(),
			ResolvedAt: record.Resolution.ResolvedAt,
			Reason:     record.Resolution.Reason,
		}
	}

	return dto
}

func decimalToStringPtr(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}
