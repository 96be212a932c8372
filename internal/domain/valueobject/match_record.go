package valueobject

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MatchStatus classifies a single line item across the three documents.
type MatchStatus string

const (
	StatusMatched           MatchStatus = "matched"
	StatusQuantityMismatch  MatchStatus = "quantity_mismatch"
	StatusPriceMismatch     MatchStatus = "price_mismatch"
	StatusBothMismatch      MatchStatus = "both_mismatch"
	StatusAwaitingDocuments MatchStatus = "awaiting_documents"
)

// OverallStatus classifies a whole purchase order's match result.
type OverallStatus string

const (
	OverallFullyMatched         OverallStatus = "fully_matched"
	OverallPartiallyMatched     OverallStatus = "partially_matched"
	OverallSignificantVariances OverallStatus = "significant_variances"
)

// WorkflowState is the review state of a reconciliation cycle.
type WorkflowState string

const (
	StateUnderReview        WorkflowState = "under_review"
	StateAcceptedForPayment WorkflowState = "accepted_for_payment"
	StateCreditNoteIssued   WorkflowState = "credit_note_issued"
)

// IsTerminal reports whether the workflow state ends the reconciliation cycle.
func (s WorkflowState) IsTerminal() bool {
	return s == StateAcceptedForPayment || s == StateCreditNoteIssued
}

// Resolution records a manual override of a mismatched line by a reviewer.
type Resolution struct {
	ResolvedBy uuid.UUID `json:"resolved_by"`
	ResolvedAt time.Time `json:"resolved_at"`
	Reason     string    `json:"reason"`
}

// MatchRecord is the per-item-key result of matching a purchase order against
// its receiving order and invoice. Document-side fields are nil when the
// corresponding document does not carry the item key; variances are only
// meaningful when the record is complete.
type MatchRecord struct {
	ItemKey     string `json:"item_key"`
	Description string `json:"description"`

	POQuantity       *decimal.Decimal `json:"po_quantity"`
	POUnitPrice      *decimal.Decimal `json:"po_unit_price"`
	ReceivedQuantity *decimal.Decimal `json:"received_quantity"`
	InvoiceQuantity  *decimal.Decimal `json:"invoice_quantity"`
	InvoiceUnitPrice *decimal.Decimal `json:"invoice_unit_price"`

	QtyVariance   decimal.Decimal `json:"qty_variance"`
	PriceVariance decimal.Decimal `json:"price_variance"`
	TotalVariance decimal.Decimal `json:"total_variance"`

	// Status is the effective status; ComputedStatus retains the original
	// classification for audit once a resolution overrides it.
	Status         MatchStatus `json:"status"`
	ComputedStatus MatchStatus `json:"computed_status"`
	Resolution     *Resolution `json:"resolution,omitempty"`
}

// IsComplete reports whether the item key is present in all three documents.
func (r *MatchRecord) IsComplete() bool {
	return r.Status != StatusAwaitingDocuments
}

// IsResolved reports whether the record carries a manual resolution and is
// therefore terminal.
func (r *MatchRecord) IsResolved() bool {
	return r.Resolution != nil
}

// ApplyResolution overrides the record's status to Matched while retaining
// the original computed values for audit. The caller is responsible for
// rejecting resolutions on terminal or awaiting records.
func (r *MatchRecord) ApplyResolution(resolvedBy uuid.UUID, reason string, resolvedAt time.Time) {
	r.Resolution = &Resolution{
		ResolvedBy: resolvedBy,
		ResolvedAt: resolvedAt,
		Reason:     reason,
	}
	r.Status = StatusMatched
}

// MatchSummary rolls line-level match records up to a purchase-order-level
// result. It is a pure function of the three documents, the tolerance policy
// and the applied resolutions.
type MatchSummary struct {
	PurchaseOrderID uuid.UUID     `json:"purchase_order_id"`
	Records         []MatchRecord `json:"records"`

	// TotalVariance sums TotalVariance across complete records only.
	TotalVariance decimal.Decimal `json:"total_variance"`

	// MatchedPercent is 100 * matched / complete; zero when no record is
	// complete.
	MatchedPercent decimal.Decimal `json:"matched_percent"`

	OverallStatus OverallStatus `json:"overall_status"`

	// Workflow position of the current reconciliation cycle.
	State       WorkflowState `json:"state"`
	CycleNumber int           `json:"cycle_number"`
	Version     int64         `json:"version"`
}

// RecordByKey returns the record for the given item key, or nil.
func (s *MatchSummary) RecordByKey(itemKey string) *MatchRecord {
	for i := range s.Records {
		if s.Records[i].ItemKey == itemKey {
			return &s.Records[i]
		}
	}
	return nil
}
