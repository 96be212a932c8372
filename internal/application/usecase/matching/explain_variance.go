package matching

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procure-match/backend/internal/application/adapter"
	domainerror "github.com/procure-match/backend/internal/domain/error"
	"github.com/procure-match/backend/internal/domain/valueobject"
)

// ExplainVarianceInput represents the input for explaining a purchase order's variances.
type ExplainVarianceInput struct {
	PurchaseOrderID uuid.UUID
}

// ExplainVarianceOutput represents the AI assessment of the variances.
type ExplainVarianceOutput struct {
	Explanation     string
	ProbableCause   string
	SuggestedAction string
}

// ExplainVarianceUseCase asks the AI service for a human-readable assessment
// of a purchase order's open variances.
type ExplainVarianceUseCase struct {
	documentRepo adapter.DocumentRepository
	explainer    adapter.VarianceExplainer
	summaries    *ComputeSummaryUseCase
}

// NewExplainVarianceUseCase creates a new ExplainVarianceUseCase instance.
func NewExplainVarianceUseCase(
	documentRepo adapter.DocumentRepository,
	explainer adapter.VarianceExplainer,
	summaries *ComputeSummaryUseCase,
) *ExplainVarianceUseCase {
	return &ExplainVarianceUseCase{
		documentRepo: documentRepo,
		explainer:    explainer,
		summaries:    summaries,
	}
}

// Execute analyzes the purchase order's open variances.
func (uc *ExplainVarianceUseCase) Execute(ctx context.Context, input ExplainVarianceInput) (*ExplainVarianceOutput, error) {
	if !uc.explainer.IsAvailable() {
		return nil, domainerror.NewMatchingError(
			domainerror.ErrCodeExplainerUnavailable,
			"variance explainer is not configured",
			domainerror.ErrExplainerUnavailable,
		)
	}

	current, err := uc.summaries.Execute(ctx, ComputeSummaryInput{PurchaseOrderID: input.PurchaseOrderID})
	if err != nil {
		return nil, err
	}
	summary := current.Summary

	variances := varianceLines(summary)
	if len(variances) == 0 {
		return nil, domainerror.NewMatchingError(
			domainerror.ErrCodeRecordNotFound,
			"purchase order has no open variances to explain",
			domainerror.ErrRecordNotFound,
		)
	}

	documents, err := uc.documentRepo.GetDocumentSet(ctx, input.PurchaseOrderID)
	if err != nil {
		return nil, err
	}

	request := &adapter.ExplainVarianceRequest{
		SupplierName:  documents.PurchaseOrder.SupplierName,
		Variances:     variances,
		TotalVariance: summary.TotalVariance.StringFixed(2),
	}
	if documents.ReceivingOrder != nil {
		request.Condition = string(documents.ReceivingOrder.Condition)
	}

	result, err := uc.explainer.Explain(ctx, request)
	if err != nil {
		return nil, domainerror.NewMatchingError(
			domainerror.ErrCodeExplainerFailed,
			"variance explainer request failed",
			err,
		)
	}

	return &ExplainVarianceOutput{
		Explanation:     result.Explanation,
		ProbableCause:   result.ProbableCause,
		SuggestedAction: result.SuggestedAction,
	}, nil
}

// varianceLines converts the summary's open mismatches into the AI request shape.
func varianceLines(summary *valueobject.MatchSummary) []adapter.VarianceForAI {
	lines := make([]adapter.VarianceForAI, 0)
	for i := range summary.Records {
		record := &summary.Records[i]
		if !record.IsComplete() || record.Status == valueobject.StatusMatched {
			continue
		}
		lines = append(lines, adapter.VarianceForAI{
			ItemKey:          record.ItemKey,
			Description:      record.Description,
			Status:           string(record.Status),
			POQuantity:       decimalString(record.POQuantity),
			ReceivedQuantity: decimalString(record.ReceivedQuantity),
			InvoiceQuantity:  decimalString(record.InvoiceQuantity),
			POUnitPrice:      decimalString(record.POUnitPrice),
			InvoiceUnitPrice: decimalString(record.InvoiceUnitPrice),
			TotalVariance:    record.TotalVariance.StringFixed(2),
		})
	}
	return lines
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
