// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// VarianceForAI represents one mismatched line for AI analysis.
type VarianceForAI struct {
	ItemKey          string
	Description      string
	Status           string
	POQuantity       string
	ReceivedQuantity string
	InvoiceQuantity  string
	POUnitPrice      string
	InvoiceUnitPrice string
	TotalVariance    string
}

// ExplainVarianceRequest represents a request to explain a purchase order's variances.
type ExplainVarianceRequest struct {
	SupplierName  string
	Variances     []VarianceForAI
	TotalVariance string
	Condition     string
}

// ExplainVarianceResult represents the AI's analysis of the variances.
type ExplainVarianceResult struct {
	Explanation     string
	ProbableCause   string
	SuggestedAction string
}

// VarianceExplainer defines the interface for AI-assisted variance analysis.
type VarianceExplainer interface {
	// Explain analyzes the variances and returns a human-readable assessment.
	Explain(ctx context.Context, request *ExplainVarianceRequest) (*ExplainVarianceResult, error)

	// IsAvailable checks if the AI service is available and properly configured.
	IsAvailable() bool
}
