// Package adapters provides implementations for external service integrations.
package adapters

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/procure-match/backend/internal/application/adapter"
)

// GeminiService implements the VarianceExplainer using Google Gemini.
type GeminiService struct {
	apiKey    string
	modelName string
}

// NewGeminiService creates a new Gemini service instance.
func NewGeminiService(apiKey string) *GeminiService {
	return &GeminiService{
		apiKey:    apiKey,
		modelName: "gemini-2.5-flash-lite",
	}
}

// IsAvailable checks if the Gemini service is available and properly configured.
func (s *GeminiService) IsAvailable() bool {
	return s.apiKey != ""
}

// Explain analyzes a purchase order's variances and returns an assessment.
func (s *GeminiService) Explain(ctx context.Context, request *adapter.ExplainVarianceRequest) (*adapter.ExplainVarianceResult, error) {
	if !s.IsAvailable() {
		return nil, fmt.Errorf("gemini service is not configured")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(s.apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(s.modelName)

	// Configure model for JSON output
	model.SetTemperature(0.3)
	model.ResponseMIMEType = "application/json"

	prompt := s.buildPrompt(request)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	result, err := s.parseResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return result, nil
}

// buildPrompt creates the prompt for Gemini.
func (s *GeminiService) buildPrompt(request *adapter.ExplainVarianceRequest) string {
	var sb strings.Builder

	sb.WriteString(`You are an accounts payable analyst reviewing a three-way match between a purchase order, a receiving order and a supplier invoice. Your task is to explain the discrepancies found and suggest how the procurement team should proceed.

CONTEXT:
- "quantity_mismatch" means the received or invoiced quantity deviates from the ordered quantity beyond tolerance
- "price_mismatch" means the invoiced unit price deviates from the ordered unit price beyond tolerance
- "both_mismatch" means both quantity and price deviate
- A negative total variance means the supplier billed more than was ordered (overbilling)
- A positive total variance means the supplier billed less than was ordered

`)

	sb.WriteString(fmt.Sprintf("SUPPLIER: %s\n", request.SupplierName))
	if request.Condition != "" {
		sb.WriteString(fmt.Sprintf("DELIVERY CONDITION REPORTED AT RECEIVING: %s\n", request.Condition))
	}
	sb.WriteString(fmt.Sprintf("TOTAL VARIANCE: %s\n", request.TotalVariance))

	sb.WriteString("\nMISMATCHED LINES:\n")
	for _, v := range request.Variances {
		sb.WriteString(fmt.Sprintf(
			"- Item: %s (%s), Status: %s, Ordered qty: %s, Received qty: %s, Invoiced qty: %s, Ordered price: %s, Invoiced price: %s, Line variance: %s\n",
			v.ItemKey, v.Description, v.Status,
			v.POQuantity, v.ReceivedQuantity, v.InvoiceQuantity,
			v.POUnitPrice, v.InvoiceUnitPrice, v.TotalVariance,
		))
	}

	sb.WriteString(`
Respond with a single JSON object:
{
  "explanation": "plain-language summary of what went wrong across the documents",
  "probable_cause": "the most likely root cause (e.g. short shipment, price increase not reflected on the PO, damaged goods, billing error)",
  "suggested_action": "the concrete next step for the reviewer (e.g. request a credit note, resolve with a reason, contact the supplier)"
}

RESPONSE FORMAT: Return only the JSON object, no additional text.
`)

	return sb.String()
}

// geminiExplanation represents the raw response from Gemini.
type geminiExplanation struct {
	Explanation     string `json:"explanation"`
	ProbableCause   string `json:"probable_cause"`
	SuggestedAction string `json:"suggested_action"`
}

// parseResponse parses the Gemini response into an ExplainVarianceResult.
func (s *GeminiService) parseResponse(resp *genai.GenerateContentResponse) (*adapter.ExplainVarianceResult, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var textContent string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			textContent = string(text)
			break
		}
	}

	if textContent == "" {
		return nil, fmt.Errorf("no text content in response")
	}

	// Clean the response (remove markdown code blocks if present)
	textContent = strings.TrimPrefix(textContent, "```json")
	textContent = strings.TrimPrefix(textContent, "```")
	textContent = strings.TrimSuffix(textContent, "```")
	textContent = strings.TrimSpace(textContent)

	var explanation geminiExplanation
	if err := json.Unmarshal([]byte(textContent), &explanation); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w, content: %s", err, textContent)
	}

	return &adapter.ExplainVarianceResult{
		Explanation:     explanation.Explanation,
		ProbableCause:   explanation.ProbableCause,
		SuggestedAction: explanation.SuggestedAction,
	}, nil
}
