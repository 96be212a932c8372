package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/procure-match/backend/internal/application/adapter"
	domainerror "github.com/procure-match/backend/internal/domain/error"
	"github.com/procure-match/backend/internal/domain/valueobject"
)

type stubExplainer struct {
	available bool
	result    *adapter.ExplainVarianceResult
	err       error
	request   *adapter.ExplainVarianceRequest
}

func (s *stubExplainer) IsAvailable() bool { return s.available }

func (s *stubExplainer) Explain(_ context.Context, request *adapter.ExplainVarianceRequest) (*adapter.ExplainVarianceResult, error) {
	s.request = request
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newExplainEnv(t *testing.T, set *adapter.DocumentSet, explainer *stubExplainer) *ExplainVarianceUseCase {
	t.Helper()
	docs := &stubDocumentRepo{set: set}
	recon := &stubReconRepo{cycle: adapter.CycleData{
		PurchaseOrderID: set.PurchaseOrder.ID,
		CycleNumber:     1,
		State:           valueobject.StateUnderReview,
		Version:         1,
	}}
	summaries := newSummariesUseCase(docs, recon, newStubCache())
	return NewExplainVarianceUseCase(docs, explainer, summaries)
}

func TestExplainVarianceUseCase_Execute(t *testing.T) {
	t.Run("builds a request from open variances", func(t *testing.T) {
		set := completeSet(t)
		explainer := &stubExplainer{
			available: true,
			result: &adapter.ExplainVarianceResult{
				Explanation:     "The supplier delivered and billed two more onion units than ordered.",
				ProbableCause:   "over_delivery",
				SuggestedAction: "resolve_or_credit",
			},
		}
		uc := newExplainEnv(t, set, explainer)

		output, err := uc.Execute(context.Background(), ExplainVarianceInput{PurchaseOrderID: set.PurchaseOrder.ID})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if output.ProbableCause != "over_delivery" {
			t.Errorf("expected probable cause, got %s", output.ProbableCause)
		}

		if explainer.request == nil {
			t.Fatal("expected the explainer to receive a request")
		}
		if explainer.request.SupplierName != "Fresh Farms" {
			t.Errorf("expected supplier name, got %s", explainer.request.SupplierName)
		}
		if explainer.request.Condition != "good" {
			t.Errorf("expected delivery condition good, got %s", explainer.request.Condition)
		}
		if len(explainer.request.Variances) != 1 {
			t.Fatalf("expected only the mismatched line, got %d", len(explainer.request.Variances))
		}
		variance := explainer.request.Variances[0]
		if variance.ItemKey != "onions" {
			t.Errorf("expected onions, got %s", variance.ItemKey)
		}
		if variance.TotalVariance != "2.40" {
			t.Errorf("expected total variance 2.40, got %s", variance.TotalVariance)
		}
	})

	t.Run("unconfigured explainer is reported as unavailable", func(t *testing.T) {
		set := completeSet(t)
		uc := newExplainEnv(t, set, &stubExplainer{available: false})

		_, err := uc.Execute(context.Background(), ExplainVarianceInput{PurchaseOrderID: set.PurchaseOrder.ID})
		var matchingErr *domainerror.MatchingError
		if !errors.As(err, &matchingErr) {
			t.Fatalf("expected a matching error, got %v", err)
		}
		if matchingErr.Code != domainerror.ErrCodeExplainerUnavailable {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeExplainerUnavailable, matchingErr.Code)
		}
	})

	t.Run("fully matched orders have nothing to explain", func(t *testing.T) {
		set := completeSet(t)
		// Align the invoice and receipt with the order.
		set.ReceivingOrder.LineItems[1] = testLine(t, "onions", "5", "0")
		set.Invoice.LineItems[1] = testLine(t, "onions", "5", "1.20")
		uc := newExplainEnv(t, set, &stubExplainer{available: true})

		_, err := uc.Execute(context.Background(), ExplainVarianceInput{PurchaseOrderID: set.PurchaseOrder.ID})
		var matchingErr *domainerror.MatchingError
		if !errors.As(err, &matchingErr) {
			t.Fatalf("expected a matching error, got %v", err)
		}
		if matchingErr.Code != domainerror.ErrCodeRecordNotFound {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeRecordNotFound, matchingErr.Code)
		}
	})

	t.Run("explainer failures are wrapped", func(t *testing.T) {
		set := completeSet(t)
		uc := newExplainEnv(t, set, &stubExplainer{available: true, err: errors.New("model overloaded")})

		_, err := uc.Execute(context.Background(), ExplainVarianceInput{PurchaseOrderID: set.PurchaseOrder.ID})
		var matchingErr *domainerror.MatchingError
		if !errors.As(err, &matchingErr) {
			t.Fatalf("expected a matching error, got %v", err)
		}
		if matchingErr.Code != domainerror.ErrCodeExplainerFailed {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeExplainerFailed, matchingErr.Code)
		}
	})
}
