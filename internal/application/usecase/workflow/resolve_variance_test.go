package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/domain/entity"
	domainerror "github.com/procure-match/backend/internal/domain/error"
	"github.com/procure-match/backend/internal/domain/valueobject"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("invalid decimal %q: %v", s, err)
	}
	return d
}

func testLine(t *testing.T, key, qty, price string) entity.LineItem {
	t.Helper()
	return entity.LineItem{
		ItemKey:     key,
		Description: key,
		Quantity:    mustDecimal(t, qty),
		UnitPrice:   mustDecimal(t, price),
	}
}

// documentSet builds a complete three-document set for one purchase order.
// Each entry is (po, ro, invoice) quantities and prices per item key.
func documentSet(t *testing.T, poLines, roLines, invLines []entity.LineItem) *adapter.DocumentSet {
	t.Helper()
	po := &entity.PurchaseOrder{
		ID:            uuid.New(),
		SupplierEmail: "orders@freshfarms.example",
		SupplierName:  "Fresh Farms",
		LineItems:     poLines,
	}
	set := &adapter.DocumentSet{PurchaseOrder: po}
	if roLines != nil {
		set.ReceivingOrder = &entity.ReceivingOrder{
			ID:              uuid.New(),
			PurchaseOrderID: po.ID,
			Condition:       entity.ConditionGood,
			LineItems:       roLines,
		}
	}
	if invLines != nil {
		set.Invoice = &entity.Invoice{
			ID:              uuid.New(),
			PurchaseOrderID: po.ID,
			LineItems:       invLines,
		}
	}
	return set
}

// mismatchedSet has one matched line and one quantity mismatch.
func mismatchedSet(t *testing.T) *adapter.DocumentSet {
	t.Helper()
	return documentSet(t,
		[]entity.LineItem{
			testLine(t, "tomatoes", "10", "2.50"),
			testLine(t, "onions", "5", "1.20"),
		},
		[]entity.LineItem{
			testLine(t, "tomatoes", "10", "0"),
			testLine(t, "onions", "7", "0"),
		},
		[]entity.LineItem{
			testLine(t, "tomatoes", "10", "2.50"),
			testLine(t, "onions", "7", "1.20"),
		},
	)
}

func TestResolveVarianceUseCase_Execute(t *testing.T) {
	actor := uuid.New()

	t.Run("resolving a mismatch marks the record matched", func(t *testing.T) {
		env := newTestEnv(mismatchedSet(t))

		output, err := env.resolve.Execute(context.Background(), ResolveVarianceInput{
			PurchaseOrderID: env.purchaseOrderID,
			ItemKey:         "onions",
			Reason:          "extra delivery agreed by phone",
			ActorID:         actor,
			ActorEmail:      "ap@example.com",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		record := output.Summary.RecordByKey("onions")
		if record == nil {
			t.Fatal("expected onions record in summary")
		}
		if record.Status != valueobject.StatusMatched {
			t.Errorf("expected matched, got %s", record.Status)
		}
		if record.ComputedStatus != valueobject.StatusQuantityMismatch {
			t.Errorf("expected computed status to stay quantity_mismatch, got %s", record.ComputedStatus)
		}
		if record.Resolution == nil || record.Resolution.Reason != "extra delivery agreed by phone" {
			t.Error("expected the resolution reason to be recorded")
		}
		if output.Summary.OverallStatus != valueobject.OverallFullyMatched {
			t.Errorf("expected fully_matched after resolution, got %s", output.Summary.OverallStatus)
		}
		// The resolved record keeps its billed variance in the total.
		if !output.Summary.TotalVariance.Equal(mustDecimal(t, "2.40")) {
			t.Errorf("expected total variance 2.40, got %s", output.Summary.TotalVariance)
		}
	})

	t.Run("resolution bumps the cycle version and appends an audit event", func(t *testing.T) {
		env := newTestEnv(mismatchedSet(t))

		output, err := env.resolve.Execute(context.Background(), ResolveVarianceInput{
			PurchaseOrderID: env.purchaseOrderID,
			ItemKey:         "onions",
			Reason:          "accepted over-delivery",
			ActorID:         actor,
			ActorEmail:      "ap@example.com",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if output.Summary.Version != 2 {
			t.Errorf("expected version 2 after one resolution, got %d", output.Summary.Version)
		}
		if len(env.recon.events) != 1 {
			t.Fatalf("expected 1 audit event, got %d", len(env.recon.events))
		}
		event := env.recon.events[0]
		if event.Action != entity.ActionResolveVariance {
			t.Errorf("expected resolve_variance action, got %s", event.Action)
		}
		if len(event.ItemKeys) != 1 || event.ItemKeys[0] != "onions" {
			t.Errorf("expected item keys [onions], got %v", event.ItemKeys)
		}
		if env.lock.released != env.lock.acquired {
			t.Error("expected the session lock to be released")
		}
	})

	t.Run("unknown item key is rejected", func(t *testing.T) {
		env := newTestEnv(mismatchedSet(t))

		_, err := env.resolve.Execute(context.Background(), ResolveVarianceInput{
			PurchaseOrderID: env.purchaseOrderID,
			ItemKey:         "truffles",
			Reason:          "no such line",
			ActorID:         actor,
		})
		var matchingErr *domainerror.MatchingError
		if !errors.As(err, &matchingErr) {
			t.Fatalf("expected a matching error, got %v", err)
		}
		if matchingErr.Code != domainerror.ErrCodeRecordNotFound {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeRecordNotFound, matchingErr.Code)
		}
	})

	t.Run("matched records cannot be resolved", func(t *testing.T) {
		env := newTestEnv(mismatchedSet(t))

		_, err := env.resolve.Execute(context.Background(), ResolveVarianceInput{
			PurchaseOrderID: env.purchaseOrderID,
			ItemKey:         "tomatoes",
			Reason:          "nothing to fix",
			ActorID:         actor,
		})
		var workflowErr *domainerror.WorkflowError
		if !errors.As(err, &workflowErr) {
			t.Fatalf("expected a workflow error, got %v", err)
		}
		if workflowErr.Code != domainerror.ErrCodeAlreadyResolved {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeAlreadyResolved, workflowErr.Code)
		}
	})

	t.Run("resolving twice is rejected", func(t *testing.T) {
		env := newTestEnv(mismatchedSet(t))

		input := ResolveVarianceInput{
			PurchaseOrderID: env.purchaseOrderID,
			ItemKey:         "onions",
			Reason:          "accepted over-delivery",
			ActorID:         actor,
		}
		if _, err := env.resolve.Execute(context.Background(), input); err != nil {
			t.Fatalf("unexpected error on first resolve: %v", err)
		}

		_, err := env.resolve.Execute(context.Background(), input)
		var workflowErr *domainerror.WorkflowError
		if !errors.As(err, &workflowErr) {
			t.Fatalf("expected a workflow error, got %v", err)
		}
		if workflowErr.Code != domainerror.ErrCodeAlreadyResolved {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeAlreadyResolved, workflowErr.Code)
		}
	})

	t.Run("awaiting records cannot be resolved", func(t *testing.T) {
		set := documentSet(t,
			[]entity.LineItem{testLine(t, "tomatoes", "10", "2.50")},
			nil,
			nil,
		)
		env := newTestEnv(set)

		_, err := env.resolve.Execute(context.Background(), ResolveVarianceInput{
			PurchaseOrderID: env.purchaseOrderID,
			ItemKey:         "tomatoes",
			Reason:          "cannot resolve yet",
			ActorID:         actor,
		})
		var workflowErr *domainerror.WorkflowError
		if !errors.As(err, &workflowErr) {
			t.Fatalf("expected a workflow error, got %v", err)
		}
		if workflowErr.Code != domainerror.ErrCodeRecordAwaitingDocuments {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeRecordAwaitingDocuments, workflowErr.Code)
		}
	})

	t.Run("finalized cycles reject resolutions", func(t *testing.T) {
		env := newTestEnv(mismatchedSet(t))
		env.recon.cycle.State = valueobject.StateAcceptedForPayment

		_, err := env.resolve.Execute(context.Background(), ResolveVarianceInput{
			PurchaseOrderID: env.purchaseOrderID,
			ItemKey:         "onions",
			Reason:          "too late",
			ActorID:         actor,
		})
		var workflowErr *domainerror.WorkflowError
		if !errors.As(err, &workflowErr) {
			t.Fatalf("expected a workflow error, got %v", err)
		}
		if workflowErr.Code != domainerror.ErrCodeCycleFinalized {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeCycleFinalized, workflowErr.Code)
		}
	})

	t.Run("held session lock blocks the action", func(t *testing.T) {
		env := newTestEnv(mismatchedSet(t))
		env.lock.held = true

		_, err := env.resolve.Execute(context.Background(), ResolveVarianceInput{
			PurchaseOrderID: env.purchaseOrderID,
			ItemKey:         "onions",
			Reason:          "blocked",
			ActorID:         actor,
		})
		var workflowErr *domainerror.WorkflowError
		if !errors.As(err, &workflowErr) {
			t.Fatalf("expected a workflow error, got %v", err)
		}
		if workflowErr.Code != domainerror.ErrCodeSessionLocked {
			t.Errorf("expected code %s, got %s", domainerror.ErrCodeSessionLocked, workflowErr.Code)
		}
	})
}
