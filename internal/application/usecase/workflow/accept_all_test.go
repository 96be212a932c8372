package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/procure-match/backend/internal/domain/entity"
	domainerror "github.com/procure-match/backend/internal/domain/error"
	"github.com/procure-match/backend/internal/domain/valueobject"
)

func TestAcceptAllUseCase_Execute(t *testing.T) {
	actor := uuid.New()

	t.Run("accepting transitions the cycle and queues a notification", func(t *testing.T) {
		env := newTestEnv(mismatchedSet(t))

		output, err := env.accept.Execute(context.Background(), AcceptAllInput{
			PurchaseOrderID: env.purchaseOrderID,
			ActorID:         actor,
			ActorEmail:      "ap@example.com",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if output.Summary.State != valueobject.StateAcceptedForPayment {
			t.Errorf("expected accepted_for_payment, got %s", output.Summary.State)
		}
		if output.Summary.Version != 2 {
			t.Errorf("expected version 2, got %d", output.Summary.Version)
		}

		if len(env.notifications.accepted) != 1 {
			t.Fatalf("expected 1 queued notification, got %d", len(env.notifications.accepted))
		}
		queued := env.notifications.accepted[0]
		if queued.SupplierEmail != "orders@freshfarms.example" {
			t.Errorf("expected supplier email, got %s", queued.SupplierEmail)
		}
		if queued.TotalVariance != "2.40" {
			t.Errorf("expected total variance 2.40, got %s", queued.TotalVariance)
		}
		if queued.AcceptedByEmail != "ap@example.com" {
			t.Errorf("expected actor email, got %s", queued.AcceptedByEmail)
		}
	})

	t.Run("audit event lists the open variance keys", func(t *testing.T) {
		env := newTestEnv(mismatchedSet(t))

		if _, err := env.accept.Execute(context.Background(), AcceptAllInput{
			PurchaseOrderID: env.purchaseOrderID,
			ActorID:         actor,
			ActorEmail:      "ap@example.com",
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(env.recon.events) != 1 {
			t.Fatalf("expected 1 audit event, got %d", len(env.recon.events))
		}
		event := env.recon.events[0]
		if event.Action != entity.ActionAcceptForPayment {
			t.Errorf("expected accept_for_payment action, got %s", event.Action)
		}
		if len(event.ItemKeys) != 1 || event.ItemKeys[0] != "onions" {
			t.Errorf("expected open variance keys [onions], got %v", event.ItemKeys)
		}
		if event.FromStatus != string(valueobject.StateUnderReview) || event.ToStatus != string(valueobject.StateAcceptedForPayment) {
			t.Errorf("expected under_review -> accepted_for_payment, got %s -> %s", event.FromStatus, event.ToStatus)
		}
	})

	t.Run("zero variance skips the supplier notification", func(t *testing.T) {
		set := documentSet(t,
			[]entity.LineItem{testLine(t, "tomatoes", "10", "2.50")},
			[]entity.LineItem{testLine(t, "tomatoes", "10", "0")},
			[]entity.LineItem{testLine(t, "tomatoes", "10", "2.50")},
		)
		env := newTestEnv(set)

		output, err := env.accept.Execute(context.Background(), AcceptAllInput{
			PurchaseOrderID: env.purchaseOrderID,
			ActorID:         actor,
			ActorEmail:      "ap@example.com",
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if output.Summary.State != valueobject.StateAcceptedForPayment {
			t.Errorf("expected accepted_for_payment, got %s", output.Summary.State)
		}
		if len(env.notifications.accepted) != 0 {
			t.Errorf("expected no notification for a clean match, got %d", len(env.notifications.accepted))
		}
	})

	t.Run("notification failure does not undo the acceptance", func(t *testing.T) {
		env := newTestEnv(mismatchedSet(t))
		env.notifications.err = errors.New("queue unavailable")

		output, err := env.accept.Execute(context.Background(), AcceptAllInput{
			PurchaseOrderID: env.purchaseOrderID,
			ActorID:         actor,
			ActorEmail:      "ap@example.com",
		})
		if err != nil {
			t.Fatalf("expected acceptance to succeed despite queue failure, got %v", err)
		}
		if output.Summary.State != valueobject.StateAcceptedForPayment {
			t.Errorf("expected accepted_for_payment, got %s", output.Summary.State)
		}
	})

	t.Run("finalized cycles cannot be accepted again", func(t *testing.T) {
		env := newTestEnv(mismatchedSet(t))
		env.recon.cycle.State = valueobject.StateCreditNoteIssued

		_, err := env.accept.Execute(context.Background(), AcceptAllInput{
			PurchaseOrderID: env.purchaseOrderID,
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
}
