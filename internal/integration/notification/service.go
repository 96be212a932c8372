// Package notification provides supplier notification functionality.
package notification

import (
	"context"
	"fmt"

	"github.com/procure-match/backend/internal/application/adapter"
	"github.com/procure-match/backend/internal/domain/entity"
	domainerror "github.com/procure-match/backend/internal/domain/error"
)

// Service handles notification queueing operations.
type Service struct {
	queue adapter.NotificationQueueRepository
}

// NewService creates a new notification service.
func NewService(queue adapter.NotificationQueueRepository) *Service {
	return &Service{
		queue: queue,
	}
}

// QueueCreditNoteIssued queues a credit note notification to the supplier.
func (s *Service) QueueCreditNoteIssued(ctx context.Context, input adapter.QueueCreditNoteIssuedInput) error {
	subject := fmt.Sprintf("Credit note issued for purchase order %s", input.PurchaseOrderID)

	templateData := map[string]interface{}{
		"supplier_name":     input.SupplierName,
		"purchase_order_id": input.PurchaseOrderID,
		"credit_amount":     input.CreditAmount,
		"issued_by_email":   input.IssuedByEmail,
	}

	job := entity.NewNotificationJob(
		entity.TemplateCreditNoteIssued,
		input.SupplierEmail,
		input.SupplierName,
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeNotificationQueueFailed,
			"failed to queue credit note notification",
			err,
		)
	}

	return nil
}

// QueueVariancesAccepted queues a variances accepted notification to the supplier.
func (s *Service) QueueVariancesAccepted(ctx context.Context, input adapter.QueueVariancesAcceptedInput) error {
	subject := fmt.Sprintf("Invoice accepted with variances for purchase order %s", input.PurchaseOrderID)

	templateData := map[string]interface{}{
		"supplier_name":     input.SupplierName,
		"purchase_order_id": input.PurchaseOrderID,
		"total_variance":    input.TotalVariance,
		"accepted_by_email": input.AcceptedByEmail,
	}

	job := entity.NewNotificationJob(
		entity.TemplateVariancesAccepted,
		input.SupplierEmail,
		input.SupplierName,
		subject,
		templateData,
	)

	if err := s.queue.Create(ctx, job); err != nil {
		return domainerror.NewNotificationError(
			domainerror.ErrCodeNotificationQueueFailed,
			"failed to queue variances accepted notification",
			err,
		)
	}

	return nil
}

// Ensure Service implements adapter.NotificationService.
var _ adapter.NotificationService = (*Service)(nil)
