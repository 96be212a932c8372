// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
)

// QueueCreditNoteIssuedInput represents the input for queueing a credit note notification.
type QueueCreditNoteIssuedInput struct {
	SupplierEmail   string
	SupplierName    string
	PurchaseOrderID string
	CreditAmount    string
	IssuedByEmail   string
}

// QueueVariancesAcceptedInput represents the input for queueing a variances accepted notification.
type QueueVariancesAcceptedInput struct {
	SupplierEmail   string
	SupplierName    string
	PurchaseOrderID string
	TotalVariance   string
	AcceptedByEmail string
}

// NotificationService defines the interface for queueing supplier notifications.
type NotificationService interface {
	// QueueCreditNoteIssued queues a credit note notification to the supplier.
	QueueCreditNoteIssued(ctx context.Context, input QueueCreditNoteIssuedInput) error

	// QueueVariancesAccepted queues a variances accepted notification to the supplier.
	QueueVariancesAccepted(ctx context.Context, input QueueVariancesAcceptedInput) error
}
