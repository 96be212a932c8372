// Package error defines domain-specific errors for the procurement matching
// service.
package error

import "errors"

// Matching domain errors.
var (
	// ErrPurchaseOrderNotFound is returned when the purchase order is not in the document store.
	ErrPurchaseOrderNotFound = errors.New("purchase order not found")

	// ErrDuplicateItemKey is returned when a single document carries two line items with the same key.
	ErrDuplicateItemKey = errors.New("duplicate item key within document")

	// ErrNegativeQuantity is returned when a line item carries a negative quantity.
	ErrNegativeQuantity = errors.New("negative quantity on line item")

	// ErrNegativePrice is returned when a line item carries a negative unit price.
	ErrNegativePrice = errors.New("negative unit price on line item")

	// ErrEmptyItemKey is returned when a line item has no item key.
	ErrEmptyItemKey = errors.New("empty item key on line item")

	// ErrRecordNotFound is returned when the requested item key has no match record.
	ErrRecordNotFound = errors.New("match record not found for item key")

	// ErrExplainerUnavailable is returned when the variance explainer is not configured.
	ErrExplainerUnavailable = errors.New("variance explainer not available")
)

// MatchingErrorCode defines error codes for matching errors.
// Format: MTC-XXYYYY where XX is category and YYYY is specific error.
type MatchingErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeDuplicateItemKey MatchingErrorCode = "MTC-010001"
	ErrCodeNegativeQuantity MatchingErrorCode = "MTC-010002"
	ErrCodeNegativePrice    MatchingErrorCode = "MTC-010003"
	ErrCodeEmptyItemKey     MatchingErrorCode = "MTC-010004"

	// Lookup errors (02XXXX)
	ErrCodePurchaseOrderNotFound MatchingErrorCode = "MTC-020001"
	ErrCodeRecordNotFound        MatchingErrorCode = "MTC-020002"

	// External service errors (03XXXX)
	ErrCodeExplainerUnavailable MatchingErrorCode = "MTC-030001"
	ErrCodeExplainerFailed      MatchingErrorCode = "MTC-030002"
)

// MatchingError represents a matching error with code and message.
type MatchingError struct {
	Code    MatchingErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *MatchingError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *MatchingError) Unwrap() error {
	return e.Err
}

// NewMatchingError creates a new MatchingError with the given code and message.
func NewMatchingError(code MatchingErrorCode, message string, err error) *MatchingError {
	return &MatchingError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
