package error

import "errors"

// Resolution workflow domain errors.
var (
	// ErrAlreadyResolved is returned when resolving a record that is already terminal.
	ErrAlreadyResolved = errors.New("match record already resolved")

	// ErrRecordAwaitingDocuments is returned when resolving a record that is still missing documents.
	ErrRecordAwaitingDocuments = errors.New("match record still awaiting documents")

	// ErrCycleFinalized is returned when acting on a reconciliation cycle in a terminal state.
	ErrCycleFinalized = errors.New("reconciliation cycle already finalized")

	// ErrCreditNoteNotAllowed is returned when a credit note is requested with a non-negative variance.
	ErrCreditNoteNotAllowed = errors.New("credit note requires a negative total variance")

	// ErrConcurrencyConflict is returned when a workflow action races with another on the same purchase order.
	ErrConcurrencyConflict = errors.New("concurrent modification of reconciliation state")

	// ErrSessionLocked is returned when the per-purchase-order session lock cannot be obtained.
	ErrSessionLocked = errors.New("reconciliation session is locked by another reviewer")
)

// WorkflowErrorCode defines error codes for workflow errors.
// Format: WFL-XXYYYY where XX is category and YYYY is specific error.
type WorkflowErrorCode string

const (
	// Invalid state errors (01XXXX)
	ErrCodeAlreadyResolved         WorkflowErrorCode = "WFL-010001"
	ErrCodeRecordAwaitingDocuments WorkflowErrorCode = "WFL-010002"
	ErrCodeCycleFinalized          WorkflowErrorCode = "WFL-010003"
	ErrCodeCreditNoteNotAllowed    WorkflowErrorCode = "WFL-010004"

	// Concurrency errors (02XXXX)
	ErrCodeConcurrencyConflict WorkflowErrorCode = "WFL-020001"
	ErrCodeSessionLocked       WorkflowErrorCode = "WFL-020002"
)

// WorkflowError represents a workflow error with code and message.
type WorkflowError struct {
	Code    WorkflowErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *WorkflowError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// NewWorkflowError creates a new WorkflowError with the given code and message.
func NewWorkflowError(code WorkflowErrorCode, message string, err error) *WorkflowError {
	return &WorkflowError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
