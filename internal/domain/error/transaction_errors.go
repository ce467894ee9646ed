// Package error defines domain-specific errors for the Receipt Ledger application.
package error

import "errors"

// Transaction domain errors.
var (
	// ErrTransactionNotFound is returned when a transaction is not found in the system.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrNotAuthorizedToModifyTransaction is returned when user is not authorized to modify a transaction.
	ErrNotAuthorizedToModifyTransaction = errors.New("not authorized to modify transaction")

	// ErrInvalidTransactionDate is returned when the transaction date is invalid.
	ErrInvalidTransactionDate = errors.New("invalid transaction date")

	// ErrInvalidTransactionTotal is returned when the transaction total is invalid.
	ErrInvalidTransactionTotal = errors.New("invalid transaction total")

	// ErrMerchantRequired is returned when the merchant name is empty.
	ErrMerchantRequired = errors.New("merchant is required")

	// ErrSharingDisabled is returned when tagging to a group whose
	// transaction sharing is turned off.
	ErrSharingDisabled = errors.New("transaction sharing is disabled for this group")

	// ErrExtractionFailed is returned when the receipt extraction service
	// could not produce a usable result.
	ErrExtractionFailed = errors.New("receipt extraction failed")

	// ErrExtractionUnavailable is returned when the receipt extraction
	// service is not configured.
	ErrExtractionUnavailable = errors.New("receipt extraction is not configured")
)

// TransactionErrorCode defines error codes for transaction errors.
// Format: TXN-XXYYYY where XX is category and YYYY is specific error.
type TransactionErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeTransactionNotFound      TransactionErrorCode = "TXN-010001"
	ErrCodeNotAuthorizedTransaction TransactionErrorCode = "TXN-010002"
	ErrCodeInvalidTransactionDate   TransactionErrorCode = "TXN-010003"
	ErrCodeInvalidTransactionTotal  TransactionErrorCode = "TXN-010004"
	ErrCodeMerchantRequired         TransactionErrorCode = "TXN-010005"

	// Sharing errors (02XXXX)
	ErrCodeSharingDisabled TransactionErrorCode = "TXN-020001"

	// Extraction errors (03XXXX)
	ErrCodeExtractionFailed      TransactionErrorCode = "TXN-030001"
	ErrCodeExtractionUnavailable TransactionErrorCode = "TXN-030002"
)

// TransactionError represents a transaction error with code and message.
type TransactionError struct {
	Code    TransactionErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *TransactionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *TransactionError) Unwrap() error {
	return e.Err
}

// NewTransactionError creates a new TransactionError with the given code and message.
func NewTransactionError(code TransactionErrorCode, message string, err error) *TransactionError {
	return &TransactionError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
