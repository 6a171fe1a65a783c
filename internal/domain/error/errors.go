package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidAmount       = 4001
	CodeInvalidCompanyID    = 4002
	CodeDuplicateEntry      = 4003
	CodeConstraintViolation = 4004
	CodeInsufficientFunds   = 4005
	CodeAmountOverflow      = 4006
	CodeCompanyNotFound     = 4040
	CodeEntryNotFound       = 4041

	// 5xxx - Server errors
	CodeInternalServer   = 5000
	CodeStoreUnavailable = 5030
	CodeTxTimeout        = 5040
	CodeRetriesExhausted = 5041
)

// Base error types
var (
	// ErrInvalidAmount is returned when an amount string cannot be parsed
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when an amount is negative
	ErrNegativeAmount = errors.New("amount cannot be negative")

	// ErrAmountOverflow is returned when an amount is too large to represent in cents
	ErrAmountOverflow = errors.New("amount is too large and would cause overflow")

	// ErrInvalidCompanyID is returned when the company ID is not a positive integer
	ErrInvalidCompanyID = errors.New("company ID must be positive")

	// ErrInvalidReference is returned when an entry reference is empty
	ErrInvalidReference = errors.New("entry reference cannot be empty")

	// ErrInvalidDirection is returned when the entry direction is not debit or credit
	ErrInvalidDirection = errors.New("invalid entry direction")

	// ErrInsufficientFunds is returned when a debit would push a balance below zero
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrDuplicateEntry is returned when an entry with the same reference already exists
	ErrDuplicateEntry = errors.New("entry with this reference already exists")

	// ErrDuplicateCompany is returned when trying to create a company that already exists
	ErrDuplicateCompany = errors.New("company already exists")

	// ErrCompanyNotFound is returned when the requested company doesn't exist
	ErrCompanyNotFound = errors.New("company not found")

	// ErrEntryNotFound is returned when the requested ledger entry doesn't exist
	ErrEntryNotFound = errors.New("ledger entry not found")

	// ErrConstraintViolation is returned when a store constraint is violated
	ErrConstraintViolation = errors.New("store constraint violation")

	// ErrStoreConnection is returned when there's a problem talking to the backing store
	ErrStoreConnection = errors.New("store connection error")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

// Transactional execution errors
var (
	// ErrStoreNotInitialized is returned when a transaction is requested before
	// the backing store has been set up. Caller configuration defect, never retried.
	ErrStoreNotInitialized = errors.New("store is not initialized")

	// ErrRetriesExhausted is returned when every attempt failed with a transient
	// error. It always wraps the error from the last attempt.
	ErrRetriesExhausted = errors.New("transaction retries exhausted")

	// ErrTxTimeout is returned when the per-call deadline elapses mid-attempt
	// or mid-backoff.
	ErrTxTimeout = errors.New("transaction timed out")

	// ErrTxCanceled is returned when the caller cancels the bounding context.
	ErrTxCanceled = errors.New("transaction canceled")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrNegativeAmount),
		errors.Is(err, ErrInvalidReference),
		errors.Is(err, ErrInvalidDirection):
		return CodeInvalidAmount
	case errors.Is(err, ErrInvalidCompanyID):
		return CodeInvalidCompanyID
	case errors.Is(err, ErrDuplicateEntry), errors.Is(err, ErrDuplicateCompany):
		return CodeDuplicateEntry
	case errors.Is(err, ErrConstraintViolation):
		return CodeConstraintViolation
	case errors.Is(err, ErrInsufficientFunds):
		return CodeInsufficientFunds
	case errors.Is(err, ErrAmountOverflow):
		return CodeAmountOverflow
	case errors.Is(err, ErrCompanyNotFound):
		return CodeCompanyNotFound
	case errors.Is(err, ErrEntryNotFound):
		return CodeEntryNotFound
	case errors.Is(err, ErrStoreNotInitialized), errors.Is(err, ErrStoreConnection):
		return CodeStoreUnavailable
	case errors.Is(err, ErrTxTimeout), errors.Is(err, ErrTxCanceled):
		return CodeTxTimeout
	case errors.Is(err, ErrRetriesExhausted):
		return CodeRetriesExhausted
	default:
		return CodeInternalServer
	}
}

// EntryError carries context about a failed ledger entry operation
type EntryError struct {
	CompanyID uint64
	Reference string
	Err       error
}

// Error implements the error interface for EntryError
func (e *EntryError) Error() string {
	return fmt.Sprintf("ledger entry %q failed for company %d: %v", e.Reference, e.CompanyID, e.Err)
}

// Unwrap returns the underlying error
func (e *EntryError) Unwrap() error {
	return e.Err
}
