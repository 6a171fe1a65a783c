package handler

import (
	"errors"
	"net/http"

	errs "github.com/bookkeeper-app/bookkeeper/internal/domain/error"
)

// statusForError maps domain errors to HTTP status codes and client-safe messages
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrInvalidAmount),
		errors.Is(err, errs.ErrNegativeAmount),
		errors.Is(err, errs.ErrAmountOverflow),
		errors.Is(err, errs.ErrInvalidCompanyID),
		errors.Is(err, errs.ErrInvalidReference),
		errors.Is(err, errs.ErrInvalidDirection),
		errors.Is(err, errs.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, errs.ErrCompanyNotFound):
		return http.StatusNotFound, "Company not found"
	case errors.Is(err, errs.ErrEntryNotFound):
		return http.StatusNotFound, "Entry not found"
	case errors.Is(err, errs.ErrDuplicateCompany):
		return http.StatusConflict, "Company already exists"
	case errors.Is(err, errs.ErrDuplicateEntry):
		return http.StatusConflict, "Entry with this reference already exists"
	case errors.Is(err, errs.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "Insufficient funds"
	case errors.Is(err, errs.ErrTxTimeout):
		return http.StatusGatewayTimeout, "Operation timed out"
	case errors.Is(err, errs.ErrTxCanceled):
		return http.StatusServiceUnavailable, "Operation canceled"
	case errors.Is(err, errs.ErrRetriesExhausted),
		errors.Is(err, errs.ErrStoreNotInitialized),
		errors.Is(err, errs.ErrStoreConnection):
		return http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}
