// Package errors provides the application error type shared by the service
// and HTTP layers. Every service-layer failure that reaches a caller is an
// AppError so responses stay consistent and never leak internal details.
package errors

import (
	stderrors "errors"
	"net/http"
)

// AppError represents a structured application error with an error code,
// human-readable message, optional offending field, HTTP status code, and
// optional internal error.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Is matches any AppError carrying the same code, so derived errors still
// compare equal to their sentinel.
func (e *AppError) Is(target error) bool {
	var other *AppError
	if !stderrors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Field:      sentinel.Field,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Field:      sentinel.Field,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Validation creates a field-scoped validation error.
func Validation(field, message string) *AppError {
	return &AppError{
		Code:       ErrValidation.Code,
		Message:    message,
		Field:      field,
		StatusCode: ErrValidation.StatusCode,
	}
}

// General errors.
var (
	ErrValidation      = &AppError{Code: "VALIDATION_ERROR", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound        = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer  = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
	ErrPayloadTooLarge = &AppError{Code: "PAYLOAD_TOO_LARGE", Message: "Request body is too large", StatusCode: http.StatusRequestEntityTooLarge}
)

// Forecast errors.
var (
	ErrInvalidPlanConfig = &AppError{Code: "INVALID_PLAN_CONFIG", Message: "Plan configuration does not allow a forecast", StatusCode: http.StatusUnprocessableEntity}
	ErrMissingIstData    = &AppError{Code: "MISSING_IST_DATA", Message: "Reconciled ledger totals are missing for an IST period", StatusCode: http.StatusConflict}
)

// Plan errors.
var (
	ErrPlanNotFound = &AppError{Code: "PLAN_NOT_FOUND", Message: "Plan not found", StatusCode: http.StatusNotFound}
	ErrPlanExists   = &AppError{Code: "PLAN_EXISTS", Message: "A plan already exists for this case", StatusCode: http.StatusConflict}
	ErrPlanLocked   = &AppError{Code: "PLAN_LOCKED", Message: "Plan is locked", StatusCode: http.StatusLocked}
)

// Assumption errors.
var (
	ErrAssumptionNotFound  = &AppError{Code: "ASSUMPTION_NOT_FOUND", Message: "Assumption not found", StatusCode: http.StatusNotFound}
	ErrDuplicateAssumption = &AppError{Code: "DUPLICATE_ASSUMPTION", Message: "An assumption for this category and flow type already exists", StatusCode: http.StatusConflict}
)

// Snapshot errors.
var (
	ErrSnapshotNotFound = &AppError{Code: "SNAPSHOT_NOT_FOUND", Message: "Snapshot not found", StatusCode: http.StatusNotFound}
)

// Ledger synchronization errors.
var (
	ErrSyncInProgress     = &AppError{Code: "SYNC_IN_PROGRESS", Message: "An IST synchronization is already running for this plan", StatusCode: http.StatusConflict}
	ErrLedgerUnavailable  = &AppError{Code: "LEDGER_UNAVAILABLE", Message: "Ledger aggregation service is unavailable", StatusCode: http.StatusBadGateway}
	ErrLedgerInconsistent = &AppError{Code: "LEDGER_INCONSISTENT", Message: "Ledger aggregation returned inconsistent totals", StatusCode: http.StatusBadGateway}
)
