package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound       = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized   = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrBadRequest     = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrInvalidToken   = &AppError{Code: http.StatusUnauthorized, Message: "Invalid token"}
	ErrTokenExpired   = &AppError{Code: http.StatusUnauthorized, Message: "Token has expired"}

	ErrSaleNotFound     = &AppError{Code: http.StatusNotFound, Message: "Sale not found"}
	ErrEmptyCart        = &AppError{Code: http.StatusUnprocessableEntity, Message: "Cannot save an empty bill"}
	ErrSaveInProgress   = &AppError{Code: http.StatusConflict, Message: "A save is already in progress"}
	ErrSalesAPIFailed   = &AppError{Code: http.StatusBadGateway, Message: "Sale could not be saved"}
	ErrBillCleared      = &AppError{Code: http.StatusConflict, Message: "Bill was cleared while the sale was being saved"}
	ErrPrinterOffline   = &AppError{Code: http.StatusServiceUnavailable, Message: "Printer is not connected"}
	ErrPrinterNotConfig = &AppError{Code: http.StatusServiceUnavailable, Message: "No printer configured"}
	ErrIdempotencyReuse = &AppError{Code: http.StatusUnprocessableEntity, Message: "Idempotency key was already used for a different request"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible. Unknown errors are
// reported as a generic 500 so internal details do not leak to clients.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternalServer
}
