// Package errors provides the error taxonomy of the fund ledger API.
// Services return *AppError so handlers can render a consistent envelope
// without leaking store internals to callers.
package errors

import "net/http"

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, optional field-level details
// and an optional internal error.
type AppError struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	StatusCode int               `json:"-"`
	Internal   error             `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Details:    sentinel.Details,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Details:    sentinel.Details,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithDetails creates a new AppError carrying field path → message details.
func WithDetails(sentinel *AppError, details map[string]string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		Details:    details,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Validation builds a VALIDATION_ERROR for a single field.
func Validation(field, message string) *AppError {
	return &AppError{
		Code:       ErrValidation.Code,
		Message:    message,
		Details:    map[string]string{field: message},
		StatusCode: ErrValidation.StatusCode,
	}
}

// Authentication & authorization errors.
var (
	ErrUnauthorized    = &AppError{Code: "AUTHENTICATION_ERROR", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidToken    = &AppError{Code: "AUTHENTICATION_ERROR", Message: "Invalid or expired token", StatusCode: http.StatusUnauthorized}
	ErrForbidden       = &AppError{Code: "AUTHORIZATION_ERROR", Message: "You do not have permission to perform this action", StatusCode: http.StatusForbidden}
	ErrAccountInactive = &AppError{Code: "ACCOUNT_INACTIVE", Message: "Your account has been deactivated", StatusCode: http.StatusForbidden}
)

// General errors.
var (
	ErrValidation     = &AppError{Code: "VALIDATION_ERROR", Message: "Validation failed", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrDatabase       = &AppError{Code: "DATABASE_ERROR", Message: "A database error occurred", StatusCode: http.StatusInternalServerError}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound         = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrCannotDeactivateSelf = &AppError{Code: "CANNOT_DEACTIVATE_SELF", Message: "You cannot deactivate your own account", StatusCode: http.StatusBadRequest}
)

// Pocket errors.
var (
	ErrPocketNotFound      = &AppError{Code: "POCKET_NOT_FOUND", Message: "Pocket not found", StatusCode: http.StatusNotFound}
	ErrPocketInactive      = &AppError{Code: "POCKET_INACTIVE", Message: "Pocket is not active", StatusCode: http.StatusBadRequest}
	ErrDuplicatePocketName = &AppError{Code: "DUPLICATE_POCKET_NAME", Message: "A pocket with this name already exists", StatusCode: http.StatusConflict}
	ErrPocketInUse         = &AppError{Code: "POCKET_IN_USE", Message: "Pocket is referenced by transactions; deactivate it instead", StatusCode: http.StatusConflict}
)

// Category errors.
var (
	ErrCategoryNotFound      = &AppError{Code: "CATEGORY_NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrCategoryInactive      = &AppError{Code: "CATEGORY_INACTIVE", Message: "Category is not active", StatusCode: http.StatusBadRequest}
	ErrDuplicateCategoryName = &AppError{Code: "DUPLICATE_CATEGORY_NAME", Message: "A category with this name already exists", StatusCode: http.StatusConflict}
	ErrCategoryInUse         = &AppError{Code: "CATEGORY_IN_USE", Message: "Category is used by existing items", StatusCode: http.StatusConflict}
)

// Transaction errors.
var (
	ErrDonationNotFound       = &AppError{Code: "DONATION_NOT_FOUND", Message: "Donation not found", StatusCode: http.StatusNotFound}
	ErrExpenseNotFound        = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
	ErrExpenseAlreadyResolved = &AppError{Code: "EXPENSE_ALREADY_RESOLVED", Message: "Expense has already been approved or rejected", StatusCode: http.StatusConflict}
	ErrExpenseNotEditable     = &AppError{Code: "EXPENSE_NOT_EDITABLE", Message: "Items, pocket and date of a resolved expense cannot be changed", StatusCode: http.StatusConflict}
)
