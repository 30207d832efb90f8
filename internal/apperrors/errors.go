package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller is authenticated but not allowed to perform the action.
var ErrForbidden = errors.New("forbidden")

// Redemption errors. These are terminal: retrying with the same token never changes the outcome.
var (
	// ErrTokenNotFound is returned when no token row matches the token string and action.
	ErrTokenNotFound = errors.New("invalid token")
	// ErrTokenAlreadyUsed is returned when the token has already been redeemed.
	ErrTokenAlreadyUsed = errors.New("token already used")
	// ErrTokenExpired is returned when the token is past its expiry time.
	ErrTokenExpired = errors.New("token expired")
	// ErrRecordNotFound is returned when a valid token's pending expense no longer exists,
	// usually because the sibling token was redeemed first.
	ErrRecordNotFound = errors.New("expense is no longer pending")
)

// ErrTransactionFailure indicates the store failed during an atomic operation.
// Nothing was persisted, so the caller may retry.
var ErrTransactionFailure = errors.New("transaction failed")

// ErrNotificationFailure indicates the approval email could not be delivered.
// It never undoes a committed submission.
var ErrNotificationFailure = errors.New("notification delivery failed")

// AppError carries an HTTP-ish status code and message alongside the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError wraps err with a code and message.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError returns an AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// NewTransactionError returns an AppError that matches ErrTransactionFailure and keeps the cause.
func NewTransactionError(message string, cause error) *AppError {
	return &AppError{Code: 500, Message: message, Err: errors.Join(ErrTransactionFailure, cause)}
}

// ValidationError lists the fields that failed validation.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return e.Message + " (" + strings.Join(e.Fields, ", ") + ")"
}

// Is lets errors.Is(err, ErrValidation) match any *ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError builds a ValidationError for the given fields.
func NewValidationError(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}
