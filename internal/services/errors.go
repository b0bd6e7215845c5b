package services

import (
	"errors"
	"fmt"
)

var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateProduct   = errors.New("duplicate product")
	ErrDuplicateEmail     = errors.New("email already in use")
	ErrOrderLocked        = errors.New("order is locked for delivery")
	ErrInvalidTransition  = errors.New("invalid order status transition")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInactiveUser       = errors.New("user is inactive")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
	ErrInsufficientRole   = errors.New("insufficient permissions")
	ErrResetUnavailable   = errors.New("password reset is not configured")
)

// ValidationError reports the first field that failed validation.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
