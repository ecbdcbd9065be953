package service

import (
	"errors"
)

var (
	ErrForbidden        = errors.New("forbidden: not your listing")
	ErrEmailNotVerified = errors.New("email not verified")
)

// ValidationError reports the first rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
