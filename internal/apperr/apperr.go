// Package apperr defines the error kinds shared by every feature service.
//
// Feature packages declare their own sentinel errors with New, so callers can
// match either the precise sentinel or its kind with errors.Is.
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds
var (
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
)

// Error is a message tagged with one of the kinds above
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// New creates an error of the given kind
func New(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Conflict creates a formatted ErrConflict error
func Conflict(format string, args ...any) error {
	return New(ErrConflict, fmt.Sprintf(format, args...))
}

// InvalidState creates a formatted ErrInvalidState error
func InvalidState(format string, args ...any) error {
	return New(ErrInvalidState, fmt.Sprintf(format, args...))
}

// NotFound creates a formatted ErrNotFound error
func NotFound(format string, args ...any) error {
	return New(ErrNotFound, fmt.Sprintf(format, args...))
}

// Validation creates a formatted ErrValidation error
func Validation(format string, args ...any) error {
	return New(ErrValidation, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of err, or nil when it carries none
func KindOf(err error) error {
	for _, kind := range []error{ErrConflict, ErrInvalidState, ErrNotFound, ErrValidation} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}
