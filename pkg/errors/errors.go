// Package errors provides structured error types for stellarmap.
//
// Errors carry a machine-readable [Code] so the CLI can decide how to present
// a failure (for example, printing catalog suggestions when the reference
// star is missing) without matching on message text.
//
// # Error Codes
//
// Codes follow a hierarchical naming convention:
//   - INVALID_*: input or configuration validation failures
//   - *_NOT_FOUND: a requested record does not exist
//   - CATALOG_*: the catalog provider could not be read
//   - INTERNAL_*: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "radius must be positive, got %v", r)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeCatalogUnavailable, origErr, "open %s", path)
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound          Code = "NOT_FOUND"
	ErrCodeReferenceNotFound Code = "REFERENCE_NOT_FOUND"

	// Catalog access errors
	ErrCodeCatalogUnavailable Code = "CATALOG_UNAVAILABLE"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// coded is implemented by error types that expose their code through a method
// rather than the Error.Code field.
type coded interface {
	error
	ErrorCode() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for the outermost coded error.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	for err != nil {
		switch e := err.(type) {
		case *Error:
			return e.Code
		case coded:
			return e.ErrorCode()
		}
		err = errors.Unwrap(err)
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message and cause without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	var nf *ReferenceNotFoundError
	if errors.As(err, &nf) {
		return fmt.Sprintf("star %q not found in catalog", nf.Name)
	}
	return err.Error()
}

// ReferenceNotFoundError reports that the reference star is absent from the
// catalog under both exact and case-insensitive lookup.
//
// Suggestions holds a short sample of catalog names (alphabetically first)
// to help the caller spot a typo. It is purely diagnostic.
type ReferenceNotFoundError struct {
	Name        string
	Suggestions []string
}

// Error implements the error interface.
func (e *ReferenceNotFoundError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("%s: star %q not found in catalog", ErrCodeReferenceNotFound, e.Name)
	}
	return fmt.Sprintf("%s: star %q not found in catalog (available: %s, ...)",
		ErrCodeReferenceNotFound, e.Name, strings.Join(e.Suggestions, ", "))
}

// ErrorCode returns ErrCodeReferenceNotFound.
func (e *ReferenceNotFoundError) ErrorCode() Code {
	return ErrCodeReferenceNotFound
}
