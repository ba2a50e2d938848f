// Package apierror provides standardized error response structures for the API
// and the error taxonomy used by the service layer. All errors returned to
// clients go through this package to ensure consistency and to prevent leaking
// internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"fmt"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ── Service-layer taxonomy ────────────────────────────────────────────────────

// ValidationError rejects malformed or missing input before any write is
// attempted. It carries optional per-field detail for the response body.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (e *ValidationError) Error() string { return e.Detail }

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "validation error", Fields: fields}
}

// Validationf builds a ValidationError with a formatted detail message.
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// OperationFailed signals that an entire transaction was rolled back. Callers
// only learn which operation failed, not which sub-step; the cause is attached
// for diagnostics (logs) and must not be used for branching.
type OperationFailed struct {
	Kind  string
	Cause error
}

func (e *OperationFailed) Error() string {
	return fmt.Sprintf("operation failed: %s", e.Kind)
}

func (e *OperationFailed) Unwrap() error { return e.Cause }

// Failed wraps a store-level error as an OperationFailed of the given kind.
func Failed(kind string, cause error) *OperationFailed {
	return &OperationFailed{Kind: kind, Cause: cause}
}

// NotFound marks an absent referenced entity.
type NotFound struct {
	Entity string
}

func (e *NotFound) Error() string { return e.Entity + " not found" }

func NewNotFound(entity string) *NotFound { return &NotFound{Entity: entity} }

// IsNotFound reports whether err is (or wraps) a NotFound.
func IsNotFound(err error) bool {
	var nf *NotFound
	return errors.As(err, &nf)
}
