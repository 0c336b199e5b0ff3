package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Every error returned by a service matches exactly one of
// these through errors.Is; the HTTP layer maps them to status codes.
var (
	ErrValidation           = errors.New("validation failed")
	ErrNotFound             = errors.New("not found")
	ErrConflict             = errors.New("conflict")
	ErrForbidden            = errors.New("forbidden")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrReferentialIntegrity = errors.New("referenced entity does not exist")
	ErrAggregateWrite       = errors.New("aggregate write failed")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects field-level problems found before any write.
type ValidationError struct {
	Details []FieldError
}

// Add records a problem for field.
func (e *ValidationError) Add(field, format string, args ...any) {
	e.Details = append(e.Details, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// OrNil returns e when it holds at least one detail.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Details) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		msgs = append(msgs, d.Field+": "+d.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError is a shortcut for a single-field ValidationError.
func NewValidationError(field, format string, args ...any) *ValidationError {
	v := &ValidationError{}
	v.Add(field, format, args...)
	return v
}

// ReferenceError reports ids of an entity kind that do not exist.
type ReferenceError struct {
	Entity string
	IDs    []int64
}

func (e *ReferenceError) Error() string {
	ids := make([]string, 0, len(e.IDs))
	for _, id := range e.IDs {
		ids = append(ids, fmt.Sprint(id))
	}
	return fmt.Sprintf("%s not found: %s", e.Entity, strings.Join(ids, ", "))
}

func (e *ReferenceError) Is(target error) bool { return target == ErrReferentialIntegrity }

// AggregateWriteError wraps a failure raised inside an aggregate unit of work.
// By the time it is returned the unit of work has been rolled back.
type AggregateWriteError struct {
	Op  string
	Err error
}

func (e *AggregateWriteError) Error() string {
	return fmt.Sprintf("%s event aggregate: %v", e.Op, e.Err)
}

func (e *AggregateWriteError) Unwrap() error { return e.Err }

func (e *AggregateWriteError) Is(target error) bool { return target == ErrAggregateWrite }
