package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound matches every *NotFoundError via errors.Is.
var ErrNotFound = errors.New("not found")

type NotFoundError struct {
	Resource string
	// Field is the request field that referenced the missing record, if any.
	Field string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFound(resource string) error {
	return &NotFoundError{Resource: resource}
}

func NotFoundField(resource, field string) error {
	return &NotFoundError{Resource: resource, Field: field}
}

// FieldError describes one invalid request field. Code is a message ID
// resolved against the request locale at the HTTP boundary.
type FieldError struct {
	Field  string
	Code   string
	Params map[string]any
}

func (e *FieldError) Error() string {
	if len(e.Params) == 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Code)
	}
	return fmt.Sprintf("%s: %s %v", e.Field, e.Code, e.Params)
}

func NewFieldError(field, code string, params map[string]any) *FieldError {
	return &FieldError{Field: field, Code: code, Params: params}
}

// ValidationError aggregates field errors in the order they were found.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i := range e.Fields {
		parts[i] = e.Fields[i].Error()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add appends fe unless the same field already failed.
func (e *ValidationError) Add(fe *FieldError) {
	for _, existing := range e.Fields {
		if existing.Field == fe.Field {
			return
		}
	}
	e.Fields = append(e.Fields, *fe)
}

// Collect records err if it is a *FieldError and reports whether it did.
// Any other non-nil error is left to the caller.
func (e *ValidationError) Collect(err error) bool {
	var fe *FieldError
	if errors.As(err, &fe) {
		e.Add(fe)
		return true
	}
	return false
}

// Err returns nil when nothing was collected.
func (e *ValidationError) Err() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func Invalid(field, code string, params map[string]any) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Code: code, Params: params}}}
}
