package catalog

import (
	"fmt"
)

var (
	ErrResourceNotFound = fmt.Errorf("resource not found")
	ErrInvalidResource  = fmt.Errorf("invalid resource")
)

// NotFoundError is raised by every keyed operation that targets a missing record.
// The message format is shared by all record types.
type NotFoundError struct {
	Name string
	ID   any
}

func NewNotFoundError(name string, id any) *NotFoundError {
	return &NotFoundError{
		Name: name,
		ID:   id,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with id %v not found", e.Name, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrResourceNotFound
}

// ValidationError reports a record payload that is missing required fields or is malformed
type ValidationError struct {
	Name string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is not valid: %v", e.Name, e.Err)
}

func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidResource, e.Err}
}
