// Package apperr holds the typed errors the HTTP layer translates into
// structured responses.
package apperr

import "fmt"

type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func NewValidation(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

func NewValidationWrap(msg string, err error) *ValidationError {
	return &ValidationError{Message: msg, Err: err}
}

// NotFoundError marks a missing resource. It is distinct from a quota denial
// so callers can tell "no such document" from "not allowed to open it".
type NotFoundError struct {
	Resource string
	ID       int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

func NewNotFound(resource string, id int64) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// QuotaDeniedError is the gate outcome for an exhausted or absent view
// budget. It is rendered as a 403 carrying the remaining quota so the caller
// can explain the denial instead of showing a generic failure.
type QuotaDeniedError struct {
	Remaining int
}

func (e *QuotaDeniedError) Error() string {
	return fmt.Sprintf("view quota exhausted, %d views remaining", e.Remaining)
}

func NewQuotaDenied(remaining int) *QuotaDeniedError {
	return &QuotaDeniedError{Remaining: remaining}
}
