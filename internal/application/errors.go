package application

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials is returned by the auth flow on a bad
// email/password pair or an unusable token.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrForbidden is returned when the caller lacks the role required for
// an operation.
var ErrForbidden = errors.New("forbidden")

// NotFoundError means a referenced entity (status slug, user id, label
// id, or the entity being operated on) does not exist.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func notFound(resource string, key any) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: fmt.Sprintf("%v", key)}
}

// ConflictError means a uniqueness violation or a delete blocked by
// existing references.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string { return e.Reason }

func conflict(format string, args ...any) *ConflictError {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

// ValidationError carries per-field messages for values that fail their
// constraints, including required fields explicitly patched to null.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %v", e.Fields)
}

func invalidField(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}
