package apperrors

import (
	"errors"
	"fmt"
)

// ErrCacheMiss signals that a key is absent from the cache. Callers should
// fall back to the authoritative store and repopulate the entry.
var ErrCacheMiss = errors.New("cache miss")

// ErrCacheUnavailable signals that the cache backend cannot be reached.
// It is distinct from ErrCacheMiss: callers must not repopulate on it,
// but they may still serve the request from the authoritative store.
var ErrCacheUnavailable = errors.New("cache unavailable")

// ErrNotFound represents an error when a requested resource is not found.
type ErrNotFound struct {
	Resource string
	ID       interface{}
}

// Error implements the error interface.
func (e *ErrNotFound) Error() string {
	if e.ID != nil {
		return fmt.Sprintf("%s with ID %v not found", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Is allows for error checking with errors.Is().
func (e *ErrNotFound) Is(target error) bool {
	_, ok := target.(*ErrNotFound)
	return ok
}

// NewNotFoundError creates a new ErrNotFound.
func NewNotFoundError(resource string, id interface{}) *ErrNotFound {
	return &ErrNotFound{
		Resource: resource,
		ID:       id,
	}
}

// NewProductNotFoundError creates a specific error for when a product is not found.
func NewProductNotFoundError(id int) *ErrNotFound {
	return &ErrNotFound{
		Resource: "product",
		ID:       id,
	}
}

// ErrValidation represents a rejected input: a missing required field or a
// value outside its allowed range. Maps to HTTP 400 and is never retried.
type ErrValidation struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ErrValidation) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return e.Reason
}

// Is allows for error checking with errors.Is().
func (e *ErrValidation) Is(target error) bool {
	_, ok := target.(*ErrValidation)
	return ok
}

// NewValidationError creates a new ErrValidation for the given field.
func NewValidationError(field, reason string) *ErrValidation {
	return &ErrValidation{
		Field:  field,
		Reason: reason,
	}
}
