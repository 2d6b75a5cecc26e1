// Package repository holds the in-memory entity stores.  Each store owns its
// collection; cross references between rooms, guests and reservations are
// plain ids resolved by the caller.
package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is the sentinel wrapped by every NotFoundError so callers can
// use errors.Is without knowing the resource.
var ErrNotFound = errors.New("not found")

// NotFoundError reports an id that no record in the named resource has.
// Handlers translate it into an HTTP 404 response.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

func notFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}
