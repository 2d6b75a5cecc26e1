package repository

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDFunc builds a new record id for the given resource prefix.
type IDFunc func(prefix string) string

// UUIDs produces ids like "room-8c1e...", unique even for creates issued in
// the same millisecond.
func UUIDs(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// SequentialIDs returns a monotonic generator ("room-001", "room-002", ...)
// that is handy for deterministic fixtures.
func SequentialIDs() IDFunc {
	var n atomic.Uint64
	return func(prefix string) string {
		return fmt.Sprintf("%s-%03d", prefix, n.Add(1))
	}
}
