package repository

import (
	"context"
	"sync"
)

// Entity is implemented by every record kept in a Store.  Records are
// values; Clone must return a copy that shares no mutable state.
type Entity[T any] interface {
	GetID() string
	WithID(id string) T
	Clone() T
}

// Options configures a store.  Zero values fall back to UUIDs and no latency.
type Options struct {
	Latency Latency
	NewID   IDFunc
}

// Store is an ordered in-memory collection.  Every operation waits for the
// configured latency first, then works on the collection under a lock.
// Concurrent writers to the same id are not coordinated: the last write wins.
type Store[T Entity[T]] struct {
	resource string
	prefix   string
	latency  Latency
	newID    IDFunc

	mu    sync.RWMutex
	items []T
}

// NewStore creates an empty store for resource.  prefix starts every id.
func NewStore[T Entity[T]](resource, prefix string, opts Options) *Store[T] {
	if opts.Latency == nil {
		opts.Latency = NoLatency
	}
	if opts.NewID == nil {
		opts.NewID = UUIDs
	}
	return &Store[T]{resource: resource, prefix: prefix, latency: opts.Latency, newID: opts.NewID}
}

// Resource names the collection in errors.
func (s *Store[T]) Resource() string { return s.resource }

// GetAll returns a copy of every record in insertion order.
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	if err := sleep(ctx, s.latency); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, len(s.items))
	for i, it := range s.items {
		out[i] = it.Clone()
	}
	return out, nil
}

// GetByID returns a copy of the record or a NotFoundError.
func (s *Store[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	if err := sleep(ctx, s.latency); err != nil {
		return zero, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i < 0 {
		return zero, notFound(s.resource, id)
	}
	return s.items[i].Clone(), nil
}

// Create assigns a fresh id, appends the record and returns a copy.  Any id
// carried by data is ignored.
func (s *Store[T]) Create(ctx context.Context, data T) (T, error) {
	var zero T
	if err := sleep(ctx, s.latency); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newID(s.prefix)
	for s.indexOf(id) >= 0 {
		id = s.newID(s.prefix)
	}
	rec := data.Clone().WithID(id)
	s.items = append(s.items, rec)
	return rec.Clone(), nil
}

// Update applies fn to a copy of the record and stores the result.  fn must
// not change the id; if it does the original id is restored.
func (s *Store[T]) Update(ctx context.Context, id string, fn func(*T)) (T, error) {
	var zero T
	if err := sleep(ctx, s.latency); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return zero, notFound(s.resource, id)
	}
	rec := s.items[i].Clone()
	fn(&rec)
	rec = rec.WithID(id)
	s.items[i] = rec
	return rec.Clone(), nil
}

// Delete removes the record and returns it.
func (s *Store[T]) Delete(ctx context.Context, id string) (T, error) {
	var zero T
	if err := sleep(ctx, s.latency); err != nil {
		return zero, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return zero, notFound(s.resource, id)
	}
	rec := s.items[i]
	s.items = append(s.items[:i], s.items[i+1:]...)
	return rec.Clone(), nil
}

// Load appends records that already carry ids, replacing any record with
// the same id.  Used for seeding; it does not wait.
func (s *Store[T]) Load(records ...T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if i := s.indexOf(r.GetID()); i >= 0 {
			s.items[i] = r.Clone()
			continue
		}
		s.items = append(s.items, r.Clone())
	}
}

// Reset empties the store.
func (s *Store[T]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
}

// Len is the number of records held.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store[T]) indexOf(id string) int {
	for i, it := range s.items {
		if it.GetID() == id {
			return i
		}
	}
	return -1
}
