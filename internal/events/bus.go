package events

import (
	"sync"

	"go.uber.org/zap"
)

// Publisher accepts events.  The front-desk service only depends on this.
type Publisher interface {
	Publish(Event)
}

// Handler reacts to one event.  It runs on the publisher's goroutine and
// should hand off anything slow.
type Handler func(Event)

// Discard drops every event.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(Event) {}

type subscription struct {
	id   uint64
	name string
	fn   Handler
}

// Bus fans events out synchronously to its subscribers in subscription
// order.  A panicking subscriber is logged and skipped; the others still
// receive the event.
type Bus struct {
	log *zap.Logger

	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

// NewBus returns an empty bus.  log may be nil.
func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{log: log}
}

// Subscribe registers fn under name and returns a function that removes it.
func (b *Bus) Subscribe(name string, fn Handler) (unsubscribe func()) {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs = append(b.subs, subscription{id: id, name: name, fn: fn})
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			for i, s := range b.subs {
				if s.id == id {
					b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Publish delivers e to every subscriber.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	subs := make([]subscription, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, s := range subs {
		b.deliver(s, e)
	}
}

func (b *Bus) deliver(s subscription, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event subscriber panicked",
				zap.String("subscriber", s.name),
				zap.String("event", string(e.Type)),
				zap.Any("panic", r),
			)
		}
	}()
	s.fn(e)
}
