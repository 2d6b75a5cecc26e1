package events

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewBus(nil)
	var got []string
	bus.Subscribe("a", func(e Event) { got = append(got, "a:"+string(e.Type)) })
	bus.Subscribe("b", func(e Event) { got = append(got, "b:"+string(e.Type)) })

	bus.Publish(New(RoomUpdated, "room-1", nil, ResourceRooms))

	if len(got) != 2 || got[0] != "a:room.updated" || got[1] != "b:room.updated" {
		t.Fatalf("deliveries = %v", got)
	}
}

func TestBusIsolatesPanickingSubscriber(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	bus := NewBus(zap.New(core))
	delivered := false
	bus.Subscribe("broken", func(Event) { panic("boom") })
	bus.Subscribe("healthy", func(Event) { delivered = true })

	bus.Publish(New(GuestCreated, "guest-1", nil, ResourceGuests))

	if !delivered {
		t.Fatal("healthy subscriber missed the event")
	}
	entries := logs.FilterMessage("event subscriber panicked").All()
	if len(entries) != 1 {
		t.Fatalf("expected one panic log, got %d", len(entries))
	}
	if entries[0].ContextMap()["subscriber"] != "broken" {
		t.Fatalf("log fields = %v", entries[0].ContextMap())
	}
}

func TestUnsubscribe(t *testing.T) {
	bus := NewBus(nil)
	n := 0
	stop := bus.Subscribe("counter", func(Event) { n++ })
	bus.Publish(Event{Type: RoomCreated})
	stop()
	stop()
	bus.Publish(Event{Type: RoomCreated})
	if n != 1 {
		t.Fatalf("n = %d", n)
	}
}

func TestEventTouches(t *testing.T) {
	e := New(ReservationCheckedOut, "res-1", nil, ResourceReservations, ResourceGuests, ResourceRooms)
	if !e.Touches(ResourceGuests) || e.Touches(ResourceReports) {
		t.Fatalf("resources = %v", e.Resources)
	}
	if e.ID == "" || e.OccurredAt.IsZero() {
		t.Fatal("event not stamped")
	}
}
