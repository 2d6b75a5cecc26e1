// Package events carries domain events from the front-desk service to
// whoever wants to react to them: the live dashboard hub, the broker
// publisher and the response cache.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Type names what happened, "<resource>.<verb>".
type Type string

const (
	RoomCreated Type = "room.created"
	RoomUpdated Type = "room.updated"
	RoomDeleted Type = "room.deleted"

	GuestCreated Type = "guest.created"
	GuestUpdated Type = "guest.updated"
	GuestDeleted Type = "guest.deleted"

	ReservationCreated    Type = "reservation.created"
	ReservationUpdated    Type = "reservation.updated"
	ReservationDeleted    Type = "reservation.deleted"
	ReservationCheckedIn  Type = "reservation.checked_in"
	ReservationCheckedOut Type = "reservation.checked_out"
	ReservationCancelled  Type = "reservation.cancelled"

	GuestCheckedIn      Type = "front_desk.checked_in"
	NightAuditCompleted Type = "night_audit.completed"
)

// Resource collections an event can touch.
const (
	ResourceRooms        = "rooms"
	ResourceGuests       = "guests"
	ResourceReservations = "reservations"
	ResourceReports      = "reports"
)

// Event is one domain change.  Payload is the record after the change (or
// the removed record for deletes) and is serialised as-is.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Resources  []string  `json:"resources"`
	EntityID   string    `json:"entityId,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// New builds an event stamped with a fresh id and the current time.
func New(t Type, entityID string, payload any, resources ...string) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       t,
		Resources:  resources,
		EntityID:   entityID,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
}

// Touches reports whether the event changed the named collection.
func (e Event) Touches(resource string) bool {
	for _, r := range e.Resources {
		if r == resource {
			return true
		}
	}
	return false
}
