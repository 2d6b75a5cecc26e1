package report

import (
	"strings"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// All matches any value in a filter field, as does the empty string.
const All = "all"

func matches(filter, value string) bool {
	return filter == "" || filter == All || filter == value
}

type RoomFilter struct {
	Status string
	Type   string
}

// FilterRooms keeps the rooms matching both the status and the type filter.
func FilterRooms(rooms []model.Room, f RoomFilter) []model.Room {
	out := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		if matches(f.Status, string(r.Status)) && matches(f.Type, r.Type) {
			out = append(out, r)
		}
	}
	return out
}

// RoomTypes lists the distinct room types in first-seen order.
func RoomTypes(rooms []model.Room) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, r := range rooms {
		if !seen[r.Type] {
			seen[r.Type] = true
			out = append(out, r.Type)
		}
	}
	return out
}

// SearchGuests matches q case-insensitively against first name, last name
// and email, and literally against the phone number.
func SearchGuests(guests []model.Guest, q string) []model.Guest {
	if q == "" {
		return guests
	}
	lq := strings.ToLower(q)
	out := make([]model.Guest, 0, len(guests))
	for _, g := range guests {
		if strings.Contains(strings.ToLower(g.FirstName), lq) ||
			strings.Contains(strings.ToLower(g.LastName), lq) ||
			strings.Contains(strings.ToLower(g.Email), lq) ||
			strings.Contains(g.Phone, q) {
			out = append(out, g)
		}
	}
	return out
}

type ReservationFilter struct {
	Query  string
	Status string
}

// FilterReservations matches Query against the guest's name, the
// reservation id and the room number (all case-insensitive) and Status
// exactly.  Dangling references are searched by their fallback text.
func FilterReservations(snap Snapshot, f ReservationFilter) []model.Reservation {
	lookup := NewLookup(snap.Guests, snap.Rooms)
	lq := strings.ToLower(f.Query)
	out := make([]model.Reservation, 0, len(snap.Reservations))
	for _, r := range snap.Reservations {
		if !matches(f.Status, string(r.Status)) {
			continue
		}
		if lq != "" &&
			!strings.Contains(strings.ToLower(lookup.GuestName(r.GuestID)), lq) &&
			!strings.Contains(strings.ToLower(r.ID), lq) &&
			!strings.Contains(strings.ToLower(lookup.RoomNumber(r.RoomID)), lq) {
			continue
		}
		out = append(out, r)
	}
	return out
}
