// Package report derives the dashboard figures from snapshots of the three
// collections.  Everything here is a pure function of its inputs except
// LoadSnapshot, which fetches the snapshot.
package report

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// Source lists the current contents of each collection.
type Source interface {
	ListRooms(ctx context.Context) ([]model.Room, error)
	ListGuests(ctx context.Context) ([]model.Guest, error)
	ListReservations(ctx context.Context) ([]model.Reservation, error)
}

// Snapshot is a point-in-time copy of all three collections.
type Snapshot struct {
	Rooms        []model.Room
	Guests       []model.Guest
	Reservations []model.Reservation
}

// LoadSnapshot reads the three collections concurrently.  The first error
// cancels the remaining reads.
func LoadSnapshot(ctx context.Context, src Source) (Snapshot, error) {
	var snap Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rooms, err := src.ListRooms(ctx)
		snap.Rooms = rooms
		return err
	})
	g.Go(func() error {
		guests, err := src.ListGuests(ctx)
		snap.Guests = guests
		return err
	})
	g.Go(func() error {
		reservations, err := src.ListReservations(ctx)
		snap.Reservations = reservations
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	return snap, nil
}

// Fallbacks shown when a reference points at a record that no longer exists.
const (
	UnknownGuest = "Unknown Guest"
	UnknownRoom  = "N/A"
)

// Lookup resolves guest and room references by id.
type Lookup struct {
	guests map[string]model.Guest
	rooms  map[string]model.Room
}

func NewLookup(guests []model.Guest, rooms []model.Room) Lookup {
	l := Lookup{
		guests: make(map[string]model.Guest, len(guests)),
		rooms:  make(map[string]model.Room, len(rooms)),
	}
	for _, g := range guests {
		l.guests[g.ID] = g
	}
	for _, r := range rooms {
		l.rooms[r.ID] = r
	}
	return l
}

// GuestName is the guest's full name or UnknownGuest.
func (l Lookup) GuestName(id string) string {
	if g, ok := l.guests[id]; ok {
		return g.FullName()
	}
	return UnknownGuest
}

// RoomNumber is the room's number or UnknownRoom.
func (l Lookup) RoomNumber(id string) string {
	if r, ok := l.rooms[id]; ok && r.Number != "" {
		return r.Number
	}
	return UnknownRoom
}
