// Package service holds the front-desk rules: which status changes are
// legal, how prices and stays are derived, and the multi-record operations
// (check-in, check-out, cancellation) that keep rooms, guests and
// reservations consistent with one another.
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/events"
	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/utils"
)

// RoomStore is the room collection the service works against.
type RoomStore interface {
	GetAll(ctx context.Context) ([]model.Room, error)
	GetByID(ctx context.Context, id string) (model.Room, error)
	Create(ctx context.Context, room model.Room) (model.Room, error)
	Update(ctx context.Context, id string, patch model.RoomPatch) (model.Room, error)
	Delete(ctx context.Context, id string) (model.Room, error)
	FindByNumber(ctx context.Context, number string) (model.Room, bool, error)
}

// GuestStore is the guest collection the service works against.
type GuestStore interface {
	GetAll(ctx context.Context) ([]model.Guest, error)
	GetByID(ctx context.Context, id string) (model.Guest, error)
	Create(ctx context.Context, g model.Guest) (model.Guest, error)
	Update(ctx context.Context, id string, patch model.GuestPatch) (model.Guest, error)
	AppendStay(ctx context.Context, id string, stay model.StayRecord) (model.Guest, error)
	Delete(ctx context.Context, id string) (model.Guest, error)
}

// ReservationStore is the reservation collection the service works against.
type ReservationStore interface {
	GetAll(ctx context.Context) ([]model.Reservation, error)
	GetByID(ctx context.Context, id string) (model.Reservation, error)
	Create(ctx context.Context, r model.Reservation) (model.Reservation, error)
	Update(ctx context.Context, id string, patch model.ReservationPatch) (model.Reservation, error)
	Delete(ctx context.Context, id string) (model.Reservation, error)
}

// FrontDesk is the single enforcement point for lifecycle rules.  Stores
// accept any write; everything that must stay consistent goes through here.
type FrontDesk struct {
	rooms        RoomStore
	guests       GuestStore
	reservations ReservationStore

	events events.Publisher
	log    *zap.Logger
	clock  utils.Clock
	loc    *time.Location
}

type Option func(*FrontDesk)

// WithPublisher sends every successful change to p.
func WithPublisher(p events.Publisher) Option {
	return func(s *FrontDesk) {
		if p != nil {
			s.events = p
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *FrontDesk) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now when deciding what "today" is.
func WithClock(c utils.Clock) Option {
	return func(s *FrontDesk) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLocation sets the time zone whose calendar date counts as today.
func WithLocation(loc *time.Location) Option {
	return func(s *FrontDesk) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// New wires a FrontDesk over the three stores.
func New(rooms RoomStore, guests GuestStore, reservations ReservationStore, opts ...Option) *FrontDesk {
	if rooms == nil || guests == nil || reservations == nil {
		panic("service: nil store")
	}
	s := &FrontDesk{
		rooms:        rooms,
		guests:       guests,
		reservations: reservations,
		events:       events.Discard,
		log:          zap.NewNop(),
		clock:        time.Now,
		loc:          time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today is the current local calendar date as an ISO string.
func (s *FrontDesk) Today() string {
	return utils.Today(s.clock(), s.loc)
}

func (s *FrontDesk) emit(t events.Type, id string, payload any, resources ...string) {
	s.events.Publish(events.New(t, id, payload, append(resources, events.ResourceReports)...))
}
