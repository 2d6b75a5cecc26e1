package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ReservationStatus is the lifecycle state of a booking.
//
//	confirmed --check-in--> checked-in --check-out--> checked-out
//	confirmed --cancel--> cancelled
//	checked-in --cancel--> cancelled
//
// checked-out and cancelled are terminal.
type ReservationStatus string

const (
	ReservationConfirmed  ReservationStatus = "confirmed"
	ReservationCheckedIn  ReservationStatus = "checked-in"
	ReservationCheckedOut ReservationStatus = "checked-out"
	ReservationCancelled  ReservationStatus = "cancelled"
)

var reservationTransitions = map[ReservationStatus]map[ReservationStatus]bool{
	ReservationConfirmed:  {ReservationCheckedIn: true, ReservationCancelled: true},
	ReservationCheckedIn:  {ReservationCheckedOut: true, ReservationCancelled: true},
	ReservationCheckedOut: {},
	ReservationCancelled:  {},
}

var reservationColors = map[ReservationStatus]string{
	ReservationConfirmed:  "blue",
	ReservationCheckedIn:  "green",
	ReservationCheckedOut: "gray",
	ReservationCancelled:  "red",
}

// ReservationStatuses lists the vocabulary in lifecycle order.
func ReservationStatuses() []ReservationStatus {
	return []ReservationStatus{ReservationConfirmed, ReservationCheckedIn, ReservationCheckedOut, ReservationCancelled}
}

func (s ReservationStatus) Valid() bool {
	_, ok := reservationTransitions[s]
	return ok
}

// Terminal reports whether no transition leaves s.
func (s ReservationStatus) Terminal() bool {
	next, ok := reservationTransitions[s]
	return ok && len(next) == 0
}

// CanTransition reports whether from -> to is a legal lifecycle step.
func CanTransition(from, to ReservationStatus) bool {
	next, ok := reservationTransitions[from]
	if !ok {
		return false
	}
	return next[to]
}

// Label renders "checked-in" as "Checked in".
func (s ReservationStatus) Label() string {
	if !s.Valid() {
		return UnknownStatus.Label
	}
	v := strings.Replace(string(s), "-", " ", 1)
	return strings.ToUpper(v[:1]) + v[1:]
}

func (s ReservationStatus) Info() StatusInfo {
	if !s.Valid() {
		return UnknownStatus
	}
	tier := "active"
	if s.Terminal() {
		tier = "closed"
	}
	return StatusInfo{Label: s.Label(), Color: reservationColors[s], Tier: tier}
}

// Reservation books a room for a guest between two ISO dates.  TotalPrice is
// room price × nights at creation time and is never recomputed.
type Reservation struct {
	ID         string            `json:"id"`
	GuestID    string            `json:"guestId" validate:"required"`
	RoomID     string            `json:"roomId" validate:"required"`
	CheckIn    string            `json:"checkIn" validate:"required"`
	CheckOut   string            `json:"checkOut" validate:"required"`
	Status     ReservationStatus `json:"status"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	Notes      string            `json:"notes"`
}

func (r Reservation) GetID() string { return r.ID }

func (r Reservation) WithID(id string) Reservation {
	r.ID = id
	return r
}

func (r Reservation) Clone() Reservation { return r }

// ReservationPatch is a partial reservation update.  TotalPrice is not patchable.
type ReservationPatch struct {
	GuestID  *string            `json:"guestId"`
	RoomID   *string            `json:"roomId"`
	CheckIn  *string            `json:"checkIn"`
	CheckOut *string            `json:"checkOut"`
	Status   *ReservationStatus `json:"status"`
	Notes    *string            `json:"notes"`
}

func (p ReservationPatch) Apply(r *Reservation) {
	if p.GuestID != nil {
		r.GuestID = *p.GuestID
	}
	if p.RoomID != nil {
		r.RoomID = *p.RoomID
	}
	if p.CheckIn != nil {
		r.CheckIn = *p.CheckIn
	}
	if p.CheckOut != nil {
		r.CheckOut = *p.CheckOut
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
}
