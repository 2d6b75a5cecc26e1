package model

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Room is a physical room on the board.
//
// Fields:
//
//	ID             – stable identifier assigned by the store.
//	Number         – display label, unique across rooms ("101").
//	Type           – Standard, Deluxe, Suite or any other label.
//	Floor          – floor number.
//	Status         – current RoomStatus.
//	CurrentGuestID – guest staying in the room; set only while occupied.
//	Price          – nightly rate.
//	LastCleaned    – ISO date of the last cleaning.
type Room struct {
	ID             string          `json:"id"`
	Number         string          `json:"number" validate:"required"`
	Type           string          `json:"type" validate:"required"`
	Floor          int             `json:"floor"`
	Status         RoomStatus      `json:"status"`
	CurrentGuestID *string         `json:"currentGuestId"`
	Price          decimal.Decimal `json:"price"`
	LastCleaned    string          `json:"lastCleaned,omitempty"`
}

// Known room types offered by the property.  Type remains an open string.
const (
	RoomTypeStandard = "Standard"
	RoomTypeDeluxe   = "Deluxe"
	RoomTypeSuite    = "Suite"
)

func (r Room) GetID() string { return r.ID }

func (r Room) WithID(id string) Room {
	r.ID = id
	return r
}

func (r Room) Clone() Room {
	if r.CurrentGuestID != nil {
		id := *r.CurrentGuestID
		r.CurrentGuestID = &id
	}
	return r
}

// Normalize enforces the occupancy invariant: a guest reference only exists
// while the room is occupied.
func (r *Room) Normalize() {
	if r.Status != RoomOccupied {
		r.CurrentGuestID = nil
	}
}

// IsOccupiedBy reports whether guestID is the room's current guest.
func (r Room) IsOccupiedBy(guestID string) bool {
	return r.Status == RoomOccupied && r.CurrentGuestID != nil && *r.CurrentGuestID == guestID
}

// RoomPatch is a partial room update.  Nil fields are left untouched.
// ClearCurrentGuest distinguishes an explicit JSON null for currentGuestId
// from an absent field.
type RoomPatch struct {
	Number            *string
	Type              *string
	Floor             *int
	Status            *RoomStatus
	CurrentGuestID    *string
	ClearCurrentGuest bool
	Price             *decimal.Decimal
	LastCleaned       *string
}

// Apply merges p over r and re-establishes the occupancy invariant.
func (p RoomPatch) Apply(r *Room) {
	if p.Number != nil {
		r.Number = *p.Number
	}
	if p.Type != nil {
		r.Type = *p.Type
	}
	if p.Floor != nil {
		r.Floor = *p.Floor
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.ClearCurrentGuest {
		r.CurrentGuestID = nil
	} else if p.CurrentGuestID != nil {
		id := *p.CurrentGuestID
		r.CurrentGuestID = &id
	}
	if p.Price != nil {
		r.Price = *p.Price
	}
	if p.LastCleaned != nil {
		r.LastCleaned = *p.LastCleaned
	}
	r.Normalize()
}

func (p *RoomPatch) UnmarshalJSON(b []byte) error {
	var raw struct {
		Number         *string          `json:"number"`
		Type           *string          `json:"type"`
		Floor          *int             `json:"floor"`
		Status         *RoomStatus      `json:"status"`
		CurrentGuestID json.RawMessage  `json:"currentGuestId"`
		Price          *decimal.Decimal `json:"price"`
		LastCleaned    *string          `json:"lastCleaned"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = RoomPatch{
		Number:      raw.Number,
		Type:        raw.Type,
		Floor:       raw.Floor,
		Status:      raw.Status,
		Price:       raw.Price,
		LastCleaned: raw.LastCleaned,
	}
	switch {
	case len(raw.CurrentGuestID) == 0:
	case bytes.Equal(bytes.TrimSpace(raw.CurrentGuestID), []byte("null")):
		p.ClearCurrentGuest = true
	default:
		var id string
		if err := json.Unmarshal(raw.CurrentGuestID, &id); err != nil {
			return err
		}
		p.CurrentGuestID = &id
	}
	return nil
}
