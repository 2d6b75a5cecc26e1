package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/events"
	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// CheckInRequest is the walk-in form: guest details plus the room and the
// departure date.  The stay starts today.
type CheckInRequest struct {
	RoomID    string `json:"roomId" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	IDNumber  string `json:"idNumber" validate:"required"`
	Address   string `json:"address"`
	CheckOut  string `json:"checkOut" validate:"required"`
	Notes     string `json:"notes"`
}

// CheckInResult holds the three records a walk-in check-in produces.
type CheckInResult struct {
	Guest       model.Guest       `json:"guest"`
	Room        model.Room        `json:"room"`
	Reservation model.Reservation `json:"reservation"`
}

// CheckIn registers a walk-in guest into a vacant-clean room: it creates the
// guest, occupies the room and records a checked-in reservation from today
// until req.CheckOut.
//
// Everything that can be checked is checked before the first write.  If a
// later write fails the earlier ones are undone (room restored, guest
// removed) and the failing step's error is returned.
func (s *FrontDesk) CheckIn(ctx context.Context, req CheckInRequest) (CheckInResult, error) {
	if err := Validate(req); err != nil {
		return CheckInResult{}, err
	}
	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return CheckInResult{}, err
	}
	if room.Status != model.RoomVacantClean {
		return CheckInResult{}, InvalidTransitionError{Entity: "room", ID: room.ID, From: string(room.Status), To: string(model.RoomOccupied)}
	}
	today := s.Today()
	nights, err := stayLength(today, req.CheckOut)
	if err != nil {
		return CheckInResult{}, err
	}

	guest, err := s.guests.Create(ctx, model.Guest{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		IDNumber:  req.IDNumber,
		Address:   req.Address,
	})
	if err != nil {
		return CheckInResult{}, fmt.Errorf("check in: create guest: %w", err)
	}

	occupied := model.RoomOccupied
	occupiedRoom, err := s.rooms.Update(ctx, room.ID, model.RoomPatch{Status: &occupied, CurrentGuestID: &guest.ID})
	if err != nil {
		s.removeGuest(ctx, guest.ID)
		return CheckInResult{}, fmt.Errorf("check in: occupy room %s: %w", room.Number, err)
	}

	res, err := s.reservations.Create(ctx, model.Reservation{
		GuestID:    guest.ID,
		RoomID:     room.ID,
		CheckIn:    today,
		CheckOut:   req.CheckOut,
		Status:     model.ReservationCheckedIn,
		TotalPrice: totalPrice(room.Price, nights),
		Notes:      req.Notes,
	})
	if err != nil {
		s.restoreRoom(ctx, room)
		s.removeGuest(ctx, guest.ID)
		return CheckInResult{}, fmt.Errorf("check in: create reservation: %w", err)
	}

	s.log.Info("guest checked in",
		zap.String("guest_id", guest.ID),
		zap.String("room", occupiedRoom.Number),
		zap.String("reservation_id", res.ID),
		zap.Int("nights", nights),
		zap.String("total", res.TotalPrice.StringFixed(2)),
	)
	out := CheckInResult{Guest: guest, Room: occupiedRoom, Reservation: res}
	s.emit(events.GuestCheckedIn, res.ID, out, events.ResourceGuests, events.ResourceRooms, events.ResourceReservations)
	return out, nil
}

// restoreRoom puts prev's status and guest reference back.  It runs even if
// ctx has been cancelled.
func (s *FrontDesk) restoreRoom(ctx context.Context, prev model.Room) {
	ctx = context.WithoutCancel(ctx)
	patch := model.RoomPatch{Status: &prev.Status}
	if prev.CurrentGuestID == nil {
		patch.ClearCurrentGuest = true
	} else {
		patch.CurrentGuestID = prev.CurrentGuestID
	}
	s.log.Warn("rolling back room", zap.String("room_id", prev.ID), zap.String("status", string(prev.Status)))
	if _, err := s.rooms.Update(ctx, prev.ID, patch); err != nil {
		s.log.Error("room rollback failed", zap.String("room_id", prev.ID), zap.Error(err))
	}
}

func (s *FrontDesk) removeGuest(ctx context.Context, id string) {
	ctx = context.WithoutCancel(ctx)
	s.log.Warn("rolling back guest", zap.String("guest_id", id))
	if _, err := s.guests.Delete(ctx, id); err != nil {
		s.log.Error("guest rollback failed", zap.String("guest_id", id), zap.Error(err))
	}
}
