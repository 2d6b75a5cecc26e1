package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/iliyamo/hotel-front-desk/internal/events"
	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/utils"
)

// ReservationRequest books a room ahead of arrival.
type ReservationRequest struct {
	GuestID  string `json:"guestId" validate:"required"`
	RoomID   string `json:"roomId" validate:"required"`
	CheckIn  string `json:"checkIn" validate:"required"`
	CheckOut string `json:"checkOut" validate:"required"`
	Notes    string `json:"notes"`
}

// StayResult is the outcome of a lifecycle step on a reservation.  Room and
// Guest are set when the step touched them.
type StayResult struct {
	Reservation model.Reservation `json:"reservation"`
	Room        *model.Room       `json:"room,omitempty"`
	Guest       *model.Guest      `json:"guest,omitempty"`
}

func (s *FrontDesk) ListReservations(ctx context.Context) ([]model.Reservation, error) {
	return s.reservations.GetAll(ctx)
}

func (s *FrontDesk) GetReservation(ctx context.Context, id string) (model.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

// CreateReservation books req as a confirmed reservation.  The total is the
// room's nightly price times the number of nights and is fixed from here on.
func (s *FrontDesk) CreateReservation(ctx context.Context, req ReservationRequest) (model.Reservation, error) {
	if err := Validate(req); err != nil {
		return model.Reservation{}, err
	}
	nights, err := stayLength(req.CheckIn, req.CheckOut)
	if err != nil {
		return model.Reservation{}, err
	}
	if _, err := s.guests.GetByID(ctx, req.GuestID); err != nil {
		return model.Reservation{}, err
	}
	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		return model.Reservation{}, err
	}
	created, err := s.reservations.Create(ctx, model.Reservation{
		GuestID:    req.GuestID,
		RoomID:     req.RoomID,
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
		Status:     model.ReservationConfirmed,
		TotalPrice: totalPrice(room.Price, nights),
		Notes:      req.Notes,
	})
	if err != nil {
		return model.Reservation{}, err
	}
	s.emit(events.ReservationCreated, created.ID, created, events.ResourceReservations)
	return created, nil
}

// UpdateReservation edits a reservation.  The total price is never
// recomputed.  A status in the patch is applied through the lifecycle, with
// the same side effects as the dedicated check-in, check-out and cancel
// operations.  Room and guest are fixed once the guest has checked in.
//
// Every check, including the lifecycle preconditions of a status change,
// runs before the first write.  If the status step still fails, the field
// edits are reverted.
func (s *FrontDesk) UpdateReservation(ctx context.Context, id string, patch model.ReservationPatch) (model.Reservation, error) {
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	fields := patch
	fields.Status = nil
	merged := current
	fields.Apply(&merged)

	if patch.GuestID != nil {
		if strings.TrimSpace(*patch.GuestID) == "" {
			return model.Reservation{}, invalid("guestId", "is required")
		}
		if *patch.GuestID != current.GuestID {
			if err := assignable(current, "guestId"); err != nil {
				return model.Reservation{}, err
			}
		}
		if _, err := s.guests.GetByID(ctx, *patch.GuestID); err != nil {
			return model.Reservation{}, err
		}
	}
	if patch.RoomID != nil {
		if strings.TrimSpace(*patch.RoomID) == "" {
			return model.Reservation{}, invalid("roomId", "is required")
		}
		if *patch.RoomID != current.RoomID {
			if err := assignable(current, "roomId"); err != nil {
				return model.Reservation{}, err
			}
		}
		if _, err := s.rooms.GetByID(ctx, *patch.RoomID); err != nil {
			return model.Reservation{}, err
		}
	}
	if patch.CheckIn != nil || patch.CheckOut != nil {
		if _, err := stayLength(merged.CheckIn, merged.CheckOut); err != nil {
			return model.Reservation{}, err
		}
	}
	var target *model.ReservationStatus
	if patch.Status != nil && *patch.Status != current.Status {
		if err := checkTransition(current, *patch.Status); err != nil {
			return model.Reservation{}, err
		}
		if err := s.checkLifecycleStep(ctx, merged, *patch.Status); err != nil {
			return model.Reservation{}, err
		}
		target = patch.Status
	}

	updated := current
	if fields != (model.ReservationPatch{}) {
		updated, err = s.reservations.Update(ctx, id, fields)
		if err != nil {
			return model.Reservation{}, err
		}
	}
	if target == nil {
		if fields != (model.ReservationPatch{}) {
			s.emit(events.ReservationUpdated, updated.ID, updated, events.ResourceReservations)
		}
		return updated, nil
	}
	res, err := s.UpdateReservationStatus(ctx, id, *target)
	if err != nil {
		if fields != (model.ReservationPatch{}) {
			s.revertFields(ctx, current, fields)
		}
		return model.Reservation{}, err
	}
	if fields != (model.ReservationPatch{}) {
		s.emit(events.ReservationUpdated, res.Reservation.ID, res.Reservation, events.ResourceReservations)
	}
	return res.Reservation, nil
}

// assignable rejects moving a reservation to another room or guest once the
// stay has started or ended; occupancy follows the original assignment.
func assignable(res model.Reservation, field string) error {
	if res.Status == model.ReservationConfirmed {
		return nil
	}
	return invalid(field, fmt.Sprintf("cannot change on a %s reservation", res.Status))
}

// checkLifecycleStep runs the preconditions of the lifecycle operation that
// moves res to status, without writing anything.
func (s *FrontDesk) checkLifecycleStep(ctx context.Context, res model.Reservation, to model.ReservationStatus) error {
	switch to {
	case model.ReservationCheckedIn:
		room, err := s.rooms.GetByID(ctx, res.RoomID)
		if err != nil {
			return fmt.Errorf("check in reservation %s: %w", res.ID, err)
		}
		if room.Status != model.RoomVacantClean {
			return InvalidTransitionError{Entity: "room", ID: room.ID, From: string(room.Status), To: string(model.RoomOccupied)}
		}
		if _, err := s.guests.GetByID(ctx, res.GuestID); err != nil {
			return fmt.Errorf("check in reservation %s: %w", res.ID, err)
		}
	case model.ReservationCheckedOut:
		if _, err := utils.Nights(res.CheckIn, res.CheckOut); err != nil {
			return invalid("checkOut", err.Error())
		}
	}
	return nil
}

// revertFields writes prev's values back for every field set in edited.
// It runs even if ctx has been cancelled.
func (s *FrontDesk) revertFields(ctx context.Context, prev model.Reservation, edited model.ReservationPatch) {
	ctx = context.WithoutCancel(ctx)
	var undo model.ReservationPatch
	if edited.GuestID != nil {
		undo.GuestID = &prev.GuestID
	}
	if edited.RoomID != nil {
		undo.RoomID = &prev.RoomID
	}
	if edited.CheckIn != nil {
		undo.CheckIn = &prev.CheckIn
	}
	if edited.CheckOut != nil {
		undo.CheckOut = &prev.CheckOut
	}
	if edited.Notes != nil {
		undo.Notes = &prev.Notes
	}
	s.log.Warn("rolling back reservation edit", zap.String("reservation_id", prev.ID))
	if _, err := s.reservations.Update(ctx, prev.ID, undo); err != nil {
		s.log.Error("reservation edit rollback failed", zap.String("reservation_id", prev.ID), zap.Error(err))
	}
}

// UpdateReservationStatus moves a reservation along its lifecycle.
// Illegal moves fail with InvalidTransitionError before anything is written.
func (s *FrontDesk) UpdateReservationStatus(ctx context.Context, id string, to model.ReservationStatus) (StayResult, error) {
	switch to {
	case model.ReservationCheckedIn:
		return s.CheckInReservation(ctx, id)
	case model.ReservationCheckedOut:
		return s.CheckOut(ctx, id)
	case model.ReservationCancelled:
		return s.Cancel(ctx, id)
	}
	current, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return StayResult{}, err
	}
	if err := checkTransition(current, to); err != nil {
		return StayResult{}, err
	}
	// Every legal target is handled above.
	return StayResult{}, InvalidTransitionError{Entity: "reservation", ID: id, From: string(current.Status), To: string(to)}
}

// CheckInReservation admits the guest of a confirmed reservation.  The room
// must be vacant-clean; it becomes occupied by the reservation's guest.
func (s *FrontDesk) CheckInReservation(ctx context.Context, id string) (StayResult, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return StayResult{}, err
	}
	if err := checkTransition(res, model.ReservationCheckedIn); err != nil {
		return StayResult{}, err
	}
	room, err := s.rooms.GetByID(ctx, res.RoomID)
	if err != nil {
		return StayResult{}, fmt.Errorf("check in reservation %s: %w", id, err)
	}
	if room.Status != model.RoomVacantClean {
		return StayResult{}, InvalidTransitionError{Entity: "room", ID: room.ID, From: string(room.Status), To: string(model.RoomOccupied)}
	}
	guest, err := s.guests.GetByID(ctx, res.GuestID)
	if err != nil {
		return StayResult{}, fmt.Errorf("check in reservation %s: %w", id, err)
	}

	occupied := model.RoomOccupied
	updatedRoom, err := s.rooms.Update(ctx, room.ID, model.RoomPatch{Status: &occupied, CurrentGuestID: &guest.ID})
	if err != nil {
		return StayResult{}, fmt.Errorf("check in reservation %s: occupy room: %w", id, err)
	}
	checkedIn := model.ReservationCheckedIn
	res, err = s.reservations.Update(ctx, id, model.ReservationPatch{Status: &checkedIn})
	if err != nil {
		s.restoreRoom(ctx, room)
		return StayResult{}, fmt.Errorf("check in reservation %s: %w", id, err)
	}

	s.log.Info("reservation checked in",
		zap.String("reservation_id", res.ID),
		zap.String("room", updatedRoom.Number),
		zap.String("guest_id", guest.ID),
	)
	out := StayResult{Reservation: res, Room: &updatedRoom, Guest: &guest}
	s.emit(events.ReservationCheckedIn, res.ID, out, events.ResourceReservations, events.ResourceRooms)
	return out, nil
}

// CheckOut completes a stay: the reservation becomes checked-out, the guest
// gains a stay record and the room is released for housekeeping.  A room or
// guest that no longer exists is skipped rather than failing the check-out.
func (s *FrontDesk) CheckOut(ctx context.Context, id string) (StayResult, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return StayResult{}, err
	}
	if err := checkTransition(res, model.ReservationCheckedOut); err != nil {
		return StayResult{}, err
	}
	nights, err := utils.Nights(res.CheckIn, res.CheckOut)
	if err != nil {
		return StayResult{}, invalid("checkOut", err.Error())
	}
	checkedOut := model.ReservationCheckedOut
	res, err = s.reservations.Update(ctx, id, model.ReservationPatch{Status: &checkedOut})
	if err != nil {
		return StayResult{}, err
	}
	out := StayResult{Reservation: res}

	roomNumber := "N/A"
	room, found, err := s.releaseRoom(ctx, res)
	if err != nil {
		return out, fmt.Errorf("check out reservation %s: %w", id, err)
	}
	if found {
		roomNumber = room.Number
		out.Room = &room
	}

	guest, err := s.guests.AppendStay(ctx, res.GuestID, model.StayRecord{
		RoomNumber:  roomNumber,
		CheckIn:     res.CheckIn,
		CheckOut:    res.CheckOut,
		Nights:      nights,
		TotalAmount: res.TotalPrice,
	})
	switch {
	case IsNotFound(err):
		s.log.Warn("check-out: guest no longer exists, stay not recorded",
			zap.String("reservation_id", res.ID), zap.String("guest_id", res.GuestID))
	case err != nil:
		return out, fmt.Errorf("check out reservation %s: record stay: %w", id, err)
	default:
		out.Guest = &guest
	}

	s.log.Info("reservation checked out",
		zap.String("reservation_id", res.ID),
		zap.String("room", roomNumber),
		zap.Int("nights", nights),
		zap.String("total", res.TotalPrice.StringFixed(2)),
	)
	s.emit(events.ReservationCheckedOut, res.ID, out, events.ResourceReservations, events.ResourceRooms, events.ResourceGuests)
	return out, nil
}

// Cancel terminates a confirmed or checked-in reservation.  Cancelling an
// ongoing stay releases the room for housekeeping.
func (s *FrontDesk) Cancel(ctx context.Context, id string) (StayResult, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		return StayResult{}, err
	}
	if err := checkTransition(res, model.ReservationCancelled); err != nil {
		return StayResult{}, err
	}
	wasStaying := res.Status == model.ReservationCheckedIn
	cancelled := model.ReservationCancelled
	res, err = s.reservations.Update(ctx, id, model.ReservationPatch{Status: &cancelled})
	if err != nil {
		return StayResult{}, err
	}
	out := StayResult{Reservation: res}
	if wasStaying {
		room, found, err := s.releaseRoom(ctx, res)
		if err != nil {
			return out, fmt.Errorf("cancel reservation %s: %w", id, err)
		}
		if found {
			out.Room = &room
		}
	}

	s.log.Info("reservation cancelled", zap.String("reservation_id", res.ID), zap.Bool("was_staying", wasStaying))
	s.emit(events.ReservationCancelled, res.ID, out, events.ResourceReservations, events.ResourceRooms)
	return out, nil
}

func (s *FrontDesk) DeleteReservation(ctx context.Context, id string) (model.Reservation, error) {
	removed, err := s.reservations.Delete(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}
	s.emit(events.ReservationDeleted, removed.ID, removed, events.ResourceReservations)
	return removed, nil
}

// releaseRoom sends the reservation's room to vacant-dirty if the
// reservation's guest is still the occupant.  found is false when the room
// has been deleted.
func (s *FrontDesk) releaseRoom(ctx context.Context, res model.Reservation) (model.Room, bool, error) {
	room, err := s.rooms.GetByID(ctx, res.RoomID)
	if IsNotFound(err) {
		s.log.Warn("room no longer exists, nothing to release",
			zap.String("reservation_id", res.ID), zap.String("room_id", res.RoomID))
		return model.Room{}, false, nil
	}
	if err != nil {
		return model.Room{}, false, err
	}
	if !room.IsOccupiedBy(res.GuestID) {
		return room, true, nil
	}
	dirty := model.RoomVacantDirty
	room, err = s.rooms.Update(ctx, room.ID, model.RoomPatch{Status: &dirty})
	if err != nil {
		return model.Room{}, false, fmt.Errorf("release room: %w", err)
	}
	return room, true, nil
}

func checkTransition(res model.Reservation, to model.ReservationStatus) error {
	if !to.Valid() {
		return invalid("status", fmt.Sprintf("unknown reservation status %q", to))
	}
	if !model.CanTransition(res.Status, to) {
		return InvalidTransitionError{Entity: "reservation", ID: res.ID, From: string(res.Status), To: string(to)}
	}
	return nil
}

// stayLength validates a date pair and returns the number of nights.
func stayLength(checkIn, checkOut string) (int, error) {
	if _, err := utils.ParseDate(checkIn); err != nil {
		return 0, invalid("checkIn", err.Error())
	}
	if _, err := utils.ParseDate(checkOut); err != nil {
		return 0, invalid("checkOut", err.Error())
	}
	nights, err := utils.Nights(checkIn, checkOut)
	if err != nil {
		return 0, invalid("checkOut", err.Error())
	}
	if nights <= 0 {
		return 0, invalid("checkOut", "must be after the check-in date")
	}
	return nights, nil
}

func totalPrice(nightly decimal.Decimal, nights int) decimal.Decimal {
	return nightly.Mul(decimal.NewFromInt(int64(nights)))
}
