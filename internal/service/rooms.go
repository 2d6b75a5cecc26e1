package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/hotel-front-desk/internal/events"
	"github.com/iliyamo/hotel-front-desk/internal/model"
)

func (s *FrontDesk) ListRooms(ctx context.Context) ([]model.Room, error) {
	return s.rooms.GetAll(ctx)
}

func (s *FrontDesk) GetRoom(ctx context.Context, id string) (model.Room, error) {
	return s.rooms.GetByID(ctx, id)
}

// CreateRoom validates and stores a new room.  Status defaults to
// vacant-clean; the room number must not be taken.
func (s *FrontDesk) CreateRoom(ctx context.Context, room model.Room) (model.Room, error) {
	room.Number = strings.TrimSpace(room.Number)
	if err := Validate(room); err != nil {
		return model.Room{}, err
	}
	if room.Status != "" && !room.Status.Valid() {
		return model.Room{}, invalid("status", fmt.Sprintf("unknown room status %q", room.Status))
	}
	if !room.Price.IsPositive() {
		return model.Room{}, invalid("price", "must be greater than 0")
	}
	if err := s.ensureNumberFree(ctx, room.Number, ""); err != nil {
		return model.Room{}, err
	}
	created, err := s.rooms.Create(ctx, room)
	if err != nil {
		return model.Room{}, err
	}
	s.emit(events.RoomCreated, created.ID, created, events.ResourceRooms)
	return created, nil
}

// UpdateRoom merges patch over the room.  Status changes are free-form, the
// guest reference is dropped whenever the room ends up not occupied, and a
// dirty room that becomes clean is stamped as cleaned today.
func (s *FrontDesk) UpdateRoom(ctx context.Context, id string, patch model.RoomPatch) (model.Room, error) {
	current, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return model.Room{}, err
	}
	if patch.Number != nil {
		n := strings.TrimSpace(*patch.Number)
		if n == "" {
			return model.Room{}, invalid("number", "is required")
		}
		if err := s.ensureNumberFree(ctx, n, id); err != nil {
			return model.Room{}, err
		}
		patch.Number = &n
	}
	if patch.Type != nil && strings.TrimSpace(*patch.Type) == "" {
		return model.Room{}, invalid("type", "is required")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return model.Room{}, invalid("status", fmt.Sprintf("unknown room status %q", *patch.Status))
	}
	if patch.Price != nil && !patch.Price.IsPositive() {
		return model.Room{}, invalid("price", "must be greater than 0")
	}
	if patch.Status != nil && *patch.Status == model.RoomVacantClean &&
		current.Status == model.RoomVacantDirty && patch.LastCleaned == nil {
		today := s.Today()
		patch.LastCleaned = &today
	}

	updated, err := s.rooms.Update(ctx, id, patch)
	if err != nil {
		return model.Room{}, err
	}
	s.emit(events.RoomUpdated, updated.ID, updated, events.ResourceRooms)
	return updated, nil
}

// UpdateRoomStatus moves a room to status.  Going to occupied keeps the
// existing guest reference; any other status clears it.
func (s *FrontDesk) UpdateRoomStatus(ctx context.Context, id string, status model.RoomStatus) (model.Room, error) {
	return s.UpdateRoom(ctx, id, model.RoomPatch{Status: &status})
}

// MarkRoomClean finishes housekeeping on a vacant-dirty room.
func (s *FrontDesk) MarkRoomClean(ctx context.Context, id string) (model.Room, error) {
	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return model.Room{}, err
	}
	if room.Status != model.RoomVacantDirty {
		return model.Room{}, InvalidTransitionError{Entity: "room", ID: id, From: string(room.Status), To: string(model.RoomVacantClean)}
	}
	return s.UpdateRoomStatus(ctx, id, model.RoomVacantClean)
}

func (s *FrontDesk) DeleteRoom(ctx context.Context, id string) (model.Room, error) {
	removed, err := s.rooms.Delete(ctx, id)
	if err != nil {
		return model.Room{}, err
	}
	s.emit(events.RoomDeleted, removed.ID, removed, events.ResourceRooms)
	return removed, nil
}

func (s *FrontDesk) ensureNumberFree(ctx context.Context, number, selfID string) error {
	other, found, err := s.rooms.FindByNumber(ctx, number)
	if err != nil {
		return err
	}
	if found && other.ID != selfID {
		return invalid("number", fmt.Sprintf("room %s already exists", number))
	}
	return nil
}
