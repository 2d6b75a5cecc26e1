package repository

import (
	"context"
	"strings"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// RoomRepo stores rooms.  New rooms default to vacant-clean.
type RoomRepo struct {
	store *Store[model.Room]
}

// NewRoomRepo returns an empty room repository.
func NewRoomRepo(opts Options) *RoomRepo {
	return &RoomRepo{store: NewStore[model.Room]("room", "room", opts)}
}

func (r *RoomRepo) GetAll(ctx context.Context) ([]model.Room, error) {
	return r.store.GetAll(ctx)
}

func (r *RoomRepo) GetByID(ctx context.Context, id string) (model.Room, error) {
	return r.store.GetByID(ctx, id)
}

// Create stores a new room.  The occupancy invariant is applied on the way in.
func (r *RoomRepo) Create(ctx context.Context, room model.Room) (model.Room, error) {
	if room.Status == "" {
		room.Status = model.RoomVacantClean
	}
	room.Normalize()
	return r.store.Create(ctx, room)
}

// Update shallow-merges patch over the stored room.
func (r *RoomRepo) Update(ctx context.Context, id string, patch model.RoomPatch) (model.Room, error) {
	return r.store.Update(ctx, id, patch.Apply)
}

func (r *RoomRepo) Delete(ctx context.Context, id string) (model.Room, error) {
	return r.store.Delete(ctx, id)
}

// FindByNumber returns the room labelled number, if any.  The lookup is
// case-insensitive and ignores surrounding spaces.
func (r *RoomRepo) FindByNumber(ctx context.Context, number string) (model.Room, bool, error) {
	rooms, err := r.store.GetAll(ctx)
	if err != nil {
		return model.Room{}, false, err
	}
	number = strings.TrimSpace(number)
	for _, room := range rooms {
		if strings.EqualFold(strings.TrimSpace(room.Number), number) {
			return room, true, nil
		}
	}
	return model.Room{}, false, nil
}

// Load seeds rooms that already carry ids.
func (r *RoomRepo) Load(rooms ...model.Room) {
	normalized := make([]model.Room, len(rooms))
	for i, room := range rooms {
		room.Normalize()
		normalized[i] = room
	}
	r.store.Load(normalized...)
}

func (r *RoomRepo) Reset() { r.store.Reset() }
