package repository

import (
	"context"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// GuestRepo stores guests.  Stay history can only grow through AppendStay.
type GuestRepo struct {
	store *Store[model.Guest]
}

// NewGuestRepo returns an empty guest repository.
func NewGuestRepo(opts Options) *GuestRepo {
	return &GuestRepo{store: NewStore[model.Guest]("guest", "guest", opts)}
}

func (r *GuestRepo) GetAll(ctx context.Context) ([]model.Guest, error) {
	return r.store.GetAll(ctx)
}

func (r *GuestRepo) GetByID(ctx context.Context, id string) (model.Guest, error) {
	return r.store.GetByID(ctx, id)
}

// Create stores a new guest with whatever history the caller supplies,
// defaulting to an empty one.
func (r *GuestRepo) Create(ctx context.Context, g model.Guest) (model.Guest, error) {
	return r.store.Create(ctx, g)
}

func (r *GuestRepo) Update(ctx context.Context, id string, patch model.GuestPatch) (model.Guest, error) {
	return r.store.Update(ctx, id, patch.Apply)
}

// AppendStay adds one completed stay at the end of the guest's history.
func (r *GuestRepo) AppendStay(ctx context.Context, id string, stay model.StayRecord) (model.Guest, error) {
	return r.store.Update(ctx, id, func(g *model.Guest) {
		g.StayHistory = append(g.StayHistory, stay)
	})
}

func (r *GuestRepo) Delete(ctx context.Context, id string) (model.Guest, error) {
	return r.store.Delete(ctx, id)
}

func (r *GuestRepo) Load(guests ...model.Guest) { r.store.Load(guests...) }

func (r *GuestRepo) Reset() { r.store.Reset() }
