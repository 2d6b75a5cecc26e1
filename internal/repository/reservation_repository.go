package repository

import (
	"context"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// ReservationRepo stores reservations.  It does not check status
// transitions; that is the front desk service's job.
type ReservationRepo struct {
	store *Store[model.Reservation]
}

// NewReservationRepo returns an empty reservation repository.
func NewReservationRepo(opts Options) *ReservationRepo {
	return &ReservationRepo{store: NewStore[model.Reservation]("reservation", "res", opts)}
}

func (r *ReservationRepo) GetAll(ctx context.Context) ([]model.Reservation, error) {
	return r.store.GetAll(ctx)
}

func (r *ReservationRepo) GetByID(ctx context.Context, id string) (model.Reservation, error) {
	return r.store.GetByID(ctx, id)
}

// Create stores a reservation; an empty status defaults to confirmed.
func (r *ReservationRepo) Create(ctx context.Context, res model.Reservation) (model.Reservation, error) {
	if res.Status == "" {
		res.Status = model.ReservationConfirmed
	}
	return r.store.Create(ctx, res)
}

func (r *ReservationRepo) Update(ctx context.Context, id string, patch model.ReservationPatch) (model.Reservation, error) {
	return r.store.Update(ctx, id, patch.Apply)
}

func (r *ReservationRepo) Delete(ctx context.Context, id string) (model.Reservation, error) {
	return r.store.Delete(ctx, id)
}

func (r *ReservationRepo) Load(res ...model.Reservation) { r.store.Load(res...) }

func (r *ReservationRepo) Reset() { r.store.Reset() }
