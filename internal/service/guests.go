package service

import (
	"context"
	"strings"

	"github.com/iliyamo/hotel-front-desk/internal/events"
	"github.com/iliyamo/hotel-front-desk/internal/model"
)

func (s *FrontDesk) ListGuests(ctx context.Context) ([]model.Guest, error) {
	return s.guests.GetAll(ctx)
}

func (s *FrontDesk) GetGuest(ctx context.Context, id string) (model.Guest, error) {
	return s.guests.GetByID(ctx, id)
}

// CreateGuest registers a guest outside of check-in.  Any stay history in g
// is kept as imported history.
func (s *FrontDesk) CreateGuest(ctx context.Context, g model.Guest) (model.Guest, error) {
	if err := Validate(g); err != nil {
		return model.Guest{}, err
	}
	created, err := s.guests.Create(ctx, g)
	if err != nil {
		return model.Guest{}, err
	}
	s.emit(events.GuestCreated, created.ID, created, events.ResourceGuests)
	return created, nil
}

// UpdateGuest edits contact details.  Stay history is not editable.
func (s *FrontDesk) UpdateGuest(ctx context.Context, id string, patch model.GuestPatch) (model.Guest, error) {
	required := []struct {
		field string
		value *string
	}{
		{"firstName", patch.FirstName},
		{"lastName", patch.LastName},
		{"email", patch.Email},
		{"phone", patch.Phone},
		{"idNumber", patch.IDNumber},
	}
	for _, r := range required {
		if r.value != nil && strings.TrimSpace(*r.value) == "" {
			return model.Guest{}, invalid(r.field, "is required")
		}
	}
	if patch.Email != nil && !validEmail(*patch.Email) {
		return model.Guest{}, invalid("email", "must be a valid email address")
	}
	updated, err := s.guests.Update(ctx, id, patch)
	if err != nil {
		return model.Guest{}, err
	}
	s.emit(events.GuestUpdated, updated.ID, updated, events.ResourceGuests)
	return updated, nil
}

func (s *FrontDesk) DeleteGuest(ctx context.Context, id string) (model.Guest, error) {
	removed, err := s.guests.Delete(ctx, id)
	if err != nil {
		return model.Guest{}, err
	}
	s.emit(events.GuestDeleted, removed.ID, removed, events.ResourceGuests)
	return removed, nil
}
