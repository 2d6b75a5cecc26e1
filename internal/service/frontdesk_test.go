package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/iliyamo/hotel-front-desk/internal/events"
	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/repository"
	"github.com/iliyamo/hotel-front-desk/internal/utils"
)

var errStoreDown = errors.New("store unavailable")

type fixture struct {
	desk         *FrontDesk
	rooms        *repository.RoomRepo
	guests       *repository.GuestRepo
	reservations *repository.ReservationRepo
	published    *recorder
}

type recorder struct{ got []events.Event }

func (r *recorder) Publish(e events.Event) { r.got = append(r.got, e) }

func (r *recorder) types() []events.Type {
	out := make([]events.Type, len(r.got))
	for i, e := range r.got {
		out[i] = e.Type
	}
	return out
}

// newFixture builds a desk over the demo data with today fixed at 2024-01-15.
func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := &fixture{
		rooms:        repository.NewRoomRepo(repository.Options{Latency: repository.NoLatency}),
		guests:       repository.NewGuestRepo(repository.Options{Latency: repository.NoLatency}),
		reservations: repository.NewReservationRepo(repository.Options{Latency: repository.NoLatency}),
		published:    &recorder{},
	}
	repository.SeedDemo(f.rooms, f.guests, f.reservations)
	base := []Option{
		WithClock(utils.FixedClock(time.Date(2024, 1, 15, 9, 30, 0, 0, time.UTC))),
		WithLocation(time.UTC),
		WithPublisher(f.published),
	}
	f.desk = New(f.rooms, f.guests, f.reservations, append(base, opts...)...)
	return f
}

func walkIn(roomID, checkOut string) CheckInRequest {
	return CheckInRequest{
		RoomID: roomID, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
		Phone: "+44-20-0000", IDNumber: "P1234567", CheckOut: checkOut, Notes: "walk-in",
	}
}

func TestCheckInScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	r1, err := f.rooms.Create(ctx, model.Room{Number: "R1", Type: model.RoomTypeStandard, Floor: 4, Status: model.RoomVacantClean, Price: decimal.NewFromInt(120)})
	if err != nil {
		t.Fatal(err)
	}

	out, err := f.desk.CheckIn(ctx, walkIn(r1.ID, "2024-01-18"))
	if err != nil {
		t.Fatalf("CheckIn: %v", err)
	}
	if !out.Reservation.TotalPrice.Equal(decimal.NewFromInt(360)) {
		t.Fatalf("totalPrice = %s, want 360", out.Reservation.TotalPrice)
	}
	if out.Reservation.Status != model.ReservationCheckedIn || out.Reservation.CheckIn != "2024-01-15" {
		t.Fatalf("reservation = %+v", out.Reservation)
	}

	room, _ := f.rooms.GetByID(ctx, r1.ID)
	if room.Status != model.RoomOccupied || room.CurrentGuestID == nil || *room.CurrentGuestID != out.Guest.ID {
		t.Fatalf("room after check-in = %+v", room)
	}
	if _, err := f.guests.GetByID(ctx, out.Guest.ID); err != nil {
		t.Fatalf("guest not stored: %v", err)
	}
	if got := f.published.types(); len(got) != 1 || got[0] != events.GuestCheckedIn {
		t.Fatalf("events = %v", got)
	}
}

func TestCheckInRejectsRoomThatIsNotVacantClean(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	before, _ := f.guests.GetAll(ctx)

	for _, id := range []string{"room-001", "room-003", "room-004", "room-009"} {
		_, err := f.desk.CheckIn(ctx, walkIn(id, "2024-01-18"))
		if !IsInvalidTransition(err) {
			t.Errorf("%s: expected InvalidTransition, got %v", id, err)
		}
	}
	after, _ := f.guests.GetAll(ctx)
	if len(after) != len(before) {
		t.Fatalf("guests created on rejected check-in: %d -> %d", len(before), len(after))
	}
}

func TestCheckInValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cases := []struct {
		name  string
		edit  func(*CheckInRequest)
		field string
	}{
		{"missing first name", func(r *CheckInRequest) { r.FirstName = "" }, "firstName"},
		{"bad email", func(r *CheckInRequest) { r.Email = "not-an-email" }, "email"},
		{"missing id number", func(r *CheckInRequest) { r.IDNumber = "" }, "idNumber"},
		{"checkout today", func(r *CheckInRequest) { r.CheckOut = "2024-01-15" }, "checkOut"},
		{"checkout in the past", func(r *CheckInRequest) { r.CheckOut = "2024-01-10" }, "checkOut"},
		{"checkout garbage", func(r *CheckInRequest) { r.CheckOut = "next week" }, "checkOut"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := walkIn("room-002", "2024-01-18")
			tc.edit(&req)
			_, err := f.desk.CheckIn(ctx, req)
			var verr ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field {
				t.Fatalf("field = %q, want %q", verr.Field, tc.field)
			}
		})
	}
	room, _ := f.rooms.GetByID(ctx, "room-002")
	if room.Status != model.RoomVacantClean {
		t.Fatalf("room touched by invalid check-ins: %s", room.Status)
	}
}

func TestCheckInUnknownRoom(t *testing.T) {
	f := newFixture(t)
	_, err := f.desk.CheckIn(context.Background(), walkIn("room-404", "2024-01-18"))
	if !IsNotFound(err) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

type failingReservations struct {
	*repository.ReservationRepo
}

func (failingReservations) Create(context.Context, model.Reservation) (model.Reservation, error) {
	return model.Reservation{}, errStoreDown
}

type failingRooms struct {
	*repository.RoomRepo
}

func (failingRooms) Update(context.Context, string, model.RoomPatch) (model.Room, error) {
	return model.Room{}, errStoreDown
}

func TestCheckInRollsBackWhenReservationWriteFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	core, logs := observer.New(zapcore.WarnLevel)
	desk := New(f.rooms, f.guests, failingReservations{f.reservations},
		WithClock(utils.FixedClock(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))),
		WithLocation(time.UTC),
		WithLogger(zap.New(core)),
		WithPublisher(f.published),
	)
	guestsBefore, _ := f.guests.GetAll(ctx)

	_, err := desk.CheckIn(ctx, walkIn("room-002", "2024-01-18"))
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error to surface, got %v", err)
	}

	room, _ := f.rooms.GetByID(ctx, "room-002")
	if room.Status != model.RoomVacantClean || room.CurrentGuestID != nil {
		t.Fatalf("room not restored: %+v", room)
	}
	guestsAfter, _ := f.guests.GetAll(ctx)
	if len(guestsAfter) != len(guestsBefore) {
		t.Fatalf("guest not removed: %d -> %d", len(guestsBefore), len(guestsAfter))
	}
	if logs.FilterMessage("rolling back room").Len() != 1 || logs.FilterMessage("rolling back guest").Len() != 1 {
		t.Fatalf("rollback not logged: %v", logs.All())
	}
	if len(f.published.got) != 0 {
		t.Fatalf("failed check-in published %v", f.published.types())
	}
}

func TestCheckInRollsBackWhenRoomWriteFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	desk := New(failingRooms{f.rooms}, f.guests, f.reservations,
		WithClock(utils.FixedClock(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))),
		WithLocation(time.UTC),
	)
	guestsBefore, _ := f.guests.GetAll(ctx)
	resBefore, _ := f.reservations.GetAll(ctx)

	_, err := desk.CheckIn(ctx, walkIn("room-002", "2024-01-18"))
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	guestsAfter, _ := f.guests.GetAll(ctx)
	resAfter, _ := f.reservations.GetAll(ctx)
	if len(guestsAfter) != len(guestsBefore) || len(resAfter) != len(resBefore) {
		t.Fatalf("partial state left behind: guests %d->%d reservations %d->%d",
			len(guestsBefore), len(guestsAfter), len(resBefore), len(resAfter))
	}
}

func TestReservationTransitions(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		id      string
		to      model.ReservationStatus
		allowed bool
	}{
		{"res-006", model.ReservationCheckedIn, false},  // checked-out
		{"res-006", model.ReservationCancelled, false},  // checked-out
		{"res-004", model.ReservationCheckedOut, false}, // confirmed
		{"res-001", model.ReservationConfirmed, false},  // checked-in
		{"res-004", model.ReservationConfirmed, false},  // confirmed
		{"res-004", model.ReservationCheckedIn, true},
		{"res-001", model.ReservationCheckedOut, true},
		{"res-005", model.ReservationCancelled, true},
		{"res-002", model.ReservationCancelled, true},
	}
	for _, tc := range cases {
		f := newFixture(t)
		before, _ := f.reservations.GetByID(ctx, tc.id)
		out, err := f.desk.UpdateReservationStatus(ctx, tc.id, tc.to)
		if tc.allowed {
			if err != nil {
				t.Errorf("%s %s -> %s: %v", tc.id, before.Status, tc.to, err)
				continue
			}
			if out.Reservation.Status != tc.to {
				t.Errorf("%s: status = %s, want %s", tc.id, out.Reservation.Status, tc.to)
			}
			continue
		}
		if !IsInvalidTransition(err) {
			t.Errorf("%s %s -> %s: expected InvalidTransition, got %v", tc.id, before.Status, tc.to, err)
		}
		after, _ := f.reservations.GetByID(ctx, tc.id)
		if after.Status != before.Status {
			t.Errorf("%s: rejected transition still wrote status %s", tc.id, after.Status)
		}
	}
}

func TestUnknownReservationStatusIsValidationError(t *testing.T) {
	f := newFixture(t)
	_, err := f.desk.UpdateReservationStatus(context.Background(), "res-004", "archived")
	if !IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestCheckInReservationOccupiesRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	out, err := f.desk.CheckInReservation(ctx, "res-004")
	if err != nil {
		t.Fatal(err)
	}
	if out.Room == nil || !out.Room.IsOccupiedBy("guest-004") {
		t.Fatalf("room = %+v", out.Room)
	}
	stored, _ := f.rooms.GetByID(ctx, "room-002")
	if !stored.IsOccupiedBy("guest-004") {
		t.Fatalf("stored room = %+v", stored)
	}
}

func TestCheckInReservationNeedsCleanRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dirty := model.RoomVacantDirty
	if _, err := f.rooms.Update(ctx, "room-002", model.RoomPatch{Status: &dirty}); err != nil {
		t.Fatal(err)
	}
	_, err := f.desk.CheckInReservation(ctx, "res-004")
	var terr InvalidTransitionError
	if !errors.As(err, &terr) || terr.Entity != "room" {
		t.Fatalf("expected room InvalidTransition, got %v", err)
	}
	res, _ := f.reservations.GetByID(ctx, "res-004")
	if res.Status != model.ReservationConfirmed {
		t.Fatalf("reservation moved to %s", res.Status)
	}
}

func TestCheckOutRecordsStayAndReleasesRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	out, err := f.desk.CheckOut(ctx, "res-001")
	if err != nil {
		t.Fatal(err)
	}
	if out.Reservation.Status != model.ReservationCheckedOut {
		t.Fatalf("status = %s", out.Reservation.Status)
	}
	room, _ := f.rooms.GetByID(ctx, "room-001")
	if room.Status != model.RoomVacantDirty || room.CurrentGuestID != nil {
		t.Fatalf("room = %+v", room)
	}
	guest, _ := f.guests.GetByID(ctx, "guest-001")
	if len(guest.StayHistory) != 3 {
		t.Fatalf("history length = %d", len(guest.StayHistory))
	}
	last := guest.StayHistory[2]
	if last.RoomNumber != "101" || last.CheckIn != "2024-01-15" || last.CheckOut != "2024-01-18" ||
		last.Nights != 3 || !last.TotalAmount.Equal(decimal.NewFromInt(360)) {
		t.Fatalf("stay = %+v", last)
	}
	if guest.StayHistory[0].RoomNumber != "101" || guest.StayHistory[1].RoomNumber != "203" {
		t.Fatal("earlier stays reordered")
	}
}

func TestCheckOutToleratesDeletedRoom(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.rooms.Delete(ctx, "room-007"); err != nil {
		t.Fatal(err)
	}
	out, err := f.desk.CheckOut(ctx, "res-003")
	if err != nil {
		t.Fatal(err)
	}
	if out.Room != nil {
		t.Fatalf("room = %+v", out.Room)
	}
	guest, _ := f.guests.GetByID(ctx, "guest-003")
	if got := guest.StayHistory[len(guest.StayHistory)-1].RoomNumber; got != "N/A" {
		t.Fatalf("room number = %q", got)
	}
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	if _, err := f.desk.Cancel(ctx, "res-002"); err != nil {
		t.Fatal(err)
	}
	room, _ := f.rooms.GetByID(ctx, "room-005")
	if room.Status != model.RoomVacantDirty || room.CurrentGuestID != nil {
		t.Fatalf("checked-in cancel left room %+v", room)
	}

	out, err := f.desk.Cancel(ctx, "res-004")
	if err != nil {
		t.Fatal(err)
	}
	if out.Room != nil {
		t.Fatal("confirmed cancel touched a room")
	}
	room, _ = f.rooms.GetByID(ctx, "room-002")
	if room.Status != model.RoomVacantClean {
		t.Fatalf("room-002 = %s", room.Status)
	}

	if _, err := f.desk.Cancel(ctx, "res-004"); !IsInvalidTransition(err) {
		t.Fatalf("second cancel: %v", err)
	}
}

func TestCreateReservationFixesTotal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	res, err := f.desk.CreateReservation(ctx, ReservationRequest{
		GuestID: "guest-005", RoomID: "room-004", CheckIn: "2024-02-01", CheckOut: "2024-02-05",
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != model.ReservationConfirmed || !res.TotalPrice.Equal(decimal.NewFromInt(1200)) {
		t.Fatalf("reservation = %+v", res)
	}

	price := decimal.NewFromInt(999)
	if _, err := f.rooms.Update(ctx, "room-004", model.RoomPatch{Price: &price}); err != nil {
		t.Fatal(err)
	}
	checkOut := "2024-02-08"
	notes := "extended"
	edited, err := f.desk.UpdateReservation(ctx, res.ID, model.ReservationPatch{CheckOut: &checkOut, Notes: &notes})
	if err != nil {
		t.Fatal(err)
	}
	if !edited.TotalPrice.Equal(decimal.NewFromInt(1200)) || edited.CheckOut != checkOut || edited.Notes != notes {
		t.Fatalf("edited = %+v", edited)
	}
}

func TestCreateReservationRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cases := []struct {
		name     string
		req      ReservationRequest
		notFound bool
	}{
		{"checkout before checkin", ReservationRequest{GuestID: "guest-001", RoomID: "room-002", CheckIn: "2024-02-05", CheckOut: "2024-02-01"}, false},
		{"same day", ReservationRequest{GuestID: "guest-001", RoomID: "room-002", CheckIn: "2024-02-05", CheckOut: "2024-02-05"}, false},
		{"missing room", ReservationRequest{GuestID: "guest-001", CheckIn: "2024-02-01", CheckOut: "2024-02-05"}, false},
		{"unknown guest", ReservationRequest{GuestID: "guest-404", RoomID: "room-002", CheckIn: "2024-02-01", CheckOut: "2024-02-05"}, true},
		{"unknown room", ReservationRequest{GuestID: "guest-001", RoomID: "room-404", CheckIn: "2024-02-01", CheckOut: "2024-02-05"}, true},
	}
	for _, tc := range cases {
		_, err := f.desk.CreateReservation(ctx, tc.req)
		if tc.notFound && !IsNotFound(err) {
			t.Errorf("%s: expected NotFound, got %v", tc.name, err)
		}
		if !tc.notFound && !IsValidation(err) {
			t.Errorf("%s: expected ValidationError, got %v", tc.name, err)
		}
	}
}

func TestUpdateReservationStatusGoesThroughLifecycle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	checkedOut := model.ReservationCheckedOut
	res, err := f.desk.UpdateReservation(ctx, "res-001", model.ReservationPatch{Status: &checkedOut})
	if err != nil {
		t.Fatal(err)
	}
	if res.Status != checkedOut {
		t.Fatalf("status = %s", res.Status)
	}
	guest, _ := f.guests.GetByID(ctx, "guest-001")
	if len(guest.StayHistory) != 3 {
		t.Fatal("status edit skipped the check-out side effects")
	}

	checkedIn := model.ReservationCheckedIn
	notes := "should not be written"
	_, err = f.desk.UpdateReservation(ctx, "res-001", model.ReservationPatch{Status: &checkedIn, Notes: &notes})
	if !IsInvalidTransition(err) {
		t.Fatalf("expected InvalidTransition, got %v", err)
	}
	stored, _ := f.reservations.GetByID(ctx, "res-001")
	if stored.Notes == notes {
		t.Fatal("rejected edit still wrote other fields")
	}
}

func TestUpdateReservationChecksRoomBeforeWriting(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	dirty := model.RoomVacantDirty
	if _, err := f.rooms.Update(ctx, "room-002", model.RoomPatch{Status: &dirty}); err != nil {
		t.Fatal(err)
	}
	f.published.got = nil

	checkedIn := model.ReservationCheckedIn
	notes := "late arrival"
	_, err := f.desk.UpdateReservation(ctx, "res-004", model.ReservationPatch{Notes: &notes, Status: &checkedIn})
	if !IsInvalidTransition(err) {
		t.Fatalf("expected InvalidTransition for a dirty room, got %v", err)
	}
	stored, _ := f.reservations.GetByID(ctx, "res-004")
	if stored.Notes == notes || stored.Status != model.ReservationConfirmed {
		t.Fatalf("rejected edit was stored: notes=%q status=%s", stored.Notes, stored.Status)
	}
	if len(f.published.got) != 0 {
		t.Fatalf("events = %v, want none", f.published.types())
	}
}

func TestUpdateReservationRevertsFieldsWhenStatusStepFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	core, logs := observer.New(zapcore.WarnLevel)
	desk := New(failingRooms{f.rooms}, f.guests, f.reservations,
		WithClock(utils.FixedClock(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))),
		WithLocation(time.UTC),
		WithLogger(zap.New(core)),
	)
	before, _ := f.reservations.GetByID(ctx, "res-004")

	checkedIn := model.ReservationCheckedIn
	notes := "early arrival"
	checkOut := "2024-01-21"
	_, err := desk.UpdateReservation(ctx, "res-004", model.ReservationPatch{Notes: &notes, CheckOut: &checkOut, Status: &checkedIn})
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected store error, got %v", err)
	}
	after, _ := f.reservations.GetByID(ctx, "res-004")
	if after.Notes != before.Notes || after.CheckOut != before.CheckOut || after.Status != before.Status {
		t.Fatalf("edit not reverted: before %+v after %+v", before, after)
	}
	if logs.FilterMessage("rolling back reservation edit").Len() != 1 {
		t.Error("expected a rollback warning")
	}
}

func TestUpdateReservationAssignmentFixedOnceStaying(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	if _, err := f.desk.CheckInReservation(ctx, "res-004"); err != nil {
		t.Fatal(err)
	}

	other := "room-008"
	_, err := f.desk.UpdateReservation(ctx, "res-004", model.ReservationPatch{RoomID: &other})
	if !IsValidation(err) {
		t.Fatalf("moving a checked-in stay: expected ValidationError, got %v", err)
	}
	newGuest := "guest-005"
	if _, err := f.desk.UpdateReservation(ctx, "res-004", model.ReservationPatch{GuestID: &newGuest}); !IsValidation(err) {
		t.Fatalf("reassigning a checked-in stay: expected ValidationError, got %v", err)
	}
	if _, err := f.desk.UpdateReservation(ctx, "res-006", model.ReservationPatch{RoomID: &other}); !IsValidation(err) {
		t.Fatalf("editing a checked-out stay: expected ValidationError, got %v", err)
	}
	same := "room-002"
	if _, err := f.desk.UpdateReservation(ctx, "res-004", model.ReservationPatch{RoomID: &same}); err != nil {
		t.Fatalf("unchanged room id rejected: %v", err)
	}

	if _, err := f.desk.CheckOut(ctx, "res-004"); err != nil {
		t.Fatal(err)
	}
	room, _ := f.rooms.GetByID(ctx, "room-002")
	if room.Status != model.RoomVacantDirty || room.CurrentGuestID != nil {
		t.Fatalf("original room after check-out: status=%s guest=%v", room.Status, room.CurrentGuestID)
	}
	untouched, _ := f.rooms.GetByID(ctx, other)
	if untouched.Status != model.RoomVacantClean {
		t.Fatalf("%s status = %s", other, untouched.Status)
	}

	// a confirmed booking may still move
	moved, err := f.desk.UpdateReservation(ctx, "res-005", model.ReservationPatch{RoomID: &other})
	if err != nil || moved.RoomID != other {
		t.Fatalf("moving a confirmed booking: %+v, %v", moved, err)
	}
}

func TestRoomStatusUpdates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	room, err := f.desk.UpdateRoomStatus(ctx, "room-001", model.RoomMaintenance)
	if err != nil {
		t.Fatal(err)
	}
	if room.CurrentGuestID != nil {
		t.Fatal("non-occupied room kept its guest")
	}

	room, err = f.desk.UpdateRoomStatus(ctx, "room-005", model.RoomOccupied)
	if err != nil {
		t.Fatal(err)
	}
	if !room.IsOccupiedBy("guest-002") {
		t.Fatalf("occupied -> occupied lost guest: %+v", room)
	}

	if _, err := f.desk.UpdateRoomStatus(ctx, "room-002", "flooded"); !IsValidation(err) {
		t.Fatalf("unknown status: %v", err)
	}
	if _, err := f.desk.UpdateRoomStatus(ctx, "room-404", model.RoomVacantClean); !IsNotFound(err) {
		t.Fatalf("unknown room: %v", err)
	}
}

func TestMarkRoomClean(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	room, err := f.desk.MarkRoomClean(ctx, "room-003")
	if err != nil {
		t.Fatal(err)
	}
	if room.Status != model.RoomVacantClean || room.LastCleaned != "2024-01-15" {
		t.Fatalf("room = %+v", room)
	}
	if _, err := f.desk.MarkRoomClean(ctx, "room-003"); !IsInvalidTransition(err) {
		t.Fatalf("cleaning a clean room: %v", err)
	}
}

func TestRoomNumbersAreUnique(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.desk.CreateRoom(ctx, model.Room{Number: " 101 ", Type: model.RoomTypeSuite, Floor: 1, Price: decimal.NewFromInt(200)})
	if !IsValidation(err) {
		t.Fatalf("duplicate create: %v", err)
	}
	taken := "102"
	if _, err := f.desk.UpdateRoom(ctx, "room-001", model.RoomPatch{Number: &taken}); !IsValidation(err) {
		t.Fatalf("duplicate rename: %v", err)
	}
	same := "101"
	if _, err := f.desk.UpdateRoom(ctx, "room-001", model.RoomPatch{Number: &same}); err != nil {
		t.Fatalf("renaming to own number: %v", err)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	cases := []model.Room{
		{Type: model.RoomTypeSuite, Price: decimal.NewFromInt(10)},
		{Number: "501", Price: decimal.NewFromInt(10)},
		{Number: "501", Type: model.RoomTypeSuite},
		{Number: "501", Type: model.RoomTypeSuite, Price: decimal.NewFromInt(10), Status: "haunted"},
	}
	for i, room := range cases {
		if _, err := f.desk.CreateRoom(ctx, room); !IsValidation(err) {
			t.Errorf("case %d: expected ValidationError, got %v", i, err)
		}
	}
	created, err := f.desk.CreateRoom(ctx, model.Room{Number: "501", Type: "Penthouse", Floor: 5, Price: decimal.NewFromInt(900)})
	if err != nil {
		t.Fatal(err)
	}
	if created.Status != model.RoomVacantClean {
		t.Fatalf("default status = %s", created.Status)
	}
}

func TestUpdateGuestValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	bad := "nope"
	if _, err := f.desk.UpdateGuest(ctx, "guest-001", model.GuestPatch{Email: &bad}); !IsValidation(err) {
		t.Fatalf("bad email: %v", err)
	}
	empty := " "
	if _, err := f.desk.UpdateGuest(ctx, "guest-001", model.GuestPatch{LastName: &empty}); !IsValidation(err) {
		t.Fatalf("blank last name: %v", err)
	}
	phone := "+1-555-9999"
	g, err := f.desk.UpdateGuest(ctx, "guest-001", model.GuestPatch{Phone: &phone})
	if err != nil {
		t.Fatal(err)
	}
	if g.Phone != phone || len(g.StayHistory) != 2 {
		t.Fatalf("guest = %+v", g)
	}
}

func TestEventsCarryReports(t *testing.T) {
	f := newFixture(t)
	if _, err := f.desk.DeleteGuest(context.Background(), "guest-005"); err != nil {
		t.Fatal(err)
	}
	if len(f.published.got) != 1 {
		t.Fatalf("events = %v", f.published.types())
	}
	e := f.published.got[0]
	if e.Type != events.GuestDeleted || !e.Touches(events.ResourceGuests) || !e.Touches(events.ResourceReports) {
		t.Fatalf("event = %+v", e)
	}
}
