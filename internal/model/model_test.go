package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestRoomStatusInfo(t *testing.T) {
	cases := map[RoomStatus]string{
		RoomOccupied:    "Occupied",
		RoomVacantClean: "Available",
		RoomVacantDirty: "Cleaning Required",
		RoomMaintenance: "Maintenance",
		RoomOutOfOrder:  "Out of Order",
		"flooded":       "Unknown",
		"":              "Unknown",
	}
	for status, want := range cases {
		if got := status.Label(); got != want {
			t.Errorf("%q.Label() = %q, want %q", status, got, want)
		}
	}
	if RoomStatus("flooded").Valid() {
		t.Error("unknown status reported valid")
	}
	if got := RoomStatus("flooded").Info(); got != UnknownStatus {
		t.Errorf("unknown Info() = %+v", got)
	}
}

func TestReservationTransitions(t *testing.T) {
	allowed := [][2]ReservationStatus{
		{ReservationConfirmed, ReservationCheckedIn},
		{ReservationConfirmed, ReservationCancelled},
		{ReservationCheckedIn, ReservationCheckedOut},
		{ReservationCheckedIn, ReservationCancelled},
	}
	for _, a := range ReservationStatuses() {
		for _, b := range ReservationStatuses() {
			want := false
			for _, pair := range allowed {
				if pair[0] == a && pair[1] == b {
					want = true
				}
			}
			if got := CanTransition(a, b); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", a, b, got, want)
			}
		}
	}
	if !ReservationCheckedOut.Terminal() || !ReservationCancelled.Terminal() {
		t.Error("checked-out and cancelled must be terminal")
	}
	if ReservationConfirmed.Terminal() {
		t.Error("confirmed is not terminal")
	}
	if CanTransition("pending", ReservationCheckedIn) {
		t.Error("unknown source status must not transition")
	}
}

func TestReservationStatusLabel(t *testing.T) {
	if got := ReservationCheckedIn.Label(); got != "Checked in" {
		t.Errorf("got %q", got)
	}
	if got := ReservationConfirmed.Label(); got != "Confirmed" {
		t.Errorf("got %q", got)
	}
	if got := ReservationStatus("x").Label(); got != "Unknown" {
		t.Errorf("got %q", got)
	}
}

func TestRoomPatchClearsGuestWhenNotOccupied(t *testing.T) {
	guest := "guest-1"
	room := Room{ID: "room-1", Status: RoomOccupied, CurrentGuestID: &guest}
	dirty := RoomVacantDirty
	RoomPatch{Status: &dirty}.Apply(&room)
	if room.CurrentGuestID != nil {
		t.Fatalf("guest reference survived status %s", room.Status)
	}

	// Setting a guest on a non-occupied room is normalized away.
	other := "guest-2"
	RoomPatch{CurrentGuestID: &other}.Apply(&room)
	if room.CurrentGuestID != nil {
		t.Fatal("guest reference set on vacant room")
	}
}

func TestRoomPatchPreservesGuestWhenOccupied(t *testing.T) {
	guest := "guest-1"
	room := Room{Status: RoomOccupied, CurrentGuestID: &guest}
	occupied := RoomOccupied
	RoomPatch{Status: &occupied}.Apply(&room)
	if room.CurrentGuestID == nil || *room.CurrentGuestID != "guest-1" {
		t.Fatalf("guest reference lost: %+v", room.CurrentGuestID)
	}
}

func TestRoomPatchJSONNull(t *testing.T) {
	var p RoomPatch
	if err := json.Unmarshal([]byte(`{"status":"occupied","currentGuestId":null}`), &p); err != nil {
		t.Fatal(err)
	}
	if !p.ClearCurrentGuest || p.CurrentGuestID != nil {
		t.Fatalf("null not detected: %+v", p)
	}

	p = RoomPatch{}
	if err := json.Unmarshal([]byte(`{"currentGuestId":"guest-9","price":150}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.ClearCurrentGuest || p.CurrentGuestID == nil || *p.CurrentGuestID != "guest-9" {
		t.Fatalf("guest id not decoded: %+v", p)
	}
	if p.Price == nil || !p.Price.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("price not decoded: %v", p.Price)
	}

	p = RoomPatch{}
	if err := json.Unmarshal([]byte(`{"floor":2}`), &p); err != nil {
		t.Fatal(err)
	}
	if p.ClearCurrentGuest || p.CurrentGuestID != nil {
		t.Fatalf("absent field treated as set: %+v", p)
	}
}

func TestRoomJSONShape(t *testing.T) {
	room := Room{ID: "room-1", Number: "101", Type: RoomTypeStandard, Floor: 1, Status: RoomVacantClean, Price: decimal.NewFromInt(120)}
	b, err := json.Marshal(room)
	if err != nil {
		t.Fatal(err)
	}
	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatal(err)
	}
	if v, ok := got["currentGuestId"]; !ok || v != nil {
		t.Errorf("currentGuestId = %v, want explicit null", v)
	}
	if got["price"] != float64(120) {
		t.Errorf("price = %v (%T), want JSON number", got["price"], got["price"])
	}
}

func TestGuestCloneIsDeep(t *testing.T) {
	g := Guest{ID: "g", StayHistory: []StayRecord{{RoomNumber: "101"}}}
	c := g.Clone()
	c.StayHistory[0].RoomNumber = "999"
	c.StayHistory = append(c.StayHistory, StayRecord{})
	if g.StayHistory[0].RoomNumber != "101" || len(g.StayHistory) != 1 {
		t.Fatal("clone shares stay history with original")
	}
	if (Guest{}).Clone().StayHistory == nil {
		t.Fatal("clone should normalize nil history to empty")
	}
}

func TestGuestClassification(t *testing.T) {
	history := func(n int) []StayRecord { return make([]StayRecord, n) }
	cases := []struct {
		stays          int
		vip, returning bool
	}{
		{0, false, false},
		{1, false, false},
		{2, false, true},
		{4, false, true},
		{5, true, true},
	}
	for _, tc := range cases {
		g := Guest{StayHistory: history(tc.stays)}
		if g.IsVIP() != tc.vip || g.IsReturning() != tc.returning {
			t.Errorf("stays=%d: vip=%v returning=%v", tc.stays, g.IsVIP(), g.IsReturning())
		}
	}
}
