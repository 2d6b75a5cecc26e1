package utils

import (
	"errors"
	"testing"
	"time"
)

func TestNights(t *testing.T) {
	cases := []struct {
		in, out string
		want    int
	}{
		{"2024-01-15", "2024-01-18", 3},
		{"2024-01-31", "2024-02-01", 1},
		{"2024-02-28", "2024-03-01", 2}, // leap year
		{"2024-03-30", "2024-04-02", 3},
		{"2024-01-18", "2024-01-18", 0},
		{"2024-01-18", "2024-01-15", -3},
	}
	for _, tc := range cases {
		got, err := Nights(tc.in, tc.out)
		if err != nil {
			t.Fatalf("Nights(%s, %s) error: %v", tc.in, tc.out, err)
		}
		if got != tc.want {
			t.Errorf("Nights(%s, %s) = %d, want %d", tc.in, tc.out, got, tc.want)
		}
	}
}

func TestNightsRejectsBadDates(t *testing.T) {
	if _, err := Nights("15/01/2024", "2024-01-18"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
	if _, err := Nights("2024-01-15", ""); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestTodayUsesLocation(t *testing.T) {
	now := time.Date(2024, 1, 15, 23, 30, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)
	if got := Today(now, time.UTC); got != "2024-01-15" {
		t.Errorf("Today UTC = %s", got)
	}
	if got := Today(now, tokyo); got != "2024-01-16" {
		t.Errorf("Today JST = %s", got)
	}
}

func TestAddDays(t *testing.T) {
	got, err := AddDays("2024-12-30", 3)
	if err != nil {
		t.Fatal(err)
	}
	if got != "2025-01-02" {
		t.Errorf("AddDays = %s, want 2025-01-02", got)
	}
}
