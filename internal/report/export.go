package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary      = "Summary"
	sheetRooms        = "Rooms"
	sheetReservations = "Reservations"
	sheetGuests       = "Guests"
)

// Workbook renders the snapshot as an XLSX workbook with one sheet each for
// the summary, rooms, reservations and guests.
func Workbook(snap Snapshot, today string) ([]byte, error) {
	summary, err := Summarize(snap, today)
	if err != nil {
		return nil, err
	}
	lookup := NewLookup(snap.Guests, snap.Rooms)

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	summaryRows := [][]any{
		{"Date", summary.Date},
		{"Total rooms", summary.TotalRooms},
		{"Occupied rooms", summary.OccupiedRooms},
		{"Occupancy rate (%)", summary.OccupancyRate},
		{"Revenue", summary.Revenue.InexactFloat64()},
		{"Average stay (nights)", summary.AverageStayLength},
		{"Arrivals today", summary.ArrivalsToday},
		{"Departures today", summary.DeparturesToday},
		{"Guests", summary.Guests.Total},
		{"Returning guests", summary.Guests.Returning},
		{"VIP guests", summary.Guests.VIP},
	}
	if err := writeSheet(f, sheetSummary, []string{"Metric", "Value"}, summaryRows); err != nil {
		return nil, err
	}

	roomRows := make([][]any, 0, len(snap.Rooms))
	for _, r := range snap.Rooms {
		guest := ""
		if r.CurrentGuestID != nil {
			guest = lookup.GuestName(*r.CurrentGuestID)
		}
		roomRows = append(roomRows, []any{r.Number, r.Type, r.Floor, r.Status.Label(), guest, r.Price.InexactFloat64(), r.LastCleaned})
	}
	if err := newSheet(f, sheetRooms, []string{"Number", "Type", "Floor", "Status", "Guest", "Price", "Last cleaned"}, roomRows); err != nil {
		return nil, err
	}

	resRows := make([][]any, 0, len(snap.Reservations))
	for _, r := range snap.Reservations {
		resRows = append(resRows, []any{
			r.ID, lookup.GuestName(r.GuestID), lookup.RoomNumber(r.RoomID),
			r.CheckIn, r.CheckOut, r.Status.Label(), r.TotalPrice.InexactFloat64(), r.Notes,
		})
	}
	if err := newSheet(f, sheetReservations, []string{"ID", "Guest", "Room", "Check-in", "Check-out", "Status", "Total", "Notes"}, resRows); err != nil {
		return nil, err
	}

	guestRows := make([][]any, 0, len(snap.Guests))
	for _, g := range snap.Guests {
		guestRows = append(guestRows, []any{g.FullName(), g.Email, g.Phone, len(g.StayHistory), g.IsReturning(), g.IsVIP()})
	}
	if err := newSheet(f, sheetGuests, []string{"Name", "Email", "Phone", "Stays", "Returning", "VIP"}, guestRows); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func newSheet(f *excelize.File, name string, headers []string, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %s: %w", name, err)
	}
	return writeSheet(f, name, headers, rows)
}

func writeSheet(f *excelize.File, name string, headers []string, rows [][]any) error {
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", name, i+2, err)
		}
	}
	return nil
}
