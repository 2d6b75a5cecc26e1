package repository

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-front-desk/internal/model"
)

// SeedDemo loads the demo property: ten rooms over three floors, five guests
// with past stays and seven reservations.  Existing records with the same ids
// are replaced.
func SeedDemo(rooms *RoomRepo, guests *GuestRepo, reservations *ReservationRepo) {
	rooms.Load(demoRooms()...)
	guests.Load(demoGuests()...)
	reservations.Load(demoReservations()...)
}

func ptr(s string) *string { return &s }

func money(n int64) decimal.Decimal { return decimal.NewFromInt(n) }

func demoRooms() []model.Room {
	return []model.Room{
		{ID: "room-001", Number: "101", Type: model.RoomTypeStandard, Floor: 1, Status: model.RoomOccupied, CurrentGuestID: ptr("guest-001"), Price: money(120), LastCleaned: "2024-01-15"},
		{ID: "room-002", Number: "102", Type: model.RoomTypeStandard, Floor: 1, Status: model.RoomVacantClean, Price: money(120), LastCleaned: "2024-01-15"},
		{ID: "room-003", Number: "103", Type: model.RoomTypeDeluxe, Floor: 1, Status: model.RoomVacantDirty, Price: money(180), LastCleaned: "2024-01-14"},
		{ID: "room-004", Number: "201", Type: model.RoomTypeSuite, Floor: 2, Status: model.RoomMaintenance, Price: money(300), LastCleaned: "2024-01-13"},
		{ID: "room-005", Number: "202", Type: model.RoomTypeStandard, Floor: 2, Status: model.RoomOccupied, CurrentGuestID: ptr("guest-002"), Price: money(120), LastCleaned: "2024-01-15"},
		{ID: "room-006", Number: "203", Type: model.RoomTypeDeluxe, Floor: 2, Status: model.RoomVacantClean, Price: money(180), LastCleaned: "2024-01-15"},
		{ID: "room-007", Number: "301", Type: model.RoomTypeSuite, Floor: 3, Status: model.RoomOccupied, CurrentGuestID: ptr("guest-003"), Price: money(300), LastCleaned: "2024-01-14"},
		{ID: "room-008", Number: "302", Type: model.RoomTypeStandard, Floor: 3, Status: model.RoomVacantClean, Price: money(120), LastCleaned: "2024-01-15"},
		{ID: "room-009", Number: "303", Type: model.RoomTypeDeluxe, Floor: 3, Status: model.RoomOutOfOrder, Price: money(180), LastCleaned: "2024-01-12"},
		{ID: "room-010", Number: "304", Type: model.RoomTypeStandard, Floor: 3, Status: model.RoomVacantDirty, Price: money(120), LastCleaned: "2024-01-14"},
	}
}

func stay(room, in, out string, nights int, total int64) model.StayRecord {
	return model.StayRecord{RoomNumber: room, CheckIn: in, CheckOut: out, Nights: nights, TotalAmount: money(total)}
}

func demoGuests() []model.Guest {
	return []model.Guest{
		{
			ID: "guest-001", FirstName: "John", LastName: "Smith", Email: "john.smith@email.com",
			Phone: "+1-555-0123", IDNumber: "ID123456789", Address: "123 Main Street, Anytown, USA",
			StayHistory: []model.StayRecord{
				stay("101", "2024-01-10", "2024-01-13", 3, 360),
				stay("203", "2023-12-15", "2023-12-18", 3, 540),
			},
		},
		{
			ID: "guest-002", FirstName: "Sarah", LastName: "Johnson", Email: "sarah.johnson@email.com",
			Phone: "+1-555-0456", IDNumber: "ID987654321", Address: "456 Oak Avenue, Springfield, USA",
			StayHistory: []model.StayRecord{
				stay("202", "2024-01-12", "2024-01-16", 4, 480),
			},
		},
		{
			ID: "guest-003", FirstName: "Michael", LastName: "Brown", Email: "michael.brown@email.com",
			Phone: "+1-555-0789", IDNumber: "ID456789123", Address: "789 Pine Road, Riverside, USA",
			StayHistory: []model.StayRecord{
				stay("301", "2024-01-08", "2024-01-12", 4, 1200),
				stay("301", "2023-11-20", "2023-11-25", 5, 1500),
				stay("203", "2023-09-10", "2023-09-14", 4, 720),
				stay("102", "2023-07-15", "2023-07-18", 3, 360),
				stay("301", "2023-05-22", "2023-05-27", 5, 1500),
			},
		},
		{
			ID: "guest-004", FirstName: "Emily", LastName: "Davis", Email: "emily.davis@email.com",
			Phone: "+1-555-0321", IDNumber: "ID321654987", Address: "321 Elm Street, Lakeside, USA",
			StayHistory: []model.StayRecord{
				stay("103", "2023-12-20", "2023-12-23", 3, 540),
				stay("202", "2023-10-05", "2023-10-08", 3, 360),
			},
		},
		{
			ID: "guest-005", FirstName: "David", LastName: "Wilson", Email: "david.wilson@email.com",
			Phone: "+1-555-0654", IDNumber: "ID654321789", Address: "654 Maple Drive, Hilltown, USA",
			StayHistory: []model.StayRecord{},
		},
	}
}

func demoReservations() []model.Reservation {
	return []model.Reservation{
		{ID: "res-001", GuestID: "guest-001", RoomID: "room-001", CheckIn: "2024-01-15", CheckOut: "2024-01-18", Status: model.ReservationCheckedIn, TotalPrice: money(360), Notes: "Late check-in requested"},
		{ID: "res-002", GuestID: "guest-002", RoomID: "room-005", CheckIn: "2024-01-16", CheckOut: "2024-01-20", Status: model.ReservationCheckedIn, TotalPrice: money(480), Notes: "Anniversary celebration"},
		{ID: "res-003", GuestID: "guest-003", RoomID: "room-007", CheckIn: "2024-01-14", CheckOut: "2024-01-19", Status: model.ReservationCheckedIn, TotalPrice: money(1500), Notes: "VIP guest - complimentary upgrade"},
		{ID: "res-004", GuestID: "guest-004", RoomID: "room-002", CheckIn: "2024-01-17", CheckOut: "2024-01-20", Status: model.ReservationConfirmed, TotalPrice: money(360)},
		{ID: "res-005", GuestID: "guest-005", RoomID: "room-006", CheckIn: "2024-01-18", CheckOut: "2024-01-22", Status: model.ReservationConfirmed, TotalPrice: money(720), Notes: "Business traveler"},
		{ID: "res-006", GuestID: "guest-001", RoomID: "room-003", CheckIn: "2024-01-10", CheckOut: "2024-01-13", Status: model.ReservationCheckedOut, TotalPrice: money(540), Notes: "Previous stay - satisfied customer"},
		{ID: "res-007", GuestID: "guest-002", RoomID: "room-008", CheckIn: "2024-01-20", CheckOut: "2024-01-23", Status: model.ReservationConfirmed, TotalPrice: money(360), Notes: "Repeat guest"},
	}
}
