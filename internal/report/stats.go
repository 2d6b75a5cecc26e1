package report

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/utils"
)

// RecentLimit is how many reservations the recent-activity list shows.
const RecentLimit = 5

// TrendDays is the width of the revenue trend window.
const TrendDays = 7

// OccupancyRate is the share of occupied rooms as a whole percentage,
// rounded half up.  It is 0 for an empty property.
func OccupancyRate(rooms []model.Room) int {
	if len(rooms) == 0 {
		return 0
	}
	occupied := CountRooms(rooms, model.RoomOccupied)
	return int(math.Floor(float64(occupied)*100/float64(len(rooms)) + 0.5))
}

// CountRooms counts rooms in status.
func CountRooms(rooms []model.Room, status model.RoomStatus) int {
	n := 0
	for _, r := range rooms {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Revenue sums the totals of checked-out reservations only.
func Revenue(reservations []model.Reservation) decimal.Decimal {
	total := decimal.Zero
	for _, r := range reservations {
		if r.Status == model.ReservationCheckedOut {
			total = total.Add(r.TotalPrice)
		}
	}
	return total
}

// AverageStayLength is the mean number of nights over all reservations,
// rounded to one decimal.  Reservations with unreadable dates are left out.
func AverageStayLength(reservations []model.Reservation) float64 {
	sum, n := 0, 0
	for _, r := range reservations {
		nights, err := utils.Nights(r.CheckIn, r.CheckOut)
		if err != nil {
			continue
		}
		sum += nights
		n++
	}
	if n == 0 {
		return 0
	}
	return math.Round(float64(sum)/float64(n)*10) / 10
}

// Arrivals are the reservations whose check-in date is today.
func Arrivals(reservations []model.Reservation, today string) []model.Reservation {
	var out []model.Reservation
	for _, r := range reservations {
		if r.CheckIn == today {
			out = append(out, r)
		}
	}
	return out
}

// Departures are the reservations whose check-out date is today.
func Departures(reservations []model.Reservation, today string) []model.Reservation {
	var out []model.Reservation
	for _, r := range reservations {
		if r.CheckOut == today {
			out = append(out, r)
		}
	}
	return out
}

type GuestStats struct {
	Total     int `json:"total"`
	Returning int `json:"returning"`
	VIP       int `json:"vip"`
}

func GuestStatistics(guests []model.Guest) GuestStats {
	s := GuestStats{Total: len(guests)}
	for _, g := range guests {
		if g.IsReturning() {
			s.Returning++
		}
		if g.IsVIP() {
			s.VIP++
		}
	}
	return s
}

// StatusCount is one slice of the room status distribution.
type StatusCount struct {
	Status model.RoomStatus `json:"status"`
	Label  string           `json:"label"`
	Color  string           `json:"color"`
	Count  int              `json:"count"`
}

// StatusDistribution counts rooms per status.  Known statuses come first in
// vocabulary order; values outside the vocabulary follow in the order they
// were first seen, labelled Unknown.  Statuses with no rooms are omitted.
func StatusDistribution(rooms []model.Room) []StatusCount {
	counts := map[model.RoomStatus]int{}
	var unknown []model.RoomStatus
	for _, r := range rooms {
		if counts[r.Status] == 0 && !r.Status.Valid() {
			unknown = append(unknown, r.Status)
		}
		counts[r.Status]++
	}
	var out []StatusCount
	for _, s := range append(model.RoomStatuses(), unknown...) {
		if n := counts[s]; n > 0 {
			info := s.Info()
			out = append(out, StatusCount{Status: s, Label: info.Label, Color: info.Color, Count: n})
		}
	}
	return out
}

// DailyRevenue is the checked-out revenue attributed to one date.
type DailyRevenue struct {
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
}

// RevenueTrend buckets checked-out reservations by check-out date over the
// days ending today, oldest first.
func RevenueTrend(reservations []model.Reservation, today string, days int) ([]DailyRevenue, error) {
	out := make([]DailyRevenue, 0, days)
	index := make(map[string]int, days)
	for i := days - 1; i >= 0; i-- {
		date, err := utils.AddDays(today, -i)
		if err != nil {
			return nil, err
		}
		index[date] = len(out)
		out = append(out, DailyRevenue{Date: date, Revenue: decimal.Zero})
	}
	for _, r := range reservations {
		if r.Status != model.ReservationCheckedOut {
			continue
		}
		if i, ok := index[r.CheckOut]; ok {
			out[i].Revenue = out[i].Revenue.Add(r.TotalPrice)
		}
	}
	return out, nil
}

// RecentReservation is a reservation resolved for display.
type RecentReservation struct {
	ID          string                  `json:"id"`
	GuestName   string                  `json:"guestName"`
	RoomNumber  string                  `json:"roomNumber"`
	CheckIn     string                  `json:"checkIn"`
	CheckOut    string                  `json:"checkOut"`
	Status      model.ReservationStatus `json:"status"`
	StatusLabel string                  `json:"statusLabel"`
	TotalPrice  decimal.Decimal         `json:"totalPrice"`
}

// Recent resolves the first limit reservations in store order.
func Recent(snap Snapshot, limit int) []RecentReservation {
	lookup := NewLookup(snap.Guests, snap.Rooms)
	n := min(limit, len(snap.Reservations))
	out := make([]RecentReservation, 0, n)
	for _, r := range snap.Reservations[:n] {
		out = append(out, RecentReservation{
			ID:          r.ID,
			GuestName:   lookup.GuestName(r.GuestID),
			RoomNumber:  lookup.RoomNumber(r.RoomID),
			CheckIn:     r.CheckIn,
			CheckOut:    r.CheckOut,
			Status:      r.Status,
			StatusLabel: r.Status.Label(),
			TotalPrice:  r.TotalPrice,
		})
	}
	return out
}

// Dashboard is the quick-stats strip of the front-desk home page.
type Dashboard struct {
	Date            string `json:"date"`
	Occupied        int    `json:"occupied"`
	Available       int    `json:"available"`
	ArrivalsToday   int    `json:"arrivalsToday"`
	DeparturesToday int    `json:"departuresToday"`
}

func DashboardStats(snap Snapshot, today string) Dashboard {
	return Dashboard{
		Date:            today,
		Occupied:        CountRooms(snap.Rooms, model.RoomOccupied),
		Available:       CountRooms(snap.Rooms, model.RoomVacantClean),
		ArrivalsToday:   len(Arrivals(snap.Reservations, today)),
		DeparturesToday: len(Departures(snap.Reservations, today)),
	}
}

// Summary is the full reports page.
type Summary struct {
	Date               string              `json:"date"`
	TotalRooms         int                 `json:"totalRooms"`
	OccupiedRooms      int                 `json:"occupiedRooms"`
	OccupancyRate      int                 `json:"occupancyRate"`
	Revenue            decimal.Decimal     `json:"revenue"`
	AverageStayLength  float64             `json:"averageStayLength"`
	ArrivalsToday      int                 `json:"arrivalsToday"`
	DeparturesToday    int                 `json:"departuresToday"`
	Guests             GuestStats          `json:"guests"`
	StatusDistribution []StatusCount       `json:"statusDistribution"`
	RevenueTrend       []DailyRevenue      `json:"revenueTrend"`
	Recent             []RecentReservation `json:"recent"`
}

// Summarize computes every report figure from one snapshot.
func Summarize(snap Snapshot, today string) (Summary, error) {
	trend, err := RevenueTrend(snap.Reservations, today, TrendDays)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Date:               today,
		TotalRooms:         len(snap.Rooms),
		OccupiedRooms:      CountRooms(snap.Rooms, model.RoomOccupied),
		OccupancyRate:      OccupancyRate(snap.Rooms),
		Revenue:            Revenue(snap.Reservations),
		AverageStayLength:  AverageStayLength(snap.Reservations),
		ArrivalsToday:      len(Arrivals(snap.Reservations, today)),
		DeparturesToday:    len(Departures(snap.Reservations, today)),
		Guests:             GuestStatistics(snap.Guests),
		StatusDistribution: StatusDistribution(snap.Rooms),
		RevenueTrend:       trend,
		Recent:             Recent(snap, RecentLimit),
	}, nil
}
