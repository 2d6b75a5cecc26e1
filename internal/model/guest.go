package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Guest is a person known to the front desk.  StayHistory is append-only and
// grows by one record each time a reservation of the guest is checked out.
type Guest struct {
	ID          string       `json:"id"`
	FirstName   string       `json:"firstName" validate:"required"`
	LastName    string       `json:"lastName" validate:"required"`
	Email       string       `json:"email" validate:"required,email"`
	Phone       string       `json:"phone" validate:"required"`
	IDNumber    string       `json:"idNumber" validate:"required"`
	Address     string       `json:"address,omitempty"`
	StayHistory []StayRecord `json:"stayHistory"`
}

// StayRecord is one completed stay.  Amounts are copied from the reservation
// when the stay completes and never recomputed.
type StayRecord struct {
	RoomNumber  string          `json:"roomNumber"`
	CheckIn     string          `json:"checkIn"`
	CheckOut    string          `json:"checkOut"`
	Nights      int             `json:"nights"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

// Guest classification thresholds on completed stays.
const (
	VIPStayCount       = 5
	ReturningStayCount = 2
)

func (g Guest) GetID() string { return g.ID }

func (g Guest) WithID(id string) Guest {
	g.ID = id
	return g
}

func (g Guest) Clone() Guest {
	if g.StayHistory != nil {
		g.StayHistory = append(make([]StayRecord, 0, len(g.StayHistory)), g.StayHistory...)
	} else {
		g.StayHistory = []StayRecord{}
	}
	return g
}

// FullName joins first and last name.
func (g Guest) FullName() string {
	return strings.TrimSpace(g.FirstName + " " + g.LastName)
}

// IsVIP reports five or more completed stays.
func (g Guest) IsVIP() bool { return len(g.StayHistory) >= VIPStayCount }

// IsReturning reports more than one completed stay.
func (g Guest) IsReturning() bool { return len(g.StayHistory) >= ReturningStayCount }

// GuestPatch is a partial guest update.  Stay history cannot be patched.
type GuestPatch struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	IDNumber  *string `json:"idNumber"`
	Address   *string `json:"address"`
}

func (p GuestPatch) Apply(g *Guest) {
	if p.FirstName != nil {
		g.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		g.LastName = *p.LastName
	}
	if p.Email != nil {
		g.Email = *p.Email
	}
	if p.Phone != nil {
		g.Phone = *p.Phone
	}
	if p.IDNumber != nil {
		g.IDNumber = *p.IDNumber
	}
	if p.Address != nil {
		g.Address = *p.Address
	}
}
