package model

import "github.com/shopspring/decimal"

func init() {
	// Prices and totals travel as JSON numbers, matching what the dashboard sends.
	decimal.MarshalJSONWithoutQuotes = true
}

// StatusInfo is the display vocabulary attached to a status value: a label,
// a representative color and a coarse severity tier.
type StatusInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
	Tier  string `json:"tier"`
}

// RoomStatus is the lifecycle state of a physical room.
type RoomStatus string

const (
	RoomOccupied    RoomStatus = "occupied"
	RoomVacantClean RoomStatus = "vacant-clean"
	RoomVacantDirty RoomStatus = "vacant-dirty"
	RoomMaintenance RoomStatus = "maintenance"
	RoomOutOfOrder  RoomStatus = "out-of-order"
)

var roomStatusInfo = map[RoomStatus]StatusInfo{
	RoomOccupied:    {Label: "Occupied", Color: "red-500", Tier: "in-use"},
	RoomVacantClean: {Label: "Available", Color: "green-500", Tier: "available"},
	RoomVacantDirty: {Label: "Cleaning Required", Color: "yellow-500", Tier: "needs-attention"},
	RoomMaintenance: {Label: "Maintenance", Color: "gray-500", Tier: "unavailable"},
	RoomOutOfOrder:  {Label: "Out of Order", Color: "red-700", Tier: "critical"},
}

// UnknownStatus is shown for any status value outside the vocabulary.
var UnknownStatus = StatusInfo{Label: "Unknown", Color: "gray-400", Tier: "unknown"}

// RoomStatuses lists the vocabulary in display order.
func RoomStatuses() []RoomStatus {
	return []RoomStatus{RoomOccupied, RoomVacantClean, RoomVacantDirty, RoomMaintenance, RoomOutOfOrder}
}

// Valid reports whether s belongs to the room status vocabulary.
func (s RoomStatus) Valid() bool {
	_, ok := roomStatusInfo[s]
	return ok
}

// Info never fails: unknown values map to UnknownStatus.
func (s RoomStatus) Info() StatusInfo {
	if info, ok := roomStatusInfo[s]; ok {
		return info
	}
	return UnknownStatus
}

// Label is shorthand for Info().Label.
func (s RoomStatus) Label() string { return s.Info().Label }
