// Package handler adapts the front desk to HTTP.  Handlers bind and
// decode, the service decides, RespondError maps the outcome.
package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/report"
	"github.com/iliyamo/hotel-front-desk/internal/service"
)

// RoomHandler serves /v1/rooms.
type RoomHandler struct {
	Desk *service.FrontDesk
}

// NewRoomHandler panics if desk is nil.
func NewRoomHandler(desk *service.FrontDesk) *RoomHandler {
	if desk == nil {
		panic("nil front desk passed to NewRoomHandler")
	}
	return &RoomHandler{Desk: desk}
}

// List handles GET /v1/rooms?status=&type=.
func (h *RoomHandler) List(c echo.Context) error {
	rooms, err := h.Desk.ListRooms(c.Request().Context())
	if err != nil {
		return RespondError(c, err)
	}
	items := report.FilterRooms(rooms, report.RoomFilter{
		Status: c.QueryParam("status"),
		Type:   c.QueryParam("type"),
	})
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Types handles GET /v1/rooms/types.
func (h *RoomHandler) Types(c echo.Context) error {
	rooms, err := h.Desk.ListRooms(c.Request().Context())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": report.RoomTypes(rooms)})
}

func (h *RoomHandler) Get(c echo.Context) error {
	room, err := h.Desk.GetRoom(c.Request().Context(), c.Param("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var body model.Room
	if err := bind(c, &body); err != nil {
		return RespondError(c, err)
	}
	room, err := h.Desk.CreateRoom(c.Request().Context(), body)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// Update handles PUT/PATCH /v1/rooms/:id.  Only the fields present in the
// body change; "currentGuestId": null clears the guest.
func (h *RoomHandler) Update(c echo.Context) error {
	var patch model.RoomPatch
	if err := bind(c, &patch); err != nil {
		return RespondError(c, err)
	}
	room, err := h.Desk.UpdateRoom(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

type statusBody struct {
	Status string `json:"status"`
}

// UpdateStatus handles POST /v1/rooms/:id/status.
func (h *RoomHandler) UpdateStatus(c echo.Context) error {
	var body statusBody
	if err := bind(c, &body); err != nil {
		return RespondError(c, err)
	}
	if body.Status == "" {
		return RespondError(c, service.ValidationError{Field: "status", Msg: "is required"})
	}
	room, err := h.Desk.UpdateRoomStatus(c.Request().Context(), c.Param("id"), model.RoomStatus(body.Status))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

// Clean handles POST /v1/rooms/:id/clean (housekeeping sign-off).
func (h *RoomHandler) Clean(c echo.Context) error {
	room, err := h.Desk.MarkRoomClean(c.Request().Context(), c.Param("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) Delete(c echo.Context) error {
	room, err := h.Desk.DeleteRoom(c.Request().Context(), c.Param("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}
