package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/report"
	"github.com/iliyamo/hotel-front-desk/internal/service"
)

// GuestHandler serves /v1/guests.
type GuestHandler struct {
	Desk *service.FrontDesk
}

func NewGuestHandler(desk *service.FrontDesk) *GuestHandler {
	if desk == nil {
		panic("nil front desk passed to NewGuestHandler")
	}
	return &GuestHandler{Desk: desk}
}

// List handles GET /v1/guests?q=.
func (h *GuestHandler) List(c echo.Context) error {
	guests, err := h.Desk.ListGuests(c.Request().Context())
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"items": report.SearchGuests(guests, c.QueryParam("q"))})
}

func (h *GuestHandler) Get(c echo.Context) error {
	g, err := h.Desk.GetGuest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GuestHandler) Create(c echo.Context) error {
	var body model.Guest
	if err := bind(c, &body); err != nil {
		return RespondError(c, err)
	}
	// history is built by check-outs, never posted
	body.StayHistory = nil
	g, err := h.Desk.CreateGuest(c.Request().Context(), body)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

func (h *GuestHandler) Update(c echo.Context) error {
	var patch model.GuestPatch
	if err := bind(c, &patch); err != nil {
		return RespondError(c, err)
	}
	g, err := h.Desk.UpdateGuest(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

func (h *GuestHandler) Delete(c echo.Context) error {
	g, err := h.Desk.DeleteGuest(c.Request().Context(), c.Param("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}
