package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/model"
	"github.com/iliyamo/hotel-front-desk/internal/report"
	"github.com/iliyamo/hotel-front-desk/internal/service"
)

// ReservationHandler serves /v1/reservations and the walk-in check-in.
type ReservationHandler struct {
	Desk *service.FrontDesk
}

func NewReservationHandler(desk *service.FrontDesk) *ReservationHandler {
	if desk == nil {
		panic("nil front desk passed to NewReservationHandler")
	}
	return &ReservationHandler{Desk: desk}
}

// List handles GET /v1/reservations?q=&status=.  The query matches guest
// name, reservation id and room number.
func (h *ReservationHandler) List(c echo.Context) error {
	snap, err := report.LoadSnapshot(c.Request().Context(), h.Desk)
	if err != nil {
		return RespondError(c, err)
	}
	items := report.FilterReservations(snap, report.ReservationFilter{
		Query:  c.QueryParam("q"),
		Status: c.QueryParam("status"),
	})
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

func (h *ReservationHandler) Get(c echo.Context) error {
	res, err := h.Desk.GetReservation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Create handles POST /v1/reservations.  The total is derived from the
// room's rate; any total in the body is ignored.
func (h *ReservationHandler) Create(c echo.Context) error {
	var req service.ReservationRequest
	if err := bind(c, &req); err != nil {
		return RespondError(c, err)
	}
	res, err := h.Desk.CreateReservation(c.Request().Context(), req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

// Update handles PUT/PATCH /v1/reservations/:id.  A status in the body runs
// through the lifecycle like the dedicated endpoints.
func (h *ReservationHandler) Update(c echo.Context) error {
	var patch model.ReservationPatch
	if err := bind(c, &patch); err != nil {
		return RespondError(c, err)
	}
	res, err := h.Desk.UpdateReservation(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *ReservationHandler) Delete(c echo.Context) error {
	res, err := h.Desk.DeleteReservation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// UpdateStatus handles POST /v1/reservations/:id/status.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	var body statusBody
	if err := bind(c, &body); err != nil {
		return RespondError(c, err)
	}
	if body.Status == "" {
		return RespondError(c, service.ValidationError{Field: "status", Msg: "is required"})
	}
	return h.stay(c, func(ctx context.Context, id string) (service.StayResult, error) {
		return h.Desk.UpdateReservationStatus(ctx, id, model.ReservationStatus(body.Status))
	})
}

// CheckIn handles POST /v1/reservations/:id/check-in.
func (h *ReservationHandler) CheckIn(c echo.Context) error {
	return h.stay(c, h.Desk.CheckInReservation)
}

// CheckOut handles POST /v1/reservations/:id/check-out.
func (h *ReservationHandler) CheckOut(c echo.Context) error {
	return h.stay(c, h.Desk.CheckOut)
}

// Cancel handles POST /v1/reservations/:id/cancel.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	return h.stay(c, h.Desk.Cancel)
}

func (h *ReservationHandler) stay(c echo.Context, step func(context.Context, string) (service.StayResult, error)) error {
	out, err := step(c.Request().Context(), c.Param("id"))
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// WalkIn handles POST /v1/check-in: new guest, occupied room and a
// checked-in reservation in one step.
func (h *ReservationHandler) WalkIn(c echo.Context) error {
	var req service.CheckInRequest
	if err := bind(c, &req); err != nil {
		return RespondError(c, err)
	}
	out, err := h.Desk.CheckIn(c.Request().Context(), req)
	if err != nil {
		return RespondError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
