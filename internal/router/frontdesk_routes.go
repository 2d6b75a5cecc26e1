package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/handler"
)

// RegisterRooms registers the room board under /v1/rooms.  PUT and PATCH
// both apply a partial update.
func RegisterRooms(e *echo.Echo, h *handler.RoomHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/rooms", mw...)
	g.GET("", h.List)
	g.POST("", h.Create)
	// static segment wins over :id in echo's router
	g.GET("/types", h.Types)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/status", h.UpdateStatus)
	g.POST("/:id/clean", h.Clean)
}

// RegisterGuests registers the guest directory under /v1/guests.
func RegisterGuests(e *echo.Echo, h *handler.GuestHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/guests", mw...)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// RegisterReservations registers reservation CRUD, the lifecycle actions
// and the walk-in check-in.
func RegisterReservations(e *echo.Echo, h *handler.ReservationHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/reservations", mw...)
	g.GET("", h.List)
	g.POST("", h.Create)
	g.GET("/:id", h.Get)
	g.PATCH("/:id", h.Update)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.POST("/:id/status", h.UpdateStatus)
	g.POST("/:id/check-in", h.CheckIn)
	g.POST("/:id/check-out", h.CheckOut)
	g.POST("/:id/cancel", h.Cancel)

	e.POST("/v1/check-in", h.WalkIn, mw...)
}
