package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/handler"
)

// RegisterReports registers the read-only reporting endpoints.
func RegisterReports(e *echo.Echo, h *handler.ReportHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/reports", mw...)
	g.GET("/summary", h.Summary)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/export", h.Export)
}
