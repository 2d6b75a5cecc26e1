// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-front-desk/internal/handler"
)

// RegisterRoutes registers routes that sit outside the versioned API.
// Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterRealtime mounts the WebSocket feed at /v1/ws.  It takes no
// middleware: the upgrade must not be buffered or cached.
func RegisterRealtime(e *echo.Echo, ws echo.HandlerFunc) {
	e.GET("/v1/ws", ws)
}
