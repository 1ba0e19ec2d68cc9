package router

import (
	"github.com/labstack/echo/v4"

	"github.com/icangrow/icangrow-api/internal/handler"
)

// registerSystemRoutes registers endpoints that are not part of
// business logic. They live outside the versioned prefix so probes
// don't depend on API versioning.
func registerSystemRoutes(e *echo.Echo, h *handler.Handlers) {
	// Used by load balancers and uptime monitors.
	e.GET("/health", h.Health.CheckHealth)
}
