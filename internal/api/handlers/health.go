package handlers

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Pinger reports whether the snapshot store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler provides the liveness, readiness, and legacy uptime-probe
// endpoints.
type HealthHandler struct {
	store Pinger
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(s Pinger) *HealthHandler {
	return &HealthHandler{store: s}
}

// Root answers keep-alive pings with a bare "OK". External uptime monitors
// poll this path, so the body is plain text and never changes.
func (*HealthHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// Health is the legacy plain-text health probe.
func (*HealthHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "healthy")
}

// Healthz returns 200 if the process is running.
func (*HealthHandler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
}

// Readyz returns 200 if the snapshot store is reachable, 503 otherwise.
func (h *HealthHandler) Readyz(c echo.Context) error {
	if err := h.store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "ready"})
}
