package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/donaldgifford/notice-tracker/internal/engine"
	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// PassRunner runs a full check pass across the site registry.
type PassRunner interface {
	RunPass(ctx context.Context, trigger domain.CheckTrigger) (*domain.PassSummary, error)
}

// ForceCheckHandler serves the legacy manual-trigger endpoint. The caller
// gets an immediate answer; the pass itself runs in the background.
type ForceCheckHandler struct {
	runner PassRunner
	token  string
	log    *slog.Logger
}

// NewForceCheckHandler creates a new ForceCheckHandler. An empty token
// disables the check: the trigger accepts any caller, matching the
// endpoint's historical contract.
func NewForceCheckHandler(r PassRunner, token string, log *slog.Logger) *ForceCheckHandler {
	return &ForceCheckHandler{runner: r, token: token, log: log}
}

// ForceCheck validates the token query parameter when one is configured and
// kicks off a background check pass. The response does not wait for the pass
// to finish.
func (h *ForceCheckHandler) ForceCheck(c echo.Context) error {
	if !tokenAllowed(h.token, c.QueryParam("token")) {
		return c.String(http.StatusForbidden, "Unauthorized")
	}

	go func() {
		// Detached from the request context: the pass outlives the response.
		_, err := h.runner.RunPass(context.Background(), domain.TriggerManual)
		switch {
		case errors.Is(err, engine.ErrPassInProgress):
			h.log.Info("forced check skipped, pass already running")
		case err != nil:
			h.log.Error("forced check failed", "error", err)
		}
	}()

	return c.String(http.StatusOK, "Triggered")
}

// tokenAllowed reports whether a provided token passes the configured one.
// No configured token means no check.
func tokenAllowed(configured, provided string) bool {
	if configured == "" {
		return true
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(configured)) == 1
}
