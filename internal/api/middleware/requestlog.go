package middleware

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const requestIDHeader = "X-Request-ID"

// healthProbePaths are polled continuously by uptime monitors and probes.
// Repeated successes on these paths are suppressed from the request log;
// failures are always logged.
var healthProbePaths = map[string]struct{}{
	"/":        {},
	"/health":  {},
	"/healthz": {},
	"/readyz":  {},
}

// RequestLog returns Echo middleware that logs requests with structured
// fields. It generates a request ID if none is provided and propagates it
// through the response header and echo context. Probe paths log the first
// success and every failure; repeat successes stay quiet.
func RequestLog(log *slog.Logger) echo.MiddlewareFunc {
	var mu sync.Mutex
	probeHealthy := make(map[string]bool)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			reqID := c.Request().Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set("request_id", reqID)
			c.Response().Header().Set(requestIDHeader, reqID)

			err := next(c)

			path := c.Request().URL.Path
			status := c.Response().Status
			fields := []any{
				"method", c.Request().Method,
				"path", path,
				"status", status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", reqID,
			}

			if _, probe := healthProbePaths[path]; probe {
				healthy := status >= 200 && status < 300
				mu.Lock()
				suppress := healthy && probeHealthy[path]
				probeHealthy[path] = healthy
				mu.Unlock()

				if suppress {
					return err
				}
				if !healthy {
					log.Warn("request", fields...)
					return err
				}
			}

			log.Info("request", fields...)
			return err
		}
	}
}
