// Package api assembles the notice-tracker HTTP surface: the legacy
// plain-text endpoints, operational probes, Prometheus metrics, and the
// versioned JSON API.
package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humaecho"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/donaldgifford/notice-tracker/internal/api/handlers"
	"github.com/donaldgifford/notice-tracker/internal/api/middleware"
	"github.com/donaldgifford/notice-tracker/internal/config"
	"github.com/donaldgifford/notice-tracker/internal/engine"
	"github.com/donaldgifford/notice-tracker/internal/store"
)

// Server wraps the Echo instance with its listen address.
type Server struct {
	echo *echo.Echo
	addr string
}

// New builds the HTTP server. The legacy endpoints (/, /health,
// /force-check) keep their historical plain-text bodies; everything under
// /api/v1 is a Huma-described JSON API that also serves /openapi.json and
// /docs.
func New(
	cfg *config.Config,
	eng *engine.Engine,
	st store.Store,
	version string,
	log *slog.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	if cfg.Server.ReadTimeout > 0 {
		e.Server.ReadTimeout = cfg.Server.ReadTimeout
	}
	if cfg.Server.WriteTimeout > 0 {
		e.Server.WriteTimeout = cfg.Server.WriteTimeout
	}

	e.Use(middleware.Recovery(log))
	e.Use(middleware.RequestLog(log))
	e.Use(middleware.Metrics())

	health := handlers.NewHealthHandler(st)
	e.GET("/", health.Root)
	e.GET("/health", health.Health)
	e.GET("/healthz", health.Healthz)
	e.GET("/readyz", health.Readyz)

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	force := handlers.NewForceCheckHandler(eng, cfg.Server.ForceToken, log)
	e.GET("/force-check", force.ForceCheck)

	humaAPI := humaecho.New(e, huma.DefaultConfig("notice-tracker API", version))
	handlers.RegisterCheckRoutes(humaAPI, handlers.NewChecksHandler(eng, cfg.Server.ForceToken))
	handlers.RegisterSiteRoutes(humaAPI, handlers.NewSitesHandler(eng))
	handlers.RegisterPassRoutes(humaAPI, handlers.NewPassesHandler(eng))

	return &Server{
		echo: e,
		addr: fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Echo exposes the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start listens on the configured address and blocks until the server stops.
func (s *Server) Start() error {
	return s.echo.Start(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
