package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/donaldgifford/notice-tracker/internal/api"
	"github.com/donaldgifford/notice-tracker/internal/config"
	"github.com/donaldgifford/notice-tracker/internal/engine"
	"github.com/donaldgifford/notice-tracker/internal/fetch"
	"github.com/donaldgifford/notice-tracker/internal/notify"
	"github.com/donaldgifford/notice-tracker/internal/store"
	"github.com/donaldgifford/notice-tracker/internal/telemetry"
	"github.com/donaldgifford/notice-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server and scheduler",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		return fmt.Errorf("setting up telemetry: %w", err)
	}

	st, err := store.New(ctx, cfg.Store, log)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}

	eng := engine.NewEngine(
		st,
		buildFetcher(cfg, log),
		buildNotifier(cfg, log),
		cfg.SiteList(),
		engine.WithLogger(log),
		engine.WithBatchLimit(cfg.Telegram.BatchLimit),
	)

	sched, err := engine.NewScheduler(
		eng,
		cfg.Scheduler.CheckInterval,
		log,
		engine.WithSkipFirstPass(cfg.Scheduler.SkipFirstRun),
	)
	if err != nil {
		return fmt.Errorf("creating scheduler: %w", err)
	}

	srv := api.New(cfg, eng, st, Version, log)

	log.Info("starting server",
		"addr", srv.Addr(),
		"sites", len(cfg.Sites),
		"interval", cfg.Scheduler.CheckInterval,
		"store", cfg.Store.Backend,
		"version", Version,
	)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
		}
	}()

	sched.Start()

	// Wait for interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Stop scheduling first and let an in-flight pass finish before the
	// store goes away underneath it.
	select {
	case <-sched.Stop().Done():
	case <-shutdownCtx.Done():
		log.Warn("pass still running at shutdown deadline")
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown failed", "error", err)
	}

	if err := st.Close(); err != nil {
		log.Error("store close failed", "error", err)
	}

	if err := tel.Shutdown(shutdownCtx); err != nil {
		log.Error("telemetry shutdown failed", "error", err)
	}

	log.Info("stopped")
	return nil
}

// buildFetcher constructs the page fetch client from config.
func buildFetcher(cfg *config.Config, log *slog.Logger) *fetch.Client {
	opts := []fetch.Option{
		fetch.WithTimeout(cfg.Fetch.Timeout),
		fetch.WithAttempts(cfg.Fetch.Attempts),
		fetch.WithRetryDelay(cfg.Fetch.RetryDelay),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithVerifyTLS(cfg.Fetch.VerifyTLS),
		fetch.WithLogger(log),
	}
	if cfg.Fetch.RateLimit.PerSecond > 0 {
		opts = append(opts, fetch.WithLimiter(rate.NewLimiter(
			rate.Limit(cfg.Fetch.RateLimit.PerSecond),
			cfg.Fetch.RateLimit.Burst,
		)))
	}
	return fetch.New(opts...)
}

// buildNotifier constructs the Telegram notifier, or a logging no-op when
// Telegram is not enabled.
func buildNotifier(cfg *config.Config, log *slog.Logger) notify.Notifier {
	if !cfg.Telegram.Enabled {
		log.Warn("telegram disabled, new notices will be logged and discarded")
		return notify.NewNoOpNotifier(log)
	}
	return telegramNotifier(cfg)
}

func telegramNotifier(cfg *config.Config) *notify.TelegramNotifier {
	return notify.NewTelegramNotifier(
		cfg.Telegram.BotToken,
		cfg.Telegram.ChatID,
		notify.WithAPIBase(cfg.Telegram.APIBase),
		notify.WithHTTPClient(&http.Client{Timeout: cfg.Telegram.Timeout}),
	)
}
