// Package store persists per-site notice snapshots. All business logic
// depends on the Store interface, never on concrete implementations, so the
// engine can be tested without a running database.
package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/donaldgifford/notice-tracker/internal/config"
	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// Store persists the set of notices already seen for each site.
type Store interface {
	// Load returns the stored snapshot for a site. The second return value
	// reports whether the site has been seeded before: a site with an empty
	// but existing snapshot loads as (empty, true, nil), while a site never
	// saved loads as (empty, false, nil). Corrupt snapshots load as
	// uninitialized rather than failing the check.
	Load(ctx context.Context, siteKey string) (domain.NoticeSet, bool, error)

	// Save replaces the site's snapshot with the given set. Snapshots only
	// ever grow; callers pass the union of the stored and current sets.
	Save(ctx context.Context, siteKey string, set domain.NoticeSet) error

	// Ping verifies the backing storage is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}

// New constructs the store backend selected by cfg.Backend.
func New(ctx context.Context, cfg config.StoreConfig, log *slog.Logger) (Store, error) {
	switch cfg.Backend {
	case "file":
		return NewFileStore(cfg.File.Dir, WithFileLogger(log))
	case "postgres":
		s, err := NewPostgresStore(ctx, cfg.Postgres.DSN(), WithPoolSize(int32(cfg.Postgres.PoolSize)))
		if err != nil {
			return nil, fmt.Errorf("creating postgres store: %w", err)
		}
		return s, nil
	case "redis":
		s, err := NewRedisStore(ctx, RedisOptions{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		})
		if err != nil {
			return nil, fmt.Errorf("creating redis store: %w", err)
		}
		return s, nil
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
