package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

const defaultPoolSize = 10

const (
	querySelectSnapshot = `
		SELECT title, url
		FROM site_snapshots
		WHERE site_key = @site_key`

	querySiteSeeded = `
		SELECT EXISTS(SELECT 1 FROM site_baselines WHERE site_key = @site_key)`

	queryUpsertBaseline = `
		INSERT INTO site_baselines (site_key)
		VALUES (@site_key)
		ON CONFLICT (site_key) DO UPDATE SET updated_at = now()`

	queryInsertNotice = `
		INSERT INTO site_snapshots (site_key, title, url)
		VALUES (@site_key, @title, @url)
		ON CONFLICT (site_key, title, url) DO NOTHING`
)

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool     *pgxpool.Pool
	poolSize int32
}

// PostgresOption configures the PostgresStore.
type PostgresOption func(*PostgresStore)

// WithPoolSize overrides the connection pool size.
func WithPoolSize(n int32) PostgresOption {
	return func(s *PostgresStore) {
		if n > 0 {
			s.poolSize = n
		}
	}
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string, opts ...PostgresOption) (*PostgresStore, error) {
	s := &PostgresStore{poolSize: defaultPoolSize}
	for _, opt := range opts {
		opt(s)
	}

	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = s.poolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	s.pool = pool
	return s, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// Load reads the site's snapshot rows. Seeding state comes from the
// site_baselines table, so a seeded site with zero notices still loads as
// initialized.
func (s *PostgresStore) Load(ctx context.Context, siteKey string) (domain.NoticeSet, bool, error) {
	args := pgx.NamedArgs{"site_key": siteKey}

	var seeded bool
	if err := s.pool.QueryRow(ctx, querySiteSeeded, args).Scan(&seeded); err != nil {
		return nil, false, fmt.Errorf("checking baseline for %s: %w", siteKey, err)
	}
	if !seeded {
		return domain.NoticeSet{}, false, nil
	}

	rows, err := s.pool.Query(ctx, querySelectSnapshot, args)
	if err != nil {
		return nil, false, fmt.Errorf("loading snapshot for %s: %w", siteKey, err)
	}
	defer rows.Close()

	set := domain.NoticeSet{}
	for rows.Next() {
		var n domain.Notice
		if err := rows.Scan(&n.Title, &n.URL); err != nil {
			return nil, false, fmt.Errorf("scanning snapshot row: %w", err)
		}
		set.Add(n)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating snapshot rows: %w", err)
	}

	return set, true, nil
}

// Save marks the site seeded and inserts any rows missing from its
// snapshot, all within one transaction. Existing rows are left untouched,
// so the snapshot only grows.
func (s *PostgresStore) Save(ctx context.Context, siteKey string, set domain.NoticeSet) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning snapshot transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, queryUpsertBaseline, pgx.NamedArgs{"site_key": siteKey}); err != nil {
		return fmt.Errorf("upserting baseline for %s: %w", siteKey, err)
	}

	batch := &pgx.Batch{}
	for _, n := range set.Sorted() {
		batch.Queue(queryInsertNotice, pgx.NamedArgs{
			"site_key": siteKey,
			"title":    n.Title,
			"url":      n.URL,
		})
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("inserting snapshot rows for %s: %w", siteKey, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing snapshot for %s: %w", siteKey, err)
	}
	return nil
}
