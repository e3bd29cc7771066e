package store

import (
	"context"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// readOnlyStore wraps a Store and drops writes, so a dry run can diff
// against real snapshots without touching them.
type readOnlyStore struct {
	inner Store
}

// ReadOnly returns a view of s that serves reads and silently discards
// Save calls. Close is also suppressed; the caller keeps owning s.
func ReadOnly(s Store) Store {
	return &readOnlyStore{inner: s}
}

func (r *readOnlyStore) Load(ctx context.Context, siteKey string) (domain.NoticeSet, bool, error) {
	return r.inner.Load(ctx, siteKey)
}

func (r *readOnlyStore) Save(_ context.Context, _ string, _ domain.NoticeSet) error {
	return nil
}

func (r *readOnlyStore) Ping(ctx context.Context) error {
	return r.inner.Ping(ctx)
}

func (r *readOnlyStore) Close() error {
	return nil
}
