package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

func TestReadOnly_ServesReadsFromInner(t *testing.T) {
	t.Parallel()

	inner := NewMemoryStore()
	ctx := context.Background()

	saved := domain.NewNoticeSet(domain.Notice{Title: "a", URL: "u"})
	require.NoError(t, inner.Save(ctx, "neet", saved))

	ro := ReadOnly(inner)

	got, initialized, err := ro.Load(ctx, "neet")
	require.NoError(t, err)
	assert.True(t, initialized)
	assert.Equal(t, saved, got)
	assert.NoError(t, ro.Ping(ctx))
}

func TestReadOnly_DropsSaves(t *testing.T) {
	t.Parallel()

	inner := NewMemoryStore()
	ctx := context.Background()
	ro := ReadOnly(inner)

	require.NoError(t, ro.Save(ctx, "neet", domain.NewNoticeSet(domain.Notice{Title: "a", URL: "u"})))

	// The write must not reach the wrapped store; the site stays unseeded.
	_, initialized, err := inner.Load(ctx, "neet")
	require.NoError(t, err)
	assert.False(t, initialized)
}

func TestReadOnly_CloseLeavesInnerOpen(t *testing.T) {
	t.Parallel()

	inner := NewMemoryStore()
	ctx := context.Background()
	ro := ReadOnly(inner)

	require.NoError(t, ro.Close())

	require.NoError(t, inner.Save(ctx, "neet", domain.NewNoticeSet(domain.Notice{Title: "a", URL: "u"})))
	_, initialized, err := inner.Load(ctx, "neet")
	require.NoError(t, err)
	assert.True(t, initialized)
}
