package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/notice-tracker/internal/config"
	"github.com/donaldgifford/notice-tracker/internal/store"
	"github.com/donaldgifford/notice-tracker/pkg/logger"
)

func TestNew_FileBackend(t *testing.T) {
	t.Parallel()

	cfg := config.StoreConfig{
		Backend: "file",
		File:    config.FileStoreConfig{Dir: t.TempDir()},
	}

	s, err := store.New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &store.FileStore{}, s)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestNew_MemoryBackend(t *testing.T) {
	t.Parallel()

	cfg := config.StoreConfig{Backend: "memory"}

	s, err := store.New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &store.MemoryStore{}, s)
}

func TestNew_UnknownBackend(t *testing.T) {
	t.Parallel()

	cfg := config.StoreConfig{Backend: "etcd"}

	_, err := store.New(context.Background(), cfg, logger.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown store backend "etcd"`)
}
