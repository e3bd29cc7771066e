package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

func newFileStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	require.NoError(t, err)
	return s, dir
}

func TestFileStore_LoadMissingFile(t *testing.T) {
	t.Parallel()

	s, _ := newFileStore(t)
	set, initialized, err := s.Load(context.Background(), "neet")

	require.NoError(t, err)
	assert.False(t, initialized)
	assert.Equal(t, 0, set.Len())
}

func TestFileStore_SaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	s, _ := newFileStore(t)
	ctx := context.Background()

	saved := domain.NewNoticeSet(
		domain.Notice{Title: "Result declared", URL: "https://example.org/result.pdf"},
		domain.Notice{Title: "Schedule revised", URL: "https://example.org/schedule.pdf"},
	)
	require.NoError(t, s.Save(ctx, "neet", saved))

	got, initialized, err := s.Load(ctx, "neet")
	require.NoError(t, err)
	assert.True(t, initialized)
	assert.Equal(t, saved, got)
}

func TestFileStore_EmptySetIsInitialized(t *testing.T) {
	t.Parallel()

	s, _ := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "neet", domain.NoticeSet{}))

	got, initialized, err := s.Load(ctx, "neet")
	require.NoError(t, err)
	assert.True(t, initialized, "an empty snapshot is not the same as no snapshot")
	assert.Equal(t, 0, got.Len())
}

func TestFileStore_FileNameMatchesLegacyLayout(t *testing.T) {
	t.Parallel()

	s, dir := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "neet", domain.NewNoticeSet(domain.Notice{Title: "a", URL: "b"})))

	_, err := os.Stat(filepath.Join(dir, "seen_links_neet.json"))
	assert.NoError(t, err)
}

func TestFileStore_ReadsLegacyStringFormat(t *testing.T) {
	t.Parallel()

	s, dir := newFileStore(t)
	ctx := context.Background()

	legacy := `["Result declared::https://example.org/result.pdf", "Old entry without separator"]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_links_neet.json"), []byte(legacy), 0o644))

	got, initialized, err := s.Load(ctx, "neet")
	require.NoError(t, err)
	assert.True(t, initialized)
	assert.True(t, got.Has(domain.Notice{Title: "Result declared", URL: "https://example.org/result.pdf"}))
	assert.True(t, got.Has(domain.Notice{Title: "Old entry without separator", URL: ""}))
}

func TestFileStore_RewritesLegacyFormatOnSave(t *testing.T) {
	t.Parallel()

	s, dir := newFileStore(t)
	ctx := context.Background()
	path := filepath.Join(dir, "seen_links_neet.json")

	legacy := `["Result declared::https://example.org/result.pdf"]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o644))

	got, _, err := s.Load(ctx, "neet")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, "neet", got))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"title"`, "saved snapshot uses the structured format")

	reloaded, initialized, err := s.Load(ctx, "neet")
	require.NoError(t, err)
	assert.True(t, initialized)
	assert.Equal(t, got, reloaded)
}

func TestFileStore_CorruptSnapshotTreatedAsUnseeded(t *testing.T) {
	t.Parallel()

	s, dir := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "seen_links_neet.json"), []byte("{not json"), 0o644))

	set, initialized, err := s.Load(ctx, "neet")
	require.NoError(t, err, "a corrupt snapshot must not fail the check")
	assert.False(t, initialized)
	assert.Equal(t, 0, set.Len())
}

func TestFileStore_SaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	s, dir := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "neet", domain.NewNoticeSet(domain.Notice{Title: "a", URL: "b"})))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "seen_links_neet.json", entries[0].Name())
}

func TestFileStore_SanitizesSiteKeys(t *testing.T) {
	t.Parallel()

	s, dir := newFileStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "../neet mds/2025", domain.NoticeSet{}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "seen_links_.._neet_mds_2025.json", entries[0].Name())

	_, initialized, err := s.Load(ctx, "../neet mds/2025")
	require.NoError(t, err)
	assert.True(t, initialized)
}

func TestFileStore_Ping(t *testing.T) {
	t.Parallel()

	s, _ := newFileStore(t)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestSanitizeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain key unchanged", input: "neet-mds_2025.v1", want: "neet-mds_2025.v1"},
		{name: "path separators replaced", input: "a/b\\c", want: "a_b_c"},
		{name: "spaces replaced", input: "neet mds", want: "neet_mds"},
		{name: "unicode replaced", input: "नीट", want: "___"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, sanitizeKey(tt.input))
		})
	}
}
