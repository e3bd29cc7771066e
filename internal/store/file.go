package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/donaldgifford/notice-tracker/pkg/logger"
	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// FileStore keeps one seen_links_<key>.json file per site. Snapshots are
// JSON arrays of {"title","url"} objects; files written by older deployments
// hold arrays of "title::url" strings and are read transparently, then
// rewritten in the current format on the next save.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

// FileOption configures the FileStore.
type FileOption func(*FileStore)

// WithFileLogger sets the logger used for corrupt-snapshot warnings.
func WithFileLogger(l *slog.Logger) FileOption {
	return func(s *FileStore) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewFileStore creates a FileStore rooted at dir, creating it if needed.
func NewFileStore(dir string, opts ...FileOption) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating snapshot directory: %w", err)
	}
	s := &FileStore{dir: dir, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Load reads the site's snapshot file. A missing file means the site has
// never been seeded. A file that cannot be parsed is logged and treated the
// same way, so one bad snapshot re-seeds instead of wedging the site.
func (s *FileStore) Load(_ context.Context, siteKey string) (domain.NoticeSet, bool, error) {
	path := s.path(siteKey)

	data, err := os.ReadFile(path) //nolint:gosec // path built from sanitized site key
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.NoticeSet{}, false, nil
		}
		return nil, false, fmt.Errorf("reading snapshot %s: %w", path, err)
	}

	set, err := decodeSnapshot(data)
	if err != nil {
		s.logger.Warn("snapshot file corrupt, treating site as unseeded",
			"site", siteKey, "path", path, "error", err)
		return domain.NoticeSet{}, false, nil
	}
	return set, true, nil
}

// Save writes the snapshot atomically: marshal to a temp file in the same
// directory, then rename over the target.
func (s *FileStore) Save(_ context.Context, siteKey string, set domain.NoticeSet) error {
	path := s.path(siteKey)

	data, err := json.MarshalIndent(set.Sorted(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil { //nolint:gosec // snapshots are not secrets
		return fmt.Errorf("writing snapshot %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replacing snapshot %s: %w", path, err)
	}
	return nil
}

// Ping verifies the snapshot directory is writable.
func (s *FileStore) Ping(_ context.Context) error {
	f, err := os.CreateTemp(s.dir, ".ping-*")
	if err != nil {
		return fmt.Errorf("snapshot directory not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// Close is a no-op for the file store.
func (s *FileStore) Close() error {
	return nil
}

func (s *FileStore) path(siteKey string) string {
	return filepath.Join(s.dir, "seen_links_"+sanitizeKey(siteKey)+".json")
}

// sanitizeKey strips path separators and other characters unsafe in file
// names, leaving letters, digits, dot, underscore, and hyphen.
func sanitizeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func decodeSnapshot(data []byte) (domain.NoticeSet, error) {
	var notices []domain.Notice
	if err := json.Unmarshal(data, &notices); err == nil {
		return domain.NewNoticeSet(notices...), nil
	}

	// Legacy format: ["title::url", ...].
	var legacy []string
	if err := json.Unmarshal(data, &legacy); err != nil {
		return nil, fmt.Errorf("snapshot is neither notice objects nor legacy strings: %w", err)
	}

	set := make(domain.NoticeSet, len(legacy))
	for _, entry := range legacy {
		title, url, found := strings.Cut(entry, "::")
		if !found {
			// Entries without a separator were never valid; keep the title
			// so the notice is at least not re-announced.
			title, url = entry, ""
		}
		set.Add(domain.Notice{Title: title, URL: url})
	}
	return set, nil
}
