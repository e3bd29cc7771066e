package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	domain "github.com/donaldgifford/notice-tracker/pkg/types"
)

// Members of the snapshot set encode a notice as title and URL joined by a
// NUL byte, which cannot appear in extracted anchor text.
const redisMemberSep = "\x00"

const redisSaveChunk = 500

// RedisOptions configures the RedisStore connection.
type RedisOptions struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// RedisStore implements Store on a Redis set per site, plus a marker key
// that records the site as seeded even when its snapshot is empty.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}

	prefix := opts.KeyPrefix
	if prefix == "" {
		prefix = "ntt"
	}
	return &RedisStore{client: client, prefix: prefix}, nil
}

// NewRedisStoreWithClient wraps an existing client. Used in tests.
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "ntt"
	}
	return &RedisStore{client: client, prefix: keyPrefix}
}

// Load reads the site's snapshot set. Seeding state comes from the marker
// key, so an empty set still counts as initialized once saved.
func (s *RedisStore) Load(ctx context.Context, siteKey string) (domain.NoticeSet, bool, error) {
	seeded, err := s.client.Exists(ctx, s.markerKey(siteKey)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("checking seed marker for %s: %w", siteKey, err)
	}
	if seeded == 0 {
		return domain.NoticeSet{}, false, nil
	}

	members, err := s.client.SMembers(ctx, s.setKey(siteKey)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("loading snapshot for %s: %w", siteKey, err)
	}

	set := make(domain.NoticeSet, len(members))
	for _, m := range members {
		title, url, found := strings.Cut(m, redisMemberSep)
		if !found {
			continue
		}
		set.Add(domain.Notice{Title: title, URL: url})
	}
	return set, true, nil
}

// Save adds the snapshot's notices to the site's set and writes the seed
// marker. SADD ignores members already present, so the set only grows.
func (s *RedisStore) Save(ctx context.Context, siteKey string, set domain.NoticeSet) error {
	members := make([]any, 0, set.Len())
	for _, n := range set.Sorted() {
		members = append(members, n.Title+redisMemberSep+n.URL)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.markerKey(siteKey), "1", 0)
	for start := 0; start < len(members); start += redisSaveChunk {
		end := min(start+redisSaveChunk, len(members))
		pipe.SAdd(ctx, s.setKey(siteKey), members[start:end]...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("saving snapshot for %s: %w", siteKey, err)
	}
	return nil
}

// Ping verifies the Redis connection is alive.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close releases the Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) setKey(siteKey string) string {
	return s.prefix + ":seen:" + siteKey
}

func (s *RedisStore) markerKey(siteKey string) string {
	return s.prefix + ":init:" + siteKey
}
