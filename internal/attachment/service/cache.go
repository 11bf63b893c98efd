package service

import (
	"context"
	"time"

	errors "github.com/Laisky/errors/v2"
	"github.com/google/uuid"

	rediscli "github.com/Laisky/attachment-service/library/db/redis"
)

// DefaultCacheTTL is used when a cache is built without a positive ttl.
const DefaultCacheTTL = 10 * time.Minute

// CachedContent is content tagged with the content version it was read at.
type CachedContent struct {
	Version int64
	Content []byte
}

// ContentCache keeps recently read content out of the database.
//
// Entries are only served when their Version equals the committed
// content version, so a stale or unevictable entry is never returned.
type ContentCache interface {
	Get(ctx context.Context, id uuid.UUID) (CachedContent, bool, error)
	Set(ctx context.Context, id uuid.UUID, entry CachedContent) error
	Evict(ctx context.Context, id uuid.UUID) error
}

// RedisContentCache stores content in redis with a fixed ttl.
type RedisContentCache struct {
	db  *rediscli.DB
	ttl time.Duration
}

var _ ContentCache = (*RedisContentCache)(nil)

// NewRedisContentCache constructs a redis-backed content cache.
func NewRedisContentCache(db *rediscli.DB, ttl time.Duration) (*RedisContentCache, error) {
	if db == nil {
		return nil, errors.New("redis db is required")
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	return &RedisContentCache{db: db, ttl: ttl}, nil
}

// Get loads a cached entry.
func (c *RedisContentCache) Get(ctx context.Context, id uuid.UUID) (CachedContent, bool, error) {
	content, version, found, err := c.db.GetContent(ctx, id.String())
	if err != nil || !found {
		return CachedContent{}, false, err
	}

	return CachedContent{Version: version, Content: content}, true, nil
}

// Set caches an entry for the configured ttl.
func (c *RedisContentCache) Set(ctx context.Context, id uuid.UUID, entry CachedContent) error {
	return c.db.SetContent(ctx, id.String(), entry.Content, entry.Version, c.ttl)
}

// Evict drops cached content.
func (c *RedisContentCache) Evict(ctx context.Context, id uuid.UUID) error {
	return c.db.DelContent(ctx, id.String())
}
