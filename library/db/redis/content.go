package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/redis/go-redis/v9"
)

const (
	fieldVersion = "version"
	fieldContent = "content"
)

// ContentKey returns the cache key of one attachment's content
func ContentKey(id string) string {
	return KeyPrefixAttachmentContent + id
}

// GetContent loads cached content with the content version it was stored at,
// found is false on cache miss
func (db *DB) GetContent(ctx context.Context, id string) (content []byte, version int64, found bool, err error) {
	vals, err := db.client.HMGet(ctx, ContentKey(id), fieldVersion, fieldContent).Result()
	if err != nil {
		return nil, 0, false, errors.Wrapf(err, "get content %s", id)
	}
	if len(vals) != 2 || vals[0] == nil || vals[1] == nil {
		return nil, 0, false, nil
	}

	rawVersion, ok := vals[0].(string)
	if !ok {
		return nil, 0, false, errors.Errorf("unexpected version type %T for %s", vals[0], id)
	}
	rawContent, ok := vals[1].(string)
	if !ok {
		return nil, 0, false, errors.Errorf("unexpected content type %T for %s", vals[1], id)
	}
	if version, err = strconv.ParseInt(rawVersion, 10, 64); err != nil {
		return nil, 0, false, errors.Wrapf(err, "parse content version of %s", id)
	}

	return []byte(rawContent), version, true, nil
}

// SetContent caches content tagged with its version for ttl
func (db *DB) SetContent(ctx context.Context, id string, content []byte, version int64, ttl time.Duration) error {
	key := ContentKey(id)
	if _, err := db.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, fieldVersion, version, fieldContent, content)
		pipe.Expire(ctx, key, ttl)
		return nil
	}); err != nil {
		return errors.Wrapf(err, "set content %s", id)
	}

	return nil
}

// DelContent evicts cached content
func (db *DB) DelContent(ctx context.Context, id string) error {
	if err := db.client.Del(ctx, ContentKey(id)).Err(); err != nil {
		return errors.Wrapf(err, "del content %s", id)
	}

	return nil
}
