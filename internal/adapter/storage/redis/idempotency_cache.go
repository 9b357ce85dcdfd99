package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Key namespaces of the bridge's Redis data.
const (
	sessionPrefix     = "session:"
	ratelimitPrefix   = "ratelimit:"
	idempotencyPrefix = "idempotency:"
)

// IdempotencyCache replays finished transfers. Values are the JSON of a
// CONFIRMED or FAILED ledger record under the user-scoped idempotency key;
// the ledger stays the source of truth when an entry is missing.
type IdempotencyCache struct {
	client *goredis.Client
	prefix string
}

func NewIdempotencyCache(client *goredis.Client) *IdempotencyCache {
	return &IdempotencyCache{client: client, prefix: idempotencyPrefix}
}

// Get returns the cached record, or nil when the key is unknown or expired.
func (c *IdempotencyCache) Get(ctx context.Context, key string) ([]byte, error) {
	record, err := c.client.Get(ctx, c.prefix+key).Bytes()
	switch {
	case errors.Is(err, goredis.Nil):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("redis idempotency get %s: %w", key, err)
	}
	return record, nil
}

// Set caches a record. Entries must expire; a ttl <= 0 is rejected.
func (c *IdempotencyCache) Set(ctx context.Context, key string, record []byte, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("redis idempotency set %s: ttl must be positive, got %s", key, ttl)
	}
	if err := c.client.Set(ctx, c.prefix+key, record, ttl).Err(); err != nil {
		return fmt.Errorf("redis idempotency set %s: %w", key, err)
	}
	return nil
}
