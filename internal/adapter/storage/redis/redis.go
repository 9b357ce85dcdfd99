package redis

import (
	"context"
	"fmt"
	"time"

	"momo-bridge/config"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const connectTimeout = 5 * time.Second

// NewClient connects to the Redis instance that holds wallet sessions, rate
// limit windows and the transfer replay cache. The first ping is bounded by
// connectTimeout so startup fails fast on a dead address.
func NewClient(ctx context.Context, cfg config.RedisConfig, log zerolog.Logger) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: connectTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", cfg.Addr(), err)
	}

	log.Info().
		Str("addr", cfg.Addr()).
		Int("db", cfg.DB).
		Strs("prefixes", []string{sessionPrefix, ratelimitPrefix, idempotencyPrefix}).
		Msg("redis ready")

	return client, nil
}
