package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
)

// pinger is the slice of the Redis client the health check needs.
type pinger interface {
	Ping(ctx context.Context) *goredis.StatusCmd
}

// HealthCheck reports whether the session and replay store answers.
type HealthCheck struct {
	client pinger
}

func NewHealthCheck(client pinger) *HealthCheck {
	return &HealthCheck{client: client}
}

func (h *HealthCheck) Ping(ctx context.Context) error {
	if err := h.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("session store unreachable: %w", err)
	}
	return nil
}

func (h *HealthCheck) Name() string {
	return "redis"
}
