package probe

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/jobharvest/dbinit/internal/core/ports"
)

// redisProbe wraps a redis client for readiness checks.
type redisProbe struct {
	client *redis.Client
}

// NewRedisProbe creates a readiness probe backed by a Redis PING.
func NewRedisProbe(client *redis.Client) ports.ReadinessProbe {
	return &redisProbe{client: client}
}

func (p *redisProbe) Name() string { return "redis" }

func (p *redisProbe) Check(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis not reachable: %w", err)
	}
	return nil
}
