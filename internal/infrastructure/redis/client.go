package redis

import (
	"github.com/go-redis/redis/v8"

	config "github.com/jobharvest/dbinit/configs"
)

// NewRedisClient creates a new Redis client. The connection is not verified
// here; the readiness probe owns that, since the server may not be up yet
// when the sequencer starts.
func NewRedisClient(cfg *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        cfg.Addr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
}
