package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"tickerpulse/internal/adapters/config"
	"tickerpulse/pkg/errors"
)

// NewClient connects to Redis and verifies the connection
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to connect to redis at %s", cfg.Addr())
	}

	return client, nil
}
