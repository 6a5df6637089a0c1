package db

import (
	"context"
	"fmt"
	"time"

	"backend-carbonwallet/internal/config"

	"github.com/redis/go-redis/v9"
)

var pingRedisFn = func(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// ConnectRedis returns nil, nil when no address is configured. Live sessions
// then fall back to Postgres snapshots and the stream hub stays process-local.
func ConnectRedis(cfg config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DialTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pingRedisFn(ctx, client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}
	return client, nil
}
