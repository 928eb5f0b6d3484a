package client

import (
	"context"
	"fmt"
	"time"

	"valentine-pages/internal/config"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// InitRedisClient returns nil clients when no address is configured.
func InitRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, *redislock.Client, error) {
	if cfg.Address == "" {
		return nil, nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: 100,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.Address, err)
	}

	return rdb, redislock.New(rdb), nil
}
