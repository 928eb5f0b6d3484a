// Package quota counts free-tier publishes per device.
package quota

import (
	"context"
	"fmt"

	"valentine-pages/internal/repository"

	"github.com/redis/go-redis/v9"
)

// Counter hands out per-device publish slots. Reserve is atomic, so
// concurrent callers never push a device past its limit; a reserved slot
// whose publish fails is handed back with Release.
type Counter interface {
	Reserve(ctx context.Context, deviceID string, limit int64) (bool, error)
	Release(ctx context.Context, deviceID string) error
}

type storeCounter struct {
	repo repository.DeviceCountRepository
}

func NewStoreCounter(repo repository.DeviceCountRepository) Counter {
	return &storeCounter{repo: repo}
}

func (c *storeCounter) Reserve(ctx context.Context, deviceID string, limit int64) (bool, error) {
	ok, err := c.repo.Reserve(ctx, deviceID, limit)
	if err != nil {
		return false, fmt.Errorf("reserve device publish: %w", err)
	}
	return ok, nil
}

func (c *storeCounter) Release(ctx context.Context, deviceID string) error {
	if err := c.repo.Release(ctx, deviceID); err != nil {
		return fmt.Errorf("release device publish: %w", err)
	}
	return nil
}

type redisCounter struct {
	rdb *redis.Client
}

func NewRedisCounter(rdb *redis.Client) Counter {
	return &redisCounter{rdb: rdb}
}

func deviceKey(deviceID string) string {
	return "publish:device:" + deviceID
}

func (c *redisCounter) Reserve(ctx context.Context, deviceID string, limit int64) (bool, error) {
	n, err := c.rdb.Incr(ctx, deviceKey(deviceID)).Result()
	if err != nil {
		return false, fmt.Errorf("incr device count: %w", err)
	}
	if n <= limit {
		return true, nil
	}

	if err := c.rdb.Decr(ctx, deviceKey(deviceID)).Err(); err != nil {
		return false, fmt.Errorf("decr device count: %w", err)
	}
	return false, nil
}

func (c *redisCounter) Release(ctx context.Context, deviceID string) error {
	if err := c.rdb.Decr(ctx, deviceKey(deviceID)).Err(); err != nil {
		return fmt.Errorf("decr device count: %w", err)
	}
	return nil
}
