package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/askwhyharsh/silverlink/internal/storage"
	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
)

// Cache stores ranked listings so repeated page loads skip the sort.
type Cache interface {
	Get(ctx context.Context, category string, mode SortMode) ([]Record, bool, error)
	Put(ctx context.Context, category string, mode SortMode, records []Record) error
	Invalidate(ctx context.Context, category string) error
}

type redisCache struct {
	redis storage.RedisClient
	ttl   time.Duration
}

func NewRedisCache(redis storage.RedisClient, ttl time.Duration) Cache {
	return &redisCache{redis: redis, ttl: ttl}
}

func cacheKey(category string, mode SortMode) string {
	return fmt.Sprintf("ranking:%s:%s", category, mode)
}

func (c *redisCache) Get(ctx context.Context, category string, mode SortMode) ([]Record, bool, error) {
	data, err := c.redis.Get(ctx, cacheKey(category, mode))
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var records []Record
	if err := json.Unmarshal([]byte(data), &records); err != nil {
		return nil, false, fmt.Errorf("decode cached ranking: %w", err)
	}
	return records, true, nil
}

func (c *redisCache) Put(ctx context.Context, category string, mode SortMode, records []Record) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, cacheKey(category, mode), data, c.ttl)
}

func (c *redisCache) Invalidate(ctx context.Context, category string) error {
	keys := make([]string, 0, len(sortLabels))
	for _, mode := range SortModes() {
		keys = append(keys, cacheKey(category, mode))
	}
	return c.redis.Del(ctx, keys...)
}
