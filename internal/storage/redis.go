package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/askwhyharsh/silverlink/internal/config"
	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
)

// RedisClient is the subset of redis used for sessions, rate limits and
// the ranking cache. Get returns redis.Nil for a missing key; transport
// failures wrap ErrStorageUnavailable.
type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (int64, error)
	Incr(ctx context.Context, key string) (int64, error)
	Expire(ctx context.Context, key string, expiration time.Duration) error
	ZAdd(ctx context.Context, key string, members ...*redis.Z) error
	ZRemRangeByScore(ctx context.Context, key, min, max string) error
	ZCard(ctx context.Context, key string) (int64, error)
	SAdd(ctx context.Context, key string, members ...interface{}) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SRem(ctx context.Context, key string, members ...interface{}) error
	Ping(ctx context.Context) error
	Close() error
}

// redisClient namespaces every key under prefix so several deployments
// can share one server.
type redisClient struct {
	client *redis.Client
	prefix string
}

func NewRedisClient(cfg *config.Config) (RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, unavailable(err)
	}

	return &redisClient{client: client, prefix: cfg.Redis.KeyPrefix}, nil
}

// unavailable passes redis.Nil through and marks everything else as a
// storage outage.
func unavailable(err error) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return err
	}
	return fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
}

func (r *redisClient) key(k string) string {
	return r.prefix + k
}

func (r *redisClient) keys(ks []string) []string {
	out := make([]string, len(ks))
	for i, k := range ks {
		out[i] = r.key(k)
	}
	return out
}

func (r *redisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return unavailable(r.client.Set(ctx, r.key(key), value, expiration).Err())
}

func (r *redisClient) Get(ctx context.Context, key string) (string, error) {
	v, err := r.client.Get(ctx, r.key(key)).Result()
	return v, unavailable(err)
}

func (r *redisClient) Del(ctx context.Context, keys ...string) error {
	return unavailable(r.client.Del(ctx, r.keys(keys)...).Err())
}

func (r *redisClient) Exists(ctx context.Context, keys ...string) (int64, error) {
	n, err := r.client.Exists(ctx, r.keys(keys)...).Result()
	return n, unavailable(err)
}

func (r *redisClient) Incr(ctx context.Context, key string) (int64, error) {
	n, err := r.client.Incr(ctx, r.key(key)).Result()
	return n, unavailable(err)
}

func (r *redisClient) Expire(ctx context.Context, key string, expiration time.Duration) error {
	return unavailable(r.client.Expire(ctx, r.key(key), expiration).Err())
}

func (r *redisClient) ZAdd(ctx context.Context, key string, members ...*redis.Z) error {
	values := make([]redis.Z, len(members))
	for i, m := range members {
		values[i] = *m
	}
	return unavailable(r.client.ZAdd(ctx, r.key(key), values...).Err())
}

func (r *redisClient) ZRemRangeByScore(ctx context.Context, key, min, max string) error {
	return unavailable(r.client.ZRemRangeByScore(ctx, r.key(key), min, max).Err())
}

func (r *redisClient) ZCard(ctx context.Context, key string) (int64, error) {
	n, err := r.client.ZCard(ctx, r.key(key)).Result()
	return n, unavailable(err)
}

func (r *redisClient) SAdd(ctx context.Context, key string, members ...interface{}) error {
	return unavailable(r.client.SAdd(ctx, r.key(key), members...).Err())
}

func (r *redisClient) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.SMembers(ctx, r.key(key)).Result()
	return members, unavailable(err)
}

func (r *redisClient) SRem(ctx context.Context, key string, members ...interface{}) error {
	return unavailable(r.client.SRem(ctx, r.key(key), members...).Err())
}

func (r *redisClient) Ping(ctx context.Context) error {
	return unavailable(r.client.Ping(ctx).Err())
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
