package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/askwhyharsh/silverlink/internal/config"
	"github.com/askwhyharsh/silverlink/internal/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RateLimiter defines the contract for enforcing and managing rate limits.
type RateLimiter interface {
	// AllowLogin checks if another login attempt for email is allowed
	// within the current minute.
	AllowLogin(ctx context.Context, email string) (bool, error)

	// AllowRegistration checks if an IP can register another account
	// this hour.
	AllowRegistration(ctx context.Context, ip string) (bool, error)

	// AllowIPRequest checks if an IP can make a request.
	AllowIPRequest(ctx context.Context, ip string) (bool, error)

	// ResetLogin clears the login attempts recorded for email.
	ResetLogin(ctx context.Context, email string) error
}

type Limiter struct {
	redis  storage.RedisClient
	config config.RateLimitConfig
	now    func() time.Time
}

var _ RateLimiter = (*Limiter)(nil)

func NewLimiter(redisClient storage.RedisClient, config config.RateLimitConfig) *Limiter {
	return &Limiter{
		redis:  redisClient,
		config: config,
		now:    time.Now,
	}
}

func loginKey(email string) string {
	return fmt.Sprintf("ratelimit:login:%s", strings.ToLower(email))
}

func (l *Limiter) AllowLogin(ctx context.Context, email string) (bool, error) {
	return l.checkSlidingWindow(ctx, loginKey(email), l.config.LoginAttemptsPerMin, time.Minute)
}

func (l *Limiter) ResetLogin(ctx context.Context, email string) error {
	return l.redis.Del(ctx, loginKey(email))
}

// AllowRegistration uses a fixed hourly window starting at the first
// registration from ip.
func (l *Limiter) AllowRegistration(ctx context.Context, ip string) (bool, error) {
	key := fmt.Sprintf("ratelimit:ip:%s:registrations", ip)

	count, err := l.redis.Incr(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to check registration rate limit: %w", err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, time.Hour); err != nil {
			return false, fmt.Errorf("failed to set registration window: %w", err)
		}
	}

	return count <= int64(l.config.RegistrationsPerHour), nil
}

func (l *Limiter) AllowIPRequest(ctx context.Context, ip string) (bool, error) {
	key := fmt.Sprintf("ratelimit:ip:%s:requests", ip)
	return l.checkSlidingWindow(ctx, key, l.config.RequestsPerMinute, time.Minute)
}

// checkSlidingWindow implements a sliding window rate limiter using sorted
// sets scored by unix milliseconds.
func (l *Limiter) checkSlidingWindow(ctx context.Context, key string, maxCount int, window time.Duration) (bool, error) {
	now := l.now().UnixMilli()
	windowStart := now - window.Milliseconds()

	if err := l.redis.ZRemRangeByScore(ctx, key, "-inf", fmt.Sprintf("%d", windowStart)); err != nil {
		return false, fmt.Errorf("failed to clean old entries: %w", err)
	}

	count, err := l.redis.ZCard(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to count entries: %w", err)
	}

	if count >= int64(maxCount) {
		return false, nil
	}

	if err := l.redis.ZAdd(ctx, key, &redis.Z{
		Score:  float64(now),
		Member: uuid.NewString(),
	}); err != nil {
		return false, fmt.Errorf("failed to add entry: %w", err)
	}

	if err := l.redis.Expire(ctx, key, window); err != nil {
		return false, fmt.Errorf("failed to set window expiry: %w", err)
	}

	return true, nil
}
