package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/askwhyharsh/silverlink/internal/storage"
	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// activeAccountsKey lists accounts that have at least one indexed session.
const activeAccountsKey = "sessions:accounts"

type SessionService interface {
	Create(ctx context.Context, accountID, email, ipAddress string) (*Session, error)
	Get(ctx context.Context, sessionID string) (*Session, error)
	Validate(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteAll(ctx context.Context, accountID string) error
	Exists(ctx context.Context, sessionID string) (bool, error)
}

type Service struct {
	redis storage.RedisClient
	ttl   time.Duration
	now   func() time.Time
}

type Session struct {
	ID        string    `json:"id"`
	AccountID string    `json:"account_id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	LastSeen  time.Time `json:"last_seen"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address"`
}

var _ SessionService = (*Service)(nil)

func NewService(redisClient storage.RedisClient, ttl time.Duration) *Service {
	return &Service{
		redis: redisClient,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (s *Service) TTL() time.Duration {
	return s.ttl
}

func (s *Service) Create(ctx context.Context, accountID, email, ipAddress string) (*Session, error) {
	now := s.now()
	session := &Session{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Email:     email,
		CreatedAt: now,
		LastSeen:  now,
		ExpiresAt: now.Add(s.ttl),
		IPAddress: ipAddress,
	}

	if err := s.save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	if err := s.redis.SAdd(ctx, accountSessionsKey(accountID), session.ID); err != nil {
		return nil, fmt.Errorf("failed to index session: %w", err)
	}
	if err := s.redis.SAdd(ctx, activeAccountsKey, accountID); err != nil {
		return nil, fmt.Errorf("failed to index account: %w", err)
	}

	return session, nil
}

func (s *Service) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.redis.Get(ctx, sessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &session, nil
}

// Validate loads a live session and records the access. The session's
// expiry is not extended.
func (s *Service) Validate(ctx context.Context, sessionID string) (*Session, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session.LastSeen = s.now()
	if err := s.save(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to update last seen: %w", err)
	}

	return session, nil
}

func (s *Service) Delete(ctx context.Context, sessionID string) error {
	session, err := s.Get(ctx, sessionID)
	if errors.Is(err, apperrors.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.redis.Del(ctx, sessionKey(sessionID)); err != nil {
		return err
	}
	return s.redis.SRem(ctx, accountSessionsKey(session.AccountID), sessionID)
}

// DeleteAll ends every session of the account.
func (s *Service) DeleteAll(ctx context.Context, accountID string) error {
	ids, err := s.redis.SMembers(ctx, accountSessionsKey(accountID))
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, accountSessionsKey(accountID))

	if err := s.redis.Del(ctx, keys...); err != nil {
		return err
	}
	return s.redis.SRem(ctx, activeAccountsKey, accountID)
}

func (s *Service) Exists(ctx context.Context, sessionID string) (bool, error) {
	count, err := s.redis.Exists(ctx, sessionKey(sessionID))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// save writes the session with whatever TTL remains until ExpiresAt.
func (s *Service) save(ctx context.Context, session *Session) error {
	remaining := session.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return apperrors.ErrSessionNotFound
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	return s.redis.Set(ctx, sessionKey(session.ID), data, remaining)
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func accountSessionsKey(accountID string) string {
	return fmt.Sprintf("account-sessions:%s", accountID)
}
