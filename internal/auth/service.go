// Package auth registers accounts, logs members in and resolves bearer
// tokens to principals.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/askwhyharsh/silverlink/internal/observability"
	"github.com/askwhyharsh/silverlink/internal/profile"
	"github.com/askwhyharsh/silverlink/internal/ratelimit"
	"github.com/askwhyharsh/silverlink/internal/session"
	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
	"github.com/askwhyharsh/silverlink/pkg/logger"
	"github.com/askwhyharsh/silverlink/pkg/validator"
)

// Profiles is the part of the profile service registration needs.
type Profiles interface {
	Create(ctx context.Context, id, name, email string) (*profile.Profile, error)
	Get(ctx context.Context, id string) (*profile.Profile, error)
}

type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	Name            string
}

type LoginResult struct {
	Token     string           `json:"token"`
	ExpiresAt time.Time        `json:"expires_at"`
	Profile   *profile.Profile `json:"profile"`
}

type Service struct {
	accounts  AccountStore
	profiles  Profiles
	sessions  session.SessionService
	tokens    *TokenIssuer
	hasher    *Hasher
	limiter   ratelimit.RateLimiter
	validator validator.Validator
	logger    logger.Logger
	now       func() time.Time
}

type Deps struct {
	Accounts  AccountStore
	Profiles  Profiles
	Sessions  session.SessionService
	Tokens    *TokenIssuer
	Hasher    *Hasher
	Limiter   ratelimit.RateLimiter
	Validator validator.Validator
	Logger    logger.Logger
}

func NewService(d Deps) *Service {
	return &Service{
		accounts:  d.Accounts,
		profiles:  d.Profiles,
		sessions:  d.Sessions,
		tokens:    d.Tokens,
		hasher:    d.Hasher,
		limiter:   d.Limiter,
		validator: d.Validator,
		logger:    d.Logger,
		now:       time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account and its initial profile. The account is
// removed again if the profile cannot be created.
func (s *Service) Register(ctx context.Context, in RegisterInput, ip string) (p *profile.Profile, err error) {
	defer func() { observability.RecordAuth("register", err) }()

	email := normalizeEmail(in.Email)
	if err := s.validator.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := s.validator.ValidatePassword(in.Password); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, apperrors.ErrPasswordMismatch
	}
	if err := s.validator.ValidateName(strings.TrimSpace(in.Name)); err != nil {
		return nil, err
	}

	allowed, err := s.limiter.AllowRegistration(ctx, ip)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	if !allowed {
		return nil, apperrors.TooManyRequests(apperrors.ErrRateLimitExceeded)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := &Account{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}

	p, err = s.profiles.Create(ctx, account.ID, in.Name, email)
	if err != nil {
		if delErr := s.accounts.Delete(ctx, account.ID); delErr != nil {
			s.logger.Error("Failed to roll back account", "account_id", account.ID, "error", delErr)
		}
		return nil, fmt.Errorf("create profile: %w", err)
	}

	s.logger.Info("Account registered", "account_id", account.ID)
	return p, nil
}

// Login checks the password and opens a session.
func (s *Service) Login(ctx context.Context, email, password, ip string) (res *LoginResult, err error) {
	defer func() { observability.RecordAuth("login", err) }()

	email = normalizeEmail(email)

	allowed, err := s.limiter.AllowLogin(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageUnavailable, err)
	}
	if !allowed {
		return nil, apperrors.TooManyRequests(apperrors.ErrRateLimitExceeded)
	}

	account, err := s.accounts.GetByEmail(ctx, email)
	if errors.Is(err, apperrors.ErrAccountNotFound) {
		s.hasher.Burn(password)
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		s.logger.Error("Unreadable password hash", "account_id", account.ID, "error", err)
		return nil, apperrors.ErrInvalidCredentials
	}
	if !ok {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.limiter.ResetLogin(ctx, email); err != nil {
		s.logger.Warn("Failed to reset login attempts", "error", err)
	}

	sess, err := s.sessions.Create(ctx, account.ID, account.Email, ip)
	if err != nil {
		return nil, err
	}

	token, err := s.tokens.Sign(account.ID, sess.ID, sess.ExpiresAt)
	if err != nil {
		return nil, err
	}

	p, err := s.profiles.Get(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Member logged in", "account_id", account.ID, "session_id", sess.ID)
	return &LoginResult{Token: token, ExpiresAt: sess.ExpiresAt, Profile: p}, nil
}

// Authenticate resolves a bearer token. The session behind it must still
// exist, so logging out revokes the token.
func (s *Service) Authenticate(ctx context.Context, token string) (*Principal, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	sess, err := s.sessions.Validate(ctx, claims.SessionID)
	if errors.Is(err, apperrors.ErrSessionNotFound) {
		return nil, apperrors.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if sess.AccountID != claims.Subject {
		return nil, apperrors.ErrInvalidToken
	}

	return &Principal{
		AccountID: sess.AccountID,
		SessionID: sess.ID,
		Email:     sess.Email,
	}, nil
}

// Logout ends the principal's session, or all of the account's sessions
// when everywhere is set.
func (s *Service) Logout(ctx context.Context, p *Principal, everywhere bool) (err error) {
	defer func() { observability.RecordAuth("logout", err) }()

	if everywhere {
		err = s.sessions.DeleteAll(ctx, p.AccountID)
	} else {
		err = s.sessions.Delete(ctx, p.SessionID)
	}
	if err != nil {
		return err
	}

	s.logger.Info("Member logged out", "account_id", p.AccountID, "everywhere", everywhere)
	return nil
}
