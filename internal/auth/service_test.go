package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"

	"github.com/askwhyharsh/silverlink/internal/catalog"
	"github.com/askwhyharsh/silverlink/internal/config"
	"github.com/askwhyharsh/silverlink/internal/profile"
	"github.com/askwhyharsh/silverlink/internal/ratelimit"
	"github.com/askwhyharsh/silverlink/internal/session"
	"github.com/askwhyharsh/silverlink/internal/storage"
	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
	"github.com/askwhyharsh/silverlink/pkg/logger"
	"github.com/askwhyharsh/silverlink/pkg/validator"
)

type failingProfiles struct{}

func (failingProfiles) Create(ctx context.Context, id, name, email string) (*profile.Profile, error) {
	return nil, errors.New("profile store down")
}

func (failingProfiles) Get(ctx context.Context, id string) (*profile.Profile, error) {
	return nil, apperrors.ErrProfileNotFound
}

type AuthSuite struct {
	suite.Suite
	ctx      context.Context
	db       *storage.DB
	deps     Deps
	service  *Service
	sessions *session.Service
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) SetupTest() {
	s.ctx = context.Background()

	db, err := storage.OpenSQL(config.DatabaseConfig{Driver: storage.DriverSQLite, DSN: ":memory:"})
	s.Require().NoError(err)
	s.db = db

	seed, err := catalog.LoadSeed("")
	s.Require().NoError(err)

	redis := storage.NewMemoryClient()
	v := validator.NewValidator()
	log := logger.NewNop()

	s.sessions = session.NewService(redis, time.Hour)
	s.deps = Deps{
		Accounts: NewSQLAccountStore(db),
		Profiles: profile.NewService(profile.NewSQLStore(db), catalog.NewMemoryProvider(seed), v, log),
		Sessions: s.sessions,
		Tokens:   NewTokenIssuer("test-secret", "silverlink"),
		Hasher:   NewHasher(4096),
		Limiter: ratelimit.NewLimiter(redis, config.RateLimitConfig{
			RequestsPerMinute:    100,
			LoginAttemptsPerMin:  3,
			RegistrationsPerHour: 5,
		}),
		Validator: v,
		Logger:    log,
	}
	s.service = NewService(s.deps)
}

func (s *AuthSuite) TearDownTest() {
	s.db.Close()
}

func (s *AuthSuite) register(email string) *profile.Profile {
	p, err := s.service.Register(s.ctx, RegisterInput{
		Email:           email,
		Password:        "password123",
		ConfirmPassword: "password123",
		Name:            "김영희",
	}, "10.0.0.1")
	s.Require().NoError(err)
	return p
}

func (s *AuthSuite) TestRegisterCreatesProfile() {
	p := s.register("  Kim@Example.com ")
	s.Equal("kim@example.com", p.Email)
	s.Equal("김영희", p.Name)
	s.Empty(p.Interests)
	s.NotEmpty(p.ProfileImage)

	acc, err := s.deps.Accounts.GetByEmail(s.ctx, "kim@example.com")
	s.Require().NoError(err)
	s.Equal(p.ID, acc.ID)
	s.NotContains(acc.PasswordHash, "password123")
}

func (s *AuthSuite) TestRegisterValidation() {
	tests := []struct {
		name string
		in   RegisterInput
		want error
	}{
		{"bad email", RegisterInput{Email: "nope", Password: "password123", ConfirmPassword: "password123", Name: "a"}, apperrors.ErrInvalidEmail},
		{"short password", RegisterInput{Email: "a@b.co", Password: "short", ConfirmPassword: "short", Name: "a"}, apperrors.ErrInvalidPassword},
		{"mismatch", RegisterInput{Email: "a@b.co", Password: "password123", ConfirmPassword: "password124", Name: "a"}, apperrors.ErrPasswordMismatch},
		{"blank name", RegisterInput{Email: "a@b.co", Password: "password123", ConfirmPassword: "password123", Name: " "}, apperrors.ErrInvalidName},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.service.Register(s.ctx, tt.in, "10.0.0.1")
			s.ErrorIs(err, tt.want)
		})
	}
}

func (s *AuthSuite) TestRegisterDuplicateEmail() {
	s.register("kim@example.com")

	_, err := s.service.Register(s.ctx, RegisterInput{
		Email: "KIM@example.com", Password: "password123", ConfirmPassword: "password123", Name: "다른 김영희",
	}, "10.0.0.2")
	s.ErrorIs(err, apperrors.ErrEmailTaken)
}

func (s *AuthSuite) TestRegisterRollsBackAccountWhenProfileFails() {
	deps := s.deps
	deps.Profiles = failingProfiles{}
	svc := NewService(deps)

	_, err := svc.Register(s.ctx, RegisterInput{
		Email: "kim@example.com", Password: "password123", ConfirmPassword: "password123", Name: "김영희",
	}, "10.0.0.1")
	s.Require().Error(err)

	_, err = s.deps.Accounts.GetByEmail(s.ctx, "kim@example.com")
	s.ErrorIs(err, apperrors.ErrAccountNotFound)

	s.register("kim@example.com")
}

func (s *AuthSuite) TestRegisterRateLimited() {
	var err error
	for i := 0; i < 6; i++ {
		_, err = s.service.Register(s.ctx, RegisterInput{
			Email: "user" + string(rune('a'+i)) + "@example.com", Password: "password123", ConfirmPassword: "password123", Name: "회원",
		}, "10.0.0.9")
	}

	var appErr *apperrors.AppError
	s.Require().ErrorAs(err, &appErr)
	s.Equal(http.StatusTooManyRequests, appErr.StatusCode)
	s.ErrorIs(err, apperrors.ErrRateLimitExceeded)
}

func (s *AuthSuite) TestLoginAuthenticateLogout() {
	registered := s.register("kim@example.com")

	res, err := s.service.Login(s.ctx, "KIM@example.com", "password123", "10.0.0.1")
	s.Require().NoError(err)
	s.NotEmpty(res.Token)
	s.Equal(registered.ID, res.Profile.ID)

	p, err := s.service.Authenticate(s.ctx, res.Token)
	s.Require().NoError(err)
	s.Equal(registered.ID, p.AccountID)
	s.Equal("kim@example.com", p.Email)

	s.Require().NoError(s.service.Logout(s.ctx, p, false))

	_, err = s.service.Authenticate(s.ctx, res.Token)
	s.ErrorIs(err, apperrors.ErrInvalidToken)
}

func (s *AuthSuite) TestLogoutEverywhere() {
	s.register("kim@example.com")

	first, err := s.service.Login(s.ctx, "kim@example.com", "password123", "")
	s.Require().NoError(err)
	second, err := s.service.Login(s.ctx, "kim@example.com", "password123", "")
	s.Require().NoError(err)

	p, err := s.service.Authenticate(s.ctx, first.Token)
	s.Require().NoError(err)
	s.Require().NoError(s.service.Logout(s.ctx, p, true))

	_, err = s.service.Authenticate(s.ctx, second.Token)
	s.ErrorIs(err, apperrors.ErrInvalidToken)
}

func (s *AuthSuite) TestLoginFailures() {
	s.register("kim@example.com")

	_, err := s.service.Login(s.ctx, "kim@example.com", "wrong-password", "")
	s.ErrorIs(err, apperrors.ErrInvalidCredentials)

	_, err = s.service.Login(s.ctx, "nobody@example.com", "password123", "")
	s.ErrorIs(err, apperrors.ErrInvalidCredentials)
}

func (s *AuthSuite) TestLoginRateLimited() {
	s.register("kim@example.com")

	for i := 0; i < 3; i++ {
		_, err := s.service.Login(s.ctx, "kim@example.com", "wrong-password", "")
		s.Require().ErrorIs(err, apperrors.ErrInvalidCredentials)
	}

	_, err := s.service.Login(s.ctx, "kim@example.com", "password123", "")
	s.ErrorIs(err, apperrors.ErrRateLimitExceeded)
}

func (s *AuthSuite) TestAuthenticateRejectsForeignSession() {
	a := s.register("kim@example.com")
	s.register("park@example.com")

	res, err := s.service.Login(s.ctx, "park@example.com", "password123", "")
	s.Require().NoError(err)
	claims, err := s.deps.Tokens.Parse(res.Token)
	s.Require().NoError(err)

	forged, err := s.deps.Tokens.Sign(a.ID, claims.SessionID, time.Now().Add(time.Hour))
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx, forged)
	s.ErrorIs(err, apperrors.ErrInvalidToken)
}

func (s *AuthSuite) TestRequireAuthMiddleware() {
	gin.SetMode(gin.TestMode)
	s.register("kim@example.com")
	res, err := s.service.Login(s.ctx, "kim@example.com", "password123", "")
	s.Require().NoError(err)

	r := gin.New()
	r.GET("/me", RequireAuth(s.service, s.deps.Logger), func(c *gin.Context) {
		p, ok := FromContext(c.Request.Context())
		s.Require().True(ok)
		c.String(http.StatusOK, p.Email)
	})

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer abc", http.StatusUnauthorized},
		{"valid", "Bearer " + res.Token, http.StatusOK},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			s.Equal(tt.code, rec.Code)
			if tt.code == http.StatusOK {
				s.Equal("kim@example.com", rec.Body.String())
			} else {
				s.JSONEq(`{"success":false,"error":{"message":"authentication required","code":"UNAUTHORIZED"}}`, rec.Body.String())
			}
		})
	}
}

// unreachableSessions stores sessions but cannot read them back.
type unreachableSessions struct {
	storage.RedisClient
}

func (unreachableSessions) Get(ctx context.Context, key string) (string, error) {
	return "", fmt.Errorf("%w: dial tcp: connection refused", apperrors.ErrStorageUnavailable)
}

func (s *AuthSuite) TestRequireAuthReportsSessionStoreOutage() {
	gin.SetMode(gin.TestMode)

	deps := s.deps
	deps.Sessions = session.NewService(unreachableSessions{storage.NewMemoryClient()}, time.Hour)
	svc := NewService(deps)

	s.register("kim@example.com")
	res, err := svc.Login(s.ctx, "kim@example.com", "password123", "")
	s.Require().NoError(err)

	_, err = svc.Authenticate(s.ctx, res.Token)
	s.ErrorIs(err, apperrors.ErrStorageUnavailable)

	r := gin.New()
	r.GET("/me", RequireAuth(svc, s.deps.Logger), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+res.Token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	s.Equal(http.StatusServiceUnavailable, rec.Code)
	s.JSONEq(`{"success":false,"error":{"message":"Service temporarily unavailable","code":"STORAGE_UNAVAILABLE"}}`, rec.Body.String())
}

func (s *AuthSuite) TestPrincipalContext() {
	_, ok := FromContext(s.ctx)
	s.False(ok)

	ctx := WithPrincipal(s.ctx, &Principal{AccountID: "acc-1"})
	p, ok := FromContext(ctx)
	s.True(ok)
	s.Equal("acc-1", p.AccountID)
}
