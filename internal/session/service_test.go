package session

import (
	"context"
	"testing"
	"time"

	"github.com/askwhyharsh/silverlink/internal/storage"
	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
	"github.com/askwhyharsh/silverlink/pkg/logger"
	"github.com/stretchr/testify/suite"
)

type SessionSuite struct {
	suite.Suite
	ctx     context.Context
	clock   time.Time
	redis   *storage.MemoryClient
	service *Service
}

func (s *SessionSuite) now() time.Time { return s.clock }

func (s *SessionSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC)
	s.redis = storage.NewMemoryClientWithClock(s.now)
	s.service = NewService(s.redis, time.Hour)
	s.service.now = s.now
}

func TestSessionSuite(t *testing.T) {
	suite.Run(t, new(SessionSuite))
}

func (s *SessionSuite) TestCreateAndGet() {
	created, err := s.service.Create(s.ctx, "acc-1", "kim@example.com", "10.0.0.1")
	s.Require().NoError(err)
	s.NotEmpty(created.ID)
	s.Equal(s.clock.Add(time.Hour), created.ExpiresAt)

	got, err := s.service.Get(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("acc-1", got.AccountID)
	s.Equal("kim@example.com", got.Email)
	s.Equal("10.0.0.1", got.IPAddress)

	ids, err := s.redis.SMembers(s.ctx, accountSessionsKey("acc-1"))
	s.Require().NoError(err)
	s.Equal([]string{created.ID}, ids)
}

func (s *SessionSuite) TestGetMissing() {
	_, err := s.service.Get(s.ctx, "nope")
	s.ErrorIs(err, apperrors.ErrSessionNotFound)
}

func (s *SessionSuite) TestValidateRefreshesLastSeenWithoutExtending() {
	created, err := s.service.Create(s.ctx, "acc-1", "kim@example.com", "")
	s.Require().NoError(err)

	s.clock = s.clock.Add(30 * time.Minute)
	got, err := s.service.Validate(s.ctx, created.ID)
	s.Require().NoError(err)
	s.True(s.clock.Equal(got.LastSeen))
	s.True(created.ExpiresAt.Equal(got.ExpiresAt))

	s.clock = s.clock.Add(31 * time.Minute)
	_, err = s.service.Validate(s.ctx, created.ID)
	s.ErrorIs(err, apperrors.ErrSessionNotFound)
}

func (s *SessionSuite) TestDelete() {
	created, err := s.service.Create(s.ctx, "acc-1", "kim@example.com", "")
	s.Require().NoError(err)

	s.Require().NoError(s.service.Delete(s.ctx, created.ID))
	ok, err := s.service.Exists(s.ctx, created.ID)
	s.Require().NoError(err)
	s.False(ok)

	ids, err := s.redis.SMembers(s.ctx, accountSessionsKey("acc-1"))
	s.Require().NoError(err)
	s.Empty(ids)

	s.NoError(s.service.Delete(s.ctx, created.ID), "deleting twice is a no-op")
}

func (s *SessionSuite) TestDeleteAll() {
	a, err := s.service.Create(s.ctx, "acc-1", "kim@example.com", "")
	s.Require().NoError(err)
	b, err := s.service.Create(s.ctx, "acc-1", "kim@example.com", "")
	s.Require().NoError(err)
	other, err := s.service.Create(s.ctx, "acc-2", "park@example.com", "")
	s.Require().NoError(err)

	s.Require().NoError(s.service.DeleteAll(s.ctx, "acc-1"))

	for _, id := range []string{a.ID, b.ID} {
		ok, err := s.service.Exists(s.ctx, id)
		s.Require().NoError(err)
		s.False(ok)
	}
	ok, err := s.service.Exists(s.ctx, other.ID)
	s.Require().NoError(err)
	s.True(ok)
}

func (s *SessionSuite) TestSweepPrunesExpiredIndexEntries() {
	old, err := s.service.Create(s.ctx, "acc-1", "kim@example.com", "")
	s.Require().NoError(err)

	s.clock = s.clock.Add(45 * time.Minute)
	fresh, err := s.service.Create(s.ctx, "acc-1", "kim@example.com", "")
	s.Require().NoError(err)
	_, err = s.service.Create(s.ctx, "acc-2", "park@example.com", "")
	s.Require().NoError(err)

	s.clock = s.clock.Add(30 * time.Minute)
	m := NewManager(s.service, time.Minute, logger.NewNop())

	removed, err := m.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, removed)

	ids, err := s.redis.SMembers(s.ctx, accountSessionsKey("acc-1"))
	s.Require().NoError(err)
	s.Equal([]string{fresh.ID}, ids)
	s.NotContains(ids, old.ID)

	s.clock = s.clock.Add(time.Hour)
	removed, err = m.Sweep(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, removed)

	accounts, err := s.redis.SMembers(s.ctx, activeAccountsKey)
	s.Require().NoError(err)
	s.Empty(accounts)
}

func (s *SessionSuite) TestManagerStopsOnCancel() {
	m := NewManager(s.service, time.Millisecond, logger.NewNop())
	ctx, cancel := context.WithCancel(s.ctx)

	done := make(chan struct{})
	go func() {
		m.Start(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		s.Fail("manager did not stop")
	}
}
