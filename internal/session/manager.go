package session

import (
	"context"
	"time"

	"github.com/askwhyharsh/silverlink/pkg/logger"
)

// Manager prunes the account session indexes. Session keys expire on
// their own; the indexes do not.
type Manager struct {
	service  *Service
	interval time.Duration
	logger   logger.Logger
}

func NewManager(service *Service, interval time.Duration, log logger.Logger) *Manager {
	return &Manager{
		service:  service,
		interval: interval,
		logger:   log,
	}
}

// Start sweeps every interval until ctx is cancelled.
func (m *Manager) Start(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.logger.Info("Session manager started", "interval", m.interval)

	for {
		select {
		case <-ticker.C:
			removed, err := m.Sweep(ctx)
			if err != nil {
				m.logger.Error("Failed to sweep expired sessions", "error", err)
				continue
			}
			if removed > 0 {
				m.logger.Debug("Swept expired sessions", "removed", removed)
			}
		case <-ctx.Done():
			m.logger.Info("Session manager stopped")
			return
		}
	}
}

// Sweep drops index entries whose session key has expired and returns
// how many it removed.
func (m *Manager) Sweep(ctx context.Context) (int, error) {
	redis := m.service.redis

	accounts, err := redis.SMembers(ctx, activeAccountsKey)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, accountID := range accounts {
		ids, err := redis.SMembers(ctx, accountSessionsKey(accountID))
		if err != nil {
			return removed, err
		}

		live := 0
		for _, id := range ids {
			ok, err := m.service.Exists(ctx, id)
			if err != nil {
				return removed, err
			}
			if ok {
				live++
				continue
			}
			if err := redis.SRem(ctx, accountSessionsKey(accountID), id); err != nil {
				return removed, err
			}
			removed++
		}

		if live == 0 {
			if err := redis.SRem(ctx, activeAccountsKey, accountID); err != nil {
				return removed, err
			}
		}
	}

	return removed, nil
}
