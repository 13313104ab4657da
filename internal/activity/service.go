package activity

import (
	"context"
	"fmt"

	"github.com/askwhyharsh/silverlink/internal/observability"
	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
	"github.com/askwhyharsh/silverlink/pkg/logger"
)

// Source supplies the unranked listings of a category.
type Source interface {
	Activities(ctx context.Context, category string) ([]Record, error)
}

type Service struct {
	source Source
	cache  Cache
	logger logger.Logger
}

// NewService builds a ranking service. cache may be nil.
func NewService(source Source, cache Cache, logger logger.Logger) *Service {
	return &Service{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// Rank returns the category's activities ordered by mode. Cache failures
// are logged and the ranking is computed from the source.
func (s *Service) Rank(ctx context.Context, category string, mode SortMode) ([]Record, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidSortMode, mode)
	}

	if s.cache != nil {
		records, ok, err := s.cache.Get(ctx, category, mode)
		if err != nil {
			s.logger.Warn("ranking cache read failed", "category", category, "mode", mode, "error", err)
		}
		if ok {
			observability.RecordRanking(string(mode), true)
			return records, nil
		}
	}

	records, err := s.source.Activities(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("load activities for %q: %w", category, err)
	}

	ranked := Sort(records, mode)
	observability.RecordRanking(string(mode), false)

	if s.cache != nil {
		if err := s.cache.Put(ctx, category, mode, ranked); err != nil {
			s.logger.Warn("ranking cache write failed", "category", category, "mode", mode, "error", err)
		}
	}

	s.logger.Debug("ranked activities", "category", category, "mode", mode, "count", len(ranked))
	return ranked, nil
}

// Invalidate drops cached rankings for the given categories, e.g. after
// the catalog was reloaded from a different seed.
func (s *Service) Invalidate(ctx context.Context, categories ...string) error {
	if s.cache == nil {
		return nil
	}
	for _, category := range categories {
		if err := s.cache.Invalidate(ctx, category); err != nil {
			return fmt.Errorf("invalidate rankings for %q: %w", category, err)
		}
	}
	return nil
}
