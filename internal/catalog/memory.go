package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/askwhyharsh/silverlink/internal/activity"
	"github.com/askwhyharsh/silverlink/internal/member"
	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
)

// Provider is where listings come from. Ranking and the directory only
// depend on this interface.
type Provider interface {
	Categories(ctx context.Context) ([]activity.Category, error)
	Activities(ctx context.Context, category string) ([]activity.Record, error)
	Activity(ctx context.Context, category string, id int) (activity.Record, error)
	Members(ctx context.Context) ([]member.Member, error)
	Member(ctx context.Context, id int) (member.Member, error)
}

// MemoryProvider serves a seed from memory. Every method returns copies,
// so callers may modify results freely.
type MemoryProvider struct {
	seed       *Seed
	byCategory map[string][]activity.Record
	interests  map[string]bool
	names      map[string]bool
}

var (
	_ Provider        = (*MemoryProvider)(nil)
	_ activity.Source = (*MemoryProvider)(nil)
	_ member.Source   = (*MemoryProvider)(nil)
)

func NewMemoryProvider(seed *Seed) *MemoryProvider {
	p := &MemoryProvider{
		seed:       seed,
		byCategory: make(map[string][]activity.Record, len(seed.Categories)),
		interests:  toSet(seed.Interests),
		names:      toSet(seed.ActivityNames),
	}
	for _, c := range seed.Categories {
		p.byCategory[c.Slug] = c.Activities
	}
	return p
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

func (p *MemoryProvider) Categories(ctx context.Context) ([]activity.Category, error) {
	out := make([]activity.Category, len(p.seed.Categories))
	for i, c := range p.seed.Categories {
		out[i] = c.Category
	}
	return out, nil
}

func (p *MemoryProvider) Activities(ctx context.Context, category string) ([]activity.Record, error) {
	records, ok := p.byCategory[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrCategoryNotFound, category)
	}
	out := make([]activity.Record, len(records))
	copy(out, records)
	return out, nil
}

func (p *MemoryProvider) Activity(ctx context.Context, category string, id int) (activity.Record, error) {
	records, ok := p.byCategory[category]
	if !ok {
		return activity.Record{}, fmt.Errorf("%w: %q", apperrors.ErrCategoryNotFound, category)
	}
	for _, r := range records {
		if r.ID == id {
			return r, nil
		}
	}
	return activity.Record{}, fmt.Errorf("%w: %s/%d", apperrors.ErrActivityNotFound, category, id)
}

func (p *MemoryProvider) Members(ctx context.Context) ([]member.Member, error) {
	out := make([]member.Member, len(p.seed.Members))
	for i, m := range p.seed.Members {
		out[i] = cloneMember(m)
	}
	return out, nil
}

func (p *MemoryProvider) Member(ctx context.Context, id int) (member.Member, error) {
	for _, m := range p.seed.Members {
		if m.ID == id {
			return cloneMember(m), nil
		}
	}
	return member.Member{}, fmt.Errorf("%w: %d", apperrors.ErrMemberNotFound, id)
}

func cloneMember(m member.Member) member.Member {
	m.Interests = slices.Clone(m.Interests)
	m.Activities = slices.Clone(m.Activities)
	return m
}

// HasInterest reports whether interest is one a profile may select.
func (p *MemoryProvider) HasInterest(interest string) bool {
	return p.interests[interest]
}

// HasActivity reports whether name is one a profile may select.
func (p *MemoryProvider) HasActivity(name string) bool {
	return p.names[name]
}

func (p *MemoryProvider) Interests() []string {
	return slices.Clone(p.seed.Interests)
}

func (p *MemoryProvider) ActivityNames() []string {
	return slices.Clone(p.seed.ActivityNames)
}

func (p *MemoryProvider) DefaultProfileImage() string {
	return p.seed.DefaultProfileImage
}
