package profile

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/askwhyharsh/silverlink/internal/moderation"
	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
	"github.com/askwhyharsh/silverlink/pkg/logger"
	"github.com/askwhyharsh/silverlink/pkg/validator"
)

type Service struct {
	store     Store
	vocab     Vocabulary
	validator validator.Validator
	logger    logger.Logger
	now       func() time.Time
}

func NewService(store Store, vocab Vocabulary, v validator.Validator, log logger.Logger) *Service {
	return &Service{
		store:     store,
		vocab:     vocab,
		validator: v,
		logger:    log,
		now:       time.Now,
	}
}

// Create stores the initial profile written at registration: empty
// selections and the default image.
func (s *Service) Create(ctx context.Context, id, name, email string) (*Profile, error) {
	name = strings.TrimSpace(name)
	if err := s.validator.ValidateName(name); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	p := &Profile{
		ID:           id,
		Name:         name,
		Email:        email,
		ProfileImage: s.vocab.DefaultProfileImage(),
		Interests:    []string{},
		Activities:   []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Profile, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Update applies patch. Nothing is written unless every field validates.
func (s *Service) Update(ctx context.Context, id string, patch Patch) (*Profile, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(p, patch); err != nil {
		return nil, err
	}

	p.UpdatedAt = s.now().UTC()
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Profile updated", "profile_id", id)
	return p, nil
}

func (s *Service) apply(p *Profile, patch Patch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if err := s.validator.ValidateName(name); err != nil {
			return err
		}
		p.Name = name
	}

	if patch.ProfileImage != nil {
		img := strings.TrimSpace(*patch.ProfileImage)
		if img == "" {
			img = s.vocab.DefaultProfileImage()
		} else if err := s.validator.ValidateImageURL(img); err != nil {
			return err
		}
		p.ProfileImage = img
	}

	if patch.Location != nil {
		loc := strings.TrimSpace(*patch.Location)
		if err := s.validator.ValidateLocation(loc); err != nil {
			return err
		}
		p.Location = loc
	}

	if patch.Bio != nil {
		bio := strings.TrimSpace(*patch.Bio)
		if err := s.validator.ValidateBio(bio); err != nil {
			return err
		}
		if err := moderation.Validate(bio); err != nil {
			return err
		}
		p.Bio = bio
	}

	if patch.Interests != nil {
		interests, err := selection(*patch.Interests, s.vocab.HasInterest, apperrors.ErrUnknownInterest)
		if err != nil {
			return err
		}
		p.Interests = interests
	}

	if patch.Activities != nil {
		activities, err := selection(*patch.Activities, s.vocab.HasActivity, apperrors.ErrUnknownActivity)
		if err != nil {
			return err
		}
		p.Activities = activities
	}

	return nil
}

// selection checks every value against known and drops duplicates,
// keeping first-seen order.
func selection(values []string, known func(string) bool, unknown error) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !known(v) {
			return nil, fmt.Errorf("%w: %q", unknown, v)
		}
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// ToggleInterest adds interest if absent and removes it if present.
func (s *Service) ToggleInterest(ctx context.Context, id, interest string) (*Profile, error) {
	if !s.vocab.HasInterest(interest) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownInterest, interest)
	}
	return s.toggle(ctx, id, func(p *Profile) { p.Interests = toggled(p.Interests, interest) })
}

// ToggleActivity adds name if absent and removes it if present.
func (s *Service) ToggleActivity(ctx context.Context, id, name string) (*Profile, error) {
	if !s.vocab.HasActivity(name) {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownActivity, name)
	}
	return s.toggle(ctx, id, func(p *Profile) { p.Activities = toggled(p.Activities, name) })
}

func (s *Service) toggle(ctx context.Context, id string, change func(*Profile)) (*Profile, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	change(p)
	p.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func toggled(values []string, v string) []string {
	if i := slices.Index(values, v); i >= 0 {
		return slices.Delete(slices.Clone(values), i, i+1)
	}
	return append(slices.Clone(values), v)
}
