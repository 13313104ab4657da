package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/askwhyharsh/silverlink/internal/storage"
	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
)

type SQLStore struct {
	db *storage.DB
}

var _ Store = (*SQLStore)(nil)

func NewSQLStore(db *storage.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Create(ctx context.Context, p *Profile) error {
	interests, activities, err := encodeLists(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO profiles (id, name, email, profile_image, interests, activities, location, bio, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		p.ID, p.Name, p.Email, p.ProfileImage, interests, activities,
		p.Location, p.Bio, storage.FormatTime(p.CreatedAt), storage.FormatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to insert profile: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (*Profile, error) {
	query := `
		SELECT id, name, email, profile_image, interests, activities, location, bio, created_at, updated_at
		FROM profiles
		WHERE id = ?
	`

	var (
		p                     Profile
		interests, activities string
		createdAt, updatedAt  string
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.ProfileImage,
		&interests,
		&activities,
		&p.Location,
		&p.Bio,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	if err := json.Unmarshal([]byte(interests), &p.Interests); err != nil {
		return nil, fmt.Errorf("decode interests: %w", err)
	}
	if err := json.Unmarshal([]byte(activities), &p.Activities); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	if p.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return nil, fmt.Errorf("decode created_at: %w", err)
	}
	if p.UpdatedAt, err = storage.ParseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("decode updated_at: %w", err)
	}

	return &p, nil
}

func (s *SQLStore) Update(ctx context.Context, p *Profile) error {
	interests, activities, err := encodeLists(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE profiles
		SET name = ?, profile_image = ?, interests = ?, activities = ?, location = ?, bio = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := s.db.ExecContext(ctx, query,
		p.Name, p.ProfileImage, interests, activities, p.Location, p.Bio,
		storage.FormatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.ErrProfileNotFound
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM profiles WHERE id = ?`, id)
	return err
}

func encodeLists(p *Profile) (string, string, error) {
	interests, err := json.Marshal(nonNil(p.Interests))
	if err != nil {
		return "", "", err
	}
	activities, err := json.Marshal(nonNil(p.Activities))
	if err != nil {
		return "", "", err
	}
	return string(interests), string(activities), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
