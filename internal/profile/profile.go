// Package profile stores and edits member profiles.
package profile

import (
	"context"
	"time"
)

type Profile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	ProfileImage string    `json:"profile_image"`
	Interests    []string  `json:"interests"`
	Activities   []string  `json:"activities"`
	Location     string    `json:"location"`
	Bio          string    `json:"bio"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Patch is a partial update. Nil fields are left unchanged; a non-nil
// empty slice clears the selection.
type Patch struct {
	Name         *string   `json:"name"`
	ProfileImage *string   `json:"profile_image"`
	Location     *string   `json:"location"`
	Bio          *string   `json:"bio"`
	Interests    *[]string `json:"interests"`
	Activities   *[]string `json:"activities"`
}

type Store interface {
	Create(ctx context.Context, p *Profile) error
	Get(ctx context.Context, id string) (*Profile, error)
	Update(ctx context.Context, p *Profile) error
	Delete(ctx context.Context, id string) error
}

// Vocabulary is the fixed set of interests and activities a profile may
// select from.
type Vocabulary interface {
	HasInterest(interest string) bool
	HasActivity(name string) bool
	DefaultProfileImage() string
}
