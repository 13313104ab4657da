// Package catalog serves the static listings: activity categories, the
// member directory and the interest/activity vocabularies used by the
// profile editor.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/askwhyharsh/silverlink/internal/activity"
	"github.com/askwhyharsh/silverlink/internal/member"
)

//go:embed seed.yaml
var defaultSeed []byte

type Seed struct {
	DefaultProfileImage string          `yaml:"default_profile_image"`
	Categories          []CategorySeed  `yaml:"categories"`
	Members             []member.Member `yaml:"members"`
	Interests           []string        `yaml:"interests"`
	ActivityNames       []string        `yaml:"activity_names"`
}

type CategorySeed struct {
	activity.Category `yaml:",inline"`
	Activities        []activity.Record `yaml:"activities"`
}

// LoadSeed reads the seed at path, or the built-in seed when path is empty.
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return ParseSeed(defaultSeed)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	if err := seed.validate(); err != nil {
		return nil, err
	}

	for i := range seed.Categories {
		c := &seed.Categories[i]
		for j := range c.Activities {
			c.Activities[j].Category = c.Slug
		}
	}

	return &seed, nil
}

func (s *Seed) validate() error {
	slugs := make(map[string]bool, len(s.Categories))
	for _, c := range s.Categories {
		if c.Slug == "" {
			return fmt.Errorf("seed: category without slug")
		}
		if slugs[c.Slug] {
			return fmt.Errorf("seed: duplicate category %q", c.Slug)
		}
		slugs[c.Slug] = true

		ids := make(map[int]bool, len(c.Activities))
		for _, a := range c.Activities {
			if ids[a.ID] {
				return fmt.Errorf("seed: duplicate activity id %d in %q", a.ID, c.Slug)
			}
			ids[a.ID] = true
			if a.CurrentMembers < 0 || a.MaxMembers < 0 {
				return fmt.Errorf("seed: negative member count on activity %d in %q", a.ID, c.Slug)
			}
		}
	}

	members := make(map[int]bool, len(s.Members))
	for _, m := range s.Members {
		if members[m.ID] {
			return fmt.Errorf("seed: duplicate member id %d", m.ID)
		}
		members[m.ID] = true
	}

	return nil
}
