// Package member lists community members with their distance from the
// viewer.
package member

import "github.com/askwhyharsh/silverlink/internal/location"

// Member is a directory entry. Coordinate is kept server-side; listings
// only expose a coarse geohash cell.
type Member struct {
	ID         int                 `json:"id" yaml:"id"`
	Name       string              `json:"name" yaml:"name"`
	Age        int                 `json:"age" yaml:"age"`
	District   string              `json:"location" yaml:"location"`
	Interests  []string            `json:"interests" yaml:"interests"`
	Activities []string            `json:"activities" yaml:"activities"`
	ImageURL   string              `json:"image" yaml:"image"`
	Bio        string              `json:"bio" yaml:"bio"`
	Coordinate location.Coordinate `json:"-" yaml:"coordinates"`
}

// Listing is a member as seen from a reference point.
type Listing struct {
	Member
	Distance string `json:"distance"`
	Cell     string `json:"cell"`

	km float64
}
