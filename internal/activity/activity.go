// Package activity ranks the activity listings shown per category.
package activity

import "time"

// Category groups listings on the landing page, e.g. "concerts".
type Category struct {
	Slug  string `json:"slug" yaml:"slug"`
	Title string `json:"title" yaml:"title"`
}

// Transportation holds directions to an activity's venue. Online
// activities only carry AdditionalInfo.
type Transportation struct {
	Subway         string `json:"subway,omitempty" yaml:"subway,omitempty"`
	Bus            string `json:"bus,omitempty" yaml:"bus,omitempty"`
	AdditionalInfo string `json:"additional_info" yaml:"additional_info"`
}

// Record is one listed activity. IDs are unique within a category.
// Date and Time are display strings ("2024년 3월 28일", "오후 2:00");
// CreatedAt is what recency ranking uses.
type Record struct {
	ID             int            `json:"id" yaml:"id"`
	Category       string         `json:"category" yaml:"-"`
	Title          string         `json:"title" yaml:"title"`
	Location       string         `json:"location" yaml:"location"`
	Date           string         `json:"date" yaml:"date"`
	Time           string         `json:"time" yaml:"time"`
	CurrentMembers int            `json:"current_members" yaml:"current_members"`
	MaxMembers     int            `json:"max_members" yaml:"max_members"`
	Description    string         `json:"description" yaml:"description"`
	ImageURL       string         `json:"image" yaml:"image"`
	CreatedAt      time.Time      `json:"created_at" yaml:"created_at"`
	Transportation Transportation `json:"transportation" yaml:"transportation"`
}

// FillRatio is CurrentMembers/MaxMembers. A record without capacity
// (MaxMembers <= 0) has ratio 0 so it ranks last instead of producing
// Inf or NaN.
func FillRatio(r Record) float64 {
	if r.MaxMembers <= 0 {
		return 0
	}
	return float64(r.CurrentMembers) / float64(r.MaxMembers)
}
