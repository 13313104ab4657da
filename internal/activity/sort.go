package activity

import (
	"cmp"
	"fmt"
	"slices"

	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
)

type SortMode string

const (
	SortRecent    SortMode = "recent"
	SortPopular   SortMode = "popular"
	SortFillRatio SortMode = "fill_ratio"
)

// DefaultSortMode is what the listing page shows before the user picks.
const DefaultSortMode = SortRecent

var sortLabels = map[SortMode]string{
	SortRecent:    "최신순",
	SortPopular:   "인기순",
	SortFillRatio: "참여율순",
}

// SortModes lists the modes in the order the selector shows them.
func SortModes() []SortMode {
	return []SortMode{SortRecent, SortPopular, SortFillRatio}
}

// ParseSortMode accepts a mode name or its on-screen label. An empty
// string selects DefaultSortMode.
func ParseSortMode(s string) (SortMode, error) {
	if s == "" {
		return DefaultSortMode, nil
	}
	for mode, label := range sortLabels {
		if s == string(mode) || s == label {
			return mode, nil
		}
	}
	return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidSortMode, s)
}

// Label is the on-screen name of the mode.
func (m SortMode) Label() string {
	return sortLabels[m]
}

func (m SortMode) Valid() bool {
	_, ok := sortLabels[m]
	return ok
}

// Sort returns a copy of records ordered best-first by mode. The sort is
// stable: records with equal keys keep their input order. records is
// never modified. An unknown mode leaves the order as given.
func Sort(records []Record, mode SortMode) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	slices.SortStableFunc(out, comparator(mode))
	return out
}

func comparator(mode SortMode) func(a, b Record) int {
	switch mode {
	case SortRecent:
		return func(a, b Record) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		}
	case SortPopular:
		return func(a, b Record) int {
			return cmp.Compare(b.CurrentMembers, a.CurrentMembers)
		}
	case SortFillRatio:
		return func(a, b Record) int {
			return cmp.Compare(FillRatio(b), FillRatio(a))
		}
	default:
		return func(a, b Record) int { return 0 }
	}
}
