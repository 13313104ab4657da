package activity

import (
	"math/rand"
	"sort"
	"testing"
	"time"

	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day int) time.Time {
	return time.Date(2024, 3, day, 9, 0, 0, 0, time.UTC)
}

func ids(records []Record) []int {
	out := make([]int, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func concerts() []Record {
	return []Record{
		{ID: 1, Title: "클래식 음악 감상회", CurrentMembers: 15, MaxMembers: 30, CreatedAt: at(15)},
		{ID: 2, Title: "트로트 콘서트", CurrentMembers: 25, MaxMembers: 40, CreatedAt: at(14)},
	}
}

func TestParseSortMode(t *testing.T) {
	tests := []struct {
		in   string
		want SortMode
	}{
		{"", SortRecent},
		{"recent", SortRecent},
		{"popular", SortPopular},
		{"fill_ratio", SortFillRatio},
		{"최신순", SortRecent},
		{"인기순", SortPopular},
		{"참여율순", SortFillRatio},
	}
	for _, tt := range tests {
		got, err := ParseSortMode(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseSortMode("alphabetical")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSortMode)
}

func TestSortModeLabel(t *testing.T) {
	assert.Equal(t, "최신순", SortRecent.Label())
	assert.Equal(t, "인기순", SortPopular.Label())
	assert.Equal(t, "참여율순", SortFillRatio.Label())
	assert.False(t, SortMode("nope").Valid())
	for _, m := range SortModes() {
		assert.True(t, m.Valid())
	}
}

func TestFillRatio(t *testing.T) {
	assert.InDelta(t, 0.5, FillRatio(Record{CurrentMembers: 15, MaxMembers: 30}), 1e-9)
	assert.Zero(t, FillRatio(Record{CurrentMembers: 3, MaxMembers: 0}))
	assert.Zero(t, FillRatio(Record{CurrentMembers: 3, MaxMembers: -1}))
}

func TestSortConcerts(t *testing.T) {
	recs := concerts()

	assert.Equal(t, []int{1, 2}, ids(Sort(recs, SortRecent)))
	assert.Equal(t, []int{2, 1}, ids(Sort(recs, SortPopular)))
	// 25/40 = 0.625 beats 15/30 = 0.5
	assert.Equal(t, []int{2, 1}, ids(Sort(recs, SortFillRatio)))
}

func TestSortWorkedExamples(t *testing.T) {
	recent := []Record{{ID: 1, CreatedAt: at(1)}, {ID: 2, CreatedAt: at(2)}, {ID: 3, CreatedAt: at(3)}}
	assert.Equal(t, []int{3, 2, 1}, ids(Sort(recent, SortRecent)))

	popular := []Record{{ID: 1, CurrentMembers: 5}, {ID: 2, CurrentMembers: 20}, {ID: 3, CurrentMembers: 10}}
	assert.Equal(t, []int{2, 3, 1}, ids(Sort(popular, SortPopular)))

	ratio := []Record{
		{ID: 1, CurrentMembers: 10, MaxMembers: 20},
		{ID: 2, CurrentMembers: 5, MaxMembers: 5},
		{ID: 3, CurrentMembers: 1, MaxMembers: 100},
	}
	assert.Equal(t, []int{2, 1, 3}, ids(Sort(ratio, SortFillRatio)))
}

func TestSortFillRatioPrefersRatioOverCount(t *testing.T) {
	recs := []Record{
		{ID: 1, CurrentMembers: 8, MaxMembers: 10, CreatedAt: at(1)},
		{ID: 2, CurrentMembers: 20, MaxMembers: 50, CreatedAt: at(2)},
	}

	assert.Equal(t, []int{1, 2}, ids(Sort(recs, SortFillRatio)))
	assert.Equal(t, []int{2, 1}, ids(Sort(recs, SortPopular)))
}

func TestSortIsStable(t *testing.T) {
	recs := []Record{
		{ID: 7, CurrentMembers: 10, MaxMembers: 20, CreatedAt: at(5)},
		{ID: 3, CurrentMembers: 10, MaxMembers: 20, CreatedAt: at(5)},
		{ID: 9, CurrentMembers: 10, MaxMembers: 20, CreatedAt: at(5)},
	}

	for _, mode := range SortModes() {
		assert.Equal(t, []int{7, 3, 9}, ids(Sort(recs, mode)), mode)
	}
}

func TestSortZeroCapacityRanksLast(t *testing.T) {
	recs := []Record{
		{ID: 1, CurrentMembers: 5, MaxMembers: 0},
		{ID: 2, CurrentMembers: 1, MaxMembers: 10},
	}
	assert.Equal(t, []int{2, 1}, ids(Sort(recs, SortFillRatio)))
}

func TestSortDoesNotMutateInput(t *testing.T) {
	recs := concerts()
	before := append([]Record(nil), recs...)

	out := Sort(recs, SortPopular)
	assert.Equal(t, before, recs)

	out[0].Title = "changed"
	assert.Equal(t, before, recs)
}

func TestSortEmpty(t *testing.T) {
	out := Sort(nil, SortRecent)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestSortUnknownModeKeepsOrder(t *testing.T) {
	recs := concerts()
	assert.Equal(t, []int{1, 2}, ids(Sort(recs, SortMode("bogus"))))
	reversed := []Record{recs[1], recs[0]}
	assert.Equal(t, []int{2, 1}, ids(Sort(reversed, SortMode("bogus"))))
}

func TestSortProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		n := rng.Intn(20)
		recs := make([]Record, n)
		for i := range recs {
			recs[i] = Record{
				ID:             i + 1,
				CurrentMembers: rng.Intn(10),
				MaxMembers:     rng.Intn(12),
				CreatedAt:      at(1 + rng.Intn(5)),
			}
		}

		for _, mode := range SortModes() {
			out := Sort(recs, mode)
			require.Len(t, out, n)

			got, want := ids(out), ids(recs)
			sort.Ints(got)
			sort.Ints(want)
			assert.Equal(t, want, got, "ID multiset must be preserved")

			assert.Equal(t, ids(out), ids(Sort(out, mode)), "sorting twice changes nothing")

			less := comparator(mode)
			for i := 1; i < len(out); i++ {
				assert.LessOrEqual(t, less(out[i-1], out[i]), 0, "descending order")
			}
		}
	}
}
