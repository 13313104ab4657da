package member

import (
	"context"
	"errors"
	"testing"

	"github.com/askwhyharsh/silverlink/internal/location"
	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
	"github.com/askwhyharsh/silverlink/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cityHall = location.Coordinate{Latitude: 37.5665, Longitude: 126.9780}

type stubSource struct {
	members []Member
	err     error
}

func (s stubSource) Members(ctx context.Context) ([]Member, error) {
	return s.members, s.err
}

func (s stubSource) Member(ctx context.Context, id int) (Member, error) {
	for _, m := range s.members {
		if m.ID == id {
			return m, nil
		}
	}
	return Member{}, apperrors.ErrMemberNotFound
}

func seoulMembers() []Member {
	return []Member{
		{ID: 1, Name: "김영희", Coordinate: location.Coordinate{Latitude: 37.5720, Longitude: 126.9793}},
		{ID: 2, Name: "박철수", Coordinate: location.Coordinate{Latitude: 37.5172, Longitude: 127.0473}},
		{ID: 3, Name: "이미경", Coordinate: location.Coordinate{Latitude: 37.5567, Longitude: 126.9365}},
		{ID: 4, Name: "정대호", Coordinate: location.Coordinate{Latitude: 37.5791, Longitude: 126.9368}},
		{ID: 5, Name: "한순자", Coordinate: location.Coordinate{Latitude: 37.5320, Longitude: 126.9900}},
	}
}

func listingIDs(ls []Listing) []int {
	out := make([]int, len(ls))
	for i, l := range ls {
		out[i] = l.ID
	}
	return out
}

func newDirectory(src Source) *Directory {
	return NewDirectory(src, 6, logger.NewNop())
}

func TestListKeepsSourceOrder(t *testing.T) {
	d := newDirectory(stubSource{members: seoulMembers()})

	got, err := d.List(context.Background(), cityHall, ListOptions{})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4, 5}, listingIDs(got))
	want := []string{"622m", "8km", "4km", "4km", "4km"}
	for i, l := range got {
		assert.Equal(t, want[i], l.Distance, l.Name)
		assert.Len(t, l.Cell, 6)
		assert.Equal(t, location.Cell(l.Coordinate, 6), l.Cell)
	}
}

func TestListNearest(t *testing.T) {
	d := newDirectory(stubSource{members: seoulMembers()})

	got, err := d.List(context.Background(), cityHall, ListOptions{Nearest: true})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 5, 2}, listingIDs(got))
}

func TestListRadius(t *testing.T) {
	d := newDirectory(stubSource{members: seoulMembers()})

	got, err := d.List(context.Background(), cityHall, ListOptions{RadiusMeters: 1000})
	require.NoError(t, err)
	assert.Equal(t, []int{1}, listingIDs(got))

	got, err = d.List(context.Background(), cityHall, ListOptions{RadiusMeters: 4000, Nearest: true})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 4, 5}, listingIDs(got))
}

func TestListFromOtherReference(t *testing.T) {
	d := newDirectory(stubSource{members: seoulMembers()})
	gangnam := location.Coordinate{Latitude: 37.5172, Longitude: 127.0473}

	got, err := d.List(context.Background(), gangnam, ListOptions{Nearest: true})
	require.NoError(t, err)
	require.NotEmpty(t, got)
	assert.Equal(t, 2, got[0].ID)
	assert.Equal(t, "0m", got[0].Distance)
}

func TestListEmptyAndErrors(t *testing.T) {
	d := newDirectory(stubSource{})
	got, err := d.List(context.Background(), cityHall, ListOptions{})
	require.NoError(t, err)
	assert.Empty(t, got)

	boom := errors.New("boom")
	_, err = newDirectory(stubSource{err: boom}).List(context.Background(), cityHall, ListOptions{})
	assert.ErrorIs(t, err, boom)
}

func TestGet(t *testing.T) {
	d := newDirectory(stubSource{members: seoulMembers()})

	l, err := d.Get(context.Background(), cityHall, 2)
	require.NoError(t, err)
	assert.Equal(t, "박철수", l.Name)
	assert.Equal(t, "8km", l.Distance)

	_, err = d.Get(context.Background(), cityHall, 99)
	assert.ErrorIs(t, err, apperrors.ErrMemberNotFound)
}
