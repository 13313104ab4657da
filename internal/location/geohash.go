package location

import (
	"fmt"

	"github.com/mmcloughlin/geohash"

	apperrors "github.com/askwhyharsh/silverlink/pkg/errors"
)

// Cell encodes c as a geohash of the given number of characters. Member
// listings expose this instead of raw coordinates.
func Cell(c Coordinate, precision uint) string {
	return geohash.EncodeWithPrecision(c.Latitude, c.Longitude, precision)
}

// FromGeohash decodes hash to the centre of its cell.
func FromGeohash(hash string) (Coordinate, error) {
	if hash == "" {
		return Coordinate{}, apperrors.ErrInvalidGeohash
	}
	if err := geohash.Validate(hash); err != nil {
		return Coordinate{}, fmt.Errorf("%w: %v", apperrors.ErrInvalidGeohash, err)
	}

	lat, lon := geohash.DecodeCenter(hash)
	return Coordinate{Latitude: lat, Longitude: lon}, nil
}
