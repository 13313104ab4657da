package location

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
)

// WithinRadius reports whether p lies inside the spherical cap of the
// given radius in metres around center.
func WithinRadius(center, p Coordinate, meters float64) bool {
	angle := s1.Angle(meters / (EarthRadiusKm * 1000))
	region := s2.CapFromCenterAngle(toPoint(center), angle)
	return region.ContainsPoint(toPoint(p))
}

func toPoint(c Coordinate) s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Latitude, c.Longitude))
}
