package location

import (
	"math"
	"strconv"
)

const EarthRadiusKm = 6371.0 // mean Earth radius

// Coordinate is a point in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
}

// DistanceKm calculates the great-circle distance between two points in
// kilometres using the haversine formula.
func DistanceKm(from, to Coordinate) float64 {
	// Convert to radians
	lat1Rad := toRadians(from.Latitude)
	lat2Rad := toRadians(to.Latitude)
	deltaLat := toRadians(to.Latitude - from.Latitude)
	deltaLon := toRadians(to.Longitude - from.Longitude)

	// Haversine formula
	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)

	// Rounding can push a just past 1 for antipodal points.
	a = math.Min(1, math.Max(0, a))

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusKm * c
}

// FormatDistance renders a distance as whole metres below one kilometre
// and whole kilometres otherwise, e.g. "622m" or "8km". The unit is
// picked before rounding, so 0.9996 km renders as "1000m".
func FormatDistance(km float64) string {
	if km < 1 {
		return strconv.FormatFloat(math.Round(km*1000), 'f', 0, 64) + "m"
	}
	return strconv.FormatFloat(math.Round(km), 'f', 0, 64) + "km"
}

// Distance returns the display label for the distance between two points.
func Distance(from, to Coordinate) string {
	return FormatDistance(DistanceKm(from, to))
}

func toRadians(degrees float64) float64 {
	return degrees * math.Pi / 180.0
}
