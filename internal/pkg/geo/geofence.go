package geo

import "math"

const earthRadiusMeters = 6371000

// Point is a WGS84 coordinate in decimal degrees.
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Fix is a GPS reading. AccuracyMeters is carried for display only and never
// widens the accepted band.
type Fix struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	AccuracyMeters float64 `json:"accuracy_meters"`
}

// Result is the outcome of a geofence check.
type Result struct {
	Valid          bool    `json:"valid"`
	DistanceMeters float64 `json:"distance_meters"`
}

// CalculateHaversineDistance returns the great-circle distance in meters.
func CalculateHaversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := (lat2 - lat1) * (math.Pi / 180.0)
	dLon := (lon2 - lon1) * (math.Pi / 180.0)

	lat1Rad := lat1 * (math.Pi / 180.0)
	lat2Rad := lat2 * (math.Pi / 180.0)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLon/2)*math.Sin(dLon/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Validate checks that fix lies inside the annulus [radiusMin, radiusMax]
// around ref, both bounds inclusive. A radiusMin of 0 disables the inner
// exclusion.
func Validate(fix Fix, ref Point, radiusMin, radiusMax float64) Result {
	d := CalculateHaversineDistance(fix.Latitude, fix.Longitude, ref.Latitude, ref.Longitude)
	return Result{
		Valid:          d >= radiusMin && d <= radiusMax,
		DistanceMeters: d,
	}
}
