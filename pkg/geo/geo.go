package geo

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances
const EarthRadiusKm = 6371.0

const (
	MinDeliveryFee int64 = 1500
	MaxDeliveryFee int64 = 7000
)

// feeBand is a per-km rate applied to distances up to MaxKm
type feeBand struct {
	MaxKm float64
	Rate  float64
}

// Shorter trips pay a higher per-km rate; anything past the last band pays longDistanceRate.
var feeBands = []feeBand{
	{MaxKm: 5, Rate: 150},
	{MaxKm: 10, Rate: 120},
	{MaxKm: 20, Rate: 100},
	{MaxKm: 30, Rate: 80},
	{MaxKm: 50, Rate: 60},
	{MaxKm: 70, Rate: 40},
}

const longDistanceRate = 20

// Coordinate is a point in decimal degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is finite and inside the WGS84 ranges
func (c Coordinate) Valid() bool {
	return ValidLatitude(c.Latitude) && ValidLongitude(c.Longitude)
}

func ValidLatitude(lat float64) bool {
	return !math.IsNaN(lat) && !math.IsInf(lat, 0) && lat >= -90 && lat <= 90
}

func ValidLongitude(lon float64) bool {
	return !math.IsNaN(lon) && !math.IsInf(lon, 0) && lon >= -180 && lon <= 180
}

// DistanceKm returns the haversine distance between two points in kilometers.
// Inputs must be finite; callers validate coordinates first.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*sinLon*sinLon

	return EarthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Distance is DistanceKm for Coordinate values
func Distance(from, to Coordinate) float64 {
	return DistanceKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
}

// DeliveryFee prices a delivery by distance: ceil(distance * rate) clamped to
// [MinDeliveryFee, MaxDeliveryFee].
func DeliveryFee(distanceKm float64) int64 {
	rate := float64(longDistanceRate)
	for _, band := range feeBands {
		if distanceKm <= band.MaxKm {
			rate = band.Rate
			break
		}
	}

	fee := int64(math.Ceil(distanceKm * rate))
	if fee < MinDeliveryFee {
		return MinDeliveryFee
	}
	if fee > MaxDeliveryFee {
		return MaxDeliveryFee
	}
	return fee
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
