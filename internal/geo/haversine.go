package geo

import (
	"math"
)

const earthRadiusMiles = 3958.8

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180.0
}

// Haversine computes the great-circle distance between two points in miles.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusMiles * 2 * math.Asin(math.Sqrt(a))
}

// MilesToMeters converts a radius in miles to meters for map overlays.
func MilesToMeters(miles float64) float64 {
	return miles * 1609.34
}

// MilesToKm converts miles to kilometers.
func MilesToKm(miles float64) float64 {
	return miles * 1.60934
}
