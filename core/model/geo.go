package model

import "math"

// EarthRadiusKm is the mean Earth radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometres between two
// coordinates given in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dPhi := (lat2 - lat1) * math.Pi / 180
	dLambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}

// PathDistance sums the haversine distances between consecutive samples.
func PathDistance(samples []Sample) float64 {
	var km float64
	for i := 1; i < len(samples); i++ {
		km += Haversine(samples[i-1].Lat, samples[i-1].Lon, samples[i].Lat, samples[i].Lon)
	}
	return km
}
