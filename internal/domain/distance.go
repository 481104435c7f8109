package domain

import "math"

// earthRadiusKm is the mean Earth radius used for every great-circle
// computation in the system. One constant, one distance definition.
const earthRadiusKm = 6371.0

// DistanceKm returns the haversine great-circle distance in kilometers
// between two WGS-84 coordinates. Symmetric, zero for identical points.
func DistanceKm(lat0, lon0, lat1, lon1 float64) float64 {
	phi0 := lat0 * math.Pi / 180
	phi1 := lat1 * math.Pi / 180
	dPhi := (lat1 - lat0) * math.Pi / 180
	dLambda := (lon1 - lon0) * math.Pi / 180

	sinPhi := math.Sin(dPhi / 2)
	sinLambda := math.Sin(dLambda / 2)
	a := sinPhi*sinPhi + math.Cos(phi0)*math.Cos(phi1)*sinLambda*sinLambda

	return 2 * earthRadiusKm * math.Asin(math.Min(1, math.Sqrt(a)))
}
