package recommendation

import (
	"math"

	"github.com/geulda/go-tour-recommendations/internal/types"
)

const earthRadiusKm = 6371

// haversineDistance returns the great-circle distance in kilometers between
// two coordinates given in decimal degrees.
func haversineDistance(lat1, lon1, lat2, lon2 float64) float64 {
	latDist := (lat2 - lat1) * math.Pi / 180
	lonDist := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(latDist/2)*math.Sin(latDist/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(lonDist/2)*math.Sin(lonDist/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// totalRouteDistance sums the legs of the directional route
// origin -> places[0] -> places[1] -> ..., rounded to two decimals.
// An empty route is 0.0 by definition.
func totalRouteDistance(places []types.PlaceDetail, startLat, startLon float64) float64 {
	if len(places) == 0 {
		return 0.0
	}

	total := 0.0
	prevLat, prevLon := startLat, startLon
	for _, p := range places {
		total += haversineDistance(prevLat, prevLon, p.Latitude, p.Longitude)
		prevLat, prevLon = p.Latitude, p.Longitude
	}

	return math.Round(total*100) / 100
}
