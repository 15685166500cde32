package recommendation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/geulda/go-tour-recommendations/internal/types"
)

func TestHaversineDistance(t *testing.T) {
	t.Run("SeoulToBusan", func(t *testing.T) {
		d := haversineDistance(37.5665, 126.9780, 35.1796, 129.0756)

		// Known great-circle distance is roughly 325 km.
		assert.InDelta(t, 325, d, 5)
	})

	t.Run("SamePointIsZero", func(t *testing.T) {
		assert.Zero(t, haversineDistance(37.5, 127.0, 37.5, 127.0))
	})
}

func TestTotalRouteDistance(t *testing.T) {
	t.Run("EmptyRoute", func(t *testing.T) {
		assert.Equal(t, 0.0, totalRouteDistance(nil, 37.5, 127.0))
	})

	t.Run("ChainsLegsFromOrigin", func(t *testing.T) {
		places := []types.PlaceDetail{
			{Latitude: 37.5665, Longitude: 126.9780},
			{Latitude: 35.1796, Longitude: 129.0756},
		}

		fromOrigin := haversineDistance(37.4974496, 126.8007892, 37.5665, 126.9780)
		secondLeg := haversineDistance(37.5665, 126.9780, 35.1796, 129.0756)
		expected := math.Round((fromOrigin+secondLeg)*100) / 100

		assert.Equal(t, expected, totalRouteDistance(places, 37.4974496, 126.8007892))
	})

	t.Run("RoundedToTwoDecimals", func(t *testing.T) {
		places := []types.PlaceDetail{{Latitude: 37.51, Longitude: 126.82}}

		d := totalRouteDistance(places, 37.4974496, 126.8007892)

		assert.Equal(t, math.Round(d*100)/100, d)
	})
}
