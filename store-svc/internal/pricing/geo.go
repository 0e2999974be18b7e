package pricing

import (
	"math"

	"curry-craft/store-svc/internal/domain"
)

const earthRadiusKm = 6371.0

type feeTier struct {
	upToKm float64
	fee    int64
}

var feeTiers = []feeTier{
	{upToKm: 3, fee: 50},
	{upToKm: 6, fee: 80},
	{upToKm: 10, fee: 120},
	{upToKm: 15, fee: 150},
}

const farDeliveryFee = 200

// DistanceKm is the haversine great-circle distance between two points.
func DistanceKm(from, to domain.Location) float64 {
	lat1 := toRadians(from.Latitude)
	lat2 := toRadians(to.Latitude)
	dLat := toRadians(to.Latitude - from.Latitude)
	dLng := toRadians(to.Longitude - from.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// rounding can push a just past 1 for antipodal points
	a = math.Min(1, math.Max(0, a))
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// DeliveryFee looks up the tier whose inclusive upper bound covers the distance.
// Negative distances fall into the nearest tier; NaN and +Inf are charged as far.
func DeliveryFee(distanceKm float64) int64 {
	if math.IsNaN(distanceKm) || math.IsInf(distanceKm, 1) {
		return farDeliveryFee
	}
	if distanceKm < 0 {
		distanceKm = 0
	}
	for _, tier := range feeTiers {
		if distanceKm <= tier.upToKm {
			return tier.fee
		}
	}
	return farDeliveryFee
}

// RoundDistance keeps one decimal place for display.
func RoundDistance(distanceKm float64) float64 {
	return math.Round(distanceKm*10) / 10
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
