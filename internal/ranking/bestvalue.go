package ranking

import (
	"math"
	"time"

	"github.com/dharmasatrya/flightoffers/internal/isotime"
	"github.com/dharmasatrya/flightoffers/internal/models"
)

const (
	PriceWeight    = 0.5
	DurationWeight = 0.3
	StopsWeight    = 0.2
)

// CalculateScores returns one best-value score per offer, index-aligned with the input.
// Offers with a malformed price or duration score as if that component were at the maximum.
func CalculateScores(offers []models.FlightOffer) []float64 {
	scores := make([]float64, len(offers))
	if len(offers) == 0 {
		return scores
	}

	maxPrice := findMaxPrice(offers)
	maxDuration := findMaxDuration(offers)

	for i, o := range offers {
		scores[i] = CalculateBestValue(o, maxPrice, maxDuration)
	}
	return scores
}

// Lower score = better value
func CalculateBestValue(offer models.FlightOffer, maxPrice, maxDuration float64) float64 {
	priceScore := 0.0
	if maxPrice > 0 {
		price, ok := offer.GrandTotal()
		if ok {
			priceScore = (price.InexactFloat64() / maxPrice) * 100
		} else {
			priceScore = 100
		}
	}

	durationScore := 0.0
	if maxDuration > 0 {
		if minutes, ok := durationMinutes(offer); ok {
			durationScore = (minutes / maxDuration) * 100
		} else {
			durationScore = 100
		}
	}

	stops := 0
	if it, ok := offer.FirstItinerary(); ok {
		stops = it.Stops()
	}
	stopsScore := float64(stops) * 15
	score := (priceScore * PriceWeight) + (durationScore * DurationWeight) + (stopsScore * StopsWeight)

	return math.Round(score*100) / 100
}

func durationMinutes(offer models.FlightOffer) (float64, bool) {
	it, ok := offer.FirstItinerary()
	if !ok {
		return 0, false
	}
	d, ok := isotime.ParseDuration(it.Duration)
	if !ok {
		return 0, false
	}
	return d.Minutes(), true
}

func findMaxPrice(offers []models.FlightOffer) float64 {
	maxPrice := 0.0
	for _, o := range offers {
		if p, ok := o.GrandTotal(); ok && p.InexactFloat64() > maxPrice {
			maxPrice = p.InexactFloat64()
		}
	}
	return maxPrice
}

func findMaxDuration(offers []models.FlightOffer) float64 {
	maxDuration := 0.0
	for _, o := range offers {
		if m, ok := durationMinutes(o); ok && m > maxDuration {
			maxDuration = m
		}
	}
	return maxDuration
}

// DurationOf returns the first itinerary's elapsed time. Offers without a parseable
// duration get the largest Duration so they sort last.
func DurationOf(offer models.FlightOffer) time.Duration {
	it, ok := offer.FirstItinerary()
	if !ok {
		return math.MaxInt64
	}
	d, ok := isotime.ParseDuration(it.Duration)
	if !ok {
		return math.MaxInt64
	}
	return d
}
