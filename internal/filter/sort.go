package filter

import (
	"math"
	"sort"
	"strings"

	"github.com/dharmasatrya/flightoffers/internal/isotime"
	"github.com/dharmasatrya/flightoffers/internal/models"
	"github.com/dharmasatrya/flightoffers/internal/ranking"
)

const (
	SortNone      = ""
	SortPrice     = "price"
	SortDuration  = "duration"
	SortDeparture = "departure"
	SortStops     = "stops"
	SortBestValue = "best_value"
)

func IsSortKey(s string) bool {
	switch strings.ToLower(s) {
	case SortNone, SortPrice, SortDuration, SortDeparture, SortStops, SortBestValue:
		return true
	}
	return false
}

// Sort returns a reordered copy for display. It is separate from Apply, which
// always preserves input order. An empty sortBy keeps input order.
func Sort(offers []models.FlightOffer, sortBy, sortOrder string) []models.FlightOffer {
	sorted := make([]models.FlightOffer, len(offers))
	copy(sorted, offers)
	if len(sorted) == 0 {
		return sorted
	}

	ascending := strings.ToLower(sortOrder) != "desc"

	var keys []float64
	switch strings.ToLower(sortBy) {
	case SortPrice:
		keys = priceKeys(sorted)
	case SortDuration:
		keys = make([]float64, len(sorted))
		for i, o := range sorted {
			keys[i] = float64(ranking.DurationOf(o))
		}
	case SortDeparture:
		keys = departureKeys(sorted)
	case SortStops:
		keys = make([]float64, len(sorted))
		for i, o := range sorted {
			if it, ok := o.FirstItinerary(); ok {
				keys[i] = float64(it.Stops())
			}
		}
	case SortBestValue:
		keys = ranking.CalculateScores(sorted)
	default:
		return sorted
	}

	idx := make([]int, len(sorted))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		if ascending {
			return keys[idx[i]] < keys[idx[j]]
		}
		return keys[idx[i]] > keys[idx[j]]
	})

	result := make([]models.FlightOffer, len(sorted))
	for i, k := range idx {
		result[i] = sorted[k]
	}
	return result
}

func priceKeys(offers []models.FlightOffer) []float64 {
	keys := make([]float64, len(offers))
	for i, o := range offers {
		if p, ok := o.GrandTotal(); ok {
			keys[i] = p.InexactFloat64()
		} else {
			keys[i] = math.Inf(1)
		}
	}
	return keys
}

func departureKeys(offers []models.FlightOffer) []float64 {
	keys := make([]float64, len(offers))
	for i, o := range offers {
		keys[i] = math.Inf(1)
		seg, ok := o.FirstSegment()
		if !ok {
			continue
		}
		if t, ok := isotime.ParseTimestamp(seg.Departure.At); ok {
			keys[i] = float64(t.Unix())
		}
	}
	return keys
}
