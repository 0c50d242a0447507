package filter

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/dharmasatrya/flightoffers/internal/models"
)

const (
	StopsDirect  = "0"
	StopsOne     = "1"
	StopsTwoPlus = "2+"
)

// Config is the user-adjustable filter state. Empty Stops or Airlines means no restriction.
type Config struct {
	MaxPrice float64  `json:"maxPrice"`
	Stops    []string `json:"stops"`
	Airlines []string `json:"airlines"`
}

// Bounds configures the filter controls for one result set.
type Bounds struct {
	MaxPrice float64  `json:"maxPrice"`
	Airlines []string `json:"airlines"`
}

func DefaultConfig(b Bounds) Config {
	return Config{
		MaxPrice: b.MaxPrice,
		Stops:    []string{},
		Airlines: []string{},
	}
}

func IsStopBucket(s string) bool {
	return s == StopsDirect || s == StopsOne || s == StopsTwoPlus
}

// StopBucket classifies a stop count into exactly one bucket.
func StopBucket(stops int) string {
	switch {
	case stops <= 0:
		return StopsDirect
	case stops == 1:
		return StopsOne
	default:
		return StopsTwoPlus
	}
}

// DeriveBounds computes the ceiling of the highest grand total and the distinct
// validating airlines, in first-seen order. Offers with a malformed price do not
// contribute to the price bound.
func DeriveBounds(offers []models.FlightOffer) Bounds {
	maxPrice := decimal.Zero
	seen := make(map[string]bool)
	airlines := make([]string, 0)

	for _, o := range offers {
		if p, ok := o.GrandTotal(); ok && p.GreaterThan(maxPrice) {
			maxPrice = p
		}
		for _, code := range o.ValidatingAirlineCodes {
			if code == "" || seen[code] {
				continue
			}
			seen[code] = true
			airlines = append(airlines, code)
		}
	}

	return Bounds{
		MaxPrice: maxPrice.Ceil().InexactFloat64(),
		Airlines: airlines,
	}
}

// Apply keeps the offers passing every active predicate, in input order.
// The returned slice never aliases the input. A NaN or negative-infinite max
// price passes nothing; +Inf places no price restriction.
func Apply(offers []models.FlightOffer, cfg Config) []models.FlightOffer {
	if math.IsNaN(cfg.MaxPrice) || math.IsInf(cfg.MaxPrice, -1) {
		return []models.FlightOffer{}
	}
	maxPrice := decimal.NewFromFloat(math.Min(cfg.MaxPrice, math.MaxFloat64))
	stops := toSet(cfg.Stops)
	airlines := toSet(cfg.Airlines)

	result := make([]models.FlightOffer, 0, len(offers))
	for _, o := range offers {
		if matchesFilters(o, maxPrice, stops, airlines) {
			result = append(result, o)
		}
	}
	return result
}

func matchesFilters(o models.FlightOffer, maxPrice decimal.Decimal, stops, airlines map[string]bool) bool {
	return matchPrice(o, maxPrice) && matchStops(o, stops) && matchAirlines(o, airlines)
}

func matchPrice(o models.FlightOffer, maxPrice decimal.Decimal) bool {
	p, ok := o.GrandTotal()
	if !ok {
		return false
	}
	return p.LessThanOrEqual(maxPrice)
}

func matchStops(o models.FlightOffer, stops map[string]bool) bool {
	if len(stops) == 0 {
		return true
	}
	it, ok := o.FirstItinerary()
	if !ok || len(it.Segments) == 0 {
		return false
	}
	return stops[StopBucket(it.Stops())]
}

func matchAirlines(o models.FlightOffer, airlines map[string]bool) bool {
	if len(airlines) == 0 {
		return true
	}
	for _, code := range o.ValidatingAirlineCodes {
		if airlines[code] {
			return true
		}
	}
	return false
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
