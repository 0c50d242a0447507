package filter

import (
	"sort"
	"time"

	"github.com/dharmasatrya/flightoffers/internal/isotime"
	"github.com/dharmasatrya/flightoffers/internal/models"
)

type PricePoint struct {
	OfferID   string    `json:"id"`
	Time      time.Time `json:"time"`
	TimeLabel string    `json:"timeLabel"`
	Price     float64   `json:"price"`
	Airline   string    `json:"airline"`
}

// PriceTrend plots one point per offer at the first segment's departure, sorted
// by time with ties in input order. Offers without a first segment or with an
// unreadable departure timestamp are skipped; an unreadable price plots as 0.
func PriceTrend(offers []models.FlightOffer) []PricePoint {
	points := make([]PricePoint, 0, len(offers))
	for _, o := range offers {
		seg, ok := o.FirstSegment()
		if !ok {
			continue
		}
		dep, ok := isotime.ParseTimestamp(seg.Departure.At)
		if !ok {
			continue
		}

		price := 0.0
		if p, ok := o.GrandTotal(); ok {
			price = p.InexactFloat64()
		}

		points = append(points, PricePoint{
			OfferID:   o.ID,
			Time:      dep,
			TimeLabel: dep.Format("15:04"),
			Price:     price,
			Airline:   o.PrimaryAirline(),
		})
	}

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Time.Before(points[j].Time)
	})
	return points
}

type Layover struct {
	Airport         string `json:"airport"`
	DurationMinutes int    `json:"durationMinutes"`
}

// Layovers derives the ground time between consecutive segments. The gap is not
// validated: overlapping or unreadable timestamps yield a zero-minute layover.
func Layovers(it models.Itinerary) []Layover {
	if len(it.Segments) < 2 {
		return nil
	}

	layovers := make([]Layover, 0, len(it.Segments)-1)
	for i := 0; i < len(it.Segments)-1; i++ {
		arr, arrOK := isotime.ParseTimestamp(it.Segments[i].Arrival.At)
		dep, depOK := isotime.ParseTimestamp(it.Segments[i+1].Departure.At)

		minutes := 0
		if arrOK && depOK && dep.After(arr) {
			minutes = int(dep.Sub(arr) / time.Minute)
		}
		layovers = append(layovers, Layover{
			Airport:         it.Segments[i].Arrival.IATACode,
			DurationMinutes: minutes,
		})
	}
	return layovers
}
