package providers

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/dharmasatrya/flightoffers/internal/isotime"
	"github.com/dharmasatrya/flightoffers/internal/models"
	"github.com/dharmasatrya/flightoffers/internal/providers/data"
)

const timestampLayout = "2006-01-02T15:04:05"

type fallbackSchedule struct {
	DefaultOrigin      string         `json:"default_origin"`
	DefaultDestination string         `json:"default_destination"`
	DefaultDate        string         `json:"default_date"`
	Currency           string         `json:"currency"`
	LastTicketingDate  string         `json:"last_ticketing_date"`
	Aircraft           string         `json:"aircraft"`
	Hubs               []string       `json:"hubs"`
	Slots              []fallbackSlot `json:"slots"`
}

type fallbackSlot struct {
	Carrier      string              `json:"carrier"`
	Number       string              `json:"number"`
	Depart       string              `json:"depart"`
	BlockMinutes int                 `json:"block_minutes"`
	Price        string              `json:"price"`
	Seats        int                 `json:"seats"`
	Connection   *fallbackConnection `json:"connection,omitempty"`
}

type fallbackConnection struct {
	FirstLegMinutes int `json:"first_leg_minutes"`
	LayoverMinutes  int `json:"layover_minutes"`
}

// FallbackProvider builds a fixed, deterministic result set for the requested
// route (or the schedule's default route) from embedded schedule data.
type FallbackProvider struct {
	schedule fallbackSchedule
}

func NewFallbackProvider() (*FallbackProvider, error) {
	var schedule fallbackSchedule
	if err := json.Unmarshal(data.FallbackSchedule, &schedule); err != nil {
		return nil, err
	}
	if len(schedule.Slots) == 0 {
		return nil, fmt.Errorf("fallback schedule has no slots")
	}
	return &FallbackProvider{schedule: schedule}, nil
}

// Static serves the fallback set as a bare JSON array.
func (p *FallbackProvider) Static(req models.SearchRequest) *Payload {
	offers := p.Offers(req)
	body, _ := json.Marshal(offers)
	return &Payload{Body: body, Offers: offers}
}

// Enveloped serves the fallback set as {"meta": {"count": n}, "data": [...]}.
func (p *FallbackProvider) Enveloped(req models.SearchRequest) *Payload {
	offers := p.Offers(req)
	body, _ := json.Marshal(models.Envelope{
		Meta: &models.PayloadMeta{Count: len(offers)},
		Data: offers,
	})
	return &Payload{Body: body, Offers: offers}
}

func (p *FallbackProvider) Offers(req models.SearchRequest) []models.FlightOffer {
	origin := req.Origin
	if origin == "" {
		origin = p.schedule.DefaultOrigin
	}
	destination := req.Destination
	if destination == "" {
		destination = p.schedule.DefaultDestination
	}

	day := p.parseDay(req.Date)
	returnDay, hasReturn := time.Time{}, false
	if req.ReturnDate != "" {
		if t, err := time.Parse("2006-01-02", req.ReturnDate); err == nil {
			returnDay, hasReturn = t, true
		}
	}

	hub := p.hubFor(origin, destination)

	offers := make([]models.FlightOffer, 0, len(p.schedule.Slots))
	for i, slot := range p.schedule.Slots {
		itineraries := []models.Itinerary{p.itinerary(slot, origin, destination, hub, day)}
		if hasReturn {
			itineraries = append(itineraries, p.itinerary(slot, destination, origin, hub, returnDay))
		}

		offers = append(offers, models.FlightOffer{
			Type:                  "flight-offer",
			ID:                    strconv.Itoa(i + 1),
			Source:                "MOCK",
			OneWay:                !hasReturn,
			LastTicketingDate:     p.schedule.LastTicketingDate,
			NumberOfBookableSeats: slot.Seats,
			Itineraries:           itineraries,
			Price: models.Price{
				Currency:   p.schedule.Currency,
				Total:      slot.Price,
				Base:       slot.Price,
				Fees:       []models.Fee{},
				GrandTotal: slot.Price,
			},
			PricingOptions: models.PricingOptions{
				FareType:                []string{"PUBLISHED"},
				IncludedCheckedBagsOnly: true,
			},
			ValidatingAirlineCodes: []string{slot.Carrier},
			TravelerPricings:       []json.RawMessage{},
		})
	}
	return offers
}

func (p *FallbackProvider) parseDay(date string) time.Time {
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02", p.schedule.DefaultDate)
	return t
}

func (p *FallbackProvider) hubFor(origin, destination string) string {
	for _, h := range p.schedule.Hubs {
		if h != origin && h != destination {
			return h
		}
	}
	return destination
}

func (p *FallbackProvider) itinerary(slot fallbackSlot, from, to, hub string, day time.Time) models.Itinerary {
	clock, err := time.Parse("15:04", slot.Depart)
	if err != nil {
		clock = time.Date(0, 1, 1, 8, 0, 0, 0, time.UTC)
	}
	dep := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC)
	block := time.Duration(slot.BlockMinutes) * time.Minute

	if slot.Connection == nil {
		arr := dep.Add(block)
		return models.Itinerary{
			Duration: isotime.EncodeDuration(block),
			Segments: []models.Segment{p.segment(slot, slot.Number, "1", from, to, dep, arr)},
		}
	}

	firstLeg := time.Duration(slot.Connection.FirstLegMinutes) * time.Minute
	layover := time.Duration(slot.Connection.LayoverMinutes) * time.Minute
	hubArr := dep.Add(firstLeg)
	hubDep := hubArr.Add(layover)
	arr := hubDep.Add(block - firstLeg)

	return models.Itinerary{
		Duration: isotime.EncodeDuration(block + layover),
		Segments: []models.Segment{
			p.segment(slot, slot.Number, "1", from, hub, dep, hubArr),
			p.segment(slot, nextFlightNumber(slot.Number), "2", hub, to, hubDep, arr),
		},
	}
}

func (p *FallbackProvider) segment(slot fallbackSlot, number, id, from, to string, dep, arr time.Time) models.Segment {
	return models.Segment{
		Departure:   models.Endpoint{IATACode: from, At: dep.Format(timestampLayout), Terminal: "1"},
		Arrival:     models.Endpoint{IATACode: to, At: arr.Format(timestampLayout), Terminal: "2"},
		CarrierCode: slot.Carrier,
		Number:      number,
		Aircraft:    &models.Aircraft{Code: p.schedule.Aircraft},
		Operating:   &models.Operating{CarrierCode: slot.Carrier},
		Duration:    isotime.EncodeDuration(arr.Sub(dep)),
		ID:          id,
	}
}

func nextFlightNumber(number string) string {
	n, err := strconv.Atoi(number)
	if err != nil {
		return number
	}
	return strconv.Itoa(n + 1000)
}
