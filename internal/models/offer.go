package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type Endpoint struct {
	IATACode string `json:"iataCode"`
	At       string `json:"at"`
	Terminal string `json:"terminal,omitempty"`
}

type Aircraft struct {
	Code string `json:"code"`
}

type Operating struct {
	CarrierCode string `json:"carrierCode"`
}

type Segment struct {
	Departure       Endpoint   `json:"departure"`
	Arrival         Endpoint   `json:"arrival"`
	CarrierCode     string     `json:"carrierCode"`
	Number          string     `json:"number"`
	Aircraft        *Aircraft  `json:"aircraft,omitempty"`
	Operating       *Operating `json:"operating,omitempty"`
	Duration        string     `json:"duration"`
	ID              string     `json:"id,omitempty"`
	NumberOfStops   int        `json:"numberOfStops"`
	BlacklistedInEU bool       `json:"blacklistedInEU"`
}

type Itinerary struct {
	Duration string    `json:"duration"`
	Segments []Segment `json:"segments"`
}

// Stops is the number of intermediate landings: one fewer than the segment count.
func (it Itinerary) Stops() int {
	if len(it.Segments) == 0 {
		return 0
	}
	return len(it.Segments) - 1
}

type Fee struct {
	Amount string `json:"amount"`
	Type   string `json:"type"`
}

type Price struct {
	Currency   string `json:"currency"`
	Total      string `json:"total"`
	Base       string `json:"base"`
	Fees       []Fee  `json:"fees"`
	GrandTotal string `json:"grandTotal"`
}

type PricingOptions struct {
	FareType                []string `json:"fareType"`
	IncludedCheckedBagsOnly bool     `json:"includedCheckedBagsOnly"`
}

type FlightOffer struct {
	Type                     string            `json:"type"`
	ID                       string            `json:"id"`
	Source                   string            `json:"source"`
	InstantTicketingRequired bool              `json:"instantTicketingRequired"`
	NonHomogeneous           bool              `json:"nonHomogeneous"`
	OneWay                   bool              `json:"oneWay"`
	LastTicketingDate        string            `json:"lastTicketingDate,omitempty"`
	NumberOfBookableSeats    int               `json:"numberOfBookableSeats"`
	Itineraries              []Itinerary       `json:"itineraries"`
	Price                    Price             `json:"price"`
	PricingOptions           PricingOptions    `json:"pricingOptions"`
	ValidatingAirlineCodes   []string          `json:"validatingAirlineCodes"`
	TravelerPricings         []json.RawMessage `json:"travelerPricings"`
}

// FirstItinerary returns the itinerary used for display and filtering.
func (o FlightOffer) FirstItinerary() (Itinerary, bool) {
	if len(o.Itineraries) == 0 {
		return Itinerary{}, false
	}
	return o.Itineraries[0], true
}

// FirstSegment returns the first leg of the first itinerary.
func (o FlightOffer) FirstSegment() (Segment, bool) {
	it, ok := o.FirstItinerary()
	if !ok || len(it.Segments) == 0 {
		return Segment{}, false
	}
	return it.Segments[0], true
}

// PrimaryAirline is the first validating carrier, or "UNK" when none is present.
func (o FlightOffer) PrimaryAirline() string {
	if len(o.ValidatingAirlineCodes) == 0 || o.ValidatingAirlineCodes[0] == "" {
		return "UNK"
	}
	return o.ValidatingAirlineCodes[0]
}

// GrandTotal parses price.grandTotal. Negative or non-decimal amounts are malformed.
func (o FlightOffer) GrandTotal() (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(o.Price.GrandTotal))
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}

type PayloadMeta struct {
	Count int `json:"count"`
}

// Envelope is the object form of a search payload.
type Envelope struct {
	Meta *PayloadMeta  `json:"meta,omitempty"`
	Data []FlightOffer `json:"data"`
}

var ErrUnrecognizedPayload = errors.New("payload is neither an offer array nor an object with data")

// DecodeOffers accepts either a bare JSON array of offers or an object carrying
// them under "data". Records that do not fit FlightOffer are skipped.
func DecodeOffers(body []byte) ([]FlightOffer, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, ErrUnrecognizedPayload
	}

	switch trimmed[0] {
	case '[':
		var records []json.RawMessage
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, err
		}
		return DecodeRecords(records), nil
	case '{':
		var raw RawEnvelope
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, err
		}
		return DecodeRecords(raw.Data), nil
	default:
		return nil, ErrUnrecognizedPayload
	}
}

// RawEnvelope reads the "data" array without typing its records.
type RawEnvelope struct {
	Data []json.RawMessage `json:"data"`
}

// DecodeRecords decodes each record on its own, dropping the ones that fail.
func DecodeRecords(records []json.RawMessage) []FlightOffer {
	offers := make([]FlightOffer, 0, len(records))
	for _, rec := range records {
		var o FlightOffer
		if err := json.Unmarshal(rec, &o); err != nil {
			continue
		}
		offers = append(offers, o)
	}
	return offers
}
