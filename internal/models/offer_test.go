package models

import (
	"errors"
	"testing"
)

const offerJSON = `{
	"type": "flight-offer",
	"id": "7",
	"itineraries": [{
		"duration": "PT4H15M",
		"segments": [
			{"departure": {"iataCode": "LHR", "at": "2024-12-25T08:00:00", "terminal": "2"},
			 "arrival": {"iataCode": "FRA", "at": "2024-12-25T10:45:00"},
			 "carrierCode": "LH", "number": "901", "duration": "PT1H45M"},
			{"departure": {"iataCode": "FRA", "at": "2024-12-25T12:00:00"},
			 "arrival": {"iataCode": "CDG", "at": "2024-12-25T13:15:00"},
			 "carrierCode": "LH", "number": "1034", "duration": "PT1H15M"}
		]
	}],
	"price": {"currency": "USD", "total": "180.00", "grandTotal": "180.00"},
	"validatingAirlineCodes": ["LH"]
}`

func TestDecodeOffersArray(t *testing.T) {
	offers, err := DecodeOffers([]byte("[" + offerJSON + "]"))
	if err != nil {
		t.Fatalf("DecodeOffers: %v", err)
	}
	if len(offers) != 1 {
		t.Fatalf("expected 1 offer, got %d", len(offers))
	}
	o := offers[0]
	if o.ID != "7" || o.Price.GrandTotal != "180.00" {
		t.Errorf("unexpected offer: %+v", o)
	}
	it, ok := o.FirstItinerary()
	if !ok {
		t.Fatal("expected first itinerary")
	}
	if it.Stops() != 1 {
		t.Errorf("expected 1 stop, got %d", it.Stops())
	}
	if it.Segments[0].Departure.Terminal != "2" {
		t.Errorf("terminal not decoded: %+v", it.Segments[0].Departure)
	}
}

func TestDecodeOffersEnvelope(t *testing.T) {
	offers, err := DecodeOffers([]byte(`{"meta": {"count": 1}, "data": [` + offerJSON + `]}`))
	if err != nil {
		t.Fatalf("DecodeOffers: %v", err)
	}
	if len(offers) != 1 || offers[0].PrimaryAirline() != "LH" {
		t.Fatalf("unexpected offers: %+v", offers)
	}
}

func TestDecodeOffersEnvelopeWithoutData(t *testing.T) {
	offers, err := DecodeOffers([]byte(`{"meta": {"count": 0}}`))
	if err != nil {
		t.Fatalf("DecodeOffers: %v", err)
	}
	if offers == nil || len(offers) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", offers)
	}
}

func TestDecodeOffersRejectsOtherShapes(t *testing.T) {
	for _, body := range []string{"", "   ", `"text"`, "42"} {
		if _, err := DecodeOffers([]byte(body)); !errors.Is(err, ErrUnrecognizedPayload) {
			t.Errorf("body %q: expected ErrUnrecognizedPayload, got %v", body, err)
		}
	}
	if _, err := DecodeOffers([]byte(`[{"id": 1`)); err == nil {
		t.Error("expected error for truncated JSON")
	}
}

func TestDecodeOffersSkipsRecordsThatDoNotFit(t *testing.T) {
	bad := `{"id":"8","price":{"grandTotal":99}}`
	for _, body := range []string{
		"[" + bad + "," + offerJSON + "]",
		`{"data":[` + bad + "," + offerJSON + `]}`,
	} {
		offers, err := DecodeOffers([]byte(body))
		if err != nil {
			t.Fatalf("DecodeOffers: %v", err)
		}
		if len(offers) != 1 || offers[0].ID != "7" {
			t.Errorf("expected only offer 7, got %+v", offers)
		}
	}
}

func TestOfferAccessorsOnEmptyOffer(t *testing.T) {
	var o FlightOffer
	if _, ok := o.FirstItinerary(); ok {
		t.Error("expected no itinerary")
	}
	if _, ok := o.FirstSegment(); ok {
		t.Error("expected no segment")
	}
	if o.PrimaryAirline() != "UNK" {
		t.Errorf("expected UNK, got %q", o.PrimaryAirline())
	}
	if (Itinerary{}).Stops() != 0 {
		t.Error("empty itinerary should report 0 stops")
	}
}

func TestGrandTotal(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"250.00", "250", true},
		{" 180.5 ", "180.5", true},
		{"0", "0", true},
		{"-1.00", "0", false},
		{"", "0", false},
		{"abc", "0", false},
	}

	for _, tt := range tests {
		o := FlightOffer{Price: Price{GrandTotal: tt.in}}
		got, ok := o.GrandTotal()
		if ok != tt.wantOK || got.String() != tt.want {
			t.Errorf("GrandTotal(%q) = %s, %v; want %s, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}
