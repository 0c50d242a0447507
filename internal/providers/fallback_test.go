package providers

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/dharmasatrya/flightoffers/internal/models"
)

func newFallback(t *testing.T) *FallbackProvider {
	t.Helper()
	p, err := NewFallbackProvider()
	if err != nil {
		t.Fatalf("NewFallbackProvider: %v", err)
	}
	return p
}

func TestFallbackOffersAreDeterministic(t *testing.T) {
	p := newFallback(t)
	req := models.SearchRequest{Origin: "SYD", Destination: "BKK", Date: "2024-12-25", Adults: "1"}

	first := p.Offers(req)
	second := p.Offers(req)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("fallback offers differ between calls")
	}
	if len(first) != 5 {
		t.Fatalf("expected 5 offers, got %d", len(first))
	}

	for _, o := range first {
		it, ok := o.FirstItinerary()
		if !ok || len(it.Segments) == 0 {
			t.Fatalf("offer %s has no segments", o.ID)
		}
		if _, ok := o.GrandTotal(); !ok {
			t.Errorf("offer %s has malformed price %q", o.ID, o.Price.GrandTotal)
		}
		if len(o.ValidatingAirlineCodes) == 0 {
			t.Errorf("offer %s has no validating airline", o.ID)
		}
		if it.Segments[0].Departure.IATACode != "SYD" || it.Segments[len(it.Segments)-1].Arrival.IATACode != "BKK" {
			t.Errorf("offer %s does not fly SYD-BKK", o.ID)
		}
	}
}

func TestFallbackSchedule(t *testing.T) {
	offers := newFallback(t).Offers(models.SearchRequest{Origin: "SIN", Destination: "BKK", Date: "2025-03-01"})

	first := offers[0].Itineraries[0]
	if first.Segments[0].Departure.At != "2025-03-01T08:00:00" || first.Segments[0].Arrival.At != "2025-03-01T10:30:00" {
		t.Errorf("unexpected first segment %+v", first.Segments[0])
	}
	if first.Duration != "PT2H30M" {
		t.Errorf("duration = %s", first.Duration)
	}

	connecting := offers[2].Itineraries[0]
	if connecting.Stops() != 1 {
		t.Fatalf("expected a one-stop connection, got %d stops", connecting.Stops())
	}
	if hub := connecting.Segments[0].Arrival.IATACode; hub != "DXB" {
		t.Errorf("hub = %s, want DXB (SIN is the origin)", hub)
	}
	if connecting.Duration != "PT4H" {
		t.Errorf("connection duration = %s", connecting.Duration)
	}
	if connecting.Segments[1].Departure.At != "2025-03-01T16:45:00" {
		t.Errorf("second leg departs %s", connecting.Segments[1].Departure.At)
	}
}

func TestFallbackDefaultsAndReturnLeg(t *testing.T) {
	p := newFallback(t)

	offers := p.Offers(models.SearchRequest{})
	seg := offers[0].Itineraries[0].Segments[0]
	if seg.Departure.IATACode != "SYD" || seg.Arrival.IATACode != "BKK" || seg.Departure.At != "2024-12-25T08:00:00" {
		t.Errorf("defaults not applied: %+v", seg)
	}
	if !offers[0].OneWay {
		t.Error("expected one-way offers without a return date")
	}

	roundTrip := p.Offers(models.SearchRequest{Origin: "LHR", Destination: "CDG", Date: "2024-12-25", ReturnDate: "2024-12-31"})
	if len(roundTrip[0].Itineraries) != 2 {
		t.Fatalf("expected outbound and return itineraries")
	}
	back := roundTrip[0].Itineraries[1].Segments[0]
	if back.Departure.IATACode != "CDG" || back.Departure.At != "2024-12-31T08:00:00" {
		t.Errorf("unexpected return segment %+v", back)
	}
}

func TestFallbackPayloadShapes(t *testing.T) {
	p := newFallback(t)
	req := models.SearchRequest{Origin: "SYD", Destination: "BKK", Date: "2024-12-25"}

	static := p.Static(req)
	if !bytes.HasPrefix(static.Body, []byte("[")) {
		t.Errorf("static body should be an array: %.40s", static.Body)
	}
	enveloped := p.Enveloped(req)
	if !bytes.HasPrefix(enveloped.Body, []byte(`{"meta":{"count":5}`)) {
		t.Errorf("enveloped body = %.40s", enveloped.Body)
	}

	for _, payload := range []*Payload{static, enveloped} {
		decoded, err := models.DecodeOffers(payload.Body)
		if err != nil {
			t.Fatalf("DecodeOffers: %v", err)
		}
		if !reflect.DeepEqual(decoded, payload.Offers) {
			t.Error("served body does not round-trip to the same offers")
		}
	}
}
