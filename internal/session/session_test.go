package session

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/dharmasatrya/flightoffers/internal/filter"
	"github.com/dharmasatrya/flightoffers/internal/gateway"
	"github.com/dharmasatrya/flightoffers/internal/models"
)

func offer(id, price, airline string, departure string, segments int) models.FlightOffer {
	segs := make([]models.Segment, segments)
	for i := range segs {
		segs[i] = models.Segment{
			Departure:   models.Endpoint{IATACode: "SYD", At: departure},
			Arrival:     models.Endpoint{IATACode: "BKK", At: departure},
			CarrierCode: airline,
		}
	}
	return models.FlightOffer{
		ID:                     id,
		Itineraries:            []models.Itinerary{{Duration: "PT2H", Segments: segs}},
		Price:                  models.Price{Currency: "USD", Total: price, GrandTotal: price},
		ValidatingAirlineCodes: []string{airline},
	}
}

func sampleOffers() []models.FlightOffer {
	return []models.FlightOffer{
		offer("1", "120.50", "QF", "2024-12-25T14:00:00", 1),
		offer("2", "300.00", "SQ", "2024-12-25T08:00:00", 2),
		offer("3", "180.00", "QF", "2024-12-25T11:00:00", 3),
	}
}

type fixedSearcher struct {
	result gateway.Result
}

func (f fixedSearcher) Search(ctx context.Context, req models.SearchRequest) gateway.Result {
	return f.result
}

// blockingSearcher returns its result only once release is closed.
type blockingSearcher struct {
	started chan struct{}
	release chan struct{}
	result  gateway.Result
}

func (b blockingSearcher) Search(ctx context.Context, req models.SearchRequest) gateway.Result {
	close(b.started)
	<-b.release
	return b.result
}

func searched(t *testing.T, offers []models.FlightOffer) *Session {
	t.Helper()
	s := New("test")
	ok := s.Search(context.Background(), fixedSearcher{result: gateway.Result{Offers: offers, Source: gateway.SourceLive}}, models.SearchRequest{})
	if !ok {
		t.Fatal("search was not applied")
	}
	return s
}

func TestSearch_ResetsBoundsAndFilters(t *testing.T) {
	s := searched(t, sampleOffers())
	if err := s.SetFilters(filter.Config{MaxPrice: 150, Stops: []string{"0"}, Airlines: []string{"QF"}}); err != nil {
		t.Fatalf("SetFilters: %v", err)
	}

	next := []models.FlightOffer{offer("9", "410.10", "EK", "2024-12-25T09:00:00", 1)}
	s.Search(context.Background(), fixedSearcher{result: gateway.Result{Offers: next, Source: gateway.SourceFallback, Reason: gateway.ReasonMissingCredentials}}, models.SearchRequest{})

	v := s.View("", "")
	if v.Bounds.MaxPrice != 411 {
		t.Errorf("bounds max = %v, want 411", v.Bounds.MaxPrice)
	}
	if v.Filters.MaxPrice != 411 || len(v.Filters.Stops) != 0 || len(v.Filters.Airlines) != 0 {
		t.Errorf("filters not reset: %+v", v.Filters)
	}
	if v.Source != gateway.SourceFallback || v.Reason != gateway.ReasonMissingCredentials {
		t.Errorf("source/reason = %s/%s", v.Source, v.Reason)
	}
	if v.Count != 1 {
		t.Errorf("count = %d, want 1", v.Count)
	}
}

func TestView_DefaultFiltersKeepEverything(t *testing.T) {
	s := searched(t, sampleOffers())

	v := s.View("", "")
	if v.Count != 3 || v.Total != 3 {
		t.Fatalf("count/total = %d/%d, want 3/3", v.Count, v.Total)
	}
	for i, want := range []string{"1", "2", "3"} {
		if v.Offers[i].ID != want {
			t.Errorf("offers[%d] = %s, want %s", i, v.Offers[i].ID, want)
		}
	}
	if v.Message != "" {
		t.Errorf("unexpected message %q", v.Message)
	}
	if len(v.PriceTrend) != 3 || v.PriceTrend[0].OfferID != "2" {
		t.Errorf("price trend not ordered by departure: %+v", v.PriceTrend)
	}
}

func TestView_NoMatchesMessage(t *testing.T) {
	s := searched(t, sampleOffers())
	s.ToggleAirline("EK")

	v := s.View("", "")
	if v.Count != 0 {
		t.Fatalf("count = %d, want 0", v.Count)
	}
	if v.Message != MessageNoMatches {
		t.Errorf("message = %q, want %q", v.Message, MessageNoMatches)
	}
	if len(v.PriceTrend) != 0 {
		t.Errorf("trend should be empty, got %d points", len(v.PriceTrend))
	}
}

func TestView_EmptyResultHasNoMessage(t *testing.T) {
	v := New("empty").View("", "")
	if v.Message != "" || v.Count != 0 || v.Offers == nil {
		t.Errorf("unexpected empty view: %+v", v)
	}
}

func TestView_SortDoesNotChangeFilterOrder(t *testing.T) {
	s := searched(t, sampleOffers())

	v := s.View(filter.SortPrice, "desc")
	want := []string{"2", "3", "1"}
	for i, id := range want {
		if v.Offers[i].ID != id {
			t.Errorf("offers[%d] = %s, want %s", i, v.Offers[i].ID, id)
		}
	}

	v = s.View("", "")
	if v.Offers[0].ID != "1" {
		t.Errorf("unsorted view reordered: first = %s", v.Offers[0].ID)
	}
}

func TestSetMaxPrice(t *testing.T) {
	s := searched(t, sampleOffers())

	if err := s.SetMaxPrice(-1); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("negative price error = %v", err)
	}
	if err := s.SetMaxPrice(10_000); err != nil {
		t.Fatal(err)
	}
	if got := s.Filters().MaxPrice; got != 300 {
		t.Errorf("max price clamped to %v, want 300", got)
	}

	if err := s.SetMaxPrice(150); err != nil {
		t.Fatal(err)
	}
	v := s.View("", "")
	if v.Count != 1 || v.Offers[0].ID != "1" {
		t.Errorf("expected only offer 1 under 150, got %d offers", v.Count)
	}
}

func TestRejectsNaNMaxPrice(t *testing.T) {
	s := searched(t, sampleOffers())

	if err := s.SetMaxPrice(math.NaN()); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("SetMaxPrice(NaN) error = %v", err)
	}
	if err := s.SetFilters(filter.Config{MaxPrice: math.NaN()}); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("SetFilters(NaN) error = %v", err)
	}
	if got := s.Filters().MaxPrice; got != 300 {
		t.Errorf("max price changed to %v", got)
	}

	v := s.View("", "")
	if v.Count != 3 {
		t.Errorf("count = %d, want 3", v.Count)
	}
}

func TestToggleStop(t *testing.T) {
	s := searched(t, sampleOffers())

	if err := s.ToggleStop("3"); !errors.Is(err, ErrInvalidStop) {
		t.Errorf("invalid bucket error = %v", err)
	}
	if err := s.ToggleStop("2+"); err != nil {
		t.Fatal(err)
	}
	v := s.View("", "")
	if v.Count != 1 || v.Offers[0].ID != "3" {
		t.Fatalf("2+ filter kept %d offers", v.Count)
	}

	if err := s.ToggleStop("2+"); err != nil {
		t.Fatal(err)
	}
	if got := s.Filters().Stops; len(got) != 0 {
		t.Errorf("second toggle should clear the bucket, got %v", got)
	}
}

func TestToggleAirline(t *testing.T) {
	s := searched(t, sampleOffers())

	s.ToggleAirline("qf")
	v := s.View("", "")
	if v.Count != 2 {
		t.Errorf("QF filter kept %d offers, want 2", v.Count)
	}

	s.ToggleAirline("QF")
	s.ToggleAirline("  ")
	if got := s.Filters().Airlines; len(got) != 0 {
		t.Errorf("airlines = %v, want empty", got)
	}
}

func TestSetFilters_Validation(t *testing.T) {
	s := searched(t, sampleOffers())

	if err := s.SetFilters(filter.Config{MaxPrice: 100, Stops: []string{"x"}}); !errors.Is(err, ErrInvalidStop) {
		t.Errorf("error = %v, want ErrInvalidStop", err)
	}
	if err := s.SetFilters(filter.Config{MaxPrice: -5}); !errors.Is(err, ErrInvalidPrice) {
		t.Errorf("error = %v, want ErrInvalidPrice", err)
	}

	if err := s.SetFilters(filter.Config{MaxPrice: 200, Stops: []string{"0", "0", "1"}, Airlines: []string{"qf", "QF"}}); err != nil {
		t.Fatal(err)
	}
	got := s.Filters()
	if len(got.Stops) != 2 || len(got.Airlines) != 1 || got.Airlines[0] != "QF" {
		t.Errorf("filters not deduplicated: %+v", got)
	}
}

func TestResetFilters(t *testing.T) {
	s := searched(t, sampleOffers())
	s.ToggleAirline("SQ")
	s.SetMaxPrice(50)

	s.ResetFilters()

	got := s.Filters()
	if got.MaxPrice != 300 || len(got.Airlines) != 0 || len(got.Stops) != 0 {
		t.Errorf("reset filters = %+v", got)
	}
}

func TestFiltersReturnsCopy(t *testing.T) {
	s := searched(t, sampleOffers())
	s.ToggleAirline("QF")

	got := s.Filters()
	got.Airlines[0] = "XX"

	if s.Filters().Airlines[0] != "QF" {
		t.Error("Filters exposed internal state")
	}
}

func TestSearch_DiscardsStaleResponse(t *testing.T) {
	s := New("race")
	slow := blockingSearcher{
		started: make(chan struct{}),
		release: make(chan struct{}),
		result:  gateway.Result{Offers: []models.FlightOffer{offer("old", "999.00", "BA", "2024-12-25T06:00:00", 1)}},
	}

	applied := make(chan bool)
	go func() {
		applied <- s.Search(context.Background(), slow, models.SearchRequest{})
	}()
	<-slow.started

	if !s.InFlight() {
		t.Error("expected search to be in flight")
	}

	fresh := []models.FlightOffer{offer("new", "100.00", "QF", "2024-12-25T07:00:00", 1)}
	if !s.Search(context.Background(), fixedSearcher{result: gateway.Result{Offers: fresh}}, models.SearchRequest{}) {
		t.Fatal("latest search was not applied")
	}

	close(slow.release)
	if <-applied {
		t.Error("stale response was applied")
	}

	v := s.View("", "")
	if v.Total != 1 || v.Offers[0].ID != "new" {
		t.Errorf("result set overwritten by stale response: %+v", v.Offers)
	}
	if v.Loading {
		t.Error("loading should be false once the latest search completed")
	}
}
