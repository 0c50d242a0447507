// Package session holds the per-user search state: the current result set, the
// bounds derived from it and the filter configuration the user has applied.
package session

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"

	"github.com/dharmasatrya/flightoffers/internal/filter"
	"github.com/dharmasatrya/flightoffers/internal/gateway"
	"github.com/dharmasatrya/flightoffers/internal/models"
)

const MessageNoMatches = "no flights match filters"

var (
	ErrInvalidStop  = errors.New("stop filter must be one of 0, 1, 2+")
	ErrInvalidPrice = errors.New("max price must be a non-negative number")
)

// Searcher is satisfied by *gateway.Gateway.
type Searcher interface {
	Search(ctx context.Context, req models.SearchRequest) gateway.Result
}

type Session struct {
	id string

	mu       sync.Mutex
	seq      uint64
	inFlight bool
	request  models.SearchRequest
	offers   []models.FlightOffer
	source   gateway.Source
	reason   gateway.Reason
	bounds   filter.Bounds
	filters  filter.Config
}

func New(id string) *Session {
	bounds := filter.DeriveBounds(nil)
	return &Session{
		id:      id,
		offers:  []models.FlightOffer{},
		bounds:  bounds,
		filters: filter.DefaultConfig(bounds),
	}
}

func (s *Session) ID() string {
	return s.id
}

// Search runs req through searcher and, if no newer search was started in the
// meantime, replaces the result set and resets the filters. It reports whether
// the response was applied.
func (s *Session) Search(ctx context.Context, searcher Searcher, req models.SearchRequest) bool {
	s.mu.Lock()
	s.seq++
	token := s.seq
	s.inFlight = true
	s.mu.Unlock()

	res := searcher.Search(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.seq {
		return false
	}

	offers := res.Offers
	if offers == nil {
		offers = []models.FlightOffer{}
	}
	s.inFlight = false
	s.request = req
	s.offers = offers
	s.source = res.Source
	s.reason = res.Reason
	s.bounds = filter.DeriveBounds(offers)
	s.filters = filter.DefaultConfig(s.bounds)
	return true
}

func (s *Session) SetMaxPrice(price float64) error {
	if !validPrice(price) {
		return ErrInvalidPrice
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters.MaxPrice = s.clampPrice(price)
	return nil
}

func (s *Session) ToggleStop(bucket string) error {
	bucket = strings.TrimSpace(bucket)
	if !filter.IsStopBucket(bucket) {
		return ErrInvalidStop
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters.Stops = toggle(s.filters.Stops, bucket)
	return nil
}

func (s *Session) ToggleAirline(code string) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters.Airlines = toggle(s.filters.Airlines, code)
}

// SetFilters replaces the whole filter configuration. Duplicate selections are
// collapsed and the price is clamped to the current bounds.
func (s *Session) SetFilters(cfg filter.Config) error {
	if !validPrice(cfg.MaxPrice) {
		return ErrInvalidPrice
	}
	stops := make([]string, 0, len(cfg.Stops))
	for _, b := range cfg.Stops {
		b = strings.TrimSpace(b)
		if !filter.IsStopBucket(b) {
			return ErrInvalidStop
		}
		if !contains(stops, b) {
			stops = append(stops, b)
		}
	}
	airlines := make([]string, 0, len(cfg.Airlines))
	for _, a := range cfg.Airlines {
		a = strings.ToUpper(strings.TrimSpace(a))
		if a != "" && !contains(airlines, a) {
			airlines = append(airlines, a)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = filter.Config{
		MaxPrice: s.clampPrice(cfg.MaxPrice),
		Stops:    stops,
		Airlines: airlines,
	}
	return nil
}

func (s *Session) ResetFilters() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filters = filter.DefaultConfig(s.bounds)
}

func (s *Session) Filters() filter.Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	return copyConfig(s.filters)
}

func (s *Session) InFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.inFlight
}

type View struct {
	ID         string               `json:"id"`
	Request    models.SearchRequest `json:"request"`
	Offers     []models.FlightOffer `json:"offers"`
	Count      int                  `json:"count"`
	Total      int                  `json:"total"`
	Bounds     filter.Bounds        `json:"bounds"`
	Filters    filter.Config        `json:"filters"`
	PriceTrend []filter.PricePoint  `json:"priceTrend"`
	Loading    bool                 `json:"loading"`
	Source     gateway.Source       `json:"source,omitempty"`
	Reason     gateway.Reason       `json:"reason,omitempty"`
	Message    string               `json:"message,omitempty"`
}

// View derives the filtered offers and price trend from the current state. The
// optional sort is applied to the displayed list only.
func (s *Session) View(sortBy, order string) View {
	s.mu.Lock()
	offers := s.offers
	cfg := copyConfig(s.filters)
	v := View{
		ID:      s.id,
		Request: s.request,
		Total:   len(offers),
		Bounds:  filter.Bounds{MaxPrice: s.bounds.MaxPrice, Airlines: append([]string{}, s.bounds.Airlines...)},
		Filters: cfg,
		Loading: s.inFlight,
		Source:  s.source,
		Reason:  s.reason,
	}
	s.mu.Unlock()

	filtered := filter.Apply(offers, cfg)
	v.PriceTrend = filter.PriceTrend(filtered)
	v.Offers = filter.Sort(filtered, sortBy, order)
	v.Count = len(v.Offers)
	if v.Total > 0 && v.Count == 0 {
		v.Message = MessageNoMatches
	}
	return v
}

func validPrice(price float64) bool {
	return !math.IsNaN(price) && price >= 0
}

func (s *Session) clampPrice(price float64) float64 {
	if price > s.bounds.MaxPrice {
		return s.bounds.MaxPrice
	}
	return price
}

func toggle(values []string, v string) []string {
	out := make([]string, 0, len(values)+1)
	found := false
	for _, existing := range values {
		if existing == v {
			found = true
			continue
		}
		out = append(out, existing)
	}
	if !found {
		out = append(out, v)
	}
	return out
}

func contains(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}

func copyConfig(cfg filter.Config) filter.Config {
	return filter.Config{
		MaxPrice: cfg.MaxPrice,
		Stops:    append([]string{}, cfg.Stops...),
		Airlines: append([]string{}, cfg.Airlines...),
	}
}
