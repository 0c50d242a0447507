// Package gateway turns a search request into a usable result set. Every failure
// (missing input, missing credentials, upstream errors, empty results) is absorbed
// and replaced by the deterministic fallback set; callers never see an error.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/dharmasatrya/flightoffers/internal/cache"
	"github.com/dharmasatrya/flightoffers/internal/models"
	"github.com/dharmasatrya/flightoffers/internal/providers"
)

type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

type Reason string

const (
	ReasonNone                  Reason = ""
	ReasonMissingInput          Reason = "missing_input"
	ReasonMissingCredentials    Reason = "missing_credentials"
	ReasonUpstreamAuthFailure   Reason = "upstream_auth_failure"
	ReasonUpstreamSearchFailure Reason = "upstream_search_failure"
	ReasonUpstreamEmptyResult   Reason = "upstream_empty_result"
	ReasonUnexpectedError       Reason = "unexpected_error"
)

var reasons = []Reason{
	ReasonMissingInput,
	ReasonMissingCredentials,
	ReasonUpstreamAuthFailure,
	ReasonUpstreamSearchFailure,
	ReasonUpstreamEmptyResult,
	ReasonUnexpectedError,
}

type Result struct {
	Offers   []models.FlightOffer
	Body     []byte
	Source   Source
	Reason   Reason
	CacheHit bool
}

type Config struct {
	// Upstream is nil when credentials are not configured.
	Upstream providers.Provider
	Fallback *providers.FallbackProvider
	Cache    cache.Cache
	Logger   *slog.Logger
}

type Gateway struct {
	upstream providers.Provider
	fallback *providers.FallbackProvider
	cache    cache.Cache
	logger   *slog.Logger

	live      atomic.Int64
	cacheHits atomic.Int64
	fallbacks map[Reason]*atomic.Int64
}

func New(cfg Config) (*Gateway, error) {
	fallback := cfg.Fallback
	if fallback == nil {
		var err error
		if fallback, err = providers.NewFallbackProvider(); err != nil {
			return nil, err
		}
	}
	c := cfg.Cache
	if c == nil {
		c = cache.NewNoOpCache()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	counters := make(map[Reason]*atomic.Int64, len(reasons))
	for _, r := range reasons {
		counters[r] = &atomic.Int64{}
	}

	return &Gateway{
		upstream:  cfg.Upstream,
		fallback:  fallback,
		cache:     c,
		logger:    logger.With("component", "gateway"),
		fallbacks: counters,
	}, nil
}

func (g *Gateway) Search(ctx context.Context, req models.SearchRequest) Result {
	req.Normalize()
	if err := req.Validate(); err != nil {
		g.logger.WarnContext(ctx, "missing required search fields, serving fallback",
			"reason", ReasonMissingInput, "error", err)
		return g.static(req, ReasonMissingInput)
	}

	if g.upstream == nil {
		g.logger.WarnContext(ctx, "upstream credentials not configured, serving fallback",
			"reason", ReasonMissingCredentials)
		return g.static(req, ReasonMissingCredentials)
	}

	if body, ok := g.cache.Get(ctx, req); ok {
		if offers, err := models.DecodeOffers(body); err == nil {
			g.live.Add(1)
			g.cacheHits.Add(1)
			return Result{Offers: offers, Body: body, Source: SourceLive, CacheHit: true}
		}
	}

	payload, err := g.upstream.Search(ctx, req)
	if err != nil {
		return g.absorb(ctx, req, err)
	}

	if err := g.cache.Set(ctx, req, payload.Body); err != nil {
		g.logger.WarnContext(ctx, "failed to cache upstream payload", "error", err)
	}

	g.live.Add(1)
	return Result{Offers: payload.Offers, Body: payload.Body, Source: SourceLive}
}

func (g *Gateway) absorb(ctx context.Context, req models.SearchRequest, err error) Result {
	reason := Classify(err)
	switch reason {
	case ReasonUpstreamEmptyResult:
		g.logger.WarnContext(ctx, "upstream returned no offers, serving fallback",
			"reason", reason, "origin", req.Origin, "destination", req.Destination, "date", req.Date)
		return g.enveloped(req, reason)
	case ReasonUpstreamSearchFailure:
		g.logger.ErrorContext(ctx, "upstream search failed, serving fallback", "reason", reason, "error", err)
		return g.enveloped(req, reason)
	default:
		g.logger.ErrorContext(ctx, "upstream call failed, serving fallback", "reason", reason, "error", err)
		return g.static(req, reason)
	}
}

// Classify maps an upstream error to the fallback reason it produces.
func Classify(err error) Reason {
	if err == nil {
		return ReasonNone
	}
	if errors.Is(err, providers.ErrEmptyResult) {
		return ReasonUpstreamEmptyResult
	}

	var perr *providers.ProviderError
	if errors.As(err, &perr) && perr.StatusCode != 0 {
		switch perr.Stage {
		case providers.StageAuth:
			return ReasonUpstreamAuthFailure
		case providers.StageSearch:
			return ReasonUpstreamSearchFailure
		}
	}
	return ReasonUnexpectedError
}

func (g *Gateway) static(req models.SearchRequest, reason Reason) Result {
	g.fallbacks[reason].Add(1)
	payload := g.fallback.Static(req)
	return Result{Offers: payload.Offers, Body: payload.Body, Source: SourceFallback, Reason: reason}
}

func (g *Gateway) enveloped(req models.SearchRequest, reason Reason) Result {
	g.fallbacks[reason].Add(1)
	payload := g.fallback.Enveloped(req)
	return Result{Offers: payload.Offers, Body: payload.Body, Source: SourceFallback, Reason: reason}
}

type Stats struct {
	Live      int64            `json:"live"`
	CacheHits int64            `json:"cache_hits"`
	Fallbacks map[Reason]int64 `json:"fallbacks"`
}

func (g *Gateway) Stats() Stats {
	s := Stats{
		Live:      g.live.Load(),
		CacheHits: g.cacheHits.Load(),
		Fallbacks: make(map[Reason]int64, len(g.fallbacks)),
	}
	for r, c := range g.fallbacks {
		s.Fallbacks[r] = c.Load()
	}
	return s
}
