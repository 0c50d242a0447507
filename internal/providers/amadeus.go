package providers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/dharmasatrya/flightoffers/internal/models"
	"github.com/dharmasatrya/flightoffers/internal/ratelimit"
)

const (
	tokenPath  = "/v1/security/oauth2/token"
	searchPath = "/v2/shopping/flight-offers"

	maxResponseBytes = 8 << 20
)

type AmadeusConfig struct {
	ClientID      string
	ClientSecret  string
	BaseURL       string
	MaxResults    int
	Currency      string
	AuthTimeout   time.Duration
	SearchTimeout time.Duration
	HTTPClient    *http.Client
	Limiter       *ratelimit.StageLimiter
}

func DefaultAmadeusConfig() AmadeusConfig {
	return AmadeusConfig{
		BaseURL:       "https://test.api.amadeus.com",
		MaxResults:    10,
		Currency:      "USD",
		AuthTimeout:   5 * time.Second,
		SearchTimeout: 10 * time.Second,
	}
}

// AmadeusProvider exchanges client credentials for a bearer token and queries
// the flight-offers search. Each stage is attempted once.
type AmadeusProvider struct {
	config      AmadeusConfig
	credentials clientcredentials.Config
	client      *http.Client
}

func NewAmadeusProvider(cfg AmadeusConfig) *AmadeusProvider {
	defaults := DefaultAmadeusConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaults.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaults.MaxResults
	}
	if cfg.Currency == "" {
		cfg.Currency = defaults.Currency
	}
	if cfg.AuthTimeout <= 0 {
		cfg.AuthTimeout = defaults.AuthTimeout
	}
	if cfg.SearchTimeout <= 0 {
		cfg.SearchTimeout = defaults.SearchTimeout
	}

	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}

	return &AmadeusProvider{
		config: cfg,
		credentials: clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.BaseURL + tokenPath,
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		client: client,
	}
}

func (p *AmadeusProvider) Name() string {
	return "amadeus"
}

func (p *AmadeusProvider) Search(ctx context.Context, req models.SearchRequest) (*Payload, error) {
	token, err := p.token(ctx)
	if err != nil {
		return nil, err
	}
	return p.search(ctx, token, req)
}

func (p *AmadeusProvider) token(ctx context.Context) (string, error) {
	if p.config.Limiter != nil {
		if err := p.config.Limiter.Wait(ctx, StageAuth); err != nil {
			return "", NewProviderError(p.Name(), StageAuth, 0, err)
		}
	}

	authCtx, cancel := context.WithTimeout(ctx, p.config.AuthTimeout)
	defer cancel()
	authCtx = context.WithValue(authCtx, oauth2.HTTPClient, p.client)

	tok, err := p.credentials.Token(authCtx)
	if err != nil {
		status := 0
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) && retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return "", NewProviderError(p.Name(), StageAuth, status, err)
	}
	return tok.AccessToken, nil
}

func (p *AmadeusProvider) search(ctx context.Context, token string, req models.SearchRequest) (*Payload, error) {
	if p.config.Limiter != nil {
		if err := p.config.Limiter.Wait(ctx, StageSearch); err != nil {
			return nil, NewProviderError(p.Name(), StageSearch, 0, err)
		}
	}

	searchCtx, cancel := context.WithTimeout(ctx, p.config.SearchTimeout)
	defer cancel()

	endpoint := p.config.BaseURL + searchPath + "?" + p.QueryParams(req).Encode()
	httpReq, err := http.NewRequestWithContext(searchCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, NewProviderError(p.Name(), StageSearch, 0, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	httpReq.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, NewProviderError(p.Name(), StageSearch, 0, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, NewProviderError(p.Name(), StageSearch, 0, err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, NewProviderError(p.Name(), StageSearch, resp.StatusCode, ErrUnexpectedStatus)
	}

	var env models.RawEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, NewProviderError(p.Name(), StageSearch, 0, err)
	}
	if len(env.Data) == 0 {
		return nil, NewProviderError(p.Name(), StageSearch, 0, ErrEmptyResult)
	}

	// The body is served as received; only records that decode take part in filtering.
	return &Payload{Body: body, Offers: models.DecodeRecords(env.Data)}, nil
}

// QueryParams maps a normalized request to upstream query parameters. Optional
// values are sent only when present; max and currencyCode are always set.
func (p *AmadeusProvider) QueryParams(req models.SearchRequest) url.Values {
	params := url.Values{}
	params.Set("originLocationCode", req.Origin)
	params.Set("destinationLocationCode", req.Destination)
	params.Set("departureDate", req.Date)

	adults := req.Adults
	if adults == "" {
		adults = "1"
	}
	params.Set("adults", adults)

	if req.ReturnDate != "" {
		params.Set("returnDate", req.ReturnDate)
	}
	if req.Children != "" {
		params.Set("children", req.Children)
	}
	if req.Infants != "" {
		params.Set("infants", req.Infants)
	}
	if req.TravelClass != "" {
		params.Set("travelClass", req.TravelClass)
	}

	params.Set("max", strconv.Itoa(p.config.MaxResults))
	params.Set("currencyCode", p.config.Currency)
	return params
}
