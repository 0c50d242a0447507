package providers

import (
	"context"
	"errors"
	"strconv"

	"github.com/dharmasatrya/flightoffers/internal/models"
	"github.com/dharmasatrya/flightoffers/internal/ratelimit"
)

const (
	StageAuth   = ratelimit.StageAuth
	StageSearch = ratelimit.StageSearch
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status")
	ErrEmptyResult      = errors.New("no offers returned")
)

type Provider interface {
	Name() string
	Search(ctx context.Context, req models.SearchRequest) (*Payload, error)
}

// Payload is a result set together with the exact bytes to serve for it.
type Payload struct {
	Body   []byte
	Offers []models.FlightOffer
}

type ProviderError struct {
	Provider   string
	Stage      string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	msg := e.Provider + " " + e.Stage
	if e.StatusCode != 0 {
		msg += " (" + strconv.Itoa(e.StatusCode) + ")"
	}
	return msg + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider, stage string, statusCode int, err error) *ProviderError {
	return &ProviderError{
		Provider:   provider,
		Stage:      stage,
		StatusCode: statusCode,
		Err:        err,
	}
}
