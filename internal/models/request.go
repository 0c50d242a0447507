package models

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	TravelClassEconomy        = "ECONOMY"
	TravelClassPremiumEconomy = "PREMIUM_ECONOMY"
	TravelClassBusiness       = "BUSINESS"
	TravelClassFirst          = "FIRST"
)

var travelClasses = map[string]bool{
	TravelClassEconomy:        true,
	TravelClassPremiumEconomy: true,
	TravelClassBusiness:       true,
	TravelClassFirst:          true,
}

func IsTravelClass(s string) bool {
	return travelClasses[s]
}

// SearchRequest mirrors the query parameters of GET /search. Counts stay strings
// because they are forwarded to the upstream as given.
type SearchRequest struct {
	Origin      string `json:"origin" query:"origin"`
	Destination string `json:"destination" query:"destination"`
	Date        string `json:"date" query:"date"`
	ReturnDate  string `json:"returnDate,omitempty" query:"returnDate"`
	Adults      string `json:"adults,omitempty" query:"adults"`
	Children    string `json:"children,omitempty" query:"children"`
	Infants     string `json:"infants,omitempty" query:"infants"`
	TravelClass string `json:"travelClass,omitempty" query:"travelClass"`
}

func SearchRequestFromQuery(q url.Values) SearchRequest {
	return SearchRequest{
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
		Date:        q.Get("date"),
		ReturnDate:  q.Get("returnDate"),
		Adults:      q.Get("adults"),
		Children:    q.Get("children"),
		Infants:     q.Get("infants"),
		TravelClass: q.Get("travelClass"),
	}
}

func (r *SearchRequest) Validate() error {
	if strings.TrimSpace(r.Origin) == "" {
		return ErrMissingOrigin
	}
	if strings.TrimSpace(r.Destination) == "" {
		return ErrMissingDestination
	}
	if strings.TrimSpace(r.Date) == "" {
		return ErrMissingDate
	}
	return nil
}

// Normalize trims and upper-cases codes, defaults adults to "1" and drops optional
// values the upstream would reject.
func (r *SearchRequest) Normalize() {
	r.Origin = strings.ToUpper(strings.TrimSpace(r.Origin))
	r.Destination = strings.ToUpper(strings.TrimSpace(r.Destination))
	r.Date = strings.TrimSpace(r.Date)
	r.ReturnDate = strings.TrimSpace(r.ReturnDate)

	if n, ok := parseCount(r.Adults); ok && n >= 1 {
		r.Adults = strconv.Itoa(n)
	} else {
		r.Adults = "1"
	}
	r.Children = optionalCount(r.Children)
	r.Infants = optionalCount(r.Infants)

	r.TravelClass = strings.ToUpper(strings.TrimSpace(r.TravelClass))
	if !IsTravelClass(r.TravelClass) {
		r.TravelClass = ""
	}
}

func parseCount(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}

func optionalCount(s string) string {
	n, ok := parseCount(s)
	if !ok || n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin      ValidationError = "origin is required"
	ErrMissingDestination ValidationError = "destination is required"
	ErrMissingDate        ValidationError = "date is required"
)
