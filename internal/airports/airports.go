package airports

import (
	"sort"
	"strings"
)

type Airport struct {
	Code     string `json:"code"`
	City     string `json:"city"`
	Name     string `json:"name"`
	Timezone string `json:"timezone"`
}

var directory = []Airport{
	// Oceania
	{"SYD", "Sydney", "Kingsford Smith", "Australia/Sydney"},
	{"MEL", "Melbourne", "Tullamarine", "Australia/Melbourne"},
	{"BNE", "Brisbane", "Brisbane Airport", "Australia/Brisbane"},
	{"PER", "Perth", "Perth Airport", "Australia/Perth"},
	{"AKL", "Auckland", "Auckland Airport", "Pacific/Auckland"},

	// Asia
	{"BKK", "Bangkok", "Suvarnabhumi", "Asia/Bangkok"},
	{"SIN", "Singapore", "Changi", "Asia/Singapore"},
	{"KUL", "Kuala Lumpur", "KLIA", "Asia/Kuala_Lumpur"},
	{"HKG", "Hong Kong", "Hong Kong International", "Asia/Hong_Kong"},
	{"HND", "Tokyo", "Haneda", "Asia/Tokyo"},
	{"NRT", "Tokyo", "Narita", "Asia/Tokyo"},
	{"ICN", "Seoul", "Incheon", "Asia/Seoul"},
	{"DEL", "Delhi", "Indira Gandhi International", "Asia/Kolkata"},
	{"CGK", "Jakarta", "Soekarno-Hatta", "Asia/Jakarta"},
	{"SUB", "Surabaya", "Juanda", "Asia/Jakarta"},
	{"DPS", "Bali", "Ngurah Rai", "Asia/Makassar"},
	{"UPG", "Makassar", "Sultan Hasanuddin", "Asia/Makassar"},

	// Middle East
	{"DXB", "Dubai", "Dubai International", "Asia/Dubai"},
	{"DOH", "Doha", "Hamad International", "Asia/Qatar"},
	{"IST", "Istanbul", "Istanbul Airport", "Europe/Istanbul"},

	// Europe
	{"LHR", "London", "Heathrow", "Europe/London"},
	{"CDG", "Paris", "Charles de Gaulle", "Europe/Paris"},
	{"FRA", "Frankfurt", "Frankfurt am Main", "Europe/Berlin"},
	{"AMS", "Amsterdam", "Schiphol", "Europe/Amsterdam"},
	{"MAD", "Madrid", "Barajas", "Europe/Madrid"},

	// Americas
	{"JFK", "New York", "John F. Kennedy", "America/New_York"},
	{"LAX", "Los Angeles", "Los Angeles International", "America/Los_Angeles"},
	{"SFO", "San Francisco", "San Francisco International", "America/Los_Angeles"},
	{"ORD", "Chicago", "O'Hare", "America/Chicago"},
	{"YVR", "Vancouver", "Vancouver International", "America/Vancouver"},
}

var byCode = func() map[string]Airport {
	m := make(map[string]Airport, len(directory))
	for _, a := range directory {
		m[a.Code] = a
	}
	return m
}()

func Lookup(code string) (Airport, bool) {
	a, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	return a, ok
}

// IsIATACode reports whether s has the shape of an IATA airport code. Unknown
// codes are allowed: the directory is only a convenience list.
func IsIATACode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Search matches the query against code, city and name. Code matches rank
// first, then city, then name; ties keep directory order.
func Search(query string, limit int) []Airport {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return limitAirports(directory, limit)
	}

	type hit struct {
		airport Airport
		rank    int
	}
	var hits []hit
	for _, a := range directory {
		switch {
		case strings.HasPrefix(strings.ToLower(a.Code), q):
			hits = append(hits, hit{a, 0})
		case strings.Contains(strings.ToLower(a.City), q):
			hits = append(hits, hit{a, 1})
		case strings.Contains(strings.ToLower(a.Name), q):
			hits = append(hits, hit{a, 2})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].rank < hits[j].rank
	})

	result := make([]Airport, 0, len(hits))
	for _, h := range hits {
		result = append(result, h.airport)
	}
	return limitAirports(result, limit)
}

// Label renders "SYD - Sydney", or just the code when it is not in the directory.
func Label(code string) string {
	if a, ok := Lookup(code); ok {
		return a.Code + " - " + a.City
	}
	return strings.ToUpper(code)
}

func limitAirports(list []Airport, limit int) []Airport {
	if limit <= 0 || limit >= len(list) {
		out := make([]Airport, len(list))
		copy(out, list)
		return out
	}
	out := make([]Airport, limit)
	copy(out, list[:limit])
	return out
}
