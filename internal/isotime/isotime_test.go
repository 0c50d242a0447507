package isotime

import (
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in     string
		want   time.Duration
		wantOK bool
	}{
		{"PT2H30M", 2*time.Hour + 30*time.Minute, true},
		{"PT45M", 45 * time.Minute, true},
		{"PT3H", 3 * time.Hour, true},
		{"PT1H5M30S", time.Hour + 5*time.Minute + 30*time.Second, true},
		{"P1DT2H", 26 * time.Hour, true},
		{"pt1h", time.Hour, true},
		{"", 0, false},
		{"PT", 0, false},
		{"P", 0, false},
		{"2H30M", 0, false},
		{"PT2.5H", 0, false},
		{"PT30M2H", 0, false},
		{"PT9999999999999H", 0, false},
		{"P99999999999999999999D", 0, false},
		{"PT2562047H47M", 2562047*time.Hour + 47*time.Minute, true},
		{"PT2562047H48M", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseDuration(tt.in)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := map[string]string{
		"PT2H30M": "2h 30m",
		"PT3H":    "3h",
		"PT50M":   "50m",
		"P1DT1H":  "25h",
		"PTXYZ":   "xyz",
	}
	for in, want := range tests {
		if got := FormatDuration(in); got != want {
			t.Errorf("FormatDuration(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 12, 25, 10, 0, 0, 0, time.UTC)

	for _, in := range []string{"2024-12-25T10:00:00", "2024-12-25T10:00", "2024-12-25T10:00:00Z"} {
		got, ok := ParseTimestamp(in)
		if !ok || !got.Equal(want) {
			t.Errorf("ParseTimestamp(%q) = %v, %v", in, got, ok)
		}
	}

	withOffset, ok := ParseTimestamp("2024-12-25T17:00:00+07:00")
	if !ok || !withOffset.Equal(want) {
		t.Errorf("offset timestamp = %v, %v", withOffset, ok)
	}

	for _, in := range []string{"", "25/12/2024 10:00", "2024-12-25", "tomorrow"} {
		if _, ok := ParseTimestamp(in); ok {
			t.Errorf("ParseTimestamp(%q) should fail", in)
		}
	}
}

func TestFormatClock(t *testing.T) {
	if got := FormatClock("2024-12-25T08:05:00"); got != "08:05" {
		t.Errorf("FormatClock = %q", got)
	}
	if got := FormatClock("bad"); got != "--:--" {
		t.Errorf("FormatClock(bad) = %q", got)
	}
}

func TestEncodeDuration(t *testing.T) {
	tests := map[time.Duration]string{
		2*time.Hour + 30*time.Minute: "PT2H30M",
		3 * time.Hour:                "PT3H",
		45 * time.Minute:             "PT45M",
		30 * time.Second:             "PT0M",
	}
	for in, want := range tests {
		got := EncodeDuration(in)
		if got != want {
			t.Errorf("EncodeDuration(%v) = %q, want %q", in, got, want)
		}
		if d, ok := ParseDuration(got); !ok || d != in.Truncate(time.Minute) {
			t.Errorf("ParseDuration(%q) = %v, %v", got, d, ok)
		}
	}
}
