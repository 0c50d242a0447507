// Package isotime parses the ISO-8601 durations and local timestamps carried by
// flight offers. Malformed input never panics: parsers report ok=false and
// formatters fall back to a readable placeholder.
package isotime

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// P[nD][T[nH][nM][nS]], at least one component.
const maxDuration = time.Duration(math.MaxInt64)

var durationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

func ParseDuration(s string) (time.Duration, bool) {
	m := durationPattern.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(s)))
	if m == nil {
		return 0, false
	}
	if m[1] == "" && m[2] == "" && m[3] == "" && m[4] == "" {
		return 0, false
	}

	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil || n > int64(maxDuration/unit) {
			return 0, false
		}
		part := time.Duration(n) * unit
		if total > maxDuration-part {
			return 0, false
		}
		total += part
	}
	return total, true
}

// FormatDuration renders "PT2H30M" as "2h 30m". Days are folded into hours.
func FormatDuration(s string) string {
	d, ok := ParseDuration(s)
	if !ok {
		return strings.ToLower(strings.Replace(s, "PT", "", 1))
	}
	return FormatMinutes(int(d / time.Minute))
}

func FormatMinutes(total int) string {
	if total < 0 {
		total = 0
	}
	hours, mins := total/60, total%60
	switch {
	case hours == 0:
		return strconv.Itoa(mins) + "m"
	case mins == 0:
		return strconv.Itoa(hours) + "h"
	default:
		return strconv.Itoa(hours) + "h " + strconv.Itoa(mins) + "m"
	}
}

var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
	"2006-01-02T15:04:05Z07:00",
}

// ParseTimestamp reads segment timestamps. Zone-less values are local airport
// time and are parsed as UTC wall clock so they order consistently.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func FormatClock(s string) string {
	t, ok := ParseTimestamp(s)
	if !ok {
		return "--:--"
	}
	return t.Format("15:04")
}

// EncodeDuration renders d in the PT#H#M form used by offers, truncated to minutes.
func EncodeDuration(d time.Duration) string {
	if d < time.Minute {
		return "PT0M"
	}
	total := int(d / time.Minute)
	hours, mins := total/60, total%60
	var b strings.Builder
	b.WriteString("PT")
	if hours > 0 {
		b.WriteString(strconv.Itoa(hours))
		b.WriteString("H")
	}
	if mins > 0 {
		b.WriteString(strconv.Itoa(mins))
		b.WriteString("M")
	}
	return b.String()
}
