// Package timeparse normalizes the heterogeneous date and time strings that
// arrive in AI-generated event blocks. Every exported function is total:
// malformed input resolves to a usable fallback instead of an error, so one
// bad record never blocks the rest of a batch.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// FixedOffset is the deployment offset appended to every canonical instant.
// Callers never supply timezone information, so this is a constant rather
// than something inferred from input.
const FixedOffset = "-05:00"

var fixedZone = time.FixedZone("UTC-05:00", -5*60*60)

var (
	isoDateRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	clock24Re = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	clock12Re = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
)

// fallbackLayouts are tried when none of the three primary date shapes match.
var fallbackLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"Jan 2, 2006",
}

// parseDate resolves a raw date string to a calendar date. The second result
// reports whether the input actually parsed; on failure the current time is
// returned so callers stay total.
func parseDate(date string) (time.Time, bool) {
	date = strings.TrimSpace(date)

	// Strict YYYY-MM-DD is built from components. Parsing it as an instant
	// and converting zones would shift the calendar date by a day.
	if m := isoDateRe.FindStringSubmatch(date); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		if t.Year() == year && int(t.Month()) == month && t.Day() == day {
			return t, true
		}
		return time.Now(), false
	}

	layouts := append([]string{"January 2, 2006", "1/2/2006"}, fallbackLayouts...)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, date); err == nil {
			return t, true
		}
	}
	return time.Now(), false
}

// DisplayDate renders a raw date string in a long human-readable form,
// falling back to today when the input cannot be parsed.
func DisplayDate(date string) string {
	t, _ := parseDate(date)
	return t.Format("Monday, January 2, 2006")
}

// DisplayTime renders a raw time string in 12-hour form. 12-hour input
// passes through untouched, 24-hour input is converted (0 becomes 12 AM,
// 13-23 subtract 12 and become PM), anything else is returned unmodified.
func DisplayTime(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if clock12Re.MatchString(trimmed) {
		return trimmed
	}
	m := clock24Re.FindStringSubmatch(trimmed)
	if m == nil {
		return raw
	}
	hour, _ := strconv.Atoi(m[1])
	if hour > 23 {
		return raw
	}
	meridiem := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		hour -= 12
		meridiem = "PM"
	}
	return fmt.Sprintf("%d:%s %s", hour, m[2], meridiem)
}

// Instant resolves a raw date and time pair to a concrete time in the fixed
// deployment zone. An unparseable time resolves to midday so the date itself
// is never lost.
func Instant(date, rawTime string) time.Time {
	day, _ := parseDate(date)
	hour, minute := 12, 0
	if m := clock12Re.FindStringSubmatch(strings.TrimSpace(DisplayTime(rawTime))); m != nil {
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
		switch meridiem := strings.ToUpper(m[3]); {
		case meridiem == "PM" && hour != 12:
			hour += 12
		case meridiem == "AM" && hour == 12:
			hour = 0
		}
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, fixedZone)
}

// CanonicalInstant combines a raw date and time into the fixed-shape
// YYYY-MM-DDTHH:MM:SS string suffixed with FixedOffset.
func CanonicalInstant(date, rawTime string) string {
	return Instant(date, rawTime).Format("2006-01-02T15:04:05") + FixedOffset
}
