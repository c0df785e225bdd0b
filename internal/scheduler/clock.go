package scheduler

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Clock defines an interface for getting the current time.
// This allows us to inject a fixed time during unit tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the server's system time.
type RealClock struct{}

func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always reports the same instant.
// e.g., "Pretend it is Monday at 17:30"
type FixedClock struct {
	At time.Time
}

func (f FixedClock) Now() time.Time {
	return f.At
}

var clockTime = regexp.MustCompile(`(?i)^\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*$`)

// parseClock reads "5:00 PM", "5pm" or "17:00" as minutes after midnight.
// A bare hour without am/pm takes the suffix of fallback when given.
func parseClock(s, fallback string) (int, string, bool) {
	m := clockTime.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute := 0
	if m[2] != "" {
		minute, _ = strconv.Atoi(m[2])
	}
	suffix := strings.ToLower(m[3])
	if suffix == "" {
		suffix = fallback
	}

	switch suffix {
	case "am", "pm":
		if hour < 1 || hour > 12 {
			return 0, "", false
		}
		hour %= 12
		if suffix == "pm" {
			hour += 12
		}
	default:
		if hour > 23 {
			return 0, "", false
		}
	}
	if minute > 59 {
		return 0, "", false
	}
	return hour*60 + minute, suffix, true
}

// ParseTimeRange reads a free-text range such as "10:00 AM - 11:00 AM"
// or "5-6 PM" into minutes after midnight.
func ParseTimeRange(s string) (start, end int, ok bool) {
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == '–' })
	if len(parts) != 2 {
		return 0, 0, false
	}
	end, endSuffix, ok := parseClock(parts[1], "")
	if !ok {
		return 0, 0, false
	}
	start, startSuffix, ok := parseClock(parts[0], "")
	if ok && startSuffix != "" {
		return start, end, true
	}
	if endSuffix == "" {
		return start, end, ok
	}

	// A bare start hour borrows a suffix: the end's for "5-6 PM", the
	// other one for "11:30 - 1 PM". Without an ordered reading the range
	// runs past midnight under the end's suffix.
	fallback, found := 0, false
	for _, suffix := range []string{endSuffix, otherSuffix(endSuffix), ""} {
		m, _, ok := parseClock(parts[0], suffix)
		if !ok {
			continue
		}
		if m <= end {
			return m, end, true
		}
		if !found {
			fallback, found = m, true
		}
	}
	return fallback, end, found
}

func otherSuffix(suffix string) string {
	if suffix == "am" {
		return "pm"
	}
	return "am"
}

// IsTimeMatch handles standard ranges (09:00-11:00) and cross-midnight
// ranges (22:00-02:00). Values are minutes after midnight.
func IsTimeMatch(start, end, current int) bool {
	if start <= end {
		// Standard range: Start <= Current < End
		return current >= start && current < end
	}
	// Midnight crossover: (Current >= Start) OR (Current < End)
	return current >= start || current < end
}
