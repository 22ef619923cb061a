// Package timeparse turns free-form time phrases into absolute instants.
//
// Three forms are understood: "now", "in <N> <unit>" and "at <H>[:<MM>] [am|pm]".
// Resolution uses the clock's location as-is; sessions carry no timezone.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// MaxAheadMinutes caps how far ahead a relative expression may point.
const MaxAheadMinutes = 24 * 60

var (
	relativePattern = regexp.MustCompile(`^in\s+(\d+)\s*(minutes?|mins?|hours?|hrs?)$`)
	clockPattern    = regexp.MustCompile(`^at\s+(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)
)

// Result is a successfully parsed time expression.
type Result struct {
	// At is the resolved absolute instant
	At time.Time

	// Display is a short human-readable form of the instant
	Display string
}

// Parse interprets text relative to now. The second return value is false
// when the expression is not one of the recognized forms or is out of range.
func Parse(now time.Time, text string) (*Result, bool) {
	text = strings.ToLower(strings.TrimSpace(text))

	if text == "now" {
		return &Result{At: now, Display: "now"}, true
	}

	if m := relativePattern.FindStringSubmatch(text); m != nil {
		return parseRelative(now, m)
	}

	if m := clockPattern.FindStringSubmatch(text); m != nil {
		return parseClock(now, m)
	}

	return nil, false
}

func parseRelative(now time.Time, m []string) (*Result, bool) {
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return nil, false
	}

	minutes := n
	if strings.HasPrefix(m[2], "h") {
		minutes = n * 60
	}

	if minutes > MaxAheadMinutes {
		return nil, false
	}

	at := now.Add(time.Duration(minutes) * time.Minute)
	return &Result{At: at, Display: at.Format("3:04 PM")}, true
}

func parseClock(now time.Time, m []string) (*Result, bool) {
	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return nil, false
	}

	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil || minute > 59 {
			return nil, false
		}
	}

	switch m[3] {
	case "":
		if hour > 23 {
			return nil, false
		}
	case "am":
		if hour < 1 || hour > 12 {
			return nil, false
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return nil, false
		}
		if hour != 12 {
			hour += 12
		}
	}

	at := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())

	// A time-of-day that already passed today means the same time tomorrow.
	if !at.After(now) {
		at = at.AddDate(0, 0, 1)
	}

	return &Result{At: at, Display: at.Format("3:04 PM")}, true
}
