package reminder

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeRe = regexp.MustCompile(`^in\s+(\d+)\s*(minutes?|mins?|hours?|hrs?)$`)
	clockRe    = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)
)

// dateLayouts are tried in order by the fallback parser. Layouts without a
// time component resolve to midnight local time.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"2 January 2006",
	"01/02/2006",
}

// ParseTimePhrase resolves a natural-language due phrase to an absolute
// point in time:
//
//	"in 20 minutes", "in 2 hours"  — relative to now
//	"5:30 pm", "17:30", "9"        — next occurrence of that clock time,
//	                                  rolling to tomorrow if already passed
//	anything else                   — the fallback date layouts
//
// An unparseable phrase returns an error; callers surface it as a plain
// response string, never a crash.
func ParseTimePhrase(phrase string, now time.Time) (time.Time, error) {
	p := strings.ToLower(strings.TrimSpace(phrase))

	if m := relativeRe.FindStringSubmatch(p); m != nil {
		n, _ := strconv.Atoi(m[1])
		delta := time.Duration(n) * time.Minute
		if strings.HasPrefix(m[2], "h") {
			delta = time.Duration(n) * time.Hour
		}
		return now.Add(delta), nil
	}

	if m := clockRe.FindStringSubmatch(p); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute := 0
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
		switch m[3] {
		case "pm":
			if hour < 12 {
				hour += 12
			}
		case "am":
			if hour == 12 {
				hour = 0
			}
		}
		if hour <= 23 && minute <= 59 {
			due := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
			if !due.After(now) {
				due = due.AddDate(0, 0, 1)
			}
			return due, nil
		}
	}

	if due, err := ParseDate(phrase); err == nil {
		return due, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time phrase %q", phrase)
}

// ParseDate parses an arbitrary date/time string using the fallback layouts.
// Month names are matched case-insensitively ("25 dec 2025" works).
func ParseDate(phrase string) (time.Time, error) {
	p := strings.TrimSpace(phrase)
	for _, candidate := range []string{p, capitalizeWords(p)} {
		for _, layout := range dateLayouts {
			if t, err := time.ParseInLocation(layout, candidate, time.Local); err == nil {
				return t, nil
			}
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", phrase)
}

// capitalizeWords upper-cases the first letter of each word so month names
// match Go's reference layouts.
func capitalizeWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if len(w) > 0 && w[0] >= 'a' && w[0] <= 'z' {
			words[i] = string(w[0]-32) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
