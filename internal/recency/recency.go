// Package recency decides whether a source-reported publication date falls
// within the trailing acceptance window.
package recency

import (
	"strings"
	"time"

	"github.com/goodsign/monday"
)

var isoLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02.01.2006",
}

var localeLayouts = []string{
	"2. January 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Norwegian first: the monitored sources are Norwegian regulators.
var locales = []monday.Locale{
	monday.LocaleNbNO,
	monday.LocaleEnUS,
	monday.LocaleEnGB,
}

// IsRecent reports whether dateText parses to a calendar date within the
// trailing window [today-windowDays, today]. Empty or unparsable dates are
// conservatively rejected. Pure and deterministic given today.
func IsRecent(dateText string, windowDays int, today time.Time) bool {
	parsed, ok := Parse(dateText)
	if !ok {
		return false
	}

	cutoff := calendarDay(today).AddDate(0, 0, -windowDays)
	return !calendarDay(parsed).Before(cutoff)
}

// Parse attempts ISO layouts first, then locale-aware natural dates
// in Norwegian and English.
func Parse(dateText string) (time.Time, bool) {
	text := strings.TrimSpace(dateText)
	if text == "" {
		return time.Time{}, false
	}

	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}

	for _, locale := range locales {
		for _, layout := range localeLayouts {
			if t, err := monday.ParseInLocation(layout, text, time.UTC, locale); err == nil {
				return t, true
			}
		}
	}

	return time.Time{}, false
}

func calendarDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
