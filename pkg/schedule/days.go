// Package schedule provides the calendar-day helpers that drive the
// trade-event schedule views: enumerating the days of an exhibition,
// normalizing heterogeneous event dates to a day key, and picking a
// stable badge color per day tab.
package schedule

import (
	"regexp"
	"time"
)

// DayFormat is the canonical day key layout.
const DayFormat = "2006-01-02"

var dayPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Upstream event data mixes full timestamps with plain dates and a few
// regional formats, so DayKey tries these after the substring fast path.
var fallbackLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02.01.2006",
	"01/02/2006",
}

// DayKey normalizes a date-like string to YYYY-MM-DD.
//
// When the input already contains a literal YYYY-MM-DD substring it is
// extracted verbatim; reparsing a timestamp like 2025-08-27T22:00:00Z
// through time.Time would shift the visible day in western timezones.
// Anything else is parsed against known layouts and reformatted in local
// time. Unparseable input yields "" and callers must treat the record as
// unbucketed rather than fail.
func DayKey(value string) string {
	if match := dayPattern.FindString(value); match != "" {
		return match
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return t.Format(DayFormat)
		}
	}
	return ""
}

// Days enumerates every calendar day from start to end inclusive, in
// ascending order, as canonical day keys. Day boundaries are computed in
// local calendar time. The result is empty when either bound fails to
// normalize or when end precedes start.
func Days(start, end string) []string {
	from, ok := toLocalDate(start)
	if !ok {
		return nil
	}
	to, ok := toLocalDate(end)
	if !ok {
		return nil
	}
	if to.Before(from) {
		return nil
	}
	var days []string
	for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, 1) {
		days = append(days, cur.Format(DayFormat))
	}
	return days
}

func toLocalDate(value string) (time.Time, bool) {
	key := DayKey(value)
	if key == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DayFormat, key, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// dayPalette matches the badge colors of the admin schedule tabs.
var dayPalette = []string{
	"#2563eb",
	"#16a34a",
	"#d97706",
	"#9333ea",
	"#dc2626",
	"#0891b2",
}

// fallbackColor is the badge color for day indexes beyond the palette
// (long exhibitions) and for invalid indexes.
const fallbackColor = "#64748b"

// ColorForDay returns the badge color for the given day index. Same
// index, same color; indexes outside the palette get the fallback.
func ColorForDay(index int) string {
	if index < 0 || index >= len(dayPalette) {
		return fallbackColor
	}
	return dayPalette[index]
}
