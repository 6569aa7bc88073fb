package dates

import (
	"strings"
	"time"
)

const Layout = "2006-01-02"

var weekdayNames = [7]string{
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
	"Sunday",
}

// ParseDay parses a calendar date. Anything after the date boundary (a "T"
// or space separated time component) is dropped before parsing.
func ParseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexAny(s, "T "); i >= 0 {
		s = s[:i]
	}

	t, err := time.Parse(Layout, s)
	if err != nil {
		return time.Time{}, &time.ParseError{
			Layout:  Layout,
			Value:   s,
			Message: ": unable to parse date",
		}
	}
	return t, nil
}

func Format(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(Layout)
}

// Weekday indexes days from Monday = 0 to Sunday = 6.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func WeekdayName(t time.Time) string {
	return weekdayNames[Weekday(t)]
}

// AddDays moves a date by whole calendar days.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}
