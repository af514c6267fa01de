package enquiry

import (
	"strings"
	"time"
)

// DateFilter names a calendar window over a lead's creation time.
type DateFilter string

const (
	DateAll      DateFilter = "all"
	DateToday    DateFilter = "today"
	DateTomorrow DateFilter = "tomorrow"
	DateWeek     DateFilter = "week"
	DateMonth    DateFilter = "month"
	DateYear     DateFilter = "year"
	DateCustom   DateFilter = "custom"
)

// ParseDateFilter maps a filter id to a DateFilter. Unknown ids mean no
// date constraint and map to DateAll.
func ParseDateFilter(s string) DateFilter {
	switch f := DateFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case DateToday, DateTomorrow, DateWeek, DateMonth, DateYear, DateCustom:
		return f
	default:
		return DateAll
	}
}

// CustomRange holds the calendar dates of a custom window. A zero bound
// means the user has not supplied it.
type CustomRange struct {
	Start time.Time
	End   time.Time
}

// Complete reports whether both bounds are present.
func (c CustomRange) Complete() bool {
	return !c.Start.IsZero() && !c.End.IsZero()
}

// ParseCalendarDate parses a YYYY-MM-DD date at midnight in loc.
func ParseCalendarDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation("2006-01-02", strings.TrimSpace(s), loc)
}

// Range is the half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls in [Start, End).
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// ResolveRange turns a date filter into a concrete interval relative to now.
// The second return value is false when no date constraint applies, which
// includes a custom filter with a missing bound.
func ResolveRange(f DateFilter, now time.Time, custom CustomRange) (Range, bool) {
	today := midnight(now)

	switch f {
	case DateToday:
		return Range{Start: today, End: today.AddDate(0, 0, 1)}, true
	case DateTomorrow:
		return Range{Start: today.AddDate(0, 0, 1), End: today.AddDate(0, 0, 2)}, true
	case DateWeek:
		start := today.AddDate(0, 0, -int(today.Weekday()))
		return Range{Start: start, End: start.AddDate(0, 0, 7)}, true
	case DateMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return Range{Start: start, End: start.AddDate(0, 1, 0)}, true
	case DateYear:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		return Range{Start: start, End: start.AddDate(1, 0, 0)}, true
	case DateCustom:
		if !custom.Complete() {
			return Range{}, false
		}
		loc := now.Location()
		start := midnight(custom.Start.In(loc))
		end := midnight(custom.End.In(loc)).AddDate(0, 0, 1)
		return Range{Start: start, End: end}, true
	default:
		return Range{}, false
	}
}

// midnight returns the start of t's calendar day in t's location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
