package calendar

import (
	"strings"
	"time"
)

// CalendarDay groups events for a single date. Computed view, no identity.
type CalendarDay struct {
	Date   time.Time
	Events []Event
}

// HighImpactEvents returns only high impact events for this day
func (d CalendarDay) HighImpactEvents() []Event {
	var out []Event
	for _, e := range d.Events {
		if e.Impact == ImpactHigh {
			out = append(out, e)
		}
	}
	return out
}

// HasHighImpact checks if the day has any high impact events
func (d CalendarDay) HasHighImpact() bool {
	return len(d.HighImpactEvents()) > 0
}

// CalendarMonth groups a month of days. Computed view, no identity.
type CalendarMonth struct {
	Year  int
	Month time.Month
	Days  []CalendarDay
}

// AllEvents returns all events across all days in the month
func (m CalendarMonth) AllEvents() []Event {
	var out []Event
	for _, d := range m.Days {
		out = append(out, d.Events...)
	}
	return out
}

// HighImpactEvents returns all high impact events in the month
func (m CalendarMonth) HighImpactEvents() []Event {
	return FilterByImpact(m.AllEvents(), ImpactHigh)
}

// FilterByCurrency keeps events whose currency matches one of codes,
// case-insensitively
func FilterByCurrency(events []Event, codes []string) []Event {
	if len(codes) == 0 {
		return events
	}

	want := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		want[strings.ToUpper(c)] = struct{}{}
	}

	var out []Event
	for _, e := range events {
		if _, ok := want[strings.ToUpper(e.Currency)]; ok {
			out = append(out, e)
		}
	}
	return out
}

// FilterByImpact keeps events at or above min. Holiday and unknown
// impacts never pass a floor.
func FilterByImpact(events []Event, min Impact) []Event {
	floor := min.Rank()
	if floor == 0 {
		return events
	}

	var out []Event
	for _, e := range events {
		if e.Impact.Rank() >= floor {
			out = append(out, e)
		}
	}
	return out
}

// GroupByDay shapes a flat event list into a fully populated month view:
// every day of the month is present, possibly with no events.
func GroupByDay(year int, month time.Month, events []Event) CalendarMonth {
	byDate := make(map[string][]Event)
	for _, e := range events {
		key := e.Date.Format("2006-01-02")
		byDate[key] = append(byDate[key], e)
	}

	numDays := DaysInMonth(year, month)
	days := make([]CalendarDay, 0, numDays)
	for d := 1; d <= numDays; d++ {
		date := time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
		days = append(days, CalendarDay{
			Date:   date,
			Events: byDate[date.Format("2006-01-02")],
		})
	}

	return CalendarMonth{Year: year, Month: month, Days: days}
}

// DaysInMonth returns the number of calendar days in a month
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and last date of a month
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, month, DaysInMonth(year, month), 0, 0, 0, 0, time.UTC)
	return start, end
}
