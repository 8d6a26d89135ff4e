package scraper

import (
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"blackbox/internal/domain/calendar"
	"blackbox/pkg/errors"
)

// Calendar markup selectors. The event grid is a table of rows where the
// date and time cells are blank when a row shares the slot of the row
// above it, so parsing carries both forward.
const (
	selRow        = "tr.calendar__row"
	selDateCell   = "td.calendar__cell.calendar__date"
	selTimeCell   = "td.calendar__cell.calendar__time"
	selCurrency   = "td.calendar__cell.calendar__currency"
	selImpactCell = "td.calendar__cell.calendar__impact"
	selEventCell  = "td.calendar__cell.calendar__event"
	selActual     = "td.calendar__cell.calendar__actual"
	selForecast   = "td.calendar__cell.calendar__forecast"
	selPrevious   = "td.calendar__cell.calendar__previous"
	selEventTitle = "span.calendar__event-title"
	selImpactIcon = "span.calendar__impact-icon"
)

var impactIconClasses = map[string]calendar.Impact{
	"icon--ff-impact-red": calendar.ImpactHigh,
	"icon--ff-impact-ora": calendar.ImpactMedium,
	"icon--ff-impact-yel": calendar.ImpactLow,
	"icon--ff-impact-gra": calendar.ImpactHoliday,
}

var (
	clockPattern = regexp.MustCompile(`^\d{1,2}:\d{2}(am|pm)$`)

	// Date cells read like "Jan 18" or "SunJan 18"; only the trailing
	// month and day matter, the year comes from the requested date
	dateCellPattern = regexp.MustCompile(`([A-Za-z]{3})\s*(\d{1,2})$`)
)

// ParseDayPage extracts the events of a single-day calendar page. The
// requested date seeds the carried date; rows that introduce a new date
// cell (overflow rows on day pages) move subsequent events to that date.
// A page with a calendar table but no event rows yields an empty slice; a
// non-empty page without the table is a parsing failure.
func ParseDayPage(html string, date time.Time) ([]calendar.Event, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, errors.Wrap(errors.ErrParsing, err.Error())
	}

	if strings.TrimSpace(html) == "" {
		return nil, errors.Wrap(errors.ErrParsing, "empty page source")
	}

	table := doc.Find("table.calendar__table")
	if table.Length() == 0 {
		return nil, errors.Wrap(errors.ErrElementNotFound, "calendar table not found")
	}

	var events []calendar.Event
	currentDate := date
	var currentTime *time.Time

	table.Find(selRow).Each(func(_ int, row *goquery.Selection) {
		// Carried state updates before any row is skipped: spacer rows
		// may still introduce a date or time for the rows below them
		if d, ok := parseDateCell(row.Find(selDateCell).Text(), date.Year()); ok {
			if !d.Equal(currentDate) {
				// Time carry-over never crosses a date boundary
				currentTime = nil
			}
			currentDate = d
		}
		if tod, ok := parseTimeOfDay(row.Find(selTimeCell).Text()); ok {
			currentTime = tod
		}

		currency := strings.TrimSpace(row.Find(selCurrency).Text())
		name := eventName(row)

		// Structural rows (day breaks, spacers) have no currency or title
		if currency == "" || name == "" {
			return
		}
		if !calendar.ValidCurrency(currency) {
			return
		}

		events = append(events, calendar.NewEvent(
			currentDate,
			currentTime,
			currency,
			parseImpact(row),
			name,
			cellValue(row, selActual),
			cellValue(row, selForecast),
			cellValue(row, selPrevious),
		))
	})

	return events, nil
}

func eventName(row *goquery.Selection) string {
	name := strings.TrimSpace(row.Find(selEventTitle).Text())
	if name == "" {
		name = strings.TrimSpace(row.Find(selEventCell).Text())
	}
	return name
}

// parseDateCell interprets a date cell. The second return is false when
// the cell is blank or unreadable, meaning the carried date stands.
func parseDateCell(raw string, year int) (time.Time, bool) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return time.Time{}, false
	}

	m := dateCellPattern.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}

	t, err := time.Parse("Jan 2", m[1]+" "+m[2])
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
}

// parseTimeOfDay interprets a time cell. The second return is false when
// the cell is blank, meaning the previous row's time carries over. All-day
// markers resolve to an explicit nil time.
func parseTimeOfDay(raw string) (*time.Time, bool) {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return nil, false
	}

	switch text {
	case "all day", "tentative", "day":
		return nil, true
	}

	if !clockPattern.MatchString(text) {
		return nil, true
	}

	t, err := time.Parse("3:04pm", text)
	if err != nil {
		return nil, true
	}
	return &t, true
}

func parseImpact(row *goquery.Selection) calendar.Impact {
	icon := row.Find(selImpactCell).Find(selImpactIcon)
	if icon.Length() == 0 {
		icon = row.Find(selImpactIcon)
	}

	class, _ := icon.Attr("class")
	for _, c := range strings.Fields(class) {
		if impact, ok := impactIconClasses[c]; ok {
			return impact
		}
	}
	return calendar.ImpactUnknown
}

// cellValue returns the trimmed cell text, nil for blank or placeholder cells
func cellValue(row *goquery.Selection, selector string) *string {
	text := strings.TrimSpace(row.Find(selector).Text())
	if text == "" || text == "-" {
		return nil
	}
	return &text
}
