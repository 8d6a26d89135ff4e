package calendar

import (
	"regexp"
	"time"

	"blackbox/internal/normalize"
)

// Impact is the categorical importance of an event as published by the source
type Impact string

const (
	ImpactLow     Impact = "low"
	ImpactMedium  Impact = "medium"
	ImpactHigh    Impact = "high"
	ImpactHoliday Impact = "holiday"
	ImpactUnknown Impact = "unknown"
)

// Valid checks if impact level is valid
func (i Impact) Valid() bool {
	switch i {
	case ImpactLow, ImpactMedium, ImpactHigh, ImpactHoliday, ImpactUnknown:
		return true
	}
	return false
}

// String returns string representation
func (i Impact) String() string {
	return string(i)
}

// Rank orders impact levels for minimum-impact filtering. Holiday and
// unknown rank below low and never pass an impact floor.
func (i Impact) Rank() int {
	switch i {
	case ImpactLow:
		return 1
	case ImpactMedium:
		return 2
	case ImpactHigh:
		return 3
	}
	return 0
}

// Category groups events for fundamental scoring
type Category string

const (
	CategoryEmployment   Category = "employment"
	CategoryInflation    Category = "inflation"
	CategoryGrowth       Category = "growth"
	CategoryInterestRate Category = "interest_rate"
	CategoryPMI          Category = "pmi"
	CategoryHousing      Category = "housing"
	CategorySentiment    Category = "sentiment"
	CategoryTrade        Category = "trade"
	CategoryOther        Category = "other"
)

// Valid checks if category is valid
func (c Category) Valid() bool {
	switch c {
	case CategoryEmployment, CategoryInflation, CategoryGrowth,
		CategoryInterestRate, CategoryPMI, CategoryHousing,
		CategorySentiment, CategoryTrade, CategoryOther:
		return true
	}
	return false
}

// String returns string representation
func (c Category) String() string {
	return string(c)
}

var currencyPattern = regexp.MustCompile(`^[A-Za-z]{2,5}$`)

// ValidCurrency reports whether code looks like a currency code (2-5 letters)
func ValidCurrency(code string) bool {
	return currencyPattern.MatchString(code)
}

// Event is one published or pending economic data release for a currency
// at a date and optional time. (date, time, currency, event_name) is the
// natural key; later scrapes of the same key update the stored row.
type Event struct {
	ID       int64      `db:"id"`
	Date     time.Time  `db:"date"`
	Time     *time.Time `db:"time"` // nil means all-day or tentative
	Currency string     `db:"currency"`
	Impact   Impact     `db:"impact"`
	Name     string     `db:"event_name"`

	Actual   *float64 `db:"actual"`
	Forecast *float64 `db:"forecast"`
	Previous *float64 `db:"previous"`

	// Raw source strings, carried only through the ingestion boundary
	ActualRaw   *string `db:"-"`
	ForecastRaw *string `db:"-"`
	PreviousRaw *string `db:"-"`

	Category Category `db:"category"`
	Polarity int      `db:"polarity"` // +1 higher actual is bullish, -1 bearish
	Weight   int      `db:"weight"`   // importance 1..10
	Surprise *float64 `db:"surprise"`

	ScrapedAt time.Time  `db:"scraped_at"`
	UpdatedAt *time.Time `db:"updated_at"`
}

// NewEvent builds a classified event from raw scraped cells. Values are
// normalized, metadata is resolved from the display name and the surprise
// score is derived.
func NewEvent(date time.Time, tod *time.Time, currency string, impact Impact, name string, actualRaw, forecastRaw, previousRaw *string) Event {
	meta := Classify(name)

	e := Event{
		Date:        date,
		Time:        tod,
		Currency:    currency,
		Impact:      impact,
		Name:        name,
		Actual:      normalize.ValuePtr(actualRaw),
		Forecast:    normalize.ValuePtr(forecastRaw),
		Previous:    normalize.ValuePtr(previousRaw),
		ActualRaw:   actualRaw,
		ForecastRaw: forecastRaw,
		PreviousRaw: previousRaw,
		Category:    meta.Category,
		Polarity:    meta.Polarity,
		Weight:      meta.Weight,
	}
	e.Surprise = Surprise(e.Actual, e.Forecast, e.Polarity)
	return e
}

// Surprise is the normalized deviation of actual from forecast, signed by
// polarity: polarity * (actual - forecast) / |forecast|. It is nil when
// actual or forecast is missing, or forecast is zero.
func Surprise(actual, forecast *float64, polarity int) *float64 {
	if actual == nil || forecast == nil {
		return nil
	}
	if *forecast == 0 {
		return nil
	}

	f := *forecast
	if f < 0 {
		f = -f
	}
	s := float64(polarity) * (*actual - *forecast) / f
	return &s
}

// OccurredAt maps the event to a point in time in loc, using midnight for
// all-day events.
func (e Event) OccurredAt(loc *time.Location) time.Time {
	y, m, d := e.Date.Date()
	if e.Time == nil {
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
	return time.Date(y, m, d, e.Time.Hour(), e.Time.Minute(), e.Time.Second(), 0, loc)
}

// HasActual reports whether the outcome has been published
func (e Event) HasActual() bool {
	return e.Actual != nil
}
