package calendar

import (
	"context"
	"time"
)

// Filter narrows event queries. Zero value means no filtering.
type Filter struct {
	Currencies []string
	MinImpact  Impact
}

// Stats aggregates the stored event set
type Stats struct {
	TotalEvents int64
	ByCurrency  map[string]int64
	ByImpact    map[string]int64
	MinDate     *time.Time
	MaxDate     *time.Time
}

// Repository defines the interface for durable event storage.
// Upsert is the only mutator besides DeleteMonth; queries are side-effect
// free and return empty results rather than errors for "no data".
type Repository interface {
	// Upsert inserts or updates events keyed by (date, time, currency,
	// event name), returning the affected-row count
	Upsert(ctx context.Context, events []Event) (int64, error)

	// Events returns events in [start, end] matching the filter, sorted
	// by (date, time) ascending with null time first on its date
	Events(ctx context.Context, start, end time.Time, f Filter) ([]Event, error)

	// EventsForDate returns all events for one date
	EventsForDate(ctx context.Context, date time.Time) ([]Event, error)

	// DatesNeedingRefresh returns dates in [start, end] that are today or
	// later and still contain an event with no published actual
	DatesNeedingRefresh(ctx context.Context, start, end, today time.Time) ([]time.Time, error)

	// HasEventsForMonth checks whether any event is stored for the month
	HasEventsForMonth(ctx context.Context, year int, month time.Month) (bool, error)

	// Stats returns aggregate statistics over all stored events
	Stats(ctx context.Context) (*Stats, error)

	// DeleteMonth removes all events for a month, returning the count
	DeleteMonth(ctx context.Context, year int, month time.Month) (int64, error)
}
