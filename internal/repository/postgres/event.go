package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"blackbox/internal/domain/calendar"
	"blackbox/internal/metrics"
	"blackbox/pkg/errors"
)

const eventColumns = `id, date, "time", currency, impact, event_name,
	actual, forecast, previous, category, polarity, weight, surprise,
	scraped_at, updated_at`

// EventRepository implements calendar.Repository on PostgreSQL
type EventRepository struct {
	db *sqlx.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const upsertQuery = `
	INSERT INTO economic_events (
		date, "time", currency, impact, event_name,
		actual, forecast, previous, category, polarity, weight, surprise
	) VALUES (
		:date, :time, :currency, :impact, :event_name,
		:actual, :forecast, :previous, :category, :polarity, :weight, :surprise
	)
	ON CONFLICT ON CONSTRAINT uq_event DO UPDATE SET
		impact     = EXCLUDED.impact,
		actual     = EXCLUDED.actual,
		forecast   = EXCLUDED.forecast,
		previous   = EXCLUDED.previous,
		category   = EXCLUDED.category,
		polarity   = EXCLUDED.polarity,
		weight     = EXCLUDED.weight,
		surprise   = EXCLUDED.surprise,
		updated_at = NOW()`

// Upsert inserts or updates events on the (date, time, currency, event_name)
// key. The whole batch commits atomically.
func (r *EventRepository) Upsert(ctx context.Context, events []calendar.Event) (int64, error) {
	if len(events) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		metrics.StoreErrorsTotal.Inc()
		return 0, errors.Wrap(errors.ErrStore, err.Error())
	}
	defer tx.Rollback()

	var affected int64
	for _, e := range events {
		res, err := tx.NamedExecContext(ctx, upsertQuery, e)
		if err != nil {
			metrics.StoreErrorsTotal.Inc()
			return 0, errors.Wrapf(errors.ErrStore, "upsert %q on %s: %v", e.Name, e.Date.Format("2006-01-02"), err)
		}
		n, _ := res.RowsAffected()
		affected += n
	}

	if err := tx.Commit(); err != nil {
		metrics.StoreErrorsTotal.Inc()
		return 0, errors.Wrap(errors.ErrStore, err.Error())
	}

	metrics.EventsUpsertedTotal.Add(float64(affected))
	return affected, nil
}

// Events returns events in [start, end] matching the filter, ordered by
// date then time with all-day events first on their date
func (r *EventRepository) Events(ctx context.Context, start, end time.Time, f calendar.Filter) ([]calendar.Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM economic_events
		WHERE date BETWEEN ? AND ?`
	args := []interface{}{start, end}

	if len(f.Currencies) > 0 {
		codes := make([]string, len(f.Currencies))
		for i, c := range f.Currencies {
			codes[i] = strings.ToUpper(c)
		}
		query += ` AND UPPER(currency) IN (?)`
		args = append(args, codes)
	}

	if floor := f.MinImpact.Rank(); floor > 0 {
		var allowed []string
		for _, imp := range []calendar.Impact{calendar.ImpactLow, calendar.ImpactMedium, calendar.ImpactHigh} {
			if imp.Rank() >= floor {
				allowed = append(allowed, imp.String())
			}
		}
		query += ` AND impact IN (?)`
		args = append(args, allowed)
	}

	query += ` ORDER BY date ASC, "time" ASC NULLS FIRST, id ASC`

	query, inArgs, err := sqlx.In(query, args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}

	var events []calendar.Event
	if err := r.db.SelectContext(ctx, &events, r.db.Rebind(query), inArgs...); err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}
	return events, nil
}

// EventsForDate returns all events stored for one date
func (r *EventRepository) EventsForDate(ctx context.Context, date time.Time) ([]calendar.Event, error) {
	return r.Events(ctx, date, date, calendar.Filter{})
}

// DatesNeedingRefresh returns dates in [start, end] that are today or later
// and still hold events without a published actual
func (r *EventRepository) DatesNeedingRefresh(ctx context.Context, start, end, today time.Time) ([]time.Time, error) {
	var dates []time.Time
	err := r.db.SelectContext(ctx, &dates, `
		SELECT DISTINCT date
		FROM economic_events
		WHERE date BETWEEN $1 AND $2
		  AND date >= $3
		  AND actual IS NULL
		ORDER BY date`,
		start, end, today,
	)
	if err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}
	return dates, nil
}

// HasEventsForMonth checks whether any event is stored for the month
func (r *EventRepository) HasEventsForMonth(ctx context.Context, year int, month time.Month) (bool, error) {
	start, end := calendar.MonthBounds(year, month)

	var exists bool
	err := r.db.GetContext(ctx, &exists,
		`SELECT EXISTS(SELECT 1 FROM economic_events WHERE date BETWEEN $1 AND $2)`,
		start, end,
	)
	if err != nil {
		return false, errors.Wrap(errors.ErrStore, err.Error())
	}
	return exists, nil
}

// Stats returns aggregate statistics over all stored events
func (r *EventRepository) Stats(ctx context.Context) (*calendar.Stats, error) {
	stats := &calendar.Stats{
		ByCurrency: make(map[string]int64),
		ByImpact:   make(map[string]int64),
	}

	if err := r.db.GetContext(ctx, &stats.TotalEvents,
		`SELECT COUNT(*) FROM economic_events`,
	); err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}

	type bucket struct {
		Key   string `db:"key"`
		Count int64  `db:"count"`
	}

	var byCurrency []bucket
	if err := r.db.SelectContext(ctx, &byCurrency,
		`SELECT currency AS key, COUNT(*) AS count FROM economic_events GROUP BY currency`,
	); err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}
	for _, b := range byCurrency {
		stats.ByCurrency[b.Key] = b.Count
	}

	var byImpact []bucket
	if err := r.db.SelectContext(ctx, &byImpact,
		`SELECT impact AS key, COUNT(*) AS count FROM economic_events GROUP BY impact`,
	); err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}
	for _, b := range byImpact {
		stats.ByImpact[b.Key] = b.Count
	}

	var bounds struct {
		MinDate *time.Time `db:"min_date"`
		MaxDate *time.Time `db:"max_date"`
	}
	if err := r.db.GetContext(ctx, &bounds,
		`SELECT MIN(date) AS min_date, MAX(date) AS max_date FROM economic_events`,
	); err != nil {
		return nil, errors.Wrap(errors.ErrStore, err.Error())
	}
	stats.MinDate = bounds.MinDate
	stats.MaxDate = bounds.MaxDate

	return stats, nil
}

// DeleteMonth removes all events for a month, returning the removed count
func (r *EventRepository) DeleteMonth(ctx context.Context, year int, month time.Month) (int64, error) {
	start, end := calendar.MonthBounds(year, month)

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM economic_events WHERE date BETWEEN $1 AND $2`,
		start, end,
	)
	if err != nil {
		return 0, errors.Wrap(errors.ErrStore, err.Error())
	}

	n, _ := res.RowsAffected()
	return n, nil
}
