package calendar

import (
	"context"
	"time"

	"blackbox/internal/domain/calendar"
	"blackbox/internal/metrics"
	"blackbox/pkg/errors"
	"blackbox/pkg/logger"
)

// DayFetcher fetches all events for one calendar date from the source
type DayFetcher interface {
	FetchDay(ctx context.Context, date time.Time) ([]calendar.Event, error)
}

// SyncResult summarizes one month synchronization run
type SyncResult struct {
	Year         int        `json:"year"`
	Month        time.Month `json:"month"`
	DaysFetched  int        `json:"days_fetched"`
	DaysSkipped  int        `json:"days_skipped"`
	DaysFailed   int        `json:"days_failed"`
	EventsStored int64      `json:"events_stored"`
}

// Service orchestrates scraping and persistence of calendar data.
// Days are upserted one at a time so an interrupted sync keeps everything
// fetched so far and resumes where it stopped.
type Service struct {
	fetcher DayFetcher
	repo    calendar.Repository
	status  *statusTracker
	log     *logger.Logger
	now     func() time.Time
}

// NewService creates the calendar service
func NewService(fetcher DayFetcher, repo calendar.Repository) *Service {
	return &Service{
		fetcher: fetcher,
		repo:    repo,
		status:  newStatusTracker(),
		log:     logger.Get().With("component", "calendar_service"),
		now:     time.Now,
	}
}

// today returns the current UTC date at midnight
func (s *Service) today() time.Time {
	y, m, d := s.now().UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// SyncMonth scrapes a month into the store. Without force, days that
// already hold events are skipped unless they are today or later and still
// have unpublished actuals. A day that fails to scrape is logged and
// skipped, never stored as empty, so the next sync retries it.
func (s *Service) SyncMonth(ctx context.Context, year int, month time.Month, force bool) (*SyncResult, error) {
	if month < time.January || month > time.December {
		return nil, errors.Wrapf(errors.ErrInvalidDate, "month %d", month)
	}

	start, end := calendar.MonthBounds(year, month)

	plan, skipped, err := s.planDays(ctx, start, end, force)
	if err != nil {
		return nil, err
	}

	result := &SyncResult{Year: year, Month: month, DaysSkipped: skipped}
	began := time.Now()
	defer func() {
		metrics.ScrapeDuration.Observe(time.Since(began).Seconds())
	}()

	for _, date := range plan {
		if err := ctx.Err(); err != nil {
			return result, errors.Wrap(errors.ErrInternal, err.Error())
		}

		events, err := s.fetcher.FetchDay(ctx, date)
		if err != nil {
			result.DaysFailed++
			s.log.Warnw("Day sync failed", "date", date.Format("2006-01-02"), "error", err)
			continue
		}
		result.DaysFetched++

		if len(events) == 0 {
			continue
		}

		stored, err := s.repo.Upsert(ctx, events)
		if err != nil {
			return result, err
		}
		result.EventsStored += stored
	}

	// Nothing fetched and nothing already present means the source gave us
	// nothing at all for this month
	if result.DaysFetched == 0 && result.DaysSkipped == 0 {
		return result, errors.Wrapf(errors.ErrUpstreamUnavailable,
			"no data for %d-%02d", year, month)
	}

	s.log.Infow("Month sync finished",
		"year", year,
		"month", int(month),
		"fetched", result.DaysFetched,
		"skipped", result.DaysSkipped,
		"failed", result.DaysFailed,
		"events", result.EventsStored,
	)
	return result, nil
}

// planDays decides which dates of [start, end] to scrape. With force the
// whole range is scraped. Otherwise dates already stored are skipped, and
// dates at or after today with pending actuals are re-scraped.
func (s *Service) planDays(ctx context.Context, start, end time.Time, force bool) ([]time.Time, int, error) {
	var all []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		all = append(all, d)
	}

	if force {
		return all, 0, nil
	}

	existing, err := s.repo.Events(ctx, start, end, calendar.Filter{})
	if err != nil {
		return nil, 0, err
	}
	have := make(map[string]struct{})
	for _, e := range existing {
		have[e.Date.Format("2006-01-02")] = struct{}{}
	}

	stale, err := s.repo.DatesNeedingRefresh(ctx, start, end, s.today())
	if err != nil {
		return nil, 0, err
	}
	refresh := make(map[string]struct{}, len(stale))
	for _, d := range stale {
		refresh[d.Format("2006-01-02")] = struct{}{}
	}

	var plan []time.Time
	skipped := 0
	for _, d := range all {
		key := d.Format("2006-01-02")
		_, exists := have[key]
		_, needsRefresh := refresh[key]
		if exists && !needsRefresh {
			skipped++
			continue
		}
		plan = append(plan, d)
	}
	return plan, skipped, nil
}

// Today returns today's events, scraping them first if the store has none.
// Currency and high-impact filtering apply to the returned view only, never
// to what gets stored.
func (s *Service) Today(ctx context.Context, currencies []string, highImpactOnly bool) ([]calendar.Event, error) {
	date := s.today()

	events, err := s.repo.EventsForDate(ctx, date)
	if err != nil {
		return nil, err
	}

	if len(events) == 0 {
		fetched, err := s.fetcher.FetchDay(ctx, date)
		if err != nil {
			return nil, errors.Wrap(errors.ErrUpstreamUnavailable, err.Error())
		}
		if len(fetched) > 0 {
			if _, err := s.repo.Upsert(ctx, fetched); err != nil {
				return nil, err
			}
			events, err = s.repo.EventsForDate(ctx, date)
			if err != nil {
				return nil, err
			}
		}
	}

	events = calendar.FilterByCurrency(events, currencies)
	if highImpactOnly {
		events = calendar.FilterByImpact(events, calendar.ImpactHigh)
	}
	return events, nil
}

// FetchMonth ensures the month is in the store with minimal re-fetching and
// returns the stored, filtered view
func (s *Service) FetchMonth(ctx context.Context, year int, month time.Month, force bool, f calendar.Filter) (calendar.CalendarMonth, error) {
	if _, err := s.SyncMonth(ctx, year, month, force); err != nil {
		return calendar.CalendarMonth{}, err
	}
	return s.Month(ctx, year, month, f)
}

// Month returns the stored month as a fully shaped view
func (s *Service) Month(ctx context.Context, year int, month time.Month, f calendar.Filter) (calendar.CalendarMonth, error) {
	if month < time.January || month > time.December {
		return calendar.CalendarMonth{}, errors.Wrapf(errors.ErrInvalidDate, "month %d", month)
	}

	start, end := calendar.MonthBounds(year, month)
	events, err := s.repo.Events(ctx, start, end, f)
	if err != nil {
		return calendar.CalendarMonth{}, err
	}
	return calendar.GroupByDay(year, month, events), nil
}

// RefreshMonth re-scrapes the whole month unconditionally, overwriting what
// the store already holds, and returns the number of stored rows
func (s *Service) RefreshMonth(ctx context.Context, year int, month time.Month) (int64, error) {
	result, err := s.SyncMonth(ctx, year, month, true)
	if err != nil {
		return 0, err
	}
	return result.EventsStored, nil
}

// StartRefresh launches an asynchronous full month refresh. Only one
// refresh may run at a time.
func (s *Service) StartRefresh(year int, month time.Month) error {
	if month < time.January || month > time.December {
		return errors.Wrapf(errors.ErrInvalidDate, "month %d", month)
	}

	if err := s.status.begin(year, month); err != nil {
		return err
	}

	go func() {
		// Detached from the request; a refresh outlives the HTTP call
		ctx, cancel := context.WithTimeout(context.Background(), time.Hour)
		defer cancel()

		stored, err := s.RefreshMonth(ctx, year, month)
		if err != nil {
			metrics.RefreshRunsTotal.WithLabelValues("error").Inc()
			s.status.fail(err)
			s.log.ErrorWithContext(ctx, err, map[string]string{
				"component": "calendar_refresh",
			})
			return
		}

		metrics.RefreshRunsTotal.WithLabelValues("ok").Inc()
		metrics.RefreshLastSuccess.SetToCurrentTime()
		s.status.complete(stored)
	}()

	return nil
}

// RefreshStatus returns the state of the refresh slot
func (s *Service) RefreshStatus() RefreshStatus {
	return s.status.Snapshot()
}

// RefreshPending re-scrapes only the dates of the month that still hold
// unpublished actuals, returning the number of stored rows
func (s *Service) RefreshPending(ctx context.Context, year int, month time.Month) (int64, error) {
	start, end := calendar.MonthBounds(year, month)

	dates, err := s.repo.DatesNeedingRefresh(ctx, start, end, s.today())
	if err != nil {
		return 0, err
	}

	var stored int64
	for _, date := range dates {
		events, err := s.fetcher.FetchDay(ctx, date)
		if err != nil {
			s.log.Warnw("Refresh of day failed", "date", date.Format("2006-01-02"), "error", err)
			continue
		}
		n, err := s.repo.Upsert(ctx, events)
		if err != nil {
			return stored, err
		}
		stored += n
	}
	return stored, nil
}

// Stats returns aggregate store statistics
func (s *Service) Stats(ctx context.Context) (*calendar.Stats, error) {
	return s.repo.Stats(ctx)
}
