package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"blackbox/internal/adapters/config"
	"blackbox/internal/domain/calendar"
	"blackbox/internal/metrics"
	"blackbox/pkg/errors"
	"blackbox/pkg/logger"
)

// Scraper fetches and parses calendar pages day by day. It retries
// transient failures with exponential backoff and paces multi-day fetches
// so the traffic pattern stays polite.
type Scraper struct {
	browser Browser
	cfg     config.ScraperConfig
	log     *logger.Logger
}

// New creates a scraper over a page source provider
func New(browser Browser, cfg config.ScraperConfig) *Scraper {
	return &Scraper{
		browser: browser,
		cfg:     cfg,
		log:     logger.Get().With("component", "scraper"),
	}
}

// DayURL builds the source URL for one calendar day, e.g.
// ".../calendar?day=jan18.2026"
func (s *Scraper) DayURL(date time.Time) string {
	month := strings.ToLower(date.Format("Jan"))
	return fmt.Sprintf("%s?day=%s%d.%d", s.cfg.BaseURL, month, date.Day(), date.Year())
}

// FetchDay scrapes all events for a single date, retrying transient
// failures. Parsing failures are terminal: the page arrived, its layout is
// just not what we expect, and re-requesting it will not change that.
func (s *Scraper) FetchDay(ctx context.Context, date time.Time) ([]calendar.Event, error) {
	url := s.DayURL(date)

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(errors.ErrNavigation, err.Error())
		}

		events, err := s.fetchOnce(ctx, url, date)
		if err == nil {
			metrics.ScrapeDaysTotal.WithLabelValues("ok").Inc()
			metrics.ScrapedEventsTotal.Add(float64(len(events)))
			return events, nil
		}

		lastErr = err
		if !errors.Retryable(err) {
			s.log.Errorw("Scrape failed terminally", "url", url, "error", err)
			break
		}

		if attempt < s.cfg.MaxRetries {
			delay := s.backoffDelay(attempt)
			s.log.Warnw("Scrape attempt failed, retrying",
				"url", url,
				"attempt", attempt,
				"retry_in", delay,
				"error", err,
			)
			sleepCtx(ctx, delay)
		}
	}

	metrics.ScrapeDaysTotal.WithLabelValues("error").Inc()
	return nil, errors.Wrapf(lastErr, "fetch day %s", date.Format("2006-01-02"))
}

func (s *Scraper) fetchOnce(ctx context.Context, url string, date time.Time) ([]calendar.Event, error) {
	if err := s.browser.Navigate(ctx, url); err != nil {
		return nil, err
	}

	source, err := s.browser.PageSource()
	if err != nil {
		return nil, err
	}

	return ParseDayPage(source, date)
}

// backoffDelay doubles the base delay per attempt, capped at the max
func (s *Scraper) backoffDelay(attempt int) time.Duration {
	delay := s.cfg.RetryBaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= s.cfg.RetryMaxDelay {
			return s.cfg.RetryMaxDelay
		}
	}
	if delay > s.cfg.RetryMaxDelay {
		return s.cfg.RetryMaxDelay
	}
	return delay
}

// FetchMonth scrapes every day of a month into a fully shaped month view.
// A day that fails all retries is logged and left empty so one bad page
// does not lose the rest of the month.
func (s *Scraper) FetchMonth(ctx context.Context, year int, month time.Month, currencies []string) (calendar.CalendarMonth, error) {
	start, end := calendar.MonthBounds(year, month)

	days, err := s.FetchRange(ctx, start, end, currencies)
	if err != nil {
		return calendar.CalendarMonth{}, err
	}

	return calendar.CalendarMonth{Year: year, Month: month, Days: days}, nil
}

// FetchRange scrapes each date in [start, end] inclusive, pacing between
// days. Every date in the range appears in the result, failed days with no
// events.
func (s *Scraper) FetchRange(ctx context.Context, start, end time.Time, currencies []string) ([]calendar.CalendarDay, error) {
	if end.Before(start) {
		return nil, errors.Wrapf(errors.ErrInvalidDate, "range %s..%s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}

	var days []calendar.CalendarDay
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		if err := ctx.Err(); err != nil {
			return days, errors.Wrap(errors.ErrNavigation, err.Error())
		}

		if len(days) > 0 {
			sleepCtx(ctx, randomDelay(s.cfg.PaginationDelayMin, s.cfg.PaginationDelayMax))
		}

		events, err := s.FetchDay(ctx, date)
		if err != nil {
			s.log.Warnw("Skipping failed day", "date", date.Format("2006-01-02"), "error", err)
			events = nil
		}

		days = append(days, calendar.CalendarDay{
			Date:   date,
			Events: calendar.FilterByCurrency(events, currencies),
		})
	}

	return days, nil
}

// Close releases the underlying page source provider
func (s *Scraper) Close() error {
	return s.browser.Close()
}
