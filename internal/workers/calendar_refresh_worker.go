package workers

import (
	"context"
	"time"

	calendarsvc "blackbox/internal/services/calendar"
)

// CalendarRefreshWorker periodically re-syncs the current month so newly
// published actuals land in the store without manual refreshes.
type CalendarRefreshWorker struct {
	*BaseWorker
	service *calendarsvc.Service
}

// NewCalendarRefreshWorker creates the periodic calendar refresh worker
func NewCalendarRefreshWorker(service *calendarsvc.Service, interval time.Duration, enabled bool) *CalendarRefreshWorker {
	return &CalendarRefreshWorker{
		BaseWorker: NewBaseWorker("calendar_refresh", interval, enabled),
		service:    service,
	}
}

// Run syncs the current month, fetching missing days and re-scraping days
// that still hold unpublished actuals
func (w *CalendarRefreshWorker) Run(ctx context.Context) error {
	now := time.Now().UTC()

	result, err := w.service.SyncMonth(ctx, now.Year(), now.Month(), false)
	if err != nil {
		w.RecordError(err)
		return err
	}

	w.RecordRun()
	w.Log().Infow("Calendar refresh completed",
		"fetched", result.DaysFetched,
		"skipped", result.DaysSkipped,
		"failed", result.DaysFailed,
		"events", result.EventsStored,
	)
	return nil
}
