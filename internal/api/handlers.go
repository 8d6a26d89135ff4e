package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"blackbox/internal/domain/calendar"
	calendarsvc "blackbox/internal/services/calendar"
	"blackbox/internal/services/scoring"
	"blackbox/pkg/errors"
	"blackbox/pkg/logger"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// Handler serves the calendar and scoring endpoints
type Handler struct {
	calendar *calendarsvc.Service
	scoring  *scoring.Engine
	db       HealthChecker
	log      *logger.Logger
}

// NewHandler creates the API handler
func NewHandler(calendarService *calendarsvc.Service, engine *scoring.Engine, db HealthChecker) *Handler {
	return &Handler{
		calendar: calendarService,
		scoring:  engine,
		db:       db,
		log:      logger.Get().With("component", "api"),
	}
}

// Health reports service and database health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "database": "ok"}
	code := http.StatusOK

	if err := h.db.Health(r.Context()); err != nil {
		status["status"] = "degraded"
		status["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	h.writeJSON(w, code, status)
}

// CalendarMonth ensures the month is stored and returns it day by day.
// Query: year, month, optional currencies (comma separated), min_impact,
// force (re-scrape days already present).
func (h *Handler) CalendarMonth(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthParams(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	filter := calendar.Filter{}
	if raw := r.URL.Query().Get("currencies"); raw != "" {
		filter.Currencies = strings.Split(raw, ",")
	}
	if raw := r.URL.Query().Get("min_impact"); raw != "" {
		impact := calendar.Impact(strings.ToLower(raw))
		if !impact.Valid() {
			h.writeError(w, errors.Wrapf(errors.ErrInvalidConfig, "min_impact %q", raw))
			return
		}
		filter.MinImpact = impact
	}
	force := r.URL.Query().Get("force") == "true"

	view, err := h.calendar.FetchMonth(r.Context(), year, month, force, filter)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, monthResponse(view))
}

// CalendarToday returns today's events, scraping on a store miss.
// Query: optional currencies (comma separated), high_impact_only.
func (h *Handler) CalendarToday(w http.ResponseWriter, r *http.Request) {
	var currencies []string
	if raw := r.URL.Query().Get("currencies"); raw != "" {
		currencies = strings.Split(raw, ",")
	}
	highImpact := r.URL.Query().Get("high_impact_only") == "true"

	events, err := h.calendar.Today(r.Context(), currencies, highImpact)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":   time.Now().UTC().Format("2006-01-02"),
		"count":  len(events),
		"events": eventsResponse(events),
	})
}

// StartRefresh launches an asynchronous month sync and returns immediately
func (h *Handler) StartRefresh(w http.ResponseWriter, r *http.Request) {
	year, month, err := yearMonthParams(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.calendar.StartRefresh(year, month); err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"status": "started",
		"year":   year,
		"month":  int(month),
	})
}

// RefreshStatus reports the state of the refresh slot
func (h *Handler) RefreshStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.calendar.RefreshStatus())
}

// CalendarStats returns aggregate statistics over the stored events
func (h *Handler) CalendarStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.calendar.Stats(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"total_events": stats.TotalEvents,
		"by_currency":  stats.ByCurrency,
		"by_impact":    stats.ByImpact,
		"min_date":     dateString(stats.MinDate),
		"max_date":     dateString(stats.MaxDate),
	})
}

// ScoreCurrency returns the fundamental score for one currency.
// Query: code, optional half_life_hours, lookback_days, threshold.
func (h *Handler) ScoreCurrency(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		h.writeError(w, errors.Wrap(errors.ErrInvalidConfig, "code parameter required"))
		return
	}

	engine, err := h.engineFor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	score, err := engine.CurrencyScore(r.Context(), code)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"currency": strings.ToUpper(code),
		"score":    score,
	})
}

// ScorePair returns the bias and signal for a currency pair.
// Query: base, quote, optional half_life_hours, lookback_days, threshold.
func (h *Handler) ScorePair(w http.ResponseWriter, r *http.Request) {
	base := r.URL.Query().Get("base")
	quote := r.URL.Query().Get("quote")
	if base == "" || quote == "" {
		h.writeError(w, errors.Wrap(errors.ErrInvalidConfig, "base and quote parameters required"))
		return
	}

	engine, err := h.engineFor(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	score, err := engine.ScorePair(r.Context(), base, quote)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, score)
}

// engineFor applies per-request scoring parameter overrides
func (h *Handler) engineFor(r *http.Request) (*scoring.Engine, error) {
	q := r.URL.Query()
	overrides := scoring.Config{}

	if raw := q.Get("half_life_hours"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "half_life_hours %q", raw)
		}
		overrides.HalfLifeHours = v
	}
	if raw := q.Get("lookback_days"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "lookback_days %q", raw)
		}
		overrides.LookbackDays = v
	}
	if raw := q.Get("threshold"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInvalidConfig, "threshold %q", raw)
		}
		overrides.MinBiasThreshold = v
	}

	if overrides == (scoring.Config{}) {
		return h.scoring, nil
	}
	return h.scoring.WithConfig(overrides)
}

func yearMonthParams(r *http.Request) (int, time.Month, error) {
	yearRaw := r.URL.Query().Get("year")
	monthRaw := r.URL.Query().Get("month")

	now := time.Now().UTC()
	year, month := now.Year(), now.Month()

	if yearRaw != "" {
		y, err := strconv.Atoi(yearRaw)
		if err != nil || y < 2000 || y > 2200 {
			return 0, 0, errors.Wrapf(errors.ErrInvalidDate, "year %q", yearRaw)
		}
		year = y
	}
	if monthRaw != "" {
		m, err := strconv.Atoi(monthRaw)
		if err != nil || m < 1 || m > 12 {
			return 0, 0, errors.Wrapf(errors.ErrInvalidDate, "month %q", monthRaw)
		}
		month = time.Month(m)
	}

	return year, month, nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Errorw("Response encoding failed", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrInvalidConfig), errors.Is(err, errors.ErrInvalidDate):
		code = http.StatusBadRequest
	case errors.Is(err, errors.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, errors.ErrRefreshInProgress):
		code = http.StatusConflict
	case errors.Is(err, errors.ErrUpstreamUnavailable):
		code = http.StatusServiceUnavailable
	}

	if code == http.StatusInternalServerError {
		h.log.Errorw("Request failed", "error", err)
	}

	h.writeJSON(w, code, map[string]string{"error": err.Error()})
}

// Response shaping. Dates render as YYYY-MM-DD and times as HH:MM, with
// null for all-day events.

type eventJSON struct {
	Date     string   `json:"date"`
	Time     *string  `json:"time"`
	Currency string   `json:"currency"`
	Impact   string   `json:"impact"`
	Name     string   `json:"name"`
	Actual   *float64 `json:"actual"`
	Forecast *float64 `json:"forecast"`
	Previous *float64 `json:"previous"`
	Category string   `json:"category"`
	Polarity int      `json:"polarity"`
	Weight   int      `json:"weight"`
	Surprise *float64 `json:"surprise"`
}

func eventsResponse(events []calendar.Event) []eventJSON {
	out := make([]eventJSON, 0, len(events))
	for _, e := range events {
		var tod *string
		if e.Time != nil {
			s := e.Time.Format("15:04")
			tod = &s
		}
		out = append(out, eventJSON{
			Date:     e.Date.Format("2006-01-02"),
			Time:     tod,
			Currency: e.Currency,
			Impact:   e.Impact.String(),
			Name:     e.Name,
			Actual:   e.Actual,
			Forecast: e.Forecast,
			Previous: e.Previous,
			Category: e.Category.String(),
			Polarity: e.Polarity,
			Weight:   e.Weight,
			Surprise: e.Surprise,
		})
	}
	return out
}

func monthResponse(m calendar.CalendarMonth) map[string]interface{} {
	days := make([]map[string]interface{}, 0, len(m.Days))
	for _, d := range m.Days {
		days = append(days, map[string]interface{}{
			"date":   d.Date.Format("2006-01-02"),
			"events": eventsResponse(d.Events),
		})
	}
	return map[string]interface{}{
		"year":  m.Year,
		"month": int(m.Month),
		"days":  days,
	}
}

func dateString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02")
	return &s
}
