package scoring

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackbox/internal/domain/calendar"
	"blackbox/pkg/errors"
)

// fixedRepo serves a static event slice regardless of the query window
type fixedRepo struct {
	events []calendar.Event
}

func (r *fixedRepo) Upsert(context.Context, []calendar.Event) (int64, error) { return 0, nil }

func (r *fixedRepo) Events(_ context.Context, _, _ time.Time, f calendar.Filter) ([]calendar.Event, error) {
	return calendar.FilterByCurrency(r.events, f.Currencies), nil
}

func (r *fixedRepo) EventsForDate(context.Context, time.Time) ([]calendar.Event, error) {
	return nil, nil
}

func (r *fixedRepo) DatesNeedingRefresh(context.Context, time.Time, time.Time, time.Time) ([]time.Time, error) {
	return nil, nil
}

func (r *fixedRepo) HasEventsForMonth(context.Context, int, time.Month) (bool, error) {
	return false, nil
}

func (r *fixedRepo) Stats(context.Context) (*calendar.Stats, error) { return nil, nil }

func (r *fixedRepo) DeleteMonth(context.Context, int, time.Month) (int64, error) { return 0, nil }

func f(v float64) *float64 { return &v }

func testConfig() Config {
	return Config{HalfLifeHours: 48, LookbackDays: 7, MinBiasThreshold: 1.0}
}

func newTestEngine(t *testing.T, repo calendar.Repository, asOf time.Time) *Engine {
	t.Helper()
	engine, err := NewEngine(repo, testConfig())
	require.NoError(t, err)
	engine.now = func() time.Time { return asOf }
	return engine
}

func TestNewEngine_RejectsBadConfig(t *testing.T) {
	repo := &fixedRepo{}

	_, err := NewEngine(repo, Config{HalfLifeHours: 0, LookbackDays: 7})
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, err = NewEngine(repo, Config{HalfLifeHours: 48, LookbackDays: 0})
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, err = NewEngine(repo, Config{HalfLifeHours: 48, LookbackDays: 7, MinBiasThreshold: -0.1})
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestDecay(t *testing.T) {
	got, err := Decay(0, 48)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)

	got, err = Decay(48, 48)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, got, 1e-9)

	got, err = Decay(96, 48)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got, 1e-9)

	// Future events clamp to full strength
	got, err = Decay(-24, 48)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestDecay_InvalidHalfLife(t *testing.T) {
	_, err := Decay(10, 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))

	_, err = Decay(10, -1)
	require.Error(t, err)
}

func TestCurrencyScore(t *testing.T) {
	asOf := time.Date(2026, time.January, 18, 12, 0, 0, 0, time.UTC)

	// One event exactly one half-life old: surprise 0.5, weight 10
	eventDate := time.Date(2026, time.January, 16, 0, 0, 0, 0, time.UTC)
	tod := time.Date(0, time.January, 1, 12, 0, 0, 0, time.UTC)
	repo := &fixedRepo{events: []calendar.Event{
		{Date: eventDate, Time: &tod, Currency: "USD", Weight: 10, Surprise: f(0.5)},
	}}

	engine := newTestEngine(t, repo, asOf)

	score, err := engine.CurrencyScore(context.Background(), "usd")
	require.NoError(t, err)
	assert.InDelta(t, 0.5*10*0.5, score, 1e-9)
}

// windowRepo honors the query window like the real store does,
// comparing only against the date bounds
type windowRepo struct {
	fixedRepo
	gotStart time.Time
	gotEnd   time.Time
}

func (r *windowRepo) Events(_ context.Context, start, end time.Time, f calendar.Filter) ([]calendar.Event, error) {
	r.gotStart, r.gotEnd = start, end
	var out []calendar.Event
	for _, e := range calendar.FilterByCurrency(r.events, f.Currencies) {
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func TestCurrencyScore_LookbackWindowIncludesEarliestDay(t *testing.T) {
	// Mid-day asOf with a 7-day lookback must still reach events dated
	// exactly 7 days back, since the store compares whole dates
	asOf := time.Date(2026, time.January, 18, 12, 0, 0, 0, time.UTC)
	earliest := time.Date(2026, time.January, 11, 0, 0, 0, 0, time.UTC)

	repo := &windowRepo{fixedRepo: fixedRepo{events: []calendar.Event{
		{Date: earliest, Currency: "USD", Weight: 1, Surprise: f(1.0)},
	}}}

	engine := newTestEngine(t, repo, asOf)

	score, err := engine.CurrencyScore(context.Background(), "USD")
	require.NoError(t, err)
	assert.Greater(t, score, 0.0)

	assert.Equal(t, time.Date(2026, time.January, 11, 0, 0, 0, 0, time.UTC), repo.gotStart)
	assert.Equal(t, time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC), repo.gotEnd)
}

func TestCurrencyScore_SkipsUnscoredEvents(t *testing.T) {
	asOf := time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC)
	date := time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC)

	repo := &fixedRepo{events: []calendar.Event{
		{Date: date, Currency: "USD", Weight: 10, Surprise: nil},
		{Date: date, Currency: "USD", Weight: 5, Surprise: f(0.2)},
	}}

	engine := newTestEngine(t, repo, asOf)

	score, err := engine.CurrencyScore(context.Background(), "USD")
	require.NoError(t, err)
	assert.InDelta(t, 0.2*5*1.0, score, 1e-9)
}

func TestCurrencyScore_EmptyIsZero(t *testing.T) {
	engine := newTestEngine(t, &fixedRepo{}, time.Now().UTC())

	score, err := engine.CurrencyScore(context.Background(), "CHF")
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestCurrencyScore_InvalidCode(t *testing.T) {
	engine := newTestEngine(t, &fixedRepo{}, time.Now().UTC())

	_, err := engine.CurrencyScore(context.Background(), "US1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestScorePair(t *testing.T) {
	asOf := time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC)
	date := time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC)

	repo := &fixedRepo{events: []calendar.Event{
		{Date: date, Currency: "USD", Weight: 5, Surprise: f(1.0)},
		{Date: date, Currency: "EUR", Weight: 1, Surprise: f(1.0)},
	}}

	engine := newTestEngine(t, repo, asOf)

	score, err := engine.ScorePair(context.Background(), "usd", "eur")
	require.NoError(t, err)
	assert.Equal(t, "USD", score.Base)
	assert.Equal(t, "EUR", score.Quote)
	assert.InDelta(t, 5.0, score.BaseScore, 1e-9)
	assert.InDelta(t, 1.0, score.QuoteScore, 1e-9)
	assert.InDelta(t, 4.0, score.Bias, 1e-9)
	assert.Equal(t, SignalBullish, score.Signal)
}

func TestWithConfig_Overrides(t *testing.T) {
	engine := newTestEngine(t, &fixedRepo{}, time.Now().UTC())

	derived, err := engine.WithConfig(Config{MinBiasThreshold: 3.0})
	require.NoError(t, err)
	assert.Equal(t, SignalNeutral, derived.SignalFor(2.0))
	assert.Equal(t, SignalBullish, derived.SignalFor(3.5))

	// Base engine keeps its own threshold
	assert.Equal(t, SignalBullish, engine.SignalFor(2.0))

	_, err = engine.WithConfig(Config{HalfLifeHours: -5})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestSignalFor_StrictThreshold(t *testing.T) {
	engine := newTestEngine(t, &fixedRepo{}, time.Now().UTC())

	// Threshold is 1.0 and exclusive
	assert.Equal(t, SignalNeutral, engine.SignalFor(1.0))
	assert.Equal(t, SignalBullish, engine.SignalFor(1.01))
	assert.Equal(t, SignalNeutral, engine.SignalFor(-1.0))
	assert.Equal(t, SignalBearish, engine.SignalFor(-1.01))
	assert.Equal(t, SignalNeutral, engine.SignalFor(0))
}
