package scraper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blackbox/internal/adapters/config"
	"blackbox/pkg/errors"
)

// fakeBrowser replays a script of per-navigation results
type fakeBrowser struct {
	results []navResult
	navs    []string
	page    string
	closed  bool
}

type navResult struct {
	page string
	err  error
}

func (b *fakeBrowser) Navigate(_ context.Context, url string) error {
	b.navs = append(b.navs, url)
	idx := len(b.navs) - 1
	if idx >= len(b.results) {
		idx = len(b.results) - 1
	}
	r := b.results[idx]
	if r.err != nil {
		return r.err
	}
	b.page = r.page
	return nil
}

func (b *fakeBrowser) PageSource() (string, error) { return b.page, nil }
func (b *fakeBrowser) Close() error                { b.closed = true; return nil }

func testScraperConfig() config.ScraperConfig {
	return config.ScraperConfig{
		BaseURL:        "https://example.com/calendar",
		MaxRetries:     3,
		RetryBaseDelay: time.Millisecond,
		RetryMaxDelay:  5 * time.Millisecond,
	}
}

func TestDayURL(t *testing.T) {
	s := New(&fakeBrowser{}, testScraperConfig())

	url := s.DayURL(time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "https://example.com/calendar?day=jan18.2026", url)

	url = s.DayURL(time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "https://example.com/calendar?day=dec1.2025", url)
}

func TestFetchDay(t *testing.T) {
	browser := &fakeBrowser{results: []navResult{{page: dayPageFixture}}}
	s := New(browser, testScraperConfig())

	events, err := s.FetchDay(context.Background(), time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Len(t, browser.navs, 1)
}

func TestFetchDay_RetriesTransientErrors(t *testing.T) {
	browser := &fakeBrowser{results: []navResult{
		{err: errors.Wrap(errors.ErrNavigation, "connection reset")},
		{err: errors.Wrap(errors.ErrRateLimited, "status 429")},
		{page: dayPageFixture},
	}}
	s := New(browser, testScraperConfig())

	events, err := s.FetchDay(context.Background(), time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, events, 3)
	assert.Len(t, browser.navs, 3)
}

func TestFetchDay_ExhaustsRetries(t *testing.T) {
	browser := &fakeBrowser{results: []navResult{
		{err: errors.Wrap(errors.ErrNavigation, "down")},
	}}
	s := New(browser, testScraperConfig())

	_, err := s.FetchDay(context.Background(), time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNavigation))
	assert.Len(t, browser.navs, 3)
}

func TestFetchDay_NoRetryOnParsingError(t *testing.T) {
	// Navigation succeeds but the page is empty, which is a parse failure
	browser := &fakeBrowser{results: []navResult{{page: ""}}}
	s := New(browser, testScraperConfig())

	_, err := s.FetchDay(context.Background(), time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrParsing))
	assert.Len(t, browser.navs, 1)
}

func TestFetchDay_ContextCancelled(t *testing.T) {
	browser := &fakeBrowser{results: []navResult{{page: dayPageFixture}}}
	s := New(browser, testScraperConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.FetchDay(ctx, time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC))
	require.Error(t, err)
	assert.Empty(t, browser.navs)
}

func TestFetchMonth_FullyShaped(t *testing.T) {
	browser := &fakeBrowser{results: []navResult{{page: dayPageFixture}}}
	s := New(browser, testScraperConfig())

	month, err := s.FetchMonth(context.Background(), 2026, time.February, nil)
	require.NoError(t, err)
	require.Len(t, month.Days, 28)
	assert.Len(t, browser.navs, 28)

	for _, day := range month.Days {
		assert.Len(t, day.Events, 3)
	}
}

func TestFetchMonth_FailedDayLeftEmpty(t *testing.T) {
	// Day 1 fails every retry; the rest succeed
	results := []navResult{
		{err: errors.Wrap(errors.ErrNavigation, "down")},
		{err: errors.Wrap(errors.ErrNavigation, "down")},
		{err: errors.Wrap(errors.ErrNavigation, "down")},
		{page: dayPageFixture},
	}
	browser := &fakeBrowser{results: results}
	s := New(browser, testScraperConfig())

	month, err := s.FetchMonth(context.Background(), 2026, time.February, nil)
	require.NoError(t, err)
	require.Len(t, month.Days, 28)

	assert.Empty(t, month.Days[0].Events)
	assert.Len(t, month.Days[1].Events, 3)
}

func TestFetchMonth_CurrencyFilter(t *testing.T) {
	browser := &fakeBrowser{results: []navResult{{page: dayPageFixture}}}
	s := New(browser, testScraperConfig())

	month, err := s.FetchMonth(context.Background(), 2026, time.February, []string{"EUR"})
	require.NoError(t, err)

	for _, e := range month.AllEvents() {
		assert.Equal(t, "EUR", e.Currency)
	}
	assert.Len(t, month.AllEvents(), 28)
}

func TestFetchRange_InvalidRange(t *testing.T) {
	s := New(&fakeBrowser{results: []navResult{{page: dayPageFixture}}}, testScraperConfig())

	start := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.FetchRange(context.Background(), start, end, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidDate))
}
