package scraper

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"blackbox/internal/adapters/config"
	"blackbox/pkg/errors"
	"blackbox/pkg/logger"
)

// Browser abstracts page retrieval so the parser and scraper can be tested
// against canned markup. The production implementation fetches over HTTP;
// a driver-based implementation would satisfy the same interface.
type Browser interface {
	// Navigate loads the URL and keeps the resulting page source
	Navigate(ctx context.Context, url string) error

	// PageSource returns the markup of the last navigated page
	PageSource() (string, error)

	// Close releases any underlying resources
	Close() error
}

var defaultUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// httpBrowser fetches pages with net/http. Requests are paced with a rate
// limiter plus randomized delays so traffic does not look mechanical.
type httpBrowser struct {
	client     *http.Client
	cfg        config.ScraperConfig
	limiter    *rate.Limiter
	userAgents []string
	source     string
	navigated  bool
}

// NewBrowser creates the HTTP-backed page source provider
func NewBrowser(cfg config.ScraperConfig) (Browser, error) {
	if cfg.PageLoadTimeout <= 0 {
		return nil, errors.Wrap(errors.ErrBrowserInit, "page load timeout must be positive")
	}

	agents := defaultUserAgents
	if cfg.UserAgent != "" {
		agents = []string{cfg.UserAgent}
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 12
	}

	return &httpBrowser{
		client: &http.Client{
			Timeout: cfg.PageLoadTimeout,
		},
		cfg:        cfg,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(rpm)), 1),
		userAgents: agents,
	}, nil
}

func (b *httpBrowser) Navigate(ctx context.Context, url string) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return errors.Wrap(errors.ErrNavigation, err.Error())
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrapf(errors.ErrNavigation, "build request for %s: %v", url, err)
	}
	req.Header.Set("User-Agent", b.userAgents[rand.Intn(len(b.userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := b.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return errors.Wrapf(errors.ErrPageLoad, "load %s: %v", url, err)
		}
		return errors.Wrapf(errors.ErrNavigation, "fetch %s: %v", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return errors.Wrapf(errors.ErrRateLimited, "fetch %s: status %d", url, resp.StatusCode)
	case resp.StatusCode == http.StatusForbidden:
		return errors.Wrapf(errors.ErrBlocked, "fetch %s: status %d", url, resp.StatusCode)
	case resp.StatusCode >= 400:
		return errors.Wrapf(errors.ErrNavigation, "fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(errors.ErrPageLoad, "read body of %s: %v", url, err)
	}

	b.source = string(body)
	b.navigated = true

	// Let the page "settle" like a real reader would
	sleepCtx(ctx, randomDelay(b.cfg.PageLoadDelayMin, b.cfg.PageLoadDelayMax))
	return nil
}

func (b *httpBrowser) PageSource() (string, error) {
	if !b.navigated {
		return "", errors.Wrap(errors.ErrNavigation, "no page loaded")
	}
	return b.source, nil
}

func (b *httpBrowser) Close() error {
	b.client.CloseIdleConnections()
	logger.Debug("Browser closed")
	return nil
}

// randomDelay picks a duration uniformly in [min, max]
func randomDelay(min, max time.Duration) time.Duration {
	if max <= min {
		return min
	}
	return min + time.Duration(rand.Int63n(int64(max-min)))
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
