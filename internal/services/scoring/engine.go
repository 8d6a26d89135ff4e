package scoring

import (
	"context"
	"math"
	"strings"
	"time"

	"blackbox/internal/domain/calendar"
	"blackbox/internal/metrics"
	"blackbox/pkg/errors"
	"blackbox/pkg/logger"
)

// Signal is the trading stance implied by a pair bias
type Signal string

const (
	SignalBullish Signal = "BULLISH"
	SignalBearish Signal = "BEARISH"
	SignalNeutral Signal = "NEUTRAL"
)

// Config holds scoring parameters. All scores produced by one engine use
// the same half-life, lookback and threshold.
type Config struct {
	HalfLifeHours    float64
	LookbackDays     int
	MinBiasThreshold float64
}

func (c Config) validate() error {
	if c.HalfLifeHours <= 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "half-life must be positive")
	}
	if c.LookbackDays <= 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "lookback days must be positive")
	}
	if c.MinBiasThreshold < 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "bias threshold must be non-negative")
	}
	return nil
}

// PairScore is the full scoring breakdown for a currency pair
type PairScore struct {
	Base       string  `json:"base"`
	Quote      string  `json:"quote"`
	BaseScore  float64 `json:"base_score"`
	QuoteScore float64 `json:"quote_score"`
	Bias       float64 `json:"bias"`
	Signal     Signal  `json:"signal"`
}

// Engine scores currencies from stored event surprises. Each published
// event contributes surprise * weight, decayed by the time elapsed since
// its release.
type Engine struct {
	repo calendar.Repository
	cfg  Config
	log  *logger.Logger
	now  func() time.Time
}

// NewEngine creates a scoring engine, rejecting out-of-range parameters
func NewEngine(repo calendar.Repository, cfg Config) (*Engine, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{
		repo: repo,
		cfg:  cfg,
		log:  logger.Get().With("component", "scoring"),
		now:  time.Now,
	}, nil
}

// WithConfig derives an engine with per-request parameters, sharing the
// repository. Zero fields keep the engine's defaults.
func (e *Engine) WithConfig(overrides Config) (*Engine, error) {
	cfg := e.cfg
	if overrides.HalfLifeHours != 0 {
		cfg.HalfLifeHours = overrides.HalfLifeHours
	}
	if overrides.LookbackDays != 0 {
		cfg.LookbackDays = overrides.LookbackDays
	}
	if overrides.MinBiasThreshold != 0 {
		cfg.MinBiasThreshold = overrides.MinBiasThreshold
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Engine{repo: e.repo, cfg: cfg, log: e.log, now: e.now}, nil
}

// Decay returns the exponential time decay factor 0.5^(hours/halfLife).
// Events in the future decay to exactly 1.0 rather than amplifying.
func Decay(hoursSince, halfLifeHours float64) (float64, error) {
	if halfLifeHours <= 0 {
		return 0, errors.Wrap(errors.ErrInvalidConfig, "half-life must be positive")
	}
	if hoursSince <= 0 {
		return 1.0, nil
	}
	return math.Pow(0.5, hoursSince/halfLifeHours), nil
}

// EventForce is one event's decayed contribution to its currency score.
// Events with no surprise contribute nothing.
func (e *Engine) EventForce(ev calendar.Event, asOf time.Time) float64 {
	if ev.Surprise == nil {
		return 0
	}

	hours := asOf.Sub(ev.OccurredAt(time.UTC)).Hours()
	decay, err := Decay(hours, e.cfg.HalfLifeHours)
	if err != nil {
		return 0
	}
	return *ev.Surprise * float64(ev.Weight) * decay
}

// CurrencyScore sums decayed event forces for a currency over the lookback
// window. A currency with no scored events is exactly 0.
func (e *Engine) CurrencyScore(ctx context.Context, currency string) (float64, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !calendar.ValidCurrency(currency) {
		return 0, errors.Wrapf(errors.ErrInvalidConfig, "currency %q", currency)
	}

	asOf := e.now().UTC()

	// The store keys events by date, so the window bounds are dates too.
	// Keeping asOf's time of day would clip the earliest lookback day.
	y, m, d := asOf.Date()
	end := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	start := end.AddDate(0, 0, -e.cfg.LookbackDays)

	events, err := e.repo.Events(ctx, start, end, calendar.Filter{Currencies: []string{currency}})
	if err != nil {
		return 0, err
	}

	metrics.ScoreRequestsTotal.WithLabelValues("currency").Inc()

	var score float64
	scored := 0
	for _, ev := range events {
		force := e.EventForce(ev, asOf)
		if force != 0 {
			scored++
		}
		score += force
	}

	e.log.Debugw("Currency scored",
		"currency", currency,
		"events", len(events),
		"scored", scored,
		"score", score,
	)
	return score, nil
}

// PairBias is the base currency score minus the quote currency score
func (e *Engine) PairBias(ctx context.Context, base, quote string) (float64, error) {
	baseScore, err := e.CurrencyScore(ctx, base)
	if err != nil {
		return 0, err
	}
	quoteScore, err := e.CurrencyScore(ctx, quote)
	if err != nil {
		return 0, err
	}
	return baseScore - quoteScore, nil
}

// SignalFor maps a bias to a stance. The threshold is exclusive: a bias
// exactly at the threshold stays neutral.
func (e *Engine) SignalFor(bias float64) Signal {
	switch {
	case bias > e.cfg.MinBiasThreshold:
		return SignalBullish
	case bias < -e.cfg.MinBiasThreshold:
		return SignalBearish
	default:
		return SignalNeutral
	}
}

// ScorePair computes the full scoring breakdown for a pair
func (e *Engine) ScorePair(ctx context.Context, base, quote string) (*PairScore, error) {
	baseScore, err := e.CurrencyScore(ctx, base)
	if err != nil {
		return nil, err
	}
	quoteScore, err := e.CurrencyScore(ctx, quote)
	if err != nil {
		return nil, err
	}

	metrics.ScoreRequestsTotal.WithLabelValues("pair").Inc()

	bias := baseScore - quoteScore
	return &PairScore{
		Base:       strings.ToUpper(strings.TrimSpace(base)),
		Quote:      strings.ToUpper(strings.TrimSpace(quote)),
		BaseScore:  baseScore,
		QuoteScore: quoteScore,
		Bias:       bias,
		Signal:     e.SignalFor(bias),
	}, nil
}
