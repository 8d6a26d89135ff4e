package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"blackbox/pkg/errors"
)

type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	Scraper       ScraperConfig
	Scoring       ScoringConfig
	Server        ServerConfig
	ErrorTracking ErrorTrackingConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"blackbox"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"blackbox"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"blackbox_dev"`
	Database string `envconfig:"POSTGRES_DB" default:"blackbox"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// ScraperConfig controls the calendar source and request pacing.
// Delays are randomized within min/max ranges to look human; tests set
// them to zero. Pacing is not a correctness mechanism.
type ScraperConfig struct {
	BaseURL         string        `envconfig:"SCRAPER_BASE_URL" default:"https://www.forexfactory.com/calendar"`
	PageLoadTimeout time.Duration `envconfig:"SCRAPER_PAGE_LOAD_TIMEOUT" default:"30s"`
	MaxRetries      int           `envconfig:"SCRAPER_MAX_RETRIES" default:"3"`
	RetryBaseDelay  time.Duration `envconfig:"SCRAPER_RETRY_BASE_DELAY" default:"2s"`
	RetryMaxDelay   time.Duration `envconfig:"SCRAPER_RETRY_MAX_DELAY" default:"30s"`

	PageLoadDelayMin   time.Duration `envconfig:"SCRAPER_PAGE_LOAD_DELAY_MIN" default:"2s"`
	PageLoadDelayMax   time.Duration `envconfig:"SCRAPER_PAGE_LOAD_DELAY_MAX" default:"4s"`
	PaginationDelayMin time.Duration `envconfig:"SCRAPER_PAGINATION_DELAY_MIN" default:"3s"`
	PaginationDelayMax time.Duration `envconfig:"SCRAPER_PAGINATION_DELAY_MAX" default:"6s"`

	// Hard cap on request rate, applied on top of the random delays
	RequestsPerMinute int `envconfig:"SCRAPER_REQUESTS_PER_MINUTE" default:"12"`

	UserAgent string `envconfig:"SCRAPER_USER_AGENT"`
}

// ScoringConfig holds default parameters for fundamental scoring.
// Requests may override them; validation happens at engine construction.
type ScoringConfig struct {
	HalfLifeHours    float64 `envconfig:"SCORING_HALF_LIFE_HOURS" default:"48"`
	LookbackDays     int     `envconfig:"SCORING_LOOKBACK_DAYS" default:"7"`
	MinBiasThreshold float64 `envconfig:"SCORING_MIN_BIAS_THRESHOLD" default:"1.0"`
}

type ServerConfig struct {
	Port int `envconfig:"SERVER_PORT" default:"8080"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// WorkerConfig contains intervals for background workers
type WorkerConfig struct {
	// Periodic re-scrape of the current month to pick up published actuals
	CalendarRefreshInterval time.Duration `envconfig:"WORKER_CALENDAR_REFRESH_INTERVAL" default:"6h"`
	CalendarRefreshEnabled  bool          `envconfig:"WORKER_CALENDAR_REFRESH_ENABLED" default:"false"`
}

// Load reads configuration from the environment, consulting .env if present
func Load() (*Config, error) {
	// .env is optional; real deployments use the environment directly
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "process environment config")
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Scraper.MaxRetries < 1 {
		return errors.Wrapf(errors.ErrInvalidConfig, "SCRAPER_MAX_RETRIES must be >= 1, got %d", c.Scraper.MaxRetries)
	}
	if c.Scraper.PageLoadDelayMax < c.Scraper.PageLoadDelayMin {
		return errors.Wrap(errors.ErrInvalidConfig, "page load delay max < min")
	}
	if c.Scraper.PaginationDelayMax < c.Scraper.PaginationDelayMin {
		return errors.Wrap(errors.ErrInvalidConfig, "pagination delay max < min")
	}
	if c.Scoring.HalfLifeHours <= 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "SCORING_HALF_LIFE_HOURS must be positive")
	}
	if c.Scoring.LookbackDays <= 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "SCORING_LOOKBACK_DAYS must be positive")
	}
	if c.Scoring.MinBiasThreshold < 0 {
		return errors.Wrap(errors.ErrInvalidConfig, "SCORING_MIN_BIAS_THRESHOLD must be non-negative")
	}
	return nil
}
