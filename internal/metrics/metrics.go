package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Scrape pipeline metrics
var (
	ScrapeDaysTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blackbox_scrape_days_total",
		Help: "Day pages scraped, labeled by outcome",
	}, []string{"status"})

	ScrapedEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blackbox_scraped_events_total",
		Help: "Events parsed from scraped pages",
	})

	ScrapeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "blackbox_scrape_duration_seconds",
		Help:    "Duration of full fetch operations",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	})
)

// Storage metrics
var (
	EventsUpsertedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blackbox_events_upserted_total",
		Help: "Event rows inserted or updated",
	})

	StoreErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blackbox_store_errors_total",
		Help: "Persistence failures",
	})
)

// Background refresh metrics
var (
	RefreshRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blackbox_refresh_runs_total",
		Help: "Calendar refresh runs, labeled by outcome",
	}, []string{"status"})

	RefreshLastSuccess = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blackbox_refresh_last_success_timestamp",
		Help: "Unix time of the last successful calendar refresh",
	})
)

// Scoring metrics
var (
	ScoreRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blackbox_score_requests_total",
		Help: "Scoring computations, labeled by kind (currency or pair)",
	}, []string{"kind"})
)

// Handler exposes the default registry for the HTTP server
func Handler() http.Handler {
	return promhttp.Handler()
}
