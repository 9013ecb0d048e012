// Package metrics exposes Prometheus metrics for calendar scrapes served
// over HTTP.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jmylchreest/itfcal/pkg/tournament"
)

// Scrape outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeFailed   = "failed"
	OutcomeRejected = "rejected"
)

// Metrics holds the scrape metrics and the registry they live in.
type Metrics struct {
	ScrapesTotal    *prometheus.CounterVec
	ScrapeDuration  prometheus.Histogram
	EntriesReturned prometheus.Histogram

	registry *prometheus.Registry
}

// New registers the metrics on a fresh registry, so several instances can
// coexist in one process.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		ScrapesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "itfcal_scrapes_total",
			Help: "Calendar requests by outcome (ok, failed, rejected)",
		}, []string{"outcome"}),

		ScrapeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "itfcal_scrape_duration_seconds",
			Help:    "Wall time of one scraper run including browser startup",
			Buckets: []float64{1, 2.5, 5, 10, 20, 30, 60, 120, 240, 480},
		}),

		EntriesReturned: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "itfcal_entries_returned",
			Help:    "Tournament entries returned by successful scrapes",
			Buckets: []float64{0, 10, 25, 50, 100, 250, 500, 1000},
		}),

		registry: reg,
	}
}

// ObserveScrape records one completed scraper run.
func (m *Metrics) ObserveScrape(env tournament.Envelope, d time.Duration) {
	if m == nil {
		return
	}
	m.ScrapeDuration.Observe(d.Seconds())
	if !env.OK {
		m.ScrapesTotal.WithLabelValues(OutcomeFailed).Inc()
		return
	}
	m.ScrapesTotal.WithLabelValues(OutcomeOK).Inc()
	m.EntriesReturned.Observe(float64(env.Count))
}

// ObserveRejected records a request refused before scraping.
func (m *Metrics) ObserveRejected() {
	if m == nil {
		return
	}
	m.ScrapesTotal.WithLabelValues(OutcomeRejected).Inc()
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
