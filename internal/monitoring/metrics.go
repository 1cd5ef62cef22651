package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const METRICS_NAMESPACE = "postlens"

const (
	STATUS_SUCCESS = "success"
	STATUS_INVALID = "invalid"
	STATUS_ERROR   = "error"

	CACHE_HIT     = "hit"
	CACHE_MISS    = "miss"
	CACHE_ERROR   = "error"
	CACHE_SKIPPED = "skipped"
)

// Metrics owns a private registry so tests and multiple servers in one
// process never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	analysesTotal    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	sentimentTotal   *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	cacheHealthy     prometheus.Gauge
	storeWrites      *prometheus.CounterVec
	wordCount        prometheus.Histogram
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		analysesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: METRICS_NAMESPACE,
				Name:      "analyses_total",
				Help:      "Total number of analysis requests by source and status",
			},
			[]string{"source", "status"},
		),
		analysisDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: METRICS_NAMESPACE,
				Name:      "analysis_duration_seconds",
				Help:      "Time spent producing an analysis, including cache and store",
				Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
			},
			[]string{"source"},
		),
		sentimentTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: METRICS_NAMESPACE,
				Name:      "sentiment_labels_total",
				Help:      "Analyses by overall sentiment label",
			},
			[]string{"label"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: METRICS_NAMESPACE,
				Name:      "cache_lookups_total",
				Help:      "Result cache lookups by outcome",
			},
			[]string{"result"},
		),
		cacheHealthy: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: METRICS_NAMESPACE,
				Name:      "cache_healthy",
				Help:      "1 when the result cache answered its last health check",
			},
		),
		storeWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: METRICS_NAMESPACE,
				Name:      "store_writes_total",
				Help:      "Analysis records written to the history store by status",
			},
			[]string{"status"},
		),
		wordCount: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: METRICS_NAMESPACE,
				Name:      "post_words",
				Help:      "Word count of analyzed posts",
				Buckets:   []float64{10, 20, 40, 60, 100, 200, 500},
			},
		),
	}

	registry.MustRegister(
		m.analysesTotal,
		m.analysisDuration,
		m.sentimentTotal,
		m.cacheLookups,
		m.cacheHealthy,
		m.storeWrites,
		m.wordCount,
	)
	return m
}

func (m *Metrics) RecordAnalysis(source, status string, duration time.Duration) {
	m.analysesTotal.WithLabelValues(source, status).Inc()
	m.analysisDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *Metrics) RecordResult(label string, words int) {
	m.sentimentTotal.WithLabelValues(label).Inc()
	m.wordCount.Observe(float64(words))
}

func (m *Metrics) RecordCacheLookup(result string) {
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) SetCacheHealthy(healthy bool) {
	if healthy {
		m.cacheHealthy.Set(1)
		return
	}
	m.cacheHealthy.Set(0)
}

func (m *Metrics) RecordStoreWrite(status string, records int) {
	m.storeWrites.WithLabelValues(status).Add(float64(records))
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(
		m.registry,
		promhttp.HandlerOpts{
			EnableOpenMetrics: true,
			ErrorHandling:     promhttp.ContinueOnError,
		},
	)
}
