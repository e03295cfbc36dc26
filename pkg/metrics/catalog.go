package metrics

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// CatalogMetrics records catalog lookup behaviour per source.
type CatalogMetrics struct {
	lookups  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	retries  *prometheus.CounterVec
	cache    *prometheus.CounterVec
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
// A nil registerer yields a recorder whose methods are no-ops.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_lookups_total",
		Help: "Catalog lookups by source and outcome.",
	}, []string{"source", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_lookup_duration_seconds",
		Help:    "Duration of catalog lookups in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	retries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_lookup_retries_total",
		Help: "Retried catalog fetch attempts.",
	}, []string{"source"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_requests_total",
		Help: "Catalog cache reads by result.",
	}, []string{"result"})
	reg.MustRegister(lookups, duration, retries, cache)
	return &CatalogMetrics{
		lookups:  lookups,
		duration: duration,
		retries:  retries,
		cache:    cache,
	}
}

// ObserveLookup records one finished lookup.
func (c *CatalogMetrics) ObserveLookup(source string, found bool, duration time.Duration) {
	if c == nil || c.lookups == nil {
		return
	}
	outcome := OutcomeNotFound
	if found {
		outcome = OutcomeFound
	}
	source = normalizeLabel(source)
	c.lookups.WithLabelValues(source, outcome).Inc()
	c.duration.WithLabelValues(source).Observe(duration.Seconds())
}

// IncRetry counts one retried fetch attempt.
func (c *CatalogMetrics) IncRetry(source string) {
	if c == nil || c.retries == nil {
		return
	}
	c.retries.WithLabelValues(normalizeLabel(source)).Inc()
}

// IncCache counts one cache read with result hit, miss or error.
func (c *CatalogMetrics) IncCache(result string) {
	if c == nil || c.cache == nil {
		return
	}
	c.cache.WithLabelValues(normalizeLabel(result)).Inc()
}

// WriteText writes every metric gathered from g in the Prometheus text format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
