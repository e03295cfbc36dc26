package metrics

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCatalogMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCatalogMetrics(reg)

	metrics.ObserveLookup("http", true, 250*time.Millisecond)
	metrics.ObserveLookup("http", false, 10*time.Millisecond)
	metrics.ObserveLookup("http", false, 10*time.Millisecond)
	metrics.IncRetry("http")
	metrics.IncCache(CacheHit)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "catalog_lookups_total", map[string]string{"source": "http", "outcome": OutcomeFound}); err != nil {
		t.Fatalf("fetch found: %v", err)
	} else if got != 1 {
		t.Fatalf("expected found=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "catalog_lookups_total", map[string]string{"source": "http", "outcome": OutcomeNotFound}); err != nil {
		t.Fatalf("fetch not found: %v", err)
	} else if got != 2 {
		t.Fatalf("expected not_found=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "catalog_lookup_retries_total", map[string]string{"source": "http"}); err != nil {
		t.Fatalf("fetch retries: %v", err)
	} else if got != 1 {
		t.Fatalf("expected retries=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "catalog_cache_requests_total", map[string]string{"result": CacheHit}); err != nil {
		t.Fatalf("fetch cache: %v", err)
	} else if got != 1 {
		t.Fatalf("expected cache hit=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "catalog_lookup_duration_seconds", map[string]string{"source": "http"}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0.25 {
		t.Fatalf("expected duration sum > 0.25, got %f", got)
	}
}

func TestCatalogMetricsNilSafe(t *testing.T) {
	var nilMetrics *CatalogMetrics
	nilMetrics.ObserveLookup("http", true, time.Second)
	nilMetrics.IncRetry("http")
	nilMetrics.IncCache(CacheMiss)

	unregistered := NewCatalogMetrics(nil)
	unregistered.ObserveLookup("", false, time.Second)
	unregistered.IncCache("")
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCatalogMetrics(reg)
	metrics.ObserveLookup("", true, time.Millisecond)

	var buf bytes.Buffer
	if err := WriteText(&buf, reg); err != nil {
		t.Fatalf("write text: %v", err)
	}
	if !strings.Contains(buf.String(), `catalog_lookups_total{outcome="found",source="unknown"} 1`) {
		t.Fatalf("unexpected exposition:\n%s", buf.String())
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
