package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestHTTPMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	m.ObserveRequest("/api/v1/items", "GET", 200, 250*time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/api/v1/items"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 1 {
		t.Fatalf("expected requests=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "http_request_duration_seconds", "route", "/api/v1/items"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestStockMetricsCountsByDirection(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewStockMetrics(reg)
	m.IncMovement("receive")
	m.IncMovement("receive")
	m.IncMovement("issue")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "stock_movements_total", "direction", "receive"); err != nil {
		t.Fatalf("fetch receive: %v", err)
	} else if got != 2 {
		t.Fatalf("expected receive=2, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "stock_movements_total", "direction", "issue"); err != nil {
		t.Fatalf("fetch issue: %v", err)
	} else if got != 1 {
		t.Fatalf("expected issue=1, got %f", got)
	}
}

func TestNilRegistererIsNoOp(t *testing.T) {
	m := NewHTTPMetrics(nil)
	m.ObserveRequest("/x", "GET", 200, time.Second)
	s := NewStockMetrics(nil)
	s.IncMovement("issue")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
