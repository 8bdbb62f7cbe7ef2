package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records request-level metadata for the API surface.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	requests *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route, method and status.",
	}, []string{"route", "method", "status"})
	reg.MustRegister(duration, requests)
	return &HTTPMetrics{
		duration: duration,
		requests: requests,
	}
}

// ObserveRequest records one completed request.
func (m *HTTPMetrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	route = normalizeLabel(route)
	m.duration.WithLabelValues(route, method).Observe(duration.Seconds())
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// StockMetrics counts ledger movements by direction.
type StockMetrics struct {
	movements *prometheus.CounterVec
}

// NewStockMetrics registers the stock movement metrics on the provided registerer.
func NewStockMetrics(reg prometheus.Registerer) *StockMetrics {
	if reg == nil {
		return &StockMetrics{}
	}
	movements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stock_movements_total",
		Help: "Committed stock movements by direction.",
	}, []string{"direction"})
	reg.MustRegister(movements)
	return &StockMetrics{movements: movements}
}

// IncMovement increments the movement counter for the given direction.
func (m *StockMetrics) IncMovement(direction string) {
	if m == nil || m.movements == nil {
		return
	}
	m.movements.WithLabelValues(normalizeLabel(direction)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
