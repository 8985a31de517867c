package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks HTTP traffic for the /metrics endpoint.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "govpay_http_requests_total",
			Help: "Total HTTP requests by method and status code",
		}, []string{"method", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "govpay_http_request_duration_seconds",
			Help:    "HTTP request duration by method",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method"}),
	}
}

func (m *Metrics) Record(method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(method).Observe(d.Seconds())
}
