// Package metrics provides Prometheus metrics for scanner gateway calls.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"dashboard/internal/scanner_client"
)

// GatewayMetrics counts and times every call made through the scanner client.
type GatewayMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewGatewayMetrics creates and registers the gateway metrics.
func NewGatewayMetrics(registry prometheus.Registerer) (*GatewayMetrics, error) {
	m := &GatewayMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scanner_gateway_requests_total",
				Help: "Total number of scanner gateway calls",
			},
			[]string{"op", "outcome"}, // outcome: success or an error kind
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "scanner_gateway_request_duration_seconds",
				Help: "Time taken by scanner gateway calls",
				// 10ms to ~40s; training calls are the slow tail
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
			[]string{"op"},
		),
	}
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

// ObserveRequest implements scanner_client.Recorder. A zero kind means success.
func (m *GatewayMetrics) ObserveRequest(op string, kind scanner_client.Kind, elapsed time.Duration) {
	m.requestsTotal.WithLabelValues(op, Outcome(kind)).Inc()
	m.requestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Outcome is the label value for kind.
func Outcome(kind scanner_client.Kind) string {
	if kind == 0 {
		return "success"
	}
	return kind.String()
}

// Describe implements prometheus.Collector.
func (m *GatewayMetrics) Describe(ch chan<- *prometheus.Desc) {
	m.requestsTotal.Describe(ch)
	m.requestDuration.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *GatewayMetrics) Collect(ch chan<- prometheus.Metric) {
	m.requestsTotal.Collect(ch)
	m.requestDuration.Collect(ch)
}

var _ scanner_client.Recorder = (*GatewayMetrics)(nil)
