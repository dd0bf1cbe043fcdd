// Package metrics instruments the HTTP transport used to reach the task server.
package metrics

import (
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Metrics owns a private registry so repeated construction in tests never
// collides with the global one.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates and registers the client metrics.
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskdash_http_requests_total",
				Help: "Requests sent to the task server by method and status code.",
			},
			[]string{"method", "code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskdash_http_request_duration_seconds",
				Help:    "Round-trip latency of requests to the task server.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
	m.Registry.MustRegister(m.RequestsTotal, m.RequestDuration)
	return m
}

// InstrumentTransport wraps next so every round trip is counted and timed.
// A nil next uses http.DefaultTransport.
func (m *Metrics) InstrumentTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperCounter(m.RequestsTotal,
		promhttp.InstrumentRoundTripperDuration(m.RequestDuration, next))
}

// WriteText writes every gathered family in the text exposition format.
func (m *Metrics) WriteText(w io.Writer) error {
	families, err := m.Registry.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
