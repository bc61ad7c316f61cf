package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type PrometheusRecorder struct {
	registry  *prometheus.Registry
	counters  *prometheus.CounterVec
	histogram *prometheus.HistogramVec
	gauges    *prometheus.GaugeVec
}

// NewPrometheusRecorder registers verifield collectors on a private registry.
func NewPrometheusRecorder() *PrometheusRecorder {
	registry := prometheus.NewRegistry()

	counters := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "verifield",
			Name:      "events_total",
			Help:      "verifield event counters",
		},
		[]string{"type", "outcome"},
	)

	histogram := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "verifield",
			Name:      "latency_seconds",
			Help:      "verifield operation latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"},
	)

	gauges := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "verifield",
			Name:      "gauge",
			Help:      "verifield gauges",
		},
		[]string{"name", "state"},
	)

	registry.MustRegister(counters, histogram, gauges)

	return &PrometheusRecorder{
		registry:  registry,
		counters:  counters,
		histogram: histogram,
		gauges:    gauges,
	}
}

func (p *PrometheusRecorder) IncCounter(name string, labels map[string]string) {
	p.counters.With(prometheus.Labels{
		"type":    name,
		"outcome": labels["outcome"],
	}).Inc()
}

func (p *PrometheusRecorder) ObserveLatency(name string, d time.Duration, labels map[string]string) {
	p.histogram.With(prometheus.Labels{
		"operation": name,
		"outcome":   labels["outcome"],
	}).Observe(d.Seconds())
}

func (p *PrometheusRecorder) SetGauge(name string, value float64, labels map[string]string) {
	p.gauges.With(prometheus.Labels{
		"name":  name,
		"state": labels["state"],
	}).Set(value)
}

// Registry exposes the underlying registry.
func (p *PrometheusRecorder) Registry() *prometheus.Registry {
	return p.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (p *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}
