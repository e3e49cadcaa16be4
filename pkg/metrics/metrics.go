package metrics

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector owns a private registry with the passcheck collectors.
// A nil *Collector is valid and records nothing.
type Collector struct {
	registry   *prometheus.Registry
	candidates *prometheus.CounterVec
	lookups    *prometheus.CounterVec
	latency    prometheus.Histogram
}

func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "passcheck",
			Name:      "candidates_total",
			Help:      "Number of validated candidates by status and failing rule.",
		}, []string{"status", "rule"}),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "passcheck",
			Name:      "breach_lookups_total",
			Help:      "Breach range API attempts by HTTP status code (0 when no response).",
		}, []string{"code", "result"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "passcheck",
			Name:      "breach_lookup_duration_seconds",
			Help:      "Latency of breach range API attempts.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	c.registry.MustRegister(c.candidates, c.lookups, c.latency)
	return c
}

// ObserveCandidate counts one chain result. rule is empty unless rejected.
func (c *Collector) ObserveCandidate(status, rule string) {
	if c == nil {
		return
	}
	c.candidates.WithLabelValues(status, rule).Inc()
}

// ObserveLookup records one HTTP attempt against the breach API.
func (c *Collector) ObserveLookup(code int, d time.Duration, err error) {
	if c == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.lookups.WithLabelValues(strconv.Itoa(code), result).Inc()
	c.latency.Observe(d.Seconds())
}

func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile writes the current values in Prometheus text format, for the
// node_exporter textfile collector. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return errors.New("metrics collector is nil")
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
