package metrics

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

const (
	Cancelled    = "cancelled"
	CancelFailed = "cancel_failed"
	StopLoss     = "stop_loss"
	Skipped      = "skipped"
)

// Metrics collects the metrics of a single pass in a private registry.
// The process does not live long enough to be scraped, the registry is written to a textfile instead.
type Metrics struct {
	mutex      *sync.RWMutex
	registry   *prometheus.Registry
	prometheus Prometheus
}

func New() *Metrics {
	p := NewPrometheusMetrics()
	registry := prometheus.NewRegistry()
	registry.MustRegister(p.collectors()...)
	return &Metrics{
		mutex:      new(sync.RWMutex),
		registry:   registry,
		prometheus: p,
	}
}

// Run records the outcome of a pass.
func (m *Metrics) Run(symbol string, err error, duration time.Duration) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.prometheus.Runs.WithLabelValues(symbol, status).Inc()
	m.prometheus.Duration.WithLabelValues(symbol).Set(duration.Seconds())
	m.prometheus.LastRun.WithLabelValues(symbol).SetToCurrentTime()
}

// Orders adds to the count of orders of the given kind.
func (m *Metrics) Orders(symbol, kind string, n int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.prometheus.Orders.WithLabelValues(symbol, kind).Add(float64(n))
}

// Band records the prices of an envelope band.
func (m *Metrics) Band(symbol string, envelope, low, high float64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	e := strconv.FormatFloat(envelope, 'f', -1, 64)
	m.prometheus.Bands.WithLabelValues(symbol, e, "low").Set(low)
	m.prometheus.Bands.WithLabelValues(symbol, e, "high").Set(high)
}

// Balance records the tradeable balance.
func (m *Metrics) Balance(symbol string, balance float64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.prometheus.Balance.WithLabelValues(symbol).Set(balance)
}

// Write writes the registry in the text exposition format, e.g. for the node exporter textfile collector.
// An empty path is a no-op.
func (m *Metrics) Write(path string) error {
	if path == "" {
		return nil
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("could not write metrics to '%s': %w", path, err)
	}
	log.Debug().Str("path", path).Msg("metrics written")
	return nil
}
