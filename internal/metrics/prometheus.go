package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "envelope"

type Prometheus struct {
	Runs     *prometheus.CounterVec
	Orders   *prometheus.CounterVec
	Bands    *prometheus.GaugeVec
	Balance  *prometheus.GaugeVec
	Duration *prometheus.GaugeVec
	LastRun  *prometheus.GaugeVec
}

func NewPrometheusMetrics() Prometheus {
	return Prometheus{
		Runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "strategy passes by outcome",
			}, []string{"symbol", "status"}),
		Orders: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_total",
				Help:      "orders handled in the pass by kind",
			}, []string{"symbol", "kind"}),
		Bands: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "band_price",
				Help:      "envelope band prices",
			}, []string{"symbol", "envelope", "side"}),
		Balance: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "tradeable_balance",
				Help:      "leveraged balance allocated to the envelopes",
			}, []string{"symbol"}),
		Duration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "duration of the last pass",
			}, []string{"symbol"}),
		LastRun: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "unix time of the last pass",
			}, []string{"symbol"}),
	}
}

func (p Prometheus) collectors() []prometheus.Collector {
	return []prometheus.Collector{p.Runs, p.Orders, p.Bands, p.Balance, p.Duration, p.LastRun}
}
