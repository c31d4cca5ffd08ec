package tx

import "github.com/prometheus/client_golang/prometheus"

// factoryMetrics holds the Prometheus collectors shared by every
// transaction and lock table a Factory hands out.
type factoryMetrics struct {
	activeTx prometheus.Gauge
	lockWait prometheus.Histogram
}

func newFactoryMetrics(reg prometheus.Registerer) factoryMetrics {
	m := factoryMetrics{
		activeTx: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "corvidb_tx_active",
			Help: "Number of transactions currently open.",
		}),
		lockWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "corvidb_tx_lock_wait_seconds",
			Help:    "Time spent waiting to acquire a block lock.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	if reg != nil {
		reg.MustRegister(m.activeTx, m.lockWait)
	}
	return m
}
