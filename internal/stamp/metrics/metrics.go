// Package metrics exposes Prometheus instrumentation for the stamp ledger.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	StampsRecorded   prometheus.Counter
	CooldownRejected prometheus.Counter
	RecordDuration   prometheus.Histogram
}

func New() *Metrics {
	return &Metrics{
		StampsRecorded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passport_stamps_recorded_total",
			Help: "Ledger rows appended by sponsor scans",
		}),
		CooldownRejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passport_stamps_cooldown_rejected_total",
			Help: "Repeat scans rejected inside the cooldown window",
		}),
		RecordDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "passport_stamp_record_duration_seconds",
			Help:    "Time to record a stamp including the cooldown check",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
