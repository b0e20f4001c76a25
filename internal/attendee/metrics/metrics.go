package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the attendee domain.
type Metrics struct {
	AttendeesIngested  prometheus.Counter
	IngestsSkipped     prometheus.Counter
	Disclosures        *prometheus.CounterVec
	UnlockKeysIssued   prometheus.Counter
	ProfilesUpdated    prometheus.Counter
	ResolveDuration    prometheus.Histogram
	DisclosureDuration prometheus.Histogram
}

// New creates and registers all attendee metrics.
func New() *Metrics {
	return &Metrics{
		AttendeesIngested: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passport_attendees_ingested_total",
			Help: "Total attendee records created from registration events",
		}),
		IngestsSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passport_ingests_skipped_total",
			Help: "Duplicate registration events skipped by the conditional write",
		}),
		Disclosures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "passport_disclosures_total",
			Help: "Profile disclosures by authentication method",
		}, []string{"method"}),
		UnlockKeysIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passport_unlock_keys_issued_total",
			Help: "Unlock keys issued after a successful proof",
		}),
		ProfilesUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passport_profiles_updated_total",
			Help: "Profile updates applied by consuming an unlock key",
		}),
		ResolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "passport_resolve_duration_seconds",
			Help:    "Latency of short code resolution",
			Buckets: prometheus.DefBuckets,
		}),
		DisclosureDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "passport_disclosure_duration_seconds",
			Help:    "Latency of profile disclosure",
			Buckets: prometheus.DefBuckets,
		}),
	}
}
