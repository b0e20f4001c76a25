// Package metrics exposes Prometheus instrumentation for sponsor auth.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TokensIssued prometheus.Counter
	AuthFailures prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		TokensIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passport_sponsor_tokens_issued_total",
			Help: "Sponsor tokens issued after successful authentication",
		}),
		AuthFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "passport_sponsor_auth_failures_total",
			Help: "Sponsor authentication attempts rejected",
		}),
	}
}
