// Package metrics holds the Prometheus collectors for the reset-code workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the issue and verify counters.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultExpired  = "expired"
	ResultMismatch = "mismatch"
	ResultInvalid  = "invalid"
	ResultError    = "error"
)

var (
	CodesIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reset_codes_issued_total",
		Help: "Password-reset code issuance attempts by result.",
	}, []string{"result"})

	CodesVerified = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reset_codes_verified_total",
		Help: "Password-reset code verification attempts by result.",
	}, []string{"result"})

	CodesSwept = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reset_codes_swept_total",
		Help: "Expired password-reset codes removed by the cleanup job.",
	})

	SweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reset_codes_sweep_duration_seconds",
		Help:    "Wall time of a single cleanup sweep.",
		Buckets: prometheus.DefBuckets,
	})
)
