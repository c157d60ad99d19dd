// Package observability provides Prometheus metrics and OpenTelemetry tracing setup.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridcode_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ReactionsTotal counts reactions written, by kind.
	ReactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridcode_reactions_total",
		Help: "Total number of reactions set, by reaction kind",
	}, []string{"kind"})

	// EndorsementsTotal counts legacy endorsements written, by type.
	EndorsementsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gridcode_endorsements_total",
		Help: "Total number of legacy endorsements created, by type",
	}, []string{"type"})

	// ProfileViewsRecorded counts profile views actually stored.
	ProfileViewsRecorded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridcode_profile_views_recorded_total",
		Help: "Total number of profile views stored",
	})

	// ProfileViewsDeduplicated counts views dropped by the rolling window.
	ProfileViewsDeduplicated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridcode_profile_views_deduplicated_total",
		Help: "Total number of profile views dropped by the 1-hour de-duplication window",
	})

	// InviteConsumeFailures counts invite codes that could not be marked used
	// after a successful registration. A non-zero rate means codes may be
	// reusable and needs operator attention.
	InviteConsumeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gridcode_invite_consume_failures_total",
		Help: "Total number of failures to mark an invite code used after registration",
	})
)
