// Package metrics provides Prometheus metrics for the session lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionsCreatedTotal counts sessions created via the command surface.
	SessionsCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "squadbot_sessions_created_total",
		Help: "Total number of gaming sessions created.",
	})

	// SessionsEndedTotal counts session teardowns by cause.
	SessionsEndedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "squadbot_sessions_ended_total",
		Help: "Total number of gaming sessions ended, by cause (host, sweep, grace, cleanup).",
	}, []string{"cause"})

	// RemindersFiredTotal counts start reminders that reached participants.
	RemindersFiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "squadbot_reminders_fired_total",
		Help: "Total number of session start reminders fired.",
	})

	// ActiveSessions tracks the number of sessions currently in the registry.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "squadbot_active_sessions",
		Help: "Number of sessions currently held in memory.",
	})
)
