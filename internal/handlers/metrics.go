package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	signupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "legacy_signups_total",
		Help: "Total number of successful sign ups.",
	})

	loginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legacy_login_attempts_total",
			Help: "Total number of sign-in attempts by outcome.",
		},
		[]string{"outcome"},
	)

	goalTogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "legacy_goal_toggles_total",
			Help: "Total number of goal progress toggles by resulting state.",
		},
		[]string{"state"},
	)

	achievementsRecordedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "legacy_achievements_recorded_total",
		Help: "Total number of sim achievements recorded.",
	})

	heirChangesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "legacy_heir_changes_total",
		Help: "Total number of heir reassignments.",
	})
)
