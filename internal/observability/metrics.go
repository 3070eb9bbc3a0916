package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts account registrations by outcome.
	RegistrationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userbase_registrations_total",
		Help: "Total number of registration attempts by outcome",
	}, []string{"outcome"})

	// LoginsTotal counts login attempts by outcome.
	LoginsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userbase_logins_total",
		Help: "Total number of login attempts by outcome",
	}, []string{"outcome"})

	// DeletionsTotal counts user deletions by kind (soft or permanent).
	DeletionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "userbase_deletions_total",
		Help: "Total number of user deletions by kind",
	}, []string{"kind"})
)
