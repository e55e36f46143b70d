package identity

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "activityhub"

var (
	logins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "logins_total",
			Help:      "Total login attempts by outcome",
		},
		[]string{"status"},
	)

	registrations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "identity",
			Name:      "registrations_total",
			Help:      "Total successful registrations by role",
		},
		[]string{"role"},
	)
)

func recordLogin(status string) {
	logins.WithLabelValues(status).Inc()
}

func recordRegistration(role string) {
	registrations.WithLabelValues(role).Inc()
}
