package roster

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mergington/activityhub/internal/domain"
)

const namespace = "activityhub"

var (
	signups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "signups_total",
			Help:      "Total signup attempts by outcome",
		},
		[]string{"status"},
	)

	unregisters = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "unregisters_total",
			Help:      "Total unregister attempts by outcome",
		},
		[]string{"status"},
	)

	occupancy = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "occupancy",
			Help:      "Current participant count per activity",
		},
		[]string{"activity"},
	)

	capacity = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "roster",
			Name:      "capacity",
			Help:      "Maximum participant count per activity",
		},
		[]string{"activity"},
	)
)

func recordSignup(status string) {
	signups.WithLabelValues(status).Inc()
}

func recordUnregister(status string) {
	unregisters.WithLabelValues(status).Inc()
}

// RecordOccupancy updates the per-activity roster gauges.
func RecordOccupancy(activities []*domain.Activity) {
	for _, a := range activities {
		occupancy.WithLabelValues(a.Name).Set(float64(len(a.Participants)))
		capacity.WithLabelValues(a.Name).Set(float64(a.MaxParticipants))
	}
}
