package workshop

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fixhub_ticket_mutations_total",
		Help: "Ticket aggregate mutations by operation and outcome.",
	}, []string{"op", "outcome"})

	conflictsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixhub_timeslot_conflicts_total",
		Help: "Time-slot bookings rejected due to overlap.",
	})

	recalcDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "fixhub_price_recalculation_seconds",
		Help:    "Duration of ticket total price recalculations.",
		Buckets: prometheus.DefBuckets,
	})

	auditDriftTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fixhub_price_audit_drift_total",
		Help: "Tickets whose persisted total drifted from the derived value.",
	})
)

func observeMutation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	mutationsTotal.WithLabelValues(op, outcome).Inc()
}
