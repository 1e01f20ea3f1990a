// Package metrics registers the domain counters exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_reservations_total",
		Help: "Successful book reservations.",
	})

	GivebacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_givebacks_total",
		Help: "Books returned by users.",
	})

	ExpiredBookingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweep_expired_bookings_total",
		Help: "Abandoned reservations removed by the cleanup sweep.",
	})

	OverdueBookingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sweep_overdue_bookings_total",
		Help: "Bookings flagged as not returned by the overdue sweep.",
	})
)
