package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReservationRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_requests_total",
			Help: "Total number of reservation requests",
		},
		[]string{"method", "path"},
	)

	ReservationRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reservation_requests_in_flight",
			Help: "Number of reservation requests currently being processed",
		},
	)

	ReservationRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reservation_request_duration_seconds",
			Help:    "Duration of reservation requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	ReservationsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reservations_created_total",
			Help: "Total number of reservations created",
		},
	)
)
