package httpmetrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sleepr-io/sleepr/backend/internal/observability/metrics"
)

type Collector struct {
	requestsTotal    *prometheus.CounterVec
	requestsInFlight prometheus.Gauge
	requestDuration  *prometheus.HistogramVec
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func New(service string) *Collector {
	c := &Collector{}
	switch service {
	case "auth":
		c.requestsTotal = metrics.AuthRequestsTotal
		c.requestsInFlight = metrics.AuthRequestsInFlight
		c.requestDuration = metrics.AuthRequestDurationSeconds
	case "reservations":
		c.requestsTotal = metrics.ReservationRequestsTotal
		c.requestsInFlight = metrics.ReservationRequestsInFlight
		c.requestDuration = metrics.ReservationRequestDurationSeconds
	}
	return c
}

func (c *Collector) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		method := r.Method
		path := NormalizePath(r.URL.Path)

		if c.requestsTotal != nil {
			c.requestsTotal.WithLabelValues(method, path).Inc()
		}
		if c.requestsInFlight != nil {
			c.requestsInFlight.Inc()
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if c.requestsInFlight != nil {
			c.requestsInFlight.Dec()
		}
		if c.requestDuration != nil {
			statusClass := fmt.Sprintf("%dxx", rec.status/100)
			c.requestDuration.WithLabelValues(method, path, statusClass).Observe(time.Since(start).Seconds())
		}
	})
}
