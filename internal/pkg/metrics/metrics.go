package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Booking outcome labels for BookingsTotal.
const (
	OutcomeSuccess   = "success"
	OutcomeConflict  = "conflict"
	OutcomeInvalid   = "invalid"
	OutcomeExhausted = "exhausted"
	OutcomeError     = "error"
)

// Metrics holds the collectors exported by the service.
type Metrics struct {
	// method, path, status_code
	HTTPRequestsTotal *prometheus.CounterVec

	// method, path
	HTTPRequestDuration *prometheus.HistogramVec

	// outcome: success, conflict, invalid, exhausted, error
	BookingsTotal *prometheus.CounterVec

	// attempts consumed by a single booking request
	BookingAttempts prometheus.Histogram

	// reason: store_contention, seat_busy
	BookingRetriesTotal *prometheus.CounterVec

	// outcome: success, forbidden, invalid_state, not_found, error
	CancellationsTotal *prometheus.CounterVec

	// lock: advisory, redis; status: success, failed
	SeatLockDuration *prometheus.HistogramVec

	ActiveReservations prometheus.Gauge
}

// New registers the collectors with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors with reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		BookingsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_bookings_total",
				Help: "Total number of seat booking requests by outcome",
			},
			[]string{"outcome"},
		),
		BookingAttempts: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "seat_booking_attempts",
				Help:    "Transaction attempts consumed per booking request",
				Buckets: []float64{1, 2, 3, 4, 5, 8},
			},
		),
		BookingRetriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_booking_retries_total",
				Help: "Total number of booking retries caused by transient contention",
			},
			[]string{"reason"},
		),
		CancellationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_cancellations_total",
				Help: "Total number of cancellation requests by outcome",
			},
			[]string{"outcome"},
		),
		SeatLockDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "seat_lock_duration_seconds",
				Help:    "Time spent acquiring per-seat locks",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"lock", "status"},
		),
		ActiveReservations: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "active_reservations",
				Help: "Current number of active reservations",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.BookingsTotal,
		m.BookingAttempts,
		m.BookingRetriesTotal,
		m.CancellationsTotal,
		m.SeatLockDuration,
		m.ActiveReservations,
	)

	return m
}

var defaultMetrics *Metrics

// Init creates the default instance on the default registry.
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get returns the default instance, nil before Init.
func Get() *Metrics {
	return defaultMetrics
}
