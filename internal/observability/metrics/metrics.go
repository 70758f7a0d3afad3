package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "spa"

// BookingMetrics exposes counters for the booking flow.
type BookingMetrics struct {
	sessionsStarted *prometheus.CounterVec
	transitions     *prometheus.CounterVec
	gateFailures    *prometheus.CounterVec
	submissions     prometheus.Counter
	depositAmount   prometheus.Histogram
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "sessions_started_total",
			Help:      "Booking sessions started, by entry point",
		}, []string{"entry"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "transitions_total",
			Help:      "Step transitions in the booking flow",
		}, []string{"from", "to"}),
		gateFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "gate_failures_total",
			Help:      "Blocked forward transitions by step and reason",
		}, []string{"step", "code"}),
		submissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Bookings submitted from the deposit step",
		}),
		depositAmount: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "booking",
			Name:      "deposit_amount_baht",
			Help:      "Deposit owed per submitted booking",
			Buckets:   []float64{200, 400, 600, 800, 1000, 1500, 2000, 3000, 5000},
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.sessionsStarted, m.transitions, m.gateFailures, m.submissions, m.depositAmount)
	return m
}

func (m *BookingMetrics) ObserveSessionStarted(deepLink bool) {
	if m == nil {
		return
	}
	entry := "direct"
	if deepLink {
		entry = "service_link"
	}
	m.sessionsStarted.WithLabelValues(entry).Inc()
}

func (m *BookingMetrics) ObserveTransition(from, to int) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(strconv.Itoa(from), strconv.Itoa(to)).Inc()
}

func (m *BookingMetrics) ObserveGateFailure(step int, code string) {
	if m == nil {
		return
	}
	m.gateFailures.WithLabelValues(strconv.Itoa(step), code).Inc()
}

func (m *BookingMetrics) ObserveSubmission(deposit int) {
	if m == nil {
		return
	}
	m.submissions.Inc()
	m.depositAmount.Observe(float64(deposit))
}

// APIMetrics counts CRUD requests.
type APIMetrics struct {
	requests *prometheus.CounterVec
}

func NewAPIMetrics(reg prometheus.Registerer) *APIMetrics {
	m := &APIMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "CRUD requests by resource, operation and status code",
		}, []string{"resource", "operation", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests)
	return m
}

func (m *APIMetrics) ObserveRequest(resource, operation string, status int) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(resource, operation, strconv.Itoa(status)).Inc()
}
