package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for the booking engine. All
// observe methods are safe on a nil receiver so wiring metrics stays
// optional.
type SchedulingMetrics struct {
	messagesTotal   *prometheus.CounterVec
	bookingAttempts *prometheus.CounterVec
	repliesTotal    *prometheus.CounterVec
	flowLatency     *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		messagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduler",
			Name:      "messages_total",
			Help:      "Inbound messages processed, by intent and outcome",
		}, []string{"intent", "outcome"}),
		bookingAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduler",
			Name:      "booking_attempts_total",
			Help:      "Individual slot requests, by result",
		}, []string{"result"}),
		repliesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduler",
			Name:      "replies_total",
			Help:      "Outbound replies, by provider and status",
		}, []string{"provider", "status"}),
		flowLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "scheduler",
			Name:      "flow_latency_seconds",
			Help:      "End-to-end latency of one message flow",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.messagesTotal, m.bookingAttempts, m.repliesTotal, m.flowLatency)
	return m
}

func (m *SchedulingMetrics) ObserveMessage(intent, outcome string) {
	if m == nil {
		return
	}
	m.messagesTotal.WithLabelValues(intent, outcome).Inc()
}

func (m *SchedulingMetrics) ObserveBookingAttempt(result string) {
	if m == nil {
		return
	}
	m.bookingAttempts.WithLabelValues(result).Inc()
}

func (m *SchedulingMetrics) ObserveReply(provider, status string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(provider, status).Inc()
}

func (m *SchedulingMetrics) ObserveFlowLatency(intent string, seconds float64) {
	if m == nil {
		return
	}
	m.flowLatency.WithLabelValues(intent).Observe(seconds)
}
