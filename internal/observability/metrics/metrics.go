package metrics

import "github.com/prometheus/client_golang/prometheus"

// BookingMetrics exposes counters/histograms for the appointment flows.
type BookingMetrics struct {
	transitionsTotal   *prometheus.CounterVec
	notificationsTotal *prometheus.CounterVec
	upstreamLatency    *prometheus.HistogramVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "appointments",
			Name:      "transitions_total",
			Help:      "Appointment transition attempts by event and outcome",
		}, []string{"event", "outcome"}),
		notificationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "notify",
			Name:      "deliveries_total",
			Help:      "Notification delivery attempts by event type and status",
		}, []string{"type", "status"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "upstream",
			Name:      "request_seconds",
			Help:      "Latency of calls to external providers",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.transitionsTotal, m.notificationsTotal, m.upstreamLatency)
	return m
}

func (m *BookingMetrics) ObserveTransition(event, outcome string) {
	if m == nil {
		return
	}
	m.transitionsTotal.WithLabelValues(event, outcome).Inc()
}

func (m *BookingMetrics) ObserveNotification(eventType, status string) {
	if m == nil {
		return
	}
	m.notificationsTotal.WithLabelValues(eventType, status).Inc()
}

func (m *BookingMetrics) ObserveUpstreamLatency(provider string, seconds float64) {
	if m == nil {
		return
	}
	m.upstreamLatency.WithLabelValues(provider).Observe(seconds)
}
