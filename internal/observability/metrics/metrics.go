package metrics

import "github.com/prometheus/client_golang/prometheus"

// CallMetrics exposes counters/histograms for the IVR webhook flows.
type CallMetrics struct {
	decisionsTotal  *prometheus.CounterVec
	recordingsTotal *prometheus.CounterVec
	webhookLatency  *prometheus.HistogramVec
}

func NewCallMetrics(reg prometheus.Registerer) *CallMetrics {
	m := &CallMetrics{
		decisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hamephone",
			Subsystem: "ivr",
			Name:      "decisions_total",
			Help:      "Menu decisions by state and resulting action",
		}, []string{"state", "action"}),
		recordingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hamephone",
			Subsystem: "ivr",
			Name:      "recording_callbacks_total",
			Help:      "Recording-status callbacks by outcome",
		}, []string{"status"}),
		webhookLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hamephone",
			Subsystem: "ivr",
			Name:      "webhook_latency_seconds",
			Help:      "Latency of voice webhook handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.decisionsTotal, m.recordingsTotal, m.webhookLatency)
	return m
}

func (m *CallMetrics) ObserveDecision(state, action string) {
	if m == nil {
		return
	}
	m.decisionsTotal.WithLabelValues(state, action).Inc()
}

func (m *CallMetrics) ObserveRecordingCallback(status string) {
	if m == nil {
		return
	}
	m.recordingsTotal.WithLabelValues(status).Inc()
}

func (m *CallMetrics) ObserveWebhookLatency(endpoint string, seconds float64) {
	if m == nil {
		return
	}
	m.webhookLatency.WithLabelValues(endpoint).Observe(seconds)
}
