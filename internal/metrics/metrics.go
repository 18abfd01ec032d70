package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "chat_sync"

// Metrics is nil safe: a nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	eventsApplied *prometheus.CounterVec
	eventsDropped *prometheus.CounterVec
	sends         *prometheus.CounterVec
	restFailures  *prometheus.CounterVec
	backfills     *prometheus.CounterVec
	unread        *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		eventsApplied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_applied_total",
			Help:      "Inbound realtime events applied to the message store.",
		}, []string{"event"}),
		eventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Inbound realtime events dropped as malformed or failing.",
		}, []string{"event"}),
		sends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sends_total",
			Help:      "Outbound requests by event and outcome.",
		}, []string{"event", "outcome"}),
		restFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rest_failures_total",
			Help:      "Failed REST calls by operation.",
		}, []string{"operation"}),
		backfills: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backfill_pages_total",
			Help:      "History pages fetched by outcome.",
		}, []string{"outcome"}),
		unread: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "unread_messages",
			Help:      "Unread counter per space.",
		}, []string{"space_id"}),
	}
	m.registry.MustRegister(m.eventsApplied, m.eventsDropped, m.sends, m.restFailures, m.backfills, m.unread)
	return m
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) EventApplied(event string) {
	if m == nil {
		return
	}
	m.eventsApplied.WithLabelValues(event).Inc()
}

func (m *Metrics) EventDropped(event string) {
	if m == nil {
		return
	}
	m.eventsDropped.WithLabelValues(event).Inc()
}

func (m *Metrics) Sent(event, outcome string) {
	if m == nil {
		return
	}
	m.sends.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) RESTFailed(operation string) {
	if m == nil {
		return
	}
	m.restFailures.WithLabelValues(operation).Inc()
}

func (m *Metrics) Backfill(outcome string) {
	if m == nil {
		return
	}
	m.backfills.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SetUnread(counts map[string]int) {
	if m == nil {
		return
	}
	for spaceID, n := range counts {
		m.unread.WithLabelValues(spaceID).Set(float64(n))
	}
}
