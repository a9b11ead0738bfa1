package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder owns the service registry and the collectors every layer reports to.
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	resolutions   *prometheus.CounterVec
	upstreamCalls *prometheus.HistogramVec
	circuitState  *prometheus.GaugeVec
	wsClients     prometheus.Gauge
	wsMessages    *prometheus.CounterVec
	sheetUpdates  *prometheus.CounterVec
}

func NewRecorder(namespace string) *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	r := &Recorder{
		registry: reg,
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resolver_resolutions_total",
			Help:      "Resource resolutions by kind and serving tier.",
		}, []string{"kind", "tier"}),
		upstreamCalls: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of sports API requests by outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		circuitState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "upstream_circuit_state",
			Help:      "1 for the current sports API breaker state.",
		}, []string{"state"}),
		wsClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_connected_clients",
			Help:      "Open websocket connections.",
		}),
		wsMessages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_total",
			Help:      "Websocket actions handled by action and result.",
		}, []string{"action", "result"}),
		sheetUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_sheet_updates_total",
			Help:      "Applied scoring mutations by sport and event.",
		}, []string{"sport", "event"}),
	}
	reg.MustRegister(r.resolutions, r.upstreamCalls, r.circuitState, r.wsClients, r.wsMessages, r.sheetUpdates)
	return r
}

func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) ObserveResolution(kind, tier string) {
	if r == nil {
		return
	}
	r.resolutions.WithLabelValues(kind, tier).Inc()
}

func (r *Recorder) ObserveUpstream(outcome string, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.upstreamCalls.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

func (r *Recorder) SetCircuitState(state string) {
	if r == nil {
		return
	}
	r.circuitState.Reset()
	r.circuitState.WithLabelValues(state).Set(1)
}

func (r *Recorder) WSConnected(delta int) {
	if r == nil {
		return
	}
	r.wsClients.Add(float64(delta))
}

func (r *Recorder) ObserveWSMessage(action string, ok bool) {
	if r == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	r.wsMessages.WithLabelValues(action, result).Inc()
}

func (r *Recorder) ObserveSheetUpdate(sport, event string) {
	if r == nil {
		return
	}
	r.sheetUpdates.WithLabelValues(sport, event).Inc()
}
