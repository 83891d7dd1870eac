package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface with Prometheus
// collectors registered on one registry.
type PrometheusHooks struct {
	edits        *prometheus.CounterVec
	noops        *prometheus.CounterVec
	snapshots    prometheus.Counter
	evictions    prometheus.Counter
	historyDepth *prometheus.GaugeVec
	restores     *prometheus.CounterVec
	bindings     *prometheus.CounterVec
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

var (
	_ EditHooks    = (*PrometheusHooks)(nil)
	_ HistoryHooks = (*PrometheusHooks)(nil)
	_ BindingHooks = (*PrometheusHooks)(nil)
	_ HTTPHooks    = (*PrometheusHooks)(nil)
)

// NewPrometheusHooks creates the collectors on reg. Passing the default
// registerer works, but each registerer accepts the collectors only once.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		edits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ladderflow_edits_total",
			Help: "Structural edits applied to flows, labelled by operation.",
		}, []string{"op"}),
		noops: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ladderflow_edit_noops_total",
			Help: "Edits that found nothing to change, labelled by operation.",
		}, []string{"op"}),
		snapshots: f.NewCounter(prometheus.CounterOpts{
			Name: "ladderflow_history_snapshots_total",
			Help: "Snapshots pushed onto undo stacks.",
		}),
		evictions: f.NewCounter(prometheus.CounterOpts{
			Name: "ladderflow_history_evictions_total",
			Help: "Snapshots dropped because an undo stack was full.",
		}),
		historyDepth: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ladderflow_history_depth",
			Help: "Current undo depth per POU.",
		}, []string{"pou"}),
		restores: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ladderflow_history_restores_total",
			Help: "Undo and redo requests, labelled by direction and whether anything was restored.",
		}, []string{"direction", "applied"}),
		bindings: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ladderflow_bindings_total",
			Help: "Variable binding decisions, labelled by node kind and validity.",
		}, []string{"kind", "valid"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ladderflow_http_requests_total",
			Help: "HTTP requests served, labelled by method, route, and status.",
		}, []string{"method", "route", "status"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ladderflow_http_request_duration_ms",
			Help:    "HTTP request latency in milliseconds.",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}, []string{"route"}),
	}
}

func (p *PrometheusHooks) OnEdit(_, op, _ string) { p.edits.WithLabelValues(op).Inc() }
func (p *PrometheusHooks) OnNoop(_, op string)    { p.noops.WithLabelValues(op).Inc() }

func (p *PrometheusHooks) OnSnapshot(pou string, depth int) {
	p.snapshots.Inc()
	p.historyDepth.WithLabelValues(pou).Set(float64(depth))
}

func (p *PrometheusHooks) OnEvict(string) { p.evictions.Inc() }

func (p *PrometheusHooks) OnUndo(_ string, applied bool) {
	p.restores.WithLabelValues("undo", strconv.FormatBool(applied)).Inc()
}

func (p *PrometheusHooks) OnRedo(_ string, applied bool) {
	p.restores.WithLabelValues("redo", strconv.FormatBool(applied)).Inc()
}

func (p *PrometheusHooks) OnBind(kind string, valid bool) {
	p.bindings.WithLabelValues(kind, strconv.FormatBool(valid)).Inc()
}

func (p *PrometheusHooks) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	p.requests.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	p.latency.WithLabelValues(route).Observe(float64(duration.Microseconds()) / 1000)
}
