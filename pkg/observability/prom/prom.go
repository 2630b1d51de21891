// Package prom implements the observability hooks with Prometheus
// collectors.
//
//	m := prom.New(prometheus.NewRegistry())
//	m.Install()
//	http.Handle("/metrics", m.Handler())
package prom

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/sunburst/pkg/observability"
)

const namespace = "sunburst"

// Metrics holds every collector. It implements all hook interfaces of
// [observability].
type Metrics struct {
	registry *prometheus.Registry

	draws        *prometheus.CounterVec
	drawErrors   *prometheus.CounterVec
	stageSeconds *prometheus.HistogramVec
	arcs         prometheus.Histogram
	cacheOps     *prometheus.CounterVec
	cacheBytes   *prometheus.CounterVec
	snapshots    prometheus.Counter
	replaced     prometheus.Counter
	interactions *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpSeconds  *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: reg,
		draws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "draws_total",
			Help: "Render passes started, by chart instance.",
		}, []string{"instance"}),
		drawErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "draw_errors_total",
			Help: "Render passes that ended in an error panel, by error kind.",
		}, []string{"kind"}),
		stageSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "stage_duration_seconds",
			Help:    "Duration of pipeline stages.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, []string{"stage"}),
		arcs: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "arcs",
			Help:    "Arcs per rendered chart.",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_operations_total",
			Help: "Cache lookups and writes, by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cache_written_bytes_total",
			Help: "Bytes written to the cache, by key type.",
		}, []string{"key_type"}),
		snapshots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "snapshots_total",
			Help: "Data snapshots received from the host.",
		}),
		replaced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "snapshots_replaced_total",
			Help: "Snapshots superseded by a newer one before being drawn.",
		}),
		interactions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "interactions_total",
			Help: "Filter events sent to the host, by type.",
		}, []string{"type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_client_requests_total",
			Help: "Outgoing HTTP requests, by host and status.",
		}, []string{"host", "status"}),
		httpSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_client_duration_seconds",
			Help:    "Outgoing HTTP request duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),
	}
	reg.MustRegister(m.draws, m.drawErrors, m.stageSeconds, m.arcs, m.cacheOps,
		m.cacheBytes, m.snapshots, m.replaced, m.interactions, m.httpRequests, m.httpSeconds)
	return m
}

// Install registers m as the global hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHostHooks(m)
	observability.SetHTTPHooks(m)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) OnDrawStart(_ context.Context, instanceID string) {
	if instanceID == "" {
		instanceID = "default"
	}
	m.draws.WithLabelValues(instanceID).Inc()
}

func (m *Metrics) OnHierarchyComplete(_ context.Context, _, _ int, d time.Duration, _ error) {
	m.stageSeconds.WithLabelValues("hierarchy").Observe(d.Seconds())
}

func (m *Metrics) OnLayoutComplete(_ context.Context, arcCount int, d time.Duration) {
	m.stageSeconds.WithLabelValues("layout").Observe(d.Seconds())
	m.arcs.Observe(float64(arcCount))
}

func (m *Metrics) OnRenderComplete(_ context.Context, _ []string, d time.Duration, _ error) {
	m.stageSeconds.WithLabelValues("render").Observe(d.Seconds())
}

func (m *Metrics) OnDrawError(_ context.Context, kind string) {
	m.drawErrors.WithLabelValues(kind).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnSnapshot(context.Context, int) { m.snapshots.Inc() }

func (m *Metrics) OnSnapshotReplaced(context.Context) { m.replaced.Inc() }

func (m *Metrics) OnInteraction(_ context.Context, interactionType string) {
	m.interactions.WithLabelValues(interactionType).Inc()
}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	m.httpSeconds.WithLabelValues(host).Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.httpRequests.WithLabelValues(host, "error").Inc()
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.HostHooks     = (*Metrics)(nil)
	_ observability.HTTPHooks     = (*Metrics)(nil)
)
