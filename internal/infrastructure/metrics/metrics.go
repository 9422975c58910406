// Package metrics colectores Prometheus del API: HTTP, caché de consultas, realtime, pedidos y tareas.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/kirana-admin-api/internal/application/ports"
)

const namespace = "kirana"

var _ ports.Metrics = (*Metrics)(nil)

// Metrics agrupa los colectores en un registro propio.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	cacheRequests *prometheus.CounterVec
	realtime      *prometheus.CounterVec
	statusUpdates *prometheus.CounterVec
	jobRuns       *prometheus.CounterVec
}

// New registra los colectores, incluidos los de runtime de Go y del proceso.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total de peticiones HTTP atendidas.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duración de las peticiones HTTP.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		}, []string{"method", "route"}),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "query_cache",
			Name:      "requests_total",
			Help:      "Lecturas de la caché de consultas por recurso y resultado.",
		}, []string{"resource", "result"}),
		realtime: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "events_total",
			Help:      "Eventos recibidos del feed de cambios.",
		}, []string{"source", "type"}),
		statusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "orders",
			Name:      "status_updates_total",
			Help:      "Cambios de estado de pedidos por estado destino.",
		}, []string{"status"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Ejecuciones de tareas programadas.",
		}, []string{"job", "success"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration, m.cacheRequests, m.realtime, m.statusUpdates, m.jobRuns,
	)
	return m
}

// Registry registro para tests o colectores extra.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP registra una petición terminada. route es la plantilla de la ruta, no la URL.
func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// CacheResult implementa ports.Metrics.
func (m *Metrics) CacheResult(resource string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequests.WithLabelValues(resource, result).Inc()
}

// RealtimeEvent implementa ports.Metrics.
func (m *Metrics) RealtimeEvent(source, eventType string) {
	m.realtime.WithLabelValues(source, eventType).Inc()
}

// OrderStatusUpdated implementa ports.Metrics.
func (m *Metrics) OrderStatusUpdated(status string) {
	m.statusUpdates.WithLabelValues(status).Inc()
}

// JobRun implementa ports.Metrics.
func (m *Metrics) JobRun(job string, err error) {
	m.jobRuns.WithLabelValues(job, strconv.FormatBool(err == nil)).Inc()
}
