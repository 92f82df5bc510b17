// Package metrics — prometheus-метрики сервера.
//
// Все методы безопасны для nil *Metrics: если метрики выключены в конфиге,
// слои, которые их пишут, ничего не делают.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jsonserver"

// Исходы обработки фрагмента документации.
const (
	FragmentApplied = "ok"
	FragmentSkipped = "skipped"
)

// Metrics — набор коллекторов сервера.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// авторизация
	GuardRejectionsTotal *prometheus.CounterVec

	// документация
	DocFragmentsTotal *prometheus.CounterVec

	// хранилище
	StoreReloadsTotal   *prometheus.CounterVec
	StoreWritesTotal    *prometheus.CounterVec
	StoreResourcesGauge prometheus.Gauge
}

// New создаёт коллекторы и регистрирует их в registry.
// registry == nil: создаётся собственный реестр с go/process коллекторами.
func New(registry *prometheus.Registry) *Metrics {
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		GuardRejectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "guard_rejections_total",
				Help:      "Requests rejected by the authorization guard",
			},
			[]string{"resource", "status"},
		),
		DocFragmentsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "doc_fragments_total",
				Help:      "Documentation annotation fragments by outcome",
			},
			[]string{"outcome"},
		),
		StoreReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_reloads_total",
				Help:      "Database file reloads triggered by external changes",
			},
			[]string{"status"},
		),
		StoreWritesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_writes_total",
				Help:      "Mutations persisted to the database file",
			},
			[]string{"resource", "method"},
		),
		StoreResourcesGauge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "store_resources",
				Help:      "Number of top-level resources in the database",
			},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.GuardRejectionsTotal,
		m.DocFragmentsTotal,
		m.StoreReloadsTotal,
		m.StoreWritesTotal,
		m.StoreResourcesGauge,
	)
	return m
}

// Registry возвращает реестр, в котором зарегистрированы коллекторы.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler — обработчик для эндпоинта /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// GuardRejected учитывает отказ guard'а.
func (m *Metrics) GuardRejected(resource string, status int) {
	if m == nil {
		return
	}
	m.GuardRejectionsTotal.WithLabelValues(resource, strconv.Itoa(status)).Inc()
}

// DocFragment учитывает обработанный фрагмент документации: ok|skipped.
func (m *Metrics) DocFragment(outcome string) {
	if m == nil {
		return
	}
	m.DocFragmentsTotal.WithLabelValues(outcome).Inc()
}

// StoreReloaded учитывает перечитывание базы.
func (m *Metrics) StoreReloaded(err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.StoreReloadsTotal.WithLabelValues(status).Inc()
}

// StoreWrite учитывает успешную мутацию ресурса.
func (m *Metrics) StoreWrite(resource, method string) {
	if m == nil {
		return
	}
	m.StoreWritesTotal.WithLabelValues(resource, method).Inc()
}

// SetResources выставляет число ресурсов базы.
func (m *Metrics) SetResources(n int) {
	if m == nil {
		return
	}
	m.StoreResourcesGauge.Set(float64(n))
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware считает запросы и их длительность.
//
// В метку route идёт шаблон маршрута chi (/{resource}/{id}), а не сырой путь,
// чтобы число рядов не росло с числом записей.
func (m *Metrics) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &responseWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					route = p
				}
			}
			m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(rw.status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
