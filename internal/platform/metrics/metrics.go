// Package metrics owns the prometheus registry and the collectors the API reports through
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fraudscore/internal/platform/store/pg"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fraudscore"

// Metrics groups every collector on a private registry
// A nil *Metrics is valid and records nothing, so tests and tools can skip it
type Metrics struct {
	reg *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	scoringOutcomes *prometheus.CounterVec
	scoringDuration *prometheus.HistogramVec

	credentialOps *prometheus.CounterVec

	dbQueries  *prometheus.CounterVec
	dbDuration *prometheus.HistogramVec
}

// New builds the collectors and registers them with the Go and process collectors
func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		scoringOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "requests_total",
			Help:      "Scoring requests by model, last stage reached and outcome.",
		}, []string{"model", "stage", "outcome"}),
		scoringDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scoring",
			Name:      "duration_seconds",
			Help:      "Scoring latency from receipt to terminal stage.",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"model"}),
		credentialOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "credential",
			Name:      "operations_total",
			Help:      "Hash and verify calls by result.",
		}, []string{"op", "result"}),
		dbQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "queries_total",
			Help:      "SQL statements by verb and result.",
		}, []string{"verb", "result"}),
		dbDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "SQL statement latency by verb.",
			Buckets:   []float64{.0005, .001, .0025, .005, .01, .025, .05, .1, .25, 1},
		}, []string{"verb"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration,
		m.scoringOutcomes, m.scoringDuration,
		m.credentialOps,
		m.dbQueries, m.dbDuration,
	)
	return m
}

// Registry exposes the registry for tests and extra collectors
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveScoring records one finished scoring request
func (m *Metrics) ObserveScoring(model, stage, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.scoringOutcomes.WithLabelValues(model, stage, outcome).Inc()
	m.scoringDuration.WithLabelValues(model).Observe(elapsed.Seconds())
}

// ObserveCredential records one hash or verify call; result is "ok", "mismatch" or "error"
func (m *Metrics) ObserveCredential(op, result string) {
	if m == nil {
		return
	}
	m.credentialOps.WithLabelValues(op, result).Inc()
}

// Middleware counts requests by chi route pattern so path parameters do not explode cardinality
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: w}
		start := time.Now()
		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := sw.status
		if status == 0 {
			status = http.StatusOK
		}
		m.httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

// OnQuery makes Metrics a pg.QueryTracer
func (m *Metrics) OnQuery(_ context.Context, ev pg.QueryEvent) {
	if m == nil {
		return
	}
	verb := sqlVerb(ev.SQL)
	result := "ok"
	if ev.Err != nil {
		result = "error"
	}
	m.dbQueries.WithLabelValues(verb, result).Inc()
	m.dbDuration.WithLabelValues(verb).Observe(float64(ev.ElapsedUS) / 1e6)
}

var _ pg.QueryTracer = (*Metrics)(nil)

// sqlVerb is the lower cased first keyword, enough to tell inserts from pings
func sqlVerb(sql string) string {
	f := strings.Fields(sql)
	if len(f) == 0 {
		return "unknown"
	}
	return strings.ToLower(f[0])
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	if sw.status == 0 {
		sw.status = code
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	return sw.ResponseWriter.Write(b)
}

func (sw *statusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }
