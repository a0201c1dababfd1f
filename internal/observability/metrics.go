// Package observability holds Prometheus metrics for the trends gateway.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trends_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "trends_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	tokenCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trends_token_cache_hits_total",
			Help: "Total number of bearer tokens served from the credential cache.",
		},
	)
	tokenCacheMissesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trends_token_cache_misses_total",
			Help: "Total number of credential cache misses.",
		},
	)
	tokenExchangesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trends_token_exchanges_total",
			Help: "Total number of assertion exchanges against the identity provider.",
		},
	)
	tokenExchangeFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trends_token_exchange_failures_total",
			Help: "Total number of failed assertion exchanges.",
		},
	)

	queryJobsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trends_query_jobs_total",
			Help: "Total number of BigQuery query jobs by outcome.",
		},
		[]string{"outcome"},
	)
	queryDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trends_query_duration_seconds",
			Help:    "Round-trip latency of BigQuery query jobs.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal, httpRequestDurationSeconds,
		tokenCacheHitsTotal, tokenCacheMissesTotal,
		tokenExchangesTotal, tokenExchangeFailuresTotal,
		queryJobsTotal, queryDurationSeconds,
	)
}

// ObserveTokenCacheHit records a token served without a network round-trip.
func ObserveTokenCacheHit() { tokenCacheHitsTotal.Inc() }

// ObserveTokenCacheMiss records a credential cache miss.
func ObserveTokenCacheMiss() { tokenCacheMissesTotal.Inc() }

// ObserveTokenExchange records one assertion exchange attempt and its outcome.
func ObserveTokenExchange(err error) {
	tokenExchangesTotal.Inc()
	if err != nil {
		tokenExchangeFailuresTotal.Inc()
	}
}

// ObserveQuery records one BigQuery query job round trip.
func ObserveQuery(duration time.Duration, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	queryJobsTotal.WithLabelValues(outcome).Inc()
	queryDurationSeconds.Observe(duration.Seconds())
}

// MetricsMiddleware records request counts and latency per route.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		status := strconv.Itoa(recorder.status)
		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDurationSeconds.WithLabelValues(r.Method, r.URL.Path, status).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
