package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const otherPath = "other"

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pagepulse_http_requests_total",
			Help: "API requests by route, method and status",
		},
		[]string{"path", "method", "status"},
	)

	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "pagepulse_http_request_duration_seconds",
			Help: "API request latency by route and method",
			// audits include a remote fetch, so the tail runs to the fetch timeout
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 15},
		},
		[]string{"path", "method"},
	)

	apiRequestsInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "pagepulse_http_requests_in_flight",
		Help: "API requests currently being served",
	})
)

func init() {
	prometheus.MustRegister(apiRequestsTotal, apiRequestDuration, apiRequestsInFlight)
}

// Metrics records request counts and latencies. Paths outside knownPaths share
// one label so scanners cannot blow up cardinality.
func Metrics(knownPaths map[string]bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiRequestsInFlight.Inc()
		defer apiRequestsInFlight.Dec()

		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		path := r.URL.Path
		if !knownPaths[path] {
			path = otherPath
		}
		apiRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(rw.statusCode)).Inc()
		apiRequestDuration.WithLabelValues(path, r.Method).Observe(time.Since(start).Seconds())
	})
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
