package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dshills/soracore/internal/diag"
	"github.com/dshills/soracore/internal/metrics"
)

// statusRecorder wraps http.ResponseWriter to capture the status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// metricsMiddleware instruments requests.
func metricsMiddleware(m *metrics.HTTP) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			m.Inflight.Inc()
			defer m.Inflight.Dec()

			next.ServeHTTP(sr, r)

			// The route pattern is only known once chi has routed the request.
			path := routePattern(r)
			status := strconv.Itoa(sr.status)
			m.Requests.WithLabelValues(path, r.Method, status).Inc()
			m.Duration.WithLabelValues(path, r.Method, status).Observe(time.Since(start).Seconds())
		})
	}
}

// loggingMiddleware reports every request at debug level, and server errors
// at error level.
func loggingMiddleware(report diag.Reporter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sr, r)

			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", sr.status,
				"dur", time.Since(start).String(),
			}
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				kv = append(kv, "request_id", rid)
			}
			if sr.status >= http.StatusInternalServerError {
				report.Error("request failed", kv...)
				return
			}
			report.Debug("request", kv...)
		})
	}
}

// unmatchedRoute labels requests that no route matched.
const unmatchedRoute = "unmatched"

// routePattern returns the chi route pattern, or unmatchedRoute. Raw paths
// are never used as label values so cardinality stays bounded.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
