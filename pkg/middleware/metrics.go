package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"

	"tratador/pkg/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Metrics counts requests and observes latency. Unrouted paths are folded
// into a single label value so scanners cannot blow up label cardinality.
func Metrics(m *metrics.Metrics, router *httprouter.Router) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			path := routeOf(router, r)
			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

func routeOf(router *httprouter.Router, r *http.Request) string {
	if router == nil {
		return r.URL.Path
	}
	if h, _, _ := router.Lookup(r.Method, r.URL.Path); h != nil {
		return r.URL.Path
	}
	return "unmatched"
}
