package searchapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rankengine",
		Subsystem: "searchapi",
		Name:      "requests_total",
		Help:      "The total number of API requests by endpoint and status code",
	}, []string{"endpoint", "code"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rankengine",
		Subsystem: "searchapi",
		Name:      "request_duration_seconds",
		Help:      "The time it took to serve an API request",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument wraps handler so that its requests are counted and timed under
// the provided endpoint label.
func instrument(endpoint string, handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		handler(rec, r)
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
		requestCount.WithLabelValues(endpoint, strconv.Itoa(rec.status)).Inc()
	})
}
