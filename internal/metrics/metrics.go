package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nicolaspaye",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "path", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "nicolaspaye",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	xpAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "nicolaspaye",
		Name:      "xp_awarded_total",
		Help:      "XP granted, labelled by action type",
	}, []string{"action"})

	clawbacks = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nicolaspaye",
		Name:      "xp_clawbacks_total",
		Help:      "Clawback reversals applied",
	})

	streaksReset = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nicolaspaye",
		Name:      "streaks_reset_total",
		Help:      "Streaks reset by the maintenance job",
	})

	reposProtected = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "nicolaspaye",
		Name:      "repos_days_protected_total",
		Help:      "Streaks protected by a repos day",
	})
)

// ObserveAward records one XP grant.
func ObserveAward(action string, amount int) {
	xpAwarded.WithLabelValues(action).Add(float64(amount))
}

// ObserveClawback records one reversal.
func ObserveClawback() {
	clawbacks.Inc()
}

// ObserveMaintenance records the effect of one maintenance run.
func ObserveMaintenance(resets, protected int64) {
	streaksReset.Add(float64(resets))
	reposProtected.Add(float64(protected))
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

// Middleware records request metrics with Prometheus labels.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		labels := prometheus.Labels{
			"method": r.Method,
			"path":   r.URL.Path,
			"status": strconv.Itoa(rec.status),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}

// Handler exposes the default Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
