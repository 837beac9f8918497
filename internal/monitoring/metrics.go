package monitoring

import (
	"regexp"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	backendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_backend_requests_total",
			Help: "Backend API calls issued by the storefront",
		},
		[]string{"method", "route", "status"},
	)

	backendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_backend_request_duration_seconds",
			Help:    "Latency of backend API calls",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	gateDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_gate_decisions_total",
			Help: "Route gate outcomes",
		},
		[]string{"decision"},
	)

	purchaseSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_purchase_submissions_total",
			Help: "Purchase flow outcomes",
		},
		[]string{"result"},
	)

	activityConsumed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_activity_consumed_total",
			Help: "Activity messages drained from the queue",
		},
		[]string{"kind"},
	)
)

var numericSegment = regexp.MustCompile(`/\d+(/|$)`)

// RouteLabel collapses numeric path segments so label cardinality stays bounded.
func RouteLabel(path string) string {
	for numericSegment.MatchString(path) {
		path = numericSegment.ReplaceAllString(path, "/:id$1")
	}
	return path
}

// ObserveBackendCall records one backend call. status 0 means no response.
func ObserveBackendCall(method, path string, status int, elapsed time.Duration) {
	route := RouteLabel(path)
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	backendRequests.WithLabelValues(method, route, code).Inc()
	backendDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func TrackGateDecision(decision string) {
	gateDecisions.WithLabelValues(decision).Inc()
}

func TrackPurchase(result string) {
	purchaseSubmissions.WithLabelValues(result).Inc()
}

func TrackActivity(kind string) {
	activityConsumed.WithLabelValues(kind).Inc()
}
