// Package observability owns the prometheus collectors exported on /metrics.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	rankingRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "silverlink",
		Subsystem: "ranking",
		Name:      "requests_total",
		Help:      "Activity ranking requests by sort mode and cache outcome.",
	}, []string{"mode", "cache"})

	directoryListings = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "silverlink",
		Subsystem: "directory",
		Name:      "listing_size",
		Help:      "Members returned per directory listing.",
		Buckets:   prometheus.LinearBuckets(0, 5, 10),
	})

	authEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "silverlink",
		Subsystem: "auth",
		Name:      "events_total",
		Help:      "Registrations, logins and logouts by outcome.",
	}, []string{"event", "outcome"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "silverlink",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

func init() {
	prometheus.MustRegister(rankingRequests, directoryListings, authEvents, httpDuration)
}

// RecordRanking counts one ranking request. cacheHit is false when the
// ranking was computed.
func RecordRanking(mode string, cacheHit bool) {
	outcome := "miss"
	if cacheHit {
		outcome = "hit"
	}
	rankingRequests.WithLabelValues(mode, outcome).Inc()
}

func RecordDirectoryListing(size int) {
	directoryListings.Observe(float64(size))
}

// RecordAuth counts an auth event ("register", "login", "logout").
func RecordAuth(event string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	authEvents.WithLabelValues(event, outcome).Inc()
}

func RecordHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func Handler() http.Handler {
	return promhttp.Handler()
}
