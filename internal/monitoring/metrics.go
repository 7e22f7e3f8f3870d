package monitoring

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventease_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventease_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventease_cache_lookups_total",
			Help: "Query cache lookups by result",
		},
		[]string{"cache", "result"},
	)

	changeEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventease_change_events_total",
			Help: "Change notifications processed",
		},
		[]string{"table", "action", "status"},
	)

	likeRollbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "eventease_like_rollbacks_total",
			Help: "Optimistic like toggles reverted after a failed write",
		},
	)

	upstreamRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventease_upstream_retries_total",
			Help: "Read retries against the database",
		},
		[]string{"operation"},
	)

	goroutineCount = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "eventease_goroutines",
			Help: "Current number of goroutines",
		},
	)
)

func TrackHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackCacheLookup hit 為 true 記為命中
func TrackCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(cache, result).Inc()
}

func TrackChangeEvent(table, action, status string) {
	changeEvents.WithLabelValues(table, action, status).Inc()
}

func TrackLikeRollback() {
	likeRollbacks.Inc()
}

func TrackRetry(operation string) {
	upstreamRetries.WithLabelValues(operation).Inc()
}

// CollectRuntime 定期更新 goroutine 數量，直到 ctx 結束
func CollectRuntime(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		goroutineCount.Set(float64(runtime.NumGoroutine()))
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
