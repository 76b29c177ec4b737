// Package metrics exposes Prometheus instruments for the link and vote API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// LinksCreated counts links submitted through the API.
	LinksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linky_links_created_total",
		Help: "Total number of links created",
	})

	// VotesAdded counts votes cast by type.
	VotesAdded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linky_votes_added_total",
		Help: "Total number of votes cast by vote type",
	}, []string{"vote_type"})

	// VotesRemoved counts votes removed by type.
	VotesRemoved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linky_votes_removed_total",
		Help: "Total number of votes removed by vote type",
	}, []string{"vote_type"})

	// CacheRequests counts ranked-list cache lookups by result (hit, miss, error).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linky_cache_requests_total",
		Help: "Ranked link list cache lookups by result",
	}, []string{"result"})

	// HTTPRequestDuration records request latency by route and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linky_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware records HTTPRequestDuration for every request
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
