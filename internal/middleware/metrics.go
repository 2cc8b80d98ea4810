package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epark_http_requests_total",
		Help: "Total HTTP requests by method, route and status code",
	}, []string{"method", "route", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "epark_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	sessionTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epark_session_transitions_total",
		Help: "Parking session state transitions by target status",
	}, []string{"status"})
)

// Metrics records request counts and latency per route. The route template
// (not the raw path) is used so /sessions/:id does not explode cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		requestsTotal.WithLabelValues(
			c.Request.Method, route, strconv.Itoa(c.Writer.Status()),
		).Inc()
		requestDuration.WithLabelValues(c.Request.Method, route).
			Observe(time.Since(start).Seconds())
	}
}

// CountSessionTransition bumps the transition counter; called by the
// session service after a successful status change.
func CountSessionTransition(status string) {
	sessionTransitions.WithLabelValues(status).Inc()
}
