package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"hisaab/internal/metrics"
)

// Metrics records request counts and latency. Routes are labelled by their
// template (/api/v1/loans/:id) so IDs do not explode label cardinality.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
