package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pesa-dev/networth_snapshot_service/internal/metrics"
)

// MetricsMiddleware records a Prometheus counter per completed request,
// labelled by route template, method and status.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.RequestsTotal.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
