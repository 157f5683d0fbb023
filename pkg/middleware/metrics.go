package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/addissongs/song-service/pkg/metrics"
)

// RequestMetrics counts completed requests by method, matched route and
// status. Unmatched routes are labeled "unmatched" to keep cardinality bounded.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
