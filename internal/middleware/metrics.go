package middleware

import (
	"time"

	"eventease/internal/monitoring"

	"github.com/gin-gonic/gin"
)

// Metrics 以路由樣板 (非實際路徑) 作為標籤
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		monitoring.TrackHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
