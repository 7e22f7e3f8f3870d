package middleware

import (
	"time"

	"eventease/internal/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessLog 記錄 method、path、status 與耗時，不記錄 body
func AccessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if identity, ok := auth.CurrentUser(c); ok {
			fields = append(fields, zap.String("user_id", identity.UserID.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
