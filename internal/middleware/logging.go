package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"stockdash.com/internal/logger"
	"stockdash.com/internal/metrics"
)

// RequestLogger logs every finished request and records its latency.
func RequestLogger(log *logger.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		ctx.Next()

		duration := time.Since(start)
		status := ctx.Writer.Status()

		route := ctx.FullPath()
		if route == "" {
			route = "unmatched"
		}

		log.LogRequest(ctx.Request, status, duration)
		m.ObserveRequest(ctx.Request.Method, route, status, duration.Seconds())
	}
}
