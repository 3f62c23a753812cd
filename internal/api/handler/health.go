package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"stockdash.com/internal/cache"
	"stockdash.com/internal/database"
)

const healthCheckTimeout = 2 * time.Second

type HealthHandler struct {
	pingDatabase func(ctx context.Context) error
	quoteCache   cache.QuoteCache
}

func NewHealthHandler(quoteCache cache.QuoteCache) *HealthHandler {
	if quoteCache == nil {
		quoteCache = cache.Noop{}
	}
	return &HealthHandler{
		pingDatabase: database.Ping,
		quoteCache:   quoteCache,
	}
}

// GetHealth reports 503 when the database is unreachable. A cache outage only
// degrades the service since quotes fall through to the upstream.
func (h *HealthHandler) GetHealth(ctx *gin.Context) {
	checkCtx, cancel := context.WithTimeout(ctx.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.pingDatabase(checkCtx); err != nil {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "down",
			"error":    "Database ping failed",
		})
		return
	}

	if err := h.quoteCache.Ping(checkCtx); err != nil {
		ctx.JSON(http.StatusOK, gin.H{
			"status":   "degraded",
			"database": "up",
			"cache":    "down",
		})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "up",
		"cache":    "up",
	})
}
