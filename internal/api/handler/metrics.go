package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"stockdash.com/internal/metrics"
)

type MetricsHandler struct {
	exposition http.Handler
}

func NewMetricsHandler(m *metrics.Metrics) *MetricsHandler {
	return &MetricsHandler{
		exposition: m.Handler(),
	}
}

// GetMetrics serves the Prometheus text format, not the JSON envelope.
func (h *MetricsHandler) GetMetrics(ctx *gin.Context) {
	h.exposition.ServeHTTP(ctx.Writer, ctx.Request)
}
