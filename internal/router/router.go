package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"stockdash.com/internal/api/handler"
	"stockdash.com/internal/logger"
	"stockdash.com/internal/metrics"
	"stockdash.com/internal/middleware"
)

type Options struct {
	Development    bool
	AllowedOrigins []string
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
}

type Handlers struct {
	Market  handler.MarketHandler
	Health  *handler.HealthHandler
	Metrics *handler.MetricsHandler
}

// New builds the engine. The request logger sits outermost so it sees the
// final status written by recovery, the error middleware or the not-found
// handler.
func New(opts Options, h Handlers) *gin.Engine {
	errorHandler := middleware.NewErrorHandler(
		middleware.ErrorConfig{Development: opts.Development},
		opts.Logger,
		opts.Metrics,
	)

	r := gin.New()
	r.Use(
		middleware.RequestLogger(opts.Logger, opts.Metrics),
		errorHandler.Recovery(),
		errorHandler.Middleware(),
		middleware.CORS(opts.AllowedOrigins),
	)

	r.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if h.Health != nil {
		r.GET("/health", h.Health.GetHealth)
	}
	if h.Metrics != nil {
		r.GET("/metrics", h.Metrics.GetMetrics)
	}

	marketAPI := r.Group("/api/market")
	{
		marketAPI.GET("/search", h.Market.SearchStock)
		marketAPI.GET("/price/:symbol", h.Market.GetCurrentPrice)
		marketAPI.POST("/prices", h.Market.GetMultiplePrices)
		marketAPI.GET("/history/:symbol", h.Market.GetHistoricalData)
		marketAPI.GET("/info/:symbol", h.Market.GetStockInfo)
		marketAPI.GET("/tracked", h.Market.GetTrackedSymbols)
		marketAPI.POST("/update-prices", h.Market.UpdatePrices)
	}

	r.NoRoute(errorHandler.HandleNotFound)

	return r
}
