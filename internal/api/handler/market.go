package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"stockdash.com/internal/api/request"
	"stockdash.com/internal/api/response"
	"stockdash.com/internal/market"
	"stockdash.com/internal/service"
)

type MarketHandler interface {
	SearchStock(*gin.Context)
	GetCurrentPrice(*gin.Context)
	GetMultiplePrices(*gin.Context)
	GetHistoricalData(*gin.Context)
	GetStockInfo(*gin.Context)
	GetTrackedSymbols(*gin.Context)
	UpdatePrices(*gin.Context)
}

type marketHandler struct {
	marketService service.MarketService
}

func NewMarketHandler(marketService service.MarketService) MarketHandler {
	return &marketHandler{
		marketService: marketService,
	}
}

func (h *marketHandler) SearchStock(ctx *gin.Context) {
	results, err := h.marketService.SearchStock(ctx.Request.Context(), ctx.Query("q"))
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.OK(results))
}

func (h *marketHandler) GetCurrentPrice(ctx *gin.Context) {
	quote, err := h.marketService.GetCurrentPrice(ctx.Request.Context(), ctx.Param("symbol"))
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.OK(quote))
}

func (h *marketHandler) GetMultiplePrices(ctx *gin.Context) {
	var pricesRequest request.MultiplePricesRequest

	if err := ctx.ShouldBindJSON(&pricesRequest); err != nil {
		ctx.JSON(http.StatusBadRequest, response.Fail(err.Error()))
		return
	}

	quotes, err := h.marketService.GetMultiplePrices(ctx.Request.Context(), pricesRequest.Symbols)
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.OK(quotes))
}

func (h *marketHandler) GetHistoricalData(ctx *gin.Context) {
	points, err := h.marketService.GetHistoricalData(ctx.Request.Context(), ctx.Param("symbol"), ctx.Query("range"))
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.OK(points))
}

func (h *marketHandler) GetStockInfo(ctx *gin.Context) {
	info, err := h.marketService.GetStockInfo(ctx.Request.Context(), ctx.Param("symbol"))
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.OK(info))
}

func (h *marketHandler) GetTrackedSymbols(ctx *gin.Context) {
	symbols, err := h.marketService.GetTrackedSymbols(ctx.Request.Context())
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.OK(symbols))
}

func (h *marketHandler) UpdatePrices(ctx *gin.Context) {
	summary, err := h.marketService.UpdatePrices(ctx.Request.Context())
	if err != nil {
		h.fail(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response.OK(summary))
}

// fail answers client mistakes directly and leaves everything else to the
// error middleware.
func (h *marketHandler) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, market.ErrInvalidSymbol),
		errors.Is(err, market.ErrInvalidRange),
		errors.Is(err, market.ErrTooManySymbols),
		errors.Is(err, service.ErrInvalidQuery):
		ctx.JSON(http.StatusBadRequest, response.Fail(err.Error()))
	case errors.Is(err, market.ErrSymbolNotFound):
		ctx.JSON(http.StatusNotFound, response.Fail(market.ErrSymbolNotFound.Error()))
	default:
		_ = ctx.Error(err)
	}
}
