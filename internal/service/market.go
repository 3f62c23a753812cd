package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"stockdash.com/internal/apperror"
	"stockdash.com/internal/cache"
	"stockdash.com/internal/dto"
	"stockdash.com/internal/market"
	"stockdash.com/internal/repository"
)

var ErrInvalidQuery = errors.New("search query must be between 1 and 64 characters")

const maxQueryLength = 64

type MarketService interface {
	SearchStock(ctx context.Context, query string) ([]dto.SearchResult, error)
	GetCurrentPrice(ctx context.Context, symbol string) (*dto.Quote, error)
	GetMultiplePrices(ctx context.Context, symbols []string) ([]dto.Quote, error)
	GetHistoricalData(ctx context.Context, symbol, rng string) ([]dto.PricePoint, error)
	GetStockInfo(ctx context.Context, symbol string) (*dto.StockInfo, error)
	GetTrackedSymbols(ctx context.Context) ([]string, error)
	UpdatePrices(ctx context.Context) (*dto.RefreshSummary, error)
}

type marketService struct {
	provider       market.Provider
	quoteCache     cache.QuoteCache
	priceRepo      repository.PriceRepository
	maxConcurrency int
}

func NewMarketService(provider market.Provider, quoteCache cache.QuoteCache, maxConcurrency int) MarketService {
	if quoteCache == nil {
		quoteCache = cache.Noop{}
	}
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}
	return &marketService{
		provider:       provider,
		quoteCache:     quoteCache,
		priceRepo:      repository.NewPriceRepository(),
		maxConcurrency: maxConcurrency,
	}
}

func (s *marketService) SearchStock(ctx context.Context, query string) ([]dto.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" || len(query) > maxQueryLength {
		return nil, ErrInvalidQuery
	}

	results, err := s.provider.Search(ctx, query)
	if err != nil {
		return nil, apperror.Wrap("market.SearchStock", err).WithContext("query", query)
	}
	if results == nil {
		results = []dto.SearchResult{}
	}
	return results, nil
}

func (s *marketService) GetCurrentPrice(ctx context.Context, symbol string) (*dto.Quote, error) {
	symbol, err := market.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	if quote, err := s.quoteCache.Get(ctx, symbol); err == nil {
		return quote, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		logrus.WithFields(logrus.Fields{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Quote cache read failed")
	}

	quote, err := s.provider.Quote(ctx, symbol)
	if err != nil {
		if stale := s.lastStoredQuote(ctx, symbol, err); stale != nil {
			return stale, nil
		}
		return nil, apperror.Wrap("market.GetCurrentPrice", err).WithContext("symbol", symbol)
	}

	s.store(ctx, quote)
	return quote, nil
}

// lastStoredQuote returns the latest persisted price when the upstream failed
// for a reason other than an unknown symbol or a cancelled request.
func (s *marketService) lastStoredQuote(ctx context.Context, symbol string, upstreamErr error) *dto.Quote {
	if errors.Is(upstreamErr, market.ErrSymbolNotFound) || ctx.Err() != nil {
		return nil
	}

	snapshot, err := s.priceRepo.LatestSnapshot(symbol)
	if err != nil || snapshot == nil {
		return nil
	}

	logrus.WithFields(logrus.Fields{
		"symbol":     symbol,
		"error":      upstreamErr.Error(),
		"fetched_at": snapshot.FetchedAt,
	}).Warn("Upstream quote failed, serving last stored price")

	return &dto.Quote{
		Symbol:        snapshot.Symbol,
		Price:         snapshot.Price,
		Change:        snapshot.Change,
		ChangePercent: snapshot.ChangePercent,
		Volume:        snapshot.Volume,
		Timestamp:     snapshot.FetchedAt,
		Stale:         true,
	}
}

// store persists and caches a fresh quote. Failures are logged only: the
// caller already has the price it asked for.
func (s *marketService) store(ctx context.Context, quote *dto.Quote) {
	if err := s.priceRepo.SaveSnapshot(quote); err != nil {
		logrus.WithFields(logrus.Fields{
			"symbol": quote.Symbol,
			"error":  err.Error(),
		}).Warn("Failed to save price snapshot")
	}
	if err := s.quoteCache.Set(ctx, quote); err != nil {
		logrus.WithFields(logrus.Fields{
			"symbol": quote.Symbol,
			"error":  err.Error(),
		}).Warn("Failed to cache quote")
	}
}

func (s *marketService) GetMultiplePrices(ctx context.Context, symbols []string) ([]dto.Quote, error) {
	symbols, err := market.NormalizeSymbols(symbols)
	if err != nil {
		return nil, err
	}

	quotes := make([]dto.Quote, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for i, symbol := range symbols {
		g.Go(func() error {
			quote, err := s.GetCurrentPrice(gctx, symbol)
			if err != nil {
				return err
			}
			quotes[i] = *quote
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return quotes, nil
}

func (s *marketService) GetHistoricalData(ctx context.Context, symbol, rng string) ([]dto.PricePoint, error) {
	symbol, err := market.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}
	rng, err = market.NormalizeRange(rng)
	if err != nil {
		return nil, err
	}

	points, err := s.provider.History(ctx, symbol, rng)
	if err != nil {
		return nil, apperror.Wrap("market.GetHistoricalData", err).
			WithContext("symbol", symbol).
			WithContext("range", rng)
	}
	if points == nil {
		points = []dto.PricePoint{}
	}
	return points, nil
}

func (s *marketService) GetStockInfo(ctx context.Context, symbol string) (*dto.StockInfo, error) {
	symbol, err := market.NormalizeSymbol(symbol)
	if err != nil {
		return nil, err
	}

	info, err := s.provider.Profile(ctx, symbol)
	if err != nil {
		return nil, apperror.Wrap("market.GetStockInfo", err).WithContext("symbol", symbol)
	}

	if err := s.priceRepo.UpdateStockInfo(info); err != nil {
		logrus.WithFields(logrus.Fields{
			"symbol": symbol,
			"error":  err.Error(),
		}).Warn("Failed to update stock info")
	}
	return info, nil
}

func (s *marketService) GetTrackedSymbols(ctx context.Context) ([]string, error) {
	symbols, err := s.priceRepo.TrackedSymbols()
	if err != nil {
		return nil, apperror.Wrap("market.GetTrackedSymbols", err)
	}
	if symbols == nil {
		symbols = []string{}
	}
	return symbols, nil
}

// UpdatePrices fetches a fresh quote for every tracked symbol. Per-symbol
// failures are reported in the summary; only a failure to list the symbols
// is returned as an error.
func (s *marketService) UpdatePrices(ctx context.Context) (*dto.RefreshSummary, error) {
	symbols, err := s.priceRepo.TrackedSymbols()
	if err != nil {
		return nil, apperror.Wrap("market.UpdatePrices", err)
	}

	summary := &dto.RefreshSummary{Failures: []dto.RefreshFailure{}}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrency)

	for _, symbol := range symbols {
		g.Go(func() error {
			quote, err := s.provider.Quote(gctx, symbol)
			if err == nil {
				s.store(gctx, quote)
			}

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.Failed++
				summary.Failures = append(summary.Failures, dto.RefreshFailure{
					Symbol: symbol,
					Error:  err.Error(),
				})
				return nil
			}
			summary.Updated++
			return nil
		})
	}
	_ = g.Wait()

	return summary, nil
}
