package service

import (
	"context"

	"stockdash.com/internal/cache"
	"stockdash.com/internal/database"
	"stockdash.com/internal/dto"
)

type MockProvider struct {
	QuoteFunc   func(ctx context.Context, symbol string) (*dto.Quote, error)
	SearchFunc  func(ctx context.Context, query string) ([]dto.SearchResult, error)
	HistoryFunc func(ctx context.Context, symbol, rng string) ([]dto.PricePoint, error)
	ProfileFunc func(ctx context.Context, symbol string) (*dto.StockInfo, error)
}

func (m *MockProvider) Quote(ctx context.Context, symbol string) (*dto.Quote, error) {
	if m.QuoteFunc != nil {
		return m.QuoteFunc(ctx, symbol)
	}
	return &dto.Quote{Symbol: symbol}, nil
}

func (m *MockProvider) Search(ctx context.Context, query string) ([]dto.SearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, nil
}

func (m *MockProvider) History(ctx context.Context, symbol, rng string) ([]dto.PricePoint, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, symbol, rng)
	}
	return nil, nil
}

func (m *MockProvider) Profile(ctx context.Context, symbol string) (*dto.StockInfo, error) {
	if m.ProfileFunc != nil {
		return m.ProfileFunc(ctx, symbol)
	}
	return &dto.StockInfo{Symbol: symbol}, nil
}

type MockQuoteCache struct {
	GetFunc  func(ctx context.Context, symbol string) (*dto.Quote, error)
	SetFunc  func(ctx context.Context, quote *dto.Quote) error
	PingFunc func(ctx context.Context) error
}

func (m *MockQuoteCache) Get(ctx context.Context, symbol string) (*dto.Quote, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, symbol)
	}
	return nil, cache.ErrCacheMiss
}

func (m *MockQuoteCache) Set(ctx context.Context, quote *dto.Quote) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, quote)
	}
	return nil
}

func (m *MockQuoteCache) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

type MockPriceRepository struct {
	SaveSnapshotFunc    func(quote *dto.Quote) error
	LatestSnapshotFunc  func(symbol string) (*database.PriceSnapshot, error)
	TrackedSymbolsFunc  func() ([]string, error)
	UpdateStockInfoFunc func(info *dto.StockInfo) error
}

func (m *MockPriceRepository) SaveSnapshot(quote *dto.Quote) error {
	if m.SaveSnapshotFunc != nil {
		return m.SaveSnapshotFunc(quote)
	}
	return nil
}

func (m *MockPriceRepository) LatestSnapshot(symbol string) (*database.PriceSnapshot, error) {
	if m.LatestSnapshotFunc != nil {
		return m.LatestSnapshotFunc(symbol)
	}
	return nil, nil
}

func (m *MockPriceRepository) TrackedSymbols() ([]string, error) {
	if m.TrackedSymbolsFunc != nil {
		return m.TrackedSymbolsFunc()
	}
	return []string{}, nil
}

func (m *MockPriceRepository) UpdateStockInfo(info *dto.StockInfo) error {
	if m.UpdateStockInfoFunc != nil {
		return m.UpdateStockInfoFunc(info)
	}
	return nil
}
