package market

import (
	"context"
	"errors"
	"fmt"

	"stockdash.com/internal/dto"
)

var ErrSymbolNotFound = errors.New("symbol not found")

// Provider is the upstream source of market data.
type Provider interface {
	Quote(ctx context.Context, symbol string) (*dto.Quote, error)
	Search(ctx context.Context, query string) ([]dto.SearchResult, error)
	History(ctx context.Context, symbol, rng string) ([]dto.PricePoint, error)
	Profile(ctx context.Context, symbol string) (*dto.StockInfo, error)
}

type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("market api %s returned status %d", e.Endpoint, e.StatusCode)
}
