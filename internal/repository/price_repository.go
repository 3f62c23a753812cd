package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"stockdash.com/internal/database"
	"stockdash.com/internal/dto"
)

var ErrDatabaseNotInitialized = errors.New("database not initialized")

type PriceRepository interface {
	SaveSnapshot(quote *dto.Quote) error
	LatestSnapshot(symbol string) (*database.PriceSnapshot, error)
	TrackedSymbols() ([]string, error)
	UpdateStockInfo(info *dto.StockInfo) error
}

type priceRepository struct{}

func NewPriceRepository() PriceRepository {
	return &priceRepository{}
}

// SaveSnapshot stores the quote and marks its symbol as tracked in one transaction.
func (r *priceRepository) SaveSnapshot(quote *dto.Quote) error {
	if database.DB == nil {
		return ErrDatabaseNotInitialized
	}
	if quote == nil {
		return errors.New("quote is nil")
	}

	fetchedAt := quote.Timestamp
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		snapshot := &database.PriceSnapshot{
			Symbol:        quote.Symbol,
			Price:         quote.Price,
			Change:        quote.Change,
			ChangePercent: quote.ChangePercent,
			Volume:        quote.Volume,
			FetchedAt:     fetchedAt,
		}
		if err := tx.Create(snapshot).Error; err != nil {
			return err
		}

		stock := &database.Stock{
			Symbol:      quote.Symbol,
			Currency:    quote.Currency,
			LastPrice:   quote.Price,
			LastUpdated: &fetchedAt,
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "symbol"}},
			DoUpdates: clause.AssignmentColumns([]string{"currency", "last_price", "last_updated", "updated_at"}),
		}).Create(stock).Error
	})
}

func (r *priceRepository) LatestSnapshot(symbol string) (*database.PriceSnapshot, error) {
	if database.DB == nil {
		return nil, ErrDatabaseNotInitialized
	}
	var snapshot database.PriceSnapshot
	err := database.DB.Where("symbol = ?", symbol).Order("fetched_at DESC").First(&snapshot).Error
	if err != nil {
		return nil, err
	}
	return &snapshot, nil
}

func (r *priceRepository) TrackedSymbols() ([]string, error) {
	if database.DB == nil {
		return nil, ErrDatabaseNotInitialized
	}
	symbols := []string{}
	err := database.DB.Model(&database.Stock{}).Order("symbol ASC").Pluck("symbol", &symbols).Error
	if err != nil {
		return nil, err
	}
	return symbols, nil
}

// UpdateStockInfo fills descriptive columns of an already tracked stock. Unknown symbols are ignored.
func (r *priceRepository) UpdateStockInfo(info *dto.StockInfo) error {
	if database.DB == nil {
		return ErrDatabaseNotInitialized
	}
	if info == nil {
		return errors.New("stock info is nil")
	}
	return database.DB.Model(&database.Stock{}).
		Where("symbol = ?", info.Symbol).
		Updates(map[string]any{
			"name":     info.Name,
			"exchange": info.Exchange,
		}).Error
}
