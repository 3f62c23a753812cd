package database

import (
	"time"
)

// Stock is a symbol the dashboard has looked up at least once. The price
// refresher keeps LastPrice current for every row.
type Stock struct {
	ID          uint       `gorm:"type:bigint unsigned;primarykey;autoIncrement;not null" json:"id"`
	Symbol      string     `gorm:"type:varchar(16);uniqueIndex;not null" json:"symbol"`
	Name        string     `gorm:"type:varchar(255)" json:"name,omitempty"`
	Exchange    string     `gorm:"type:varchar(64)" json:"exchange,omitempty"`
	Currency    string     `gorm:"type:varchar(8)" json:"currency,omitempty"`
	LastPrice   float64    `gorm:"type:decimal(18,6);not null;default:0" json:"last_price"`
	LastUpdated *time.Time `gorm:"type:datetime" json:"last_updated,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type PriceSnapshot struct {
	ID            uint      `gorm:"type:bigint unsigned;primarykey;autoIncrement;not null" json:"id"`
	Symbol        string    `gorm:"type:varchar(16);not null;index:idx_snapshot_symbol_time,priority:1" json:"symbol"`
	Price         float64   `gorm:"type:decimal(18,6);not null" json:"price"`
	Change        float64   `gorm:"type:decimal(18,6);not null;default:0" json:"change"`
	ChangePercent float64   `gorm:"type:decimal(10,4);not null;default:0" json:"change_percent"`
	Volume        int64     `gorm:"type:bigint;not null;default:0" json:"volume"`
	FetchedAt     time.Time `gorm:"type:datetime;not null;index:idx_snapshot_symbol_time,priority:2" json:"fetched_at"`
	CreatedAt     time.Time `json:"created_at"`
}
