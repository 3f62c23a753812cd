package dto

import "time"

type Quote struct {
	Symbol        string    `json:"symbol"`
	Price         float64   `json:"price"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"change_percent"`
	Volume        int64     `json:"volume"`
	Currency      string    `json:"currency,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
	// Stale marks a stored price served because the upstream was unavailable.
	Stale bool `json:"stale,omitempty"`
}

type SearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
	Type     string `json:"type,omitempty"`
}

type PricePoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

type StockInfo struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange,omitempty"`
	Currency  string  `json:"currency,omitempty"`
	Sector    string  `json:"sector,omitempty"`
	Industry  string  `json:"industry,omitempty"`
	MarketCap float64 `json:"market_cap,omitempty"`
	Website   string  `json:"website,omitempty"`
}

type RefreshFailure struct {
	Symbol string `json:"symbol"`
	Error  string `json:"error"`
}

type RefreshSummary struct {
	Updated  int              `json:"updated"`
	Failed   int              `json:"failed"`
	Failures []RefreshFailure `json:"failures"`
}
