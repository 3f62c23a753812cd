package market

import (
	"errors"
	"strings"
)

var (
	ErrInvalidSymbol  = errors.New("invalid symbol")
	ErrInvalidRange   = errors.New("invalid range")
	ErrTooManySymbols = errors.New("too many symbols")
)

const (
	MaxSymbolLength   = 10
	MaxSymbolsPerCall = 50
	DefaultRange      = "1mo"
)

var validRanges = map[string]bool{
	"1d":  true,
	"5d":  true,
	"1mo": true,
	"3mo": true,
	"6mo": true,
	"1y":  true,
	"5y":  true,
}

// NormalizeSymbol trims and upper-cases raw and checks it against the ticker alphabet.
func NormalizeSymbol(raw string) (string, error) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	if symbol == "" || len(symbol) > MaxSymbolLength {
		return "", ErrInvalidSymbol
	}
	for _, r := range symbol {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
		default:
			return "", ErrInvalidSymbol
		}
	}
	return symbol, nil
}

// NormalizeSymbols normalizes every entry and drops duplicates, keeping first-seen order.
func NormalizeSymbols(raw []string) ([]string, error) {
	if len(raw) == 0 {
		return nil, ErrInvalidSymbol
	}
	seen := make(map[string]bool, len(raw))
	symbols := make([]string, 0, len(raw))
	for _, r := range raw {
		symbol, err := NormalizeSymbol(r)
		if err != nil {
			return nil, err
		}
		if seen[symbol] {
			continue
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}
	if len(symbols) > MaxSymbolsPerCall {
		return nil, ErrTooManySymbols
	}
	return symbols, nil
}

// NormalizeRange returns DefaultRange for an empty value.
func NormalizeRange(raw string) (string, error) {
	r := strings.ToLower(strings.TrimSpace(raw))
	if r == "" {
		return DefaultRange, nil
	}
	if !validRanges[r] {
		return "", ErrInvalidRange
	}
	return r, nil
}
