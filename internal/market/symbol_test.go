package market

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSymbol(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "aapl", want: "AAPL"},
		{raw: "  msft ", want: "MSFT"},
		{raw: "brk.b", want: "BRK.B"},
		{raw: "rds-a", want: "RDS-A"},
		{raw: "", wantErr: true},
		{raw: "   ", wantErr: true},
		{raw: "TOOLONGSYMBOL", wantErr: true},
		{raw: "AA PL", wantErr: true},
		{raw: "../etc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := NormalizeSymbol(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSymbol)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeSymbols(t *testing.T) {
	got, err := NormalizeSymbols([]string{"aapl", "MSFT", "AAPL", " msft", "goog"})
	assert.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT", "GOOG"}, got)

	_, err = NormalizeSymbols(nil)
	assert.ErrorIs(t, err, ErrInvalidSymbol)

	_, err = NormalizeSymbols([]string{"AAPL", "bad symbol"})
	assert.ErrorIs(t, err, ErrInvalidSymbol)

	many := make([]string, 0, MaxSymbolsPerCall+1)
	for i := 0; i <= MaxSymbolsPerCall; i++ {
		many = append(many, "S"+strings.Repeat("A", i%5)+string(rune('A'+i%26))+string(rune('A'+i/26)))
	}
	_, err = NormalizeSymbols(many)
	assert.ErrorIs(t, err, ErrTooManySymbols)
}

func TestNormalizeRange(t *testing.T) {
	got, err := NormalizeRange("")
	assert.NoError(t, err)
	assert.Equal(t, DefaultRange, got)

	got, err = NormalizeRange(" 1Y ")
	assert.NoError(t, err)
	assert.Equal(t, "1y", got)

	_, err = NormalizeRange("10y")
	assert.ErrorIs(t, err, ErrInvalidRange)
}
