package repository

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"stockdash.com/internal/database"
	"stockdash.com/internal/dto"
)

func setupMockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	database.DB = db
	t.Cleanup(func() {
		database.DB = nil
		sqlDB.Close()
	})

	return mock
}

func TestNewPriceRepository(t *testing.T) {
	if NewPriceRepository() == nil {
		t.Error("NewPriceRepository() returned nil")
	}
}

func TestPriceRepository_NotInitialized(t *testing.T) {
	database.DB = nil
	repo := NewPriceRepository()

	assert.ErrorIs(t, repo.SaveSnapshot(&dto.Quote{Symbol: "AAPL"}), ErrDatabaseNotInitialized)
	_, err := repo.LatestSnapshot("AAPL")
	assert.ErrorIs(t, err, ErrDatabaseNotInitialized)
	_, err = repo.TrackedSymbols()
	assert.ErrorIs(t, err, ErrDatabaseNotInitialized)
	assert.ErrorIs(t, repo.UpdateStockInfo(&dto.StockInfo{Symbol: "AAPL"}), ErrDatabaseNotInitialized)
}

func TestPriceRepository_SaveSnapshot(t *testing.T) {
	quote := &dto.Quote{
		Symbol:    "AAPL",
		Price:     189.5,
		Currency:  "USD",
		Timestamp: time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name      string
		mockSetup func(mock sqlmock.Sqlmock)
		wantErr   bool
	}{
		{
			name: "success",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `price_snapshots`")).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `stocks`") + ".*" + regexp.QuoteMeta("ON DUPLICATE KEY UPDATE")).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectCommit()
			},
		},
		{
			name: "snapshot insert fails",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `price_snapshots`")).
					WillReturnError(errors.New("DB timeout"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
		{
			name: "stock upsert fails",
			mockSetup: func(mock sqlmock.Sqlmock) {
				mock.ExpectBegin()
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `price_snapshots`")).
					WillReturnResult(sqlmock.NewResult(1, 1))
				mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `stocks`")).
					WillReturnError(errors.New("deadlock"))
				mock.ExpectRollback()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := setupMockDB(t)
			tt.mockSetup(mock)

			err := NewPriceRepository().SaveSnapshot(quote)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPriceRepository_SaveSnapshotNil(t *testing.T) {
	setupMockDB(t)
	assert.Error(t, NewPriceRepository().SaveSnapshot(nil))
}

func TestPriceRepository_LatestSnapshot(t *testing.T) {
	mock := setupMockDB(t)
	fetchedAt := time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "symbol", "price", "change", "change_percent", "volume", "fetched_at", "created_at"}).
		AddRow(7, "MSFT", 410.25, -1.5, -0.36, 5000, fetchedAt, fetchedAt)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `price_snapshots` WHERE symbol = ? ORDER BY fetched_at DESC")).
		WillReturnRows(rows)

	snapshot, err := NewPriceRepository().LatestSnapshot("MSFT")
	require.NoError(t, err)
	assert.Equal(t, uint(7), snapshot.ID)
	assert.Equal(t, 410.25, snapshot.Price)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPriceRepository_LatestSnapshotNotFound(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `price_snapshots`")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := NewPriceRepository().LatestSnapshot("NOPE")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestPriceRepository_TrackedSymbols(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `symbol` FROM `stocks` ORDER BY symbol ASC")).
		WillReturnRows(sqlmock.NewRows([]string{"symbol"}).AddRow("AAPL").AddRow("MSFT"))

	symbols, err := NewPriceRepository().TrackedSymbols()
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, symbols)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPriceRepository_TrackedSymbolsEmpty(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT `symbol` FROM `stocks`")).
		WillReturnRows(sqlmock.NewRows([]string{"symbol"}))

	symbols, err := NewPriceRepository().TrackedSymbols()
	require.NoError(t, err)
	assert.NotNil(t, symbols)
	assert.Empty(t, symbols)
}

func TestPriceRepository_UpdateStockInfo(t *testing.T) {
	mock := setupMockDB(t)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `stocks` SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := NewPriceRepository().UpdateStockInfo(&dto.StockInfo{Symbol: "AAPL", Name: "Apple Inc.", Exchange: "NASDAQ"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
