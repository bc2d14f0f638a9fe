package journal

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/flowdex/tradecore/internal/types"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})
	require.NoError(t, err)

	return NewWithDB(db, nil), mock
}

func TestGetActiveConfigReturnsNoActiveConfigWhenMissing(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT \\* FROM `trade_configs`").
		WillReturnRows(sqlmock.NewRows(nil))

	_, err := store.GetActiveConfig(t.Context(), "user-1", types.ETH)

	require.Error(t, err)
	assert.Equal(t, types.NoActiveConfig, types.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConfigDeactivatesExistingThenInserts(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `trade_configs`").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO `trade_configs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	cfg := &types.TradeConfig{
		UserID:            "user-1",
		ContractAddress:   "0x1234567890123456789012345678901234567890",
		WalletAddress:     "0x1234567890123456789012345678901234567890",
		Network:           types.ETH,
		TradeInterval:     types.Interval5Min,
		TradeAmountUsd:    decimal.NewFromInt(10),
		MaxGasRatio:       decimal.RequireFromString("0.5"),
		SlippageTolerance: decimal.RequireFromString("1"),
	}

	err := store.CreateConfig(t.Context(), cfg)

	require.NoError(t, err)
	assert.NotEmpty(t, cfg.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTradeLogRefusesAlreadyTerminalRow(t *testing.T) {
	store, mock := newMockStore(t)

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `trade_logs`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "network", "status", "amount_usd", "created_at"}).
			AddRow("log-1", "user-1", "ETH", "success", "10", now))
	mock.ExpectRollback()

	err := store.UpdateTradeLog(t.Context(), "log-1", types.TerminalUpdate{Status: types.StatusSuccess})

	require.Error(t, err)
	assert.Equal(t, types.InvalidTradeLogState, types.KindOf(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
