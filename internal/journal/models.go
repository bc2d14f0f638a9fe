// Package journal is the Trade Journal (spec.md §4.7): gorm/MySQL
// persistence for trade configs, bot statuses, and trade logs, generalized
// from the teacher's internal/db/transaction_recorder.go (a single
// AssetSnapshotRecord table) into four tables. The asset-snapshot table
// survives as an optional reporting sink (spec.md §11's supplemented
// feature), never part of the trade-log state machine.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// tradeConfigRow is trade_configs' gorm model.
type tradeConfigRow struct {
	ID                string `gorm:"primaryKey;type:varchar(36)"`
	UserID            string `gorm:"column:user_id;index:idx_trade_configs_user_network"`
	ContractAddress   string `gorm:"column:contract_address"`
	WalletAddress     string `gorm:"column:wallet_address"`
	Network           string `gorm:"column:network;index:idx_trade_configs_user_network"`
	Dex               string `gorm:"column:dex"`
	DexVersion        string `gorm:"column:dex_version"`
	TradeInterval     string `gorm:"column:trade_interval"`
	TradeAmountUsd    decimal.Decimal `gorm:"column:trade_amount_usd;type:decimal(20,2)"`
	MaxGasRatio       decimal.Decimal `gorm:"column:max_gas_ratio;type:decimal(5,4)"`
	SlippageTolerance decimal.Decimal `gorm:"column:slippage_tolerance;type:decimal(5,2)"`
	IsActive          bool      `gorm:"column:is_active;index"`
	CreatedAt         time.Time `gorm:"column:created_at"`
	UpdatedAt         time.Time `gorm:"column:updated_at"`
}

func (tradeConfigRow) TableName() string { return "trade_configs" }

// botStatusRow is bot_statuses' gorm model, keyed by (user_id, network).
type botStatusRow struct {
	UserID                string `gorm:"column:user_id;primaryKey"`
	Network               string `gorm:"column:network;primaryKey"`
	IsRunning             bool    `gorm:"column:is_running"`
	ActiveConfigID        *string `gorm:"column:active_config_id"`
	LastTradeAt           *time.Time `gorm:"column:last_trade_at"`
	NextTradeAt           *time.Time `gorm:"column:next_trade_at"`
	TotalTradesCount      int64   `gorm:"column:total_trades_count"`
	SuccessfulTradesCount int64   `gorm:"column:successful_trades_count"`
	FailedTradesCount     int64   `gorm:"column:failed_trades_count"`
	TotalVolumeUsd        decimal.Decimal `gorm:"column:total_volume_usd;type:decimal(20,2)"`
}

func (botStatusRow) TableName() string { return "bot_statuses" }

// tradeLogRow is trade_logs' gorm model.
type tradeLogRow struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	UserID       string `gorm:"column:user_id;index"`
	ConfigID     *string `gorm:"column:config_id"`
	Network      string  `gorm:"column:network;index"`
	Dex          string  `gorm:"column:dex"`
	TokenAddress string  `gorm:"column:token_address"`
	TradeType    string  `gorm:"column:trade_type"`
	AmountUsd    decimal.Decimal `gorm:"column:amount_usd;type:decimal(20,2)"`
	TokenAmount  decimal.Decimal `gorm:"column:token_amount;type:decimal(38,8)"`
	GasFee       decimal.Decimal `gorm:"column:gas_fee;type:decimal(30,8)"`
	GasFeeUsd    decimal.Decimal `gorm:"column:gas_fee_usd;type:decimal(20,2)"`
	Status       string  `gorm:"column:status;index"`
	TxHash       *string `gorm:"column:tx_hash"`
	ErrorMessage *string `gorm:"column:error_message"`
	Slippage     decimal.Decimal `gorm:"column:slippage;type:decimal(5,2)"`
	TokenPrice   decimal.Decimal `gorm:"column:token_price;type:decimal(38,8)"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
}

func (tradeLogRow) TableName() string { return "trade_logs" }

// assetSnapshotRow survives from the teacher's AssetSnapshotRecord,
// repurposed from LP-position accounting to a point-in-time per-network
// volume reading the scheduler can record after a tick.
type assetSnapshotRow struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	Network    string    `gorm:"column:network;index"`
	VolumeUsd  decimal.Decimal `gorm:"column:volume_usd;type:decimal(20,2)"`
	CapturedAt time.Time `gorm:"column:captured_at"`
}

func (assetSnapshotRow) TableName() string { return "asset_snapshots" }
