package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeStatus is the trade log's state machine: pending -> success or
// pending -> failed. No other transitions are legal (spec.md §3).
type TradeStatus string

const (
	StatusPending TradeStatus = "pending"
	StatusSuccess TradeStatus = "success"
	StatusFailed  TradeStatus = "failed"
)

// Terminal reports whether s is a state TradeLog.Status can never leave.
func (s TradeStatus) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed
}

// TradeType distinguishes a scheduler-fired trade from an on-demand one.
// Both update BotStatus counters (spec.md §9's resolved Open Question).
type TradeType string

const (
	TradeTypeAutomated TradeType = "automated"
	TradeTypeManual    TradeType = "manual"
)

// TradeLog is an immutable-after-terminal record of one trade attempt.
type TradeLog struct {
	ID            string
	UserID        string
	ConfigID      *string // nil for manual trades
	Network       Network
	Dex           DEX
	TokenAddress  string
	TradeType     TradeType
	AmountUsd     decimal.Decimal
	TokenAmount   decimal.Decimal
	GasFee        decimal.Decimal
	GasFeeUsd     decimal.Decimal
	Status        TradeStatus
	TxHash        *string
	ErrorMessage  *string
	Slippage      decimal.Decimal
	TokenPrice    decimal.Decimal
	CreatedAt     time.Time
}

// TerminalUpdate is the set of fields written once a trade resolves.
// Applying it twice to the same row is a bug the journal refuses
// (spec.md §9's resolved Open Question — single-shot, not idempotent).
type TerminalUpdate struct {
	Status       TradeStatus
	TxHash       *string
	TokenAmount  decimal.Decimal
	GasFee       decimal.Decimal
	GasFeeUsd    decimal.Decimal
	TokenPrice   decimal.Decimal
	Slippage     decimal.Decimal
	ErrorMessage *string
}
