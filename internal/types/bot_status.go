package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// BotStatus is the one row per (userId, network) tracking whether a bot is
// currently scheduled and its cumulative trade counters. Counters are
// monotonic non-decreasing (spec.md §3 invariant); enforcing that is the
// journal's job, this struct is just the shape.
type BotStatus struct {
	UserID                string
	Network               Network
	IsRunning             bool
	ActiveConfigID        *string
	LastTradeAt           *time.Time
	NextTradeAt           *time.Time
	TotalTradesCount      int64
	SuccessfulTradesCount int64
	FailedTradesCount     int64
	TotalVolumeUsd        decimal.Decimal
}

// NetworkStats is the per-network aggregation returned by
// GetNetworkStats — spec.md §4.7 / §6 `trades.networkStats`.
type NetworkStats struct {
	Network      Network
	Total        int64
	Success      int64
	Failed       int64
	SumGasFee    decimal.Decimal
	SumGasFeeUsd decimal.Decimal
	SumAmountUsd decimal.Decimal
}
