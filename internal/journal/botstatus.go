package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flowdex/tradecore/internal/types"
)

// GetBotStatus returns (userId, network)'s status row, or a zero-value
// not-running status if no trade has ever run for that key. ListBotStatuses,
// the manual-trade handler and the scheduler's post-tick notifications
// read through this method.
func (s *Store) GetBotStatus(ctx context.Context, userID string, network types.Network) (*types.BotStatus, error) {
	var row botStatusRow
	err := s.db.WithContext(ctx).Where("user_id = ? AND network = ?", userID, string(network)).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		status := types.BotStatus{UserID: userID, Network: network, TotalVolumeUsd: decimal.Zero}
		return &status, nil
	}
	if err != nil {
		return nil, fmt.Errorf("journal: get bot status: %w", err)
	}
	status := fromBotStatusRow(&row)
	return &status, nil
}

// SetRunning flips (userId, network)'s IsRunning flag and, when starting,
// records which config is now active. Stopping clears ActiveConfigID and
// NextTradeAt.
func (s *Store) SetRunning(ctx context.Context, userID string, network types.Network, running bool, configID *string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row botStatusRow
		err := tx.Where("user_id = ? AND network = ?", userID, string(network)).First(&row).Error
		isNew := err == gorm.ErrRecordNotFound
		if err != nil && !isNew {
			return fmt.Errorf("journal: fetch bot status: %w", err)
		}
		if isNew {
			row = botStatusRow{UserID: userID, Network: string(network), TotalVolumeUsd: decimal.Zero}
		}

		row.IsRunning = running
		if running {
			row.ActiveConfigID = configID
		} else {
			row.ActiveConfigID = nil
			row.NextTradeAt = nil
		}

		if isNew {
			return tx.Create(&row).Error
		}
		return tx.Save(&row).Error
	})
}

// SetNextTradeAt records when the scheduler next expects to fire for
// (userId, network) — purely informational, surfaced through the status
// API.
func (s *Store) SetNextTradeAt(ctx context.Context, userID string, network types.Network, next *time.Time) error {
	return s.db.WithContext(ctx).Model(&botStatusRow{}).
		Where("user_id = ? AND network = ?", userID, string(network)).
		Update("next_trade_at", next).Error
}

// ListRunningBots returns every BotStatus row with IsRunning=true, used by
// the scheduler's startup reconciliation pass (spec.md §5).
func (s *Store) ListRunningBots(ctx context.Context) ([]types.BotStatus, error) {
	var rows []botStatusRow
	if err := s.db.WithContext(ctx).Where("is_running = ?", true).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("journal: list running bots: %w", err)
	}
	statuses := make([]types.BotStatus, len(rows))
	for i := range rows {
		statuses[i] = fromBotStatusRow(&rows[i])
	}
	return statuses, nil
}

// GetNetworkStats aggregates userID's trade_logs grouped by network into
// spec.md §4.7 / §6 `trades.networkStats` shape. Every network in
// types.AllNetworks appears in the result, zero-valued if the user has no
// trades there, per spec.md §4.7's "all networks appear in the result".
func (s *Store) GetNetworkStats(ctx context.Context, userID string) ([]types.NetworkStats, error) {
	byNetwork := make(map[types.Network]*types.NetworkStats, len(types.AllNetworks))
	for _, n := range types.AllNetworks {
		byNetwork[n] = &types.NetworkStats{
			Network:      n,
			SumGasFee:    decimal.Zero,
			SumGasFeeUsd: decimal.Zero,
			SumAmountUsd: decimal.Zero,
		}
	}

	var rows []tradeLogRow
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("journal: get network stats: %w", err)
	}

	for _, r := range rows {
		stats, ok := byNetwork[types.Network(r.Network)]
		if !ok {
			continue
		}
		stats.Total++
		switch types.TradeStatus(r.Status) {
		case types.StatusSuccess:
			stats.Success++
		case types.StatusFailed:
			stats.Failed++
		}
		stats.SumGasFee = stats.SumGasFee.Add(r.GasFee)
		stats.SumGasFeeUsd = stats.SumGasFeeUsd.Add(r.GasFeeUsd)
		stats.SumAmountUsd = stats.SumAmountUsd.Add(r.AmountUsd)
	}

	out := make([]types.NetworkStats, len(types.AllNetworks))
	for i, n := range types.AllNetworks {
		out[i] = *byNetwork[n]
	}
	return out, nil
}

// ListBotStatuses returns userID's BotStatus row for every supported
// network, synthesizing a not-running zero-value row for networks the
// user has never traded on — spec.md §6 `bot.statuses`.
func (s *Store) ListBotStatuses(ctx context.Context, userID string) ([]types.BotStatus, error) {
	out := make([]types.BotStatus, 0, len(types.AllNetworks))
	for _, n := range types.AllNetworks {
		status, err := s.GetBotStatus(ctx, userID, n)
		if err != nil {
			return nil, err
		}
		out = append(out, *status)
	}
	return out, nil
}
