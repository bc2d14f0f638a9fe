package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flowdex/tradecore/internal/types"
)

// CreateTradeLog inserts a new pending trade log row.
func (s *Store) CreateTradeLog(ctx context.Context, log *types.TradeLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.Status == "" {
		log.Status = types.StatusPending
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	row := toTradeLogRow(log)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("journal: insert trade log: %w", err)
	}
	return nil
}

// UpdateTradeLog applies update to the trade log identified by id and
// folds its outcome into that user/network's BotStatus counters. This is
// single-shot: a log whose status is already terminal refuses a second
// update with InvalidTradeLogState (spec.md §9's Open Question, resolved
// as "enforced, not just flagged") — both automated and manual trades
// update BotStatus (spec.md §9's other resolved Open Question).
func (s *Store) UpdateTradeLog(ctx context.Context, id string, update types.TerminalUpdate) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row tradeLogRow
		if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return types.NewTradeError(types.InvalidTradeLogState, "no trade log %s", id)
			}
			return fmt.Errorf("journal: fetch trade log: %w", err)
		}
		if types.TradeStatus(row.Status).Terminal() {
			return types.NewTradeError(types.InvalidTradeLogState, "trade log %s is already %s", id, row.Status)
		}

		if err := tx.Model(&tradeLogRow{}).Where("id = ?", id).Updates(map[string]interface{}{
			"status":        string(update.Status),
			"tx_hash":       update.TxHash,
			"token_amount":  update.TokenAmount,
			"gas_fee":       update.GasFee,
			"gas_fee_usd":   update.GasFeeUsd,
			"token_price":   update.TokenPrice,
			"slippage":      update.Slippage,
			"error_message": update.ErrorMessage,
		}).Error; err != nil {
			return fmt.Errorf("journal: update trade log: %w", err)
		}

		return applyBotStatusDelta(tx, row.UserID, types.Network(row.Network), update.Status, row.AmountUsd)
	})
}

// GetRecentTradeLogs returns userID's most recent trade logs, newest
// first, bounded by limit — spec.md §6 `trades.recent`.
func (s *Store) GetRecentTradeLogs(ctx context.Context, userID string, limit int) ([]types.TradeLog, error) {
	var rows []tradeLogRow
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("journal: get recent trade logs: %w", err)
	}
	out := make([]types.TradeLog, len(rows))
	for i := range rows {
		out[i] = fromTradeLogRow(&rows[i])
	}
	return out, nil
}

// GetAllTradeLogs returns every trade log userID has ever recorded, newest
// first — spec.md §6 `GET trades`.
func (s *Store) GetAllTradeLogs(ctx context.Context, userID string) ([]types.TradeLog, error) {
	var rows []tradeLogRow
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("journal: get all trade logs: %w", err)
	}
	out := make([]types.TradeLog, len(rows))
	for i := range rows {
		out[i] = fromTradeLogRow(&rows[i])
	}
	return out, nil
}

// applyBotStatusDelta folds one resolved trade's outcome into its bot's
// counters, creating the BotStatus row on first trade if absent.
func applyBotStatusDelta(tx *gorm.DB, userID string, network types.Network, status types.TradeStatus, amountUsd decimal.Decimal) error {
	now := time.Now()

	var row botStatusRow
	err := tx.Where("user_id = ? AND network = ?", userID, string(network)).First(&row).Error
	isNew := err == gorm.ErrRecordNotFound
	if err != nil && !isNew {
		return fmt.Errorf("journal: fetch bot status: %w", err)
	}
	if isNew {
		row = botStatusRow{UserID: userID, Network: string(network), TotalVolumeUsd: decimal.Zero}
	}

	row.TotalTradesCount++
	if status == types.StatusSuccess {
		row.SuccessfulTradesCount++
		row.TotalVolumeUsd = row.TotalVolumeUsd.Add(amountUsd)
	} else if status == types.StatusFailed {
		row.FailedTradesCount++
	}
	row.LastTradeAt = &now

	if isNew {
		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("journal: create bot status: %w", err)
		}
		return nil
	}
	if err := tx.Save(&row).Error; err != nil {
		return fmt.Errorf("journal: save bot status: %w", err)
	}
	return nil
}
