package journal

import "github.com/flowdex/tradecore/internal/types"

func toConfigRow(c *types.TradeConfig) tradeConfigRow {
	return tradeConfigRow{
		ID:                c.ID,
		UserID:            c.UserID,
		ContractAddress:   c.ContractAddress,
		WalletAddress:     c.WalletAddress,
		Network:           string(c.Network),
		Dex:               string(c.Dex),
		DexVersion:        string(c.DexVersion),
		TradeInterval:     string(c.TradeInterval),
		TradeAmountUsd:    c.TradeAmountUsd,
		MaxGasRatio:       c.MaxGasRatio,
		SlippageTolerance: c.SlippageTolerance,
		IsActive:          c.IsActive,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func fromConfigRow(r *tradeConfigRow) types.TradeConfig {
	return types.TradeConfig{
		ID:                r.ID,
		UserID:            r.UserID,
		ContractAddress:   r.ContractAddress,
		WalletAddress:     r.WalletAddress,
		Network:           types.Network(r.Network),
		Dex:               types.DEX(r.Dex),
		DexVersion:        types.DexVersion(r.DexVersion),
		TradeInterval:     types.TradeInterval(r.TradeInterval),
		TradeAmountUsd:    r.TradeAmountUsd,
		MaxGasRatio:       r.MaxGasRatio,
		SlippageTolerance: r.SlippageTolerance,
		IsActive:          r.IsActive,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func toTradeLogRow(l *types.TradeLog) tradeLogRow {
	return tradeLogRow{
		ID:           l.ID,
		UserID:       l.UserID,
		ConfigID:     l.ConfigID,
		Network:      string(l.Network),
		Dex:          string(l.Dex),
		TokenAddress: l.TokenAddress,
		TradeType:    string(l.TradeType),
		AmountUsd:    l.AmountUsd,
		TokenAmount:  l.TokenAmount,
		GasFee:       l.GasFee,
		GasFeeUsd:    l.GasFeeUsd,
		Status:       string(l.Status),
		TxHash:       l.TxHash,
		ErrorMessage: l.ErrorMessage,
		Slippage:     l.Slippage,
		TokenPrice:   l.TokenPrice,
		CreatedAt:    l.CreatedAt,
	}
}

func fromTradeLogRow(r *tradeLogRow) types.TradeLog {
	return types.TradeLog{
		ID:           r.ID,
		UserID:       r.UserID,
		ConfigID:     r.ConfigID,
		Network:      types.Network(r.Network),
		Dex:          types.DEX(r.Dex),
		TokenAddress: r.TokenAddress,
		TradeType:    types.TradeType(r.TradeType),
		AmountUsd:    r.AmountUsd,
		TokenAmount:  r.TokenAmount,
		GasFee:       r.GasFee,
		GasFeeUsd:    r.GasFeeUsd,
		Status:       types.TradeStatus(r.Status),
		TxHash:       r.TxHash,
		ErrorMessage: r.ErrorMessage,
		Slippage:     r.Slippage,
		TokenPrice:   r.TokenPrice,
		CreatedAt:    r.CreatedAt,
	}
}

func fromBotStatusRow(r *botStatusRow) types.BotStatus {
	return types.BotStatus{
		UserID:                r.UserID,
		Network:               types.Network(r.Network),
		IsRunning:             r.IsRunning,
		ActiveConfigID:        r.ActiveConfigID,
		LastTradeAt:           r.LastTradeAt,
		NextTradeAt:           r.NextTradeAt,
		TotalTradesCount:      r.TotalTradesCount,
		SuccessfulTradesCount: r.SuccessfulTradesCount,
		FailedTradesCount:     r.FailedTradesCount,
		TotalVolumeUsd:        r.TotalVolumeUsd,
	}
}
