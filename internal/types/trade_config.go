package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeConfig is a per-(userId, network) configuration row. At most one
// row per (userId, network) may have IsActive=true; see
// internal/journal.CreateConfig for how that invariant is enforced.
type TradeConfig struct {
	ID                string
	UserID            string
	ContractAddress   string
	WalletAddress     string
	Network           Network
	Dex               DEX
	DexVersion        DexVersion
	TradeInterval     TradeInterval
	TradeAmountUsd    decimal.Decimal
	MaxGasRatio       decimal.Decimal
	SlippageTolerance decimal.Decimal
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate checks the fields spec.md §3 constrains, independent of
// persistence, including the contract address against the network's
// address family (via ValidateAddress). It fills in Dex and, on EVM
// networks, DexVersion when they are empty.
func (c *TradeConfig) Validate() error {
	if !c.Network.Valid() {
		return NewTradeError(ValidationError, "unknown network: %s", c.Network)
	}
	if err := ValidateAddress(c.Network, c.ContractAddress); err != nil {
		return err
	}
	if c.TradeAmountUsd.LessThan(decimal.NewFromInt(1)) {
		return NewTradeError(ValidationError, "tradeAmountUsd must be >= 1, got %s", c.TradeAmountUsd)
	}
	ratio, _ := c.MaxGasRatio.Float64()
	if err := ValidateMaxGasRatio(ratio); err != nil {
		return err
	}
	slip, _ := c.SlippageTolerance.Float64()
	if err := ValidateSlippage(slip); err != nil {
		return err
	}
	if _, err := c.TradeInterval.CronSpec(); err != nil {
		return err
	}
	if c.Dex == "" {
		c.Dex = c.Network.DefaultDEX()
	}
	if c.Network.IsEVM() && c.DexVersion == "" {
		c.DexVersion = DexVersionAuto
	}
	return nil
}
