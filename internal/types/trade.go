package types

import "github.com/shopspring/decimal"

// TradeParams is what the Trading Service's ExecuteTrade consumes,
// whether it arrived via a scheduler tick (expanded from a TradeConfig) or
// a manual-trade request (spec.md §6 `trades.manual`).
type TradeParams struct {
	UserID            string
	Network           Network
	ContractAddress   string
	DexVersion        DexVersion
	AmountUsd         decimal.Decimal
	SlippageTolerance decimal.Decimal
	MaxGasRatio       decimal.Decimal // zero value => skip the gas pre-check (manual trades without a config)
}

// SwapParams is what a DEX adapter's executeSwap consumes. AmountNative
// is a decimal at this layer; adapters convert it to big.Int internally
// for wei-precision math, including the minimum-output bound (spec.md
// §4.4.1 step 4).
type SwapParams struct {
	Network           Network
	TokenAddress      string
	AmountNative      decimal.Decimal
	SlippagePct       decimal.Decimal
	WalletAddress     string
	NativePriceUsd    decimal.Decimal
	DexVersion        DexVersion
}

// SwapResult is a DEX adapter's tagged outcome — spec.md §4.4's "Result
// carries either success fields or errorMessage".
type SwapResult struct {
	Success      bool
	Dex          DEX
	TxHash       string
	TokenAmount  decimal.Decimal
	GasFee       decimal.Decimal
	GasFeeUsd    decimal.Decimal
	TokenPrice   decimal.Decimal
	Slippage     decimal.Decimal
	ErrorMessage string
	ErrorKind    Kind
}

// TradeOutcome is the Trading Service's structured return value — spec.md
// §4.5's "executeTrade(TradeParams) -> TradeOutcome". It is written
// directly into the trade log (spec.md §7).
type TradeOutcome struct {
	Success      bool
	Dex          DEX
	TxHash       string
	TokenAmount  decimal.Decimal
	GasFee       decimal.Decimal
	GasFeeUsd    decimal.Decimal
	TokenPrice   decimal.Decimal
	Slippage     decimal.Decimal
	ErrorMessage string
	ErrorKind    Kind
}

// FromSwapResult lifts an adapter's SwapResult into a TradeOutcome — the
// "return the adapter's result verbatim" step in spec.md §4.5.6.
func FromSwapResult(r SwapResult) TradeOutcome {
	return TradeOutcome{
		Success:      r.Success,
		Dex:          r.Dex,
		TxHash:       r.TxHash,
		TokenAmount:  r.TokenAmount,
		GasFee:       r.GasFee,
		GasFeeUsd:    r.GasFeeUsd,
		TokenPrice:   r.TokenPrice,
		Slippage:     r.Slippage,
		ErrorMessage: r.ErrorMessage,
		ErrorKind:    r.ErrorKind,
	}
}
