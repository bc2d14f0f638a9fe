// Package types holds the domain model shared across every component:
// networks, trade configuration, bot status, trade logs, and the error
// taxonomy. Nothing in here talks to the network or a database.
package types

// Network is the closed set of blockchains the service trades on.
type Network string

const (
	ETH  Network = "ETH"
	BASE Network = "BASE"
	BNB  Network = "BNB"
	SOL  Network = "SOL"
)

// AllNetworks lists the closed network set in a stable order, used for
// startup wiring and for zero-filling aggregation results.
var AllNetworks = []Network{ETH, BASE, BNB, SOL}

// Valid reports whether n is one of the four supported networks.
func (n Network) Valid() bool {
	switch n {
	case ETH, BASE, BNB, SOL:
		return true
	default:
		return false
	}
}

// IsEVM reports whether n uses the 20-byte hex address family and the
// go-ethereum RPC transport.
func (n Network) IsEVM() bool {
	return n == ETH || n == BASE || n == BNB
}

// DEX identifies a decentralized exchange protocol.
type DEX string

const (
	Uniswap     DEX = "Uniswap"
	PancakeSwap DEX = "PancakeSwap"
	Jupiter     DEX = "Jupiter"
)

// DefaultDEX returns the DEX a network routes to absent any override.
func (n Network) DefaultDEX() DEX {
	switch n {
	case ETH, BASE:
		return Uniswap
	case BNB:
		return PancakeSwap
	case SOL:
		return Jupiter
	default:
		return ""
	}
}

// DexVersion selects Uniswap's protocol version; meaningful only for EVM
// Uniswap networks (ETH, BASE).
type DexVersion string

const (
	DexVersionAuto DexVersion = "auto"
	DexVersionV2   DexVersion = "v2"
	DexVersionV3   DexVersion = "v3"
	DexVersionV4   DexVersion = "v4"
)

// TradeInterval is one of the five recurring schedules a bot can run on.
type TradeInterval string

const (
	Interval1Min  TradeInterval = "1min"
	Interval5Min  TradeInterval = "5min"
	Interval10Min TradeInterval = "10min"
	Interval30Min TradeInterval = "30min"
	Interval1Hour TradeInterval = "1hour"
)

// CronSpec translates a TradeInterval into the wall-clock cron expression
// the scheduler installs. This resolves spec's scheduling Open Question in
// favor of cron alignment (see DESIGN.md).
func (i TradeInterval) CronSpec() (string, error) {
	switch i {
	case Interval1Min:
		return "* * * * *", nil
	case Interval5Min:
		return "*/5 * * * *", nil
	case Interval10Min:
		return "*/10 * * * *", nil
	case Interval30Min:
		return "*/30 * * * *", nil
	case Interval1Hour:
		return "0 * * * *", nil
	default:
		return "", &TradeError{Kind: InvalidInterval, Message: "unrecognized trade interval: " + string(i)}
	}
}
