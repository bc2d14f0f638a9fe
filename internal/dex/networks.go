package dex

import "github.com/flowdex/tradecore/internal/types"

// uniswapV2Network carries the per-network constants spec.md §4.4.1 calls
// "network-qualified tables" — router and wrapped-native addresses.
type uniswapV2Network struct {
	Router string
	WETH   string
}

// uniswapV2Tables holds ETH and BASE's router/WETH pairs. Addresses are
// the well-known mainnet deployments; an operator targeting a testnet
// swaps these at deploy time (not modeled here — out of scope per
// spec.md §1's "environment loading ... out of scope").
var uniswapV2Tables = map[types.Network]uniswapV2Network{
	types.ETH:  {Router: "0x7a250d5630B4cF539739dF2C5dAcb4c659F2488D", WETH: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"},
	types.BASE: {Router: "0x4752ba5DBc23f44D87826276BF6Fd6b1C372aD24", WETH: "0x4200000000000000000000000000000000000006"},
}

// uniswapV3Network carries the quoter/router pair for V3 probing.
type uniswapV3Network struct {
	Quoter string
	Router string
	WETH   string
}

var uniswapV3Tables = map[types.Network]uniswapV3Network{
	types.ETH:  {Quoter: "0x61fFE014bA17989E743c5F6cB21bF9697530B21e", Router: "0xE592427A0AEce92De3Edee1F18E0157C05861564", WETH: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2"},
	types.BASE: {Quoter: "0x3d4e44Eb1374240CE5F1B871ab261CD16335B76a", Router: "0x2626664c2603336E57B271c5C0b26F421741e481", WETH: "0x4200000000000000000000000000000000000006"},
}

// pancakeSwapRouter and pancakeSwapWBNB are BNB's sole DEX table entry —
// PancakeSwap V2 has no version-fallback concern (spec.md §4.4.3).
const (
	pancakeSwapRouter = "0x10ED43C718714eb63d5aA57B78B54704E256024E"
	pancakeSwapWBNB   = "0xbb4CdB9CBd36B01bD1cBaBc2b4e01B5Fc351066c8"
)

// v3FeeTiers is the probe order spec.md §4.4.2 specifies — ties broken by
// the first tier tried, ascending.
var v3FeeTiers = []uint32{100, 500, 3000, 10000}
