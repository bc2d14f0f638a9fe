package dex

import (
	"github.com/flowdex/tradecore/internal/rpcpool"
	"github.com/flowdex/tradecore/internal/types"
)

// pancakeSwapTables is PancakeSwap V2's sole table entry — BNB only
// (spec.md §4.4.3).
var pancakeSwapTables = map[types.Network]uniswapV2Network{
	types.BNB: {Router: pancakeSwapRouter, WETH: pancakeSwapWBNB},
}

// NewPancakeSwapAdapter builds a PancakeSwap V2 adapter. PancakeSwap V2's
// router is ABI-compatible with Uniswap V2's (it is a fork), so it reuses
// the same step sequence as UniswapV2Adapter through the shared
// newV2StyleAdapter constructor rather than a base type — spec.md §9's "no
// adapter inheritance" note.
func NewPancakeSwapAdapter(evm *rpcpool.EVMEntry) (*UniswapV2Adapter, error) {
	return newV2StyleAdapter(evm, types.BNB, types.PancakeSwap, pancakeSwapTables)
}
