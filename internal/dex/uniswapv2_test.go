package dex

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdex/tradecore/internal/rpcpool"
	"github.com/flowdex/tradecore/internal/types"
)

func TestNewUniswapV2AdapterParsesABIs(t *testing.T) {
	a, err := NewUniswapV2Adapter(&rpcpool.EVMEntry{}, types.ETH)
	require.NoError(t, err)
	assert.Equal(t, types.Uniswap, a.dex)
	assert.Equal(t, types.ETH, a.network)
}

func TestNewPancakeSwapAdapterTagsBNB(t *testing.T) {
	a, err := NewPancakeSwapAdapter(&rpcpool.EVMEntry{})
	require.NoError(t, err)
	assert.Equal(t, types.PancakeSwap, a.dex)
	assert.Equal(t, types.BNB, a.network)
}

func TestExecuteSwapFailsWithoutTableEntry(t *testing.T) {
	a, err := newV2StyleAdapter(&rpcpool.EVMEntry{}, types.SOL, types.Uniswap, uniswapV2Tables)
	require.NoError(t, err)

	result := a.ExecuteSwap(context.Background(), types.SwapParams{Network: types.SOL})

	assert.False(t, result.Success)
	assert.Equal(t, types.AdapterError, result.ErrorKind)
}
