package trading

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/flowdex/tradecore/internal/dex"
	"github.com/flowdex/tradecore/internal/oracle"
	"github.com/flowdex/tradecore/internal/rpcpool"
	"github.com/flowdex/tradecore/internal/types"
)

// fakeSwap is a test double satisfying dex.Swap.
type fakeSwap struct {
	result types.SwapResult
	calls  int
}

func (f *fakeSwap) ExecuteSwap(ctx context.Context, params types.SwapParams) types.SwapResult {
	f.calls++
	return f.result
}

type fakeSource struct{ price decimal.Decimal }

func (f *fakeSource) FetchUSDPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	return f.price, nil
}

func TestExecuteTradeRejectsUnavailableNetwork(t *testing.T) {
	logger := zap.NewNop().Sugar()
	priceOracle := oracle.New(&fakeSource{price: decimal.NewFromInt(2000)})
	s, err := NewService(&rpcpool.Pool{}, priceOracle, logger)
	require.NoError(t, err)

	outcome := s.ExecuteTrade(context.Background(), types.TradeParams{
		Network:         types.ETH,
		ContractAddress: "0x1122222222222222222222222222222222222222",
	})

	assert.False(t, outcome.Success)
	assert.Equal(t, types.NetworkUnavailable, outcome.ErrorKind)
}

func TestDispatchUniswapAutoFallsBackFromV3ToV2OnNoPool(t *testing.T) {
	v3 := &fakeSwap{result: types.SwapResult{Success: false, ErrorKind: types.NoV3Pool}}
	v2 := &fakeSwap{result: types.SwapResult{Success: true, TxHash: "0xabc"}}

	s := &Service{
		logger:     zap.NewNop().Sugar(),
		v2Adapters: map[types.Network]dex.Swap{types.ETH: v2},
		v3Adapters: map[types.Network]dex.Swap{types.ETH: v3},
	}

	result := s.dispatchUniswap(context.Background(), types.ETH, types.SwapParams{DexVersion: types.DexVersionAuto})

	assert.True(t, result.Success)
	assert.Equal(t, "0xabc", result.TxHash)
	assert.Equal(t, 1, v3.calls)
	assert.Equal(t, 1, v2.calls)
}

func TestDispatchUniswapExplicitV3NeverFallsBack(t *testing.T) {
	v3 := &fakeSwap{result: types.SwapResult{Success: false, ErrorKind: types.NoV3Pool}}
	v2 := &fakeSwap{result: types.SwapResult{Success: true}}

	s := &Service{
		logger:     zap.NewNop().Sugar(),
		v2Adapters: map[types.Network]dex.Swap{types.ETH: v2},
		v3Adapters: map[types.Network]dex.Swap{types.ETH: v3},
	}

	result := s.dispatchUniswap(context.Background(), types.ETH, types.SwapParams{DexVersion: types.DexVersionV3})

	assert.False(t, result.Success)
	assert.Equal(t, types.NoV3Pool, result.ErrorKind)
	assert.Equal(t, 0, v2.calls)
}

func TestDispatchUnavailableNetworkReturnsAdapterError(t *testing.T) {
	s := &Service{
		logger:     zap.NewNop().Sugar(),
		v2Adapters: map[types.Network]dex.Swap{},
		v3Adapters: map[types.Network]dex.Swap{},
	}

	result := s.dispatch(context.Background(), types.BNB, types.SwapParams{})

	assert.False(t, result.Success)
	assert.Equal(t, types.AdapterError, result.ErrorKind)
}
