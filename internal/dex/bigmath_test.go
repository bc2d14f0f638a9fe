package dex

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestToWeiFromWeiRoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("1.5")
	wei := ToWei(amount, EVMNativeDecimals)

	assert.Equal(t, "1500000000000000000", wei.String())
	assert.True(t, FromWei(wei, EVMNativeDecimals).Equal(amount))
}

func TestMinOutAppliesSlippageFloor(t *testing.T) {
	expectedOut, _ := new(big.Int).SetString("1000000000000000000", 10) // 1e18
	slippage := decimal.RequireFromString("1")                          // 1%

	got := MinOut(expectedOut, slippage)

	// (1 - 0.01) * 1000 = 990, floor = 990; 1e18 * 990 / 1000 = 9.9e17
	want, _ := new(big.Int).SetString("990000000000000000", 10)
	assert.Equal(t, want.String(), got.String())
}

func TestMinOutZeroSlippage(t *testing.T) {
	expectedOut := big.NewInt(1000)
	got := MinOut(expectedOut, decimal.Zero)
	assert.Equal(t, "1000", got.String())
}

func TestGasFeeWei(t *testing.T) {
	got := GasFeeWei(21000, big.NewInt(50_000_000_000))
	assert.Equal(t, "1050000000000000", got.String())
}

func TestTokenPriceZeroTokenAmount(t *testing.T) {
	got := TokenPrice(decimal.NewFromInt(10), decimal.Zero)
	assert.True(t, got.IsZero())
}

func TestTokenPrice(t *testing.T) {
	got := TokenPrice(decimal.RequireFromString("0.1"), decimal.RequireFromString("200"))
	assert.True(t, got.Equal(decimal.RequireFromString("0.0005")))
}
