// Package dex implements the DEX Adapters (spec.md §4.4): four
// single-protocol Swap implementations (Uniswap V2, Uniswap V3,
// PancakeSwap V2, Jupiter) behind one capability interface. No adapter
// inheritance — shared math lives in free functions, not a base type
// (spec.md §9's explicit redesign note).
package dex

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// EVMNativeDecimals is the wei exponent shared by ETH, BASE, and BNB.
const EVMNativeDecimals = 18

// ToWei converts a native-unit decimal amount (e.g. 0.05 ETH) to its
// integer wei representation, truncating any sub-wei remainder.
func ToWei(amountNative decimal.Decimal, decimals int32) *big.Int {
	return amountNative.Shift(decimals).Truncate(0).BigInt()
}

// FromWei converts an integer token-unit amount back to a decimal in
// native units.
func FromWei(amount *big.Int, decimals int32) decimal.Decimal {
	return decimal.NewFromBigInt(amount, -decimals)
}

// MinOut applies spec.md §4.4.1 step 4's exact formula — all arithmetic
// in big integers to avoid the precision loss decimal division would
// introduce at wei scale:
//
//	minOut = expectedOut * floor((1 - slippage/100) * 1000) / 1000
func MinOut(expectedOut *big.Int, slippagePct decimal.Decimal) *big.Int {
	factor := decimal.NewFromInt(1).Sub(slippagePct.Div(decimal.NewFromInt(100)))
	scaledFactor := factor.Mul(decimal.NewFromInt(1000)).Floor().BigInt()

	numerator := new(big.Int).Mul(expectedOut, scaledFactor)
	return numerator.Div(numerator, big.NewInt(1000))
}

// GasFeeWei multiplies gas used by gas price — both already in wei terms.
func GasFeeWei(gasUsed uint64, gasPrice *big.Int) *big.Int {
	return new(big.Int).Mul(new(big.Int).SetUint64(gasUsed), gasPrice)
}

// TokenPrice computes native-per-token: amountNative / tokenAmount. A
// zero tokenAmount (shouldn't happen past the NoLiquidity gate) yields
// zero rather than panicking on division.
func TokenPrice(amountNative, tokenAmount decimal.Decimal) decimal.Decimal {
	if tokenAmount.IsZero() {
		return decimal.Zero
	}
	return amountNative.Div(tokenAmount)
}
