package dex

import (
	"context"

	"github.com/flowdex/tradecore/internal/types"
)

// Swap is the one capability every DEX adapter implements — spec.md §9's
// "model as a Swap capability... no adapter inheritance".
type Swap interface {
	ExecuteSwap(ctx context.Context, params types.SwapParams) types.SwapResult
}

// adapterError builds a failed SwapResult from a Kind/message — every
// adapter funnels its failures through this one helper so the shape of a
// failed result never drifts between adapters.
func adapterError(kind types.Kind, format string, args ...interface{}) types.SwapResult {
	err := types.NewTradeError(kind, format, args...)
	return types.SwapResult{Success: false, ErrorMessage: err.Error(), ErrorKind: kind}
}
