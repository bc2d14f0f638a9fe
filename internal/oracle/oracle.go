// Package oracle implements the Price Oracle (spec.md §4.3): USD price per
// native asset, a 30-second memoized cache, and a static fallback that
// guarantees GetPrice never returns an error to its caller.
package oracle

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/flowdex/tradecore/internal/types"
)

const cacheTTL = 30 * time.Second

// sourceAssetID maps a network to the price source's asset identifier.
// ETH and BASE share the "ethereum" id (spec.md §4.3).
var sourceAssetID = map[types.Network]string{
	types.ETH:  "ethereum",
	types.BASE: "ethereum",
	types.BNB:  "binancecoin",
	types.SOL:  "solana",
}

// staticFallback is spec.md §4.3's fixed fallback table.
var staticFallback = map[types.Network]decimal.Decimal{
	types.ETH:  decimal.NewFromInt(2000),
	types.BASE: decimal.NewFromInt(2000),
	types.BNB:  decimal.NewFromInt(600),
	types.SOL:  decimal.NewFromInt(150),
}

// PriceSource fetches a spot USD price for a source-asset id from an
// external feed. Kept as a narrow interface over stdlib net/http (see
// DESIGN.md) so tests can substitute a fake without a live HTTP server.
type PriceSource interface {
	FetchUSDPrice(ctx context.Context, assetID string) (decimal.Decimal, error)
}

type cacheEntry struct {
	price     decimal.Decimal
	fetchedAt time.Time
}

// Oracle is the process-wide price cache. Safe for concurrent use.
type Oracle struct {
	source PriceSource
	mu     sync.Mutex
	cache  map[string]cacheEntry
}

// New constructs an Oracle backed by source.
func New(source PriceSource) *Oracle {
	return &Oracle{
		source: source,
		cache:  make(map[string]cacheEntry),
	}
}

// GetPrice returns the USD price of network n's native asset. It never
// returns an error: any source failure or cache miss that can't be
// refreshed falls back to the static table.
func (o *Oracle) GetPrice(ctx context.Context, n types.Network) decimal.Decimal {
	assetID, ok := sourceAssetID[n]
	if !ok {
		return staticFallback[n]
	}

	o.mu.Lock()
	entry, ok := o.cache[assetID]
	fresh := ok && time.Since(entry.fetchedAt) < cacheTTL
	o.mu.Unlock()

	if fresh {
		return entry.price
	}

	price, err := o.source.FetchUSDPrice(ctx, assetID)
	if err != nil {
		return staticFallback[n]
	}

	o.mu.Lock()
	o.cache[assetID] = cacheEntry{price: price, fetchedAt: time.Now()}
	o.mu.Unlock()

	return price
}
