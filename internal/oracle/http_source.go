package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// HTTPSource fetches USD prices from a CoinGecko-shaped `simple/price`
// endpoint. It is the only network-facing PriceSource this package ships;
// production can supply any other PriceSource implementation.
type HTTPSource struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPSource builds an HTTPSource with a bounded-timeout client — the
// one ambient HTTP edge this repo keeps on stdlib net/http (see
// DESIGN.md for why no ecosystem HTTP client earns its keep here).
func NewHTTPSource(baseURL string) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type simplePriceResponse map[string]map[string]float64

func (s *HTTPSource) FetchUSDPrice(ctx context.Context, assetID string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd", s.BaseURL, url.QueryEscape(assetID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch price: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch price: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("fetch price: unexpected status %d", resp.StatusCode)
	}

	var parsed simplePriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return decimal.Zero, fmt.Errorf("fetch price: decode response: %w", err)
	}

	asset, ok := parsed[assetID]
	if !ok {
		return decimal.Zero, fmt.Errorf("fetch price: no entry for %s", assetID)
	}
	usd, ok := asset["usd"]
	if !ok {
		return decimal.Zero, fmt.Errorf("fetch price: no usd field for %s", assetID)
	}

	return decimal.NewFromFloat(usd), nil
}
