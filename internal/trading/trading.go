// Package trading implements the Trading Service (spec.md §4.5): the one
// entry point the scheduler and the manual-trade API call to turn a
// TradeParams into a TradeOutcome, gated by availability, address
// validation, price conversion, and an EVM gas safety envelope before
// ever reaching a DEX adapter.
package trading

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/flowdex/tradecore/internal/dex"
	"github.com/flowdex/tradecore/internal/oracle"
	"github.com/flowdex/tradecore/internal/retry"
	"github.com/flowdex/tradecore/internal/rpcpool"
	"github.com/flowdex/tradecore/internal/types"
)

// estimatedSwapGasUnits approximates a single-hop swap's gas cost for the
// pre-trade safety check (spec.md §4.5 step 4: gasPrice × 200_000) — the
// real figure varies by token and route, but this is only used to guard
// against a pathological gas spike, not to build the transaction itself
// (the adapter estimates its own gas at submission time).
const estimatedSwapGasUnits = 200_000

// Service is the Trading Service. One Service is shared by the scheduler
// and the manual-trade API handler.
type Service struct {
	pool        *rpcpool.Pool
	priceOracle *oracle.Oracle
	logger      *zap.SugaredLogger

	v2Adapters     map[types.Network]dex.Swap
	v3Adapters     map[types.Network]dex.Swap
	jupiterAdapter dex.Swap
}

// NewService builds a Service, constructing one DEX adapter per
// (network, version) pair the pool has a client for. A network with no
// dialed client simply has no adapter; ExecuteTrade's availability check
// catches that before dispatch is ever attempted.
func NewService(pool *rpcpool.Pool, priceOracle *oracle.Oracle, logger *zap.SugaredLogger) (*Service, error) {
	s := &Service{
		pool:        pool,
		priceOracle: priceOracle,
		logger:      logger,
		v2Adapters:  make(map[types.Network]dex.Swap),
		v3Adapters:  make(map[types.Network]dex.Swap),
	}

	for _, n := range []types.Network{types.ETH, types.BASE} {
		if !pool.Available(n) {
			continue
		}
		evm, _ := pool.EVM(n)

		v2, err := dex.NewUniswapV2Adapter(evm, n)
		if err != nil {
			return nil, err
		}
		s.v2Adapters[n] = v2

		v3, err := dex.NewUniswapV3Adapter(evm, n)
		if err != nil {
			return nil, err
		}
		s.v3Adapters[n] = v3
	}

	if pool.Available(types.BNB) {
		evm, _ := pool.EVM(types.BNB)
		pancake, err := dex.NewPancakeSwapAdapter(evm)
		if err != nil {
			return nil, err
		}
		s.v2Adapters[types.BNB] = pancake
	}

	if pool.Available(types.SOL) {
		solana, _ := pool.Solana()
		s.jupiterAdapter = dex.NewJupiterAdapter(solana)
	}

	return s, nil
}

// NetworkAvailable reports whether network has a dialed RPC client and
// signer — the same check ExecuteTrade makes internally, exposed for
// callers (the bot.start handler) that need to reject before ever
// creating a trade log.
func (s *Service) NetworkAvailable(network types.Network) bool {
	return s.pool.Available(network)
}

// ExecuteTrade runs spec.md §4.5's six steps: network availability,
// address validation, USD→native price conversion, an EVM gas pre-check,
// adapter dispatch with version fallback, and a verbatim passthrough of
// the adapter's result.
func (s *Service) ExecuteTrade(ctx context.Context, params types.TradeParams) types.TradeOutcome {
	log := s.logger.With("userId", params.UserID, "network", params.Network, "token", params.ContractAddress)

	if !s.pool.Available(params.Network) {
		log.Warnw("network unavailable")
		return errOutcome(types.NetworkUnavailable, "network %s has no configured RPC client", params.Network)
	}

	if err := types.ValidateAddress(params.Network, params.ContractAddress); err != nil {
		log.Warnw("invalid token address", "error", err)
		return errOutcome(types.InvalidAddress, "%v", err)
	}

	nativePriceUsd := s.priceOracle.GetPrice(ctx, params.Network)
	if nativePriceUsd.IsZero() {
		log.Errorw("price oracle returned zero", "network", params.Network)
		return errOutcome(types.AdapterError, "no usable price for %s", params.Network)
	}
	amountNative := params.AmountUsd.Div(nativePriceUsd)

	if params.Network.IsEVM() && !params.MaxGasRatio.IsZero() {
		if outcome, blocked := s.checkGasEnvelope(ctx, params, nativePriceUsd); blocked {
			log.Warnw("gas pre-check rejected trade")
			return outcome
		}
	}

	recipient, err := s.recipientAddress(params.Network)
	if err != nil {
		log.Errorw("no signer configured", "error", err)
		return errOutcome(types.NetworkUnavailable, "%v", err)
	}

	swapParams := types.SwapParams{
		Network:        params.Network,
		TokenAddress:   params.ContractAddress,
		AmountNative:   amountNative,
		SlippagePct:    params.SlippageTolerance,
		WalletAddress:  recipient,
		NativePriceUsd: nativePriceUsd,
		DexVersion:     params.DexVersion,
	}

	result := s.dispatch(ctx, params.Network, swapParams)
	if !result.Success {
		log.Warnw("trade failed", "kind", result.ErrorKind, "message", result.ErrorMessage)
	} else {
		log.Infow("trade succeeded", "dex", result.Dex, "txHash", result.TxHash)
	}

	return types.FromSwapResult(result)
}

// dispatch selects the adapter for network and version, falling back from
// V3 to V2 on NoV3Pool when the caller asked for "auto" (spec.md §4.5's
// dispatch/version-fallback step). An explicit v2 or v3 request never
// falls back — the caller asked for a specific protocol.
func (s *Service) dispatch(ctx context.Context, network types.Network, params types.SwapParams) types.SwapResult {
	switch network {
	case types.SOL:
		if s.jupiterAdapter == nil {
			return adapterUnavailable(network)
		}
		return s.jupiterAdapter.ExecuteSwap(ctx, params)

	case types.BNB:
		adapter, ok := s.v2Adapters[types.BNB]
		if !ok {
			return adapterUnavailable(network)
		}
		return adapter.ExecuteSwap(ctx, params)

	case types.ETH, types.BASE:
		return s.dispatchUniswap(ctx, network, params)

	default:
		return adapterUnavailable(network)
	}
}

func (s *Service) dispatchUniswap(ctx context.Context, network types.Network, params types.SwapParams) types.SwapResult {
	v2, haveV2 := s.v2Adapters[network]
	v3, haveV3 := s.v3Adapters[network]

	switch params.DexVersion {
	case types.DexVersionV2:
		if !haveV2 {
			return adapterUnavailable(network)
		}
		return v2.ExecuteSwap(ctx, params)

	case types.DexVersionV3:
		if !haveV3 {
			return adapterUnavailable(network)
		}
		return v3.ExecuteSwap(ctx, params)

	case types.DexVersionV4:
		err := types.NewTradeError(types.NotImplemented, "uniswap v4 is not supported")
		return types.SwapResult{Success: false, ErrorKind: types.NotImplemented, ErrorMessage: err.Error()}

	default: // "auto" (and unset) — try V3 first, fall back to V2 on NoV3Pool.
		if haveV3 {
			result := v3.ExecuteSwap(ctx, params)
			if result.Success || result.ErrorKind != types.NoV3Pool {
				return result
			}
			s.logger.Infow("v3 had no pool, falling back to v2", "network", network)
		}
		if !haveV2 {
			return adapterUnavailable(network)
		}
		return v2.ExecuteSwap(ctx, params)
	}
}

// checkGasEnvelope rejects the trade with GasTooHigh when the estimated
// gas cost exceeds params.MaxGasRatio of the trade's USD amount
// (spec.md §4.5 step 4). The bool return is true when the trade should be
// blocked. A gas-price lookup failure does not block the trade — the
// adapter's own gas estimate at submission time is the authoritative one;
// this is only a cheap early rejection of an obviously bad trade.
func (s *Service) checkGasEnvelope(ctx context.Context, params types.TradeParams, nativePriceUsd decimal.Decimal) (types.TradeOutcome, bool) {
	evm, err := s.pool.EVM(params.Network)
	if err != nil {
		return types.TradeOutcome{}, false
	}

	gasPriceWei, err := fetchGasPrice(ctx, params.Network, evm)
	if err != nil {
		return types.TradeOutcome{}, false
	}

	gasCostWei := dex.GasFeeWei(estimatedSwapGasUnits, gasPriceWei)
	gasCostNative := dex.FromWei(gasCostWei, dex.EVMNativeDecimals)
	gasCostUsd := gasCostNative.Mul(nativePriceUsd)

	if params.AmountUsd.IsZero() {
		return types.TradeOutcome{}, false
	}

	ratio := gasCostUsd.Div(params.AmountUsd)
	if ratio.GreaterThan(params.MaxGasRatio) {
		return errOutcome(types.GasTooHigh, "estimated gas cost %s USD is %s of trade amount, exceeding max ratio %s",
			gasCostUsd.StringFixed(2), ratio.StringFixed(4), params.MaxGasRatio.StringFixed(4)), true
	}

	return types.TradeOutcome{}, false
}

func adapterUnavailable(network types.Network) types.SwapResult {
	return types.SwapResult{
		Success:      false,
		ErrorKind:    types.AdapterError,
		ErrorMessage: "no dex adapter configured for " + string(network),
	}
}

func errOutcome(kind types.Kind, format string, args ...interface{}) types.TradeOutcome {
	err := types.NewTradeError(kind, format, args...)
	return types.TradeOutcome{Success: false, ErrorKind: kind, ErrorMessage: err.Error()}
}

func (s *Service) recipientAddress(network types.Network) (string, error) {
	if network == types.SOL {
		solana, err := s.pool.Solana()
		if err != nil {
			return "", err
		}
		return solana.PrivateKey.PublicKey().String(), nil
	}
	evm, err := s.pool.EVM(network)
	if err != nil {
		return "", err
	}
	return evm.Address.Hex(), nil
}

// fetchGasPrice retrieves network's current suggested gas price, wrapped
// in the network's retry profile like every other RPC-bound call.
func fetchGasPrice(ctx context.Context, network types.Network, evm *rpcpool.EVMEntry) (*big.Int, error) {
	var price *big.Int
	err := retry.Do(ctx, network, func() error {
		var fetchErr error
		price, fetchErr = evm.Client.SuggestGasPrice(ctx)
		return fetchErr
	})
	return price, err
}
