package dex

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/flowdex/tradecore/internal/contractclient"
	"github.com/flowdex/tradecore/internal/retry"
	"github.com/flowdex/tradecore/internal/rpcpool"
	"github.com/flowdex/tradecore/internal/types"
)

// baseInterProbePause is the pause between V3 fee-tier probes on BASE
// (spec.md §4.4.2) — BASE's RPC providers rate-limit bursts of quoter
// calls more aggressively than ETH's.
const baseInterProbePause = 500 * time.Millisecond

// exactInputSingleParams mirrors SwapRouter's ExactInputSingleParams
// tuple. Fee and SqrtPriceLimitX96 are *big.Int: go-ethereum's abi
// package represents uint24/uint160 as big.Int, not a native width.
type exactInputSingleParams struct {
	TokenIn           common.Address
	TokenOut          common.Address
	Fee               *big.Int
	Recipient         common.Address
	Deadline          *big.Int
	AmountIn          *big.Int
	AmountOutMinimum  *big.Int
	SqrtPriceLimitX96 *big.Int
}

// UniswapV3Adapter probes every Uniswap V3 fee tier, picks the one with
// the largest quoted output, then swaps against it (spec.md §4.4.2).
type UniswapV3Adapter struct {
	evm       *rpcpool.EVMEntry
	listener  contractclient.TxListener
	network   types.Network
	erc20ABI  abi.ABI
	quoterABI abi.ABI
	routerABI abi.ABI
}

// NewUniswapV3Adapter builds a V3 adapter bound to one EVM network.
func NewUniswapV3Adapter(evm *rpcpool.EVMEntry, network types.Network) (*UniswapV3Adapter, error) {
	erc20ABI, err := parseABI(erc20MinimalABI)
	if err != nil {
		return nil, err
	}
	quoterABI, err := parseABI(uniswapV3QuoterABI)
	if err != nil {
		return nil, err
	}
	routerABI, err := parseABI(uniswapV3RouterABI)
	if err != nil {
		return nil, err
	}
	return &UniswapV3Adapter{
		evm:       evm,
		listener:  contractclient.NewTxListener(evm.Client),
		network:   network,
		erc20ABI:  erc20ABI,
		quoterABI: quoterABI,
		routerABI: routerABI,
	}, nil
}

// ExecuteSwap implements Swap: validate the token, probe every fee tier and
// keep the one with the largest nonzero output, apply the slippage floor,
// submit exactInputSingle, and wait for confirmation.
func (a *UniswapV3Adapter) ExecuteSwap(ctx context.Context, params types.SwapParams) types.SwapResult {
	table, ok := uniswapV3Tables[a.network]
	if !ok {
		return adapterError(types.AdapterError, "uniswap v3 has no table entry for %s", a.network)
	}

	tokenAddr := common.HexToAddress(params.TokenAddress)
	tokenClient := contractclient.NewContractClient(a.evm.Client, tokenAddr, a.erc20ABI)

	var decimalsOut []interface{}
	if err := retry.Do(ctx, a.network, func() error {
		var callErr error
		decimalsOut, callErr = tokenClient.Call(&a.evm.Address, "decimals")
		return callErr
	}); err != nil {
		return adapterError(types.InvalidToken, "token %s: decimals(): %v", params.TokenAddress, err)
	}
	decimals, ok := decimalsOut[0].(uint8)
	if !ok {
		return adapterError(types.InvalidToken, "token %s: decimals() returned unexpected type", params.TokenAddress)
	}

	amountInWei := ToWei(params.AmountNative, EVMNativeDecimals)
	wethAddr := common.HexToAddress(table.WETH)
	quoterAddr := common.HexToAddress(table.Quoter)
	quoterClient := contractclient.NewContractClient(a.evm.Client, quoterAddr, a.quoterABI)

	fee, expectedOut, err := a.probeFeeTiers(ctx, quoterClient, wethAddr, tokenAddr, amountInWei)
	if err != nil {
		return adapterError(types.NoV3Pool, "token %s: no v3 pool across fee tiers: %v", params.TokenAddress, err)
	}

	minOut := MinOut(expectedOut, params.SlippagePct)
	recipient := common.HexToAddress(params.WalletAddress)
	deadline := big.NewInt(time.Now().Add(swapDeadline).Unix())

	routerAddr := common.HexToAddress(table.Router)
	routerClient := contractclient.NewContractClient(a.evm.Client, routerAddr, a.routerABI)

	swapParams := exactInputSingleParams{
		TokenIn:           wethAddr,
		TokenOut:          tokenAddr,
		Fee:               big.NewInt(int64(fee)),
		Recipient:         recipient,
		Deadline:          deadline,
		AmountIn:          amountInWei,
		AmountOutMinimum:  minOut,
		SqrtPriceLimitX96: big.NewInt(0),
	}

	var txHash common.Hash
	if err := retry.Do(ctx, a.network, func() error {
		var sendErr error
		txHash, sendErr = routerClient.Send(contractclient.Standard, nil, amountInWei, &a.evm.Address, a.evm.PrivateKey,
			"exactInputSingle", swapParams)
		return sendErr
	}); err != nil {
		return adapterError(types.AdapterError, "exactInputSingle: %v", err)
	}

	receipt, err := a.listener.WaitForTransaction(ctx, txHash)
	if err != nil {
		return adapterError(types.AdapterError, "waiting for %s: %v", txHash.Hex(), err)
	}
	if receipt.Status == 0 {
		return adapterError(types.AdapterError, "transaction %s reverted", txHash.Hex())
	}

	gasFeeNative := FromWei(GasFeeWei(receipt.GasUsed, receipt.EffectiveGasPrice), EVMNativeDecimals)
	tokenAmount := FromWei(expectedOut, int32(decimals))

	return types.SwapResult{
		Success:     true,
		Dex:         types.Uniswap,
		TxHash:      txHash.Hex(),
		TokenAmount: tokenAmount,
		GasFee:      gasFeeNative,
		GasFeeUsd:   gasFeeNative.Mul(params.NativePriceUsd),
		TokenPrice:  TokenPrice(params.AmountNative, tokenAmount),
		Slippage:    params.SlippagePct,
	}
}

// probeFeeTiers tries every v3FeeTiers entry in ascending order and
// returns the tier with the strictly largest quoted output (ties broken
// by the first tier tried, i.e. ascending order — spec.md §4.4.2/§8).
// BASE pauses between attempts to avoid tripping its RPC providers' rate
// limits.
func (a *UniswapV3Adapter) probeFeeTiers(ctx context.Context, quoterClient contractclient.ContractClient, tokenIn, tokenOut common.Address, amountIn *big.Int) (uint32, *big.Int, error) {
	var lastErr error
	var bestFee uint32
	var bestOut *big.Int

	for i, fee := range v3FeeTiers {
		if a.network == types.BASE && i > 0 {
			time.Sleep(baseInterProbePause)
		}

		var out []interface{}
		err := retry.Do(ctx, a.network, func() error {
			var callErr error
			out, callErr = quoterClient.Call(&a.evm.Address, "quoteExactInputSingle",
				tokenIn, tokenOut, big.NewInt(int64(fee)), amountIn, big.NewInt(0))
			return callErr
		})
		if err != nil {
			lastErr = err
			continue
		}

		amountOut, ok := out[0].(*big.Int)
		if !ok || amountOut.Sign() <= 0 {
			lastErr = types.NewTradeError(types.NoV3Pool, "fee tier %d quoted zero output", fee)
			continue
		}

		if bestOut == nil || amountOut.Cmp(bestOut) > 0 {
			bestFee, bestOut = fee, amountOut
		}
	}

	if bestOut == nil {
		return 0, nil, lastErr
	}
	return bestFee, bestOut, nil
}
