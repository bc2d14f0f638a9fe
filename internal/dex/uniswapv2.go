package dex

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/flowdex/tradecore/internal/contractclient"
	"github.com/flowdex/tradecore/internal/retry"
	"github.com/flowdex/tradecore/internal/rpcpool"
	"github.com/flowdex/tradecore/internal/types"
)

// swapDeadline is how far out swapExactETHForTokens's deadline argument is
// set from submission time (spec.md §4.4.1 step 5).
const swapDeadline = 20 * time.Minute

// UniswapV2Adapter executes native-in swaps against Uniswap V2 routers on
// ETH and BASE (spec.md §4.4.1).
type UniswapV2Adapter struct {
	evm       *rpcpool.EVMEntry
	listener  contractclient.TxListener
	network   types.Network
	dex       types.DEX
	erc20ABI  abi.ABI
	routerABI abi.ABI
	tables    map[types.Network]uniswapV2Network
}

// NewUniswapV2Adapter builds a V2 adapter bound to one EVM network's
// client/signer pair. dex is the label attached to successful results —
// PancakeSwap reuses this same step sequence under its own DEX tag via
// NewPancakeSwapAdapter, rather than through inheritance.
func NewUniswapV2Adapter(evm *rpcpool.EVMEntry, network types.Network) (*UniswapV2Adapter, error) {
	return newV2StyleAdapter(evm, network, types.Uniswap, uniswapV2Tables)
}

func newV2StyleAdapter(evm *rpcpool.EVMEntry, network types.Network, dex types.DEX, tables map[types.Network]uniswapV2Network) (*UniswapV2Adapter, error) {
	erc20ABI, err := parseABI(erc20MinimalABI)
	if err != nil {
		return nil, fmt.Errorf("dex: parse erc20 abi: %w", err)
	}
	routerABI, err := parseABI(uniswapV2RouterABI)
	if err != nil {
		return nil, fmt.Errorf("dex: parse v2 router abi: %w", err)
	}
	return &UniswapV2Adapter{
		evm:       evm,
		listener:  contractclient.NewTxListener(evm.Client),
		network:   network,
		dex:       dex,
		erc20ABI:  erc20ABI,
		routerABI: routerABI,
		tables:    tables,
	}, nil
}

// ExecuteSwap implements Swap — spec.md §4.4.1's seven steps: validate the
// token, quote, apply the slippage floor, submit swapExactETHForTokens,
// wait for confirmation, and compute the result's money fields.
func (a *UniswapV2Adapter) ExecuteSwap(ctx context.Context, params types.SwapParams) types.SwapResult {
	table, ok := a.tables[a.network]
	if !ok {
		return adapterError(types.AdapterError, "%s has no table entry for %s", a.dex, a.network)
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

	routerAddr := common.HexToAddress(table.Router)
	routerClient := contractclient.NewContractClient(a.evm.Client, routerAddr, a.routerABI)
	wethAddr := common.HexToAddress(table.WETH)
	path := []common.Address{wethAddr, tokenAddr}

	var amountsOut []interface{}
	if err := retry.Do(ctx, a.network, func() error {
		var callErr error
		amountsOut, callErr = routerClient.Call(&a.evm.Address, "getAmountsOut", amountInWei, path)
		return callErr
	}); err != nil {
		return adapterError(types.NoLiquidity, "token %s: getAmountsOut: %v", params.TokenAddress, err)
	}
	amounts, ok := amountsOut[0].([]*big.Int)
	if !ok || len(amounts) == 0 {
		return adapterError(types.NoLiquidity, "token %s: malformed getAmountsOut response", params.TokenAddress)
	}
	expectedOut := amounts[len(amounts)-1]
	if expectedOut.Sign() <= 0 {
		return adapterError(types.NoLiquidity, "token %s: zero output quoted", params.TokenAddress)
	}

	minOut := MinOut(expectedOut, params.SlippagePct)
	recipient := common.HexToAddress(params.WalletAddress)
	deadline := big.NewInt(time.Now().Add(swapDeadline).Unix())

	var txHash common.Hash
	if err := retry.Do(ctx, a.network, func() error {
		var sendErr error
		txHash, sendErr = routerClient.Send(contractclient.Standard, nil, amountInWei, &a.evm.Address, a.evm.PrivateKey,
			"swapExactETHForTokens", minOut, path, recipient, deadline)
		return sendErr
	}); err != nil {
		return adapterError(types.AdapterError, "swapExactETHForTokens: %v", err)
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
		Dex:         a.dex,
		TxHash:      txHash.Hex(),
		TokenAmount: tokenAmount,
		GasFee:      gasFeeNative,
		GasFeeUsd:   gasFeeNative.Mul(params.NativePriceUsd),
		TokenPrice:  TokenPrice(params.AmountNative, tokenAmount),
		Slippage:    params.SlippagePct,
	}
}
