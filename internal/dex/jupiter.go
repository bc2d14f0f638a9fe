package dex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"time"

	solanago "github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/token"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/shopspring/decimal"

	"github.com/flowdex/tradecore/internal/retry"
	"github.com/flowdex/tradecore/internal/rpcpool"
	"github.com/flowdex/tradecore/internal/types"
)

// wrappedSOLMint is Jupiter's input mint for native SOL (spec.md §4.4.4).
const wrappedSOLMint = "So11111111111111111111111111111111111111112"

// lamportsPerSOL is the Solana native-unit exponent — 9, not EVM's 18.
const lamportsPerSOL = 9

// jupiterConfirmTimeout bounds how long ExecuteSwap waits for the
// submitted transaction to finalize before giving up.
const jupiterConfirmTimeout = 60 * time.Second

// jupiterGasFeeSol is Solana's non-competitive, flat transaction fee
// (spec.md §4.4.4 step 7) — modeled as a constant rather than fetched,
// since Solana fee markets don't vary enough to matter here.
const jupiterGasFeeSol = "0.000005"

// defaultSolanaTokenDecimals is used when the mint account lookup fails
// (spec.md §4.4.4 step 6).
const defaultSolanaTokenDecimals = 9

// JupiterAdapter executes native-SOL-in swaps via the Jupiter aggregator's
// HTTP quote/swap API (spec.md §4.4.4) — Solana has no on-chain router
// call to Call/Send through, so this adapter talks HTTP instead of
// contractclient.
type JupiterAdapter struct {
	solana     *rpcpool.SolanaEntry
	httpClient *http.Client
	baseURL    string
}

// NewJupiterAdapter builds a Jupiter adapter bound to the Solana pool
// entry. baseURL defaults to Jupiter's public v6 quote API.
func NewJupiterAdapter(solana *rpcpool.SolanaEntry) *JupiterAdapter {
	return &JupiterAdapter{
		solana:     solana,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    "https://quote-api.jup.ag/v6",
	}
}

type jupiterQuoteResponse struct {
	InAmount  string `json:"inAmount"`
	OutAmount string `json:"outAmount"`
}

type jupiterSwapRequest struct {
	QuoteResponse           json.RawMessage `json:"quoteResponse"`
	UserPublicKey           string          `json:"userPublicKey"`
	WrapAndUnwrapSol        bool            `json:"wrapAndUnwrapSol"`
	DynamicComputeUnitLimit bool            `json:"dynamicComputeUnitLimit"`
}

type jupiterSwapResponse struct {
	SwapTransaction string `json:"swapTransaction"`
}

// ExecuteSwap implements Swap: fetch a quote, request the serialized swap
// transaction, sign it with the pool's Solana key, submit it, and wait
// for confirmation.
func (a *JupiterAdapter) ExecuteSwap(ctx context.Context, params types.SwapParams) types.SwapResult {
	amountLamports := ToWei(params.AmountNative, lamportsPerSOL)

	quote, quoteRaw, err := a.fetchQuote(ctx, params.TokenAddress, amountLamports.String(), params.SlippagePct)
	if err != nil {
		return adapterError(types.NoLiquidity, "token %s: jupiter quote: %v", params.TokenAddress, err)
	}

	outAmount, ok := new(big.Int).SetString(quote.OutAmount, 10)
	if !ok || outAmount.Sign() <= 0 {
		return adapterError(types.NoLiquidity, "token %s: jupiter quoted zero output", params.TokenAddress)
	}

	swapTxB64, err := a.fetchSwapTransaction(ctx, quoteRaw, params.WalletAddress)
	if err != nil {
		return adapterError(types.AdapterError, "jupiter swap transaction: %v", err)
	}

	tx, err := solanago.TransactionFromBase64(swapTxB64)
	if err != nil {
		return adapterError(types.AdapterError, "decode jupiter swap transaction: %v", err)
	}

	signerKey := a.solana.PrivateKey
	if _, err := tx.Sign(func(key solanago.PublicKey) *solanago.PrivateKey {
		if key.Equals(signerKey.PublicKey()) {
			return &signerKey
		}
		return nil
	}); err != nil {
		return adapterError(types.AdapterError, "sign jupiter swap transaction: %v", err)
	}

	var sig solanago.Signature
	if err := retry.Do(ctx, types.SOL, func() error {
		var sendErr error
		sig, sendErr = a.solana.Client.SendTransaction(ctx, tx)
		return sendErr
	}); err != nil {
		return adapterError(types.AdapterError, "submit jupiter swap transaction: %v", err)
	}

	if err := a.awaitConfirmation(ctx, sig); err != nil {
		return adapterError(types.AdapterError, "confirm %s: %v", sig.String(), err)
	}

	tokenAmount := FromWei(outAmount, a.resolveTokenDecimals(ctx, params.TokenAddress))
	gasFeeNative := decimal.RequireFromString(jupiterGasFeeSol)

	return types.SwapResult{
		Success:     true,
		Dex:         types.Jupiter,
		TxHash:      sig.String(),
		TokenAmount: tokenAmount,
		GasFee:      gasFeeNative,
		GasFeeUsd:   gasFeeNative.Mul(params.NativePriceUsd),
		TokenPrice:  TokenPrice(params.AmountNative, tokenAmount),
		Slippage:    params.SlippagePct,
	}
}

func (a *JupiterAdapter) fetchQuote(ctx context.Context, outputMint, amountLamports string, slippagePct decimal.Decimal) (*jupiterQuoteResponse, json.RawMessage, error) {
	q := url.Values{}
	q.Set("inputMint", wrappedSOLMint)
	q.Set("outputMint", outputMint)
	q.Set("amount", amountLamports)
	q.Set("slippageBps", strconv.FormatInt(slippagePct.Mul(decimal.NewFromInt(100)).IntPart(), 10))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/quote?"+q.Encode(), nil)
	if err != nil {
		return nil, nil, err
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("jupiter quote returned %d: %s", resp.StatusCode, string(body))
	}

	var quote jupiterQuoteResponse
	if err := json.Unmarshal(body, &quote); err != nil {
		return nil, nil, fmt.Errorf("decode jupiter quote: %w", err)
	}
	return &quote, json.RawMessage(body), nil
}

func (a *JupiterAdapter) fetchSwapTransaction(ctx context.Context, quoteRaw json.RawMessage, userPublicKey string) (string, error) {
	reqBody, err := json.Marshal(jupiterSwapRequest{
		QuoteResponse:           quoteRaw,
		UserPublicKey:           userPublicKey,
		WrapAndUnwrapSol:        true,
		DynamicComputeUnitLimit: true,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/swap", bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("jupiter swap returned %d: %s", resp.StatusCode, string(body))
	}

	var swapResp jupiterSwapResponse
	if err := json.Unmarshal(body, &swapResp); err != nil {
		return "", fmt.Errorf("decode jupiter swap response: %w", err)
	}
	return swapResp.SwapTransaction, nil
}

func (a *JupiterAdapter) awaitConfirmation(ctx context.Context, sig solanago.Signature) error {
	ctx, cancel := context.WithTimeout(ctx, jupiterConfirmTimeout)
	defer cancel()

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		statuses, err := a.solana.Client.GetSignatureStatuses(ctx, true, sig)
		if err == nil && len(statuses.Value) == 1 && statuses.Value[0] != nil {
			st := statuses.Value[0]
			if st.Err != nil {
				return fmt.Errorf("transaction failed on-chain: %v", st.Err)
			}
			if st.ConfirmationStatus == solanarpc.ConfirmationStatusConfirmed || st.ConfirmationStatus == solanarpc.ConfirmationStatusFinalized {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("timed out waiting for %s: %w", sig.String(), ctx.Err())
		case <-ticker.C:
		}
	}
}

// resolveTokenDecimals queries the mint account for its decimals
// (spec.md §4.4.4 step 6), defaulting to 9 — Solana's native-unit
// exponent — when the mint address is malformed or the lookup fails.
func (a *JupiterAdapter) resolveTokenDecimals(ctx context.Context, mintAddress string) int32 {
	mintPubkey, err := solanago.PublicKeyFromBase58(mintAddress)
	if err != nil {
		return defaultSolanaTokenDecimals
	}

	var mint token.Mint
	if err := a.solana.Client.GetAccountDataInto(ctx, mintPubkey, &mint); err != nil {
		return defaultSolanaTokenDecimals
	}
	return int32(mint.Decimals)
}
