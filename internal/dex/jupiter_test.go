package dex

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchQuoteParsesOutAmount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote", r.URL.Path)
		assert.Equal(t, wrappedSOLMint, r.URL.Query().Get("inputMint"))
		assert.Equal(t, "500", r.URL.Query().Get("slippageBps"))
		_ = json.NewEncoder(w).Encode(jupiterQuoteResponse{InAmount: "1000000000", OutAmount: "42000000"})
	}))
	defer server.Close()

	a := &JupiterAdapter{httpClient: server.Client(), baseURL: server.URL}
	quote, raw, err := a.fetchQuote(t.Context(), "tokenMintAddress", "1000000000", decimal.RequireFromString("5"))

	require.NoError(t, err)
	assert.Equal(t, "42000000", quote.OutAmount)
	assert.Contains(t, string(raw), "42000000")
}

func TestFetchQuotePropagatesNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"no route found"}`))
	}))
	defer server.Close()

	a := &JupiterAdapter{httpClient: server.Client(), baseURL: server.URL}
	_, _, err := a.fetchQuote(t.Context(), "tokenMintAddress", "1", decimal.Zero)

	require.Error(t, err)
}

func TestFetchSwapTransactionReturnsBase64Payload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/swap", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var body jupiterSwapRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "walletAddress", body.UserPublicKey)
		assert.True(t, body.WrapAndUnwrapSol)
		assert.True(t, body.DynamicComputeUnitLimit)
		_ = json.NewEncoder(w).Encode(jupiterSwapResponse{SwapTransaction: "base64payload"})
	}))
	defer server.Close()

	a := &JupiterAdapter{httpClient: server.Client(), baseURL: server.URL}
	txB64, err := a.fetchSwapTransaction(t.Context(), json.RawMessage(`{"outAmount":"1"}`), "walletAddress")

	require.NoError(t, err)
	assert.Equal(t, "base64payload", txB64)
}

func TestResolveTokenDecimalsDefaultsOnMalformedMint(t *testing.T) {
	a := &JupiterAdapter{}
	assert.Equal(t, int32(defaultSolanaTokenDecimals), a.resolveTokenDecimals(t.Context(), "not-a-valid-base58-mint-address!!"))
}
