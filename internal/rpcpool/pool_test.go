package rpcpool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/flowdex/tradecore/internal/config"
	"github.com/flowdex/tradecore/internal/types"
)

func TestNewSkipsNetworksMissingCreds(t *testing.T) {
	cfg := &config.Config{
		Networks: map[types.Network]config.NetworkCreds{
			types.ETH:  {RPCURL: "", PrivateKey: ""},
			types.BASE: {RPCURL: "https://base.example", PrivateKey: ""},
			types.BNB:  {RPCURL: "", PrivateKey: "0xabc"},
			types.SOL:  {RPCURL: "", PrivateKey: ""},
		},
	}

	pool, errs := New(cfg)

	assert.False(t, pool.Available(types.ETH))
	assert.False(t, pool.Available(types.BASE))
	assert.False(t, pool.Available(types.BNB))
	assert.False(t, pool.Available(types.SOL))
	assert.Empty(t, errs, "no dial should be attempted when creds are incomplete")
}

func TestEVMReturnsNetworkUnavailableWhenAbsent(t *testing.T) {
	pool := &Pool{evm: map[types.Network]*EVMEntry{}}

	_, err := pool.EVM(types.ETH)
	assert.Error(t, err)
	assert.Equal(t, types.NetworkUnavailable, types.KindOf(err))
}

func TestSolanaReturnsNetworkUnavailableWhenAbsent(t *testing.T) {
	pool := &Pool{evm: map[types.Network]*EVMEntry{}}

	_, err := pool.Solana()
	assert.Error(t, err)
	assert.Equal(t, types.NetworkUnavailable, types.KindOf(err))
}
