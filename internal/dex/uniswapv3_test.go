package dex

import (
	"context"
	"crypto/ecdsa"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowdex/tradecore/internal/contractclient"
	"github.com/flowdex/tradecore/internal/types"
)

// fakeContractClient is a test double for contractclient.ContractClient —
// only Call is exercised by probeFeeTiers.
type fakeContractClient struct {
	callsByFee map[uint32][]interface{}
	callErr    map[uint32]error
}

func (f *fakeContractClient) ContractAddress() common.Address { return common.Address{} }

func (f *fakeContractClient) Call(from *common.Address, method string, args ...interface{}) ([]interface{}, error) {
	fee := uint32(args[2].(*big.Int).Int64())
	if err, ok := f.callErr[fee]; ok {
		return nil, err
	}
	return f.callsByFee[fee], nil
}

func (f *fakeContractClient) Send(kind contractclient.TxKind, gasLimit *uint64, value *big.Int, from *common.Address, privateKey *ecdsa.PrivateKey, method string, args ...interface{}) (common.Hash, error) {
	return common.Hash{}, nil
}

func (f *fakeContractClient) DecodeTransaction(data []byte) (*contractclient.DecodedTransaction, error) {
	return nil, nil
}

func (f *fakeContractClient) TransactionData(txHash common.Hash) ([]byte, error) {
	return nil, nil
}

func TestProbeFeeTiersReturnsLargestQuotedOutput(t *testing.T) {
	a := &UniswapV3Adapter{network: types.ETH}
	fake := &fakeContractClient{
		callsByFee: map[uint32][]interface{}{
			100:   {big.NewInt(0)},
			500:   {big.NewInt(42)},
			3000:  {big.NewInt(99)},
			10000: {big.NewInt(1)},
		},
	}

	fee, out, err := a.probeFeeTiers(context.Background(), fake, common.Address{}, common.Address{}, big.NewInt(1))

	require.NoError(t, err)
	assert.Equal(t, uint32(3000), fee)
	assert.Equal(t, "99", out.String())
}

func TestProbeFeeTiersBreaksTiesByAscendingTier(t *testing.T) {
	a := &UniswapV3Adapter{network: types.ETH}
	fake := &fakeContractClient{
		callsByFee: map[uint32][]interface{}{
			100:   {big.NewInt(50)},
			500:   {big.NewInt(50)},
			3000:  {big.NewInt(0)},
			10000: {big.NewInt(1)},
		},
	}

	fee, out, err := a.probeFeeTiers(context.Background(), fake, common.Address{}, common.Address{}, big.NewInt(1))

	require.NoError(t, err)
	assert.Equal(t, uint32(100), fee)
	assert.Equal(t, "50", out.String())
}

func TestProbeFeeTiersExhaustsAllTiers(t *testing.T) {
	a := &UniswapV3Adapter{network: types.ETH}
	fake := &fakeContractClient{
		callsByFee: map[uint32][]interface{}{
			100:   {big.NewInt(0)},
			500:   {big.NewInt(0)},
			3000:  {big.NewInt(0)},
			10000: {big.NewInt(0)},
		},
	}

	_, _, err := a.probeFeeTiers(context.Background(), fake, common.Address{}, common.Address{}, big.NewInt(1))

	require.Error(t, err)
}
