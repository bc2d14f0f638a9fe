package contractclient

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// TxReceipt is the subset of an on-chain receipt the trading core needs:
// enough to compute gas cost and confirm success.
type TxReceipt struct {
	TxHash            common.Hash
	BlockNumber       uint64
	GasUsed           uint64
	EffectiveGasPrice *big.Int
	Status            uint64
}

// TxListener waits for a submitted transaction to be mined. Grounded on
// the teacher's cmd/main.go construction
// (`txlistener.NewTxListener(client, WithPollInterval(...), WithTimeout(...))`).
type TxListener interface {
	WaitForTransaction(ctx context.Context, txHash common.Hash) (*TxReceipt, error)
}

type pollingListener struct {
	client       *ethclient.Client
	pollInterval time.Duration
	timeout      time.Duration
}

// Option configures a pollingListener.
type Option func(*pollingListener)

// WithPollInterval sets how often WaitForTransaction polls for a receipt.
func WithPollInterval(d time.Duration) Option {
	return func(l *pollingListener) { l.pollInterval = d }
}

// WithTimeout bounds how long WaitForTransaction waits before giving up.
func WithTimeout(d time.Duration) Option {
	return func(l *pollingListener) { l.timeout = d }
}

// NewTxListener builds a TxListener polling client for receipts.
func NewTxListener(client *ethclient.Client, opts ...Option) TxListener {
	l := &pollingListener{
		client:       client,
		pollInterval: 3 * time.Second,
		timeout:      60 * time.Second,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *pollingListener) WaitForTransaction(ctx context.Context, txHash common.Hash) (*TxReceipt, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := l.client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return toTxReceipt(receipt), nil
		}
		if err != ethereum.NotFound {
			return nil, fmt.Errorf("txlistener: fetch receipt: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("txlistener: timed out waiting for %s: %w", txHash.Hex(), ctx.Err())
		case <-ticker.C:
		}
	}
}

func toTxReceipt(r *types.Receipt) *TxReceipt {
	return &TxReceipt{
		TxHash:            r.TxHash,
		BlockNumber:       r.BlockNumber.Uint64(),
		GasUsed:           r.GasUsed,
		EffectiveGasPrice: r.EffectiveGasPrice,
		Status:            r.Status,
	}
}
