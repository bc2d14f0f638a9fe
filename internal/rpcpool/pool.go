// Package rpcpool is the RPC Client Pool (spec.md §4.1): process-wide,
// thread-safe, network-typed client handles constructed once at startup
// from the environment. A missing RPC URL or key for a network leaves its
// pool slot empty; every operation against that network then fails with
// NetworkUnavailable rather than attempting a connection.
package rpcpool

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	solanago "github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/flowdex/tradecore/internal/config"
	"github.com/flowdex/tradecore/internal/types"
)

// EVMEntry is one EVM network's client and signer.
type EVMEntry struct {
	Client     *ethclient.Client
	PrivateKey *ecdsa.PrivateKey
	Address    common.Address
}

// SolanaEntry is the Solana network's client and signer.
type SolanaEntry struct {
	Client     *solanarpc.Client
	PrivateKey solanago.PrivateKey
}

// Pool holds every network's client handle. Clients are dialed once at
// construction and shared for the life of the process (spec.md §4.1: "no
// pooling beyond what the underlying transport provides").
type Pool struct {
	evm    map[types.Network]*EVMEntry
	solana *SolanaEntry
}

// New dials every network for which cfg has both an RPC URL and a key.
// Dial failures are logged by the caller (via the returned error per
// network) but do not abort construction of the other networks — a bad
// BASE endpoint should not take ETH offline.
func New(cfg *config.Config) (*Pool, map[types.Network]error) {
	p := &Pool{evm: make(map[types.Network]*EVMEntry)}
	errs := make(map[types.Network]error)

	for _, n := range types.AllNetworks {
		if !cfg.Available(n) {
			continue
		}
		creds := cfg.Networks[n]

		if n == types.SOL {
			entry, err := dialSolana(creds.RPCURL, creds.PrivateKey)
			if err != nil {
				errs[n] = err
				continue
			}
			p.solana = entry
			continue
		}

		entry, err := dialEVM(creds.RPCURL, creds.PrivateKey)
		if err != nil {
			errs[n] = err
			continue
		}
		p.evm[n] = entry
	}

	return p, errs
}

func dialEVM(rpcURL, hexKey string) (*EVMEntry, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("rpcpool: dial evm: %w", err)
	}

	pk, err := crypto.HexToECDSA(trimHexPrefix(hexKey))
	if err != nil {
		return nil, fmt.Errorf("rpcpool: parse private key: %w", err)
	}

	return &EVMEntry{
		Client:     client,
		PrivateKey: pk,
		Address:    crypto.PubkeyToAddress(pk.PublicKey),
	}, nil
}

func dialSolana(rpcURL, base58Key string) (*SolanaEntry, error) {
	client := solanarpc.New(rpcURL)

	pk, err := solanago.PrivateKeyFromBase58(base58Key)
	if err != nil {
		return nil, fmt.Errorf("rpcpool: parse solana private key: %w", err)
	}

	return &SolanaEntry{Client: client, PrivateKey: pk}, nil
}

func trimHexPrefix(s string) string {
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// EVM returns network n's EVM entry, or NetworkUnavailable if absent.
func (p *Pool) EVM(n types.Network) (*EVMEntry, error) {
	entry, ok := p.evm[n]
	if !ok {
		return nil, types.NewTradeError(types.NetworkUnavailable, "no EVM client configured for %s", n)
	}
	return entry, nil
}

// Solana returns the Solana entry, or NetworkUnavailable if absent.
func (p *Pool) Solana() (*SolanaEntry, error) {
	if p.solana == nil {
		return nil, types.NewTradeError(types.NetworkUnavailable, "no Solana client configured")
	}
	return p.solana, nil
}

// Available reports whether network n has a usable client+signer pair.
func (p *Pool) Available(n types.Network) bool {
	if n == types.SOL {
		return p.solana != nil
	}
	_, ok := p.evm[n]
	return ok
}

// Close tears down every dialed client — explicit teardown on shutdown,
// per spec.md §9's "global state" note.
func (p *Pool) Close() {
	for _, entry := range p.evm {
		entry.Client.Close()
	}
	if p.solana != nil {
		_ = p.solana.Client.Close()
	}
}
