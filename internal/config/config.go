// Package config loads the service's environment-provided configuration
// (spec.md §6): the journal DSN, session secret, and per-network RPC
// endpoint / signing key pairs. Absence of an RPC URL or key for a network
// disables that network rather than failing startup.
package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/flowdex/tradecore/internal/types"
)

// NetworkCreds is one network's RPC endpoint and raw signing key material.
// EVM keys are hex private keys; the Solana key is a base58 secret key.
type NetworkCreds struct {
	RPCURL     string
	PrivateKey string
}

// Config is the fully-resolved process configuration.
type Config struct {
	DatabaseURL   string
	SessionSecret string
	AppEnv        string
	HTTPAddr      string
	Networks      map[types.Network]NetworkCreds
}

// Load reads `.env` if present (teacher's cmd/main.go convention, via
// godotenv) then resolves every variable from the real environment, which
// always wins over `.env` — production deployments set real env vars and
// never ship a `.env` file.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional; missing .env is not an error

	cfg := &Config{
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		AppEnv:        envOr("APP_ENV", "development"),
		HTTPAddr:      envOr("HTTP_ADDR", ":8080"),
		Networks:      map[types.Network]NetworkCreds{},
	}

	for _, n := range types.AllNetworks {
		rpc := os.Getenv("RPC_URL_" + string(n))
		key := os.Getenv("PRIVATE_KEY_" + string(n))
		if key == "" {
			if encKey, ok := resolveEncryptedKey(n); ok {
				key = encKey
			}
		}
		cfg.Networks[n] = NetworkCreds{RPCURL: rpc, PrivateKey: key}
	}

	return cfg, nil
}

// Available reports whether both an RPC URL and a signing key are present
// for n — the RPC Client Pool's NetworkUnavailable gate (spec.md §4.1).
func (c *Config) Available(n types.Network) bool {
	creds, ok := c.Networks[n]
	return ok && creds.RPCURL != "" && creds.PrivateKey != ""
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// resolveEncryptedKey supports the teacher's ENC_PK/KEY pair as an
// alternative to a raw PRIVATE_KEY_<network> value, per-network via a
// ENC_PK_<network>/KEY_<network> suffix convention. This is the
// supplemented feature documented in SPEC_FULL.md §11.
func resolveEncryptedKey(n types.Network) (string, bool) {
	enc := os.Getenv("ENC_PK_" + string(n))
	key := os.Getenv("KEY_" + string(n))
	if enc == "" || key == "" {
		return "", false
	}
	pk, err := DecryptPrivateKey(key, enc)
	if err != nil {
		return "", false
	}
	return pk, true
}
