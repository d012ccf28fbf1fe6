// Package config assembles process configuration from the environment
// and the command line. A .env file in the working directory is loaded
// if present; real environment variables take precedence.
package config

import (
	"errors"
	"fmt"
	"math/big"
	"os"

	"github.com/joho/godotenv"
)

// ErrUnsupportedChain is returned for chain IDs outside the registry.
var ErrUnsupportedChain = errors.New("unsupported chain id")

// ErrMnemonicNotFound is returned when no mnemonic source yields a phrase.
var ErrMnemonicNotFound = errors.New("mnemonic not found")

// Environment variable names.
const (
	EnvMnemonic   = "MNEMONIC"
	EnvMainnetRPC = "MAINNET_RPC"
	EnvSepoliaRPC = "SEPOLIA_RPC"
)

// Options is the fully-parsed argument surface of one invocation,
// assembled once at process start and passed by value into the runner.
type Options struct {
	Function         string
	Calldata         []string // nil = flag absent; non-nil empty = present with no values
	MsgValue         *big.Int // wei
	FilePath         string
	DerivationNumber uint32 // 0 = sentinel, derive from ledger history
	ChainID          uint64
}

// Config holds environment-sourced settings.
type Config struct {
	mnemonic string
	rpcURLs  map[uint64]string
}

// MnemonicSource yields a stored mnemonic phrase, used when the
// MNEMONIC environment variable is unset.
type MnemonicSource interface {
	Retrieve(ref string) (string, error)
}

// MnemonicKeyRef is the keychain reference for the stored phrase.
const MnemonicKeyRef = "contract-interfacer.mnemonic"

// Load reads .env (if present) and the environment. fallback may be nil;
// when non-nil it is consulted for the mnemonic if the env var is unset.
func Load(fallback MnemonicSource) (*Config, error) {
	// Missing .env is fine, the environment may carry everything.
	_ = godotenv.Load()

	cfg := &Config{
		rpcURLs: make(map[uint64]string),
	}
	if url := os.Getenv(EnvMainnetRPC); url != "" {
		cfg.rpcURLs[ChainIDMainnet] = url
	}
	if url := os.Getenv(EnvSepoliaRPC); url != "" {
		cfg.rpcURLs[ChainIDSepolia] = url
	}

	cfg.mnemonic = os.Getenv(EnvMnemonic)
	if cfg.mnemonic == "" && fallback != nil {
		phrase, err := fallback.Retrieve(MnemonicKeyRef)
		if err == nil {
			cfg.mnemonic = phrase
		}
	}

	return cfg, nil
}

// Mnemonic returns the seed phrase for wallet derivation.
func (c *Config) Mnemonic() (string, error) {
	if c.mnemonic == "" {
		return "", fmt.Errorf("%w: set %s or store it in the OS keychain", ErrMnemonicNotFound, EnvMnemonic)
	}
	return c.mnemonic, nil
}

// RPCURL resolves the RPC endpoint for a chain ID. Unrecognized chain
// IDs fail with ErrUnsupportedChain before any wallet derivation.
func (c *Config) RPCURL(chainID uint64) (string, error) {
	if _, ok := chainNames[chainID]; !ok {
		return "", fmt.Errorf("%w: %d", ErrUnsupportedChain, chainID)
	}
	url, ok := c.rpcURLs[chainID]
	if !ok || url == "" {
		return "", fmt.Errorf("no RPC URL configured for chain %d (%s)", chainID, chainNames[chainID])
	}
	return url, nil
}
