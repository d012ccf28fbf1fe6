// Package wallet implements HD wallet derivation and transaction signing.
package wallet

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/tyler-smith/go-bip32"
	"github.com/tyler-smith/go-bip39"
)

// ErrInvalidMnemonic is returned for phrases that fail BIP-39 validation.
var ErrInvalidMnemonic = errors.New("invalid mnemonic phrase")

// BIP-44 derivation path constants for m/44'/60'/0'/0/{index}.
const (
	purposeBIP44 = bip32.FirstHardenedChild + 44
	coinTypeEth  = bip32.FirstHardenedChild + 60
	accountZero  = bip32.FirstHardenedChild + 0
	changeExtern = 0
)

// Wallet is one deterministic signing identity. The private key is set
// at construction and never mutated, so a Wallet may be shared read-only
// across concurrent invocations.
type Wallet struct {
	address    common.Address
	key        *ecdsa.PrivateKey
	chainID    uint64
	derivation uint32
}

// FromPhrase derives the wallet at m/44'/60'/0'/0/{index} from a BIP-39
// mnemonic, bound to the given chain ID for signing.
func FromPhrase(phrase string, index uint32, chainID uint64) (*Wallet, error) {
	if !bip39.IsMnemonicValid(phrase) {
		return nil, ErrInvalidMnemonic
	}

	seed := bip39.NewSeed(phrase, "")
	master, err := bip32.NewMasterKey(seed)
	if err != nil {
		return nil, fmt.Errorf("create master key: %w", err)
	}

	key := master
	for _, step := range []uint32{purposeBIP44, coinTypeEth, accountZero, changeExtern, index} {
		key, err = key.NewChildKey(step)
		if err != nil {
			return nil, fmt.Errorf("derive child %d: %w", step, err)
		}
	}

	priv, err := crypto.ToECDSA(privateKeyBytes(key))
	if err != nil {
		return nil, fmt.Errorf("parsing derived key: %w", err)
	}

	return &Wallet{
		address:    crypto.PubkeyToAddress(priv.PublicKey),
		key:        priv,
		chainID:    chainID,
		derivation: index,
	}, nil
}

// Address returns the wallet's address.
func (w *Wallet) Address() common.Address {
	return w.address
}

// Derivation returns the derivation index this wallet was built from.
func (w *Wallet) Derivation() uint32 {
	return w.derivation
}

// ChainID returns the chain ID the wallet signs for.
func (w *Wallet) ChainID() uint64 {
	return w.chainID
}

// SignTx signs an EVM transaction for the wallet's chain and returns
// the raw signed bytes ready for broadcast.
func (w *Wallet) SignTx(tx *types.Transaction) ([]byte, error) {
	signer := types.NewLondonSigner(new(big.Int).SetUint64(w.chainID))
	signed, err := types.SignTx(tx, signer, w.key)
	if err != nil {
		return nil, fmt.Errorf("signing transaction: %w", err)
	}

	raw, err := signed.MarshalBinary()
	if err != nil {
		return nil, fmt.Errorf("marshaling signed tx: %w", err)
	}
	return raw, nil
}

// privateKeyBytes returns the raw 32-byte private key material.
// bip32 private keys may carry a leading 0x00 pad byte.
func privateKeyBytes(k *bip32.Key) []byte {
	raw := k.Key
	if len(raw) == 33 && raw[0] == 0 {
		return raw[1:]
	}
	return raw
}
