package wallet

import (
	"fmt"
	"runtime"

	"github.com/99designs/keyring"
)

const keychainService = "contract-interfacer"

// Keystore wraps OS keychain access for the stored mnemonic phrase.
type Keystore struct {
	ring keyring.Keyring
}

// DefaultKeystore returns a keystore backed by the OS keychain.
func DefaultKeystore() *Keystore {
	cfg := keyring.Config{
		ServiceName:              keychainService,
		KeychainTrustApplication: true,
	}

	// On Linux without a GUI, fall back to file-based storage.
	if runtime.GOOS == "linux" {
		cfg.AllowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.FileBackend,
		}
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		ring, _ = keyring.Open(keyring.Config{
			ServiceName:     keychainService,
			AllowedBackends: []keyring.BackendType{keyring.FileBackend},
		})
	}

	return &Keystore{ring: ring}
}

// Store saves a secret under name and returns its reference key.
func (k *Keystore) Store(name, secret string) (string, error) {
	if k.ring == nil {
		return name, nil
	}
	ref := keychainService + "." + name
	err := k.ring.Set(keyring.Item{
		Key:  ref,
		Data: []byte(secret),
	})
	if err != nil {
		return "", fmt.Errorf("keychain store: %w", err)
	}
	return ref, nil
}

// Retrieve fetches a secret by its reference.
func (k *Keystore) Retrieve(ref string) (string, error) {
	if k.ring == nil {
		return "", fmt.Errorf("keystore not available")
	}
	item, err := k.ring.Get(ref)
	if err != nil {
		return "", fmt.Errorf("keychain retrieve: %w", err)
	}
	return string(item.Data), nil
}

// Delete removes a stored secret.
func (k *Keystore) Delete(ref string) error {
	if k.ring == nil {
		return nil
	}
	return k.ring.Remove(ref)
}
