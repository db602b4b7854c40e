package keys

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/gagliardetto/solana-go"
)

// Keystore holds ed25519 private keys in memory and signs payloads with
// them. It satisfies the txm SimpleKeystore interface.
type Keystore struct {
	lock sync.RWMutex
	keys map[string]solana.PrivateKey // base58 pubkey -> private key
}

func NewKeystore(keys ...solana.PrivateKey) (*Keystore, error) {
	ks := &Keystore{keys: map[string]solana.PrivateKey{}}
	for _, k := range keys {
		if err := ks.Add(k); err != nil {
			return nil, err
		}
	}
	return ks, nil
}

// Add registers a private key. Re-adding an existing key is a no-op.
func (ks *Keystore) Add(key solana.PrivateKey) error {
	if len(key) == 0 {
		return fmt.Errorf("empty private key")
	}
	pub := key.PublicKey().String()

	ks.lock.Lock()
	defer ks.lock.Unlock()
	ks.keys[pub] = key
	return nil
}

// Get returns the private key for a base58 public key.
func (ks *Keystore) Get(account string) (solana.PrivateKey, error) {
	ks.lock.RLock()
	defer ks.lock.RUnlock()

	key, ok := ks.keys[account]
	if !ok {
		return nil, fmt.Errorf("no key for account: %s", account)
	}
	return key, nil
}

// Sign signs data with the key behind account.
func (ks *Keystore) Sign(_ context.Context, account string, data []byte) ([]byte, error) {
	key, err := ks.Get(account)
	if err != nil {
		return nil, err
	}
	sig, err := key.Sign(data)
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}
	return sig[:], nil
}

// Accounts lists the base58 public keys held, sorted for stable output.
func (ks *Keystore) Accounts(_ context.Context) ([]string, error) {
	ks.lock.RLock()
	defer ks.lock.RUnlock()

	accounts := make([]string, 0, len(ks.keys))
	for pub := range ks.keys {
		accounts = append(accounts, pub)
	}
	sort.Strings(accounts)
	return accounts, nil
}

// SignerMap returns the held keys keyed by public key, in the shape the
// transaction packer expects.
func (ks *Keystore) SignerMap() map[solana.PublicKey]solana.PrivateKey {
	ks.lock.RLock()
	defer ks.lock.RUnlock()

	out := make(map[solana.PublicKey]solana.PrivateKey, len(ks.keys))
	for _, key := range ks.keys {
		out[key.PublicKey()] = key
	}
	return out
}
