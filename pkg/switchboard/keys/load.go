package keys

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// LoadKeypairFile reads a solana-keygen JSON keypair file (the 64 byte
// secret key as a JSON integer array).
func LoadKeypairFile(path string) (solana.PrivateKey, error) {
	key, err := solana.PrivateKeyFromSolanaKeygenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load keypair file %s: %w", path, err)
	}
	return key, nil
}

// ParsePrivateKey parses a base58-encoded private key string.
func ParsePrivateKey(raw string) (solana.PrivateKey, error) {
	key, err := solana.PrivateKeyFromBase58(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return key, nil
}
