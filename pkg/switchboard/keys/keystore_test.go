package keys

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeystore_SignAndAccounts(t *testing.T) {
	ctx := context.Background()
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	ks, err := NewKeystore(key)
	require.NoError(t, err)

	accounts, err := ks.Accounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, key.PublicKey().String(), accounts[0])

	msg := []byte("message to sign")
	sig, err := ks.Sign(ctx, accounts[0], msg)
	require.NoError(t, err)
	require.Len(t, sig, 64)
	assert.True(t, ed25519.Verify(ed25519.PublicKey(key.PublicKey().Bytes()), msg, sig))

	// unknown account
	_, err = ks.Sign(ctx, solana.NewWallet().PublicKey().String(), msg)
	require.Error(t, err)
}

func TestKeystore_AddAndSignerMap(t *testing.T) {
	ks, err := NewKeystore()
	require.NoError(t, err)

	assert.Error(t, ks.Add(nil))

	k1, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	k2, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	require.NoError(t, ks.Add(k1))
	require.NoError(t, ks.Add(k2))
	// re-adding is a no-op
	require.NoError(t, ks.Add(k1))

	accounts, err := ks.Accounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
	assert.True(t, sortedStrings(accounts))

	signers := ks.SignerMap()
	require.Len(t, signers, 2)
	assert.Equal(t, k1, signers[k1.PublicKey()])
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestLoadKeypairFile(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	// solana-keygen format: the 64 secret key bytes as a JSON integer array
	raw := make([]int, len(key))
	for i, b := range key {
		raw[i] = int(b)
	}
	b, err := json.Marshal(raw)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keypair.json")
	require.NoError(t, os.WriteFile(path, b, 0600))

	loaded, err := LoadKeypairFile(path)
	require.NoError(t, err)
	assert.Equal(t, key, loaded)

	_, err = LoadKeypairFile(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestParsePrivateKey(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)

	parsed, err := ParsePrivateKey(key.String())
	require.NoError(t, err)
	assert.Equal(t, key, parsed)

	_, err = ParsePrivateKey("0invalid")
	require.Error(t, err)
}
