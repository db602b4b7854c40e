package txm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/client"
	"github.com/spool-hq/solana-sdk/pkg/switchboard/config"
	"github.com/spool-hq/solana-sdk/pkg/switchboard/internal"
	"github.com/spool-hq/solana-sdk/pkg/switchboard/keys"
)

// sends go through the sendTx override, so the confirm loop's client is
// never reachable in these tests
func testLoader() internal.Loader[client.ReaderWriter] {
	return internal.NewLoader[client.ReaderWriter](func() (client.ReaderWriter, error) {
		return nil, errors.New("no client configured")
	})
}

func newTestTx(t *testing.T, payer solana.PublicKey) *solana.Transaction {
	t.Helper()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			solana.NewInstruction(
				solana.MemoProgramID,
				solana.AccountMetaSlice{solana.Meta(payer).WRITE().SIGNER()},
				[]byte("test"),
			),
		},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	return tx
}

func TestTxm_EnqueueValidation(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	ks, err := keys.NewKeystore(key)
	require.NoError(t, err)

	sent := make(chan *solana.Transaction, 1)
	sendTx := func(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
		select {
		case sent <- tx:
		default:
		}
		return solana.Signature{1}, nil
	}

	txm := NewTxm(testLoader(), sendTx, config.NewDefault(), ks, zap.NewNop().Sugar())

	// enqueue before start is rejected
	_, err = txm.Enqueue(newTestTx(t, key.PublicKey()))
	require.Error(t, err)

	require.NoError(t, txm.Start(context.Background()))
	defer func() { require.NoError(t, txm.Close()) }()

	// nil tx
	_, err = txm.Enqueue(nil)
	require.Error(t, err)

	// fee payer not in keystore
	_, err = txm.Enqueue(newTestTx(t, solana.NewWallet().PublicKey()))
	require.Error(t, err)

	// valid tx is accepted and broadcast
	id, err := txm.Enqueue(newTestTx(t, key.PublicKey()))
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	select {
	case tx := <-sent:
		// signed and carrying the injected compute budget instructions
		require.Len(t, tx.Signatures, 1)
		assert.Greater(t, len(tx.Message.Instructions), 1)
	case <-time.After(5 * time.Second):
		t.Fatal("transaction was not broadcast")
	}
}

func TestTxm_StateTracking(t *testing.T) {
	key, err := solana.NewRandomPrivateKey()
	require.NoError(t, err)
	ks, err := keys.NewKeystore(key)
	require.NoError(t, err)

	var mu sync.Mutex
	var sendCount int
	sendTx := func(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
		mu.Lock()
		defer mu.Unlock()
		sendCount++
		return solana.Signature{byte(sendCount)}, nil
	}

	txm := NewTxm(testLoader(), sendTx, config.NewDefault(), ks, zap.NewNop().Sugar())
	require.NoError(t, txm.Start(context.Background()))
	defer func() { require.NoError(t, txm.Close()) }()

	assert.Equal(t, NotFound, txm.State("missing"))

	id, err := txm.Enqueue(newTestTx(t, key.PublicKey()), SetTimeout(time.Second))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return txm.State(id) == Broadcasted
	}, 5*time.Second, 10*time.Millisecond)
	assert.Equal(t, 1, txm.InflightTxs())
}
