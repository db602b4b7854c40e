package txm

import (
	"context"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPendingTx(id string) pendingTx {
	return pendingTx{id: id}
}

func TestPendingTxContext_New(t *testing.T) {
	txs := newPendingTxContext()
	sig := solana.Signature{1}

	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, txs.New(newTestPendingTx("a"), sig, cancel))

	assert.Equal(t, Broadcasted, txs.State("a"))
	assert.Equal(t, 1, txs.InflightCount())
	assert.Equal(t, []solana.Signature{sig}, txs.ListAll())

	// duplicate signature is rejected
	err := txs.New(newTestPendingTx("b"), sig, cancel)
	assert.ErrorIs(t, err, ErrSigAlreadyExists)
}

func TestPendingTxContext_AddSignature(t *testing.T) {
	txs := newPendingTxContext()
	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, txs.New(newTestPendingTx("a"), solana.Signature{1}, cancel))

	require.NoError(t, txs.AddSignature("a", solana.Signature{2}))
	assert.Len(t, txs.ListAll(), 2)

	assert.ErrorIs(t, txs.AddSignature("a", solana.Signature{2}), ErrSigAlreadyExists)
	assert.ErrorIs(t, txs.AddSignature("missing", solana.Signature{3}), ErrTransactionNotFound)
}

func TestPendingTxContext_StateTransitions(t *testing.T) {
	txs := newPendingTxContext()
	sig := solana.Signature{1}

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, txs.New(newTestPendingTx("a"), sig, cancel))

	id, err := txs.OnProcessed(sig)
	require.NoError(t, err)
	assert.Equal(t, "a", id)
	assert.Equal(t, Processed, txs.State("a"))

	// cannot move backwards
	_, err = txs.OnProcessed(sig)
	assert.ErrorIs(t, err, ErrAlreadyInExpectedState)

	// confirming cancels the rebroadcast loop
	_, err = txs.OnConfirmed(sig)
	require.NoError(t, err)
	assert.Equal(t, Confirmed, txs.State("a"))
	assert.Error(t, ctx.Err())

	// finalizing removes from the inflight set but retains the state
	_, err = txs.OnFinalized(sig, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, txs.InflightCount())
	assert.Empty(t, txs.ListAll())
	assert.Equal(t, Finalized, txs.State("a"))
}

func TestPendingTxContext_OnError(t *testing.T) {
	txs := newPendingTxContext()
	sig := solana.Signature{1}

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, txs.New(newTestPendingTx("a"), sig, cancel))

	id, err := txs.OnError(sig, time.Minute, TxFailRevert)
	require.NoError(t, err)
	assert.Equal(t, "a", id)
	assert.Error(t, ctx.Err())
	assert.Equal(t, Errored, txs.State("a"))
	assert.Equal(t, 0, txs.InflightCount())

	// unknown signature
	_, err = txs.OnError(solana.Signature{9}, time.Minute, TxFailDrop)
	assert.ErrorIs(t, err, ErrTransactionNotFound)
}

func TestPendingTxContext_Expired(t *testing.T) {
	txs := newPendingTxContext()
	sig := solana.Signature{1}

	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, txs.New(newTestPendingTx("a"), sig, cancel))

	assert.False(t, txs.Expired(sig, time.Hour))
	assert.True(t, txs.Expired(sig, time.Nanosecond))
	// 0 disables expiry
	assert.False(t, txs.Expired(sig, 0))
	// unknown signatures are expired
	assert.True(t, txs.Expired(solana.Signature{9}, time.Hour))
}

func TestPendingTxContext_TrimFinished(t *testing.T) {
	txs := newPendingTxContext()
	sig := solana.Signature{1}

	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, txs.New(newTestPendingTx("a"), sig, cancel))
	_, err := txs.OnFinalized(sig, time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	assert.Equal(t, 1, txs.TrimFinished())
	assert.Equal(t, NotFound, txs.State("a"))
}
