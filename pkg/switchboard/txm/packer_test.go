package txm

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoInstruction(payer solana.PublicKey, size int) solana.Instruction {
	return solana.NewInstruction(
		solana.MemoProgramID,
		solana.AccountMetaSlice{solana.Meta(payer).WRITE().SIGNER()},
		make([]byte, size),
	)
}

func TestShortvecLen(t *testing.T) {
	assert.Equal(t, 1, shortvecLen(0))
	assert.Equal(t, 1, shortvecLen(127))
	assert.Equal(t, 2, shortvecLen(128))
	assert.Equal(t, 2, shortvecLen(16383))
	assert.Equal(t, 3, shortvecLen(16384))
}

func TestTransactionSize(t *testing.T) {
	wallet := solana.NewWallet()
	payer := wallet.PublicKey()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{memoInstruction(payer, 100)},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)

	size, err := TransactionSize(tx)
	require.NoError(t, err)

	// size estimate must match the fully signed wire size
	_, err = tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		return &wallet.PrivateKey
	})
	require.NoError(t, err)
	wire, err := tx.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, len(wire), size)
	assert.LessOrEqual(t, size, MaxTransactionSize)
}

func TestPackInstructions(t *testing.T) {
	payer := solana.NewWallet().PublicKey()

	t.Run("empty", func(t *testing.T) {
		_, err := PackInstructions(nil, payer, solana.Hash{})
		require.Error(t, err)
	})

	t.Run("single transaction", func(t *testing.T) {
		ixs := []solana.Instruction{
			memoInstruction(payer, 100),
			memoInstruction(payer, 100),
		}
		txs, err := PackInstructions(ixs, payer, solana.Hash{})
		require.NoError(t, err)
		require.Len(t, txs, 1)
		assert.Len(t, txs[0].Message.Instructions, 2)
	})

	t.Run("splits when full", func(t *testing.T) {
		// each instruction is near the limit so every tx holds exactly one
		ixs := []solana.Instruction{
			memoInstruction(payer, 1000),
			memoInstruction(payer, 1000),
			memoInstruction(payer, 1000),
		}
		txs, err := PackInstructions(ixs, payer, solana.Hash{})
		require.NoError(t, err)
		require.Len(t, txs, 3)
		for _, tx := range txs {
			size, sizeErr := TransactionSize(tx)
			require.NoError(t, sizeErr)
			assert.LessOrEqual(t, size, MaxTransactionSize)
			assert.Len(t, tx.Message.Instructions, 1)
		}
	})

	t.Run("oversized instruction", func(t *testing.T) {
		_, err := PackInstructions([]solana.Instruction{
			memoInstruction(payer, MaxTransactionSize+1),
		}, payer, solana.Hash{})
		require.Error(t, err)
	})

	t.Run("order preserved", func(t *testing.T) {
		ixs := make([]solana.Instruction, 0, 10)
		for i := 0; i < 10; i++ {
			data := make([]byte, 400)
			data[0] = byte(i)
			ixs = append(ixs, solana.NewInstruction(
				solana.MemoProgramID,
				solana.AccountMetaSlice{solana.Meta(payer).WRITE().SIGNER()},
				data,
			))
		}
		txs, err := PackInstructions(ixs, payer, solana.Hash{})
		require.NoError(t, err)
		require.Greater(t, len(txs), 1)

		var seen []byte
		for _, tx := range txs {
			for _, ix := range tx.Message.Instructions {
				seen = append(seen, ix.Data[0])
			}
		}
		require.Len(t, seen, 10)
		for i := 0; i < 10; i++ {
			assert.Equal(t, byte(i), seen[i])
		}
	})
}

func TestVerifySigners(t *testing.T) {
	wallet := solana.NewWallet()
	payer := wallet.PublicKey()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{memoInstruction(payer, 10)},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)

	assert.Error(t, VerifySigners(tx, nil))
	assert.NoError(t, VerifySigners(tx, map[solana.PublicKey]solana.PrivateKey{
		payer: wallet.PrivateKey,
	}))
}

func TestSignTransaction(t *testing.T) {
	wallet := solana.NewWallet()
	payer := wallet.PublicKey()

	tx, err := solana.NewTransaction(
		[]solana.Instruction{memoInstruction(payer, 10)},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)

	require.NoError(t, SignTransaction(tx, map[solana.PublicKey]solana.PrivateKey{
		payer: wallet.PrivateKey,
	}))
	require.Len(t, tx.Signatures, 1)
	assert.NoError(t, tx.VerifySignatures())
}
