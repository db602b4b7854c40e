package fees

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTx(t *testing.T) *solana.Transaction {
	t.Helper()
	payer := solana.NewWallet().PublicKey()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{
			solana.NewInstruction(
				solana.MemoProgramID,
				solana.AccountMetaSlice{solana.Meta(payer).WRITE().SIGNER()},
				[]byte("hello"),
			),
		},
		solana.Hash{},
		solana.TransactionPayer(payer),
	)
	require.NoError(t, err)
	return tx
}

func TestComputeUnitPrice_Instruction(t *testing.T) {
	ix := ComputeUnitPrice(1_000).Instruction()
	assert.Equal(t, ComputeBudgetProgram, ix.ProgramID())
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 0xe8, 0x03, 0, 0, 0, 0, 0, 0}, data)

	parsed, err := ParsePrice(data)
	require.NoError(t, err)
	assert.Equal(t, ComputeUnitPrice(1_000), parsed)
}

func TestComputeUnitLimit_Instruction(t *testing.T) {
	ix := ComputeUnitLimit(200_000).Instruction()
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{2, 0x40, 0x0d, 0x03, 0}, data)
}

func TestParsePrice_Errors(t *testing.T) {
	_, err := ParsePrice([]byte{3, 0})
	assert.Error(t, err)

	// unit limit instruction is not a price
	_, err = ParsePrice([]byte{2, 0, 0, 0, 0, 0, 0, 0, 0})
	assert.Error(t, err)
}

func TestSetComputeUnitPrice(t *testing.T) {
	tx := testTx(t)
	baseLen := len(tx.Message.Instructions)

	require.NoError(t, SetComputeUnitPrice(tx, 100))
	require.Len(t, tx.Message.Instructions, baseLen+1)

	// budget instruction is prepended
	first := tx.Message.Instructions[0]
	assert.Equal(t, ComputeBudgetProgram, tx.Message.AccountKeys[first.ProgramIDIndex])
	price, err := ParsePrice(first.Data)
	require.NoError(t, err)
	assert.Equal(t, ComputeUnitPrice(100), price)

	// setting again replaces in place rather than appending
	require.NoError(t, SetComputeUnitPrice(tx, 250))
	require.Len(t, tx.Message.Instructions, baseLen+1)
	price, err = ParsePrice(tx.Message.Instructions[0].Data)
	require.NoError(t, err)
	assert.Equal(t, ComputeUnitPrice(250), price)
}

func TestSetComputeUnitLimit_AlongsidePrice(t *testing.T) {
	tx := testTx(t)
	require.NoError(t, SetComputeUnitPrice(tx, 100))
	require.NoError(t, SetComputeUnitLimit(tx, 200_000))

	// one instruction per identifier, both against the same program key
	var budgetCount int
	for _, ix := range tx.Message.Instructions {
		if tx.Message.AccountKeys[ix.ProgramIDIndex].Equals(ComputeBudgetProgram) {
			budgetCount++
		}
	}
	assert.Equal(t, 2, budgetCount)

	// replacing the limit does not disturb the price
	require.NoError(t, SetComputeUnitLimit(tx, 400_000))
	assert.Equal(t, budgetCount+1, len(tx.Message.Instructions))
}

func TestSetComputeUnitPrice_Signed(t *testing.T) {
	tx := testTx(t)
	tx.Signatures = append(tx.Signatures, solana.Signature{})
	assert.Error(t, SetComputeUnitPrice(tx, 1))
}
