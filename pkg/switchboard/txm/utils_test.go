package txm

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertStatus(t *testing.T) {
	assert.Equal(t, NotFound, convertStatus(nil))
	assert.Equal(t, Processed, convertStatus(&rpc.SignatureStatusesResult{
		ConfirmationStatus: rpc.ConfirmationStatusProcessed,
	}))
	assert.Equal(t, Confirmed, convertStatus(&rpc.SignatureStatusesResult{
		ConfirmationStatus: rpc.ConfirmationStatusConfirmed,
	}))
	assert.Equal(t, Finalized, convertStatus(&rpc.SignatureStatusesResult{
		ConfirmationStatus: rpc.ConfirmationStatusFinalized,
	}))

	// on-chain errors take precedence over the confirmation level
	assert.Equal(t, Errored, convertStatus(&rpc.SignatureStatusesResult{
		ConfirmationStatus: rpc.ConfirmationStatusConfirmed,
		Err:                map[string]interface{}{"InstructionError": nil},
	}))
	assert.Equal(t, Errored, convertStatus(&rpc.SignatureStatusesResult{
		ConfirmationStatus: rpc.ConfirmationStatusFinalized,
		Err:                map[string]interface{}{"InstructionError": nil},
	}))
}

func TestSortSignaturesAndResults(t *testing.T) {
	sigs := []solana.Signature{{0}, {1}, {2}, {3}}
	res := []*rpc.SignatureStatusesResult{
		nil,
		{ConfirmationStatus: rpc.ConfirmationStatusConfirmed},
		{ConfirmationStatus: rpc.ConfirmationStatusProcessed},
		{ConfirmationStatus: rpc.ConfirmationStatusFinalized},
	}

	sigs, res, err := SortSignaturesAndResults(sigs, res)
	require.NoError(t, err)

	// most progressed first
	assert.Equal(t, Finalized, convertStatus(res[0]))
	assert.Equal(t, Confirmed, convertStatus(res[1]))
	assert.Equal(t, Processed, convertStatus(res[2]))
	assert.Equal(t, NotFound, convertStatus(res[3]))
	assert.Equal(t, solana.Signature{3}, sigs[0])
	assert.Equal(t, solana.Signature{0}, sigs[3])
}

func TestSortSignaturesAndResults_Mismatch(t *testing.T) {
	_, _, err := SortSignaturesAndResults([]solana.Signature{{0}}, []*rpc.SignatureStatusesResult{})
	require.Error(t, err)
}

func TestBatchSplit(t *testing.T) {
	sigs := make([]solana.Signature, 0, 5)
	for i := byte(0); i < 5; i++ {
		sigs = append(sigs, solana.Signature{i})
	}

	batches, err := BatchSplit(sigs, 2)
	require.NoError(t, err)
	require.Len(t, batches, 3)
	assert.Len(t, batches[0], 2)
	assert.Len(t, batches[1], 2)
	assert.Len(t, batches[2], 1)

	// everything fits one batch
	batches, err = BatchSplit(sigs, 10)
	require.NoError(t, err)
	require.Len(t, batches, 1)

	// empty input
	batches, err = BatchSplit(nil, 10)
	require.NoError(t, err)
	assert.Empty(t, batches)

	_, err = BatchSplit(sigs, 0)
	require.Error(t, err)
}

func TestTxStateString(t *testing.T) {
	assert.Equal(t, "NotFound", NotFound.String())
	assert.Equal(t, "Errored", Errored.String())
	assert.Equal(t, "Broadcasted", Broadcasted.String())
	assert.Equal(t, "Processed", Processed.String())
	assert.Equal(t, "Confirmed", Confirmed.String())
	assert.Equal(t, "Finalized", Finalized.String())
	assert.Equal(t, "TxState(99)", TxState(99).String())
}
