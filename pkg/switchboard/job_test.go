package switchboard

import (
	"bytes"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/codec"
	"github.com/spool-hq/solana-sdk/pkg/switchboard/types"
)

func TestSplitChunks(t *testing.T) {
	assert.Len(t, splitChunks(nil, 10), 1)
	assert.Len(t, splitChunks(make([]byte, 10), 10), 1)
	assert.Len(t, splitChunks(make([]byte, 11), 10), 2)
	assert.Len(t, splitChunks(make([]byte, 30), 10), 3)

	chunks := splitChunks([]byte{1, 2, 3, 4, 5}, 2)
	require.Len(t, chunks, 3)
	assert.Equal(t, []byte{1, 2}, chunks[0])
	assert.Equal(t, []byte{3, 4}, chunks[1])
	assert.Equal(t, []byte{5}, chunks[2])
}

func TestJobInitInstructions_Small(t *testing.T) {
	program := testProgram(&fakeAccountReader{})
	jobKey := solana.NewWallet().PublicKey()
	payer := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()

	var name [32]byte
	copy(name[:], "job")
	definition := bytes.Repeat([]byte{0xab}, 100)

	job := NewJobAccount(program, jobKey)
	ixs, err := job.InitInstructions(payer, authority, name, 0, 250, definition)
	require.NoError(t, err)
	require.Len(t, ixs, 1)

	data, err := ixs[0].Data()
	require.NoError(t, err)
	disc := codec.InstructionDiscriminator("job_init")
	assert.Equal(t, disc[:], data[:codec.DiscriminatorLength])
}

func TestJobInitInstructions_Chunked(t *testing.T) {
	program := testProgram(&fakeAccountReader{})
	jobKey := solana.NewWallet().PublicKey()
	payer := solana.NewWallet().PublicKey()
	authority := solana.NewWallet().PublicKey()

	var name [32]byte
	definition := bytes.Repeat([]byte{0xcd}, types.JobInitChunkSize*2+10)

	job := NewJobAccount(program, jobKey)
	ixs, err := job.InitInstructions(payer, authority, name, 0, 250, definition)
	require.NoError(t, err)
	// init carries the first chunk, two set-data follow
	require.Len(t, ixs, 3)

	setDisc := codec.InstructionDiscriminator("job_set_data")
	for i := 1; i < len(ixs); i++ {
		data, dataErr := ixs[i].Data()
		require.NoError(t, dataErr)
		assert.Equal(t, setDisc[:], data[:codec.DiscriminatorLength])
	}
}
