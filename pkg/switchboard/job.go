package switchboard

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/types"
)

const jobAccountName = "JobAccountData"

// JobAccount wraps a serialized task definition.
type JobAccount struct {
	program   *Program
	PublicKey solana.PublicKey
}

func NewJobAccount(program *Program, pubkey solana.PublicKey) *JobAccount {
	return &JobAccount{program: program, PublicKey: pubkey}
}

// LoadData fetches and decodes the job account.
func (j *JobAccount) LoadData(ctx context.Context) (*types.JobAccountData, error) {
	return loadAccount[types.JobAccountData](ctx, j.program, j.PublicKey, jobAccountName)
}

// OnChange streams decoded job updates until cancel is called or ctx ends.
func (j *JobAccount) OnChange(ctx context.Context, handler func(*types.JobAccountData, uint64)) (func(), error) {
	return watchAccount[types.JobAccountData](ctx, j.program, j.PublicKey, jobAccountName, handler)
}

// InitInstructions creates the job account and uploads its definition.
// Definitions larger than a single transaction's worth of data are split: the
// init instruction carries the first chunk and declares the total size, the
// remaining chunks follow as job_set_data instructions.
func (j *JobAccount) InitInstructions(payer, authority solana.PublicKey, name [32]byte, expiration int64, stateBump uint8, data []byte) ([]solana.Instruction, error) {
	params := types.JobInitParams{
		Name:       name,
		Expiration: expiration,
		StateBump:  stateBump,
	}

	chunks := splitChunks(data, types.JobInitChunkSize)
	if len(chunks) == 1 {
		params.Data = chunks[0]
	} else {
		size := uint32(len(data))
		params.Size = &size
		params.Data = chunks[0]
	}

	initIx, err := j.program.instruction("job_init", params, solana.AccountMetaSlice{
		solana.Meta(j.PublicKey).WRITE(),
		solana.Meta(authority),
		solana.Meta(mustStateAddress(j.program)),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	})
	if err != nil {
		return nil, err
	}

	out := []solana.Instruction{initIx}
	for i := 1; i < len(chunks); i++ {
		setIx, err := j.SetDataInstruction(authority, chunks[i], uint8(i))
		if err != nil {
			return nil, err
		}
		out = append(out, setIx)
	}
	return out, nil
}

// SetDataInstruction uploads one chunk of a multi-part job definition.
func (j *JobAccount) SetDataInstruction(authority solana.PublicKey, data []byte, chunk uint8) (solana.Instruction, error) {
	return j.program.instruction("job_set_data", types.JobSetDataParams{
		Data:  data,
		Chunk: chunk,
	}, solana.AccountMetaSlice{
		solana.Meta(j.PublicKey).WRITE(),
		solana.Meta(authority).SIGNER(),
	})
}

func splitChunks(data []byte, size int) [][]byte {
	if len(data) == 0 {
		return [][]byte{nil}
	}
	var chunks [][]byte
	for len(data) > size {
		chunks = append(chunks, data[:size])
		data = data[size:]
	}
	return append(chunks, data)
}
