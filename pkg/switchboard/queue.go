package switchboard

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/types"
)

const queueAccountName = "OracleQueueAccountData"

// OracleQueueAccount wraps a queue of oracles.
type OracleQueueAccount struct {
	program   *Program
	PublicKey solana.PublicKey
}

func NewOracleQueueAccount(program *Program, pubkey solana.PublicKey) *OracleQueueAccount {
	return &OracleQueueAccount{program: program, PublicKey: pubkey}
}

// LoadData fetches and decodes the queue account.
func (q *OracleQueueAccount) LoadData(ctx context.Context) (*types.OracleQueueAccountData, error) {
	return loadAccount[types.OracleQueueAccountData](ctx, q.program, q.PublicKey, queueAccountName)
}

// OnChange streams decoded queue updates until cancel is called or ctx ends.
func (q *OracleQueueAccount) OnChange(ctx context.Context, handler func(*types.OracleQueueAccountData, uint64)) (func(), error) {
	return watchAccount[types.OracleQueueAccountData](ctx, q.program, q.PublicKey, queueAccountName, handler)
}

// LoadOracles returns the active oracle pubkeys from the queue's data buffer.
func (q *OracleQueueAccount) LoadOracles(ctx context.Context) ([]solana.PublicKey, error) {
	queue, err := q.LoadData(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := q.program.fetchAccountData(ctx, queue.DataBuffer, q.program.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load queue buffer: %w", err)
	}

	// buffer layout: 8 byte discriminator then packed 32 byte pubkeys,
	// queue.Size of which are in use
	const headerLen = 8
	oracles := make([]solana.PublicKey, 0, queue.Size)
	for i := uint32(0); i < queue.Size; i++ {
		start := headerLen + int(i)*solana.PublicKeyLength
		end := start + solana.PublicKeyLength
		if end > len(raw) {
			return nil, fmt.Errorf("queue buffer truncated: want %d bytes have %d", end, len(raw))
		}
		oracles = append(oracles, solana.PublicKeyFromBytes(raw[start:end]))
	}
	return oracles, nil
}

// InitInstruction creates the queue and binds its oracle data buffer.
func (q *OracleQueueAccount) InitInstruction(payer, authority, buffer, mint solana.PublicKey, params types.QueueInitParams) (solana.Instruction, error) {
	return q.program.instruction("oracle_queue_init", params, solana.AccountMetaSlice{
		solana.Meta(q.PublicKey).WRITE().SIGNER(),
		solana.Meta(authority),
		solana.Meta(buffer).WRITE(),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(mint),
	})
}

// SetConfigInstruction updates queue settings. Only the populated optional
// fields change.
func (q *OracleQueueAccount) SetConfigInstruction(authority solana.PublicKey, params types.QueueSetConfigParams) (solana.Instruction, error) {
	return q.program.instruction("oracle_queue_set_config", params, solana.AccountMetaSlice{
		solana.Meta(q.PublicKey).WRITE(),
		solana.Meta(authority).SIGNER(),
	})
}

// SetRewardsInstruction updates the queue's per-round oracle reward.
func (q *OracleQueueAccount) SetRewardsInstruction(authority solana.PublicKey, rewards uint64) (solana.Instruction, error) {
	return q.program.instruction("oracle_queue_set_rewards", types.OracleQueueSetRewardsParams{
		Rewards: rewards,
	}, solana.AccountMetaSlice{
		solana.Meta(q.PublicKey).WRITE(),
		solana.Meta(authority).SIGNER(),
	})
}
