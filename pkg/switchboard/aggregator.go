package switchboard

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/codec"
	"github.com/spool-hq/solana-sdk/pkg/switchboard/types"
)

const aggregatorAccountName = "AggregatorAccountData"

// AggregatorAccount wraps a data feed.
type AggregatorAccount struct {
	program   *Program
	PublicKey solana.PublicKey
}

func NewAggregatorAccount(program *Program, pubkey solana.PublicKey) *AggregatorAccount {
	return &AggregatorAccount{program: program, PublicKey: pubkey}
}

// LoadData fetches and decodes the aggregator account.
func (a *AggregatorAccount) LoadData(ctx context.Context) (*types.AggregatorAccountData, error) {
	return loadAccount[types.AggregatorAccountData](ctx, a.program, a.PublicKey, aggregatorAccountName)
}

// OnChange streams decoded feed updates until cancel is called or ctx ends.
func (a *AggregatorAccount) OnChange(ctx context.Context, handler func(*types.AggregatorAccountData, uint64)) (func(), error) {
	return watchAccount[types.AggregatorAccountData](ctx, a.program, a.PublicKey, aggregatorAccountName, handler)
}

// LatestValue returns the latest confirmed result. maxStaleness of 0 skips
// the staleness check.
func (a *AggregatorAccount) LatestValue(ctx context.Context, maxStaleness time.Duration) (codec.SwitchboardDecimal, error) {
	data, err := a.LoadData(ctx)
	if err != nil {
		return codec.SwitchboardDecimal{}, err
	}

	value, ok := data.LatestValue()
	if !ok {
		return codec.SwitchboardDecimal{}, fmt.Errorf("%w: %s", ErrFeedNotPopulated, a.PublicKey)
	}

	if maxStaleness > 0 {
		age := time.Since(time.Unix(data.LatestConfirmedRound.RoundOpenTimestamp, 0))
		if age > maxStaleness {
			return codec.SwitchboardDecimal{}, fmt.Errorf("%w: %s is %s old", ErrStaleFeed, a.PublicKey, age)
		}
	}
	return value, nil
}

// LeaseAccount resolves the feed's lease wrapper on its queue.
func (a *AggregatorAccount) LeaseAccount(queue solana.PublicKey) (*LeaseAccount, uint8, error) {
	return DeriveLeaseAccount(a.program, queue, a.PublicKey)
}

// InitInstruction creates the aggregator account.
func (a *AggregatorAccount) InitInstruction(authority, queue solana.PublicKey, params types.AggregatorInitParams) (solana.Instruction, error) {
	return a.program.instruction("aggregator_init", params, solana.AccountMetaSlice{
		solana.Meta(a.PublicKey).WRITE(),
		solana.Meta(authority),
		solana.Meta(queue),
		solana.Meta(mustStateAddress(a.program)),
	})
}

// AddJobInstruction appends a job account to the feed. A nil weight uses the
// default weight of 1.
func (a *AggregatorAccount) AddJobInstruction(authority, job solana.PublicKey, weight *uint8) (solana.Instruction, error) {
	return a.program.instruction("aggregator_add_job", types.AggregatorAddJobParams{
		Weight: weight,
	}, solana.AccountMetaSlice{
		solana.Meta(a.PublicKey).WRITE(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(job).WRITE(),
	})
}

// RemoveJobInstruction removes the job at jobIdx from the feed.
func (a *AggregatorAccount) RemoveJobInstruction(authority, job solana.PublicKey, jobIdx uint32) (solana.Instruction, error) {
	return a.program.instruction("aggregator_remove_job", types.AggregatorRemoveJobParams{
		JobIdx: jobIdx,
	}, solana.AccountMetaSlice{
		solana.Meta(a.PublicKey).WRITE(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(job).WRITE(),
	})
}

// SetConfigInstruction updates feed settings. Only the populated optional
// fields change.
func (a *AggregatorAccount) SetConfigInstruction(authority solana.PublicKey, params types.AggregatorSetConfigParams) (solana.Instruction, error) {
	return a.program.instruction("aggregator_set_config", params, solana.AccountMetaSlice{
		solana.Meta(a.PublicKey).WRITE(),
		solana.Meta(authority).SIGNER(),
	})
}

// SetAuthorityInstruction transfers feed control to newAuthority.
func (a *AggregatorAccount) SetAuthorityInstruction(authority, newAuthority solana.PublicKey) (solana.Instruction, error) {
	return a.program.instruction("aggregator_set_authority", types.AggregatorSetAuthorityParams{}, solana.AccountMetaSlice{
		solana.Meta(a.PublicKey).WRITE(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(newAuthority),
	})
}

// OpenRoundAccounts collects the accounts an open round instruction touches.
type OpenRoundAccounts struct {
	Queue          solana.PublicKey
	QueueAuthority solana.PublicKey
	QueueBuffer    solana.PublicKey
	Lease          solana.PublicKey
	Escrow         solana.PublicKey
	Permission     solana.PublicKey
	PayoutWallet   solana.PublicKey
	Mint           solana.PublicKey
}

// OpenRoundInstruction requests a new update round from the queue's oracles.
// The payout wallet receives the round-opening reward.
func (a *AggregatorAccount) OpenRoundInstruction(accounts OpenRoundAccounts, params types.AggregatorOpenRoundParams) (solana.Instruction, error) {
	return a.program.instruction("aggregator_open_round", params, solana.AccountMetaSlice{
		solana.Meta(a.PublicKey).WRITE(),
		solana.Meta(accounts.Lease).WRITE(),
		solana.Meta(accounts.Queue).WRITE(),
		solana.Meta(accounts.QueueAuthority),
		solana.Meta(accounts.Permission).WRITE(),
		solana.Meta(accounts.Escrow).WRITE(),
		solana.Meta(mustStateAddress(a.program)),
		solana.Meta(accounts.PayoutWallet).WRITE(),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(accounts.QueueBuffer),
		solana.Meta(accounts.Mint),
	})
}
