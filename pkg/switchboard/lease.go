package switchboard

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/types"
)

const leaseAccountName = "LeaseAccountData"

// LeaseAccount wraps the escrow funding an aggregator's updates on a queue.
type LeaseAccount struct {
	program   *Program
	PublicKey solana.PublicKey
}

func NewLeaseAccount(program *Program, pubkey solana.PublicKey) *LeaseAccount {
	return &LeaseAccount{program: program, PublicKey: pubkey}
}

// DeriveLeaseAccount resolves the lease PDA for a queue and aggregator.
func DeriveLeaseAccount(program *Program, queue, aggregator solana.PublicKey) (*LeaseAccount, uint8, error) {
	addr, bump, err := LeaseAddress(program.ID, queue, aggregator)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to derive lease address: %w", err)
	}
	return NewLeaseAccount(program, addr), bump, nil
}

// LoadData fetches and decodes the lease account.
func (l *LeaseAccount) LoadData(ctx context.Context) (*types.LeaseAccountData, error) {
	return loadAccount[types.LeaseAccountData](ctx, l.program, l.PublicKey, leaseAccountName)
}

// OnChange streams decoded lease updates until cancel is called or ctx ends.
func (l *LeaseAccount) OnChange(ctx context.Context, handler func(*types.LeaseAccountData, uint64)) (func(), error) {
	return watchAccount[types.LeaseAccountData](ctx, l.program, l.PublicKey, leaseAccountName, handler)
}

// LeaseAccounts collects the accounts shared by the lease instructions.
type LeaseAccounts struct {
	Queue      solana.PublicKey
	Aggregator solana.PublicKey
	Escrow     solana.PublicKey
	Funder     solana.PublicKey
	Owner      solana.PublicKey
	Mint       solana.PublicKey
}

// InitInstruction creates the lease PDA and funds its escrow with
// params.LoadAmount from the funder token account.
func (l *LeaseAccount) InitInstruction(payer solana.PublicKey, accounts LeaseAccounts, params types.LeaseInitParams) (solana.Instruction, error) {
	if err := checkAmount(params.LoadAmount); err != nil {
		return nil, err
	}
	return l.program.instruction("lease_init", params, solana.AccountMetaSlice{
		solana.Meta(l.PublicKey).WRITE(),
		solana.Meta(accounts.Queue).WRITE(),
		solana.Meta(accounts.Aggregator),
		solana.Meta(accounts.Funder).WRITE(),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(accounts.Owner).SIGNER(),
		solana.Meta(accounts.Escrow).WRITE(),
		solana.Meta(mustStateAddress(l.program)),
		solana.Meta(accounts.Mint),
	})
}

// ExtendInstruction tops up the lease escrow with params.LoadAmount.
func (l *LeaseAccount) ExtendInstruction(accounts LeaseAccounts, params types.LeaseExtendParams) (solana.Instruction, error) {
	if err := checkAmount(params.LoadAmount); err != nil {
		return nil, err
	}
	return l.program.instruction("lease_extend", params, solana.AccountMetaSlice{
		solana.Meta(l.PublicKey).WRITE(),
		solana.Meta(accounts.Aggregator),
		solana.Meta(accounts.Queue),
		solana.Meta(accounts.Funder).WRITE(),
		solana.Meta(accounts.Owner).SIGNER(),
		solana.Meta(accounts.Escrow).WRITE(),
		solana.Meta(mustStateAddress(l.program)),
		solana.Meta(accounts.Mint),
		solana.Meta(solana.TokenProgramID),
	})
}

// WithdrawInstruction moves escrow funds back out to a token account owned by
// the lease withdraw authority.
func (l *LeaseAccount) WithdrawInstruction(withdrawAuthority, withdrawAccount solana.PublicKey, accounts LeaseAccounts, params types.LeaseWithdrawParams) (solana.Instruction, error) {
	if err := checkAmount(params.Amount); err != nil {
		return nil, err
	}
	return l.program.instruction("lease_withdraw", params, solana.AccountMetaSlice{
		solana.Meta(l.PublicKey).WRITE(),
		solana.Meta(accounts.Escrow).WRITE(),
		solana.Meta(accounts.Aggregator),
		solana.Meta(accounts.Queue),
		solana.Meta(withdrawAuthority).SIGNER(),
		solana.Meta(withdrawAccount).WRITE(),
		solana.Meta(mustStateAddress(l.program)),
		solana.Meta(accounts.Mint),
		solana.Meta(solana.TokenProgramID),
	})
}

// SetAuthorityInstruction transfers the withdraw authority.
func (l *LeaseAccount) SetAuthorityInstruction(withdrawAuthority, newAuthority solana.PublicKey) (solana.Instruction, error) {
	return l.program.instruction("lease_set_authority", types.LeaseSetAuthorityParams{}, solana.AccountMetaSlice{
		solana.Meta(l.PublicKey).WRITE(),
		solana.Meta(withdrawAuthority).SIGNER(),
		solana.Meta(newAuthority),
	})
}
