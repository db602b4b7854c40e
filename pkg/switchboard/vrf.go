package switchboard

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/types"
)

const vrfAccountName = "VrfAccountData"

// VrfAccount wraps a verifiable randomness account.
type VrfAccount struct {
	program   *Program
	PublicKey solana.PublicKey
}

func NewVrfAccount(program *Program, pubkey solana.PublicKey) *VrfAccount {
	return &VrfAccount{program: program, PublicKey: pubkey}
}

// LoadData fetches and decodes the VRF account.
func (v *VrfAccount) LoadData(ctx context.Context) (*types.VrfAccountData, error) {
	return loadAccount[types.VrfAccountData](ctx, v.program, v.PublicKey, vrfAccountName)
}

// OnChange streams decoded VRF updates until cancel is called or ctx ends.
func (v *VrfAccount) OnChange(ctx context.Context, handler func(*types.VrfAccountData, uint64)) (func(), error) {
	return watchAccount[types.VrfAccountData](ctx, v.program, v.PublicKey, vrfAccountName, handler)
}

// InitInstruction creates the VRF account with its verified-result callback.
func (v *VrfAccount) InitInstruction(authority, queue, escrow solana.PublicKey, callback types.VrfCallback, stateBump uint8) (solana.Instruction, error) {
	return v.program.instruction("vrf_init", types.VrfInitParams{
		Callback:  callback,
		StateBump: stateBump,
	}, solana.AccountMetaSlice{
		solana.Meta(v.PublicKey).WRITE(),
		solana.Meta(authority),
		solana.Meta(queue),
		solana.Meta(escrow).WRITE(),
		solana.Meta(mustStateAddress(v.program)),
		solana.Meta(solana.TokenProgramID),
	})
}

// RequestRandomnessAccounts collects the accounts a randomness request
// touches.
type RequestRandomnessAccounts struct {
	Authority      solana.PublicKey
	Queue          solana.PublicKey
	QueueAuthority solana.PublicKey
	QueueBuffer    solana.PublicKey
	Permission     solana.PublicKey
	Escrow         solana.PublicKey
	PayerWallet    solana.PublicKey
	PayerAuthority solana.PublicKey
}

// RequestRandomnessInstruction asks the queue's oracles for a new randomness
// round.
func (v *VrfAccount) RequestRandomnessInstruction(accounts RequestRandomnessAccounts, permissionBump, stateBump uint8) (solana.Instruction, error) {
	return v.program.instruction("vrf_request_randomness", types.VrfRequestRandomnessParams{
		PermissionBump: permissionBump,
		StateBump:      stateBump,
	}, solana.AccountMetaSlice{
		solana.Meta(accounts.Authority).SIGNER(),
		solana.Meta(v.PublicKey).WRITE(),
		solana.Meta(accounts.Queue).WRITE(),
		solana.Meta(accounts.QueueAuthority),
		solana.Meta(accounts.QueueBuffer),
		solana.Meta(accounts.Permission).WRITE(),
		solana.Meta(accounts.Escrow).WRITE(),
		solana.Meta(accounts.PayerWallet).WRITE(),
		solana.Meta(accounts.PayerAuthority).SIGNER(),
		solana.Meta(solana.SysVarRecentBlockHashesPubkey),
		solana.Meta(mustStateAddress(v.program)),
		solana.Meta(solana.TokenProgramID),
	})
}

// SetCallbackInstruction replaces the callback invoked on verified results.
func (v *VrfAccount) SetCallbackInstruction(authority solana.PublicKey, callback types.VrfCallback) (solana.Instruction, error) {
	return v.program.instruction("vrf_set_callback", types.VrfSetCallbackParams{
		Callback: callback,
	}, solana.AccountMetaSlice{
		solana.Meta(v.PublicKey).WRITE(),
		solana.Meta(authority).SIGNER(),
	})
}
