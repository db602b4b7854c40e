package switchboard

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/types"
)

const permissionAccountName = "PermissionAccountData"

// PermissionAccount wraps a permission grant between a queue authority and a
// grantee account.
type PermissionAccount struct {
	program   *Program
	PublicKey solana.PublicKey
}

func NewPermissionAccount(program *Program, pubkey solana.PublicKey) *PermissionAccount {
	return &PermissionAccount{program: program, PublicKey: pubkey}
}

// DerivePermissionAccount resolves the permission PDA for an authority,
// granter and grantee.
func DerivePermissionAccount(program *Program, authority, granter, grantee solana.PublicKey) (*PermissionAccount, uint8, error) {
	addr, bump, err := PermissionAddress(program.ID, authority, granter, grantee)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to derive permission address: %w", err)
	}
	return NewPermissionAccount(program, addr), bump, nil
}

// LoadData fetches and decodes the permission account.
func (p *PermissionAccount) LoadData(ctx context.Context) (*types.PermissionAccountData, error) {
	return loadAccount[types.PermissionAccountData](ctx, p.program, p.PublicKey, permissionAccountName)
}

// OnChange streams decoded permission updates until cancel is called or ctx
// ends.
func (p *PermissionAccount) OnChange(ctx context.Context, handler func(*types.PermissionAccountData, uint64)) (func(), error) {
	return watchAccount[types.PermissionAccountData](ctx, p.program, p.PublicKey, permissionAccountName, handler)
}

// InitInstruction creates the permission PDA.
func (p *PermissionAccount) InitInstruction(payer, authority, granter, grantee solana.PublicKey, permissionBump uint8) (solana.Instruction, error) {
	return p.program.instruction("permission_init", types.PermissionInitParams{
		PermissionBump: permissionBump,
	}, solana.AccountMetaSlice{
		solana.Meta(p.PublicKey).WRITE(),
		solana.Meta(authority),
		solana.Meta(granter),
		solana.Meta(grantee),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	})
}

// SetInstruction enables or disables a permission flag. The authority must be
// the permission authority (typically the queue authority).
func (p *PermissionAccount) SetInstruction(authority solana.PublicKey, flag types.SwitchboardPermission, enable bool) (solana.Instruction, error) {
	return p.program.instruction("permission_set", types.PermissionSetParams{
		Permission: uint32(flag),
		Enable:     enable,
	}, solana.AccountMetaSlice{
		solana.Meta(p.PublicKey).WRITE(),
		solana.Meta(authority).SIGNER(),
	})
}
