package switchboard

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/types"
)

const stateAccountName = "SbState"

// ProgramStateAccount wraps the program-wide state singleton.
type ProgramStateAccount struct {
	program   *Program
	PublicKey solana.PublicKey
	Bump      uint8
}

// LoadData fetches and decodes the state account.
func (s *ProgramStateAccount) LoadData(ctx context.Context) (*types.SbState, error) {
	return loadAccount[types.SbState](ctx, s.program, s.PublicKey, stateAccountName)
}

// TokenMint returns the program token mint.
func (s *ProgramStateAccount) TokenMint(ctx context.Context) (solana.PublicKey, error) {
	state, err := s.LoadData(ctx)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return state.TokenMint, nil
}

// OnChange streams decoded state updates until cancel is called or ctx ends.
func (s *ProgramStateAccount) OnChange(ctx context.Context, handler func(*types.SbState, uint64)) (func(), error) {
	return watchAccount[types.SbState](ctx, s.program, s.PublicKey, stateAccountName, handler)
}

// InitInstruction creates the program state PDA and its token vault.
func (s *ProgramStateAccount) InitInstruction(payer, authority, tokenMint, vault, daoMint solana.PublicKey) (solana.Instruction, error) {
	return s.program.instruction("program_init", types.ProgramInitParams{
		StateBump: s.Bump,
	}, solana.AccountMetaSlice{
		solana.Meta(s.PublicKey).WRITE(),
		solana.Meta(authority),
		solana.Meta(tokenMint).WRITE(),
		solana.Meta(vault).WRITE(),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(daoMint),
	})
}

// SetConfigInstruction updates the program state token mint and DAO mint.
func (s *ProgramStateAccount) SetConfigInstruction(authority solana.PublicKey, params types.ProgramConfigParams) (solana.Instruction, error) {
	return s.program.instruction("program_config", params, solana.AccountMetaSlice{
		solana.Meta(authority).SIGNER(),
		solana.Meta(s.PublicKey).WRITE(),
		solana.Meta(params.DaoMint),
	})
}

// VaultTransferInstruction moves amount out of the program vault to a token
// account.
func (s *ProgramStateAccount) VaultTransferInstruction(authority, to, vault solana.PublicKey, amount uint64) (solana.Instruction, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	return s.program.instruction("vault_transfer", types.VaultTransferParams{
		StateBump: s.Bump,
		Amount:    amount,
	}, solana.AccountMetaSlice{
		solana.Meta(s.PublicKey),
		solana.Meta(authority).SIGNER(),
		solana.Meta(to).WRITE(),
		solana.Meta(vault).WRITE(),
		solana.Meta(solana.TokenProgramID),
	})
}
