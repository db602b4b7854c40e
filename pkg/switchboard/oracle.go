package switchboard

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/types"
)

const oracleAccountName = "OracleAccountData"

// OracleAccount wraps an oracle registered to a queue.
type OracleAccount struct {
	program   *Program
	PublicKey solana.PublicKey
}

func NewOracleAccount(program *Program, pubkey solana.PublicKey) *OracleAccount {
	return &OracleAccount{program: program, PublicKey: pubkey}
}

// DeriveOracleAccount resolves the oracle PDA for a queue and token wallet.
func DeriveOracleAccount(program *Program, queue, wallet solana.PublicKey) (*OracleAccount, uint8, error) {
	addr, bump, err := OracleAddress(program.ID, queue, wallet)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to derive oracle address: %w", err)
	}
	return NewOracleAccount(program, addr), bump, nil
}

// LoadData fetches and decodes the oracle account.
func (o *OracleAccount) LoadData(ctx context.Context) (*types.OracleAccountData, error) {
	return loadAccount[types.OracleAccountData](ctx, o.program, o.PublicKey, oracleAccountName)
}

// OnChange streams decoded oracle updates until cancel is called or ctx ends.
func (o *OracleAccount) OnChange(ctx context.Context, handler func(*types.OracleAccountData, uint64)) (func(), error) {
	return watchAccount[types.OracleAccountData](ctx, o.program, o.PublicKey, oracleAccountName, handler)
}

// IsActive reports whether the oracle heartbeated within the queue timeout.
func (o *OracleAccount) IsActive(ctx context.Context, oracleTimeout time.Duration) (bool, error) {
	data, err := o.LoadData(ctx)
	if err != nil {
		return false, err
	}
	last := time.Unix(data.LastHeartbeat, 0)
	return time.Since(last) <= oracleTimeout, nil
}

// InitInstruction creates the oracle PDA for a queue and token wallet.
func (o *OracleAccount) InitInstruction(payer, oracleAuthority, wallet, queue solana.PublicKey, name, metadata string, stateBump, oracleBump uint8) (solana.Instruction, error) {
	if err := checkFieldLen("name", []byte(name), 32); err != nil {
		return nil, err
	}
	if err := checkFieldLen("metadata", []byte(metadata), 128); err != nil {
		return nil, err
	}
	return o.program.instruction("oracle_init", types.OracleInitParams{
		Name:       []byte(name),
		Metadata:   []byte(metadata),
		StateBump:  stateBump,
		OracleBump: oracleBump,
	}, solana.AccountMetaSlice{
		solana.Meta(o.PublicKey).WRITE(),
		solana.Meta(oracleAuthority),
		solana.Meta(wallet),
		solana.Meta(mustStateAddress(o.program)),
		solana.Meta(queue),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	})
}

// HeartbeatInstruction keeps the oracle active on its queue. gcOracle is the
// oracle at the queue's garbage collection index, which a heartbeat may evict.
func (o *OracleAccount) HeartbeatInstruction(oracleAuthority, tokenAccount, gcOracle, queue, permission, dataBuffer solana.PublicKey, permissionBump uint8) (solana.Instruction, error) {
	return o.program.instruction("oracle_heartbeat", types.OracleHeartbeatParams{
		PermissionBump: permissionBump,
	}, solana.AccountMetaSlice{
		solana.Meta(o.PublicKey).WRITE(),
		solana.Meta(oracleAuthority).SIGNER(),
		solana.Meta(tokenAccount),
		solana.Meta(gcOracle).WRITE(),
		solana.Meta(queue).WRITE(),
		solana.Meta(permission),
		solana.Meta(dataBuffer).WRITE(),
	})
}

// WithdrawInstruction moves staked tokens out of the oracle wallet.
func (o *OracleAccount) WithdrawInstruction(oracleAuthority, tokenAccount, withdrawAccount, queue, permission solana.PublicKey, stateBump, permissionBump uint8, amount uint64) (solana.Instruction, error) {
	if err := checkAmount(amount); err != nil {
		return nil, err
	}
	return o.program.instruction("oracle_withdraw", types.OracleWithdrawParams{
		StateBump:      stateBump,
		PermissionBump: permissionBump,
		Amount:         amount,
	}, solana.AccountMetaSlice{
		solana.Meta(o.PublicKey).WRITE(),
		solana.Meta(oracleAuthority).SIGNER(),
		solana.Meta(tokenAccount).WRITE(),
		solana.Meta(withdrawAccount).WRITE(),
		solana.Meta(queue).WRITE(),
		solana.Meta(permission).WRITE(),
		solana.Meta(mustStateAddress(o.program)),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(solana.SystemProgramID),
	})
}

// mustStateAddress derives the state PDA, which cannot fail for a valid
// program id.
func mustStateAddress(p *Program) solana.PublicKey {
	addr, _, err := StateAddress(p.ID)
	if err != nil {
		panic(fmt.Sprintf("failed to derive state address for %s: %v", p.ID, err))
	}
	return addr
}
