package switchboard

import (
	"context"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/types"
)

const crankAccountName = "CrankAccountData"

// CrankAccount wraps an update scheduler for a queue's feeds.
type CrankAccount struct {
	program   *Program
	PublicKey solana.PublicKey
}

func NewCrankAccount(program *Program, pubkey solana.PublicKey) *CrankAccount {
	return &CrankAccount{program: program, PublicKey: pubkey}
}

// LoadData fetches and decodes the crank account.
func (c *CrankAccount) LoadData(ctx context.Context) (*types.CrankAccountData, error) {
	return loadAccount[types.CrankAccountData](ctx, c.program, c.PublicKey, crankAccountName)
}

// OnChange streams decoded crank updates until cancel is called or ctx ends.
func (c *CrankAccount) OnChange(ctx context.Context, handler func(*types.CrankAccountData, uint64)) (func(), error) {
	return watchAccount[types.CrankAccountData](ctx, c.program, c.PublicKey, crankAccountName, handler)
}

// LoadRows returns the crank's priority-queue rows from its data buffer.
func (c *CrankAccount) LoadRows(ctx context.Context) ([]types.CrankRow, error) {
	crank, err := c.LoadData(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := c.program.fetchAccountData(ctx, crank.DataBuffer, c.program.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load crank buffer: %w", err)
	}

	// buffer layout: 8 byte discriminator then packed borsh rows, crank.PqSize
	// of which are in use
	const headerLen = 8
	const rowLen = solana.PublicKeyLength + 8
	rows := make([]types.CrankRow, 0, crank.PqSize)
	for i := uint32(0); i < crank.PqSize; i++ {
		start := headerLen + int(i)*rowLen
		end := start + rowLen
		if end > len(raw) {
			return nil, fmt.Errorf("crank buffer truncated: want %d bytes have %d", end, len(raw))
		}
		var row types.CrankRow
		if err := bin.NewBorshDecoder(raw[start:end]).Decode(&row); err != nil {
			return nil, fmt.Errorf("failed to decode crank row %d: %w", i, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// InitInstruction creates the crank and binds its row data buffer.
func (c *CrankAccount) InitInstruction(payer, queue, buffer solana.PublicKey, name, metadata string, maxRows uint32) (solana.Instruction, error) {
	if err := checkFieldLen("name", []byte(name), 32); err != nil {
		return nil, err
	}
	if err := checkFieldLen("metadata", []byte(metadata), 64); err != nil {
		return nil, err
	}
	return c.program.instruction("crank_init", types.CrankInitParams{
		Name:      []byte(name),
		Metadata:  []byte(metadata),
		CrankSize: maxRows,
	}, solana.AccountMetaSlice{
		solana.Meta(c.PublicKey).WRITE().SIGNER(),
		solana.Meta(queue),
		solana.Meta(buffer).WRITE(),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	})
}

// PushAccounts collects the accounts a crank push touches.
type PushAccounts struct {
	Aggregator     solana.PublicKey
	Queue          solana.PublicKey
	QueueAuthority solana.PublicKey
	Permission     solana.PublicKey
	Lease          solana.PublicKey
	Escrow         solana.PublicKey
	DataBuffer     solana.PublicKey
}

// PushInstruction adds an aggregator to the crank.
func (c *CrankAccount) PushInstruction(accounts PushAccounts, stateBump, permissionBump uint8) (solana.Instruction, error) {
	return c.program.instruction("crank_push", types.CrankPushParams{
		StateBump:      stateBump,
		PermissionBump: permissionBump,
	}, solana.AccountMetaSlice{
		solana.Meta(c.PublicKey).WRITE(),
		solana.Meta(accounts.Aggregator).WRITE(),
		solana.Meta(accounts.Queue).WRITE(),
		solana.Meta(accounts.QueueAuthority),
		solana.Meta(accounts.Permission),
		solana.Meta(accounts.Lease).WRITE(),
		solana.Meta(accounts.Escrow).WRITE(),
		solana.Meta(mustStateAddress(c.program)),
		solana.Meta(accounts.DataBuffer).WRITE(),
	})
}

// PopAccounts collects the accounts a crank pop touches.
type PopAccounts struct {
	Queue           solana.PublicKey
	QueueAuthority  solana.PublicKey
	PayoutWallet    solana.PublicKey
	CrankDataBuffer solana.PublicKey
	QueueDataBuffer solana.PublicKey
	Mint            solana.PublicKey
}

// PopInstruction pops the most overdue aggregator off the crank, opening its
// next round. The popper's payout wallet receives the crank reward.
func (c *CrankAccount) PopInstruction(accounts PopAccounts, params types.CrankPopParams) (solana.Instruction, error) {
	return c.program.instruction("crank_pop", params, solana.AccountMetaSlice{
		solana.Meta(c.PublicKey).WRITE(),
		solana.Meta(accounts.Queue).WRITE(),
		solana.Meta(accounts.QueueAuthority),
		solana.Meta(mustStateAddress(c.program)),
		solana.Meta(accounts.PayoutWallet).WRITE(),
		solana.Meta(solana.TokenProgramID),
		solana.Meta(accounts.CrankDataBuffer).WRITE(),
		solana.Meta(accounts.QueueDataBuffer).WRITE(),
		solana.Meta(accounts.Mint),
	})
}
