// Package token builds SPL token instructions for funding leases and oracle
// wallets, including wrapped SOL helpers.
package token

import (
	"context"
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/client"
)

// WrappedSolMint is the native mint, So11111111111111111111111111111111111111112.
var WrappedSolMint = solana.WrappedSol

// instruction indices of the SPL token program
// https://github.com/solana-labs/solana-program-library/blob/master/token/program/src/instruction.rs
const (
	tokenInstructionTransfer     uint8 = 3
	tokenInstructionCloseAccount uint8 = 9
	tokenInstructionSyncNative   uint8 = 17
)

// Transfer builds an SPL token transfer of amount (raw units) between token
// accounts, authorized by owner.
func Transfer(source, destination, owner solana.PublicKey, amount uint64) solana.Instruction {
	data := make([]byte, 9)
	data[0] = tokenInstructionTransfer
	binary.LittleEndian.PutUint64(data[1:], amount)

	return solana.NewInstruction(
		solana.TokenProgramID,
		solana.AccountMetaSlice{
			solana.Meta(source).WRITE(),
			solana.Meta(destination).WRITE(),
			solana.Meta(owner).SIGNER(),
		},
		data,
	)
}

// SyncNative updates a wrapped SOL token account's balance to match its
// lamports.
func SyncNative(account solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		solana.TokenProgramID,
		solana.AccountMetaSlice{
			solana.Meta(account).WRITE(),
		},
		[]byte{tokenInstructionSyncNative},
	)
}

// CloseAccount closes a token account and sends its lamports to destination.
func CloseAccount(account, destination, owner solana.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		solana.TokenProgramID,
		solana.AccountMetaSlice{
			solana.Meta(account).WRITE(),
			solana.Meta(destination).WRITE(),
			solana.Meta(owner).SIGNER(),
		},
		[]byte{tokenInstructionCloseAccount},
	)
}

// WrapSOL returns the instructions converting amount lamports from the owner
// into wrapped SOL held in the owner's native mint ATA. The ATA is created
// idempotently so repeated wraps reuse the same account.
func WrapSOL(owner solana.PublicKey, amount uint64) ([]solana.Instruction, solana.PublicKey, error) {
	createIx, ata, err := CreateAssociatedTokenAccountIdempotent(owner, owner, WrappedSolMint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	transferIx := system.NewTransferInstruction(amount, owner, ata).Build()

	return []solana.Instruction{
		createIx,
		transferIx,
		SyncNative(ata),
	}, ata, nil
}

// UnwrapSOL closes the owner's wrapped SOL ATA, returning all lamports to the
// owner.
func UnwrapSOL(owner solana.PublicKey) (solana.Instruction, error) {
	ata, err := AssociatedTokenAddress(owner, WrappedSolMint)
	if err != nil {
		return nil, err
	}
	return CloseAccount(ata, owner, owner), nil
}

// Balance fetches the token balance of a token account.
func Balance(ctx context.Context, reader client.Reader, account solana.PublicKey) (uint64, error) {
	res, err := reader.TokenBalance(ctx, account)
	if err != nil {
		return 0, fmt.Errorf("failed to get token balance for %s: %w", account, err)
	}
	if res == nil {
		return 0, fmt.Errorf("empty token balance response for %s", account)
	}

	amount, err := strconv.ParseUint(res.Amount, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse token amount %q: %w", res.Amount, err)
	}
	return amount, nil
}

// AssociatedBalance fetches the token balance of the wallet's ATA for mint.
func AssociatedBalance(ctx context.Context, reader client.Reader, wallet, mint solana.PublicKey) (uint64, error) {
	ata, err := AssociatedTokenAddress(wallet, mint)
	if err != nil {
		return 0, err
	}
	return Balance(ctx, reader, ata)
}
