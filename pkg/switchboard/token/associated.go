package token

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// instruction indices of the associated token account program
// https://github.com/solana-labs/solana-program-library/blob/master/associated-token-account/program/src/instruction.rs
const (
	ataInstructionCreate           uint8 = 0
	ataInstructionCreateIdempotent uint8 = 1
)

// AssociatedTokenAddress returns the associated token account address for a
// wallet and mint.
//
// Reference: https://spl.solana.com/associated-token-account#finding-the-associated-token-account-address
func AssociatedTokenAddress(wallet, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("failed to derive associated token address: %w", err)
	}
	return addr, nil
}

// CreateAssociatedTokenAccount builds the instruction creating the ATA for
// wallet and mint, funded by payer. Fails on-chain if the account exists.
func CreateAssociatedTokenAccount(payer, wallet, mint solana.PublicKey) (solana.Instruction, solana.PublicKey, error) {
	return createATA(payer, wallet, mint, []byte{})
}

// CreateAssociatedTokenAccountIdempotent is CreateAssociatedTokenAccount but
// succeeds if the account already exists with the expected owner.
func CreateAssociatedTokenAccountIdempotent(payer, wallet, mint solana.PublicKey) (solana.Instruction, solana.PublicKey, error) {
	return createATA(payer, wallet, mint, []byte{ataInstructionCreateIdempotent})
}

func createATA(payer, wallet, mint solana.PublicKey, data []byte) (solana.Instruction, solana.PublicKey, error) {
	addr, err := AssociatedTokenAddress(wallet, mint)
	if err != nil {
		return nil, solana.PublicKey{}, err
	}

	ix := solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		solana.AccountMetaSlice{
			solana.Meta(payer).WRITE().SIGNER(),
			solana.Meta(addr).WRITE(),
			solana.Meta(wallet),
			solana.Meta(mint),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(solana.TokenProgramID),
		},
		data,
	)
	return ix, addr, nil
}
