package types

import (
	"github.com/gagliardetto/solana-go"
)

// SbState is the program-wide singleton holding the token mint and vault
// used for oracle rewards and staking.
type SbState struct {
	// The account authority permitted to make account changes.
	Authority solana.PublicKey
	// The token mint used for oracle rewards, aggregator leases, and other
	// program token balances.
	TokenMint solana.PublicKey
	// Token vault used by the program to receive kept fees.
	TokenVault solana.PublicKey
	// The token mint used by the DAO.
	DaoMint solana.PublicKey
	// The PDA bump to derive the pubkey.
	Bump uint8
	// Reserved.
	Ebuf [990]byte
}

type ProgramInitParams struct {
	StateBump uint8
}

type ProgramConfigParams struct {
	Token   solana.PublicKey
	Bump    uint8
	DaoMint solana.PublicKey
}

type VaultTransferParams struct {
	StateBump uint8
	Amount    uint64
}
