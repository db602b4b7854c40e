package types

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// LeaseAccountData escrows the funds paying for an aggregator's updates on a
// queue. The account address is the PDA of ("LeaseAccountData", queue,
// aggregator).
type LeaseAccountData struct {
	// Public key of the token account holding the lease contract funds
	// until rewarded to oracles.
	Escrow solana.PublicKey
	// The queue the lease is applied to.
	Queue solana.PublicKey
	// The aggregator the lease is applied to.
	Aggregator solana.PublicKey
	// The token program of the lease escrow.
	TokenProgram solana.PublicKey
	// Whether the lease is still active.
	IsActive bool
	// Index of the aggregator's row on its crank, if any.
	CrankRowCount uint32
	// Unix timestamp the lease was created at.
	CreatedAt int64
	// Counter tracking the number of updates funded by the lease.
	UpdateCount bin.Uint128
	// The authority allowed to withdraw lease funds.
	WithdrawAuthority solana.PublicKey
	// The PDA bump to derive the pubkey.
	Bump uint8
	// Reserved.
	Ebuf [255]byte
}

type LeaseInitParams struct {
	LoadAmount        uint64
	WithdrawAuthority solana.PublicKey
	LeaseBump         uint8
	StateBump         uint8
	WalletBumps       []byte
}

type LeaseExtendParams struct {
	LoadAmount  uint64
	LeaseBump   uint8
	StateBump   uint8
	WalletBumps []byte
}

type LeaseWithdrawParams struct {
	StateBump uint8
	LeaseBump uint8
	Amount    uint64
}

type LeaseSetAuthorityParams struct{}
