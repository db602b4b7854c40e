package types

import (
	"github.com/gagliardetto/solana-go"
)

// CrankRow is a single priority-queue entry in a crank's data buffer.
type CrankRow struct {
	// The aggregator assigned to the crank row.
	Pubkey solana.PublicKey
	// The next timestamp the aggregator is eligible for an update.
	NextTimestamp int64
}

// CrankAccountData is a scheduler that pops aggregators for updates when
// their next allowed update time passes. Rows are stored in a separate
// dynamic data buffer account.
type CrankAccountData struct {
	// Name of the crank to store on-chain.
	Name [32]byte
	// Metadata of the crank to store on-chain.
	Metadata [64]byte
	// The queue the crank is assigned to.
	QueuePubkey solana.PublicKey
	// Number of aggregators currently on the crank.
	PqSize uint32
	// Maximum number of aggregators the crank can support.
	MaxRows uint32
	// Pseudorandom jitter added to next update times to spread load.
	JitterModifier uint8
	// Reserved.
	Ebuf [255]byte
	// The dynamic buffer account holding the crank rows.
	DataBuffer solana.PublicKey
}

type CrankInitParams struct {
	Name      []byte
	Metadata  []byte
	CrankSize uint32
}

type CrankPushParams struct {
	StateBump      uint8
	PermissionBump uint8
}

type CrankPopParams struct {
	StateBump                 uint8
	LeaseBumps                []byte
	PermissionBumps           []byte
	Nonce                     *uint32 `bin:"optional"`
	FailOpenOnAccountMismatch *bool   `bin:"optional"`
}
