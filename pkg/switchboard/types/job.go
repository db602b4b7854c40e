package types

import (
	"github.com/gagliardetto/solana-go"
)

// JobAccountData stores a serialized task definition that oracles execute to
// produce a feed result. The definition blob is immutable once the account
// finishes initializing.
type JobAccountData struct {
	// Name of the job to store on-chain.
	Name [32]byte
	// Metadata of the job to store on-chain.
	Metadata [64]byte
	// The account delegated as the authority for making account changes.
	Authority solana.PublicKey
	// Unix timestamp after which the job is invalid.
	Expiration int64
	// Hash of the serialized definition data.
	Hash [32]byte
	// Serialized task definition.
	Data []byte
	// Number of aggregators referencing the job.
	ReferenceCount uint32
	// Token spent on the job in feed payouts.
	TotalSpent uint64
	// Unix timestamp the job was created at.
	CreatedAt int64
	// Non-zero while the definition is still being written in chunks.
	IsInitializing uint8
}

// JobInitChunkSize is the largest definition slice an init or set-data
// instruction can carry and still fit a transaction.
const JobInitChunkSize = 800

type JobInitParams struct {
	Name       [32]byte
	Expiration int64
	StateBump  uint8
	Data       []byte
	Size       *uint32 `bin:"optional"`
}

type JobSetDataParams struct {
	Data  []byte
	Chunk uint8
}
