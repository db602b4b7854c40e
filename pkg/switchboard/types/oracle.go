package types

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// OracleMetrics tracks an oracle's response history on its queue.
type OracleMetrics struct {
	// Number of consecutive successful update requests.
	ConsecutiveSuccess uint64
	// Number of consecutive update requests that resulted in an error.
	ConsecutiveError uint64
	// Number of consecutive update requests that resulted in a disagreement
	// with the accepted median result.
	ConsecutiveDisagreement uint64
	// Number of consecutive update requests that were posted late.
	ConsecutiveLateResponse uint64
	// Number of consecutive update requests that resulted in a failure.
	ConsecutiveFailure uint64
	TotalSuccess       bin.Uint128
	TotalError         bin.Uint128
	TotalDisagreement  bin.Uint128
	TotalLateResponse  bin.Uint128
}

// OracleAccountData is an oracle registered to a queue. The account address
// is the PDA of ("OracleAccountData", queue, token wallet).
type OracleAccountData struct {
	// Name of the oracle to store on-chain.
	Name [32]byte
	// Metadata of the oracle to store on-chain.
	Metadata [128]byte
	// The account delegated as the authority for making account changes or
	// withdrawing funds from a staking wallet.
	OracleAuthority solana.PublicKey
	// Unix timestamp when the oracle last heartbeated.
	LastHeartbeat int64
	// Flag dictating if an oracle is active and has heartbeated before the
	// queue's oracle timeout parameter.
	NumInUse uint32
	// Stake account and reward/slashing wallet.
	TokenAccount solana.PublicKey
	// The queue the oracle is heartbeating on.
	QueuePubkey solana.PublicKey
	// Oracle response metrics.
	Metrics OracleMetrics
	// The PDA bump to derive the pubkey.
	Bump uint8
	// Reserved.
	Ebuf [255]byte
}

type OracleInitParams struct {
	Name       []byte
	Metadata   []byte
	StateBump  uint8
	OracleBump uint8
}

type OracleHeartbeatParams struct {
	PermissionBump uint8
}

type OracleWithdrawParams struct {
	StateBump      uint8
	PermissionBump uint8
	Amount         uint64
}

type OracleQueueSetRewardsParams struct {
	Rewards uint64
}
