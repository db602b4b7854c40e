package types

import (
	"github.com/gagliardetto/solana-go"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/codec"
)

// OracleQueueAccountData is a round-robin queue of oracles that feeds,
// cranks, and VRF accounts are assigned to.
type OracleQueueAccountData struct {
	// Name of the queue to store on-chain.
	Name [32]byte
	// Metadata of the queue to store on-chain.
	Metadata [64]byte
	// The account delegated as the authority for making account changes or
	// assigning permissions targeted at the queue.
	Authority solana.PublicKey
	// Interval when stale oracles will be removed if they fail to heartbeat.
	OracleTimeout uint32
	// Rewards to provide oracles and round openers on this queue, in
	// lamports of the queue mint.
	Reward uint64
	// The minimum amount of stake oracles must present to remain on the
	// queue.
	MinStake uint64
	// Whether slashing is enabled on this queue.
	SlashingEnabled bool
	// The tolerated variance amount an oracle response may have from the
	// accepted round result before slashing.
	VarianceToleranceMultiplier codec.SwitchboardDecimal
	// Number of update rounds new feeds are on probation for.
	FeedProbationPeriod uint32
	// Current index of the oracle rotation.
	CurrIdx uint32
	// Current number of oracles on the queue.
	Size uint32
	// Garbage collection index.
	GcIdx uint32
	// Consecutive failure limit for a feed before the feed is removed from
	// a queue. 0 = no limit.
	ConsecutiveFeedFailureLimit uint64
	// Consecutive failure limit for an oracle before the oracle is removed
	// from a queue. 0 = no limit.
	ConsecutiveOracleFailureLimit uint64
	// Whether feeds are permitted to join the queue without a
	// PERMIT_ORACLE_QUEUE_USAGE permission.
	UnpermissionedFeedsEnabled bool
	// Whether VRF accounts are permitted to request randomness without a
	// PERMIT_VRF_REQUESTS permission.
	UnpermissionedVrfEnabled bool
	// Reward cut taken by the queue curator.
	CuratorRewardCut codec.SwitchboardDecimal
	// When enabled, the lease funder must sign lease modifications.
	LockLeaseFunding bool
	// The token mint used by the queue for rewards and stake.
	Mint solana.PublicKey
	// Whether buffer relayer accounts may use the queue.
	EnableBufferRelayers bool
	// Reserved.
	Ebuf [968]byte
	// Maximum number of oracles the queue can support.
	MaxSize uint32
	// The dynamic buffer account holding the queue's oracle pubkeys.
	DataBuffer solana.PublicKey
}

type QueueInitParams struct {
	Name                          [32]byte
	Metadata                      [64]byte
	Reward                        uint64
	MinStake                      uint64
	FeedProbationPeriod           uint32
	OracleTimeout                 uint32
	SlashingEnabled               bool
	VarianceToleranceMultiplier   codec.SwitchboardDecimal
	ConsecutiveFeedFailureLimit   uint64
	ConsecutiveOracleFailureLimit uint64
	QueueSize                     uint32
	UnpermissionedFeeds           bool
	UnpermissionedVrf             bool
	EnableBufferRelayers          bool
}

type QueueSetConfigParams struct {
	Name                          *[32]byte `bin:"optional"`
	Metadata                      *[64]byte `bin:"optional"`
	UnpermissionedFeedsEnabled    *bool     `bin:"optional"`
	UnpermissionedVrfEnabled      *bool     `bin:"optional"`
	EnableBufferRelayers          *bool     `bin:"optional"`
	SlashingEnabled               *bool     `bin:"optional"`
	Reward                        *uint64   `bin:"optional"`
	MinStake                      *uint64   `bin:"optional"`
	OracleTimeout                 *uint32   `bin:"optional"`
	ConsecutiveFeedFailureLimit   *uint64   `bin:"optional"`
	ConsecutiveOracleFailureLimit *uint64   `bin:"optional"`
}
