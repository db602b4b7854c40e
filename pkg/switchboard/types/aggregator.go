package types

import (
	"bytes"

	"github.com/gagliardetto/solana-go"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/codec"
)

// MaxOracleResults is the maximum batch size of an aggregator round.
const MaxOracleResults = 16

// Hash is a sha256 digest stored on-chain.
type Hash struct {
	Data [32]byte
}

// AggregatorRound holds the state of a single update round.
type AggregatorRound struct {
	// Number of successful responses received for the round.
	NumSuccess uint32
	// Number of error responses received for the round.
	NumError uint32
	// Whether the round is closed.
	IsClosed bool
	// The slot the round was opened at.
	RoundOpenSlot uint64
	// Unix timestamp the round was opened at.
	RoundOpenTimestamp int64
	// The accepted median of the round responses.
	Result codec.SwitchboardDecimal
	// Standard deviation of the accepted results.
	StdDeviation codec.SwitchboardDecimal
	// The minimum response of the round.
	MinResponse codec.SwitchboardDecimal
	// The maximum response of the round.
	MaxResponse codec.SwitchboardDecimal
	// Oracles fulfilling the round.
	OraclePubkeysData [MaxOracleResults]solana.PublicKey
	// Individual oracle responses.
	MediansData [MaxOracleResults]codec.SwitchboardDecimal
	// Payouts or slashes applied per oracle.
	CurrentPayout [MaxOracleResults]int64
	// Whether each oracle's median response was accepted.
	MediansFulfilled [MaxOracleResults]bool
	// Whether each oracle responded with an error.
	ErrorsFulfilled [MaxOracleResults]bool
}

// AggregatorAccountData is a data feed: an ordered job set, update cadence
// configuration and the latest accepted result.
type AggregatorAccountData struct {
	// Name of the aggregator to store on-chain.
	Name [32]byte
	// Metadata of the aggregator to store on-chain.
	Metadata [128]byte
	// Reserved.
	Reserved1 [32]byte
	// The queue the aggregator is assigned to.
	QueuePubkey solana.PublicKey
	// Number of oracles assigned to an update request.
	OracleRequestBatchSize uint32
	// Minimum number of oracle responses required before a round is
	// validated.
	MinOracleResults uint32
	// Minimum number of job results before an oracle accepts a result.
	MinJobResults uint32
	// Minimum number of seconds required between aggregator rounds.
	MinUpdateDelaySeconds uint32
	// Unix timestamp for which no feed update will occur before.
	StartAfter int64
	// Change percentage required between a previous round and the current
	// round. If variance percentage is not met, reject new oracle
	// responses.
	VarianceThreshold codec.SwitchboardDecimal
	// Number of seconds for which, even if the variance threshold is not
	// passed, accept new responses from oracles.
	ForceReportPeriod int64
	// Unix timestamp after which the feed is no longer updated.
	Expiration int64
	// Count of consecutive failed update rounds.
	ConsecutiveFailureCount uint64
	// Unix timestamp when the next update request is allowed.
	NextAllowedUpdateTime int64
	// Whether the feed config is locked from further changes.
	IsLocked bool
	// Optional crank the aggregator is attached to.
	CrankPubkey solana.PublicKey
	// The latest confirmed round.
	LatestConfirmedRound AggregatorRound
	// The current open round.
	CurrentRound AggregatorRound
	// Job accounts the feed resolves from.
	JobPubkeysData [MaxOracleResults]solana.PublicKey
	// Hash of the job definitions.
	JobHashes [MaxOracleResults]Hash
	// Number of job accounts in use.
	JobPubkeysSize uint32
	// Checksum across all job hashes, verified by oracles before
	// responding.
	JobsChecksum [32]byte
	// The account delegated as the authority for making account changes.
	Authority solana.PublicKey
	// Optional history buffer account storing confirmed results.
	HistoryBuffer solana.PublicKey
	// The previous confirmed round result.
	PreviousConfirmedRoundResult codec.SwitchboardDecimal
	// The slot the previous confirmed round was opened at.
	PreviousConfirmedRoundSlot uint64
	// Whether the aggregator is removed from the crank after each round.
	DisableCrank bool
	// Job weights used for the weighted median of job results.
	JobWeights [MaxOracleResults]uint8
	// Unix timestamp the aggregator was created at.
	CreationTimestamp int64
	// Reserved.
	Ebuf [138]byte
}

// LatestValue returns the latest confirmed round result, or ok=false when
// the feed has not yet resolved a round with enough oracle responses.
func (a *AggregatorAccountData) LatestValue() (codec.SwitchboardDecimal, bool) {
	if a.LatestConfirmedRound.RoundOpenSlot == 0 ||
		a.LatestConfirmedRound.NumSuccess < a.MinOracleResults {
		return codec.SwitchboardDecimal{}, false
	}
	return a.LatestConfirmedRound.Result, true
}

// HasJob reports whether the feed references the given job account.
func (a *AggregatorAccountData) HasJob(job solana.PublicKey) bool {
	for i := uint32(0); i < a.JobPubkeysSize && i < MaxOracleResults; i++ {
		if a.JobPubkeysData[i].Equals(job) {
			return true
		}
	}
	return false
}

// DisplayName trims the zero padding off the on-chain name field.
func DisplayName(raw []byte) string {
	return string(bytes.TrimRight(raw, "\x00"))
}

type AggregatorInitParams struct {
	Name                  [32]byte
	Metadata              [128]byte
	BatchSize             uint32
	MinOracleResults      uint32
	MinJobResults         uint32
	MinUpdateDelaySeconds uint32
	StartAfter            int64
	VarianceThreshold     codec.SwitchboardDecimal
	ForceReportPeriod     int64
	Expiration            int64
	StateBump             uint8
	DisableCrank          bool
}

type AggregatorAddJobParams struct {
	Weight *uint8 `bin:"optional"`
}

type AggregatorRemoveJobParams struct {
	JobIdx uint32
}

type AggregatorSetConfigParams struct {
	Name                     *[32]byte                 `bin:"optional"`
	Metadata                 *[128]byte                `bin:"optional"`
	MinUpdateDelaySeconds    *uint32                   `bin:"optional"`
	MinJobResults            *uint32                   `bin:"optional"`
	BatchSize                *uint32                   `bin:"optional"`
	MinOracleResults         *uint32                   `bin:"optional"`
	ForceReportPeriod        *int64                    `bin:"optional"`
	VarianceThreshold        *codec.SwitchboardDecimal `bin:"optional"`
	BasePriorityFee          *uint32                   `bin:"optional"`
	PriorityFeeBump          *uint32                   `bin:"optional"`
	PriorityFeeBumpPeriod    *uint32                   `bin:"optional"`
	MaxPriorityFeeMultiplier *uint32                   `bin:"optional"`
}

type AggregatorSetAuthorityParams struct{}

type AggregatorOpenRoundParams struct {
	StateBump      uint8
	LeaseBump      uint8
	PermissionBump uint8
	Jitter         uint8
}
