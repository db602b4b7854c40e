package config

import (
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
)

// Defaults match the values the hosted queues are operated with. Anything can
// be overridden through TOML.
var defaultConfigSet = configSet{
	BalancePollPeriod: 5 * time.Second,
	ConfirmPollPeriod: 500 * time.Millisecond,
	TxTimeout:         time.Minute,
	TxRetryTimeout:    10 * time.Second,
	TxConfirmTimeout:  30 * time.Second,
	SkipPreflight:     true,
	Commitment:        rpc.CommitmentConfirmed,
	MaxRetries:        new(uint), // max retries = 0 when sending, rebroadcast is handled by the txm

	FeeEstimatorMode:        "fixed",
	ComputeUnitPriceMax:     1_000,
	ComputeUnitPriceMin:     0,
	ComputeUnitPriceDefault: 0,
	FeeBumpPeriod:           3 * time.Second,
	BlockHistoryPollPeriod:  5 * time.Second,
	BlockHistorySize:        1,
	ComputeUnitLimitDefault: 200_000,
}

type configSet struct {
	BalancePollPeriod time.Duration
	ConfirmPollPeriod time.Duration

	TxTimeout        time.Duration
	TxRetryTimeout   time.Duration
	TxConfirmTimeout time.Duration
	SkipPreflight    bool
	Commitment       rpc.CommitmentType
	MaxRetries       *uint

	FeeEstimatorMode        string
	ComputeUnitPriceMax     uint64
	ComputeUnitPriceMin     uint64
	ComputeUnitPriceDefault uint64
	FeeBumpPeriod           time.Duration
	BlockHistoryPollPeriod  time.Duration
	BlockHistorySize        uint64
	ComputeUnitLimitDefault uint32
}

// Config is the getter interface consumed by the client, txm and fee
// estimators.
type Config interface {
	BalancePollPeriod() time.Duration
	ConfirmPollPeriod() time.Duration

	TxTimeout() time.Duration
	TxRetryTimeout() time.Duration
	TxConfirmTimeout() time.Duration
	SkipPreflight() bool
	Commitment() rpc.CommitmentType
	MaxRetries() *uint

	FeeEstimatorMode() string
	ComputeUnitPriceMax() uint64
	ComputeUnitPriceMin() uint64
	ComputeUnitPriceDefault() uint64
	FeeBumpPeriod() time.Duration
	BlockHistoryPollPeriod() time.Duration
	BlockHistorySize() uint64
	ComputeUnitLimitDefault() uint32
}

var validCommitments = map[rpc.CommitmentType]struct{}{
	rpc.CommitmentProcessed: {},
	rpc.CommitmentConfirmed: {},
	rpc.CommitmentFinalized: {},
}

func validateCommitment(c rpc.CommitmentType) error {
	if _, ok := validCommitments[c]; !ok {
		return fmt.Errorf("invalid commitment type: %s", c)
	}
	return nil
}
