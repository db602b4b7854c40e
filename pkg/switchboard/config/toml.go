package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pelletier/go-toml/v2"
)

// Duration wraps time.Duration so it round-trips through TOML as a string
// like "30s".
type Duration struct {
	d time.Duration
}

func MustNewDuration(d time.Duration) *Duration {
	return &Duration{d: d}
}

func (d Duration) Duration() time.Duration {
	return d.d
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.d.String()), nil
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.d = v
	return nil
}

// Chain holds the tunable knobs for a single Switchboard deployment. All
// fields are pointers so that TOML overlays only replace what they set.
type Chain struct {
	BalancePollPeriod *Duration
	ConfirmPollPeriod *Duration

	TxTimeout        *Duration
	TxRetryTimeout   *Duration
	TxConfirmTimeout *Duration
	SkipPreflight    *bool
	Commitment       *string
	MaxRetries       *int64

	FeeEstimatorMode        *string
	ComputeUnitPriceMax     *uint64
	ComputeUnitPriceMin     *uint64
	ComputeUnitPriceDefault *uint64
	FeeBumpPeriod           *Duration
	BlockHistoryPollPeriod  *Duration
	BlockHistorySize        *uint64
	ComputeUnitLimitDefault *uint32
}

func (c *Chain) SetDefaults() {
	if c.BalancePollPeriod == nil {
		c.BalancePollPeriod = MustNewDuration(defaultConfigSet.BalancePollPeriod)
	}
	if c.ConfirmPollPeriod == nil {
		c.ConfirmPollPeriod = MustNewDuration(defaultConfigSet.ConfirmPollPeriod)
	}
	if c.TxTimeout == nil {
		c.TxTimeout = MustNewDuration(defaultConfigSet.TxTimeout)
	}
	if c.TxRetryTimeout == nil {
		c.TxRetryTimeout = MustNewDuration(defaultConfigSet.TxRetryTimeout)
	}
	if c.TxConfirmTimeout == nil {
		c.TxConfirmTimeout = MustNewDuration(defaultConfigSet.TxConfirmTimeout)
	}
	if c.SkipPreflight == nil {
		c.SkipPreflight = ptr(defaultConfigSet.SkipPreflight)
	}
	if c.Commitment == nil {
		c.Commitment = ptr(string(defaultConfigSet.Commitment))
	}
	if c.MaxRetries == nil && defaultConfigSet.MaxRetries != nil {
		c.MaxRetries = ptr(int64(*defaultConfigSet.MaxRetries)) //nolint:gosec // default fits
	}
	if c.FeeEstimatorMode == nil {
		c.FeeEstimatorMode = ptr(defaultConfigSet.FeeEstimatorMode)
	}
	if c.ComputeUnitPriceMax == nil {
		c.ComputeUnitPriceMax = ptr(defaultConfigSet.ComputeUnitPriceMax)
	}
	if c.ComputeUnitPriceMin == nil {
		c.ComputeUnitPriceMin = ptr(defaultConfigSet.ComputeUnitPriceMin)
	}
	if c.ComputeUnitPriceDefault == nil {
		c.ComputeUnitPriceDefault = ptr(defaultConfigSet.ComputeUnitPriceDefault)
	}
	if c.FeeBumpPeriod == nil {
		c.FeeBumpPeriod = MustNewDuration(defaultConfigSet.FeeBumpPeriod)
	}
	if c.BlockHistoryPollPeriod == nil {
		c.BlockHistoryPollPeriod = MustNewDuration(defaultConfigSet.BlockHistoryPollPeriod)
	}
	if c.BlockHistorySize == nil {
		c.BlockHistorySize = ptr(defaultConfigSet.BlockHistorySize)
	}
	if c.ComputeUnitLimitDefault == nil {
		c.ComputeUnitLimitDefault = ptr(defaultConfigSet.ComputeUnitLimitDefault)
	}
}

// Node is a single RPC endpoint (http + optional websocket URL).
type Node struct {
	Name  *string
	URL   *string
	WSURL *string
}

type Nodes []*Node

func (ns Nodes) validateKeys() (err error) {
	names := map[string]struct{}{}
	urls := map[string]struct{}{}
	for i, n := range ns {
		if n.Name != nil {
			if _, dupe := names[*n.Name]; dupe {
				err = errors.Join(err, fmt.Errorf("duplicate node name %d.Name: %s", i, *n.Name))
			}
			names[*n.Name] = struct{}{}
		}
		if n.URL != nil {
			if _, dupe := urls[*n.URL]; dupe {
				err = errors.Join(err, fmt.Errorf("duplicate node URL %d.URL: %s", i, *n.URL))
			}
			urls[*n.URL] = struct{}{}
		}
	}
	return
}

// TOMLConfig is the full file-level configuration: cluster identity plus
// chain knobs plus the node list.
type TOMLConfig struct {
	Cluster *string
	// Do not access directly, use [IsEnabled]
	Enabled *bool
	Chain
	Nodes Nodes
}

func NewDefault() *TOMLConfig {
	cfg := &TOMLConfig{}
	cfg.Chain.SetDefaults()
	return cfg
}

// Unmarshal decodes TOML bytes and fills in defaults for anything unset.
func Unmarshal(b []byte) (*TOMLConfig, error) {
	var cfg TOMLConfig
	if err := toml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Chain.SetDefaults()
	if err := cfg.ValidateConfig(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *TOMLConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

func (c *TOMLConfig) ValidateConfig() (err error) {
	if c.Cluster == nil {
		err = errors.Join(err, errors.New("Cluster: missing, required for all configs"))
	} else if *c.Cluster == "" {
		err = errors.Join(err, errors.New("Cluster: empty, required for all configs"))
	}

	if len(c.Nodes) == 0 {
		err = errors.Join(err, errors.New("Nodes: must have at least one node"))
	}
	for i, n := range c.Nodes {
		if n.URL == nil || *n.URL == "" {
			err = errors.Join(err, fmt.Errorf("Nodes.%d.URL: missing", i))
			continue
		}
		if _, urlErr := url.Parse(*n.URL); urlErr != nil {
			err = errors.Join(err, fmt.Errorf("Nodes.%d.URL: %w", i, urlErr))
		}
	}
	err = errors.Join(err, c.Nodes.validateKeys())

	if c.Chain.Commitment != nil {
		err = errors.Join(err, validateCommitment(rpc.CommitmentType(*c.Chain.Commitment)))
	}
	return
}

func (c *TOMLConfig) TOMLString() (string, error) {
	b, err := toml.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var _ Config = &TOMLConfig{}

func (c *TOMLConfig) BalancePollPeriod() time.Duration {
	return c.Chain.BalancePollPeriod.Duration()
}

func (c *TOMLConfig) ConfirmPollPeriod() time.Duration {
	return c.Chain.ConfirmPollPeriod.Duration()
}

func (c *TOMLConfig) TxTimeout() time.Duration {
	return c.Chain.TxTimeout.Duration()
}

func (c *TOMLConfig) TxRetryTimeout() time.Duration {
	return c.Chain.TxRetryTimeout.Duration()
}

func (c *TOMLConfig) TxConfirmTimeout() time.Duration {
	return c.Chain.TxConfirmTimeout.Duration()
}

func (c *TOMLConfig) SkipPreflight() bool {
	return *c.Chain.SkipPreflight
}

func (c *TOMLConfig) Commitment() rpc.CommitmentType {
	return rpc.CommitmentType(*c.Chain.Commitment)
}

func (c *TOMLConfig) MaxRetries() *uint {
	if c.Chain.MaxRetries == nil {
		return nil
	}
	if *c.Chain.MaxRetries < 0 {
		return nil // interpret negative numbers as nil (prevents unlikely case of overflow)
	}
	mr := uint(*c.Chain.MaxRetries) //nolint:gosec // overflow check is handled above
	return &mr
}

func (c *TOMLConfig) FeeEstimatorMode() string {
	return *c.Chain.FeeEstimatorMode
}

func (c *TOMLConfig) ComputeUnitPriceMax() uint64 {
	return *c.Chain.ComputeUnitPriceMax
}

func (c *TOMLConfig) ComputeUnitPriceMin() uint64 {
	return *c.Chain.ComputeUnitPriceMin
}

func (c *TOMLConfig) ComputeUnitPriceDefault() uint64 {
	return *c.Chain.ComputeUnitPriceDefault
}

func (c *TOMLConfig) FeeBumpPeriod() time.Duration {
	return c.Chain.FeeBumpPeriod.Duration()
}

func (c *TOMLConfig) BlockHistoryPollPeriod() time.Duration {
	return c.Chain.BlockHistoryPollPeriod.Duration()
}

func (c *TOMLConfig) BlockHistorySize() uint64 {
	return *c.Chain.BlockHistorySize
}

func (c *TOMLConfig) ComputeUnitLimitDefault() uint32 {
	return *c.Chain.ComputeUnitLimitDefault
}

func (c *TOMLConfig) ListNodes() Nodes {
	return c.Nodes
}

func ptr[T any](v T) *T { return &v }
