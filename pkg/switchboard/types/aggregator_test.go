package types

import (
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/codec"
)

func TestAggregatorLatestValue(t *testing.T) {
	result, err := codec.NewSwitchboardDecimal(decimal.RequireFromString("102.5"))
	require.NoError(t, err)

	agg := &AggregatorAccountData{
		MinOracleResults: 3,
		LatestConfirmedRound: AggregatorRound{
			RoundOpenSlot: 1000,
			NumSuccess:    4,
			Result:        result,
		},
	}

	v, ok := agg.LatestValue()
	require.True(t, ok)
	assert.Equal(t, result, v)

	t.Run("no round yet", func(t *testing.T) {
		empty := &AggregatorAccountData{MinOracleResults: 1}
		_, ok := empty.LatestValue()
		assert.False(t, ok)
	})

	t.Run("not enough successes", func(t *testing.T) {
		agg := &AggregatorAccountData{
			MinOracleResults: 5,
			LatestConfirmedRound: AggregatorRound{
				RoundOpenSlot: 1000,
				NumSuccess:    4,
			},
		}
		_, ok := agg.LatestValue()
		assert.False(t, ok)
	})
}

func TestAggregatorHasJob(t *testing.T) {
	jobA := solana.NewWallet().PublicKey()
	jobB := solana.NewWallet().PublicKey()

	agg := &AggregatorAccountData{JobPubkeysSize: 1}
	agg.JobPubkeysData[0] = jobA
	// slots past JobPubkeysSize are stale and must be ignored
	agg.JobPubkeysData[1] = jobB

	assert.True(t, agg.HasJob(jobA))
	assert.False(t, agg.HasJob(jobB))
}

func TestDisplayName(t *testing.T) {
	var name [32]byte
	copy(name[:], "SOL/USD")
	assert.Equal(t, "SOL/USD", DisplayName(name[:]))
	assert.Equal(t, "", DisplayName(make([]byte, 32)))
}

func TestAggregatorBorshRoundTrip(t *testing.T) {
	in := AggregatorAccountData{
		OracleRequestBatchSize: 4,
		MinOracleResults:       3,
		MinUpdateDelaySeconds:  30,
		IsLocked:               true,
		JobPubkeysSize:         2,
	}
	copy(in.Name[:], "test feed")
	in.QueuePubkey = solana.NewWallet().PublicKey()
	in.JobPubkeysData[0] = solana.NewWallet().PublicKey()

	raw, err := codec.EncodeAccount("AggregatorAccountData", in)
	require.NoError(t, err)

	var out AggregatorAccountData
	require.NoError(t, codec.DecodeAccount("AggregatorAccountData", raw, &out))
	assert.Equal(t, in, out)
}

func TestOptionalParamsEncoding(t *testing.T) {
	// unset optionals encode as a single zero byte each
	raw, err := bin.MarshalBorsh(AggregatorAddJobParams{})
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, raw)

	w := uint8(3)
	raw, err = bin.MarshalBorsh(AggregatorAddJobParams{Weight: &w})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 3}, raw)
}
