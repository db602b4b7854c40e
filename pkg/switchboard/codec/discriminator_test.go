package codec

import (
	"crypto/sha256"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountDiscriminator(t *testing.T) {
	disc := AccountDiscriminator("AggregatorAccountData")

	// matches the anchor preimage derivation
	sum := sha256.Sum256([]byte("account:AggregatorAccountData"))
	assert.Equal(t, sum[:DiscriminatorLength], disc[:])

	// deterministic and distinct per type
	assert.Equal(t, disc, AccountDiscriminator("AggregatorAccountData"))
	assert.NotEqual(t, disc, AccountDiscriminator("OracleAccountData"))
}

func TestInstructionDiscriminator(t *testing.T) {
	disc := InstructionDiscriminator("oracle_heartbeat")

	sum := sha256.Sum256([]byte("global:oracle_heartbeat"))
	assert.Equal(t, sum[:DiscriminatorLength], disc[:])

	// account and instruction namespaces must not collide
	require.NotEqual(t, AccountDiscriminator("oracle_heartbeat"), disc)
}
