package codec

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAccount struct {
	Authority solana.PublicKey
	Counter   uint64
	Active    bool
}

func TestEncodeDecodeAccount(t *testing.T) {
	in := testAccount{
		Authority: solana.NewWallet().PublicKey(),
		Counter:   42,
		Active:    true,
	}

	raw, err := EncodeAccount("TestAccount", in)
	require.NoError(t, err)

	disc := AccountDiscriminator("TestAccount")
	assert.Equal(t, disc[:], raw[:DiscriminatorLength])

	var out testAccount
	require.NoError(t, DecodeAccount("TestAccount", raw, &out))
	assert.Equal(t, in, out)
}

func TestDecodeAccount_Errors(t *testing.T) {
	t.Run("too short", func(t *testing.T) {
		var out testAccount
		err := DecodeAccount("TestAccount", []byte{0x01}, &out)
		assert.ErrorIs(t, err, ErrAccountTooShort)
	})

	t.Run("discriminator mismatch", func(t *testing.T) {
		raw, err := EncodeAccount("OtherAccount", testAccount{Counter: 1})
		require.NoError(t, err)

		var out testAccount
		err = DecodeAccount("TestAccount", raw, &out)
		assert.ErrorIs(t, err, ErrDiscriminatorMismatch)
	})
}

func TestEncodeInstruction(t *testing.T) {
	type params struct {
		Amount uint64
	}

	raw, err := EncodeInstruction("oracle_withdraw", params{Amount: 7})
	require.NoError(t, err)

	disc := InstructionDiscriminator("oracle_withdraw")
	assert.Equal(t, disc[:], raw[:DiscriminatorLength])
	// u64 little endian payload
	assert.Equal(t, []byte{7, 0, 0, 0, 0, 0, 0, 0}, raw[DiscriminatorLength:])
}

func TestEncodeInstruction_NoParams(t *testing.T) {
	raw, err := EncodeInstruction("aggregator_set_authority", nil)
	require.NoError(t, err)
	assert.Len(t, raw, DiscriminatorLength)
}
