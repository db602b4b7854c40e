package switchboard

import (
	"strings"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/types"
)

func TestInstructionParamChecks(t *testing.T) {
	program := testProgram(&fakeAccountReader{})
	k := solana.NewWallet().PublicKey()
	longName := strings.Repeat("n", 33)
	longMetadata := strings.Repeat("m", 129)

	oracle := NewOracleAccount(program, k)
	lease := NewLeaseAccount(program, k)
	crank := NewCrankAccount(program, k)
	state := &ProgramStateAccount{program: program, PublicKey: k}

	for _, tc := range []struct {
		name  string
		build func() (solana.Instruction, error)
	}{
		{"oracle withdraw zero amount", func() (solana.Instruction, error) {
			return oracle.WithdrawInstruction(k, k, k, k, k, 0, 0, 0)
		}},
		{"vault transfer zero amount", func() (solana.Instruction, error) {
			return state.VaultTransferInstruction(k, k, k, 0)
		}},
		{"lease init zero load amount", func() (solana.Instruction, error) {
			return lease.InitInstruction(k, LeaseAccounts{}, types.LeaseInitParams{})
		}},
		{"lease extend zero load amount", func() (solana.Instruction, error) {
			return lease.ExtendInstruction(LeaseAccounts{}, types.LeaseExtendParams{})
		}},
		{"lease withdraw zero amount", func() (solana.Instruction, error) {
			return lease.WithdrawInstruction(k, k, LeaseAccounts{}, types.LeaseWithdrawParams{})
		}},
		{"oracle init name too long", func() (solana.Instruction, error) {
			return oracle.InitInstruction(k, k, k, k, longName, "", 0, 0)
		}},
		{"oracle init metadata too long", func() (solana.Instruction, error) {
			return oracle.InitInstruction(k, k, k, k, "oracle", longMetadata, 0, 0)
		}},
		{"crank init name too long", func() (solana.Instruction, error) {
			return crank.InitInstruction(k, k, k, longName, "", 100)
		}},
		{"crank init metadata too long", func() (solana.Instruction, error) {
			return crank.InitInstruction(k, k, k, "crank", strings.Repeat("m", 65), 100)
		}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			ix, err := tc.build()
			require.ErrorIs(t, err, ErrInvalidParam)
			assert.Nil(t, ix)
		})
	}

	// valid params still build
	ix, err := oracle.WithdrawInstruction(k, k, k, k, k, 0, 0, 1)
	require.NoError(t, err)
	assert.NotNil(t, ix)

	ix, err = crank.InitInstruction(k, k, k, "crank", "metadata", 100)
	require.NoError(t, err)
	assert.NotNil(t, ix)
}
