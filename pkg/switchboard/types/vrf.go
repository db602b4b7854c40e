package types

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// VrfStatus is the lifecycle state of a randomness request.
type VrfStatus uint8

const (
	VrfStatusNone VrfStatus = iota
	VrfStatusRequesting
	VrfStatusVerifying
	VrfStatusVerified
	VrfStatusCallbackSuccess
	VrfStatusVerifyFailure
)

func (s VrfStatus) String() string {
	switch s {
	case VrfStatusNone:
		return "StatusNone"
	case VrfStatusRequesting:
		return "StatusRequesting"
	case VrfStatusVerifying:
		return "StatusVerifying"
	case VrfStatusVerified:
		return "StatusVerified"
	case VrfStatusCallbackSuccess:
		return "StatusCallbackSuccess"
	case VrfStatusVerifyFailure:
		return "StatusVerifyFailure"
	default:
		return "StatusUnknown"
	}
}

// AccountMetaBorsh is the borsh form of an account meta inside a stored
// callback.
type AccountMetaBorsh struct {
	Pubkey     solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

// VrfCallback is the instruction the oracle invokes after randomness is
// verified.
type VrfCallback struct {
	// The program invoked by the callback.
	ProgramID solana.PublicKey
	// The accounts used by the callback.
	Accounts [32]AccountMetaBorsh
	// Number of accounts in use.
	AccountsLen uint32
	// Serialized instruction data.
	IxData [1024]byte
	// Length of the serialized instruction data.
	IxDataLen uint32
}

// VrfRound is the state of a single randomness request.
type VrfRound struct {
	// The alpha bytes used to calculate the VRF proof.
	Alpha [256]byte
	// Length of the alpha bytes.
	AlphaLen uint32
	// The slot the request was made at.
	RequestSlot uint64
	// Unix timestamp the request was made at.
	RequestTimestamp int64
	// The verified randomness result.
	Result [32]byte
	// Number of oracles that have verified the proof.
	NumVerified uint32
	// Reserved.
	Ebuf [256]byte
}

// VrfAccountData requests and stores verifiable randomness produced by
// oracles on the assigned queue.
type VrfAccountData struct {
	// The current request status.
	Status VrfStatus
	// Incremental counter of completed requests.
	Counter bin.Uint128
	// The account delegated as the authority for making account changes.
	Authority solana.PublicKey
	// The queue assigned to fulfill randomness requests.
	OracleQueue solana.PublicKey
	// The token account holding the request funds.
	Escrow solana.PublicKey
	// The callback invoked when the result is verified.
	Callback VrfCallback
	// Number of oracles assigned to a request.
	BatchSize uint32
	// The current request round.
	CurrentRound VrfRound
	// Unix timestamp a result was last produced at.
	LastResolvedTimestamp int64
	// Reserved.
	Ebuf [1024]byte
}

// Result returns the verified randomness for the current round, or ok=false
// while a request is still outstanding.
func (v *VrfAccountData) Result() ([32]byte, bool) {
	if v.Status != VrfStatusVerified && v.Status != VrfStatusCallbackSuccess {
		return [32]byte{}, false
	}
	return v.CurrentRound.Result, true
}

type VrfInitParams struct {
	Callback  VrfCallback
	StateBump uint8
}

type VrfRequestRandomnessParams struct {
	PermissionBump uint8
	StateBump      uint8
}

type VrfSetCallbackParams struct {
	Callback VrfCallback
}
