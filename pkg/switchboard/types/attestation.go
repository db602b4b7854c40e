package types

import (
	"github.com/gagliardetto/solana-go"
)

// VerificationStatus is the attestation state of a verifier enclave.
type VerificationStatus uint8

const (
	VerificationStatusNone VerificationStatus = iota
	VerificationStatusPending
	VerificationStatusFailure
	VerificationStatusSuccess
	VerificationStatusOverride
)

// AttestationQueueAccountData is a queue of verifier enclaves attesting to
// each other and to function executions.
type AttestationQueueAccountData struct {
	// The account delegated as the authority for making account changes.
	Authority solana.PublicKey
	// Allowed enclave measurements.
	MrEnclaves [32][32]byte
	// Number of allowed enclave measurements.
	MrEnclavesLen uint32
	// The verifier accounts on the queue.
	Data [128]solana.PublicKey
	// Number of verifier accounts on the queue.
	DataLen uint32
	// Seconds after which the authority may override a stalled
	// verification.
	AllowAuthorityOverrideAfter int64
	// Whether verifiers require a heartbeat permission before joining.
	RequireAuthorityHeartbeatPermission bool
	// Whether functions require a usage permission before running.
	RequireUsagePermissions bool
	// Maximum age of a quote verification before re-attestation is needed.
	MaxQuoteVerificationAge int64
	// Reward paid for verifications, in lamports of the queue mint.
	Reward uint32
	// Unix timestamp any verifier on the queue last heartbeated.
	LastHeartbeat int64
	// Interval when stale verifiers will be removed if they fail to
	// heartbeat.
	NodeTimeout int64
	// Current index of the verifier rotation.
	CurrIdx uint32
	// Garbage collection index.
	GcIdx uint32
	// Reserved.
	Ebuf [1024]byte
}

// EnclaveAccountData is a verifier enclave registered to an attestation
// queue.
type EnclaveAccountData struct {
	// The enclave-held signer generated inside the enclave.
	EnclaveSigner solana.PublicKey
	// The account delegated as the authority for making account changes.
	Authority solana.PublicKey
	// The attestation queue the enclave is registered to.
	AttestationQueue solana.PublicKey
	// The enclave measurement.
	MrEnclave [32]byte
	// The attestation state of the enclave.
	VerificationStatus VerificationStatus
	// Unix timestamp the enclave was last verified at.
	VerificationTimestamp int64
	// Unix timestamp the verification is valid until.
	ValidUntil int64
	// Whether the enclave is an active member of its queue.
	IsOnQueue bool
	// Unix timestamp the enclave last heartbeated.
	LastHeartbeat int64
	// Reserved.
	Ebuf [1024]byte
}

// FunctionStatus is the lifecycle state of a function account.
type FunctionStatus uint8

const (
	FunctionStatusNone FunctionStatus = iota
	FunctionStatusActive
	FunctionStatusNonExecutable
	FunctionStatusOutOfFunds
)

// FunctionAccountData is a serverless function executed inside verifier
// enclaves on a schedule or on trigger.
type FunctionAccountData struct {
	// Name of the function to store on-chain.
	Name [64]byte
	// Metadata of the function to store on-chain.
	Metadata [256]byte
	// Unix timestamp the function was created at.
	CreatedAt int64
	// Unix timestamp the function config was last changed at.
	UpdatedAt int64
	// The account delegated as the authority for making account changes.
	Authority solana.PublicKey
	// The attestation queue assigned to verify executions.
	AttestationQueue solana.PublicKey
	// The current function status.
	Status FunctionStatus
	// The container registry holding the function image.
	ContainerRegistry [64]byte
	// The container image to execute.
	Container [64]byte
	// The container version tag.
	Version [32]byte
	// The wallet funding executions.
	EscrowWallet solana.PublicKey
	// Unix timestamp of the last execution.
	LastExecutionTimestamp int64
	// Unix timestamp the next scheduled execution is allowed at.
	NextAllowedTimestamp int64
	// Number of manual triggers since the last execution.
	TriggerCount uint64
	// Whether a manual trigger is pending.
	IsTriggered bool
	// Cron schedule, zero-padded.
	Schedule [64]byte
	// Reserved.
	Ebuf [1024]byte
}

type AttestationQueueInitParams struct {
	AllowAuthorityOverrideAfter         int64
	RequireAuthorityHeartbeatPermission bool
	RequireUsagePermissions             bool
	MaxQuoteVerificationAge             int64
	Reward                              uint32
	NodeTimeout                         int64
}

type VerifierInitParams struct {
	RegistryKey [64]byte
}

type VerifierHeartbeatParams struct{}

type FunctionInitParams struct {
	Name              []byte
	Metadata          []byte
	Container         []byte
	ContainerRegistry []byte
	Version           []byte
	Schedule          []byte
	MrEnclave         [32]byte
	RecentSlot        uint64
}

type FunctionTriggerParams struct{}
