package switchboard

import (
	"context"

	"github.com/gagliardetto/solana-go"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/types"
)

// Attestation account wrappers target the attestation program. Construct
// their Program handle with AttestationProgramID.

const (
	attestationQueueAccountName = "AttestationQueueAccountData"
	enclaveAccountName          = "EnclaveAccountData"
	functionAccountName         = "FunctionAccountData"
)

// AttestationQueueAccount wraps a queue of verifier enclaves.
type AttestationQueueAccount struct {
	program   *Program
	PublicKey solana.PublicKey
}

func NewAttestationQueueAccount(program *Program, pubkey solana.PublicKey) *AttestationQueueAccount {
	return &AttestationQueueAccount{program: program, PublicKey: pubkey}
}

// LoadData fetches and decodes the attestation queue account.
func (q *AttestationQueueAccount) LoadData(ctx context.Context) (*types.AttestationQueueAccountData, error) {
	return loadAccount[types.AttestationQueueAccountData](ctx, q.program, q.PublicKey, attestationQueueAccountName)
}

// OnChange streams decoded queue updates until cancel is called or ctx ends.
func (q *AttestationQueueAccount) OnChange(ctx context.Context, handler func(*types.AttestationQueueAccountData, uint64)) (func(), error) {
	return watchAccount[types.AttestationQueueAccountData](ctx, q.program, q.PublicKey, attestationQueueAccountName, handler)
}

// InitInstruction creates the attestation queue.
func (q *AttestationQueueAccount) InitInstruction(payer, authority solana.PublicKey, params types.AttestationQueueInitParams) (solana.Instruction, error) {
	return q.program.instruction("attestation_queue_init", params, solana.AccountMetaSlice{
		solana.Meta(q.PublicKey).WRITE().SIGNER(),
		solana.Meta(authority),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	})
}

// VerifierAccount wraps a verifier enclave registered to an attestation
// queue.
type VerifierAccount struct {
	program   *Program
	PublicKey solana.PublicKey
}

func NewVerifierAccount(program *Program, pubkey solana.PublicKey) *VerifierAccount {
	return &VerifierAccount{program: program, PublicKey: pubkey}
}

// LoadData fetches and decodes the verifier enclave account.
func (v *VerifierAccount) LoadData(ctx context.Context) (*types.EnclaveAccountData, error) {
	return loadAccount[types.EnclaveAccountData](ctx, v.program, v.PublicKey, enclaveAccountName)
}

// OnChange streams decoded enclave updates until cancel is called or ctx
// ends.
func (v *VerifierAccount) OnChange(ctx context.Context, handler func(*types.EnclaveAccountData, uint64)) (func(), error) {
	return watchAccount[types.EnclaveAccountData](ctx, v.program, v.PublicKey, enclaveAccountName, handler)
}

// InitInstruction registers the verifier on an attestation queue.
func (v *VerifierAccount) InitInstruction(payer, authority, queue solana.PublicKey, registryKey [64]byte) (solana.Instruction, error) {
	return v.program.instruction("verifier_init", types.VerifierInitParams{
		RegistryKey: registryKey,
	}, solana.AccountMetaSlice{
		solana.Meta(v.PublicKey).WRITE().SIGNER(),
		solana.Meta(queue).WRITE(),
		solana.Meta(authority),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
	})
}

// HeartbeatInstruction keeps the verifier active on its queue. gcNode is the
// verifier at the queue's garbage collection index.
func (v *VerifierAccount) HeartbeatInstruction(enclaveSigner, queue, queueAuthority, gcNode, permission solana.PublicKey) (solana.Instruction, error) {
	return v.program.instruction("verifier_heartbeat", types.VerifierHeartbeatParams{}, solana.AccountMetaSlice{
		solana.Meta(v.PublicKey).WRITE(),
		solana.Meta(enclaveSigner).SIGNER(),
		solana.Meta(queue).WRITE(),
		solana.Meta(queueAuthority),
		solana.Meta(gcNode).WRITE(),
		solana.Meta(permission),
	})
}

// FunctionAccount wraps a serverless function verified by enclave oracles.
type FunctionAccount struct {
	program   *Program
	PublicKey solana.PublicKey
}

func NewFunctionAccount(program *Program, pubkey solana.PublicKey) *FunctionAccount {
	return &FunctionAccount{program: program, PublicKey: pubkey}
}

// LoadData fetches and decodes the function account.
func (f *FunctionAccount) LoadData(ctx context.Context) (*types.FunctionAccountData, error) {
	return loadAccount[types.FunctionAccountData](ctx, f.program, f.PublicKey, functionAccountName)
}

// OnChange streams decoded function updates until cancel is called or ctx
// ends.
func (f *FunctionAccount) OnChange(ctx context.Context, handler func(*types.FunctionAccountData, uint64)) (func(), error) {
	return watchAccount[types.FunctionAccountData](ctx, f.program, f.PublicKey, functionAccountName, handler)
}

// InitInstruction creates the function account on an attestation queue.
func (f *FunctionAccount) InitInstruction(payer, authority, queue, escrowWallet solana.PublicKey, params types.FunctionInitParams) (solana.Instruction, error) {
	return f.program.instruction("function_init", params, solana.AccountMetaSlice{
		solana.Meta(f.PublicKey).WRITE(),
		solana.Meta(authority),
		solana.Meta(queue).WRITE(),
		solana.Meta(escrowWallet).WRITE(),
		solana.Meta(payer).WRITE().SIGNER(),
		solana.Meta(solana.SystemProgramID),
		solana.Meta(solana.TokenProgramID),
	})
}

// TriggerInstruction requests an off-schedule execution of the function.
func (f *FunctionAccount) TriggerInstruction(authority, queue solana.PublicKey) (solana.Instruction, error) {
	return f.program.instruction("function_trigger", types.FunctionTriggerParams{}, solana.AccountMetaSlice{
		solana.Meta(f.PublicKey).WRITE(),
		solana.Meta(authority).SIGNER(),
		solana.Meta(queue),
	})
}
