package switchboard

import (
	"context"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/gagliardetto/solana-go/rpc/ws"
	"go.uber.org/zap"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/client"
	"github.com/spool-hq/solana-sdk/pkg/switchboard/codec"
)

// Deployed Switchboard V2 program addresses.
var (
	MainnetProgramID     = solana.MustPublicKeyFromBase58("SW1TCH7qEPTdLsDHRgPuMQjbQxKdH2aBStViMFnt64f")
	DevnetProgramID      = solana.MustPublicKeyFromBase58("2TfB33aLaneQb5TNVwyDz3jSZXS6jdW2ARw1Dgf84XCG")
	AttestationProgramID = solana.MustPublicKeyFromBase58("sbattyXrzedoNATfc4L31wC9Mhxsi1BmFhTiN8gDshx")
)

// ProgramIDForCluster maps the cluster name reported by the client to the
// deployed oracle program address.
func ProgramIDForCluster(cluster string) (solana.PublicKey, error) {
	switch cluster {
	case "mainnet", "mainnet-beta":
		return MainnetProgramID, nil
	case "devnet", "localnet":
		return DevnetProgramID, nil
	default:
		return solana.PublicKey{}, fmt.Errorf("no known switchboard deployment for cluster: %s", cluster)
	}
}

// StateAddress derives the program state PDA, seeded with "STATE".
func StateAddress(programID solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{[]byte("STATE")}, programID)
}

// OracleAddress derives an oracle PDA from its queue and token wallet.
func OracleAddress(programID, queue, wallet solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("OracleAccountData"),
		queue.Bytes(),
		wallet.Bytes(),
	}, programID)
}

// PermissionAddress derives a permission PDA from its authority, granter and
// grantee.
func PermissionAddress(programID, authority, granter, grantee solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("PermissionAccountData"),
		authority.Bytes(),
		granter.Bytes(),
		grantee.Bytes(),
	}, programID)
}

// LeaseAddress derives a lease PDA from its queue and aggregator.
func LeaseAddress(programID, queue, aggregator solana.PublicKey) (solana.PublicKey, uint8, error) {
	return solana.FindProgramAddress([][]byte{
		[]byte("LeaseAccountData"),
		queue.Bytes(),
		aggregator.Bytes(),
	}, programID)
}

// Program is a handle on a Switchboard deployment: the program address plus
// the RPC and websocket clients the account wrappers read through.
type Program struct {
	ID         solana.PublicKey
	reader     client.AccountReader
	ws         *ws.Client
	commitment rpc.CommitmentType
	lggr       *zap.SugaredLogger
}

// NewProgram builds a program handle. The websocket client may be nil if
// OnChange subscriptions are not needed.
func NewProgram(id solana.PublicKey, reader client.AccountReader, wsClient *ws.Client, commitment rpc.CommitmentType, lggr *zap.SugaredLogger) *Program {
	return &Program{
		ID:         id,
		reader:     reader,
		ws:         wsClient,
		commitment: commitment,
		lggr:       lggr.Named("Switchboard"),
	}
}

// StateAccount returns the wrapper for this deployment's state PDA.
func (p *Program) StateAccount() (*ProgramStateAccount, error) {
	addr, bump, err := StateAddress(p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to derive state address: %w", err)
	}
	return &ProgramStateAccount{program: p, PublicKey: addr, Bump: bump}, nil
}

// fetchAccountData pulls the raw account bytes and verifies program
// ownership against owner (the oracle program for most wrappers).
func (p *Program) fetchAccountData(ctx context.Context, pubkey, owner solana.PublicKey) ([]byte, error) {
	res, err := p.reader.GetAccountInfoWithOpts(ctx, pubkey, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: p.commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account %s: %w", pubkey, err)
	}
	if res == nil || res.Value == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, pubkey)
	}
	if !res.Value.Owner.Equals(owner) {
		return nil, fmt.Errorf("%w: %s owned by %s", ErrOwnerMismatch, pubkey, res.Value.Owner)
	}
	return res.Value.Data.GetBinary(), nil
}

// loadAccount fetches and decodes a named anchor account owned by the oracle
// program.
func loadAccount[T any](ctx context.Context, p *Program, pubkey solana.PublicKey, name string) (*T, error) {
	return loadOwnedAccount[T](ctx, p, pubkey, p.ID, name)
}

func loadOwnedAccount[T any](ctx context.Context, p *Program, pubkey, owner solana.PublicKey, name string) (*T, error) {
	raw, err := p.fetchAccountData(ctx, pubkey, owner)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := codec.DecodeAccount(name, raw, out); err != nil {
		return nil, err
	}
	return out, nil
}

// watchAccount subscribes to account changes and invokes handler with each
// decoded update. Updates that fail to decode are logged and skipped so a
// mid-write snapshot cannot kill the stream.
func watchAccount[T any](ctx context.Context, p *Program, pubkey solana.PublicKey, name string, handler func(*T, uint64)) (func(), error) {
	if p.ws == nil {
		return nil, fmt.Errorf("no websocket client configured for subscriptions")
	}
	return client.SubscribeAccount(ctx, p.ws, pubkey, p.commitment, p.lggr, func(data []byte, slot uint64) {
		out := new(T)
		if err := codec.DecodeAccount(name, data, out); err != nil {
			p.lggr.Warnw("failed to decode account update", "account", pubkey.String(), "type", name, "error", err)
			return
		}
		handler(out, slot)
	})
}

// instruction anchor-encodes params behind the named discriminator and
// attaches the account list.
func (p *Program) instruction(name string, params interface{}, accounts solana.AccountMetaSlice) (solana.Instruction, error) {
	return buildInstruction(p.ID, name, params, accounts)
}

func buildInstruction(programID solana.PublicKey, name string, params interface{}, accounts solana.AccountMetaSlice) (solana.Instruction, error) {
	data, err := codec.EncodeInstruction(name, params)
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(programID, accounts, data), nil
}
