package token

import (
	"context"
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	amount string
	err    error
}

func (f *fakeReader) GetAccountInfoWithOpts(ctx context.Context, addr solana.PublicKey, opts *rpc.GetAccountInfoOpts) (*rpc.GetAccountInfoResult, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeReader) TokenBalance(ctx context.Context, addr solana.PublicKey) (*rpc.UiTokenAmount, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &rpc.UiTokenAmount{Amount: f.amount}, nil
}

func (f *fakeReader) Balance(ctx context.Context, addr solana.PublicKey) (uint64, error) {
	return 0, errors.New("not implemented")
}
func (f *fakeReader) SlotHeight(ctx context.Context) (uint64, error) {
	return 0, errors.New("not implemented")
}
func (f *fakeReader) LatestBlockhash(ctx context.Context) (*rpc.GetLatestBlockhashResult, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeReader) Cluster(ctx context.Context) (string, error) {
	return "", errors.New("not implemented")
}
func (f *fakeReader) GetFeeForMessage(ctx context.Context, msg string) (uint64, error) {
	return 0, errors.New("not implemented")
}
func (f *fakeReader) GetLatestBlock(ctx context.Context) (*rpc.GetBlockResult, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeReader) GetBlock(ctx context.Context, slot uint64) (*rpc.GetBlockResult, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeReader) GetTransaction(ctx context.Context, txHash solana.Signature) (*rpc.GetTransactionResult, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeReader) GetSignaturesForAddressWithOpts(ctx context.Context, addr solana.PublicKey, opts *rpc.GetSignaturesForAddressOpts) ([]*rpc.TransactionSignature, error) {
	return nil, errors.New("not implemented")
}
func (f *fakeReader) MinimumBalanceForRentExemption(ctx context.Context, dataSize uint64) (uint64, error) {
	return 0, errors.New("not implemented")
}

func TestAssociatedTokenAddress(t *testing.T) {
	wallet := solana.NewWallet().PublicKey()

	addr, err := AssociatedTokenAddress(wallet, WrappedSolMint)
	require.NoError(t, err)

	// matches the canonical derivation
	expected, _, err := solana.FindAssociatedTokenAddress(wallet, WrappedSolMint)
	require.NoError(t, err)
	assert.Equal(t, expected, addr)
}

func TestCreateAssociatedTokenAccount(t *testing.T) {
	payer := solana.NewWallet().PublicKey()
	wallet := solana.NewWallet().PublicKey()
	mint := solana.NewWallet().PublicKey()

	ix, addr, err := CreateAssociatedTokenAccount(payer, wallet, mint)
	require.NoError(t, err)
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Empty(t, data)

	accounts := ix.Accounts()
	require.Len(t, accounts, 6)
	assert.Equal(t, payer, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsSigner)
	assert.Equal(t, addr, accounts[1].PublicKey)
	assert.True(t, accounts[1].IsWritable)

	// idempotent variant carries the discriminant byte
	idemIx, idemAddr, err := CreateAssociatedTokenAccountIdempotent(payer, wallet, mint)
	require.NoError(t, err)
	assert.Equal(t, addr, idemAddr)
	idemData, err := idemIx.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, idemData)
}

func TestTransfer(t *testing.T) {
	source := solana.NewWallet().PublicKey()
	dest := solana.NewWallet().PublicKey()
	owner := solana.NewWallet().PublicKey()

	ix := Transfer(source, dest, owner, 500)
	assert.Equal(t, solana.TokenProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{3, 0xf4, 0x01, 0, 0, 0, 0, 0, 0}, data)

	accounts := ix.Accounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, owner, accounts[2].PublicKey)
	assert.True(t, accounts[2].IsSigner)
}

func TestWrapSOL(t *testing.T) {
	owner := solana.NewWallet().PublicKey()

	ixs, ata, err := WrapSOL(owner, 1_000_000)
	require.NoError(t, err)
	require.Len(t, ixs, 3)

	expected, err := AssociatedTokenAddress(owner, WrappedSolMint)
	require.NoError(t, err)
	assert.Equal(t, expected, ata)

	// create, transfer, sync
	assert.Equal(t, solana.SPLAssociatedTokenAccountProgramID, ixs[0].ProgramID())
	assert.Equal(t, solana.SystemProgramID, ixs[1].ProgramID())
	assert.Equal(t, solana.TokenProgramID, ixs[2].ProgramID())

	syncData, err := ixs[2].Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{17}, syncData)
}

func TestUnwrapSOL(t *testing.T) {
	owner := solana.NewWallet().PublicKey()

	ix, err := UnwrapSOL(owner)
	require.NoError(t, err)
	assert.Equal(t, solana.TokenProgramID, ix.ProgramID())

	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, []byte{9}, data)

	ata, err := AssociatedTokenAddress(owner, WrappedSolMint)
	require.NoError(t, err)
	accounts := ix.Accounts()
	require.Len(t, accounts, 3)
	assert.Equal(t, ata, accounts[0].PublicKey)
	assert.Equal(t, owner, accounts[1].PublicKey)
}

func TestBalance(t *testing.T) {
	account := solana.NewWallet().PublicKey()

	amount, err := Balance(context.Background(), &fakeReader{amount: "12345"}, account)
	require.NoError(t, err)
	assert.Equal(t, uint64(12345), amount)

	_, err = Balance(context.Background(), &fakeReader{amount: "not-a-number"}, account)
	require.Error(t, err)

	_, err = Balance(context.Background(), &fakeReader{err: errors.New("rpc down")}, account)
	require.Error(t, err)
}
