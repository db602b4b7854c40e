package txm

import (
	"context"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/spool-hq/solana-sdk/pkg/switchboard/client"
)

// MaxTransactionSize is the serialized packet limit for a transaction
// (IPv6 MTU 1280 - 40 byte header - 8 byte fragment header).
const MaxTransactionSize = 1232

// PackInstructions greedily packs an instruction sequence into as few
// transactions as possible while each stays under the packet size limit.
// Instruction order is preserved across the returned transactions; the payer
// is the fee payer (and first signer) of every transaction.
func PackInstructions(instructions []solana.Instruction, payer solana.PublicKey, recentBlockhash solana.Hash) ([]*solana.Transaction, error) {
	if len(instructions) == 0 {
		return nil, fmt.Errorf("no instructions to pack")
	}

	var txs []*solana.Transaction
	start := 0
	for start < len(instructions) {
		var packed *solana.Transaction
		count := 0
		for start+count < len(instructions) {
			candidate, err := solana.NewTransaction(
				instructions[start:start+count+1],
				recentBlockhash,
				solana.TransactionPayer(payer),
			)
			if err != nil {
				return nil, fmt.Errorf("failed to build transaction: %w", err)
			}
			size, err := TransactionSize(candidate)
			if err != nil {
				return nil, err
			}
			if size > MaxTransactionSize {
				break
			}
			packed = candidate
			count++
		}
		if count == 0 {
			return nil, fmt.Errorf("instruction %d exceeds the transaction size limit on its own", start)
		}
		txs = append(txs, packed)
		start += count
	}
	return txs, nil
}

// TransactionSize returns the serialized size of the transaction including
// the signatures it will carry once fully signed.
func TransactionSize(tx *solana.Transaction) (int, error) {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return 0, fmt.Errorf("failed to marshal message: %w", err)
	}
	const signatureLength = 64
	sigCount := int(tx.Message.Header.NumRequiredSignatures)
	return shortvecLen(sigCount) + sigCount*signatureLength + len(msg), nil
}

func shortvecLen(n int) int {
	size := 1
	for n >= 0x80 {
		n >>= 7
		size++
	}
	return size
}

// VerifySigners checks that every required signer of the transaction is
// available in the provided signer set.
func VerifySigners(tx *solana.Transaction, signers map[solana.PublicKey]solana.PrivateKey) error {
	numSigners := int(tx.Message.Header.NumRequiredSignatures)
	if numSigners > len(tx.Message.AccountKeys) {
		return fmt.Errorf("required signers (%d) exceed account keys (%d)", numSigners, len(tx.Message.AccountKeys))
	}
	for _, key := range tx.Message.AccountKeys[:numSigners] {
		if _, ok := signers[key]; !ok {
			return fmt.Errorf("missing signer private key for %s", key)
		}
	}
	return nil
}

// SignTransaction signs the transaction with the provided signer set.
func SignTransaction(tx *solana.Transaction, signers map[solana.PublicKey]solana.PrivateKey) error {
	if err := VerifySigners(tx, signers); err != nil {
		return err
	}
	_, err := tx.Sign(func(pub solana.PublicKey) *solana.PrivateKey {
		if priv, ok := signers[pub]; ok {
			return &priv
		}
		return nil
	})
	return err
}

// SendAndConfirm is the linear path: fetch a blockhash, pack the
// instructions, sign and send each transaction in order, and poll signature
// statuses until the configured commitment is reached. Transactions are sent
// strictly sequentially since later instructions may depend on earlier ones.
func SendAndConfirm(
	ctx context.Context,
	rw client.ReaderWriter,
	instructions []solana.Instruction,
	signers map[solana.PublicKey]solana.PrivateKey,
	payer solana.PublicKey,
	commitment rpc.CommitmentType,
	pollPeriod time.Duration,
) ([]solana.Signature, error) {
	hashRes, err := rw.LatestBlockhash(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest blockhash: %w", err)
	}

	txs, err := PackInstructions(instructions, payer, hashRes.Value.Blockhash)
	if err != nil {
		return nil, err
	}

	sigs := make([]solana.Signature, 0, len(txs))
	for i, tx := range txs {
		if err := SignTransaction(tx, signers); err != nil {
			return sigs, fmt.Errorf("failed to sign transaction %d: %w", i, err)
		}
		sig, err := rw.SendTx(ctx, tx)
		if err != nil {
			return sigs, fmt.Errorf("failed to send transaction %d: %w", i, err)
		}
		sigs = append(sigs, sig)
		if err := waitForStatus(ctx, rw, sig, commitment, pollPeriod); err != nil {
			return sigs, err
		}
	}
	return sigs, nil
}

func waitForStatus(ctx context.Context, rw client.ReaderWriter, sig solana.Signature, commitment rpc.CommitmentType, pollPeriod time.Duration) error {
	target := Confirmed
	if commitment == rpc.CommitmentFinalized {
		target = Finalized
	}

	tick := time.NewTicker(pollPeriod)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick.C:
			res, err := rw.SignatureStatuses(ctx, []solana.Signature{sig})
			if err != nil {
				return fmt.Errorf("failed to get signature status for %s: %w", sig, err)
			}
			if len(res) == 0 || res[0] == nil {
				continue
			}
			if res[0].Err != nil {
				return fmt.Errorf("transaction %s failed on-chain: %v", sig, res[0].Err)
			}
			if convertStatus(res[0]) >= target {
				return nil
			}
		}
	}
}
