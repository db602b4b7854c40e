package txm

import (
	"fmt"
	"sort"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

type TxState int

// tx not found
// < tx errored
// < tx broadcasted
// < tx processed
// < tx confirmed
// < tx finalized
const (
	NotFound TxState = iota
	Errored
	Broadcasted
	Processed
	Confirmed
	Finalized
)

func (s TxState) String() string {
	switch s {
	case NotFound:
		return "NotFound"
	case Errored:
		return "Errored"
	case Broadcasted:
		return "Broadcasted"
	case Processed:
		return "Processed"
	case Confirmed:
		return "Confirmed"
	case Finalized:
		return "Finalized"
	default:
		return fmt.Sprintf("TxState(%d)", int(s))
	}
}

type statuses struct {
	sigs []solana.Signature
	res  []*rpc.SignatureStatusesResult
}

func (s statuses) Len() int {
	return len(s.res)
}

func (s statuses) Swap(i, j int) {
	s.sigs[i], s.sigs[j] = s.sigs[j], s.sigs[i]
	s.res[i], s.res[j] = s.res[j], s.res[i]
}

func (s statuses) Less(i, j int) bool {
	return convertStatus(s.res[i]) > convertStatus(s.res[j]) // returns list with highest first
}

// SortSignaturesAndResults orders signature statuses so the most progressed
// results are processed first.
func SortSignaturesAndResults(sigs []solana.Signature, res []*rpc.SignatureStatusesResult) ([]solana.Signature, []*rpc.SignatureStatusesResult, error) {
	if len(sigs) != len(res) {
		return []solana.Signature{}, []*rpc.SignatureStatusesResult{}, fmt.Errorf("signatures and results lengths do not match")
	}

	s := statuses{
		sigs: sigs,
		res:  res,
	}
	sort.Sort(s)
	return s.sigs, s.res, nil
}

func convertStatus(res *rpc.SignatureStatusesResult) TxState {
	if res == nil {
		return NotFound
	}

	if res.ConfirmationStatus == rpc.ConfirmationStatusProcessed {
		return Processed
	}

	if res.ConfirmationStatus == rpc.ConfirmationStatusConfirmed {
		// If result contains error, consider the transaction errored to avoid wasted resources on expiration protection
		if res.Err != nil {
			return Errored
		}
		return Confirmed
	}

	if res.ConfirmationStatus == rpc.ConfirmationStatusFinalized {
		// If result contains error, consider the transaction errored
		// Should be caught earlier but checked here in case confirmed is skipped due to delays or slow polling
		if res.Err != nil {
			return Errored
		}
		return Finalized
	}

	return NotFound
}

// BatchSplit splits a slice into batches of at most size elements.
func BatchSplit(sigs []solana.Signature, size int) ([][]solana.Signature, error) {
	if size <= 0 {
		return nil, fmt.Errorf("batch size must be positive: %d", size)
	}

	var out [][]solana.Signature
	for len(sigs) > size {
		out = append(out, sigs[:size])
		sigs = sigs[size:]
	}
	if len(sigs) > 0 {
		out = append(out, sigs)
	}
	return out, nil
}
