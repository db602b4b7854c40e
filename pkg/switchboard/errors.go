package switchboard

import (
	"errors"
	"fmt"
)

var (
	// ErrAccountNotFound is returned when the account does not exist at the
	// queried commitment.
	ErrAccountNotFound = errors.New("account not found")
	// ErrOwnerMismatch is returned when the account exists but is not owned
	// by the expected program.
	ErrOwnerMismatch = errors.New("account not owned by the switchboard program")
	// ErrFeedNotPopulated is returned when an aggregator has no confirmed
	// round satisfying its minimum oracle results.
	ErrFeedNotPopulated = errors.New("aggregator does not have a populated result")
	// ErrStaleFeed is returned when the latest confirmed round is older than
	// the caller's staleness bound.
	ErrStaleFeed = errors.New("aggregator result is stale")
	// ErrInvalidParam is returned when an instruction parameter fails a
	// pre-flight check.
	ErrInvalidParam = errors.New("invalid instruction parameter")
)

func checkAmount(amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: amount must be greater than zero", ErrInvalidParam)
	}
	return nil
}

// checkFieldLen guards dynamic params against overflowing the fixed on-chain
// field they are copied into.
func checkFieldLen(field string, value []byte, maxLen int) error {
	if len(value) > maxLen {
		return fmt.Errorf("%w: %s is %d bytes, max %d", ErrInvalidParam, field, len(value), maxLen)
	}
	return nil
}
