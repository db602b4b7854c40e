package fees

import (
	"context"
)

// Estimator provides a base compute unit price for transactions.
type Estimator interface {
	Start(ctx context.Context) error
	Close() error
	BaseComputeUnitPrice() uint64
}

// CalculateFee returns the bumped fee for the given retry count, doubling
// the base each bump and clamping to [min, max].
func CalculateFee(base, max, min uint64, count uint) uint64 {
	amount := base

	for i := uint(0); i < count; i++ {
		if amount == 0 {
			amount = 1
			continue
		}

		next := amount + amount
		if next <= amount {
			// overflow
			amount = max
			break
		}
		amount = next
	}

	if amount < min {
		amount = min
	}
	if amount > max {
		amount = max
	}
	return amount
}
