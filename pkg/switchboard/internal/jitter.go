package internal

import (
	"math/rand"
	"time"
)

// WithJitter returns d varied by up to +/- 10% so pollers in separate
// processes do not phase-align.
func WithJitter(d time.Duration) time.Duration {
	if d == 0 {
		return 0
	}
	span := int64(d / 5)
	if span == 0 {
		return d
	}
	jitter := rand.Int63n(span) - span/2 //nolint:gosec // timing jitter, not security sensitive
	return d + time.Duration(jitter)
}
