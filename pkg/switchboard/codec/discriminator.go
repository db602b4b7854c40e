package codec

import (
	"crypto/sha256"
)

// DiscriminatorLength is the length of the anchor discriminator prefixed to
// every program account and instruction payload.
const DiscriminatorLength = 8

// AccountDiscriminator returns the 8-byte prefix the program writes at the
// start of an account of the named type, e.g. "AggregatorAccountData".
func AccountDiscriminator(name string) [DiscriminatorLength]byte {
	return discriminator("account:" + name)
}

// InstructionDiscriminator returns the 8-byte prefix identifying the named
// instruction. Instruction names are snake_case in the program IDL, e.g.
// "oracle_heartbeat".
func InstructionDiscriminator(name string) [DiscriminatorLength]byte {
	return discriminator("global:" + name)
}

func discriminator(preimage string) [DiscriminatorLength]byte {
	sum := sha256.Sum256([]byte(preimage))
	var out [DiscriminatorLength]byte
	copy(out[:], sum[:DiscriminatorLength])
	return out
}
