package codec

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
)

var (
	ErrAccountTooShort       = errors.New("account data shorter than discriminator")
	ErrDiscriminatorMismatch = errors.New("account discriminator mismatch")
)

// DecodeAccount borsh-decodes raw account bytes into out after verifying the
// anchor discriminator for the named account type.
func DecodeAccount(name string, data []byte, out interface{}) error {
	if len(data) < DiscriminatorLength {
		return fmt.Errorf("%w: %s has %d bytes", ErrAccountTooShort, name, len(data))
	}

	disc := AccountDiscriminator(name)
	if !bytes.Equal(data[:DiscriminatorLength], disc[:]) {
		return fmt.Errorf("%w: expected %x got %x for %s", ErrDiscriminatorMismatch, disc, data[:DiscriminatorLength], name)
	}

	if err := bin.NewBorshDecoder(data[DiscriminatorLength:]).Decode(out); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

// EncodeAccount borsh-encodes v with the named account discriminator
// prefixed, producing bytes laid out the way the program stores them.
func EncodeAccount(name string, v interface{}) ([]byte, error) {
	disc := AccountDiscriminator(name)
	buf := new(bytes.Buffer)
	buf.Write(disc[:])
	if err := bin.NewBorshEncoder(buf).Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// EncodeInstruction borsh-encodes params behind the instruction
// discriminator for the named (snake_case) instruction.
func EncodeInstruction(name string, params interface{}) ([]byte, error) {
	disc := InstructionDiscriminator(name)
	buf := new(bytes.Buffer)
	buf.Write(disc[:])
	if params != nil {
		if err := bin.NewBorshEncoder(buf).Encode(params); err != nil {
			return nil, fmt.Errorf("failed to encode %s params: %w", name, err)
		}
	}
	return buf.Bytes(), nil
}
