package codec

import (
	"fmt"
	"math/big"

	bin "github.com/gagliardetto/binary"
	"github.com/shopspring/decimal"
)

// MaxDecimalScale is the largest scale the program accepts; mirrors the
// on-chain bound.
const MaxDecimalScale = 28

// inclusive i128 mantissa bounds
var (
	i128Max = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	i128Min = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

// SwitchboardDecimal is the program's fixed-point representation: an i128
// mantissa and a base-10 scale. value = mantissa * 10^-scale
type SwitchboardDecimal struct {
	Mantissa bin.Int128
	Scale    uint32
}

// NewSwitchboardDecimal converts a decimal into the on-chain representation.
// Fails if the scale exceeds the program bound or the mantissa overflows
// i128.
func NewSwitchboardDecimal(d decimal.Decimal) (SwitchboardDecimal, error) {
	scale := -d.Exponent()
	mantissa := new(big.Int).Set(d.Coefficient())
	if scale < 0 {
		// normalize positive exponents into the mantissa
		mantissa.Mul(mantissa, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(-scale)), nil))
		scale = 0
	}
	if scale > MaxDecimalScale {
		return SwitchboardDecimal{}, fmt.Errorf("decimal scale %d exceeds maximum %d", scale, MaxDecimalScale)
	}
	if mantissa.Cmp(i128Max) > 0 || mantissa.Cmp(i128Min) < 0 {
		return SwitchboardDecimal{}, fmt.Errorf("mantissa %s overflows i128", mantissa)
	}

	var m bin.Int128
	abs := new(big.Int).Abs(mantissa)
	m.Lo = abs.Uint64()
	m.Hi = new(big.Int).Rsh(abs, 64).Uint64()
	if mantissa.Sign() < 0 {
		// two's complement negate
		m.Lo = ^m.Lo + 1
		m.Hi = ^m.Hi
		if m.Lo == 0 {
			m.Hi++
		}
	}
	return SwitchboardDecimal{Mantissa: m, Scale: uint32(scale)}, nil
}

// Decimal returns the value as a shopspring decimal.
func (d SwitchboardDecimal) Decimal() (decimal.Decimal, error) {
	if d.Scale > MaxDecimalScale {
		return decimal.Decimal{}, fmt.Errorf("decimal scale %d exceeds maximum %d", d.Scale, MaxDecimalScale)
	}
	return decimal.NewFromBigInt(d.mantissaBig(), -int32(d.Scale)), nil //nolint:gosec // scale bounded above
}

// Rat returns the value as a big.Rat for callers that prefer stdlib math.
func (d SwitchboardDecimal) Rat() *big.Rat {
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(d.Scale)), nil)
	return new(big.Rat).SetFrac(d.mantissaBig(), denom)
}

func (d SwitchboardDecimal) mantissaBig() *big.Int {
	// reconstruct signed value from the two's complement limbs
	v := new(big.Int).Lsh(new(big.Int).SetUint64(d.Mantissa.Hi), 64)
	v.Add(v, new(big.Int).SetUint64(d.Mantissa.Lo))
	if d.Mantissa.Hi&(1<<63) != 0 {
		v.Sub(v, new(big.Int).Lsh(big.NewInt(1), 128))
	}
	return v
}

func (d SwitchboardDecimal) String() string {
	dec, err := d.Decimal()
	if err != nil {
		return fmt.Sprintf("SwitchboardDecimal(%s, %d)", d.mantissaBig(), d.Scale)
	}
	return dec.String()
}
