package vm

import "math/big"

// Op identifies one of the fourteen binary arithmetic operations of
// spec.md §4.1. Loop, seq and memory-op opcodes are not Ops; they are
// built into their own node kinds.
type Op string

const (
	OpMov Op = "mov"
	OpAdd Op = "add"
	OpSub Op = "sub"
	OpTrn Op = "trn"
	OpMul Op = "mul"
	OpDiv Op = "div"
	OpDif Op = "dif"
	OpMod Op = "mod"
	OpPow Op = "pow"
	OpGcd Op = "gcd"
	OpBin Op = "bin"
	OpCmp Op = "cmp"
	OpMin Op = "min"
	OpMax Op = "max"
)

var one = big.NewInt(1)
var negOne = big.NewInt(-1)
var zero = big.NewInt(0)

// checkMagnitude enforces the bit-width cap shared by every "capped" op.
func checkMagnitude(v *big.Int, limits Limits, outOfRange error) error {
	if limits.MagnitudeBits == 0 {
		return nil
	}
	if v.BitLen() > int(limits.MagnitudeBits) {
		return outOfRange
	}
	return nil
}

// Apply computes op(x, y), enforcing input and output magnitude caps
// where the op table in spec.md §4.1 marks the op "capped". Each op is a
// pure function from (op, x, y) to (value, error), matching the
// Semantics trait this is grounded on (original_source semantics.rs).
func Apply(op Op, x, y *big.Int, limits Limits) (*big.Int, error) {
	switch op {
	case OpMov:
		return new(big.Int).Set(y), nil
	case OpAdd:
		return capped2(x, y, limits, ErrAddSubtractExceededLimit, func(x, y *big.Int) *big.Int {
			return new(big.Int).Add(x, y)
		})
	case OpSub:
		return capped2(x, y, limits, ErrAddSubtractExceededLimit, func(x, y *big.Int) *big.Int {
			return new(big.Int).Sub(x, y)
		})
	case OpTrn:
		return capped2(x, y, limits, ErrAddSubtractExceededLimit, func(x, y *big.Int) *big.Int {
			d := new(big.Int).Sub(x, y)
			if d.Sign() < 0 {
				return big.NewInt(0)
			}
			return d
		})
	case OpMul:
		return capped2(x, y, limits, ErrMultiplyExceededLimit, func(x, y *big.Int) *big.Int {
			return new(big.Int).Mul(x, y)
		})
	case OpDiv:
		if y.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		return new(big.Int).Quo(x, y), nil
	case OpDif:
		return divideIf(x, y, limits)
	case OpMod:
		if y.Sign() == 0 {
			return nil, ErrDivisionByZero
		}
		return new(big.Int).Rem(x, y), nil
	case OpPow:
		return power(x, y, limits)
	case OpGcd:
		ax := new(big.Int).Abs(x)
		ay := new(big.Int).Abs(y)
		return new(big.Int).GCD(nil, nil, ax, ay), nil
	case OpBin:
		return binomial(x, y, limits)
	case OpCmp:
		if x.Cmp(y) == 0 {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case OpMin:
		if x.Cmp(y) <= 0 {
			return new(big.Int).Set(x), nil
		}
		return new(big.Int).Set(y), nil
	case OpMax:
		if x.Cmp(y) >= 0 {
			return new(big.Int).Set(x), nil
		}
		return new(big.Int).Set(y), nil
	default:
		return nil, ErrUnsupportedInstruction
	}
}

// capped2 checks input magnitude, computes, then checks output magnitude.
func capped2(x, y *big.Int, limits Limits, exceeded error, compute func(x, y *big.Int) *big.Int) (*big.Int, error) {
	if err := checkMagnitude(x, limits, ErrInputOutOfRange); err != nil {
		return nil, err
	}
	if err := checkMagnitude(y, limits, ErrInputOutOfRange); err != nil {
		return nil, err
	}
	result := compute(x, y)
	if err := checkMagnitude(result, limits, exceeded); err != nil {
		return nil, err
	}
	return result, nil
}

// divideIf returns x/y when y divides x evenly, else x unchanged; y == 0
// also returns x unchanged (no DivisionByZero here — see original_source
// semantics.rs's divide_if). Still "capped" per spec.md §4.1's op table:
// original_source's node_divideif.rs checks both operands' magnitude
// before the division-by-zero-style short circuit, so an out-of-range
// operand fails even when the short circuit would otherwise apply.
func divideIf(x, y *big.Int, limits Limits) (*big.Int, error) {
	if err := checkMagnitude(y, limits, ErrInputOutOfRange); err != nil {
		return nil, err
	}
	if err := checkMagnitude(x, limits, ErrInputOutOfRange); err != nil {
		return nil, err
	}
	if y.Sign() == 0 {
		return new(big.Int).Set(x), nil
	}
	rem := new(big.Int).Rem(x, y)
	if rem.Sign() != 0 {
		return new(big.Int).Set(x), nil
	}
	result := new(big.Int).Quo(x, y)
	if err := checkMagnitude(result, limits, ErrOutputOutOfRange); err != nil {
		return nil, err
	}
	return result, nil
}

// power implements x^y. y < 0 is only legal for x in {-1, 0, 1}: see
// DESIGN.md's Open Question decision on the pow domain guard, which this
// code is the direct transcription of.
func power(x, y *big.Int, limits Limits) (*big.Int, error) {
	if err := checkMagnitude(x, limits, ErrInputOutOfRange); err != nil {
		return nil, err
	}
	if y.Sign() < 0 {
		switch x.Cmp(one) {
		case 0:
			return big.NewInt(1), nil
		}
		switch {
		case x.Cmp(negOne) == 0:
			if y.Bit(0) == 0 {
				return big.NewInt(1), nil
			}
			return big.NewInt(-1), nil
		case x.Sign() == 0:
			return nil, ErrPowerZeroDivision
		default:
			return nil, ErrPowerExponentTooHigh
		}
	}
	if limits.MaxPowerExponentBits > 0 && uint(y.BitLen()) > limits.MaxPowerExponentBits {
		return nil, ErrPowerExponentTooHigh
	}
	result := new(big.Int).Exp(x, y, nil)
	if err := checkMagnitude(result, limits, ErrPowerExceededLimit); err != nil {
		return nil, err
	}
	return result, nil
}

// binomial implements C(x, y), extended to negative x via the identity
// C(x, y) = (-1)^y * C(y-x-1, y) for y >= 0. See DESIGN.md's Open
// Question decision on the bin domain.
func binomial(x, y *big.Int, limits Limits) (*big.Int, error) {
	if err := checkMagnitude(x, limits, ErrInputOutOfRange); err != nil {
		return nil, err
	}
	if y.Sign() < 0 {
		return big.NewInt(0), nil
	}
	if limits.MaxBinomialK > 0 {
		maxK := new(big.Int).SetUint64(limits.MaxBinomialK)
		if y.Cmp(maxK) > 0 {
			return nil, ErrBinomialDomainError
		}
	}
	if !y.IsInt64() {
		return nil, ErrBinomialDomainError
	}
	k := y.Int64()

	if x.Sign() >= 0 {
		if x.Cmp(y) < 0 {
			return big.NewInt(0), nil
		}
		if !x.IsInt64() {
			return nil, ErrBinomialDomainError
		}
		result := new(big.Int).Binomial(x.Int64(), k)
		if err := checkMagnitude(result, limits, ErrBinomialDomainError); err != nil {
			return nil, err
		}
		return result, nil
	}

	// x < 0: C(x,y) = (-1)^y * C(y-x-1, y)
	n := new(big.Int).Sub(y, x)
	n.Sub(n, one)
	if !n.IsInt64() {
		return nil, ErrBinomialDomainError
	}
	result := new(big.Int).Binomial(n.Int64(), k)
	if y.Bit(0) == 1 {
		result.Neg(result)
	}
	if err := checkMagnitude(result, limits, ErrBinomialDomainError); err != nil {
		return nil, err
	}
	return result, nil
}
