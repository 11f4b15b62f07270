package vm

// Limits bundles the bounded-cost policy (spec component K). All fields
// are adjustable by the caller; DefaultLimits matches the "mining mode"
// defaults spec.md §5 describes.
type Limits struct {
	// MagnitudeBits caps the bit-length of any value entering or leaving
	// an arithmetic operation. 0 means unbounded.
	MagnitudeBits uint

	// MaxCycles caps the per-run cycle (step) count.
	MaxCycles uint64

	// MaxLoopIterations caps iterations of any single loop node.
	MaxLoopIterations uint64

	// MaxLoopRangeLength caps the length of the range a loop compares.
	MaxLoopRangeLength uint64

	// MaxAddress caps the highest usable memory address.
	MaxAddress uint64

	// MaxPowerExponentBits caps the bit-length of a pow exponent before
	// the operation is attempted, to avoid constructing an astronomically
	// large intermediate result.
	MaxPowerExponentBits uint

	// MaxBinomialK caps the magnitude of a bin operation's second operand.
	MaxBinomialK uint64
}

// DefaultLimits returns the spec's "mining mode" defaults: small
// magnitude cap, generous but finite cycle/iteration budgets.
func DefaultLimits() Limits {
	return Limits{
		MagnitudeBits:        32,
		MaxCycles:            10_000_000,
		MaxLoopIterations:    1_000_000,
		MaxLoopRangeLength:   1 << 20,
		MaxAddress:           1 << 20,
		MaxPowerExponentBits: 32,
		MaxBinomialK:         1_000_000,
	}
}

// FullLimits returns limits with magnitude checks disabled, matching
// spec.md §4.1's "unlimited for full mode".
func FullLimits() Limits {
	l := DefaultLimits()
	l.MagnitudeBits = 0
	return l
}
