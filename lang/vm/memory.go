package vm

import (
	"math/big"

	"github.com/loda-lang/loda-go/lang/ast"
)

// Memory is the sparse address-to-value mapping of spec component B.
// Absent addresses read as zero; writing zero drops the entry so the
// map stays proportional to the live working set, matching the
// teacher's allocation-tracking memory model adapted to a sparse
// big-integer address space instead of a flat byte array.
type Memory struct {
	cells map[uint64]*big.Int
}

// NewMemory returns an empty memory, all addresses reading as zero.
func NewMemory() *Memory {
	return &Memory{cells: make(map[uint64]*big.Int)}
}

// Read returns the value stored at addr, or zero if absent.
func (m *Memory) Read(addr uint64) *big.Int {
	if v, ok := m.cells[addr]; ok {
		return new(big.Int).Set(v)
	}
	return big.NewInt(0)
}

// Write stores v at addr, dropping the entry if v is zero.
func (m *Memory) Write(addr uint64, v *big.Int) {
	if v.Sign() == 0 {
		delete(m.cells, addr)
		return
	}
	m.cells[addr] = new(big.Int).Set(v)
}

// Snapshot returns an independent deep copy, used by the loop executor
// to capture state before each body iteration.
func (m *Memory) Snapshot() *Memory {
	cp := make(map[uint64]*big.Int, len(m.cells))
	for k, v := range m.cells {
		cp[k] = new(big.Int).Set(v)
	}
	return &Memory{cells: cp}
}

// Restore replaces this memory's contents with other's, in place, so
// that existing references to this *Memory observe the rollback.
func (m *Memory) Restore(other *Memory) {
	m.cells = other.Snapshot().cells
}

// toAddress resolves a parameter's raw value into a bounded, non-negative
// memory address.
func (m *Memory) toAddress(v *big.Int, limits Limits) (uint64, error) {
	if v.Sign() < 0 {
		return 0, ErrAddressWithNegativeValue
	}
	if !v.IsUint64() {
		return 0, ErrCannotConvertBigIntToAddress
	}
	addr := v.Uint64()
	if limits.MaxAddress > 0 && addr > limits.MaxAddress {
		return 0, ErrAddressIsOutsideMaxCapacity
	}
	return addr, nil
}

// resolveAddress turns a Direct or Indirect parameter into the single
// address it denotes (§3): Direct($k) is address k; Indirect($$k) is the
// address obtained by reading memory at address k and converting that
// value to an address. Constant has no address at all.
func (m *Memory) resolveAddress(p ast.Parameter, limits Limits) (uint64, error) {
	switch p.Mode {
	case ast.Direct:
		return m.toAddress(p.Value, limits)
	case ast.Indirect:
		k, err := m.toAddress(p.Value, limits)
		if err != nil {
			return 0, err
		}
		return m.toAddress(m.Read(k), limits)
	default:
		return 0, ErrCannotGetAddressOfConstant
	}
}

// Get resolves parameter p according to its addressing mode (§3) and
// returns the value it denotes. If mustBeWritable is true, Constant mode
// is rejected with ErrCannotGetAddressOfConstant.
func (m *Memory) Get(p ast.Parameter, mustBeWritable bool, limits Limits) (*big.Int, error) {
	if p.Mode == ast.Constant {
		if mustBeWritable {
			return nil, ErrCannotGetAddressOfConstant
		}
		return new(big.Int).Set(p.Value), nil
	}
	addr, err := m.resolveAddress(p, limits)
	if err != nil {
		return nil, err
	}
	return m.Read(addr), nil
}

// Set writes v to the address implied by parameter p. Constant mode
// yields ErrCannotSetValueOfConstant.
func (m *Memory) Set(p ast.Parameter, v *big.Int, limits Limits) error {
	if p.Mode == ast.Constant {
		return ErrCannotSetValueOfConstant
	}
	addr, err := m.resolveAddress(p, limits)
	if err != nil {
		return err
	}
	m.Write(addr, v)
	return nil
}

// Address resolves a Direct or Indirect parameter to the address it
// denotes, used by loop and unofficial-function nodes that need the address
// itself rather than Get's value. Constant mode is rejected.
func (m *Memory) Address(p ast.Parameter, limits Limits) (uint64, error) {
	return m.resolveAddress(p, limits)
}

// IsStrictlyLess implements the §4.5 "strictly less" relation: scanning
// the length-len ranges starting at startSelf (in m) and startOther (in
// other) from the high-order cell down to the low-order one, the first
// index at which the two differ decides the result; if every cell is
// equal, the relation is false. A negative cell in m met during the scan
// also makes the relation false, so a loop counter that drops below zero
// ends the loop.
func (m *Memory) IsStrictlyLess(other *Memory, startSelf, startOther, length uint64) bool {
	for i := length; i > 0; i-- {
		idx := i - 1
		a := m.Read(startSelf + idx)
		if a.Sign() < 0 {
			return false
		}
		b := other.Read(startOther + idx)
		if cmp := a.Cmp(b); cmp != 0 {
			return cmp < 0
		}
	}
	return false
}
