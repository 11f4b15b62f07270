package vm

import (
	"math/big"

	"github.com/loda-lang/loda-go/lang/ast"
)

// Kind tags the shape of an instruction node. A tagged variant with a
// single Eval dispatcher is, per spec.md §9's design notes, the natural
// zero-cost representation — directly analogous to the teacher's own
// opcode-switch VM dispatch.
type Kind int

const (
	KindCalc Kind = iota
	KindMemOp
	KindLoop
	KindSeq
	KindUnofficial
)

// MemOpKind distinguishes the four memory-op node variants.
type MemOpKind int

const (
	MemClear MemOpKind = iota
	MemFill
	MemRotateLeft
	MemRotateRight
)

// Node is one instruction in the built program tree. Only the fields
// relevant to Kind are populated; see spec.md §4.4 for each shape's
// contract.
type Node struct {
	Kind Kind
	Line int

	// KindCalc
	CalcOp Op
	Target ast.Parameter
	Source ast.Parameter

	// KindMemOp
	MemKind   MemOpKind
	MemStart  ast.Parameter
	MemLength ast.Parameter

	// KindLoop
	LoopTarget ast.Parameter
	LoopLength ast.Parameter
	Body       []*Node

	// KindSeq
	SeqTarget    ast.Parameter
	SeqProgramID uint64
	SeqRunner    *Runner // installed by the dependency manager; nil until linked

	// KindUnofficial
	FuncID    string
	FuncStart ast.Parameter
	FuncIn    int
	FuncOut   int
}

// FunctionImpl is the shape an unofficial-function registry entry must
// implement: consume FuncIn values, produce FuncOut values or fail.
type FunctionImpl func(in []*big.Int) ([]*big.Int, error)

// Registry resolves unofficial-function identifiers to implementations.
// The core rejects a reference the registry cannot serve at program-build
// time (spec.md §6). See registry.go for the default stub.
type Registry interface {
	Lookup(id string) (FunctionImpl, bool)
}

// ExecState is the mutable state threaded through one top-level
// evaluation: live memory, the running cycle counter, the active policy
// limits, and the collaborators a seq or unofficial-function node needs.
type ExecState struct {
	Memory   *Memory
	Cycles   uint64
	Limits   Limits
	Verbose  bool
	Cache    *Cache
	Registry Registry
}

// tick charges one cycle and enforces the per-run cycle budget.
func (st *ExecState) tick() error {
	st.Cycles++
	if st.Limits.MaxCycles > 0 && st.Cycles > st.Limits.MaxCycles {
		return ErrStepCountExceededLimit
	}
	return nil
}

// Eval dispatches to the node's kind-specific evaluator.
func (n *Node) Eval(st *ExecState) error {
	switch n.Kind {
	case KindCalc:
		return n.evalCalc(st)
	case KindMemOp:
		return n.evalMemOp(st)
	case KindLoop:
		return n.evalLoop(st)
	case KindSeq:
		return n.evalSeq(st)
	case KindUnofficial:
		return n.evalUnofficial(st)
	default:
		return ErrUnsupportedInstruction
	}
}

// evalCalc implements the calc-node contract of spec.md §4.4: read
// target (writable), read source (read-only), compute, write back,
// charge one cycle.
func (n *Node) evalCalc(st *ExecState) error {
	x, err := st.Memory.Get(n.Target, true, st.Limits)
	if err != nil {
		return err
	}
	y, err := st.Memory.Get(n.Source, false, st.Limits)
	if err != nil {
		return err
	}
	result, err := Apply(n.CalcOp, x, y, st.Limits)
	if err != nil {
		return err
	}
	if err := st.Memory.Set(n.Target, result, st.Limits); err != nil {
		return err
	}
	return st.tick()
}

func (n *Node) evalUnofficial(st *ExecState) error {
	impl, ok := st.Registry.Lookup(n.FuncID)
	if !ok {
		return ErrUnsupportedInstruction
	}
	base, err := st.Memory.Address(n.FuncStart, st.Limits)
	if err != nil {
		return err
	}
	inputs := make([]*big.Int, n.FuncIn)
	for i := 0; i < n.FuncIn; i++ {
		inputs[i] = st.Memory.Read(base + uint64(i))
	}
	outputs, err := impl(inputs)
	if err != nil {
		return err
	}
	for i := 0; i < n.FuncOut && i < len(outputs); i++ {
		st.Memory.Write(base+uint64(i), outputs[i])
	}
	return st.tick()
}
