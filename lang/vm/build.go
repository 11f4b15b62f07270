package vm

import (
	"fmt"

	"github.com/loda-lang/loda-go/lang/ast"
)

var calcOps = map[string]Op{
	"mov": OpMov, "add": OpAdd, "sub": OpSub, "trn": OpTrn, "mul": OpMul,
	"div": OpDiv, "dif": OpDif, "mod": OpMod, "pow": OpPow, "gcd": OpGcd,
	"bin": OpBin, "cmp": OpCmp, "min": OpMin, "max": OpMax,
}

var memOps = map[string]MemOpKind{
	"clr":  MemClear,
	"fill": MemFill,
	"lrol": MemRotateLeft,
	"lror": MemRotateRight,
}

// BuildError reports a structural problem discovered while folding a
// flat ast.Program into a node tree — a malformed parameter count or an
// unofficial-function reference the registry cannot serve.
type BuildError struct {
	Line int
	Msg  string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Build folds a flat, loop-balanced ast.Program (as produced by
// lang/parser) into a tree of *Node values, transforming each lpb…lpe
// span into a single KindLoop node per spec.md §4.3, and rejecting any
// unofficial-function reference the registry cannot serve per spec.md
// §6.
func Build(prog *ast.Program, registry Registry) (*Program, error) {
	if registry == nil {
		registry = EmptyRegistry{}
	}
	nodes, rest, err := buildUntil(prog.Instructions, registry, false)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, &BuildError{Line: rest[0].Line, Msg: "lpe without matching lpb"}
	}
	return &Program{Nodes: nodes}, nil
}

// buildUntil consumes instructions, folding lpb…lpe spans recursively,
// and stops (returning the remainder) at the first unmatched lpe when
// insideLoop is true.
func buildUntil(instrs []ast.Instruction, registry Registry, insideLoop bool) ([]*Node, []ast.Instruction, error) {
	var nodes []*Node
	for len(instrs) > 0 {
		instr := instrs[0]
		if instr.Opcode == "lpe" {
			if insideLoop {
				return nodes, instrs[1:], nil
			}
			return nil, nil, &BuildError{Line: instr.Line, Msg: "lpe without matching lpb"}
		}
		if instr.Opcode == "lpb" {
			if len(instr.Params) < 1 {
				return nil, nil, &BuildError{Line: instr.Line, Msg: "lpb requires a target parameter"}
			}
			lengthParam := ast.NewConstant(1)
			if len(instr.Params) >= 2 {
				lengthParam = instr.Params[1]
			}
			body, remainder, err := buildUntil(instrs[1:], registry, true)
			if err != nil {
				return nil, nil, err
			}
			nodes = append(nodes, &Node{
				Kind:       KindLoop,
				Line:       instr.Line,
				LoopTarget: instr.Params[0],
				LoopLength: lengthParam,
				Body:       body,
			})
			instrs = remainder
			continue
		}

		node, err := buildLeaf(instr, registry)
		if err != nil {
			return nil, nil, err
		}
		nodes = append(nodes, node)
		instrs = instrs[1:]
	}
	if insideLoop {
		return nil, nil, &BuildError{Line: 0, Msg: "unbalanced loop: lpb without matching lpe"}
	}
	return nodes, nil, nil
}

func buildLeaf(instr ast.Instruction, registry Registry) (*Node, error) {
	if op, ok := calcOps[instr.Opcode]; ok {
		if len(instr.Params) != 2 {
			return nil, &BuildError{Line: instr.Line, Msg: fmt.Sprintf("%s requires two parameters", instr.Opcode)}
		}
		return &Node{Kind: KindCalc, Line: instr.Line, CalcOp: op, Target: instr.Params[0], Source: instr.Params[1]}, nil
	}

	if memKind, ok := memOps[instr.Opcode]; ok {
		if len(instr.Params) != 2 {
			return nil, &BuildError{Line: instr.Line, Msg: fmt.Sprintf("%s requires two parameters", instr.Opcode)}
		}
		return &Node{Kind: KindMemOp, Line: instr.Line, MemKind: memKind, MemStart: instr.Params[0], MemLength: instr.Params[1]}, nil
	}

	if instr.Opcode == "seq" {
		if len(instr.Params) != 2 || instr.Params[1].Mode != ast.Constant {
			return nil, &BuildError{Line: instr.Line, Msg: "seq requires a target and a constant program id"}
		}
		if !instr.Params[1].Value.IsUint64() {
			return nil, &BuildError{Line: instr.Line, Msg: "seq program id out of range"}
		}
		return &Node{Kind: KindSeq, Line: instr.Line, SeqTarget: instr.Params[0], SeqProgramID: instr.Params[1].Value.Uint64()}, nil
	}

	if isUnofficialFunction(instr.Opcode) {
		if len(instr.Params) != 1 {
			return nil, &BuildError{Line: instr.Line, Msg: "unofficial function requires one parameter"}
		}
		if _, ok := registry.Lookup(instr.Opcode); !ok {
			return nil, &BuildError{Line: instr.Line, Msg: fmt.Sprintf("unofficial function %q is not served by the registry", instr.Opcode)}
		}
		return &Node{
			Kind:      KindUnofficial,
			Line:      instr.Line,
			FuncID:    instr.Opcode,
			FuncStart: instr.Params[0],
			FuncIn:    int(instr.Opcode[1] - '0'),
			FuncOut:   int(instr.Opcode[2] - '0'),
		}, nil
	}

	return nil, &BuildError{Line: instr.Line, Msg: fmt.Sprintf("unknown opcode %q", instr.Opcode)}
}

// isUnofficialFunction matches the f<in><out> naming convention used by
// lang/parser.
func isUnofficialFunction(opcode string) bool {
	if len(opcode) != 3 || opcode[0] != 'f' {
		return false
	}
	in, out := opcode[1], opcode[2]
	return in >= '1' && in <= '9' && out >= '1' && out <= '9'
}
