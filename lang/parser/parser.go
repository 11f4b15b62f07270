// Package parser turns LODA program text into a flat ast.Program,
// validating loop balance and collecting line-numbered errors instead
// of stopping at the first one — the same error-collecting shape as
// the teacher's own Pratt parser, simplified to a line-oriented grammar.
package parser

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/loda-lang/loda-go/lang/ast"
	"github.com/loda-lang/loda-go/lang/lexer"
	"github.com/loda-lang/loda-go/lang/token"
)

// maxLoopDepth bounds lpb/lpe nesting, per spec's loop-nesting-depth cap.
const maxLoopDepth = 255

// opcodes is the closed set of recognized instruction names. Unofficial
// functions (f<in><out>) are matched separately by pattern.
var opcodes = map[string]bool{
	"mov": true, "add": true, "sub": true, "trn": true, "mul": true,
	"div": true, "dif": true, "mod": true, "pow": true, "gcd": true,
	"bin": true, "cmp": true, "min": true, "max": true,
	"lpb": true, "lpe": true,
	"clr": true, "fill": true, "lrol": true, "lror": true,
	"seq": true,
}

// Error is a parse-time diagnostic with a source position.
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Parser consumes a token stream and builds an ast.Program.
type Parser struct {
	lex    *lexer.Lexer
	cur    token.Token
	peek   token.Token
	errors []error
}

// New creates a Parser over source text, attributing diagnostics to file.
func New(file, source string) *Parser {
	p := &Parser{lex: lexer.New(file, source)}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.lex.NextToken()
}

func (p *Parser) errorf(pos token.Position, format string, args ...interface{}) {
	p.errors = append(p.errors, &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)})
}

// Parse tokenizes and parses source in one call, returning the flat
// program and any accumulated errors. The program is nil if any parse
// error occurred.
func Parse(file, source string) (*ast.Program, []error) {
	p := New(file, source)
	return p.ParseProgram()
}

// ParseProgram parses the full token stream into a flat ast.Program.
func (p *Parser) ParseProgram() (*ast.Program, []error) {
	prog := &ast.Program{}
	depth := 0

	for p.cur.Type != token.EOF {
		switch p.cur.Type {
		case token.NEWLINE, token.COMMENT:
			p.next()
			continue
		case token.IDENT:
			instr, ok := p.parseInstruction()
			if !ok {
				p.skipToNewline()
				continue
			}
			switch instr.Opcode {
			case "lpb":
				depth++
				if depth > maxLoopDepth {
					p.errorf(token.Position{Line: instr.Line}, "loop nesting exceeds maximum depth of %d", maxLoopDepth)
				}
			case "lpe":
				depth--
				if depth < 0 {
					p.errorf(token.Position{Line: instr.Line}, "lpe without matching lpb")
					depth = 0
				}
			}
			prog.Instructions = append(prog.Instructions, instr)
		default:
			p.errorf(p.cur.Pos, "unexpected token %q", p.cur.Literal)
			p.skipToNewline()
		}
	}

	if depth != 0 {
		p.errorf(p.cur.Pos, "unbalanced loop: %d lpb without matching lpe", depth)
	}

	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return prog, nil
}

func (p *Parser) skipToNewline() {
	for p.cur.Type != token.NEWLINE && p.cur.Type != token.EOF {
		p.next()
	}
}

func (p *Parser) parseInstruction() (ast.Instruction, bool) {
	opTok := p.cur
	opcode := strings.ToLower(opTok.Literal)
	if !opcodes[opcode] && !isUnofficialFunction(opcode) {
		p.errorf(opTok.Pos, "unknown opcode %q", opTok.Literal)
		return ast.Instruction{}, false
	}
	p.next()

	var params []ast.Parameter
	for p.cur.Type != token.NEWLINE && p.cur.Type != token.EOF && p.cur.Type != token.COMMENT {
		param, ok := p.parseParameter()
		if !ok {
			return ast.Instruction{}, false
		}
		params = append(params, param)
		if p.cur.Type == token.COMMA {
			p.next()
			continue
		}
		break
	}

	return ast.Instruction{Opcode: opcode, Params: params, Line: opTok.Pos.Line}, true
}

func (p *Parser) parseParameter() (ast.Parameter, bool) {
	switch p.cur.Type {
	case token.NUMBER:
		v, ok := new(big.Int).SetString(p.cur.Literal, 10)
		if !ok {
			p.errorf(p.cur.Pos, "malformed integer literal %q", p.cur.Literal)
			return ast.Parameter{}, false
		}
		p.next()
		return ast.Parameter{Mode: ast.Constant, Value: v}, true
	case token.DOLLAR:
		p.next()
		if p.cur.Type != token.NUMBER {
			p.errorf(p.cur.Pos, "expected register number after $")
			return ast.Parameter{}, false
		}
		v, ok := new(big.Int).SetString(p.cur.Literal, 10)
		if !ok || v.Sign() < 0 {
			p.errorf(p.cur.Pos, "malformed register number %q", p.cur.Literal)
			return ast.Parameter{}, false
		}
		p.next()
		return ast.Parameter{Mode: ast.Direct, Value: v}, true
	case token.DOLLARDOLLAR:
		p.next()
		if p.cur.Type != token.NUMBER {
			p.errorf(p.cur.Pos, "expected register number after $$")
			return ast.Parameter{}, false
		}
		v, ok := new(big.Int).SetString(p.cur.Literal, 10)
		if !ok || v.Sign() < 0 {
			p.errorf(p.cur.Pos, "malformed register number %q", p.cur.Literal)
			return ast.Parameter{}, false
		}
		p.next()
		return ast.Parameter{Mode: ast.Indirect, Value: v}, true
	default:
		p.errorf(p.cur.Pos, "expected a parameter, got %q", p.cur.Literal)
		return ast.Parameter{}, false
	}
}

// isUnofficialFunction matches the f<in><out> naming convention, where
// in, out are single digits in [1..9].
func isUnofficialFunction(opcode string) bool {
	if len(opcode) != 3 || opcode[0] != 'f' {
		return false
	}
	in, out := opcode[1], opcode[2]
	return in >= '1' && in <= '9' && out >= '1' && out <= '9'
}
