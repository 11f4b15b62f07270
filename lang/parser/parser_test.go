package parser

import (
	"testing"

	"github.com/loda-lang/loda-go/lang/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fibonacci = `mov $3,1
lpb $0
  sub $0,1
  mov $2,$1
  add $1,$3
  mov $3,$2
lpe
mov $0,$1
`

func TestParseFibonacci(t *testing.T) {
	prog, errs := Parse("a000045.asm", fibonacci)
	require.Empty(t, errs)
	require.NotNil(t, prog)
	assert.Equal(t, 8, len(prog.Instructions))
	assert.Equal(t, "mov", prog.Instructions[0].Opcode)
	assert.Equal(t, "lpb", prog.Instructions[1].Opcode)
	assert.Equal(t, "lpe", prog.Instructions[6].Opcode)
	assert.Equal(t, ast.Direct, prog.Instructions[0].Params[0].Mode)
	assert.Equal(t, ast.Constant, prog.Instructions[0].Params[1].Mode)
}

func TestParseUnbalancedLoop(t *testing.T) {
	_, errs := Parse("", "lpb $0\nadd $0,1\n")
	require.NotEmpty(t, errs)
}

func TestParseUnknownOpcode(t *testing.T) {
	_, errs := Parse("", "frobnicate $0\n")
	require.NotEmpty(t, errs)
}

func TestParseUnofficialFunction(t *testing.T) {
	prog, errs := Parse("", "f13 $0,7\n")
	require.Empty(t, errs)
	require.Len(t, prog.Instructions, 1)
	assert.Equal(t, "f13", prog.Instructions[0].Opcode)
}

func TestParseIndirectAndComments(t *testing.T) {
	prog, errs := Parse("", "; header\nadd $$1,$2 ; trailing\n")
	require.Empty(t, errs)
	require.Len(t, prog.Instructions, 1)
	assert.Equal(t, ast.Indirect, prog.Instructions[0].Params[0].Mode)
	assert.Equal(t, ast.Direct, prog.Instructions[0].Params[1].Mode)
}
