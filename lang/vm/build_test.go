package vm

import (
	"math/big"
	"testing"

	"github.com/loda-lang/loda-go/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSource(t *testing.T, src string) *Program {
	t.Helper()
	astProg, errs := parser.Parse("", src)
	require.Empty(t, errs)
	prog, err := Build(astProg, nil)
	require.NoError(t, err)
	return prog
}

func TestBuildFoldsLoopIntoTree(t *testing.T) {
	prog := buildSource(t, "mov $3,1\nlpb $0\n  sub $0,1\nlpe\nmov $0,$1\n")
	require.Len(t, prog.Nodes, 3)
	assert.Equal(t, KindCalc, prog.Nodes[0].Kind)
	require.Equal(t, KindLoop, prog.Nodes[1].Kind)
	assert.Len(t, prog.Nodes[1].Body, 1)
	assert.Equal(t, KindCalc, prog.Nodes[2].Kind)
}

func TestBuildDefaultLoopLength(t *testing.T) {
	prog := buildSource(t, "lpb $0\n  sub $0,1\nlpe\n")
	assert.Equal(t, int64(1), prog.Nodes[0].LoopLength.Value.Int64())
}

func TestBuildRejectsUnofficialFunctionWithoutRegistry(t *testing.T) {
	astProg, errs := parser.Parse("", "f11 $0\n")
	require.Empty(t, errs)
	_, err := Build(astProg, nil)
	require.Error(t, err)
}

func TestBuildAcceptsUnofficialFunctionServedByRegistry(t *testing.T) {
	astProg, errs := parser.Parse("", "f11 $0\n")
	require.Empty(t, errs)
	reg := MapRegistry{"f11": func(in []*big.Int) ([]*big.Int, error) {
		return []*big.Int{new(big.Int).Add(in[0], big.NewInt(1))}, nil
	}}
	prog, err := Build(astProg, reg)
	require.NoError(t, err)
	require.Len(t, prog.Nodes, 1)
	assert.Equal(t, KindUnofficial, prog.Nodes[0].Kind)
	assert.Equal(t, 1, prog.Nodes[0].FuncIn)
	assert.Equal(t, 1, prog.Nodes[0].FuncOut)
}
