package vm

import (
	"math/big"
	"testing"

	"github.com/loda-lang/loda-go/lang/parser"
	"github.com/stretchr/testify/require"
)

func runProgram(t *testing.T, src string, input int64, limits Limits, reg Registry) (*big.Int, error) {
	t.Helper()
	astProg, errs := parser.Parse("", src)
	require.Empty(t, errs)
	prog, err := Build(astProg, reg)
	require.NoError(t, err)
	runner := NewRunner(AnonymousIdentity(), prog)
	out, _, err := runner.Run(big.NewInt(input), limits, nil, reg, false)
	return out, err
}

const fibonacciSrc = `mov $3,1
lpb $0
  sub $0,1
  mov $2,$1
  add $1,$3
  mov $3,$2
lpe
mov $0,$1
`

func TestScenarioA_Fibonacci(t *testing.T) {
	want := []int64{0, 1, 1, 2, 3, 5, 8, 13, 21, 34}
	for n, w := range want {
		out, err := runProgram(t, fibonacciSrc, int64(n), FullLimits(), nil)
		require.NoError(t, err)
		require.Equal(t, big.NewInt(w), out, "n=%d", n)
	}
}

const powersOfTwoSrc = `mov $1,2
pow $1,$0
mov $0,$1
`

func TestScenarioB_PowersOfTwo(t *testing.T) {
	want := []int64{1, 2, 4, 8, 16, 32, 64, 128, 256, 512}
	for n, w := range want {
		out, err := runProgram(t, powersOfTwoSrc, int64(n), FullLimits(), nil)
		require.NoError(t, err)
		require.Equal(t, big.NewInt(w), out, "n=%d", n)
	}
}

func TestScenarioC_SeqComposition(t *testing.T) {
	astPow, errs := parser.Parse("", powersOfTwoSrc)
	require.Empty(t, errs)
	progPow, err := Build(astPow, nil)
	require.NoError(t, err)
	runnerPow := NewRunner(NamedIdentity(79), progPow)

	astCaller, errs := parser.Parse("", "seq $0,79\nsub $0,1\n")
	require.Empty(t, errs)
	progCaller, err := Build(astCaller, nil)
	require.NoError(t, err)
	for _, n := range progCaller.SeqNodes() {
		n.SeqRunner = runnerPow
	}
	runnerCaller := NewRunner(AnonymousIdentity(), progCaller)

	cache, err := NewCache(10)
	require.NoError(t, err)

	want := []int64{0, 1, 3, 7, 15, 31, 63, 127, 255, 511}
	for n, w := range want {
		out, _, err := runnerCaller.Run(big.NewInt(int64(n)), FullLimits(), cache, nil, false)
		require.NoError(t, err)
		require.Equal(t, big.NewInt(w), out, "n=%d", n)
	}
}

const integerSqrtSrc = `add $0,1
mov $3,$0
mul $3,-1
lpb $0
  sub $3,1
  add $1,2
  sub $0,$1
lpe
div $1,2
mov $0,$1
`

func TestScenarioD_LoopRollbackIntegerSqrt(t *testing.T) {
	want := []int64{0, 1, 1, 1, 2, 2, 2, 2, 2, 3, 3, 3, 3, 3, 3, 3, 4, 4, 4, 4}
	for n, w := range want {
		out, err := runProgram(t, integerSqrtSrc, int64(n), FullLimits(), nil)
		require.NoError(t, err)
		require.Equal(t, big.NewInt(w), out, "n=%d", n)
	}
}

func TestScenarioE_DivisionByZero(t *testing.T) {
	_, err := runProgram(t, "div $0,$1\n", 5, FullLimits(), nil)
	require.ErrorIs(t, err, ErrDivisionByZero)
}

func TestScenarioF_NegativeSeqInput(t *testing.T) {
	astPow, errs := parser.Parse("", powersOfTwoSrc)
	require.Empty(t, errs)
	progPow, err := Build(astPow, nil)
	require.NoError(t, err)
	runnerPow := NewRunner(NamedIdentity(79), progPow)

	astCaller, errs := parser.Parse("", "seq $0,79\n")
	require.Empty(t, errs)
	progCaller, err := Build(astCaller, nil)
	require.NoError(t, err)
	for _, n := range progCaller.SeqNodes() {
		n.SeqRunner = runnerPow
	}
	runnerCaller := NewRunner(AnonymousIdentity(), progCaller)

	_, _, err = runnerCaller.Run(big.NewInt(-1), FullLimits(), nil, nil, false)
	require.ErrorIs(t, err, ErrEvalSequenceWithNegativeParameter)
}
