package vm

import (
	"math/big"
	"testing"

	"github.com/loda-lang/loda-go/lang/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSeqAnonymousCalleeDoesNotReadOrPolluteCache guards against an
// anonymous seq callee (id 0) reading a cache entry left behind by an
// unrelated named program that happens to share id 0, and against the
// anonymous callee's own result being inserted into the cache.
func TestSeqAnonymousCalleeDoesNotReadOrPolluteCache(t *testing.T) {
	cache, err := NewCache(10)
	require.NoError(t, err)
	cache.Put(0, big.NewInt(5), big.NewInt(999), 1)

	astDouble, errs := parser.Parse("", "add $0,$0\n")
	require.Empty(t, errs)
	progDouble, err := Build(astDouble, nil)
	require.NoError(t, err)
	anonDouble := NewRunner(AnonymousIdentity(), progDouble)

	astCaller, errs := parser.Parse("", "seq $0,0\n")
	require.Empty(t, errs)
	progCaller, err := Build(astCaller, nil)
	require.NoError(t, err)
	for _, n := range progCaller.SeqNodes() {
		n.SeqRunner = anonDouble
	}
	runnerCaller := NewRunner(AnonymousIdentity(), progCaller)

	out, _, err := runnerCaller.Run(big.NewInt(5), FullLimits(), cache, nil, false)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(10), out, "must compute 5+5, not read the unrelated id-0 cache entry")

	entry, ok := cache.Get(0, big.NewInt(5))
	require.True(t, ok, "the pre-existing entry must survive untouched")
	assert.Equal(t, big.NewInt(999), entry.Value, "anonymous callee must not overwrite the cache")
}
