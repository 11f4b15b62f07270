package loader

import (
	"math/big"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/loda-lang/loda-go/lang/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerLoadsAndLinksDependencies(t *testing.T) {
	store := VirtualStore{
		79: "mov $1,2\npow $1,$0\nmov $0,$1\n",
		80: "seq $0,79\nsub $0,1\n",
	}
	mgr := NewManager(store, nil)

	runner, err := mgr.Load(80)
	require.NoError(t, err)
	require.NoError(t, Validate(runner), spew.Sdump(runner.Program))

	out, _, err := runner.Run(big.NewInt(5), vm.FullLimits(), nil, nil, false)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(31), out)
}

func TestManagerDetectsCycle(t *testing.T) {
	store := VirtualStore{
		1: "seq $0,2\n",
		2: "seq $0,1\n",
	}
	mgr := NewManager(store, nil)
	_, err := mgr.Load(1)
	require.Error(t, err)
}

func TestManagerReusesLoadedRunner(t *testing.T) {
	store := VirtualStore{
		79: "mov $1,2\npow $1,$0\nmov $0,$1\n",
		80: "seq $0,79\n",
		81: "seq $0,79\nadd $0,1\n",
	}
	mgr := NewManager(store, nil)
	r80, err := mgr.Load(80)
	require.NoError(t, err)
	r81, err := mgr.Load(81)
	require.NoError(t, err)
	r79again, err := mgr.Load(79)
	require.NoError(t, err)

	seqIn80 := r80.Program.SeqNodes()[0].SeqRunner
	seqIn81 := r81.Program.SeqNodes()[0].SeqRunner
	assert.Same(t, r79again, seqIn80, "both callers must share the one loaded runner")
	assert.Same(t, r79again, seqIn81)
}

func TestManagerReportsNotFound(t *testing.T) {
	mgr := NewManager(VirtualStore{}, nil)
	_, err := mgr.Load(42)
	require.Error(t, err)
	var nf *ErrNotFound
	require.ErrorAs(t, err, &nf)
}
