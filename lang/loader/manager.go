package loader

import (
	"fmt"

	"github.com/loda-lang/loda-go/internal/logx"
	"github.com/loda-lang/loda-go/lang/parser"
	"github.com/loda-lang/loda-go/lang/vm"
)

// Manager owns the set of loaded runners, keyed by program id. It is
// the only component that may load or link a program; seq nodes hold
// shared, non-owning references installed by Load, per spec.md §3's
// ownership notes.
type Manager struct {
	store    Store
	registry vm.Registry
	runners  map[uint64]*vm.Runner
	loading  map[uint64]bool // cycle-detection set, per spec.md §4.8 step 4
}

// NewManager constructs a Manager over the given backing store and
// unofficial-function registry (nil uses vm.EmptyRegistry{}).
func NewManager(store Store, registry vm.Registry) *Manager {
	if registry == nil {
		registry = vm.EmptyRegistry{}
	}
	return &Manager{
		store:    store,
		registry: registry,
		runners:  make(map[uint64]*vm.Runner),
		loading:  make(map[uint64]bool),
	}
}

// Load returns the shared runner for id, loading and linking it (and
// its transitive dependencies) on first request.
func (m *Manager) Load(id uint64) (*vm.Runner, error) {
	if r, ok := m.runners[id]; ok {
		return r, nil
	}
	if m.loading[id] {
		return nil, &DependencyCycleError{ID: id}
	}
	m.loading[id] = true
	defer delete(m.loading, id)

	logx.Debug("loda: loading program", "id", id)
	text, err := m.store.Load(id)
	if err != nil {
		return nil, err
	}

	astProg, parseErrs := parser.Parse(fmt.Sprintf("%d", id), text)
	if len(parseErrs) > 0 {
		return nil, &ParseErrors{ID: id, Errors: parseErrs}
	}

	prog, err := vm.Build(astProg, m.registry)
	if err != nil {
		return nil, fmt.Errorf("loda: building program %d: %w", id, err)
	}

	for _, depID := range prog.DependencyIDs() {
		if _, err := m.Load(depID); err != nil {
			return nil, err
		}
	}

	for _, node := range prog.SeqNodes() {
		dep, ok := m.runners[node.SeqProgramID]
		if !ok {
			return nil, fmt.Errorf("loda: program %d: dependency %d not loaded", id, node.SeqProgramID)
		}
		node.SeqRunner = dep
	}

	runner := vm.NewRunner(vm.NamedIdentity(id), prog)
	m.runners[id] = runner
	logx.Info("loda: loaded program", "id", id, "dependencies", len(prog.DependencyIDs()))
	return runner, nil
}

// Validate confirms every seq node reachable from runner reports an
// established link, per spec.md §8 invariant 7 ("link completeness").
func Validate(runner *vm.Runner) error {
	for _, node := range runner.Program.SeqNodes() {
		if node.SeqRunner == nil {
			return fmt.Errorf("loda: seq node referencing program %d is unlinked", node.SeqProgramID)
		}
	}
	return nil
}

// DependencyCycleError reports a cycle found while resolving seq
// references during loading.
type DependencyCycleError struct {
	ID uint64
}

func (e *DependencyCycleError) Error() string {
	return fmt.Sprintf("loda: dependency cycle detected loading program %d", e.ID)
}

// ParseErrors bundles the parser's line-numbered diagnostics for one
// loaded program id.
type ParseErrors struct {
	ID     uint64
	Errors []error
}

func (e *ParseErrors) Error() string {
	return fmt.Sprintf("loda: program %d failed to parse (%d error(s))", e.ID, len(e.Errors))
}
