package vm

import "math/big"

// Identity is the tagged-variant program identity of spec.md §3: either
// named-by-integer-id (a verified, cacheable program) or anonymous (a
// mining candidate whose results must not pollute the cache).
type Identity struct {
	named bool
	id    uint64
}

// NamedIdentity returns the identity for a verified, cacheable program.
func NamedIdentity(id uint64) Identity { return Identity{named: true, id: id} }

// AnonymousIdentity returns the identity for a mining candidate.
func AnonymousIdentity() Identity { return Identity{} }

// Runner pairs a program with an identity (component H). Immutable
// after construction; shared by reference so multiple seq call sites
// may reuse one loaded program, per spec.md §3's ownership notes.
type Runner struct {
	identity Identity
	Program  *Program
}

// NewRunner constructs a runner around a built program.
func NewRunner(identity Identity, program *Program) *Runner {
	return &Runner{identity: identity, Program: program}
}

// ID returns the runner's program id. Only meaningful if Named().
func (r *Runner) ID() uint64 { return r.identity.id }

// Named reports whether the runner has a verified, cacheable identity.
func (r *Runner) Named() bool { return r.identity.named }

// Run drives one evaluation for the given input (spec.md §4.7): a named
// runner consults the cache first; on a miss it evaluates fresh and, on
// success, inserts the result back into the cache.
func (r *Runner) Run(input *big.Int, limits Limits, cache *Cache, registry Registry, verbose bool) (*big.Int, uint64, error) {
	if r.Named() && cache != nil {
		if entry, ok := cache.Get(r.ID(), input); ok {
			return entry.Value, entry.Steps, nil
		}
	}
	output, steps, err := r.evaluate(input, limits, cache, registry, verbose)
	if err != nil {
		return nil, steps, err
	}
	if r.Named() && cache != nil {
		cache.Put(r.ID(), input, output, steps)
	}
	return output, steps, nil
}

// evaluate constructs a fresh execution state, writes input to address
// 0, runs the program's instruction list sequentially, and returns the
// value at address 0 on normal completion. It performs no caching of
// its own — callers (Run, and seq nodes) own the cache policy around it.
func (r *Runner) evaluate(input *big.Int, limits Limits, cache *Cache, registry Registry, verbose bool) (*big.Int, uint64, error) {
	mem := NewMemory()
	mem.Write(0, input)
	st := &ExecState{Memory: mem, Limits: limits, Cache: cache, Registry: registry, Verbose: verbose}
	if err := r.Program.Run(st); err != nil {
		return nil, st.Cycles, err
	}
	return mem.Read(0), st.Cycles, nil
}
