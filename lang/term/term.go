// Package term implements the term-iterator convenience API of
// spec.md §6: repeatedly invoke a runner for inputs 0,1,2,…, collecting
// outputs into a finite sequence, stopping at the first erroring index.
package term

import (
	"fmt"
	"math/big"

	"github.com/loda-lang/loda-go/lang/vm"
)

// Error reports which index failed and with which error, per spec.md
// §7's "user-visible failure" description.
type Error struct {
	Index int
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("term %d: %v", e.Index, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Compute invokes runner for inputs 0..count-1 in order, returning the
// terms collected so far and a non-nil *Error the moment one fails.
func Compute(runner *vm.Runner, count int, limits vm.Limits, cache *vm.Cache, registry vm.Registry) ([]*big.Int, error) {
	terms := make([]*big.Int, 0, count)
	for n := 0; n < count; n++ {
		out, _, err := runner.Run(big.NewInt(int64(n)), limits, cache, registry, false)
		if err != nil {
			return terms, &Error{Index: n, Err: err}
		}
		terms = append(terms, out)
	}
	return terms, nil
}
