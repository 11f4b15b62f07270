package vm

// evalSeq implements the seq-node contract of spec.md §4.6: invoke
// another program as a subroutine whose single input/output is the
// current value at target.
func (n *Node) evalSeq(st *ExecState) error {
	if n.SeqRunner == nil {
		return &LinkError{ProgramID: n.SeqProgramID}
	}

	v, err := st.Memory.Get(n.SeqTarget, true, st.Limits)
	if err != nil {
		return err
	}
	if v.Sign() < 0 {
		return ErrEvalSequenceWithNegativeParameter
	}
	if err := checkMagnitude(v, st.Limits, ErrInputOutOfRange); err != nil {
		return err
	}

	if st.Cache != nil && n.SeqRunner.Named() {
		if entry, ok := st.Cache.Get(n.SeqRunner.ID(), v); ok {
			if err := st.Memory.Set(n.SeqTarget, entry.Value, st.Limits); err != nil {
				return err
			}
			st.Cycles += entry.Steps
			if st.Limits.MaxCycles > 0 && st.Cycles > st.Limits.MaxCycles {
				return ErrStepCountExceededLimit
			}
			return nil
		}
	}

	// Inherit the caller's remaining cycle budget rather than granting the
	// callee a fresh one, so recursion cannot bypass the original cap.
	callLimits := st.Limits
	if callLimits.MaxCycles > 0 {
		if st.Cycles >= callLimits.MaxCycles {
			return ErrStepCountExceededLimit
		}
		callLimits.MaxCycles -= st.Cycles
	}

	result, steps, err := n.SeqRunner.evaluate(v, callLimits, st.Cache, st.Registry, st.Verbose)
	if err != nil {
		return err
	}
	st.Cycles += steps
	if st.Limits.MaxCycles > 0 && st.Cycles > st.Limits.MaxCycles {
		return ErrStepCountExceededLimit
	}

	if err := checkMagnitude(result, st.Limits, ErrOutputOutOfRange); err != nil {
		return err
	}
	if err := st.Memory.Set(n.SeqTarget, result, st.Limits); err != nil {
		return err
	}

	if st.Cache != nil && n.SeqRunner.Named() {
		st.Cache.Put(n.SeqRunner.ID(), v, result, steps)
	}
	return nil
}
