package vm

// evalLoop implements the fixed-point loop protocol of spec.md §4.5,
// grounded on original_source's node_loop_slow.rs: the critical
// behavior is that each iteration's comparison baseline is that same
// iteration's pre-body snapshot, not the original first one — the loop
// re-snapshots every time it decides to continue.
func (n *Node) evalLoop(st *ExecState) error {
	if err := st.tick(); err != nil { // lpb itself charges one cycle on entry
		return err
	}

	targetAddr, err := st.Memory.Address(n.LoopTarget, st.Limits)
	if err != nil {
		return err
	}
	lengthVal, err := st.Memory.Get(n.LoopLength, false, st.Limits)
	if err != nil {
		return err
	}
	if lengthVal.Sign() <= 0 {
		return nil // no-op per §4.5 step 1
	}
	if !lengthVal.IsUint64() {
		return ErrLoopRangeLengthExceededLimit
	}
	length0 := lengthVal.Uint64()
	if st.Limits.MaxLoopRangeLength > 0 && length0 > st.Limits.MaxLoopRangeLength {
		return ErrLoopRangeLengthExceededLimit
	}

	snapshot := st.Memory.Snapshot()
	snapshotTargetAddr := targetAddr

	var iterations uint64
	for {
		for _, body := range n.Body {
			if err := body.Eval(st); err != nil {
				return err
			}
		}
		iterations++
		if st.Limits.MaxLoopIterations > 0 && iterations > st.Limits.MaxLoopIterations {
			return ErrLoopCountExceededLimit
		}

		newTargetAddr, err := st.Memory.Address(n.LoopTarget, st.Limits)
		if err != nil {
			return err
		}
		newLengthVal, err := st.Memory.Get(n.LoopLength, false, st.Limits)
		if err != nil {
			return err
		}
		var newLength uint64
		if newLengthVal.Sign() > 0 {
			if !newLengthVal.IsUint64() {
				return ErrLoopRangeLengthExceededLimit
			}
			newLength = newLengthVal.Uint64()
		}

		compareLength := length0
		if newLength < compareLength {
			compareLength = newLength
		}
		if st.Limits.MaxLoopRangeLength > 0 && compareLength > st.Limits.MaxLoopRangeLength {
			return ErrLoopRangeLengthExceededLimit
		}

		if st.Memory.IsStrictlyLess(snapshot, newTargetAddr, snapshotTargetAddr, compareLength) {
			snapshot = st.Memory.Snapshot()
			snapshotTargetAddr = newTargetAddr
			length0 = compareLength
			continue
		}

		// Not strictly less: roll back memory to the pre-iteration
		// snapshot but keep the cycle counter that has accrued.
		st.Memory.Restore(snapshot)
		return nil
	}
}
