package vm

// memOpRange resolves the half-open address range [first, second) a
// memory-op node acts on, from its already-resolved start and length
// values — grounded on original_source's node_memory_op.rs: start and
// length are ordinary parameter reads (not raw address literals); the
// resulting values are then interpreted directly as range endpoints.
func memOpRange(startVal, lengthVal int64) (first, second int64) {
	switch {
	case lengthVal > 0:
		return startVal, startVal + lengthVal
	case lengthVal < 0:
		return startVal + lengthVal + 1, startVal + 1
	default:
		return startVal, startVal
	}
}

// evalMemOp implements the memory-op node contract of spec.md §4.4:
// clear, fill, rotate-left, rotate-right, charging one cycle.
func (n *Node) evalMemOp(st *ExecState) error {
	startVal, err := st.Memory.Get(n.MemStart, true, st.Limits)
	if err != nil {
		return err
	}
	if !startVal.IsInt64() {
		return ErrCannotConvertBigIntToAddress
	}
	lengthVal, err := st.Memory.Get(n.MemLength, false, st.Limits)
	if err != nil {
		return err
	}
	if !lengthVal.IsInt64() {
		return ErrCannotConvertBigIntToAddress
	}

	first, second := memOpRange(startVal.Int64(), lengthVal.Int64())
	if first < 0 {
		return ErrAddressWithNegativeValue
	}
	rangeLen := uint64(second - first)
	if st.Limits.MaxLoopRangeLength > 0 && rangeLen > st.Limits.MaxLoopRangeLength {
		return ErrClearRangeLengthExceedsLimit
	}

	switch n.MemKind {
	case MemClear:
		for a := first; a < second; a++ {
			st.Memory.Write(uint64(a), zero)
		}
	case MemFill:
		for a := first; a < second; a++ {
			st.Memory.Write(uint64(a), startVal)
		}
	case MemRotateLeft:
		if first < second {
			leftmost := st.Memory.Read(uint64(first))
			for a := first; a < second-1; a++ {
				st.Memory.Write(uint64(a), st.Memory.Read(uint64(a+1)))
			}
			st.Memory.Write(uint64(second-1), leftmost)
		}
	case MemRotateRight:
		if first < second {
			rightmost := st.Memory.Read(uint64(second - 1))
			for a := second - 1; a > first; a-- {
				st.Memory.Write(uint64(a), st.Memory.Read(uint64(a-1)))
			}
			st.Memory.Write(uint64(first), rightmost)
		}
	}
	return st.tick()
}
