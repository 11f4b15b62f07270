package vm

// Program is an ordered sequence of nodes (component E): the sequential
// executor and the aggregator of the ids every seq node depends on.
type Program struct {
	Nodes []*Node
}

// Run executes the program's instruction list sequentially against st.
func (p *Program) Run(st *ExecState) error {
	for _, n := range p.Nodes {
		if err := n.Eval(st); err != nil {
			return err
		}
	}
	return nil
}

// DependencyIDs walks the program (recursing into loop bodies) and
// collects every program id referenced by a seq node, deduplicated.
func (p *Program) DependencyIDs() []uint64 {
	seen := make(map[uint64]bool)
	var ids []uint64
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			switch n.Kind {
			case KindSeq:
				if !seen[n.SeqProgramID] {
					seen[n.SeqProgramID] = true
					ids = append(ids, n.SeqProgramID)
				}
			case KindLoop:
				walk(n.Body)
			}
		}
	}
	walk(p.Nodes)
	return ids
}

// SeqNodes walks the program (recursing into loop bodies) and returns
// every seq node, for the dependency manager's link-installation pass.
func (p *Program) SeqNodes() []*Node {
	var out []*Node
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			if n.Kind == KindSeq {
				out = append(out, n)
			}
			if n.Kind == KindLoop {
				walk(n.Body)
			}
		}
	}
	walk(p.Nodes)
	return out
}
