package mir

// ComputeCFG derives Preds/Succs for every block from its Terminator.
// Finalize calls it once a Func's blocks and terminators are fully built,
// and it must have run before Validate — the pass never adds or removes blocks, so the
// CFG is stable for the lifetime of one Symbolize run.
func (f *Func) ComputeCFG() {
	for i := range f.Blocks {
		f.Blocks[i].Succs = nil
		f.Blocks[i].Preds = nil
	}
	for i := range f.Blocks {
		succs := f.Blocks[i].Term.Successors()
		f.Blocks[i].Succs = succs
		from := f.Blocks[i].ID
		for _, s := range succs {
			if b := f.BlockByID(s); b != nil {
				b.Preds = append(b.Preds, from)
			}
		}
	}
}

// Dominance holds the immediate-dominator tree of one Func's CFG, computed
// by the standard iterative dataflow algorithm (Cooper, Harvey & Kennedy,
// "A Simple, Fast Dominance Algorithm").
type Dominance struct {
	idom     map[BlockID]BlockID
	rpo      []BlockID
	rpoIndex map[BlockID]int
}

// Finalize computes Preds/Succs and the dominator tree for f. Call once
// after f's blocks are fully constructed.
func (f *Func) Finalize() {
	f.ComputeCFG()
	f.dom = computeDominance(f)
}

// Dominates reports whether block a dominates block b (reflexively: a
// dominates itself).
func (f *Func) Dominates(a, b BlockID) bool {
	if f.dom == nil {
		return a == b
	}
	return f.dom.dominates(a, b)
}

// StrictlyDominates reports whether a dominates b and a != b.
func (f *Func) StrictlyDominates(a, b BlockID) bool {
	return a != b && f.Dominates(a, b)
}

func computeDominance(f *Func) *Dominance {
	rpo := reversePostorder(f)
	rpoIndex := make(map[BlockID]int, len(rpo))
	for i, id := range rpo {
		rpoIndex[id] = i
	}

	idom := make(map[BlockID]BlockID, len(rpo))
	if len(rpo) == 0 {
		return &Dominance{idom: idom, rpo: rpo, rpoIndex: rpoIndex}
	}
	entry := rpo[0]
	idom[entry] = entry

	changed := true
	for changed {
		changed = false
		for _, b := range rpo[1:] {
			blk := f.BlockByID(b)
			if blk == nil {
				continue
			}
			var newIdom BlockID
			has := false
			for _, p := range blk.Preds {
				if _, ok := idom[p]; !ok {
					continue
				}
				if !has {
					newIdom = p
					has = true
					continue
				}
				newIdom = intersect(idom, rpoIndex, newIdom, p)
			}
			if !has {
				continue
			}
			if prev, ok := idom[b]; !ok || prev != newIdom {
				idom[b] = newIdom
				changed = true
			}
		}
	}

	return &Dominance{idom: idom, rpo: rpo, rpoIndex: rpoIndex}
}

func intersect(idom map[BlockID]BlockID, order map[BlockID]int, a, b BlockID) BlockID {
	for a != b {
		for order[a] > order[b] {
			a = idom[a]
		}
		for order[b] > order[a] {
			b = idom[b]
		}
	}
	return a
}

func reversePostorder(f *Func) []BlockID {
	if len(f.Blocks) == 0 {
		return nil
	}
	visited := make(map[BlockID]bool, len(f.Blocks))
	var post []BlockID

	var visit func(id BlockID)
	visit = func(id BlockID) {
		if visited[id] {
			return
		}
		visited[id] = true
		if b := f.BlockByID(id); b != nil {
			for _, s := range b.Succs {
				visit(s)
			}
		}
		post = append(post, id)
	}
	visit(f.Entry)

	rpo := make([]BlockID, len(post))
	for i, id := range post {
		rpo[len(post)-1-i] = id
	}
	return rpo
}

func (d *Dominance) dominates(a, b BlockID) bool {
	if a == b {
		return true
	}
	cur, ok := d.idom[b]
	if !ok {
		return false
	}
	for {
		if cur == a {
			return true
		}
		next, ok := d.idom[cur]
		if !ok || next == cur {
			return cur == a
		}
		cur = next
	}
}
