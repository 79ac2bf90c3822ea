package ir

// DomTree is the dominator tree of the blocks reachable from the entry
// block of a function.
type DomTree struct {
	// Idom maps each reachable block to its immediate dominator.
	// The entry block maps to nil.
	Idom map[*Block]*Block

	// Children lists the blocks each block immediately dominates,
	// in reverse post-order.
	Children map[*Block][]*Block

	// Preds lists the reachable predecessors of each reachable block,
	// in function block order.
	Preds map[*Block][]*Block

	order []*Block
	num   map[*Block]int
}

// ReversePostOrder returns the blocks of f reachable from the entry block
// in reverse post-order.
func ReversePostOrder(f *Func) []*Block {
	entry := f.Entry()
	if entry == nil {
		return nil
	}

	visited := make(map[*Block]bool, len(f.Blocks))
	var order []*Block

	var dfs func(b *Block)
	dfs = func(b *Block) {
		visited[b] = true
		for _, name := range b.Succs() {
			if s := f.Block(name); s != nil && !visited[s] {
				dfs(s)
			}
		}
		order = append(order, b)
	}
	dfs(entry)

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order
}

// ComputeDom computes the dominator tree of f using Cooper, Harvey and
// Kennedy's "A Simple, Fast Dominance Algorithm".
func ComputeDom(f *Func) *DomTree {
	d := &DomTree{
		Idom:     make(map[*Block]*Block),
		Children: make(map[*Block][]*Block),
		Preds:    make(map[*Block][]*Block),
		order:    ReversePostOrder(f),
		num:      make(map[*Block]int),
	}
	if len(d.order) == 0 {
		return d
	}

	for i, b := range d.order {
		d.num[b] = i
	}

	for _, b := range f.Blocks {
		if !d.Reachable(b) {
			continue
		}
		for _, name := range b.Succs() {
			if s := f.Block(name); s != nil {
				d.Preds[s] = appendUnique(d.Preds[s], b)
			}
		}
	}

	intersect := func(b1, b2 *Block) *Block {
		for b1 != b2 {
			for d.num[b1] > d.num[b2] {
				b1 = d.Idom[b1]
			}
			for d.num[b2] > d.num[b1] {
				b2 = d.Idom[b2]
			}
		}
		return b1
	}

	// The entry block is its own dominator until the fixed point is reached.
	entry := d.order[0]
	d.Idom[entry] = entry

	for changed := true; changed; {
		changed = false

		for _, b := range d.order[1:] {
			var idom *Block
			for _, p := range d.Preds[b] {
				if d.Idom[p] == nil {
					continue
				}
				if idom == nil {
					idom = p
				} else {
					idom = intersect(p, idom)
				}
			}

			if idom != nil && d.Idom[b] != idom {
				d.Idom[b] = idom
				changed = true
			}
		}
	}

	d.Idom[entry] = nil

	for _, b := range d.order[1:] {
		if p := d.Idom[b]; p != nil {
			d.Children[p] = append(d.Children[p], b)
		}
	}

	return d
}

// Order returns the reachable blocks in reverse post-order.
func (d *DomTree) Order() []*Block { return d.order }

// Reachable reports whether b is reachable from the entry block.
func (d *DomTree) Reachable(b *Block) bool {
	_, ok := d.num[b]
	return ok
}

// Dominates reports whether a dominates b. Every block dominates itself.
func (d *DomTree) Dominates(a, b *Block) bool {
	if !d.Reachable(a) || !d.Reachable(b) {
		return false
	}

	for ; b != nil; b = d.Idom[b] {
		if b == a {
			return true
		}
	}
	return false
}

// Frontier returns the dominance frontier of every reachable block.
func (d *DomTree) Frontier() map[*Block][]*Block {
	df := make(map[*Block][]*Block)

	for _, b := range d.order {
		preds := d.Preds[b]
		if len(preds) < 2 {
			continue
		}

		for _, p := range preds {
			for runner := p; runner != nil && runner != d.Idom[b]; runner = d.Idom[runner] {
				df[runner] = appendUnique(df[runner], b)
			}
		}
	}

	return df
}

func appendUnique(list []*Block, b *Block) []*Block {
	for _, x := range list {
		if x == b {
			return list
		}
	}
	return append(list, b)
}
