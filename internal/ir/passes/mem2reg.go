package passes

import (
	"strconv"

	"tlog.app/go/errors"

	"github.com/you-not-fish/minic/internal/ir"
)

func init() {
	Register(2, Pass{Name: "mem2reg", Fn: Mem2Reg})
}

// Mem2Reg promotes stack slots to values by inserting phi instructions
// and renaming loads. A slot is promoted when it is only loaded from and
// stored to. Every block must be reachable; run deadcode first.
//
// Phis are named after their slot: the phis of %x are %x.0, %x.1 and so
// on. Source names cannot contain '.', so the names are fresh.
func Mem2Reg(f *ir.Func) error {
	dom := ir.ComputeDom(f)
	if len(dom.Order()) != len(f.Blocks) {
		return errors.New("%d unreachable blocks", len(f.Blocks)-len(dom.Order()))
	}

	slots := promotable(f)
	if len(slots) == 0 {
		return nil
	}

	phis := insertPhis(f, dom, slots)

	repl := rename(f, dom, slots, phis)

	removeTrivialPhis(f, repl)

	cleanup(f, slots, repl)

	return nil
}

// slot is a promotable stack slot.
type slot struct {
	name string
	typ  ir.Type
	defs []*ir.Block // blocks storing to the slot
}

// promotable returns the slots of f that are only used as the address
// of loads and stores, in order of first allocation.
func promotable(f *ir.Func) []*slot {
	var order []*slot
	slots := map[string]*slot{}
	bad := map[string]bool{}

	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			if in.Op != ir.OpAlloca || in.Result == nil {
				continue
			}
			if _, ok := slots[in.Result.Name]; ok {
				continue
			}
			s := &slot{name: in.Result.Name, typ: in.Result.Typ}
			slots[s.name] = s
			order = append(order, s)
		}
	}

	for _, b := range f.Blocks {
		for _, in := range b.Instrs {
			if r := in.Result; r != nil && in.Op != ir.OpAlloca && slots[r.Name] != nil {
				bad[r.Name] = true // a temporary shares the slot's name
			}

			for i, a := range in.Args {
				id, ok := a.(*ir.Ident)
				if !ok || slots[id.Name] == nil {
					continue
				}

				switch {
				case in.Op == ir.OpLoad && i == 0:
				case in.Op == ir.OpStore && i == 1:
					s := slots[id.Name]
					if len(s.defs) == 0 || s.defs[len(s.defs)-1] != b {
						s.defs = append(s.defs, b)
					}
				default:
					bad[id.Name] = true
				}
			}
		}
	}

	var res []*slot
	for _, s := range order {
		if !bad[s.name] {
			res = append(res, s)
		}
	}
	return res
}

// insertPhis places an empty phi for each slot at the iterated dominance
// frontier of the blocks storing to it. Phis of one block follow slot order.
func insertPhis(f *ir.Func, dom *ir.DomTree, slots []*slot) map[*ir.Block]map[string]*ir.Instr {
	df := dom.Frontier()
	phis := map[*ir.Block]map[string]*ir.Instr{}
	front := map[*ir.Block][]*ir.Instr{}

	for _, s := range slots {
		n := 0

		for _, b := range iteratedFrontier(s.defs, df) {
			phi := &ir.Instr{
				Op:     ir.OpPhi,
				Result: ir.NewIdent(s.name+"."+strconv.Itoa(n), s.typ),
			}
			n++

			if phis[b] == nil {
				phis[b] = map[string]*ir.Instr{}
			}
			phis[b][s.name] = phi
			front[b] = append(front[b], phi)
		}
	}

	for b, list := range front {
		b.Instrs = append(list, b.Instrs...)
	}

	return phis
}

// iteratedFrontier returns the iterated dominance frontier of defs in
// discovery order.
func iteratedFrontier(defs []*ir.Block, df map[*ir.Block][]*ir.Block) []*ir.Block {
	var res []*ir.Block
	in := map[*ir.Block]bool{}

	work := append([]*ir.Block(nil), defs...)
	queued := map[*ir.Block]bool{}
	for _, b := range defs {
		queued[b] = true
	}

	for len(work) > 0 {
		b := work[0]
		work = work[1:]

		for _, d := range df[b] {
			if in[d] {
				continue
			}
			in[d] = true
			res = append(res, d)

			if !queued[d] {
				queued[d] = true
				work = append(work, d)
			}
		}
	}

	return res
}

// rename walks the dominator tree in preorder tracking the reaching value
// of every slot. Loads are mapped to their reaching value in the returned
// table; phi operands are filled from each predecessor.
func rename(f *ir.Func, dom *ir.DomTree, slots []*slot, phis map[*ir.Block]map[string]*ir.Instr) map[string]ir.Value {
	repl := map[string]ir.Value{}
	stacks := map[string][]ir.Value{}

	for _, s := range slots {
		stacks[s.name] = []ir.Value{zero(s.typ)}
	}

	resolve := func(v ir.Value) ir.Value {
		return resolveValue(repl, v)
	}

	var visit func(b *ir.Block)
	visit = func(b *ir.Block) {
		pushed := map[string]int{}

		for _, in := range b.Instrs {
			switch {
			case in.Op == ir.OpPhi:
				for name, phi := range phis[b] {
					if phi == in {
						stacks[name] = append(stacks[name], in.Result)
						pushed[name]++
					}
				}

			case in.Op == ir.OpLoad && isSlot(stacks, in.Args[0]):
				name := in.Args[0].(*ir.Ident).Name
				st := stacks[name]
				repl[in.Result.Name] = st[len(st)-1]

			case in.Op == ir.OpStore && len(in.Args) == 2 && isSlot(stacks, in.Args[1]):
				name := in.Args[1].(*ir.Ident).Name
				stacks[name] = append(stacks[name], resolve(in.Args[0]))
				pushed[name]++
			}
		}

		for _, succ := range b.Succs() {
			sb := f.Block(succ)

			for _, s := range slots {
				phi := phis[sb][s.name]
				if phi == nil || hasIncoming(phi, b) {
					continue
				}
				st := stacks[s.name]
				phi.Args = append(phi.Args, st[len(st)-1], b.Label())
			}
		}

		for _, c := range dom.Children[b] {
			visit(c)
		}

		for name, n := range pushed {
			stacks[name] = stacks[name][:len(stacks[name])-n]
		}
	}

	visit(f.Entry())

	// Order phi operands like the predecessors.
	for b, m := range phis {
		for _, phi := range m {
			sortIncoming(phi, dom.Preds[b])
		}
	}

	return repl
}

// removeTrivialPhis replaces phis whose operands are all the same value
// or the phi itself, until none is left.
func removeTrivialPhis(f *ir.Func, repl map[string]ir.Value) {
	for changed := true; changed; {
		changed = false

		for _, b := range f.Blocks {
			for _, in := range b.Instrs {
				if in.Op != ir.OpPhi {
					continue
				}
				if _, done := repl[in.Result.Name]; done {
					continue
				}

				if v := trivialPhi(in, repl); v != nil {
					repl[in.Result.Name] = v
					changed = true
				}
			}
		}
	}
}

func trivialPhi(phi *ir.Instr, repl map[string]ir.Value) ir.Value {
	self := phi.Result.String()

	var unique ir.Value
	for i := 0; i < len(phi.Args); i += 2 {
		v := resolveValue(repl, phi.Args[i])
		if v.String() == self {
			continue
		}
		if unique == nil {
			unique = v
		} else if unique.String() != v.String() {
			return nil
		}
	}
	return unique
}

// cleanup drops promoted allocas, loads, stores and replaced phis, and
// rewrites the remaining operands.
func cleanup(f *ir.Func, slots []*slot, repl map[string]ir.Value) {
	promoted := map[string]bool{}
	for _, s := range slots {
		promoted[s.name] = true
	}

	for _, b := range f.Blocks {
		live := b.Instrs[:0]

		for _, in := range b.Instrs {
			switch {
			case in.Op == ir.OpAlloca && promoted[in.Result.Name]:
				continue
			case in.Op == ir.OpLoad && repl[in.Result.Name] != nil:
				continue
			case in.Op == ir.OpStore && len(in.Args) == 2 && isPromoted(promoted, in.Args[1]):
				continue
			case in.Op == ir.OpPhi && repl[in.Result.Name] != nil:
				continue
			}

			for i, a := range in.Args {
				in.Args[i] = resolveValue(repl, a)
			}
			live = append(live, in)
		}

		b.Instrs = live
	}
}

func resolveValue(repl map[string]ir.Value, v ir.Value) ir.Value {
	for {
		id, ok := v.(*ir.Ident)
		if !ok {
			return v
		}
		r, ok := repl[id.Name]
		if !ok {
			return v
		}
		v = r
	}
}

func isSlot(stacks map[string][]ir.Value, v ir.Value) bool {
	id, ok := v.(*ir.Ident)
	if !ok {
		return false
	}
	_, ok = stacks[id.Name]
	return ok
}

func isPromoted(promoted map[string]bool, v ir.Value) bool {
	id, ok := v.(*ir.Ident)
	return ok && promoted[id.Name]
}

func hasIncoming(phi *ir.Instr, b *ir.Block) bool {
	for i := 1; i < len(phi.Args); i += 2 {
		if l, ok := phi.Args[i].(*ir.Label); ok && l.Name == b.Name {
			return true
		}
	}
	return false
}

func sortIncoming(phi *ir.Instr, preds []*ir.Block) {
	args := make([]ir.Value, 0, len(phi.Args))

	for _, p := range preds {
		for i := 1; i < len(phi.Args); i += 2 {
			if l, ok := phi.Args[i].(*ir.Label); ok && l.Name == p.Name {
				args = append(args, phi.Args[i-1], phi.Args[i])
				break
			}
		}
	}

	phi.Args = args
}

func zero(t ir.Type) ir.Value {
	if t == ir.F32 {
		return ir.NewFloat(0)
	}
	return ir.NewInt(0)
}
