package passes

import "github.com/you-not-fish/minic/internal/ir"

func init() {
	Register(1, Pass{Name: "deadcode", Fn: DeadCode})
}

// DeadCode drops the instructions following the first jmp or ret of each
// block, then removes the blocks not reachable from the entry block.
func DeadCode(f *ir.Func) error {
	for _, b := range f.Blocks {
		for i, in := range b.Instrs {
			if in.Op.IsTerminator() {
				b.Instrs = b.Instrs[:i+1]
				break
			}
		}
	}

	entry := f.Entry()
	if entry == nil {
		return nil
	}

	reachable := map[string]bool{entry.Name: true}
	work := []*ir.Block{entry}

	for len(work) > 0 {
		b := work[len(work)-1]
		work = work[:len(work)-1]

		for _, s := range b.Succs() {
			if reachable[s] {
				continue
			}
			reachable[s] = true
			if sb := f.Block(s); sb != nil {
				work = append(work, sb)
			}
		}
	}

	live := f.Blocks[:0]
	for _, b := range f.Blocks {
		if reachable[b.Name] {
			live = append(live, b)
		}
	}
	f.Blocks = live

	return nil
}
