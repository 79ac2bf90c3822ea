package ir

import (
	"fmt"
	"strings"

	"tlog.app/go/errors"
)

// Verify checks the structural integrity of a function.
// It returns an error describing all violations found, or nil if valid.
func Verify(f *Func) error {
	var errs []string

	add := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Sprintf(format, args...))
	}

	if len(f.Blocks) == 0 {
		add("func %s: no blocks", f.Name)
		return combineErrors(errs)
	}

	// 1. The first block is the entry block.
	if f.Blocks[0].Name != EntryName {
		add("func %s: first block is %s, want %s", f.Name, f.Blocks[0], EntryName)
	}

	// 2. Block names are unique.
	blocks := make(map[string]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		if blocks[b.Name] {
			add("func %s: duplicate block %s", f.Name, b)
		}
		blocks[b.Name] = true
	}

	// Slots may be allocated again under the same name; every other
	// result is defined once.
	defs := make(map[string]Op)
	for _, p := range f.Params {
		defs["param."+p.Name] = OpInvalid
	}

	for _, b := range f.Blocks {
		// 3. Block's Func pointer matches.
		if b.Func != f {
			add("func %s, %s: block Func pointer mismatch", f.Name, b)
		}

		// 4. Every block ends in jmp or ret.
		if !b.Terminated() {
			add("func %s, %s: block does not end in jmp or ret", f.Name, b)
		}

		phis := true

		for i, in := range b.Instrs {
			// 5. Results are present exactly for value-producing ops.
			switch {
			case in.Op <= OpInvalid || in.Op >= opCount:
				add("func %s, %s, #%d: invalid op %d", f.Name, b, i, int(in.Op))
			case in.Op.HasResult() && in.Result == nil:
				add("func %s, %s, #%d (%s): missing result", f.Name, b, i, in.Op)
			case !in.Op.HasResult() && in.Result != nil:
				add("func %s, %s, #%d (%s): unexpected result %s", f.Name, b, i, in.Op, in.Result)
			}

			// 6. Temporaries are defined once.
			if r := in.Result; r != nil {
				if prev, ok := defs[r.Name]; ok && (prev != OpAlloca || in.Op != OpAlloca) {
					add("func %s, %s, #%d: %s defined more than once", f.Name, b, i, r)
				}
				defs[r.Name] = in.Op
			}

			// 7. Args are non-nil and jump targets exist.
			for j, a := range in.Args {
				if a == nil {
					add("func %s, %s, #%d: arg[%d] is nil", f.Name, b, i, j)
					continue
				}
				if l, ok := a.(*Label); ok && !blocks[l.Name] {
					add("func %s, %s, #%d: jump to unknown block %s", f.Name, b, i, l.Name)
				}
			}

			// 8. Operand counts of control flow.
			switch in.Op {
			case OpJmp:
				if len(in.Args) != 1 {
					add("func %s, %s, #%d: jmp has %d args, want 1", f.Name, b, i, len(in.Args))
				}
			case OpJmpIf:
				if len(in.Args) != 2 {
					add("func %s, %s, #%d: jmp_if has %d args, want 2", f.Name, b, i, len(in.Args))
				}
			case OpRet:
				if len(in.Args) > 1 {
					add("func %s, %s, #%d: ret has %d args, want at most 1", f.Name, b, i, len(in.Args))
				}
			case OpStore:
				if len(in.Args) != 2 {
					add("func %s, %s, #%d: store has %d args, want 2", f.Name, b, i, len(in.Args))
				}
			}

			// 9. Phis lead the block and pair values with predecessor labels.
			if in.Op != OpPhi {
				phis = false
				continue
			}
			if !phis {
				add("func %s, %s, #%d: phi after non-phi instruction", f.Name, b, i)
			}
			if len(in.Args)%2 != 0 {
				add("func %s, %s, #%d: phi has %d args, want value/label pairs", f.Name, b, i, len(in.Args))
			}
			for j := 1; j < len(in.Args); j += 2 {
				if _, ok := in.Args[j].(*Label); !ok {
					add("func %s, %s, #%d: phi arg[%d] is not a label", f.Name, b, i, j)
				}
			}
		}
	}

	return combineErrors(errs)
}

// combineErrors creates an error from a list of error strings, or returns nil.
func combineErrors(errs []string) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.New("IR verification failed:\n  %s", strings.Join(errs, "\n  "))
}
