package ir

import (
	"strings"

	"github.com/you-not-fish/minic/internal/syntax"
)

// Instr is a single instruction: [Result =] Op Args...
type Instr struct {
	Op     Op
	Result *Ident // nil if the op has no result
	Args   []Value

	// Pos is the source position the instruction was lowered from.
	Pos syntax.Pos
}

// String renders the instruction as "%res = op a, b". A phi renders its
// value/label pairs as "%res = phi [v0, l0], [v1, l1]".
func (in *Instr) String() string {
	var sb strings.Builder

	if in.Result != nil {
		sb.WriteString(in.Result.String())
		sb.WriteString(" = ")
	}
	sb.WriteString(in.Op.String())

	if in.Op == OpPhi {
		for i := 0; i+1 < len(in.Args); i += 2 {
			if i == 0 {
				sb.WriteString(" [")
			} else {
				sb.WriteString(", [")
			}
			sb.WriteString(in.Args[i].String())
			sb.WriteString(", ")
			if l, ok := in.Args[i+1].(*Label); ok {
				sb.WriteString(l.Name)
			} else {
				sb.WriteString(in.Args[i+1].String())
			}
			sb.WriteByte(']')
		}
		return sb.String()
	}

	for i, a := range in.Args {
		if i == 0 {
			sb.WriteByte(' ')
		} else {
			sb.WriteString(", ")
		}
		sb.WriteString(a.String())
	}

	return sb.String()
}

// Targets returns the labels the instruction may jump to. The labels of
// a phi name predecessors, not targets.
func (in *Instr) Targets() []*Label {
	if in.Op == OpPhi {
		return nil
	}

	var ls []*Label
	for _, a := range in.Args {
		if l, ok := a.(*Label); ok {
			ls = append(ls, l)
		}
	}
	return ls
}
