package ir

import (
	"io"
	"strings"
)

// Fprint writes the textual form of m to w.
//
// Format:
//
//	; ModuleID = 'main'
//
//	define i32 @add(i32 %a, i32 %b) {
//	entry:
//	  %a = alloca
//	  store %param.a, %a
//	  ...
//	}
//
// Each function is followed by an empty line. The output depends only on
// the module contents.
func Fprint(w io.Writer, m *Module) error {
	_, err := io.WriteString(w, Sprint(m))
	return err
}

// Sprint returns the textual form of m.
func Sprint(m *Module) string {
	var sb strings.Builder

	sb.WriteString("; ModuleID = '")
	sb.WriteString(m.Name)
	sb.WriteString("'\n\n")

	for _, f := range m.Funcs {
		writeFunc(&sb, f)
		sb.WriteByte('\n')
	}

	return sb.String()
}

// FprintFunc writes the textual form of a single function to w.
func FprintFunc(w io.Writer, f *Func) error {
	_, err := io.WriteString(w, f.String())
	return err
}

// String renders the function in textual form.
func (f *Func) String() string {
	var sb strings.Builder
	writeFunc(&sb, f)
	return sb.String()
}

func writeFunc(sb *strings.Builder, f *Func) {
	sb.WriteString("define ")
	sb.WriteString(f.Result.String())
	sb.WriteString(" @")
	sb.WriteString(f.Name)
	sb.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.Type.String())
		sb.WriteString(" %")
		sb.WriteString(p.Name)
	}
	sb.WriteString(") {\n")

	for _, b := range f.Blocks {
		writeBlock(sb, b)
	}

	sb.WriteString("}\n")
}

func writeBlock(sb *strings.Builder, b *Block) {
	sb.WriteString(b.Name)
	sb.WriteString(":\n")

	for _, in := range b.Instrs {
		sb.WriteString("  ")
		sb.WriteString(in.String())
		sb.WriteByte('\n')
	}
}
