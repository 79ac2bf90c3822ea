package syntax

import "fmt"

// Pos is a position in a source file.
// The zero value is an invalid position.
type Pos struct {
	filename string
	line     uint32 // 1-based
	col      uint32 // 1-based, in runes
}

// NewPos returns the position line:col in filename.
func NewPos(filename string, line, col uint32) Pos {
	return Pos{filename: filename, line: line, col: col}
}

// String renders the position as "file:line:col",
// "line:col" when there is no filename, or "-" when it is invalid.
func (p Pos) String() string {
	switch {
	case !p.IsValid():
		return "-"
	case p.filename != "":
		return fmt.Sprintf("%s:%d:%d", p.filename, p.line, p.col)
	}
	return fmt.Sprintf("%d:%d", p.line, p.col)
}

// IsValid reports whether the position is known.
func (p Pos) IsValid() bool {
	return p.line > 0
}

// Before reports whether p comes strictly before q in the same file.
func (p Pos) Before(q Pos) bool {
	return p.line < q.line || p.line == q.line && p.col < q.col
}

func (p Pos) Line() uint32     { return p.line }
func (p Pos) Col() uint32      { return p.col }
func (p Pos) Filename() string { return p.filename }
