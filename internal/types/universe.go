package types

import "github.com/you-not-fish/minic/internal/syntax"

// NoPos is the position of predeclared symbols.
var NoPos syntax.Pos

// NewUniverse returns a fresh global frame holding the predeclared
// functions:
//
//	void print(int)
func NewUniverse() *Scope {
	s := NewScope("global")
	s.Insert(NewFunc(NoPos, "print", Typ[Void], []*Basic{Typ[Int]}))
	return s
}
