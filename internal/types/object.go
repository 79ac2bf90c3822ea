package types

import (
	"fmt"
	"strings"

	"github.com/you-not-fish/minic/internal/syntax"
)

// SymbolKind tells variables from functions.
type SymbolKind int

const (
	Variable SymbolKind = iota
	Function
)

func (k SymbolKind) String() string {
	if k == Function {
		return "function"
	}
	return "variable"
}

// Symbol is a declared variable or function.
type Symbol struct {
	Name   string
	Kind   SymbolKind
	Type   *Basic // variable type, or function result type
	Params []*Basic
	Pos    syntax.Pos // declaration position; invalid for builtins
}

// NewVar returns a variable symbol.
func NewVar(pos syntax.Pos, name string, typ *Basic) *Symbol {
	return &Symbol{Name: name, Kind: Variable, Type: typ, Pos: pos}
}

// NewFunc returns a function symbol.
func NewFunc(pos syntax.Pos, name string, result *Basic, params []*Basic) *Symbol {
	return &Symbol{Name: name, Kind: Function, Type: result, Params: params, Pos: pos}
}

func (s *Symbol) IsFunc() bool { return s.Kind == Function }

// String renders a variable as "x int" and a function as
// "f(int, float) void".
func (s *Symbol) String() string {
	if !s.IsFunc() {
		return fmt.Sprintf("%s %v", s.Name, s.Type)
	}

	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	return fmt.Sprintf("%s(%s) %v", s.Name, strings.Join(params, ", "), s.Type)
}
