// Package check implements semantic analysis for minic programs.
//
// The checker walks a parsed Program against an explicit stack of scopes,
// computes a type for every expression and reports every problem it finds.
// It never stops early: callers must treat a non-empty error list as a gate
// before lowering the program.
package check

import (
	"github.com/you-not-fish/minic/internal/syntax"
	"github.com/you-not-fish/minic/internal/types"
)

// Config specifies the configuration for checking.
type Config struct {
	// Error is called for each error as it is found.
	// If nil, errors are only collected.
	Error func(err *Error)
}

// Info holds the results of checking.
type Info struct {
	// Types maps expressions to their computed type.
	// Erroneous expressions map to types.Typ[types.Unknown].
	Types map[syntax.Expr]*types.Basic

	// Defs maps variable references to the symbol they resolved to.
	// Unresolved references are absent.
	Defs map[*syntax.VarExpr]*types.Symbol
}

// TypeOf returns the recorded type of e, or nil if none was recorded.
func (info *Info) TypeOf(e syntax.Expr) *types.Basic {
	if info == nil {
		return nil
	}
	return info.Types[e]
}

// Check checks prog and returns nil or an ErrorList.
// info may be nil; missing maps are allocated.
func Check(prog *syntax.Program, conf *Config, info *Info) error {
	return NewChecker(conf).Check(prog, info).Err()
}
