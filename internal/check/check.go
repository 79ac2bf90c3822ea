package check

import (
	"github.com/you-not-fish/minic/internal/syntax"
	"github.com/you-not-fish/minic/internal/types"
)

// Checker is the semantic analyzer. A Checker may be reused; every call to
// Check starts from a fresh global scope.
type Checker struct {
	conf *Config
	info *Info

	scopes *types.Stack

	// Function context. result is nil outside any function.
	result *types.Basic

	errors ErrorList
}

// NewChecker returns a checker using conf. conf may be nil.
func NewChecker(conf *Config) *Checker {
	if conf == nil {
		conf = &Config{}
	}
	return &Checker{conf: conf}
}

// Check checks prog and returns every error found, in source walk order.
// Results are recorded in info when it is non-nil.
func (c *Checker) Check(prog *syntax.Program, info *Info) ErrorList {
	if info != nil {
		if info.Types == nil {
			info.Types = make(map[syntax.Expr]*types.Basic)
		}
		if info.Defs == nil {
			info.Defs = make(map[*syntax.VarExpr]*types.Symbol)
		}
	}

	c.info = info
	c.scopes = types.NewStack(types.NewUniverse())
	c.result = nil
	c.errors = nil

	if prog != nil {
		c.stmtList(prog.Stmts)
	}

	errs := c.errors
	c.errors = nil
	c.info = nil

	return errs
}

// Scopes returns the scope stack of the last run. After a run only the
// global frame remains.
func (c *Checker) Scopes() *types.Stack {
	return c.scopes
}

// openScope pushes a new innermost frame.
func (c *Checker) openScope(comment string) {
	c.scopes.Push(comment)
}

// closeScope pops the innermost frame.
func (c *Checker) closeScope() {
	c.scopes.Pop()
}

// declare binds sym in the innermost frame.
// Reports an error if the name is already bound there.
func (c *Checker) declare(sym *types.Symbol) bool {
	if existing := c.scopes.Insert(sym); existing != nil {
		c.errorf(sym.Pos, "redefinition of '%s'", sym.Name)
		return false
	}
	return true
}

// lookup resolves name through every open frame, innermost first.
func (c *Checker) lookup(name string) *types.Symbol {
	return c.scopes.Lookup(name)
}

// record records the type of an expression.
func (c *Checker) record(e syntax.Expr, typ *types.Basic) {
	if c.info != nil {
		c.info.Types[e] = typ
	}
}

// recordDef records the symbol a variable reference resolved to.
func (c *Checker) recordDef(x *syntax.VarExpr, sym *types.Symbol) {
	if c.info != nil {
		c.info.Defs[x] = sym
	}
}
