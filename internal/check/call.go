package check

import (
	"github.com/you-not-fish/minic/internal/syntax"
	"github.com/you-not-fish/minic/internal/types"
)

// call checks a call. Arguments are always checked, even when the callee or
// the argument count is wrong.
func (c *Checker) call(e *syntax.CallExpr) *types.Basic {
	sym := c.lookup(e.Fun)
	switch {
	case sym == nil:
		c.errorf(e.Pos(), "undefined function '%s'", e.Fun)
		c.args(e.Args)
		return unknown
	case !sym.IsFunc():
		c.errorf(e.Pos(), "'%s' is not a function", e.Fun)
		c.args(e.Args)
		return unknown
	}

	if len(e.Args) != len(sym.Params) {
		c.errorf(e.Pos(), "function '%s' expects %d arguments, but got %d", e.Fun, len(sym.Params), len(e.Args))
		c.args(e.Args)
		return sym.Type
	}

	for i, arg := range e.Args {
		x := c.expr(arg)
		if want := sym.Params[i]; !x.IsUnknown() && !types.AssignableTo(x, want) {
			c.errorf(arg.Pos(), "argument %d of function '%s' expects %v, but got %v", i+1, e.Fun, want, x)
		}
	}

	return sym.Type
}

func (c *Checker) args(list []syntax.Expr) {
	for _, arg := range list {
		c.expr(arg)
	}
}
