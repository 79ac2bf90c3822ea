package check

import (
	"github.com/you-not-fish/minic/internal/syntax"
	"github.com/you-not-fish/minic/internal/types"
)

var unknown = types.Typ[types.Unknown]

// expr checks e, records its type and returns it.
// A nil expression has the unknown type.
func (c *Checker) expr(e syntax.Expr) *types.Basic {
	if e == nil {
		return unknown
	}

	typ := c.exprInternal(e)
	c.record(e, typ)

	return typ
}

func (c *Checker) exprInternal(e syntax.Expr) *types.Basic {
	switch e := e.(type) {
	case *syntax.IntLit:
		return types.Typ[types.Int]
	case *syntax.FloatLit:
		return types.Typ[types.Float]
	case *syntax.StringLit:
		return types.Typ[types.String]
	case *syntax.VarExpr:
		return c.varExpr(e)
	case *syntax.BinaryExpr:
		if e.Op == syntax.Assign {
			return c.assignment(e)
		}
		return c.binary(e)
	case *syntax.UnaryExpr:
		return c.unary(e)
	case *syntax.CallExpr:
		return c.call(e)
	}

	c.errorf(e.Pos(), "unexpected expression %T", e)
	return unknown
}

func (c *Checker) varExpr(x *syntax.VarExpr) *types.Basic {
	sym := c.lookup(x.Name)
	switch {
	case sym == nil:
		c.errorf(x.Pos(), "undefined variable '%s'", x.Name)
		return unknown
	case sym.IsFunc():
		c.errorf(x.Pos(), "'%s' is not a variable", x.Name)
		return unknown
	}

	c.recordDef(x, sym)
	return sym.Type
}

func (c *Checker) assignment(e *syntax.BinaryExpr) *types.Basic {
	lhs, ok := e.X.(*syntax.VarExpr)
	if !ok {
		c.expr(e.X)
		c.expr(e.Y)
		c.errorf(e.Pos(), "left side of assignment must be a variable")
		return unknown
	}

	l := c.expr(lhs)
	r := c.expr(e.Y)

	if l.IsUnknown() || r.IsUnknown() {
		return l
	}
	if !types.AssignableTo(r, l) {
		c.errorf(e.Pos(), "cannot assign %v to %v", r, l)
	}

	return l
}

func (c *Checker) binary(e *syntax.BinaryExpr) *types.Basic {
	x := c.expr(e.X)
	y := c.expr(e.Y)

	if x.IsUnknown() || y.IsUnknown() {
		if e.Op.IsArithmetic() {
			return unknown
		}
		return types.Typ[types.Int]
	}

	switch {
	case e.Op.IsArithmetic():
		if !x.IsNumeric() || !y.IsNumeric() || !types.Compatible(x, y) {
			c.errorf(e.Pos(), "type mismatch in binary expression: %v %v %v", x, e.Op, y)
			return unknown
		}
		if e.Op == syntax.Rem && (!x.IsInteger() || !y.IsInteger()) {
			c.errorf(e.Pos(), "modulo requires int operands")
			return unknown
		}
		return types.CommonType(x, y)

	case e.Op.IsComparison():
		if !types.Compatible(x, y) {
			c.errorf(e.Pos(), "type mismatch in comparison: %v %v %v", x, e.Op, y)
		}

	case e.Op.IsLogical():
		if !x.IsInteger() || !y.IsInteger() {
			c.errorf(e.Pos(), "logical operators require int operands")
		}

	default:
		c.errorf(e.Pos(), "unexpected binary operator %v", e.Op)
		return unknown
	}

	return types.Typ[types.Int]
}

func (c *Checker) unary(e *syntax.UnaryExpr) *types.Basic {
	x := c.expr(e.X)
	if x.IsUnknown() {
		return unknown
	}

	switch e.Op {
	case syntax.Sub:
		if !x.IsNumeric() {
			c.errorf(e.Pos(), "unary minus requires numeric operand, but got %v", x)
			return unknown
		}
		return x

	case syntax.Not:
		if !x.IsInteger() {
			c.errorf(e.Pos(), "logical not requires int operand, but got %v", x)
		}
		return types.Typ[types.Int]
	}

	c.errorf(e.Pos(), "unexpected unary operator %v", e.Op)
	return unknown
}
