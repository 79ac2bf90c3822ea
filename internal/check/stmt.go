package check

import (
	"github.com/you-not-fish/minic/internal/syntax"
	"github.com/you-not-fish/minic/internal/types"
)

func (c *Checker) stmtList(list []syntax.Stmt) {
	for _, s := range list {
		c.stmt(s)
	}
}

func (c *Checker) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case nil:
		// dropped by the parser after an error

	case *syntax.VarDecl:
		c.varDecl(s)

	case *syntax.FuncDecl:
		c.funcDecl(s)

	case *syntax.ExprStmt:
		c.expr(s.X)

	case *syntax.BlockStmt:
		c.openScope("block")
		c.stmtList(s.Stmts)
		c.closeScope()

	case *syntax.IfStmt:
		c.cond(s.Cond, "if")
		c.stmt(s.Then)
		if s.Else != nil {
			c.stmt(s.Else)
		}

	case *syntax.WhileStmt:
		c.cond(s.Cond, "while")
		c.stmt(s.Body)

	case *syntax.ReturnStmt:
		c.returnStmt(s)

	default:
		c.errorf(s.Pos(), "unexpected statement %T", s)
	}
}

// varDecl checks the initializer before the name is bound, so a variable
// cannot refer to itself in its own initializer.
func (c *Checker) varDecl(d *syntax.VarDecl) {
	typ := types.LookupType(d.Type)

	if d.Init != nil {
		if x := c.expr(d.Init); !x.IsUnknown() && !types.AssignableTo(x, typ) {
			c.errorf(d.Pos(), "cannot initialize %v with %v", typ, x)
		}
	}

	c.declare(types.NewVar(d.Pos(), d.Name, typ))
}

// funcDecl binds the function before checking its body so direct recursion
// resolves. Parameters and top-level body statements share one frame.
func (c *Checker) funcDecl(d *syntax.FuncDecl) {
	result := types.LookupType(d.Result)

	params := make([]*types.Basic, len(d.Params))
	for i, p := range d.Params {
		params[i] = types.LookupType(p.Type)
	}

	c.declare(types.NewFunc(d.Pos(), d.Name, result, params))

	saved := c.result
	c.result = result
	defer func() { c.result = saved }()

	c.openScope("function " + d.Name)
	defer c.closeScope()

	for i, p := range d.Params {
		c.declare(types.NewVar(p.Pos(), p.Name, params[i]))
	}

	if d.Body != nil {
		c.stmtList(d.Body.Stmts)
	}
}

func (c *Checker) returnStmt(s *syntax.ReturnStmt) {
	var x *types.Basic
	if s.Result != nil {
		x = c.expr(s.Result)
	}

	switch {
	case c.result == nil:
		c.errorf(s.Pos(), "return statement outside function")
	case x == nil:
		if c.result.Kind() != types.Void {
			c.errorf(s.Pos(), "function returning %v must return a value", c.result)
		}
	case x.IsUnknown():
		// already reported
	case !types.AssignableTo(x, c.result):
		c.errorf(s.Pos(), "cannot return %v from function returning %v", x, c.result)
	}
}

// cond checks the condition of an if or while statement.
func (c *Checker) cond(e syntax.Expr, what string) {
	x := c.expr(e)
	if !x.IsUnknown() && x.Kind() != types.Int {
		c.errorf(e.Pos(), "%s condition must be int, but got %v", what, x)
	}
}
