package ir

import (
	"github.com/you-not-fish/minic/internal/syntax"
)

// binaryOps maps source operators to opcodes. Assignment is lowered
// separately.
var binaryOps = map[syntax.Operator]Op{
	syntax.Add:    OpAdd,
	syntax.Sub:    OpSub,
	syntax.Mul:    OpMul,
	syntax.Div:    OpDiv,
	syntax.Rem:    OpMod,
	syntax.Eql:    OpCmpEq,
	syntax.Neq:    OpCmpNe,
	syntax.Lss:    OpCmpLt,
	syntax.Leq:    OpCmpLe,
	syntax.Gtr:    OpCmpGt,
	syntax.Geq:    OpCmpGe,
	syntax.AndAnd: OpAnd,
	syntax.OrOr:   OpOr,
}

// expr lowers e and pushes exactly one value.
func (b *Builder) expr(e syntax.Expr) {
	switch e := e.(type) {
	case nil:
		b.push(NewInt(0))

	case *syntax.IntLit:
		b.push(NewInt(e.Value))

	case *syntax.FloatLit:
		b.push(NewFloat(e.Value))

	case *syntax.StringLit:
		b.report(e.Pos(), "string literals are not supported in IR")
		b.push(NewInt(0))

	case *syntax.VarExpr:
		slot, ok := b.vars[e.Name]
		if !ok {
			b.report(e.Pos(), "undefined variable '%s'", e.Name)
			b.push(NewInt(0))
			return
		}
		t := b.newTemp(slot.Typ)
		b.emit(OpLoad, t, e.Pos(), slot)
		b.push(t)

	case *syntax.BinaryExpr:
		if e.Op == syntax.Assign {
			b.assign(e)
			return
		}
		b.binary(e)

	case *syntax.UnaryExpr:
		b.unary(e)

	case *syntax.CallExpr:
		b.call(e)

	default:
		b.report(e.Pos(), "unexpected expression %T", e)
		b.push(NewInt(0))
	}
}

// assign stores the right side into the variable on the left and pushes
// the stored value, so an assignment can be used as an operand.
func (b *Builder) assign(e *syntax.BinaryExpr) {
	b.expr(e.Y)
	val := b.pop()

	if x, ok := e.X.(*syntax.VarExpr); ok {
		if slot, ok := b.vars[x.Name]; ok {
			b.emit(OpStore, nil, e.Pos(), val, slot)
			b.push(val)
			return
		}
	}

	b.report(e.Pos(), "invalid assignment target")
	b.push(val)
}

func (b *Builder) binary(e *syntax.BinaryExpr) {
	b.expr(e.X)
	b.expr(e.Y)

	y := b.pop()
	x := b.pop()

	op, ok := binaryOps[e.Op]
	if !ok {
		b.report(e.Pos(), "unsupported binary operator %v", e.Op)
		b.push(x)
		return
	}

	typ := x.Type()
	if e.Op.IsComparison() || e.Op.IsLogical() {
		typ = I32
	}

	t := b.newTemp(typ)
	b.emit(op, t, e.Pos(), x, y)
	b.push(t)
}

func (b *Builder) unary(e *syntax.UnaryExpr) {
	b.expr(e.X)
	x := b.pop()

	var t *Ident
	switch e.Op {
	case syntax.Sub:
		t = b.newTemp(x.Type())
		b.emit(OpNeg, t, e.Pos(), x)
	case syntax.Not:
		t = b.newTemp(I32)
		b.emit(OpNot, t, e.Pos(), x)
	default:
		b.report(e.Pos(), "unsupported unary operator %v", e.Op)
		b.push(x)
		return
	}

	b.push(t)
}

// call lowers the arguments left to right and emits
//
//	%tN = call @f, args...
//
// The result is always typed i32, whatever the callee returns.
func (b *Builder) call(e *syntax.CallExpr) {
	args := make([]Value, 0, len(e.Args)+1)
	args = append(args, NewFuncRef(e.Fun, I32))

	for _, a := range e.Args {
		b.expr(a)
		args = append(args, b.pop())
	}

	t := b.newTemp(I32)
	b.emit(OpCall, t, e.Pos(), args...)
	b.push(t)
}
