package ir

import (
	"fmt"
	"strconv"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/you-not-fish/minic/internal/syntax"
	"github.com/you-not-fish/minic/internal/types"
)

// Builder lowers a checked Program to a Module.
//
// Expressions are lowered onto an explicit value stack: lowering any
// expression pushes exactly one value. Lowering is total: constructs that
// have no IR form are reported through the error handler and replaced with
// the constant 0. The output is only meaningful for programs that passed
// semantic checking.
//
// A Builder is not safe for concurrent use, but every Build starts from
// fresh counters and tables.
type Builder struct {
	name string
	errh syntax.ErrorHandler

	mod *Module
	fn  *Func  // current function; nil at top level
	cur *Block // block receiving instructions

	// Function-scoped: a name redeclared in a nested block reuses the slot.
	vars map[string]*Ident

	// Names declared by the current function; temporaries avoid them.
	declared map[string]bool

	stack []Value

	labels int
	temps  int
}

// NewBuilder returns a builder producing modules named name.
// errh may be nil.
func NewBuilder(name string, errh syntax.ErrorHandler) *Builder {
	return &Builder{name: name, errh: errh}
}

// Build lowers prog and returns a new module holding one function per
// top-level function declaration, in declaration order.
func (b *Builder) Build(prog *syntax.Program) *Module {
	b.mod = NewModule(b.name)
	b.fn = nil
	b.cur = nil
	b.vars = make(map[string]*Ident)
	b.stack = b.stack[:0]
	b.labels = 0
	b.temps = 0

	if prog != nil {
		for _, s := range prog.Stmts {
			b.topLevel(s)
		}
	}

	if tlog.If("lower") {
		tlog.Printw("module built", "module", b.name, "funcs", len(b.mod.Funcs), "labels", b.labels, "temps", b.temps)
	}

	m := b.mod
	b.mod = nil

	return m
}

// report reports a construct that cannot be lowered.
func (b *Builder) report(pos syntax.Pos, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	tlog.V("lower").Printw("lowering problem", "pos", pos, "msg", msg, "from", loc.Caller(1))

	if b.errh != nil {
		b.errh(pos, msg)
	}
}

func (b *Builder) topLevel(s syntax.Stmt) {
	switch s := s.(type) {
	case nil:
	case *syntax.FuncDecl:
		b.funcDecl(s)
	default:
		b.report(s.Pos(), "statement outside function is not lowered")
	}
}

// funcDecl lowers one function. Every parameter is copied into a stack
// slot of the same name, so parameters and locals are accessed alike.
func (b *Builder) funcDecl(d *syntax.FuncDecl) {
	params := make([]Param, len(d.Params))
	for i, p := range d.Params {
		params[i] = Param{Name: p.Name, Type: typeOf(p.Type)}
	}

	result := typeOf(d.Result)

	b.fn = NewFunc(d.Name, result, params)
	b.cur = b.fn.Entry()
	b.vars = make(map[string]*Ident)
	b.declared = declaredNames(d)
	b.mod.AddFunc(b.fn)

	for i, p := range params {
		slot := b.alloca(p.Name, p.Type, d.Params[i].Pos())
		b.emit(OpStore, nil, d.Params[i].Pos(), NewIdent("param."+p.Name, p.Type), slot)
	}

	if d.Body != nil {
		b.stmts(d.Body.Stmts)
	}

	if !b.cur.Returns() {
		if result == Void {
			b.emit(OpRet, nil, d.Pos())
		} else {
			b.emit(OpRet, nil, d.Pos(), NewInt(0))
		}
	}

	if tlog.If("lower") {
		tlog.Printw("func lowered", "func", d.Name, "blocks", b.fn.NumBlocks(), "instrs", b.fn.NumInstrs())
	}

	b.fn = nil
	b.cur = nil
	b.declared = nil
}

// declaredNames returns the parameter and variable names of d.
func declaredNames(d *syntax.FuncDecl) map[string]bool {
	names := make(map[string]bool)
	for _, p := range d.Params {
		names[p.Name] = true
	}

	if d.Body != nil {
		syntax.Inspect(d.Body, func(n syntax.Node) bool {
			if v, ok := n.(*syntax.VarDecl); ok {
				names[v.Name] = true
			}
			return true
		})
	}

	return names
}

func (b *Builder) stmts(list []syntax.Stmt) {
	for _, s := range list {
		b.stmt(s)
	}
}

func (b *Builder) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case nil:

	case *syntax.ExprStmt:
		b.expr(s.X)
		b.pop()

	case *syntax.VarDecl:
		slot := b.alloca(s.Name, typeOf(s.Type), s.Pos())
		if s.Init != nil {
			b.expr(s.Init)
			b.emit(OpStore, nil, s.Pos(), b.pop(), slot)
		}

	case *syntax.BlockStmt:
		b.stmts(s.Stmts)

	case *syntax.IfStmt:
		b.ifStmt(s)

	case *syntax.WhileStmt:
		b.whileStmt(s)

	case *syntax.ReturnStmt:
		if s.Result == nil {
			b.emit(OpRet, nil, s.Pos())
			break
		}
		b.expr(s.Result)
		b.emit(OpRet, nil, s.Pos(), b.pop())

	case *syntax.FuncDecl:
		b.report(s.Pos(), "nested function '%s' is not lowered", s.Name)

	default:
		b.report(s.Pos(), "unexpected statement %T", s)
	}
}

// ifStmt lowers
//
//	  jmp_if cond, then.N:
//	  jmp else.N+1:
//	then.N:
//	  ...
//	  jmp endif.N+2:
//	else.N+1:
//	  ...
//	  jmp endif.N+2:
//	endif.N+2:
//
// The else block is created even without an else branch.
func (b *Builder) ifStmt(s *syntax.IfStmt) {
	then := b.newLabel("then")
	els := b.newLabel("else")
	end := b.newLabel("endif")

	b.expr(s.Cond)
	b.emit(OpJmpIf, nil, s.Pos(), b.pop(), NewLabel(then))
	b.emit(OpJmp, nil, s.Pos(), NewLabel(els))

	b.cur = b.fn.NewBlock(then)
	b.stmt(s.Then)
	b.emit(OpJmp, nil, s.Pos(), NewLabel(end))

	b.cur = b.fn.NewBlock(els)
	if s.Else != nil {
		b.stmt(s.Else)
	}
	b.emit(OpJmp, nil, s.Pos(), NewLabel(end))

	b.cur = b.fn.NewBlock(end)
}

// whileStmt lowers
//
//	  jmp while.cond.N:
//	while.cond.N:
//	  jmp_if cond, while.body.N+1:
//	  jmp while.end.N+2:
//	while.body.N+1:
//	  ...
//	  jmp while.cond.N:
//	while.end.N+2:
func (b *Builder) whileStmt(s *syntax.WhileStmt) {
	cond := b.newLabel("while.cond")
	body := b.newLabel("while.body")
	end := b.newLabel("while.end")

	b.emit(OpJmp, nil, s.Pos(), NewLabel(cond))

	b.cur = b.fn.NewBlock(cond)
	b.expr(s.Cond)
	b.emit(OpJmpIf, nil, s.Pos(), b.pop(), NewLabel(body))
	b.emit(OpJmp, nil, s.Pos(), NewLabel(end))

	b.cur = b.fn.NewBlock(body)
	b.stmt(s.Body)
	b.emit(OpJmp, nil, s.Pos(), NewLabel(cond))

	b.cur = b.fn.NewBlock(end)
}

// alloca emits a stack slot for a variable and binds name to it.
func (b *Builder) alloca(name string, typ Type, pos syntax.Pos) *Ident {
	slot := NewIdent(name, typ)
	b.vars[name] = slot
	b.emit(OpAlloca, slot, pos)
	return slot
}

// emit appends an instruction to the current block.
func (b *Builder) emit(op Op, res *Ident, pos syntax.Pos, args ...Value) *Instr {
	in := &Instr{Op: op, Result: res, Args: args, Pos: pos}
	if b.cur == nil {
		return in
	}

	if tlog.If("lower") {
		tlog.Printw("emit", "block", b.cur.Name, "instr", in.String())
	}

	return b.cur.Add(in)
}

// newTemp returns a fresh temporary. Numbers whose name is declared by
// the current function are skipped.
func (b *Builder) newTemp(typ Type) *Ident {
	name := "t" + strconv.Itoa(b.temps)
	for b.declared[name] {
		b.temps++
		name = "t" + strconv.Itoa(b.temps)
	}
	b.temps++

	return NewIdent(name, typ)
}

// newLabel returns a fresh block name with the given prefix.
func (b *Builder) newLabel(prefix string) string {
	l := prefix + "." + strconv.Itoa(b.labels)
	b.labels++
	return l
}

func (b *Builder) push(v Value) {
	b.stack = append(b.stack, v)
}

// pop pops the value pushed by the expression lowered last.
func (b *Builder) pop() Value {
	n := len(b.stack)
	if n == 0 {
		tlog.Printw("value stack is empty", "from", loc.Caller(1))
		return NewInt(0)
	}

	v := b.stack[n-1]
	b.stack = b.stack[:n-1]

	return v
}

// typeOf maps a source type name to its IR type.
func typeOf(name string) Type {
	return TypeOf(types.LookupType(name))
}
