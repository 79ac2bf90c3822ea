package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Mode controls Fprint output.
type Mode uint

const (
	ShowPos Mode = 1 << iota // print node positions
)

// Fprint writes an indented dump of the tree rooted at node to w,
// one node per line.
func Fprint(w io.Writer, node Node, mode Mode) error {
	p := &printer{w: w, mode: mode}
	p.print(node)
	return p.err
}

// Sprint is Fprint into a string.
func Sprint(node Node, mode Mode) string {
	var b strings.Builder
	_ = Fprint(&b, node, mode)
	return b.String()
}

type printer struct {
	w      io.Writer
	mode   Mode
	indent int
	err    error
}

// line prints one node line: its name, position when enabled, and details.
func (p *printer) line(name string, pos Pos, details ...string) {
	if p.err != nil {
		return
	}

	var b strings.Builder
	b.WriteString(strings.Repeat("  ", p.indent))
	b.WriteString(name)
	if p.mode&ShowPos != 0 {
		b.WriteString(" ")
		b.WriteString(pos.String())
	}
	for _, d := range details {
		b.WriteString(" ")
		b.WriteString(d)
	}
	b.WriteString("\n")

	_, p.err = io.WriteString(p.w, b.String())
}

// nested prints the given nodes one level deeper, skipping nils.
func (p *printer) nested(nodes ...Node) {
	p.indent++
	for _, n := range nodes {
		if n != nil {
			p.print(n)
		}
	}
	p.indent--
}

func (p *printer) print(node Node) {
	switch n := node.(type) {
	case *Program:
		p.line("Program", n.pos)
		p.nested(stmtNodes(n.Stmts)...)

	case *VarDecl:
		p.line("VarDecl", n.pos, n.Type, n.Name)
		if n.Init != nil {
			p.nested(n.Init)
		}

	case *FuncDecl:
		p.line("FuncDecl", n.pos, n.Result, n.Name)
		p.indent++
		for _, prm := range n.Params {
			p.line("Param", prm.pos, prm.Type, prm.Name)
		}
		p.indent--
		if n.Body != nil {
			p.nested(n.Body)
		}

	case *Param:
		p.line("Param", n.pos, n.Type, n.Name)

	case *BlockStmt:
		p.line("BlockStmt", n.pos)
		p.nested(stmtNodes(n.Stmts)...)

	case *IfStmt:
		p.line("IfStmt", n.pos)
		p.nested(n.Cond, n.Then)
		if n.Else != nil {
			p.line("Else", n.Else.Pos())
			p.nested(n.Else)
		}

	case *WhileStmt:
		p.line("WhileStmt", n.pos)
		p.nested(n.Cond, n.Body)

	case *ReturnStmt:
		p.line("ReturnStmt", n.pos)
		if n.Result != nil {
			p.nested(n.Result)
		}

	case *ExprStmt:
		p.line("ExprStmt", n.pos)
		p.nested(n.X)

	case *IntLit:
		p.line("IntLit", n.pos, strconv.FormatInt(int64(n.Value), 10))

	case *FloatLit:
		p.line("FloatLit", n.pos, strconv.FormatFloat(float64(n.Value), 'g', -1, 32))

	case *StringLit:
		p.line("StringLit", n.pos, strconv.Quote(n.Value))

	case *VarExpr:
		p.line("VarExpr", n.pos, n.Name)

	case *BinaryExpr:
		p.line("BinaryExpr", n.pos, n.Op.String())
		p.nested(n.X, n.Y)

	case *UnaryExpr:
		p.line("UnaryExpr", n.pos, n.Op.String())
		p.nested(n.X)

	case *CallExpr:
		p.line("CallExpr", n.pos, n.Fun)
		p.nested(exprNodes(n.Args)...)

	default:
		p.line(fmt.Sprintf("%T", node), node.Pos())
	}
}

func stmtNodes(list []Stmt) []Node {
	nodes := make([]Node, len(list))
	for i, s := range list {
		nodes[i] = s
	}
	return nodes
}

func exprNodes(list []Expr) []Node {
	nodes := make([]Node, len(list))
	for i, x := range list {
		nodes[i] = x
	}
	return nodes
}
