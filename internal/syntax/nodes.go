package syntax

// ----------------------------------------------------------------------------
// Interfaces
//
// A program is a list of statements; declarations are statements too.
// The node set is closed: Stmt and Expr can only be implemented inside this
// package, so a type switch over the variants below is exhaustive.

// Node is implemented by all AST nodes.
type Node interface {
	Pos() Pos
	aNode()
}

// Expr is implemented by all expression nodes.
type Expr interface {
	Node
	aExpr()
}

// Stmt is implemented by all statement and declaration nodes.
type Stmt interface {
	Node
	aStmt()
}

// ----------------------------------------------------------------------------
// Base node types

type node struct {
	pos Pos
}

func (n *node) Pos() Pos { return n.pos }
func (n *node) aNode()   {}

type expr struct{ node }

func (*expr) aExpr() {}

type stmt struct{ node }

func (*stmt) aStmt() {}

// ----------------------------------------------------------------------------
// Program and declarations

// Program is the root of the tree: the statements of one source file.
type Program struct {
	node
	Stmts []Stmt
}

// VarDecl is a variable declaration: Type Name [= Init];
type VarDecl struct {
	stmt
	Type string // "int" or "float"
	Name string
	Init Expr // nil if absent
}

// FuncDecl is a function declaration: Result Name(Params) Body
type FuncDecl struct {
	stmt
	Result string // "int", "float" or "void"
	Name   string
	Params []*Param
	Body   *BlockStmt
}

// Param is one function parameter.
type Param struct {
	node
	Type string
	Name string
}

// ----------------------------------------------------------------------------
// Statements

// ExprStmt is an expression evaluated for its effect.
type ExprStmt struct {
	stmt
	X Expr
}

// BlockStmt is a brace-delimited statement list.
type BlockStmt struct {
	stmt
	Stmts  []Stmt
	Rbrace Pos
}

// IfStmt is: if (Cond) Then [else Else]
type IfStmt struct {
	stmt
	Cond Expr
	Then Stmt
	Else Stmt // nil if absent
}

// WhileStmt is: while (Cond) Body
type WhileStmt struct {
	stmt
	Cond Expr
	Body Stmt
}

// ReturnStmt is: return [Result];
type ReturnStmt struct {
	stmt
	Result Expr // nil for a bare return
}

// ----------------------------------------------------------------------------
// Expressions

// IntLit is a decimal integer literal.
type IntLit struct {
	expr
	Value int32
}

// FloatLit is a decimal floating-point literal.
type FloatLit struct {
	expr
	Value float32
}

// StringLit is a string literal; Value excludes the quotes.
type StringLit struct {
	expr
	Value string
}

// VarExpr is a reference to a named variable.
type VarExpr struct {
	expr
	Name string
}

// BinaryExpr is X Op Y. Assignment is a BinaryExpr with Op == Assign.
// The position is that of the operator.
type BinaryExpr struct {
	expr
	Op Operator
	X  Expr
	Y  Expr
}

// UnaryExpr is Op X.
type UnaryExpr struct {
	expr
	Op Operator // Sub or Not
	X  Expr
}

// CallExpr is Fun(Args). The callee is always a bare name.
type CallExpr struct {
	expr
	Fun  string
	Args []Expr
}
