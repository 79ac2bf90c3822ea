package syntax

// Visitor is called for each node during Walk.
// If it returns false, the children of the node are not visited.
type Visitor func(node Node) bool

// Walk traverses the tree rooted at node in depth-first pre-order.
func Walk(node Node, v Visitor) {
	if node == nil || !v(node) {
		return
	}

	switch n := node.(type) {
	case *Program:
		walkStmts(n.Stmts, v)

	case *VarDecl:
		walkExpr(n.Init, v)

	case *FuncDecl:
		for _, p := range n.Params {
			Walk(p, v)
		}
		if n.Body != nil {
			Walk(n.Body, v)
		}

	case *BlockStmt:
		walkStmts(n.Stmts, v)

	case *IfStmt:
		walkExpr(n.Cond, v)
		walkStmt(n.Then, v)
		walkStmt(n.Else, v)

	case *WhileStmt:
		walkExpr(n.Cond, v)
		walkStmt(n.Body, v)

	case *ReturnStmt:
		walkExpr(n.Result, v)

	case *ExprStmt:
		walkExpr(n.X, v)

	case *BinaryExpr:
		walkExpr(n.X, v)
		walkExpr(n.Y, v)

	case *UnaryExpr:
		walkExpr(n.X, v)

	case *CallExpr:
		for _, a := range n.Args {
			walkExpr(a, v)
		}

	// Leaves: Param, IntLit, FloatLit, StringLit, VarExpr.
	}
}

// Inspect is Walk with a plain function.
func Inspect(node Node, f func(Node) bool) {
	Walk(node, Visitor(f))
}

// walkExpr and walkStmt skip nil interface values, which Walk would
// otherwise receive as typed nils.
func walkExpr(x Expr, v Visitor) {
	if x != nil {
		Walk(x, v)
	}
}

func walkStmt(s Stmt, v Visitor) {
	if s != nil {
		Walk(s, v)
	}
}

func walkStmts(list []Stmt, v Visitor) {
	for _, s := range list {
		walkStmt(s, v)
	}
}
