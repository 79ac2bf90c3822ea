package syntax

import (
	"fmt"
	"strconv"
)

const (
	maxErrors = 10  // parsing stops after this many errors
	maxArgs   = 255 // parameters per function and arguments per call
)

// Parser builds a Program from a token sequence by recursive descent.
//
// A malformed construct panics with an *Error. The panic is recovered by the
// nearest enclosing declaration loop, which reports the error and discards
// tokens up to the next statement boundary, so several independent errors
// can be reported from one pass. The panic never leaves the package.
type Parser struct {
	toks []Token
	cur  int
	tok  Token // toks[cur]
	prev Kind  // kind of the token consumed last

	errh   ErrorHandler
	errcnt int
	first  error
	abort  bool

	fnest int // function body nesting depth
	bnest int // block nesting depth
}

// NewParser returns a parser over toks. If toks does not end with an EOF
// token, one is appended. Errors are reported through errh.
func NewParser(toks []Token, errh ErrorHandler) *Parser {
	if n := len(toks); n == 0 || toks[n-1].Kind != _EOF {
		var pos Pos
		if n > 0 {
			pos = toks[n-1].Pos
		}
		toks = append(toks[:n:n], Token{Kind: _EOF, Pos: pos})
	}

	return &Parser{
		toks: toks,
		tok:  toks[0],
		errh: errh,
	}
}

// ParseFile scans and parses src. Lexical and syntax errors go to the same
// handler.
func ParseFile(filename, src string, errh ErrorHandler) *Program {
	return NewParser(Tokenize(filename, src, errh), errh).Parse()
}

// ----------------------------------------------------------------------------
// Token navigation

func (p *Parser) next() {
	p.prev = p.tok.Kind
	if p.cur < len(p.toks)-1 {
		p.cur++
		p.tok = p.toks[p.cur]
	}
}

// peek returns the token n positions ahead of the current one.
func (p *Parser) peek(n int) Token {
	if i := p.cur + n; i < len(p.toks) {
		return p.toks[i]
	}
	return p.toks[len(p.toks)-1]
}

// got consumes the current token if it is of kind k.
func (p *Parser) got(k Kind) bool {
	if p.tok.Kind == k {
		p.next()
		return true
	}
	return false
}

// want consumes and returns the current token if it is of kind k,
// and fails with msg otherwise.
func (p *Parser) want(k Kind, msg string) Token {
	t := p.tok
	if !p.got(k) {
		p.fail(msg)
	}
	return t
}

// ----------------------------------------------------------------------------
// Error handling

// fail aborts the current declaration with a syntax error at the current
// token.
func (p *Parser) fail(msg string) {
	panic(&Error{Pos: p.tok.Pos, Msg: msg + ", found " + describe(p.tok)})
}

func describe(t Token) string {
	if t.Kind == _EOF {
		return "end of file"
	}
	return "'" + t.Lit + "'"
}

// errorAt reports an error without unwinding.
func (p *Parser) errorAt(pos Pos, msg string) {
	if p.abort {
		return
	}
	if p.errcnt == 0 {
		p.first = &Error{Pos: pos, Msg: msg}
	}
	p.errcnt++

	if p.errh != nil {
		p.errh(pos, msg)
	}

	if p.errcnt >= maxErrors {
		p.abort = true
		if p.errh != nil {
			p.errh(pos, "too many errors")
		}
		p.cur = len(p.toks) - 1
		p.tok = p.toks[p.cur]
	}
}

// bailout turns a syntax error panic into a reported error and
// resynchronizes. Other panics are propagated.
func (p *Parser) bailout(r interface{}) {
	err, ok := r.(*Error)
	if !ok {
		panic(r)
	}

	p.errorAt(err.Pos, err.Msg)
	p.sync()
}

// sync discards tokens until just after a ';' or just before a token that
// can start a declaration or statement. Inside a block it also stops before
// '}' so the block can be closed.
func (p *Parser) sync() {
	closing := func() bool { return p.tok.Kind == _Rbrace && p.bnest > 0 }

	if closing() {
		return
	}
	p.next()

	for p.tok.Kind != _EOF {
		if p.prev == _Semi || p.tok.Kind.startsDecl() || closing() {
			return
		}
		p.next()
	}
}

// Errors returns the number of errors reported.
func (p *Parser) Errors() int {
	return p.errcnt
}

// FirstError returns the first error reported, or nil.
func (p *Parser) FirstError() error {
	return p.first
}

// ----------------------------------------------------------------------------
// Declarations

// Parse parses the whole token sequence. It always returns a Program,
// possibly missing the declarations that contained errors.
func (p *Parser) Parse() *Program {
	prog := &Program{}
	prog.pos = p.tok.Pos

	for !p.abort && p.tok.Kind != _EOF {
		if s := p.declOrStmt(); s != nil {
			prog.Stmts = append(prog.Stmts, s)
		}
	}

	return prog
}

// declOrStmt parses one declaration or statement. It returns nil if the
// construct contained a syntax error.
func (p *Parser) declOrStmt() (s Stmt) {
	defer func() {
		if r := recover(); r != nil {
			p.bailout(r)
			s = nil
		}
	}()

	switch p.tok.Kind {
	case _Int, _Float:
		if p.peek(1).Kind == _Ident && p.peek(2).Kind == _Lparen {
			return p.funcDecl()
		}
		return p.varDecl()
	case _Void:
		return p.funcDecl()
	}

	return p.stmt()
}

// funcDecl parses: Result Name ( [Param {, Param}] ) Block
func (p *Parser) funcDecl() *FuncDecl {
	d := &FuncDecl{Result: p.tok.Lit}
	d.pos = p.tok.Pos

	if p.fnest > 0 {
		p.errorAt(d.pos, "function declaration not allowed here")
	}

	p.next()
	d.Name = p.want(_Ident, "expected function name").Lit
	p.want(_Lparen, "expected '(' after function name")

	if p.tok.Kind != _Rparen {
		for {
			if len(d.Params) == maxArgs {
				p.errorAt(p.tok.Pos, fmt.Sprintf("cannot have more than %d parameters", maxArgs))
			}
			d.Params = append(d.Params, p.param())
			if !p.got(_Comma) {
				break
			}
		}
	}
	p.want(_Rparen, "expected ')' after parameters")

	p.fnest++
	defer func() { p.fnest-- }()

	d.Body = p.blockStmt("expected '{' before function body")

	return d
}

// param parses: Type Name
func (p *Parser) param() *Param {
	if p.tok.Kind != _Int && p.tok.Kind != _Float {
		p.fail("expected parameter type")
	}

	f := &Param{Type: p.tok.Lit}
	f.pos = p.tok.Pos
	p.next()
	f.Name = p.want(_Ident, "expected parameter name").Lit

	return f
}

// varDecl parses: Type Name [= Expr] ;
func (p *Parser) varDecl() *VarDecl {
	d := &VarDecl{Type: p.tok.Lit}
	d.pos = p.tok.Pos
	p.next()

	d.Name = p.want(_Ident, "expected variable name").Lit
	if p.got(_Assign) {
		d.Init = p.expr()
	}
	p.want(_Semi, "expected ';' after variable declaration")

	return d
}

// ----------------------------------------------------------------------------
// Statements

func (p *Parser) stmt() Stmt {
	switch p.tok.Kind {
	case _If:
		return p.ifStmt()
	case _While:
		return p.whileStmt()
	case _Return:
		return p.returnStmt()
	case _Lbrace:
		return p.blockStmt("expected '{'")
	}
	return p.exprStmt()
}

// blockStmt parses: { {declaration} }
func (p *Parser) blockStmt(msg string) *BlockStmt {
	b := &BlockStmt{}
	b.pos = p.tok.Pos
	p.want(_Lbrace, msg)

	p.bnest++
	for !p.abort && p.tok.Kind != _Rbrace && p.tok.Kind != _EOF {
		if s := p.declOrStmt(); s != nil {
			b.Stmts = append(b.Stmts, s)
		}
	}
	p.bnest--

	b.Rbrace = p.tok.Pos
	p.want(_Rbrace, "expected '}' after block")

	return b
}

// ifStmt parses: if ( Expr ) Stmt [else Stmt]
func (p *Parser) ifStmt() *IfStmt {
	s := &IfStmt{}
	s.pos = p.tok.Pos
	p.next()

	p.want(_Lparen, "expected '(' after 'if'")
	s.Cond = p.expr()
	p.want(_Rparen, "expected ')' after if condition")

	s.Then = p.stmt()
	if p.got(_Else) {
		s.Else = p.stmt()
	}

	return s
}

// whileStmt parses: while ( Expr ) Stmt
func (p *Parser) whileStmt() *WhileStmt {
	s := &WhileStmt{}
	s.pos = p.tok.Pos
	p.next()

	p.want(_Lparen, "expected '(' after 'while'")
	s.Cond = p.expr()
	p.want(_Rparen, "expected ')' after while condition")

	s.Body = p.stmt()

	return s
}

// returnStmt parses: return [Expr] ;
func (p *Parser) returnStmt() *ReturnStmt {
	s := &ReturnStmt{}
	s.pos = p.tok.Pos
	p.next()

	if p.tok.Kind != _Semi {
		s.Result = p.expr()
	}
	p.want(_Semi, "expected ';' after return value")

	return s
}

func (p *Parser) exprStmt() *ExprStmt {
	s := &ExprStmt{}
	s.pos = p.tok.Pos
	s.X = p.expr()
	p.want(_Semi, "expected ';' after expression")

	return s
}

// ----------------------------------------------------------------------------
// Expressions
//
// One method per precedence level, lowest first:
//
//	assignment     = or [ "=" assignment ]
//	or             = and { "||" and }
//	and            = equality { "&&" equality }
//	equality       = relational { ("==" | "!=") relational }
//	relational     = additive { ("<" | "<=" | ">" | ">=") additive }
//	additive       = multiplicative { ("+" | "-") multiplicative }
//	multiplicative = unary { ("*" | "/" | "%") unary }
//	unary          = ("!" | "-") unary | call
//	call           = primary { "(" [args] ")" }

func (p *Parser) expr() Expr {
	return p.assignment()
}

// assignment is right-associative. The target must be a variable.
func (p *Parser) assignment() Expr {
	x := p.orExpr()
	if p.tok.Kind != _Assign {
		return x
	}

	pos := p.tok.Pos
	p.next()
	y := p.assignment()

	if _, ok := x.(*VarExpr); !ok {
		p.errorAt(pos, "invalid assignment target")
		return x
	}

	return newBinary(pos, Assign, x, y)
}

func (p *Parser) orExpr() Expr         { return p.leftAssoc(p.andExpr, _OrOr) }
func (p *Parser) andExpr() Expr        { return p.leftAssoc(p.equality, _AndAnd) }
func (p *Parser) equality() Expr       { return p.leftAssoc(p.relational, _Eql, _Neq) }
func (p *Parser) relational() Expr     { return p.leftAssoc(p.additive, _Lss, _Leq, _Gtr, _Geq) }
func (p *Parser) additive() Expr       { return p.leftAssoc(p.multiplicative, _Add, _Sub) }
func (p *Parser) multiplicative() Expr { return p.leftAssoc(p.unaryExpr, _Mul, _Div, _Rem) }

// leftAssoc folds operand {op operand} into a left-leaning chain.
func (p *Parser) leftAssoc(operand func() Expr, ops ...Kind) Expr {
	x := operand()

	for p.isAny(ops) {
		pos, op := p.tok.Pos, binaryOps[p.tok.Kind]
		p.next()
		x = newBinary(pos, op, x, operand())
	}

	return x
}

func (p *Parser) isAny(kinds []Kind) bool {
	for _, k := range kinds {
		if p.tok.Kind == k {
			return true
		}
	}
	return false
}

func newBinary(pos Pos, op Operator, x, y Expr) *BinaryExpr {
	b := &BinaryExpr{Op: op, X: x, Y: y}
	b.pos = pos
	return b
}

func (p *Parser) unaryExpr() Expr {
	var op Operator
	switch p.tok.Kind {
	case _Not:
		op = Not
	case _Sub:
		op = Sub
	default:
		return p.callExpr()
	}

	u := &UnaryExpr{Op: op}
	u.pos = p.tok.Pos
	p.next()
	u.X = p.unaryExpr()

	return u
}

// callExpr parses a primary followed by call suffixes. Only a bare name can
// be called.
func (p *Parser) callExpr() Expr {
	x := p.primary()

	for p.tok.Kind == _Lparen {
		name, ok := x.(*VarExpr)
		if !ok {
			p.fail("expected function name before '('")
		}
		x = p.finishCall(name)
	}

	return x
}

func (p *Parser) finishCall(fun *VarExpr) *CallExpr {
	call := &CallExpr{Fun: fun.Name}
	call.pos = fun.Pos()
	p.next() // (

	if p.tok.Kind != _Rparen {
		for {
			if len(call.Args) == maxArgs {
				p.errorAt(p.tok.Pos, fmt.Sprintf("cannot have more than %d arguments", maxArgs))
			}
			call.Args = append(call.Args, p.expr())
			if !p.got(_Comma) {
				break
			}
		}
	}
	p.want(_Rparen, "expected ')' after arguments")

	return call
}

func (p *Parser) primary() Expr {
	t := p.tok

	switch t.Kind {
	case _IntLit:
		p.next()
		lit := &IntLit{}
		lit.pos = t.Pos
		v, err := strconv.ParseInt(t.Lit, 10, 32)
		if err != nil {
			p.errorAt(t.Pos, fmt.Sprintf("integer literal %s out of range", t.Lit))
		}
		lit.Value = int32(v)
		return lit

	case _FloatLit:
		p.next()
		lit := &FloatLit{}
		lit.pos = t.Pos
		v, err := strconv.ParseFloat(t.Lit, 32)
		if err != nil {
			p.errorAt(t.Pos, fmt.Sprintf("float literal %s out of range", t.Lit))
		}
		lit.Value = float32(v)
		return lit

	case _StringLit:
		p.next()
		lit := &StringLit{Value: t.Lit}
		lit.pos = t.Pos
		return lit

	case _Ident:
		p.next()
		v := &VarExpr{Name: t.Lit}
		v.pos = t.Pos
		return v

	case _Lparen:
		p.next()
		x := p.expr()
		p.want(_Rparen, "expected ')' after expression")
		return x
	}

	p.fail("expected expression")
	return nil
}
