package syntax

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----------------------------------------------------------------------------
// Test helpers

func parse(t *testing.T, src string) *Program {
	t.Helper()

	prog, errs := parseWithErrors(t, src)
	require.Empty(t, errs)

	return prog
}

func parseWithErrors(t *testing.T, src string) (*Program, []string) {
	t.Helper()

	var errs []string
	prog := ParseFile("", src, func(pos Pos, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	})
	require.NotNil(t, prog)

	return prog, errs
}

// sexpr renders an expression as a fully parenthesized prefix form.
func sexpr(x Expr) string {
	switch x := x.(type) {
	case *IntLit:
		return fmt.Sprint(x.Value)
	case *FloatLit:
		return fmt.Sprint(x.Value)
	case *StringLit:
		return fmt.Sprintf("%q", x.Value)
	case *VarExpr:
		return x.Name
	case *BinaryExpr:
		return fmt.Sprintf("(%v %s %s)", x.Op, sexpr(x.X), sexpr(x.Y))
	case *UnaryExpr:
		return fmt.Sprintf("(%v %s)", x.Op, sexpr(x.X))
	case *CallExpr:
		parts := []string{x.Fun}
		for _, a := range x.Args {
			parts = append(parts, sexpr(a))
		}
		return "(call " + strings.Join(parts, " ") + ")"
	}
	return fmt.Sprintf("%T", x)
}

func exprOf(t *testing.T, src string) Expr {
	t.Helper()

	prog := parse(t, src+";")
	require.Len(t, prog.Stmts, 1)
	es, ok := prog.Stmts[0].(*ExprStmt)
	require.True(t, ok, "want *ExprStmt, got %T", prog.Stmts[0])

	return es.X
}

// ----------------------------------------------------------------------------
// Declarations

func TestParseEmpty(t *testing.T) {
	prog := parse(t, "")
	assert.Empty(t, prog.Stmts)

	prog = parse(t, "  // nothing\n/* here */")
	assert.Empty(t, prog.Stmts)
}

func TestParseFuncDecl(t *testing.T) {
	prog := parse(t, "int add(int a, int b) { return a + b; }")
	require.Len(t, prog.Stmts, 1)

	fn, ok := prog.Stmts[0].(*FuncDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	assert.Equal(t, "int", fn.Result)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "int", fn.Params[0].Type)
	assert.Equal(t, "a", fn.Params[0].Name)
	assert.Equal(t, "int", fn.Params[1].Type)
	assert.Equal(t, "b", fn.Params[1].Name)

	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ReturnStmt)
	require.True(t, ok)

	bin, ok := ret.Result.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, Add, bin.Op)
	assert.Equal(t, &VarExpr{expr: expr{node{NewPos("", 1, 32)}}, Name: "a"}, bin.X)
	assert.Equal(t, "b", bin.Y.(*VarExpr).Name)

	assert.Equal(t, NewPos("", 1, 1), fn.Pos())
	assert.Equal(t, NewPos("", 1, 16), fn.Params[1].Pos())
	assert.Equal(t, NewPos("", 1, 34), bin.Pos())
}

func TestParseFuncForms(t *testing.T) {
	prog := parse(t, `
void log(float v) { print(1); }
float half(float x) { return x / 2.0; }
int main() { return 0; }
`)
	require.Len(t, prog.Stmts, 3)

	var got []string
	for _, s := range prog.Stmts {
		fn := s.(*FuncDecl)
		got = append(got, fmt.Sprintf("%s %s/%d", fn.Result, fn.Name, len(fn.Params)))
	}
	assert.Equal(t, []string{"void log/1", "float half/1", "int main/0"}, got)
}

func TestParseVarDecl(t *testing.T) {
	prog := parse(t, "int x; float y = 1.5; int z = x + 1;")
	require.Len(t, prog.Stmts, 3)

	x := prog.Stmts[0].(*VarDecl)
	assert.Equal(t, "int", x.Type)
	assert.Equal(t, "x", x.Name)
	assert.Nil(t, x.Init)

	y := prog.Stmts[1].(*VarDecl)
	assert.Equal(t, "float", y.Type)
	assert.Equal(t, float32(1.5), y.Init.(*FloatLit).Value)

	z := prog.Stmts[2].(*VarDecl)
	assert.Equal(t, "(+ x 1)", sexpr(z.Init))
}

// ----------------------------------------------------------------------------
// Statements

func TestParseIfElse(t *testing.T) {
	prog := parse(t, "if (x > 0) { y = 1; } else { y = 2; }")
	require.Len(t, prog.Stmts, 1)

	s, ok := prog.Stmts[0].(*IfStmt)
	require.True(t, ok)

	cond, ok := s.Cond.(*BinaryExpr)
	require.True(t, ok)
	assert.Equal(t, Gtr, cond.Op)

	then, ok := s.Then.(*BlockStmt)
	require.True(t, ok)
	assert.Len(t, then.Stmts, 1)

	els, ok := s.Else.(*BlockStmt)
	require.True(t, ok)
	require.Len(t, els.Stmts, 1)
	assert.Equal(t, "(= y 2)", sexpr(els.Stmts[0].(*ExprStmt).X))
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"if (a) b = 1;", "*syntax.IfStmt"},
		{"if (a) b = 1; else b = 2;", "*syntax.IfStmt"},
		{"while (i < 10) i = i + 1;", "*syntax.WhileStmt"},
		{"while (1) { }", "*syntax.WhileStmt"},
		{"return;", "*syntax.ReturnStmt"},
		{"return 1;", "*syntax.ReturnStmt"},
		{"{ int a; a = 2; }", "*syntax.BlockStmt"},
		{"print(1);", "*syntax.ExprStmt"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			prog := parse(t, tt.src)
			require.Len(t, prog.Stmts, 1)
			assert.Equal(t, tt.want, fmt.Sprintf("%T", prog.Stmts[0]))
		})
	}
}

func TestParseDanglingElse(t *testing.T) {
	prog := parse(t, "if (a) if (b) x = 1; else x = 2;")

	outer := prog.Stmts[0].(*IfStmt)
	assert.Nil(t, outer.Else)

	inner := outer.Then.(*IfStmt)
	assert.NotNil(t, inner.Else)
}

// ----------------------------------------------------------------------------
// Expressions

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2 * 3", "(+ 1 (* 2 3))"},
		{"1 * 2 + 3", "(+ (* 1 2) 3)"},
		{"1 - 2 - 3", "(- (- 1 2) 3)"},
		{"8 / 4 % 3", "(% (/ 8 4) 3)"},
		{"(1 + 2) * 3", "(* (+ 1 2) 3)"},
		{"a < b == c > d", "(== (< a b) (> c d))"},
		{"a <= b != c >= d", "(!= (<= a b) (>= c d))"},
		{"a || b && c", "(|| a (&& b c))"},
		{"a && b || c && d", "(|| (&& a b) (&& c d))"},
		{"a == 1 && b", "(&& (== a 1) b)"},
		{"-a * b", "(* (- a) b)"},
		{"!a && b", "(&& (! a) b)"},
		{"--a", "(- (- a))"},
		{"!!a", "(! (! a))"},
		{"a = b = c", "(= a (= b c))"},
		{"a = b + 1", "(= a (+ b 1))"},
		{"f(1, a + 2, g())", "(call f 1 (+ a 2) (call g))"},
		{"-f(x)", "(- (call f x))"},
		{"(f)(1)", "(call f 1)"},
		{`s = "hi"`, `(= s "hi")`},
		{"x = 2.5 * y", "(= x (* 2.5 y))"},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, tt.want, sexpr(exprOf(t, tt.src)))
		})
	}
}

// ----------------------------------------------------------------------------
// Errors and recovery

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		errs  []string
		stmts int
	}{
		{"missing expression", "int x = ;", []string{"1:9: expected expression, found ';'"}, 0},
		{"bad parameter type", "int f( { }", []string{"1:8: expected parameter type, found '{'"}, 0},
		{"missing semicolon at eof", "x = 1", []string{"1:6: expected ';' after expression, found end of file"}, 0},
		{"invalid assignment target", "1 = 2;", []string{"1:3: invalid assignment target"}, 1},
		{"call on call", "f(1)(2);", []string{"1:5: expected function name before '(', found '('"}, 0},
		{"if without paren", "if x > 0 {}", []string{"1:4: expected '(' after 'if', found 'x'"}, 1},
		{"nested function", "int main() { int f() { return 1; } return 0; }", []string{"1:14: function declaration not allowed here"}, 1},
		{"stray brace", "}", []string{"1:1: expected expression, found '}'"}, 0},
		{"missing semicolon before brace", "void f() { g() }", []string{"1:16: expected ';' after expression, found '}'"}, 1},
		{"unclosed block", "void f() { return;", []string{"1:19: expected '}' after block, found end of file"}, 0},
		{"integer overflow", "x = 99999999999;", []string{"1:5: integer literal 99999999999 out of range"}, 1},
		{"void variable", "void x;", []string{"1:7: expected '(' after function name, found ';'"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prog, errs := parseWithErrors(t, tt.src)
			assert.Equal(t, tt.errs, errs)
			assert.Len(t, prog.Stmts, tt.stmts)
		})
	}
}

func TestParseRecoversAtStatementBoundary(t *testing.T) {
	prog, errs := parseWithErrors(t, "int x = ;\nint y = 2;\nfloat z = ;\n")

	assert.Equal(t, []string{
		"1:9: expected expression, found ';'",
		"3:11: expected expression, found ';'",
	}, errs)
	require.Len(t, prog.Stmts, 1)
	assert.Equal(t, "y", prog.Stmts[0].(*VarDecl).Name)
}

func TestParseRecoversInsideBlock(t *testing.T) {
	prog, errs := parseWithErrors(t, "int main() { x = ; return 1; }\nint g() { return 2; }")

	assert.Equal(t, []string{"1:18: expected expression, found ';'"}, errs)
	require.Len(t, prog.Stmts, 2)

	main := prog.Stmts[0].(*FuncDecl)
	require.Len(t, main.Body.Stmts, 1)
	assert.IsType(t, &ReturnStmt{}, main.Body.Stmts[0])
	assert.Equal(t, "g", prog.Stmts[1].(*FuncDecl).Name)
}

func TestParseErrorLimit(t *testing.T) {
	src := strings.Repeat("x = ;\n", 20)

	var msgs []string
	p := NewParser(Tokenize("", src, nil), func(pos Pos, msg string) {
		msgs = append(msgs, msg)
	})
	p.Parse()

	assert.Equal(t, maxErrors, p.Errors())
	require.Len(t, msgs, maxErrors+1)
	assert.Equal(t, "too many errors", msgs[maxErrors])

	var perr *Error
	require.ErrorAs(t, p.FirstError(), &perr)
	assert.Equal(t, NewPos("", 1, 5), perr.Pos)
}

func TestParseTooManyParams(t *testing.T) {
	params := make([]string, maxArgs+2)
	for i := range params {
		params[i] = fmt.Sprintf("int p%d", i)
	}
	src := "void f(" + strings.Join(params, ", ") + ") { }"

	prog, errs := parseWithErrors(t, src)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "cannot have more than 255 parameters")
	assert.Len(t, prog.Stmts[0].(*FuncDecl).Params, maxArgs+2)
}

func TestParseNoPanic(t *testing.T) {
	inputs := []string{
		"int", "int f(", "void f() { if", "while (", "{{{{", "}}}}", "((((((",
		"int f(int a,", "return", "f(", "int x = (1 + ;", "else", "[ ]",
	}

	for _, src := range inputs {
		t.Run(src, func(t *testing.T) {
			assert.NotPanics(t, func() {
				ParseFile("", src, nil)
			})
		})
	}
}

func TestNewParserAddsEOF(t *testing.T) {
	toks := []Token{
		{Kind: _Ident, Lit: "x", Pos: NewPos("", 1, 1)},
		{Kind: _Semi, Lit: ";", Pos: NewPos("", 1, 2)},
	}

	prog := NewParser(toks, nil).Parse()
	require.Len(t, prog.Stmts, 1)
	assert.Len(t, toks, 2, "caller's slice must not be modified")
}

func FuzzParse(f *testing.F) {
	seeds := []string{
		"int main() { return 0; }",
		"int add(int a, int b) { return a + b; }",
		"if (x > 0) { y = 1; } else { y = 2; }",
		"while (i < 10) { i = i + 1; }",
		"float f = 1.5; f = -f * 2.0;",
		"void f() { print(1); }",
		"int x = ; }}}",
	}
	for _, s := range seeds {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		if prog := ParseFile("fuzz", src, nil); prog == nil {
			t.Fatal("nil program")
		}
	})
}
