package syntax

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(toks []Token) []string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = t.Short()
	}
	return out
}

func tokenize(t *testing.T, src string) ([]Token, []string) {
	t.Helper()

	var errs []string
	toks := Tokenize("", src, func(pos Pos, msg string) {
		errs = append(errs, pos.String()+": "+msg)
	})
	require.NotEmpty(t, toks)
	require.Equal(t, EOF, toks[len(toks)-1].Kind, "last token must be EOF")

	return toks, errs
}

func TestScanDeclaration(t *testing.T) {
	toks, errs := tokenize(t, "int x = 42;")

	assert.Empty(t, errs)
	assert.Equal(t, []string{"INT", "IDENTIFIER(x)", "ASSIGN", "INTEGER_LITERAL(42)", "SEMICOLON", "EOF"}, kinds(toks))
}

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"empty", "", []string{"EOF"}},
		{"keywords", "int float if else while return void", []string{"INT", "FLOAT", "IF", "ELSE", "WHILE", "RETURN", "VOID", "EOF"}},
		{"ident", "_foo Bar9", []string{"IDENTIFIER(_foo)", "IDENTIFIER(Bar9)", "EOF"}},
		{"keyword prefix", "iffy integer", []string{"IDENTIFIER(iffy)", "IDENTIFIER(integer)", "EOF"}},
		{"int", "0 007 123", []string{"INTEGER_LITERAL(0)", "INTEGER_LITERAL(007)", "INTEGER_LITERAL(123)", "EOF"}},
		{"float", "3.14 0.5", []string{"FLOAT_LITERAL(3.14)", "FLOAT_LITERAL(0.5)", "EOF"}},
		{"float needs fraction", "3.", []string{"INTEGER_LITERAL(3)", "UNKNOWN(.)", "EOF"}},
		{"string", `"hi there"`, []string{"STRING_LITERAL(hi there)", "EOF"}},
		{"string raw", `"a\n"`, []string{`STRING_LITERAL(a\n)`, "EOF"}},
		{"arith", "+ - * / %", []string{"PLUS", "MINUS", "MULTIPLY", "DIVIDE", "MODULO", "EOF"}},
		{"compare", "== != < <= > >=", []string{"EQUAL", "NOT_EQUAL", "LESS", "LESS_EQUAL", "GREATER", "GREATER_EQUAL", "EOF"}},
		{"logic", "&& || !", []string{"AND", "OR", "NOT", "EOF"}},
		{"assign vs equal", "a=b==c", []string{"IDENTIFIER(a)", "ASSIGN", "IDENTIFIER(b)", "EQUAL", "IDENTIFIER(c)", "EOF"}},
		{"not vs neq", "!a!=b", []string{"NOT", "IDENTIFIER(a)", "NOT_EQUAL", "IDENTIFIER(b)", "EOF"}},
		{"punct", "; , ( ) { } [ ]", []string{"SEMICOLON", "COMMA", "LEFT_PAREN", "RIGHT_PAREN", "LEFT_BRACE", "RIGHT_BRACE", "LEFT_BRACKET", "RIGHT_BRACKET", "EOF"}},
		{"lone amp", "a & b", []string{"IDENTIFIER(a)", "UNKNOWN(&)", "IDENTIFIER(b)", "EOF"}},
		{"lone bar", "|", []string{"UNKNOWN(|)", "EOF"}},
		{"unknown", "@#", []string{"UNKNOWN(@)", "UNKNOWN(#)", "EOF"}},
		{"line comment", "a // b c\nd", []string{"IDENTIFIER(a)", "IDENTIFIER(d)", "EOF"}},
		{"block comment", "a /* b\n c */ d", []string{"IDENTIFIER(a)", "IDENTIFIER(d)", "EOF"}},
		{"division not comment", "a / b", []string{"IDENTIFIER(a)", "DIVIDE", "IDENTIFIER(b)", "EOF"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, _ := tokenize(t, tt.src)
			assert.Equal(t, tt.want, kinds(toks))
		})
	}
}

func TestScanPositions(t *testing.T) {
	src := "int main() {\n  /* two\n lines */ return 1;\n}\n"
	toks, errs := tokenize(t, src)
	require.Empty(t, errs)

	var got []string
	for _, tok := range toks {
		got = append(got, fmt.Sprintf("%s@%s", tok.Lit, tok.Pos))
	}

	assert.Equal(t, []string{
		"int@1:1", "main@1:5", "(@1:9", ")@1:10", "{@1:12",
		"return@3:11", "1@3:18", ";@3:19",
		"}@4:1",
		"@5:1",
	}, got)
}

func TestScanErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		errs []string
		last string // kinds of the tokens before EOF
	}{
		{"unterminated string", `x = "abc`, []string{`1:5: unterminated string`}, `UNKNOWN("abc)`},
		{"unterminated string across lines", "\"a\nb", []string{"1:1: unterminated string"}, "UNKNOWN(\"a\nb)"},
		{"unterminated comment", "a /* b", []string{"1:3: unterminated block comment"}, "IDENTIFIER(a)"},
		{"unexpected char", "a $", []string{"1:3: unexpected character '$'"}, "UNKNOWN($)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, errs := tokenize(t, tt.src)
			assert.Equal(t, tt.errs, errs)

			k := kinds(toks)
			require.GreaterOrEqual(t, len(k), 2)
			assert.Equal(t, tt.last, k[len(k)-2])
		})
	}
}

func TestScanMultilineString(t *testing.T) {
	toks, errs := tokenize(t, "\"a\nb\" x")
	require.Empty(t, errs)

	require.Len(t, toks, 3)
	assert.Equal(t, "a\nb", toks[0].Lit)
	assert.Equal(t, NewPos("", 2, 4), toks[1].Pos)
}

func TestTokenString(t *testing.T) {
	toks, _ := tokenize(t, "\n  foo")

	assert.Equal(t, "Token(IDENTIFIER, 'foo', line 2, column 3)", toks[0].String())
	assert.Equal(t, "Token(EOF, '', line 2, column 6)", toks[1].String())
}

func TestScannerIncremental(t *testing.T) {
	s := NewScanner("f.mc", strings.NewReader("a+1"), nil)

	var got []Kind
	for {
		s.Next()
		got = append(got, s.Kind())
		if s.Kind() == EOF {
			break
		}
	}

	assert.Equal(t, []Kind{_Ident, _Add, _IntLit, _EOF}, got)
	assert.Equal(t, "f.mc:1:4", s.Pos().String())
}

func FuzzScanner(f *testing.F) {
	for _, s := range []string{"int x = 1;", `"abc`, "/* x", "a && b || !c", "3.14.15", "\xff"} {
		f.Add(s)
	}

	f.Fuzz(func(t *testing.T, src string) {
		toks := Tokenize("", src, nil)
		if len(toks) == 0 || toks[len(toks)-1].Kind != EOF {
			t.Fatalf("token stream does not end with EOF: %v", toks)
		}
	})
}
