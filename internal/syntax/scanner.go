package syntax

import (
	"fmt"
	"io"
	"strings"
)

// Scanner splits minic source into tokens.
//
// The scanner never fails: unrecognized input becomes an Unknown token and
// is reported through the error handler, and scanning continues.
type Scanner struct {
	source

	tok    Kind
	lit    string
	tokPos Pos

	litBuf strings.Builder
}

// NewScanner returns a scanner positioned before the first token of src.
// Lexical errors are reported through errh; a nil errh discards them.
func NewScanner(filename string, src io.Reader, errh ErrorHandler) *Scanner {
	serrh := func(line, col uint32, msg string) {
		if errh != nil {
			errh(NewPos(filename, line, col), msg)
		}
	}
	return &Scanner{source: *newSource(filename, src, serrh)}
}

// Tokenize scans all of src. The result always ends with an EOF token.
func Tokenize(filename, src string, errh ErrorHandler) []Token {
	s := NewScanner(filename, strings.NewReader(src), errh)

	var toks []Token
	for {
		s.Next()
		toks = append(toks, s.Token())
		if s.Kind() == _EOF {
			return toks
		}
	}
}

// Next advances to the next token.
func (s *Scanner) Next() {
redo:
	for isSpace(s.ch) {
		s.nextch()
	}

	s.tokPos = s.pos()

	switch {
	case s.ch < 0:
		s.tok = _EOF
		s.lit = ""

	case isLetter(s.ch):
		s.ident()

	case isDigit(s.ch):
		s.number()

	case s.ch == '"':
		s.stdString()

	case s.ch == '/' && (s.peek() == '/' || s.peek() == '*'):
		s.comment()
		goto redo

	default:
		s.operator()
	}
}

// Token returns the current token.
func (s *Scanner) Token() Token {
	return Token{Kind: s.tok, Lit: s.lit, Pos: s.tokPos}
}

func (s *Scanner) Kind() Kind { return s.tok }
func (s *Scanner) Pos() Pos   { return s.tokPos }

func (s *Scanner) startLit() {
	s.litBuf.Reset()
	s.litBuf.WriteRune(s.ch)
	s.nextch()
}

func (s *Scanner) continueLit() {
	s.litBuf.WriteRune(s.ch)
	s.nextch()
}

func (s *Scanner) ident() {
	s.startLit()
	for isLetter(s.ch) || isDigit(s.ch) {
		s.continueLit()
	}

	s.lit = s.litBuf.String()
	s.tok = LookupKeyword(s.lit)
}

// number scans a digit run, optionally followed by '.' and another digit
// run. A '.' that is not followed by a digit is left for the next token.
func (s *Scanner) number() {
	s.startLit()
	for isDigit(s.ch) {
		s.continueLit()
	}

	s.tok = _IntLit
	if s.ch == '.' && isDigit(s.peek()) {
		s.tok = _FloatLit
		s.continueLit()
		for isDigit(s.ch) {
			s.continueLit()
		}
	}

	s.lit = s.litBuf.String()
}

// stdString scans a double-quoted string. The literal excludes the quotes;
// no escape sequences are interpreted and newlines are allowed.
func (s *Scanner) stdString() {
	line, col := s.line, s.col
	s.nextch()
	s.litBuf.Reset()

	for s.ch != '"' {
		if s.ch < 0 {
			s.errorAt(line, col, "unterminated string")
			s.tok = _Unknown
			s.lit = `"` + s.litBuf.String()
			return
		}
		s.continueLit()
	}
	s.nextch()

	s.tok = _StringLit
	s.lit = s.litBuf.String()
}

// comment skips a line or block comment starting at the current '/'.
func (s *Scanner) comment() {
	line, col := s.line, s.col
	s.nextch()

	if s.ch == '/' {
		for s.ch != '\n' && s.ch >= 0 {
			s.nextch()
		}
		return
	}

	s.nextch() // '*'
	for s.ch >= 0 {
		if s.ch == '*' && s.peek() == '/' {
			s.nextch()
			s.nextch()
			return
		}
		s.nextch()
	}
	s.errorAt(line, col, "unterminated block comment")
}

// operator scans an operator or delimiter. Two-character operators are
// recognized with one character of lookahead.
func (s *Scanner) operator() {
	ch := s.ch
	s.nextch()

	two := func(second rune, long, short Kind, longLit string) {
		if s.ch == second {
			s.nextch()
			s.tok, s.lit = long, longLit
			return
		}
		s.tok, s.lit = short, string(ch)
	}

	switch ch {
	case '+':
		s.tok, s.lit = _Add, "+"
	case '-':
		s.tok, s.lit = _Sub, "-"
	case '*':
		s.tok, s.lit = _Mul, "*"
	case '/':
		s.tok, s.lit = _Div, "/"
	case '%':
		s.tok, s.lit = _Rem, "%"
	case '=':
		two('=', _Eql, _Assign, "==")
	case '!':
		two('=', _Neq, _Not, "!=")
	case '<':
		two('=', _Leq, _Lss, "<=")
	case '>':
		two('=', _Geq, _Gtr, ">=")
	case '&':
		two('&', _AndAnd, _Unknown, "&&")
	case '|':
		two('|', _OrOr, _Unknown, "||")
	case ';':
		s.tok, s.lit = _Semi, ";"
	case ',':
		s.tok, s.lit = _Comma, ","
	case '(':
		s.tok, s.lit = _Lparen, "("
	case ')':
		s.tok, s.lit = _Rparen, ")"
	case '{':
		s.tok, s.lit = _Lbrace, "{"
	case '}':
		s.tok, s.lit = _Rbrace, "}"
	case '[':
		s.tok, s.lit = _Lbrack, "["
	case ']':
		s.tok, s.lit = _Rbrack, "]"
	default:
		s.tok, s.lit = _Unknown, string(ch)
	}

	if s.tok == _Unknown {
		s.errorAt(s.tokPos.line, s.tokPos.col, fmt.Sprintf("unexpected character %q", ch))
	}
}
