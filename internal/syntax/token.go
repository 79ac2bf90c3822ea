// Package syntax implements the lexer, the parser and the abstract syntax
// tree of the minic language.
package syntax

import "fmt"

// Kind is the kind of a lexical token.
type Kind uint

const (
	_EOF     Kind = iota // end of input
	_Unknown             // unrecognized or malformed input

	// Keywords
	_Int
	_Float
	_If
	_Else
	_While
	_Return
	_Void

	// Names and literals
	_Ident
	_IntLit
	_FloatLit
	_StringLit

	// Operators
	_Add    // +
	_Sub    // -
	_Mul    // *
	_Div    // /
	_Rem    // %
	_Assign // =
	_Eql    // ==
	_Neq    // !=
	_Lss    // <
	_Leq    // <=
	_Gtr    // >
	_Geq    // >=
	_AndAnd // &&
	_OrOr   // ||
	_Not    // !

	// Delimiters
	_Semi   // ;
	_Comma  // ,
	_Lparen // (
	_Rparen // )
	_Lbrace // {
	_Rbrace // }
	_Lbrack // [
	_Rbrack // ]

	kindCount
)

// Exported kinds for callers that inspect token streams.
const (
	EOF     = _EOF
	Unknown = _Unknown
	Lbrace  = _Lbrace
	Rbrace  = _Rbrace
)

var kindNames = [...]string{
	_EOF:     "EOF",
	_Unknown: "UNKNOWN",

	_Int:    "INT",
	_Float:  "FLOAT",
	_If:     "IF",
	_Else:   "ELSE",
	_While:  "WHILE",
	_Return: "RETURN",
	_Void:   "VOID",

	_Ident:     "IDENTIFIER",
	_IntLit:    "INTEGER_LITERAL",
	_FloatLit:  "FLOAT_LITERAL",
	_StringLit: "STRING_LITERAL",

	_Add:    "PLUS",
	_Sub:    "MINUS",
	_Mul:    "MULTIPLY",
	_Div:    "DIVIDE",
	_Rem:    "MODULO",
	_Assign: "ASSIGN",
	_Eql:    "EQUAL",
	_Neq:    "NOT_EQUAL",
	_Lss:    "LESS",
	_Leq:    "LESS_EQUAL",
	_Gtr:    "GREATER",
	_Geq:    "GREATER_EQUAL",
	_AndAnd: "AND",
	_OrOr:   "OR",
	_Not:    "NOT",

	_Semi:   "SEMICOLON",
	_Comma:  "COMMA",
	_Lparen: "LEFT_PAREN",
	_Rparen: "RIGHT_PAREN",
	_Lbrace: "LEFT_BRACE",
	_Rbrace: "RIGHT_BRACE",
	_Lbrack: "LEFT_BRACKET",
	_Rbrack: "RIGHT_BRACKET",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsKeyword reports whether k is a keyword.
func (k Kind) IsKeyword() bool {
	return k >= _Int && k <= _Void
}

// IsOperator reports whether k is an operator.
func (k Kind) IsOperator() bool {
	return k >= _Add && k <= _Not
}

// startsDecl reports whether a declaration or statement may begin with k.
// The parser resynchronizes at these tokens after an error.
func (k Kind) startsDecl() bool {
	switch k {
	case _Int, _Float, _Void, _If, _While, _Return, _Lbrace:
		return true
	}
	return false
}

var keywords = map[string]Kind{
	"int":    _Int,
	"float":  _Float,
	"if":     _If,
	"else":   _Else,
	"while":  _While,
	"return": _Return,
	"void":   _Void,
}

// LookupKeyword returns the keyword kind for name, or the identifier kind
// if name is not a keyword.
func LookupKeyword(name string) Kind {
	if k, ok := keywords[name]; ok {
		return k
	}
	return _Ident
}

// Token is one lexical unit. Tokens are immutable once scanned.
type Token struct {
	Kind Kind
	Lit  string // source text; string contents without quotes
	Pos  Pos    // start of the token
}

// String renders the token for debugging output.
func (t Token) String() string {
	return fmt.Sprintf("Token(%v, '%s', line %d, column %d)", t.Kind, t.Lit, t.Pos.Line(), t.Pos.Col())
}

// Short renders the token as "KIND", or "KIND(lit)" for names, literals
// and unknown characters.
func (t Token) Short() string {
	switch t.Kind {
	case _Ident, _IntLit, _FloatLit, _StringLit, _Unknown:
		return fmt.Sprintf("%v(%s)", t.Kind, t.Lit)
	}
	return t.Kind.String()
}

// Operator is the operator of a unary or binary expression.
type Operator uint8

const (
	_ Operator = iota

	Assign // =
	OrOr   // ||
	AndAnd // &&

	Eql // ==
	Neq // !=
	Lss // <
	Leq // <=
	Gtr // >
	Geq // >=

	Add // +
	Sub // -
	Mul // *
	Div // /
	Rem // %

	Not // !
)

var opNames = [...]string{
	Assign: "=",
	OrOr:   "||",
	AndAnd: "&&",
	Eql:    "==",
	Neq:    "!=",
	Lss:    "<",
	Leq:    "<=",
	Gtr:    ">",
	Geq:    ">=",
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Rem:    "%",
	Not:    "!",
}

func (op Operator) String() string {
	if op != 0 && int(op) < len(opNames) {
		return opNames[op]
	}
	return fmt.Sprintf("Operator(%d)", op)
}

// IsComparison reports whether op is one of == != < <= > >=.
func (op Operator) IsComparison() bool {
	return op >= Eql && op <= Geq
}

// IsLogical reports whether op is && or ||.
func (op Operator) IsLogical() bool {
	return op == AndAnd || op == OrOr
}

// IsArithmetic reports whether op is one of + - * / %.
func (op Operator) IsArithmetic() bool {
	return op >= Add && op <= Rem
}

// binaryOps maps operator tokens to the binary operator they denote.
var binaryOps = map[Kind]Operator{
	_Assign: Assign,
	_OrOr:   OrOr,
	_AndAnd: AndAnd,
	_Eql:    Eql,
	_Neq:    Neq,
	_Lss:    Lss,
	_Leq:    Leq,
	_Gtr:    Gtr,
	_Geq:    Geq,
	_Add:    Add,
	_Sub:    Sub,
	_Mul:    Mul,
	_Div:    Div,
	_Rem:    Rem,
}
