package syntax

// Error is a lexical or syntax error.
type Error struct {
	Pos Pos
	Msg string
}

func (e *Error) Error() string {
	return e.Pos.String() + ": " + e.Msg
}

// ErrorHandler receives every lexical and syntax error as it is found.
type ErrorHandler func(pos Pos, msg string)
