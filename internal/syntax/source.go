package syntax

import (
	"io"
	"unicode/utf8"
)

// source is a rune reader with line and column tracking.
type source struct {
	buf []byte // entire input

	filename string
	line     uint32 // 1-based line of ch
	col      uint32 // 1-based column of ch

	ch   rune // current character, -1 at EOF
	offs int  // byte offset just past ch

	errh func(line, col uint32, msg string)
}

// newSource reads src into memory and positions the reader on its first
// character. A nil errh discards errors.
func newSource(filename string, src io.Reader, errh func(line, col uint32, msg string)) *source {
	s := &source{
		filename: filename,
		line:     1,
		ch:       -1, // before the first character
		errh:     errh,
	}

	var err error
	s.buf, err = io.ReadAll(src)
	if err != nil {
		s.col = 1
		s.error("error reading source: " + err.Error())
		return s
	}

	s.nextch()
	return s
}

// nextch advances to the next character.
// After it returns, (line, col) is the position of ch.
func (s *source) nextch() {
	if s.ch == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}

	if s.offs >= len(s.buf) {
		s.ch = -1
		return
	}

	r, width := utf8.DecodeRune(s.buf[s.offs:])
	if r == utf8.RuneError && width == 1 {
		s.error("invalid UTF-8 encoding")
	}

	s.ch = r
	s.offs += width
}

// peek returns the character after ch without consuming anything.
func (s *source) peek() rune {
	if s.offs >= len(s.buf) {
		return -1
	}
	r, _ := utf8.DecodeRune(s.buf[s.offs:])
	return r
}

func (s *source) pos() Pos {
	return NewPos(s.filename, s.line, s.col)
}

func (s *source) error(msg string) {
	s.errorAt(s.line, s.col, msg)
}

func (s *source) errorAt(line, col uint32, msg string) {
	if s.errh != nil {
		s.errh(line, col, msg)
	}
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_'
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// isSpace reports whether r is skipped between tokens.
func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\r' || r == '\n'
}
