package check

import (
	"fmt"

	"github.com/you-not-fish/minic/internal/syntax"
)

// Error is a semantic error.
type Error struct {
	Pos syntax.Pos
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// ErrorList is the list of errors of one run, in the order found.
type ErrorList []*Error

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more errors)", l[0], len(l)-1)
}

// Err returns l as an error, or nil if l is empty.
func (l ErrorList) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

// errorf reports an error at pos.
func (c *Checker) errorf(pos syntax.Pos, format string, args ...interface{}) {
	err := &Error{Pos: pos, Msg: fmt.Sprintf(format, args...)}
	c.errors = append(c.errors, err)

	if c.conf.Error != nil {
		c.conf.Error(err)
	}
}
