package types

import (
	"fmt"
	"strings"
)

// Scope is one frame of the scope stack: the symbols declared directly
// in one block, function or the global region.
type Scope struct {
	elems   map[string]*Symbol
	order   []*Symbol // declaration order
	comment string    // e.g. "global", "function main", "block"
}

// NewScope returns an empty frame.
func NewScope(comment string) *Scope {
	return &Scope{
		elems:   make(map[string]*Symbol),
		comment: comment,
	}
}

func (s *Scope) Comment() string { return s.comment }
func (s *Scope) Len() int        { return len(s.order) }

// Lookup returns the symbol named name in this frame only, or nil.
func (s *Scope) Lookup(name string) *Symbol {
	return s.elems[name]
}

// Insert adds sym to the frame. If the name is already declared in the
// frame, Insert leaves the frame unchanged and returns the existing symbol.
func (s *Scope) Insert(sym *Symbol) *Symbol {
	if existing := s.elems[sym.Name]; existing != nil {
		return existing
	}
	s.elems[sym.Name] = sym
	s.order = append(s.order, sym)
	return nil
}

// Symbols returns the frame's symbols in declaration order.
func (s *Scope) Symbols() []*Symbol {
	return s.order
}

func (s *Scope) String() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "scope %s {\n", s.comment)
	for _, sym := range s.order {
		fmt.Fprintf(&buf, "  %v\n", sym)
	}
	buf.WriteString("}\n")
	return buf.String()
}

// Stack is the chain of frames visible at one point of a program,
// innermost last. Create stacks with NewStack.
type Stack struct {
	frames []*Scope
}

// NewStack returns a stack holding only global.
func NewStack(global *Scope) *Stack {
	return &Stack{frames: []*Scope{global}}
}

// Push opens a new innermost frame.
func (st *Stack) Push(comment string) *Scope {
	s := NewScope(comment)
	st.frames = append(st.frames, s)
	return s
}

// Pop closes the innermost frame. The global frame is never popped.
func (st *Stack) Pop() {
	if len(st.frames) > 1 {
		st.frames = st.frames[:len(st.frames)-1]
	}
}

// Top returns the innermost frame.
func (st *Stack) Top() *Scope {
	return st.frames[len(st.frames)-1]
}

// Global returns the outermost frame.
func (st *Stack) Global() *Scope {
	return st.frames[0]
}

// Depth returns the number of frames, including the global one.
func (st *Stack) Depth() int {
	return len(st.frames)
}

// Insert declares sym in the innermost frame; see Scope.Insert.
func (st *Stack) Insert(sym *Symbol) *Symbol {
	return st.Top().Insert(sym)
}

// LookupLocal looks name up in the innermost frame only.
func (st *Stack) LookupLocal(name string) *Symbol {
	return st.Top().Lookup(name)
}

// Lookup searches the frames from innermost to outermost and returns the
// first symbol named name, or nil.
func (st *Stack) Lookup(name string) *Symbol {
	for i := len(st.frames) - 1; i >= 0; i-- {
		if sym := st.frames[i].Lookup(name); sym != nil {
			return sym
		}
	}
	return nil
}
