package ir

import (
	"fmt"
	"strconv"
)

// Value is an instruction operand. Values are referenced, not owned: the
// same value may appear in many instructions.
type Value interface {
	// String returns the textual form of the value.
	String() string
	// Type returns the type of the value.
	Type() Type

	aValue()
}

// IntConst is a 32-bit integer constant.
type IntConst struct {
	Val int32
}

// FloatConst is a 32-bit floating-point constant.
type FloatConst struct {
	Val float32
}

// Ident is a named storage slot, parameter or temporary.
type Ident struct {
	Name string
	Typ  Type
}

// Label names a basic block.
type Label struct {
	Name string
}

// FuncRef names a function as a call target.
type FuncRef struct {
	Name   string
	Result Type
}

func (*IntConst) aValue()   {}
func (*FloatConst) aValue() {}
func (*Ident) aValue()      {}
func (*Label) aValue()      {}
func (*FuncRef) aValue()    {}

func (c *IntConst) String() string   { return strconv.FormatInt(int64(c.Val), 10) }
func (c *FloatConst) String() string { return fmt.Sprintf("%.6f", c.Val) }
func (v *Ident) String() string      { return "%" + v.Name }
func (l *Label) String() string      { return l.Name + ":" }
func (f *FuncRef) String() string    { return "@" + f.Name }

func (*IntConst) Type() Type   { return I32 }
func (*FloatConst) Type() Type { return F32 }
func (v *Ident) Type() Type    { return v.Typ }
func (*Label) Type() Type      { return LabelType }
func (f *FuncRef) Type() Type  { return f.Result }

func NewInt(v int32) *IntConst                { return &IntConst{Val: v} }
func NewFloat(v float32) *FloatConst          { return &FloatConst{Val: v} }
func NewIdent(name string, typ Type) *Ident   { return &Ident{Name: name, Typ: typ} }
func NewLabel(name string) *Label             { return &Label{Name: name} }
func NewFuncRef(name string, r Type) *FuncRef { return &FuncRef{Name: name, Result: r} }
