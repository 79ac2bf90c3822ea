// Package types defines the minic type universe, symbols and scopes.
package types

// BasicKind describes the kind of a basic type.
type BasicKind int

const (
	Unknown BasicKind = iota // error sentinel; suppresses follow-up errors

	Int
	Float
	String
	Void // function results only
)

// BasicInfo is a set of properties of a basic type.
type BasicInfo int

const (
	IsInteger BasicInfo = 1 << iota
	IsFloat
	IsString

	IsNumeric = IsInteger | IsFloat
)

// Basic is one of the predeclared types.
type Basic struct {
	kind BasicKind
	info BasicInfo
	name string
}

func (b *Basic) Kind() BasicKind { return b.kind }
func (b *Basic) Info() BasicInfo { return b.info }
func (b *Basic) Name() string    { return b.name }
func (b *Basic) String() string  { return b.name }

// Typ holds the predeclared types, indexed by kind.
var Typ = [...]*Basic{
	Unknown: {kind: Unknown, name: "unknown"},
	Int:     {kind: Int, info: IsInteger, name: "int"},
	Float:   {kind: Float, info: IsFloat, name: "float"},
	String:  {kind: String, info: IsString, name: "string"},
	Void:    {kind: Void, name: "void"},
}

// LookupType returns the type spelled name in source, or the unknown type.
func LookupType(name string) *Basic {
	for _, t := range Typ {
		if t.name == name && t.kind != Unknown {
			return t
		}
	}
	return Typ[Unknown]
}
