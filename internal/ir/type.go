package ir

import "github.com/you-not-fish/minic/internal/types"

// Type is an IR value type.
type Type int

const (
	Void Type = iota
	I32
	F32
	Ptr
	LabelType
)

var typeNames = [...]string{
	Void:      "void",
	I32:       "i32",
	F32:       "f32",
	Ptr:       "ptr",
	LabelType: "label",
}

func (t Type) String() string {
	if t >= 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// TypeOf maps a source type to its IR type. Types without an IR
// representation map to I32.
func TypeOf(t *types.Basic) Type {
	if t == nil {
		return I32
	}
	switch t.Kind() {
	case types.Float:
		return F32
	case types.Void:
		return Void
	}
	return I32
}
