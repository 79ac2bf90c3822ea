package types

func (b *Basic) IsNumeric() bool { return b.info&IsNumeric != 0 }
func (b *Basic) IsInteger() bool { return b.info&IsInteger != 0 }
func (b *Basic) IsUnknown() bool { return b.kind == Unknown }

// AssignableTo reports whether a value of type v can be used where type t
// is expected: identical types, or int widening to float.
func AssignableTo(v, t *Basic) bool {
	return v == t || v.kind == Int && t.kind == Float
}

// Compatible reports whether either type is assignable to the other.
func Compatible(x, y *Basic) bool {
	return AssignableTo(x, y) || AssignableTo(y, x)
}

// CommonType returns the result type of arithmetic on x and y: float if
// either is float, int if both are int, unknown otherwise.
func CommonType(x, y *Basic) *Basic {
	switch {
	case x.kind == Float && y.IsNumeric(), y.kind == Float && x.IsNumeric():
		return Typ[Float]
	case x.kind == Int && y.kind == Int:
		return Typ[Int]
	}
	return Typ[Unknown]
}
