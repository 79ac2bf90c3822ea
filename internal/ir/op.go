// Package ir implements the control-flow-graph intermediate representation
// of minic programs and its textual form.
package ir

// Op is an IR operation code.
type Op int

const (
	OpInvalid Op = iota

	// Memory
	OpAlloca // stack slot; Result = slot
	OpLoad   // Args[0] = slot
	OpStore  // Args[0] = value, Args[1] = slot; no result

	// Arithmetic
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNeg // unary

	// Comparison; the result is 0 or 1
	OpCmpEq
	OpCmpNe
	OpCmpLt
	OpCmpLe
	OpCmpGt
	OpCmpGe

	// Logical
	OpAnd
	OpOr
	OpNot // unary

	// Control flow
	OpJmp   // Args[0] = label
	OpJmpIf // Args[0] = condition, Args[1] = label; falls through otherwise
	OpCall  // Args[0] = callee, Args[1:] = arguments
	OpRet   // Args[0] = value, if any

	// Conversion
	OpIntToFloat
	OpFloatToInt

	// Reserved for optimizer passes and annotations.
	OpPhi
	OpLabel
	OpComment

	opCount // sentinel; must be last
)

// OpInfo holds metadata about an operation.
type OpInfo struct {
	Name       string // mnemonic
	HasResult  bool   // the instruction defines a temporary
	Terminator bool   // the instruction may end a block
	IsPure     bool   // no side effects
}

var opInfoTable = [opCount]OpInfo{
	OpInvalid: {Name: "invalid"},

	OpAlloca: {Name: "alloca", HasResult: true},
	OpLoad:   {Name: "load", HasResult: true},
	OpStore:  {Name: "store"},

	OpAdd: {Name: "add", HasResult: true, IsPure: true},
	OpSub: {Name: "sub", HasResult: true, IsPure: true},
	OpMul: {Name: "mul", HasResult: true, IsPure: true},
	OpDiv: {Name: "div", HasResult: true, IsPure: true},
	OpMod: {Name: "mod", HasResult: true, IsPure: true},
	OpNeg: {Name: "neg", HasResult: true, IsPure: true},

	OpCmpEq: {Name: "cmp_eq", HasResult: true, IsPure: true},
	OpCmpNe: {Name: "cmp_ne", HasResult: true, IsPure: true},
	OpCmpLt: {Name: "cmp_lt", HasResult: true, IsPure: true},
	OpCmpLe: {Name: "cmp_le", HasResult: true, IsPure: true},
	OpCmpGt: {Name: "cmp_gt", HasResult: true, IsPure: true},
	OpCmpGe: {Name: "cmp_ge", HasResult: true, IsPure: true},

	OpAnd: {Name: "and", HasResult: true, IsPure: true},
	OpOr:  {Name: "or", HasResult: true, IsPure: true},
	OpNot: {Name: "not", HasResult: true, IsPure: true},

	OpJmp:   {Name: "jmp", Terminator: true},
	OpJmpIf: {Name: "jmp_if"},
	OpCall:  {Name: "call", HasResult: true},
	OpRet:   {Name: "ret", Terminator: true},

	OpIntToFloat: {Name: "int_to_float", HasResult: true, IsPure: true},
	OpFloatToInt: {Name: "float_to_int", HasResult: true, IsPure: true},

	OpPhi:     {Name: "phi", HasResult: true, IsPure: true},
	OpLabel:   {Name: "label"},
	OpComment: {Name: "comment"},
}

// String returns the mnemonic of the op.
func (o Op) String() string {
	return o.Info().Name
}

// Info returns the OpInfo for this op.
func (o Op) Info() OpInfo {
	if o >= 0 && o < opCount {
		return opInfoTable[o]
	}
	return OpInfo{Name: "unknown"}
}

func (o Op) HasResult() bool    { return o.Info().HasResult }
func (o Op) IsTerminator() bool { return o.Info().Terminator }
func (o Op) IsPure() bool       { return o.Info().IsPure }
