package interp

import (
	"strconv"

	"github.com/ascript/as/internal/ast"
)

// ValueType tags a runtime Value's variant.
type ValueType string

const (
	NumberType   ValueType = "NUMBER"
	StringType   ValueType = "STRING"
	BooleanType  ValueType = "BOOLEAN"
	FunctionType ValueType = "FUNCTION"
	NullType     ValueType = "NULL"
)

// Value is the uniform runtime value model from spec.md §3: a tagged sum
// over Number, String, Boolean, Function, and Null.
type Value interface {
	Type() ValueType
	String() string
}

// Number is an IEEE-754 double.
type Number struct{ Value float64 }

func (n *Number) Type() ValueType { return NumberType }
func (n *Number) String() string  { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

// String is a raw byte sequence (no UTF-8 validation is assumed or
// required at the value layer either).
type String struct{ Value string }

func (s *String) Type() ValueType { return StringType }
func (s *String) String() string  { return s.Value }

// Boolean is true or false.
type Boolean struct{ Value bool }

func (b *Boolean) Type() ValueType { return BooleanType }
func (b *Boolean) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// Null is the sole value of its type, returned by statements that have no
// other result (e.g. a no-op import) and used as the catch-all argument
// default for missing call parameters.
type Null struct{}

func (n *Null) Type() ValueType { return NullType }
func (n *Null) String() string  { return "null" }

var nullValue = &Null{}

// Function is a first-class function value: its declared name, ordered
// parameter names, a reference to its (shared, never-copied) body AST
// node, and a closure snapshot — the environment frame active at the
// point of declaration. Calling the function re-enters evaluation with
// that frame as the lexical parent, not the caller's frame, which is
// exactly what gives closures their captured-at-declaration semantics
// (spec.md §3 Invariants, §4.3 "Function declaration").
type Function struct {
	Name    string
	Params  []string
	Body    *ast.Block
	Closure *Environment
}

func (f *Function) Type() ValueType { return FunctionType }
func (f *Function) String() string  { return "[Function: " + f.Name + "]" }

// returnSignal wraps a Value to unwind a function body without
// exceptions: every statement evaluator checks for it and short-circuits,
// and applyFunction unwraps it at the call boundary, per spec.md §4.3's
// "State machine — return propagation".
type returnSignal struct{ value Value }

func (r *returnSignal) Type() ValueType { return r.value.Type() }
func (r *returnSignal) String() string  { return r.value.String() }

func isReturn(v Value) (*returnSignal, bool) {
	rs, ok := v.(*returnSignal)
	return rs, ok
}
