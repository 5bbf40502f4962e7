package model

import (
	"errors"
	"strconv"
)

// NotNumeric occurs when arithmetic is attempted on a boolean or
// object value.
var NotNumeric = errors.New("value is not numeric")

// Value is a concrete typed value: the value of a ground fluent or a
// value bound to an action parameter.
//
// A Value is a plain struct so that copies are free and comparisons
// are cheap.  The zero Value is the boolean false.
type Value struct {
	Kind Kind    `json:"kind"`
	Bool bool    `json:"bool,omitempty" yaml:",omitempty"`
	Int  int64   `json:"int,omitempty" yaml:",omitempty"`
	Real float64 `json:"real,omitempty" yaml:",omitempty"`
	Obj  string  `json:"obj,omitempty" yaml:",omitempty"`
}

// B makes a boolean Value.
func B(x bool) Value {
	return Value{Kind: BoolKind, Bool: x}
}

// I makes an integer Value.
func I(x int64) Value {
	return Value{Kind: IntKind, Int: x}
}

// R makes a real Value.
func R(x float64) Value {
	return Value{Kind: RealKind, Real: x}
}

// O makes an object Value naming an object constant.
func O(name string) Value {
	return Value{Kind: ObjectKind, Obj: name}
}

// Equal reports semantic equality.  An integer and a real are equal
// when they denote the same number.
func (v Value) Equal(w Value) bool {
	if v.Kind == w.Kind {
		return v == w
	}
	if v.Kind == IntKind && w.Kind == RealKind {
		return float64(v.Int) == w.Real
	}
	if v.Kind == RealKind && w.Kind == IntKind {
		return v.Real == float64(w.Int)
	}
	return false
}

// IsTrue reports whether the value is the boolean true.
func (v Value) IsTrue() bool {
	return v.Kind == BoolKind && v.Bool
}

// Native returns the value as a plain Go value for handing to an
// expression evaluator.  Object values become their constant's name.
func (v Value) Native() interface{} {
	switch v.Kind {
	case BoolKind:
		return v.Bool
	case IntKind:
		return v.Int
	case RealKind:
		return v.Real
	case ObjectKind:
		return v.Obj
	}
	return nil
}

func (v Value) String() string {
	switch v.Kind {
	case BoolKind:
		return strconv.FormatBool(v.Bool)
	case IntKind:
		return strconv.FormatInt(v.Int, 10)
	case RealKind:
		return strconv.FormatFloat(v.Real, 'g', -1, 64)
	case ObjectKind:
		return v.Obj
	}
	return "unknown"
}

// Plus adds a numeric delta.  Two integers give an integer; any real
// involved gives a real.
func (v Value) Plus(d Value) (Value, error) {
	if v.Kind == IntKind && d.Kind == IntKind {
		return I(v.Int + d.Int), nil
	}
	a, ok := v.asReal()
	if !ok {
		return Value{}, NotNumeric
	}
	b, ok := d.asReal()
	if !ok {
		return Value{}, NotNumeric
	}
	return R(a + b), nil
}

// Minus subtracts a numeric delta.
func (v Value) Minus(d Value) (Value, error) {
	if v.Kind == IntKind && d.Kind == IntKind {
		return I(v.Int - d.Int), nil
	}
	a, ok := v.asReal()
	if !ok {
		return Value{}, NotNumeric
	}
	b, ok := d.asReal()
	if !ok {
		return Value{}, NotNumeric
	}
	return R(a - b), nil
}

func (v Value) asReal() (float64, bool) {
	switch v.Kind {
	case IntKind:
		return float64(v.Int), true
	case RealKind:
		return v.Real, true
	}
	return 0, false
}

// Coerce converts the value to the given numeric kind when that loses
// nothing: an integer can always become a real, and a real that
// denotes an integer can become an integer.  Any other conversion
// returns the value unchanged with ok false.
func (v Value) Coerce(k Kind) (Value, bool) {
	if v.Kind == k {
		return v, true
	}
	if k == RealKind && v.Kind == IntKind {
		return R(float64(v.Int)), true
	}
	if k == IntKind && v.Kind == RealKind && v.Real == float64(int64(v.Real)) {
		return I(int64(v.Real)), true
	}
	return v, false
}
