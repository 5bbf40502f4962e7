package model

import "strings"

// Param is a named, typed parameter of a fluent or of an action.
type Param struct {
	Name string `json:"name"`
	Type *Type  `json:"type"`
}

// Fluent is a named, typed state variable, possibly parameterized.
//
// A Fluent by itself is just a declaration.  The state maps each
// ground instance of a fluent (the fluent with concrete values for
// all of its parameters) to a Value.
type Fluent struct {
	// Name identifies the fluent within a Problem.
	Name string `json:"name"`

	// Doc is optional documentation for humans.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	// Params are the fluent's parameters (in order).
	Params []Param `json:"params,omitempty" yaml:",omitempty"`

	// Result is the type of the fluent's value.
	Result *Type `json:"result"`

	// Default, if non-nil, is the initial value for any ground
	// instance that the problem does not set explicitly.
	Default *Value `json:"default,omitempty" yaml:",omitempty"`
}

// GroundKey renders the canonical key for a ground fluent instance:
// "name" for a parameterless fluent and "name(a,b)" otherwise.
//
// This rendering is the identity of a ground fluent, so it must be
// deterministic.  Values render via Value.String.
func GroundKey(name string, args []Value) string {
	if 0 == len(args) {
		return name
	}
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, a := range args {
		if 0 < i {
			b.WriteByte(',')
		}
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}
