/* Copyright 2018-2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package model

import "strconv"

// Kind classifies a Type (and a Value).
type Kind int

const (
	BoolKind Kind = iota
	IntKind
	RealKind
	ObjectKind
)

func (k Kind) String() string {
	switch k {
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case RealKind:
		return "real"
	case ObjectKind:
		return "object"
	}
	return "unknown"
}

// Type describes the type of a fluent value or of a parameter.
//
// Object types are user-defined and can form a hierarchy via Parent.
// Integer types can carry inclusive bounds, which is what makes domain
// enumeration and the structural bound checks possible.
type Type struct {
	Kind Kind   `json:"kind"`
	Name string `json:"name,omitempty" yaml:",omitempty"`

	// Parent is the supertype (if any) of an object type.
	Parent *Type `json:"-" yaml:"-"`

	// Min and Max are optional inclusive bounds for an integer type.
	Min *int64 `json:"min,omitempty" yaml:",omitempty"`
	Max *int64 `json:"max,omitempty" yaml:",omitempty"`
}

// The primitive types.  Object types are made with ObjType.
var (
	BoolType = &Type{Kind: BoolKind, Name: "bool"}
	IntType  = &Type{Kind: IntKind, Name: "int"}
	RealType = &Type{Kind: RealKind, Name: "real"}
)

// ObjType makes a user (object) type with an optional supertype.
func ObjType(name string, parent *Type) *Type {
	return &Type{
		Kind:   ObjectKind,
		Name:   name,
		Parent: parent,
	}
}

// BoundedIntType makes an integer type with the given inclusive
// bounds.
func BoundedIntType(min, max int64) *Type {
	return &Type{
		Kind: IntKind,
		Name: "int[" + strconv.FormatInt(min, 10) + "," + strconv.FormatInt(max, 10) + "]",
		Min:  &min,
		Max:  &max,
	}
}

// IsCompatible reports whether a value of type that can be used where
// the receiving type is declared.
//
// An integer is compatible with a real declaration but not the other
// way around.  An object type is compatible with any of its ancestors.
func (t *Type) IsCompatible(that *Type) bool {
	if t == nil || that == nil {
		return false
	}
	switch t.Kind {
	case BoolKind:
		return that.Kind == BoolKind
	case IntKind:
		return that.Kind == IntKind
	case RealKind:
		return that.Kind == RealKind || that.Kind == IntKind
	case ObjectKind:
		if that.Kind != ObjectKind {
			return false
		}
		for u := that; u != nil; u = u.Parent {
			if u == t || u.Name == t.Name {
				return true
			}
		}
	}
	return false
}

// Contains reports whether the given value is within the type's
// bounds.  Only bounded integer types actually constrain anything
// here; compatibility is IsCompatible's job.
func (t *Type) Contains(v Value) bool {
	if t == nil {
		return false
	}
	if t.Kind != IntKind || v.Kind != IntKind {
		return true
	}
	if t.Min != nil && v.Int < *t.Min {
		return false
	}
	if t.Max != nil && *t.Max < v.Int {
		return false
	}
	return true
}

func (t *Type) String() string {
	if t == nil {
		return "niltype"
	}
	if t.Name != "" {
		return t.Name
	}
	return t.Kind.String()
}
