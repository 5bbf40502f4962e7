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

import (
	"context"
	"errors"
	"strconv"
)

// object is an object constant in a problem's universe.
type object struct {
	name string
	typ  *Type
}

// Problem is a planning problem definition: an object universe,
// fluent declarations, action schemas, goal expressions, and initial
// values.
//
// A Problem is built up with the Add* methods, Compile()ed once, and
// read-only afterwards.  Fluents, Actions, and Goals keep declaration
// order, which the simulator relies on for deterministic results.
type Problem struct {
	// Name is a generic name for this problem.  Something like
	// "robot-delivery".
	Name string `json:"name,omitempty" yaml:",omitempty"`

	// Doc is general documentation about this problem.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	// Fluents are the declared state variables (in order).
	Fluents []*Fluent `json:"fluents,omitempty" yaml:",omitempty"`

	// Actions are the action schemas (in order).
	Actions []*Action `json:"actions,omitempty" yaml:",omitempty"`

	// Goals are the problem's goal expressions (in order).
	Goals []*ConditionSource `json:"goals,omitempty" yaml:",omitempty"`

	objects     []object
	objectIndex map[string]*Type
	fluentIndex map[string]*Fluent
	inits       map[string]Value

	compiled bool
}

// NewProblem makes an empty Problem.
func NewProblem(name string) *Problem {
	return &Problem{
		Name:        name,
		objectIndex: make(map[string]*Type),
		fluentIndex: make(map[string]*Fluent),
		inits:       make(map[string]Value),
	}
}

// AddObject declares an object constant of the given (object) type.
func (p *Problem) AddObject(name string, t *Type) error {
	if t == nil || t.Kind != ObjectKind {
		return errors.New(`object "` + name + `" needs an object type`)
	}
	if _, have := p.objectIndex[name]; have {
		return errors.New(`object "` + name + `" already declared`)
	}
	p.objects = append(p.objects, object{name: name, typ: t})
	p.objectIndex[name] = t
	return nil
}

// ObjectType returns the declared type of the named object constant.
func (p *Problem) ObjectType(name string) (*Type, bool) {
	t, have := p.objectIndex[name]
	return t, have
}

// AddFluent declares a fluent.
func (p *Problem) AddFluent(f *Fluent) error {
	if _, have := p.fluentIndex[f.Name]; have {
		return errors.New(`fluent "` + f.Name + `" already declared`)
	}
	p.Fluents = append(p.Fluents, f)
	p.fluentIndex[f.Name] = f
	return nil
}

// Fluent returns the named fluent declaration.
func (p *Problem) Fluent(name string) (*Fluent, bool) {
	f, have := p.fluentIndex[name]
	return f, have
}

// AddAction declares an action schema.
func (p *Problem) AddAction(a *Action) error {
	for _, b := range p.Actions {
		if b.Name == a.Name {
			return errors.New(`action "` + a.Name + `" already declared`)
		}
	}
	p.Actions = append(p.Actions, a)
	return nil
}

// Action returns the named action schema.
func (p *Problem) Action(name string) (*Action, bool) {
	for _, a := range p.Actions {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

// AddGoal appends a goal expression.
func (p *Problem) AddGoal(g *ConditionSource) {
	p.Goals = append(p.Goals, g)
}

// TypeOfValue returns the type of the given value.  For an object
// value, that's the declared type of the named object constant.
func (p *Problem) TypeOfValue(v Value) (*Type, error) {
	switch v.Kind {
	case BoolKind:
		return BoolType, nil
	case IntKind:
		return IntType, nil
	case RealKind:
		return RealType, nil
	case ObjectKind:
		t, have := p.objectIndex[v.Obj]
		if !have {
			return nil, &UnknownObject{p, v.Obj}
		}
		return t, nil
	}
	return nil, errors.New("value of unknown kind")
}

// CheckArgs verifies arity, type compatibility, and bounds of the
// given values against the fluent's parameters.
func (p *Problem) CheckArgs(f *Fluent, args []Value) error {
	if len(args) != len(f.Params) {
		return &BadArgs{f.Name, "wrong number of arguments"}
	}
	for i, a := range args {
		t, err := p.TypeOfValue(a)
		if err != nil {
			return err
		}
		declared := f.Params[i].Type
		if !declared.IsCompatible(t) || !declared.Contains(a) {
			return &BadArgs{f.Name, `value "` + a.String() + `" is not a ` + declared.String()}
		}
	}
	return nil
}

// GroundFluent validates the arguments and renders the canonical key
// for the ground fluent instance.
func (p *Problem) GroundFluent(name string, args []Value) (string, error) {
	f, have := p.fluentIndex[name]
	if !have {
		return "", &UnknownFluent{p, name}
	}
	if err := p.CheckArgs(f, args); err != nil {
		return "", err
	}
	return GroundKey(name, args), nil
}

// Domain returns the finite set of values inhabiting the given type,
// in a deterministic order: booleans, bounded integers, and object
// types (object constants in declaration order).  Reals and unbounded
// integers have no finite domain.
func (p *Problem) Domain(t *Type) ([]Value, bool) {
	if t == nil {
		return nil, false
	}
	switch t.Kind {
	case BoolKind:
		return []Value{B(false), B(true)}, true
	case IntKind:
		if t.Min == nil || t.Max == nil {
			return nil, false
		}
		if *t.Max < *t.Min {
			return []Value{}, true
		}
		acc := make([]Value, 0, *t.Max-*t.Min+1)
		for i := *t.Min; i <= *t.Max; i++ {
			acc = append(acc, I(i))
		}
		return acc, true
	case ObjectKind:
		acc := make([]Value, 0, len(p.objects))
		for _, o := range p.objects {
			if t.IsCompatible(o.typ) {
				acc = append(acc, O(o.name))
			}
		}
		return acc, true
	}
	return nil, false
}

// Domains returns the finite domains for the given parameters, or
// false if any parameter's type has no finite domain.
func (p *Problem) Domains(params []Param) ([][]Value, bool) {
	acc := make([][]Value, len(params))
	for i, pp := range params {
		d, ok := p.Domain(pp.Type)
		if !ok {
			return nil, false
		}
		acc[i] = d
	}
	return acc, true
}

// SetInitial sets the initial value for one ground fluent instance.
func (p *Problem) SetInitial(fluent string, args []Value, v Value) error {
	f, have := p.fluentIndex[fluent]
	if !have {
		return &UnknownFluent{p, fluent}
	}
	if err := p.CheckArgs(f, args); err != nil {
		return err
	}
	t, err := p.TypeOfValue(v)
	if err != nil {
		return err
	}
	if !f.Result.IsCompatible(t) || !f.Result.Contains(v) {
		return &BadArgs{fluent, `initial value "` + v.String() + `" is not a ` + f.Result.String()}
	}
	p.inits[GroundKey(fluent, args)] = v
	return nil
}

// Compile compiles all condition-like sources into Conditions.
//
// Condition-like sources include preconditions, effect values, effect
// guards, and goals.
func (p *Problem) Compile(ctx context.Context, evaluators map[string]Evaluator, force bool) error {
	p.reindex()

	compile := func(cs *ConditionSource, where string) error {
		if cs == nil {
			return &UncompiledCondition{where}
		}
		if cs.Source != nil && (force || cs.Code == nil) {
			code, err := cs.Compile(ctx, evaluators)
			if err != nil {
				return errors.New(err.Error() + ": " + where)
			}
			cs.Code = code
		}
		if cs.Code == nil {
			return &UncompiledCondition{where}
		}
		return nil
	}

	for _, a := range p.Actions {
		for i, c := range a.Preconds {
			if err := compile(c, "precondition "+itoa(i)+" of action "+a.Name); err != nil {
				return err
			}
		}
		for i, e := range a.Effects {
			where := "effect " + itoa(i) + " of action " + a.Name
			if err := compile(e.Value, where); err != nil {
				return err
			}
			if e.When != nil {
				if err := compile(e.When, "guard of "+where); err != nil {
					return err
				}
			}
			if _, have := p.fluentIndex[e.Fluent]; !have {
				return &UnknownFluent{p, e.Fluent}
			}
		}
	}

	for i, g := range p.Goals {
		if err := compile(g, "goal "+itoa(i)); err != nil {
			return err
		}
	}

	p.compiled = true

	return nil
}

// Compiled reports whether Compile has succeeded.
func (p *Problem) Compiled() bool {
	return p.compiled
}

// InitialState builds the problem's initial state: a total assignment
// over every ground fluent instance, from the explicit initial values
// plus fluent defaults.
func (p *Problem) InitialState() (*State, error) {
	p.reindex()

	values := make(map[string]Value)
	for _, f := range p.Fluents {
		domains, ok := p.Domains(f.Params)
		if !ok {
			return nil, errors.New(`cannot enumerate instances of fluent "` + f.Name + `"`)
		}
		ts := NewTuples(domains)
		for {
			args, ok := ts.Next()
			if !ok {
				break
			}
			key := GroundKey(f.Name, args)
			if v, have := p.inits[key]; have {
				values[key] = v
			} else if f.Default != nil {
				values[key] = *f.Default
			} else {
				return nil, &PartialState{key}
			}
		}
	}
	return NewState(values), nil
}

// reindex rebuilds the lookup maps in case the caller populated the
// exported slices directly.
func (p *Problem) reindex() {
	if p.fluentIndex == nil {
		p.fluentIndex = make(map[string]*Fluent)
	}
	if p.objectIndex == nil {
		p.objectIndex = make(map[string]*Type)
	}
	if p.inits == nil {
		p.inits = make(map[string]Value)
	}
	for _, f := range p.Fluents {
		p.fluentIndex[f.Name] = f
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
