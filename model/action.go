package model

import (
	"errors"
	"strings"
)

// UnboundParam occurs when an effect's target argument refers to a
// parameter that isn't bound.
type UnboundParam struct {
	Name string
}

func (e *UnboundParam) Error() string {
	return `parameter "` + e.Name + `" is not bound`
}

// EffectKind says how an effect combines its value with the target
// fluent's current value.
type EffectKind int

const (
	Assign EffectKind = iota
	Increase
	Decrease
)

func (k EffectKind) String() string {
	switch k {
	case Assign:
		return "assign"
	case Increase:
		return "increase"
	case Decrease:
		return "decrease"
	}
	return "unknown"
}

// Term is one argument of an effect's target fluent: either a
// reference to an action parameter or a constant value.  Exactly one
// of Param and Const should be given.
type Term struct {
	Param string `json:"param,omitempty" yaml:",omitempty"`
	Const *Value `json:"const,omitempty" yaml:",omitempty"`
}

// P makes a Term referring to an action parameter.
func P(name string) Term {
	return Term{Param: name}
}

// C makes a constant Term.
func C(v Value) Term {
	return Term{Const: &v}
}

// Resolve turns the Term into a Value given the current parameter
// bindings.
func (t Term) Resolve(bs Bindings) (Value, error) {
	if t.Const != nil {
		return *t.Const, nil
	}
	v, have := bs[t.Param]
	if !have {
		return Value{}, &UnboundParam{t.Param}
	}
	return v, nil
}

// Effect describes how one application of an action changes one
// fluent's value.
type Effect struct {
	Kind EffectKind `json:"kind"`

	// Fluent names the target fluent; Args ground its parameters.
	Fluent string `json:"fluent"`
	Args   []Term `json:"args,omitempty" yaml:",omitempty"`

	// Value is the new value (Assign) or the delta
	// (Increase/Decrease).  It is always evaluated against the
	// pre-state: effects never see each other's output.
	Value *ConditionSource `json:"value"`

	// When, if given, guards the effect.  The guard is evaluated
	// against the pre-state; a false guard skips the effect.
	When *ConditionSource `json:"when,omitempty" yaml:",omitempty"`
}

// Copy makes a shallow copy of the Effect.
func (e *Effect) Copy() *Effect {
	if e == nil {
		return nil
	}
	args := make([]Term, len(e.Args))
	copy(args, e.Args)
	return &Effect{
		Kind:   e.Kind,
		Fluent: e.Fluent,
		Args:   args,
		Value:  e.Value.Copy(),
		When:   e.When.Copy(),
	}
}

// Action is an action schema: a name, ordered typed parameters, a
// list of precondition expressions, and a list of effects.
//
// Preconditions and effects are evaluated strictly in declaration
// order, which makes early-termination results deterministic.
type Action struct {
	Name string `json:"name"`
	Doc  string `json:"doc,omitempty" yaml:",omitempty"`

	Params []Param `json:"params,omitempty" yaml:",omitempty"`

	Preconds []*ConditionSource `json:"preconds,omitempty" yaml:",omitempty"`

	Effects []*Effect `json:"effects,omitempty" yaml:",omitempty"`
}

var TooFewParams = errors.New("too few parameters for action")

// Bind pairs the action's parameter names with the given values.
//
// The caller is responsible for having checked arity and type
// compatibility (the simulator does that once, at grounding).
func (a *Action) Bind(vals []Value) (Bindings, error) {
	if len(vals) < len(a.Params) {
		return nil, TooFewParams
	}
	bs := make(Bindings, len(a.Params))
	for i, p := range a.Params {
		bs[p.Name] = vals[i]
	}
	return bs, nil
}

// ActionInstance is an action schema together with one concrete value
// per parameter: a grounded action.
//
// Instances are made on demand and owned by the caller; the simulator
// does not cache them.
type ActionInstance struct {
	Action *Action `json:"action"`
	Params []Value `json:"params,omitempty" yaml:",omitempty"`
}

// NewInstance makes an ActionInstance.
func NewInstance(a *Action, params ...Value) *ActionInstance {
	return &ActionInstance{
		Action: a,
		Params: params,
	}
}

func (ai *ActionInstance) String() string {
	if ai == nil || ai.Action == nil {
		return "nil"
	}
	if 0 == len(ai.Params) {
		return ai.Action.Name
	}
	acc := make([]string, len(ai.Params))
	for i, v := range ai.Params {
		acc[i] = v.String()
	}
	return ai.Action.Name + "(" + strings.Join(acc, ",") + ")"
}
