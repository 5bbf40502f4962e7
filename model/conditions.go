package model

import (
	"context"
	"errors"
)

var (
	// EvaluatorNotFound occurs when you try to Compile a
	// ConditionSource, and the required evaluator isn't in the
	// given map of evaluators.
	EvaluatorNotFound = errors.New("evaluator not found")

	// DefaultEvaluators will be used by ConditionSource.Compile if
	// given nil evaluators.
	DefaultEvaluators = make(map[string]Evaluator)
)

// Bindings maps action parameter names to the values bound to them.
type Bindings map[string]Value

// Copy makes a copy of the Bindings.
func (bs Bindings) Copy() Bindings {
	acc := make(Bindings, len(bs))
	for p, v := range bs {
		acc[p] = v
	}
	return acc
}

// Native renders the Bindings as plain Go values for handing to an
// expression evaluator.
func (bs Bindings) Native() map[string]interface{} {
	acc := make(map[string]interface{}, len(bs))
	for p, v := range bs {
		acc[p] = v.Native()
	}
	return acc
}

// Evaluator can optionally compile and then evaluate expression code
// for preconditions, effect values, effect guards, and goals.
//
// An Evaluator must treat the given State and Bindings as read-only.
type Evaluator interface {
	// Compile can make something that helps when Eval()ing the
	// code later.
	Compile(ctx context.Context, code interface{}) (interface{}, error)

	// Eval evaluates the code against the state with the given
	// parameter bindings.  The result of a previous Compile()
	// might be provided.
	Eval(ctx context.Context, st *State, bs Bindings, code interface{}, compiled interface{}) (Value, error)
}

// Condition produces a Value from a State and Bindings.
//
// The simulator treats a Condition as a black box.  A condition used
// as a precondition, guard, or goal must produce a boolean; a
// condition used as an effect's value expression produces whatever
// the target fluent calls for.
type Condition interface {
	Eval(ctx context.Context, st *State, bs Bindings) (Value, error)
}

// FuncCondition is a Condition implemented directly as a Go function.
type FuncCondition struct {
	F func(context.Context, *State, Bindings) (Value, error) `json:"-" yaml:"-"`
}

func (c *FuncCondition) Eval(ctx context.Context, st *State, bs Bindings) (Value, error) {
	return c.F(ctx, st, bs)
}

// ConditionSource can be compiled to a Condition.
//
// A source with Code already set (say a FuncCondition provided in Go)
// needs no evaluator and survives Problem.Compile unchanged.
type ConditionSource struct {
	Evaluator string      `json:"evaluator,omitempty" yaml:",omitempty"`
	Source    interface{} `json:"source"`
	Code      Condition   `json:"-" yaml:"-"`
}

// Cond makes a ConditionSource for the named evaluator.
func Cond(evaluator string, source interface{}) *ConditionSource {
	return &ConditionSource{
		Evaluator: evaluator,
		Source:    source,
	}
}

// CondF makes an already-compiled ConditionSource from a Go function.
func CondF(f func(context.Context, *State, Bindings) (Value, error)) *ConditionSource {
	return &ConditionSource{
		Code: &FuncCondition{F: f},
	}
}

// Copy makes a shallow copy.
func (c *ConditionSource) Copy() *ConditionSource {
	if c == nil {
		return nil
	}
	return &ConditionSource{
		Evaluator: c.Evaluator,
		Source:    c.Source,
		Code:      c.Code,
	}
}

// Compile attempts to compile the ConditionSource into a Condition
// using the given evaluators, which defaults to DefaultEvaluators.
func (c *ConditionSource) Compile(ctx context.Context, evaluators map[string]Evaluator) (Condition, error) {
	if evaluators == nil {
		evaluators = DefaultEvaluators
	}

	evaluator, have := evaluators[c.Evaluator]
	if !have {
		return nil, EvaluatorNotFound
	}

	x, err := evaluator.Compile(ctx, c.Source)
	if err != nil {
		return nil, err
	}

	return &FuncCondition{
		F: func(ctx context.Context, st *State, bs Bindings) (Value, error) {
			return evaluator.Eval(ctx, st, bs, c.Source, x)
		},
	}, nil
}
