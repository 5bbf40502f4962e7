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

package sim

import (
	"context"
	"fmt"

	"github.com/Comcast/strider/model"
)

// Simulator answers applicability questions and computes successor
// states for one compiled Problem.
//
// A Simulator holds no mutable state of its own, and States are
// immutable, so one Simulator can be shared by any number of
// goroutines with no coordination.
type Simulator struct {
	problem *model.Problem
}

// New makes a Simulator for the given problem, which must have been
// Compile()ed.
func New(p *model.Problem) (*Simulator, error) {
	if p == nil || !p.Compiled() {
		return nil, &model.NotCompiled{Problem: p}
	}
	return &Simulator{problem: p}, nil
}

// Problem returns the problem this simulator is bound to.
func (s *Simulator) Problem() *model.Problem {
	return s.problem
}

// InitialState returns the problem's initial state.
func (s *Simulator) InitialState() (*model.State, error) {
	return s.problem.InitialState()
}

// ground normalizes the two public calling conventions into one
// canonical (schema, bound values) pair.
//
// The action argument is either an *model.Action (with explicit
// params) or an *model.ActionInstance (with no params).  Supplying
// explicit params alongside an instance is ambiguous and a
// UsageError.  Every public entry point goes through here, so both
// conventions behave identically downstream.
func (s *Simulator) ground(method string, action interface{}, params []interface{}) (*model.Action, []model.Value, error) {
	var (
		act  *model.Action
		vals []model.Value
	)

	switch a := action.(type) {
	case *model.ActionInstance:
		if 0 < len(params) {
			return nil, nil, &UsageError{method, "got both an action instance and explicit parameters"}
		}
		if a == nil || a.Action == nil {
			return nil, nil, &UsageError{method, "nil action instance"}
		}
		act = a.Action
		vals = a.Params
	case *model.Action:
		if a == nil {
			return nil, nil, &UsageError{method, "nil action"}
		}
		act = a
		vals = make([]model.Value, 0, len(params))
		for _, x := range params {
			v, err := s.promote(method, x)
			if err != nil {
				return nil, nil, err
			}
			vals = append(vals, v)
		}
	case nil:
		return nil, nil, &UsageError{method, "no action given"}
	default:
		return nil, nil, &UsageError{method, fmt.Sprintf("unsupported action argument (%T)", action)}
	}

	if len(vals) != len(act.Params) {
		return nil, nil, &UsageError{method,
			fmt.Sprintf(`action "%s" wants %d parameters; got %d`, act.Name, len(act.Params), len(vals))}
	}
	for i, v := range vals {
		t, err := s.problem.TypeOfValue(v)
		if err != nil {
			return nil, nil, &UsageError{method, err.Error()}
		}
		declared := act.Params[i].Type
		if !declared.IsCompatible(t) || !declared.Contains(v) {
			return nil, nil, &UsageError{method,
				fmt.Sprintf(`parameter "%s" of action "%s": value "%s" is not a %s`,
					act.Params[i].Name, act.Name, v.String(), declared.String())}
		}
	}

	return act, vals, nil
}

// promote turns a raw Go value into a model.Value.  A string names an
// object constant of the problem.
func (s *Simulator) promote(method string, x interface{}) (model.Value, error) {
	switch v := x.(type) {
	case model.Value:
		return v, nil
	case bool:
		return model.B(v), nil
	case int:
		return model.I(int64(v)), nil
	case int64:
		return model.I(v), nil
	case float64:
		return model.R(v), nil
	case string:
		if _, have := s.problem.ObjectType(v); !have {
			return model.Value{}, &UsageError{method, `unknown object "` + v + `"`}
		}
		return model.O(v), nil
	}
	return model.Value{}, &UsageError{method, fmt.Sprintf("unsupported parameter value (%T)", x)}
}

// IsApplicable reports whether the action's conditions all hold in
// the given state.
//
// The action argument is either an *model.Action (ground it with the
// params) or an *model.ActionInstance (give no params).  A
// structurally invalid grounding is simply not applicable.
func (s *Simulator) IsApplicable(ctx context.Context, st *model.State, action interface{}, params ...interface{}) (bool, error) {
	act, vals, err := s.ground("IsApplicable", action, params)
	if err != nil {
		return false, err
	}
	missed, err := s.unsatisfied(ctx, st, act, vals, true)
	if err != nil {
		if IsInvalidAction(err) {
			return false, nil
		}
		return false, err
	}
	return 0 == len(missed), nil
}

// UnsatisfiedConditions returns the action's conditions that evaluate
// to false in the given state, in declaration order.
//
// With earlyTermination, the result has at most one element: the
// first offender.  The result can also contain conditions that were
// not declared by the action, when the grounding violates some other
// semantic bound (for example, a bounded fluent type that an effect
// would overflow).  Those derived conditions follow the declared
// ones.
func (s *Simulator) UnsatisfiedConditions(ctx context.Context, st *model.State, action interface{}, params []interface{}, earlyTermination bool) ([]*model.ConditionSource, error) {
	act, vals, err := s.ground("UnsatisfiedConditions", action, params)
	if err != nil {
		return nil, err
	}
	return s.unsatisfied(ctx, st, act, vals, earlyTermination)
}

// Apply returns the successor state obtained by applying the action,
// or nil (with no error) if the action is not applicable in the given
// state.
func (s *Simulator) Apply(ctx context.Context, st *model.State, action interface{}, params ...interface{}) (*model.State, error) {
	act, vals, err := s.ground("Apply", action, params)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, st, act, vals)
}

// ApplyUnsafe computes the successor state without checking
// applicability; the caller must have established it (say via
// IsApplicable).  Returns nil (with no error) if the action's
// surviving effects conflict.
func (s *Simulator) ApplyUnsafe(ctx context.Context, st *model.State, action interface{}, params ...interface{}) (*model.State, error) {
	act, vals, err := s.ground("ApplyUnsafe", action, params)
	if err != nil {
		return nil, err
	}
	return s.applyUnsafe(ctx, st, act, vals)
}

// IsGoal reports whether the state satisfies all of the problem's
// goals.
func (s *Simulator) IsGoal(ctx context.Context, st *model.State) (bool, error) {
	missed, err := s.UnsatisfiedGoals(ctx, st, true)
	if err != nil {
		return false, err
	}
	return 0 == len(missed), nil
}
