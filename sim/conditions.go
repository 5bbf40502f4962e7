package sim

import (
	"context"
	"errors"

	"github.com/Comcast/strider/model"
)

// unsatisfied evaluates the action's preconditions (in declaration
// order) and then the derived structural constraints on its effect
// targets.  The two are kept separate here and merged only in the
// returned list, so early-termination results are reproducible:
// declared conditions first, derived ones after.
func (s *Simulator) unsatisfied(ctx context.Context, st *model.State, act *model.Action, vals []model.Value, earlyTermination bool) ([]*model.ConditionSource, error) {
	bs, err := act.Bind(vals)
	if err != nil {
		return nil, invalid(act, vals, err.Error())
	}

	missed := make([]*model.ConditionSource, 0, len(act.Preconds))

	for _, c := range act.Preconds {
		if c == nil || c.Code == nil {
			return nil, &model.UncompiledCondition{Where: "action " + act.Name}
		}
		v, err := c.Code.Eval(ctx, st, bs)
		if err != nil {
			return nil, invalid(act, vals, err.Error())
		}
		if v.Kind != model.BoolKind {
			return nil, invalid(act, vals, "non-boolean precondition value "+v.String())
		}
		if !v.Bool {
			missed = append(missed, c)
			if earlyTermination {
				return missed, nil
			}
		}
	}

	// Increase/decrease contributions are accumulated per ground
	// fluent, just as applyUnsafe will accumulate them, so the bound
	// check sees the value that would actually be written.
	deltas := make(map[string]delta)
	var keys []string

	for _, eff := range act.Effects {
		violation, err := s.checkEffect(ctx, st, bs, eff, deltas, &keys)
		if err != nil {
			return nil, invalid(act, vals, err.Error())
		}
		if violation != nil {
			missed = append(missed, violation)
			if earlyTermination {
				return missed, nil
			}
		}
	}

	for _, key := range keys {
		d := deltas[key]
		pre, _ := st.Value(key)
		result, err := pre.Plus(d.amount)
		if err != nil {
			return nil, invalid(act, vals, err.Error())
		}
		result, _ = result.Coerce(d.fluent.Result.Kind)
		t, err := s.problem.TypeOfValue(result)
		if err != nil {
			return nil, invalid(act, vals, err.Error())
		}
		if !d.fluent.Result.IsCompatible(t) || !d.fluent.Result.Contains(result) {
			missed = append(missed, boundViolation(key, d.fluent, result))
			if earlyTermination {
				return missed, nil
			}
		}
	}

	return missed, nil
}

// checkEffect grounds one effect against the pre-state and checks the
// result it would write against the target fluent's type.  An assign
// is checked here; an increase/decrease only accumulates into deltas
// (recording its key in keys, first touch in effect order), and the
// caller bound-checks the accumulated results.  A bound violation
// comes back as a derived ConditionSource; anything that makes the
// evaluation itself undefined comes back as an error (which the
// caller wraps as an InvalidActionError).
func (s *Simulator) checkEffect(ctx context.Context, st *model.State, bs model.Bindings, eff *model.Effect, deltas map[string]delta, keys *[]string) (*model.ConditionSource, error) {
	if eff.Value == nil || eff.Value.Code == nil || (eff.When != nil && eff.When.Code == nil) {
		return nil, &model.UncompiledCondition{Where: `effect on "` + eff.Fluent + `"`}
	}
	key, f, err := s.groundTarget(eff, bs)
	if err != nil {
		return nil, err
	}
	if _, have := st.Value(key); !have {
		return nil, &model.PartialState{Key: key}
	}

	if eff.When != nil {
		g, err := eff.When.Code.Eval(ctx, st, bs)
		if err != nil {
			return nil, err
		}
		if g.Kind != model.BoolKind {
			return nil, errors.New("non-boolean effect guard value " + g.String())
		}
		if !g.Bool {
			// A skipped effect can't violate anything.
			return nil, nil
		}
	}

	v, err := eff.Value.Code.Eval(ctx, st, bs)
	if err != nil {
		return nil, err
	}

	switch eff.Kind {
	case model.Increase, model.Decrease:
		d, have := deltas[key]
		if !have {
			z, err := zeroOf(v.Kind)
			if err != nil {
				return nil, err
			}
			d = delta{fluent: f, amount: z}
			*keys = append(*keys, key)
		}
		var acc model.Value
		if eff.Kind == model.Increase {
			acc, err = d.amount.Plus(v)
		} else {
			acc, err = d.amount.Minus(v)
		}
		if err != nil {
			return nil, err
		}
		d.amount = acc
		deltas[key] = d
		return nil, nil
	}

	result, _ := v.Coerce(f.Result.Kind)
	t, err := s.problem.TypeOfValue(result)
	if err != nil {
		return nil, err
	}
	if !f.Result.IsCompatible(t) || !f.Result.Contains(result) {
		return boundViolation(key, f, result), nil
	}
	return nil, nil
}

// groundTarget resolves an effect's target arguments and renders the
// ground fluent key.
func (s *Simulator) groundTarget(eff *model.Effect, bs model.Bindings) (string, *model.Fluent, error) {
	args := make([]model.Value, len(eff.Args))
	for i, t := range eff.Args {
		v, err := t.Resolve(bs)
		if err != nil {
			return "", nil, err
		}
		args[i] = v
	}
	key, err := s.problem.GroundFluent(eff.Fluent, args)
	if err != nil {
		return "", nil, err
	}
	f, _ := s.problem.Fluent(eff.Fluent)
	return key, f, nil
}

// boundViolation makes the derived pseudo-condition reported when an
// effect would write a value outside its fluent's type.  It uses the
// same representation as a declared condition (and even evaluates, to
// false), so callers see just another unsatisfied condition.
func boundViolation(key string, f *model.Fluent, result model.Value) *model.ConditionSource {
	return &model.ConditionSource{
		Source: map[string]interface{}{
			"constraint": map[string]interface{}{
				"fluent": key,
				"type":   f.Result.String(),
				"value":  result.String(),
			},
		},
		Code: &model.FuncCondition{
			F: func(ctx context.Context, st *model.State, bs model.Bindings) (model.Value, error) {
				return model.B(false), nil
			},
		},
	}
}

func invalid(act *model.Action, vals []model.Value, reason string) *InvalidActionError {
	return &InvalidActionError{
		Action: model.NewInstance(act, vals...).String(),
		Reason: reason,
	}
}
