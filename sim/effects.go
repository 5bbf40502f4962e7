package sim

import (
	"context"
	"errors"

	"github.com/Comcast/strider/model"
)

// apply checks applicability and then delegates to applyUnsafe.  A
// structurally invalid grounding is just "not applicable": nil state,
// nil error.
func (s *Simulator) apply(ctx context.Context, st *model.State, act *model.Action, vals []model.Value) (*model.State, error) {
	missed, err := s.unsatisfied(ctx, st, act, vals, true)
	if err != nil {
		if IsInvalidAction(err) {
			return nil, nil
		}
		return nil, err
	}
	if 0 < len(missed) {
		return nil, nil
	}
	return s.applyUnsafe(ctx, st, act, vals)
}

// delta accumulates increase/decrease contributions to one ground
// fluent.
type delta struct {
	fluent *model.Fluent
	amount model.Value
}

// applyUnsafe computes the successor state.
//
// All guards and value expressions are evaluated against the
// pre-state (single-step, simultaneous semantics).  Two surviving
// assigns to one ground fluent with differing values conflict, as
// does an assign mixed with an increase/decrease; either way the
// application has no well-defined successor and the result is nil.
// Increases and decreases to one fluent accumulate.
func (s *Simulator) applyUnsafe(ctx context.Context, st *model.State, act *model.Action, vals []model.Value) (*model.State, error) {
	bs, err := act.Bind(vals)
	if err != nil {
		return nil, invalid(act, vals, err.Error())
	}

	assigns := make(map[string]model.Value)
	deltas := make(map[string]delta)

	for _, eff := range act.Effects {
		if eff.Value == nil || eff.Value.Code == nil || (eff.When != nil && eff.When.Code == nil) {
			return nil, &model.UncompiledCondition{Where: `effect on "` + eff.Fluent + `"`}
		}

		if eff.When != nil {
			g, err := eff.When.Code.Eval(ctx, st, bs)
			if err != nil {
				return nil, invalid(act, vals, err.Error())
			}
			if g.Kind != model.BoolKind {
				return nil, invalid(act, vals, "non-boolean effect guard value "+g.String())
			}
			if !g.Bool {
				continue
			}
		}

		key, f, err := s.groundTarget(eff, bs)
		if err != nil {
			return nil, invalid(act, vals, err.Error())
		}
		if _, have := st.Value(key); !have {
			return nil, invalid(act, vals, `ground fluent "`+key+`" not in state`)
		}

		v, err := eff.Value.Code.Eval(ctx, st, bs)
		if err != nil {
			return nil, invalid(act, vals, err.Error())
		}

		switch eff.Kind {
		case model.Assign:
			w, _ := v.Coerce(f.Result.Kind)
			if _, clash := deltas[key]; clash {
				return nil, nil
			}
			if prev, have := assigns[key]; have && !prev.Equal(w) {
				return nil, nil
			}
			assigns[key] = w
		case model.Increase, model.Decrease:
			if _, clash := assigns[key]; clash {
				return nil, nil
			}
			d, have := deltas[key]
			if !have {
				z, err := zeroOf(v.Kind)
				if err != nil {
					return nil, invalid(act, vals, err.Error())
				}
				d = delta{fluent: f, amount: z}
			}
			var acc model.Value
			if eff.Kind == model.Increase {
				acc, err = d.amount.Plus(v)
			} else {
				acc, err = d.amount.Minus(v)
			}
			if err != nil {
				return nil, invalid(act, vals, err.Error())
			}
			d.amount = acc
			deltas[key] = d
		}
	}

	updates := make(map[string]model.Value, len(assigns)+len(deltas))
	for k, v := range assigns {
		updates[k] = v
	}
	for k, d := range deltas {
		pre, _ := st.Value(k)
		v, err := pre.Plus(d.amount)
		if err != nil {
			return nil, invalid(act, vals, err.Error())
		}
		v, _ = v.Coerce(d.fluent.Result.Kind)
		updates[k] = v
	}

	return st.With(updates), nil
}

func zeroOf(k model.Kind) (model.Value, error) {
	switch k {
	case model.IntKind:
		return model.I(0), nil
	case model.RealKind:
		return model.R(0), nil
	}
	return model.Value{}, errors.New("non-numeric effect delta")
}
