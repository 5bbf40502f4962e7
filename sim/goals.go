package sim

import (
	"context"
	"errors"
	"strconv"

	"github.com/Comcast/strider/model"
)

// UnsatisfiedGoals returns the problem goals that evaluate to false
// in the given state, in declaration order.  With earlyTermination,
// the result has at most one element.
//
// Goals are pure boolean expressions over the state, so unlike
// UnsatisfiedConditions there are no derived constraints and no
// InvalidActionError: an evaluation failure is just an error.
func (s *Simulator) UnsatisfiedGoals(ctx context.Context, st *model.State, earlyTermination bool) ([]*model.ConditionSource, error) {
	missed := make([]*model.ConditionSource, 0, len(s.problem.Goals))
	for i, g := range s.problem.Goals {
		if g == nil || g.Code == nil {
			return nil, &model.UncompiledCondition{Where: "goal " + strconv.Itoa(i)}
		}
		v, err := g.Code.Eval(ctx, st, nil)
		if err != nil {
			return nil, err
		}
		if v.Kind != model.BoolKind {
			return nil, errors.New("non-boolean goal value " + v.String())
		}
		if !v.Bool {
			missed = append(missed, g)
			if earlyTermination {
				return missed, nil
			}
		}
	}
	return missed, nil
}
