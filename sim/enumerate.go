package sim

import (
	"context"

	"github.com/Comcast/strider/model"
)

// Instances is a lazy enumeration of the (action, parameters) pairs
// applicable in one state.
//
// Each call to Simulator.ApplicableActions returns an independent
// Instances starting from the beginning, so enumeration is
// restartable per invocation.  Nothing is materialized up front:
// candidates are generated and checked as the consumer pulls, so a
// consumer that stops pulling stops the work.
type Instances struct {
	sim *Simulator
	st  *model.State

	next   int
	act    *model.Action
	tuples *model.Tuples
	err    error
}

// ApplicableActions returns a lazy view over all the action +
// parameters pairs that are applicable in the given state.
//
// Actions and their parameter tuples come out in declaration order.
// Actions with a parameter whose type has no finite domain are
// skipped: the enumerator explores only the enumerable domains.
func (s *Simulator) ApplicableActions(st *model.State) *Instances {
	return &Instances{
		sim: s,
		st:  st,
	}
}

// Next returns the next applicable grounding, or false when the
// enumeration is exhausted (or failed; see Err).
func (it *Instances) Next(ctx context.Context) (*model.Action, []model.Value, bool) {
	if it.err != nil {
		return nil, nil, false
	}
	for {
		if it.tuples == nil {
			if len(it.sim.problem.Actions) <= it.next {
				return nil, nil, false
			}
			it.act = it.sim.problem.Actions[it.next]
			it.next++
			domains, ok := it.sim.problem.Domains(it.act.Params)
			if !ok {
				continue
			}
			it.tuples = model.NewTuples(domains)
		}

		vals, ok := it.tuples.Next()
		if !ok {
			it.tuples = nil
			continue
		}

		missed, err := it.sim.unsatisfied(ctx, it.st, it.act, vals, true)
		if err != nil {
			if IsInvalidAction(err) {
				continue
			}
			it.err = err
			return nil, nil, false
		}
		if 0 == len(missed) {
			return it.act, vals, true
		}
	}
}

// Err returns the error (if any) that stopped the enumeration.
func (it *Instances) Err() error {
	return it.err
}

// Collect drains the enumeration into a slice of instances.  Mostly
// for tests; real consumers should pull.
func (it *Instances) Collect(ctx context.Context) ([]*model.ActionInstance, error) {
	var acc []*model.ActionInstance
	for {
		act, vals, ok := it.Next(ctx)
		if !ok {
			return acc, it.Err()
		}
		acc = append(acc, model.NewInstance(act, vals...))
	}
}
