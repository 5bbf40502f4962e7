package sim

import (
	"context"
	"testing"

	"github.com/Comcast/strider/model"
)

func TestGoals(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := newSim(t)

	s0, err := s.InitialState()
	if err != nil {
		t.Fatal(err)
	}

	ok, err := s.IsGoal(ctx, s0)
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("the initial state should not satisfy the goal")
	}

	missed, err := s.UnsatisfiedGoals(ctx, s0, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(missed) != 1 {
		t.Fatalf("got %d unsatisfied goals", len(missed))
	}

	move, _ := s.Problem().Action("move")
	s1, err := s.Apply(ctx, s0, move, model.O("B"))
	if err != nil {
		t.Fatal(err)
	}
	if s1 == nil {
		t.Fatal("move(B) should apply")
	}

	ok, err = s.IsGoal(ctx, s1)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("the goal holds at B")
	}

	missed, err = s.UnsatisfiedGoals(ctx, s1, false)
	if err != nil {
		t.Fatal(err)
	}
	if 0 != len(missed) {
		t.Fatalf("got %d unsatisfied goals", len(missed))
	}
}

func TestGoalsEarlyTermination(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	falseGoal := func(ctx context.Context, st *model.State, bs model.Bindings) (model.Value, error) {
		return model.B(false), nil
	}

	p := model.NewProblem("goals")
	p.AddGoal(model.CondF(falseGoal))
	p.AddGoal(model.CondF(falseGoal))
	p.AddGoal(model.CondF(falseGoal))
	if err := p.Compile(ctx, nil, false); err != nil {
		t.Fatal(err)
	}
	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	s0, err := s.InitialState()
	if err != nil {
		t.Fatal(err)
	}

	missed, err := s.UnsatisfiedGoals(ctx, s0, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(missed) != 1 {
		t.Fatalf("early termination should stop at the first miss; got %d", len(missed))
	}

	missed, err = s.UnsatisfiedGoals(ctx, s0, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(missed) != 3 {
		t.Fatalf("got %d unsatisfied goals", len(missed))
	}
}

func TestGoalErrors(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := model.NewProblem("goals")
	p.AddGoal(model.CondF(func(ctx context.Context, st *model.State, bs model.Bindings) (model.Value, error) {
		return model.I(42), nil
	}))
	if err := p.Compile(ctx, nil, false); err != nil {
		t.Fatal(err)
	}
	s, err := New(p)
	if err != nil {
		t.Fatal(err)
	}

	s0, err := s.InitialState()
	if err != nil {
		t.Fatal(err)
	}

	// A non-boolean goal value is an error, never a quiet miss.
	if _, err = s.UnsatisfiedGoals(ctx, s0, false); err == nil {
		t.Fatal("expected an error for a non-boolean goal")
	}
	if _, err = s.IsGoal(ctx, s0); err == nil {
		t.Fatal("expected an error for a non-boolean goal")
	}
}
