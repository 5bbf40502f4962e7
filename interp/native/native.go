// Package native provides a model.Evaluator for conditions written
// directly as Go functions.  Handy for tests and for embedders that
// don't want an expression language at all.
package native

import (
	"context"
	"errors"
	"log"

	"github.com/Comcast/strider/model"
)

// Func is the shape of a native condition.
type Func = func(context.Context, *model.State, model.Bindings) (model.Value, error)

// Evaluator is a model.Evaluator whose "code" is a Go function.
type Evaluator struct {
	// Silent, if true, will suppress warning log messages.
	Silent bool
}

// init adds an Evaluator as one of the DefaultEvaluators.
func init() {
	model.DefaultEvaluators["native"] = NewEvaluator()
}

func NewEvaluator() *Evaluator {
	return &Evaluator{Silent: true}
}

func (e *Evaluator) Compile(ctx context.Context, code interface{}) (interface{}, error) {
	switch f := code.(type) {
	case Func:
		return f, nil
	case model.Condition:
		return f, nil
	}
	return nil, errors.New("native source must be a Go function or a model.Condition")
}

func (e *Evaluator) Eval(ctx context.Context, st *model.State, bs model.Bindings, code interface{}, compiled interface{}) (model.Value, error) {
	if compiled == nil {
		if !e.Silent {
			log.Printf("warning: native.Evaluator compiling at Eval time")
		}
		var err error
		if compiled, err = e.Compile(ctx, code); err != nil {
			return model.Value{}, err
		}
	}
	switch f := compiled.(type) {
	case Func:
		return f(ctx, st, bs)
	case model.Condition:
		return f.Eval(ctx, st, bs)
	}
	return model.Value{}, errors.New("native evaluator got bad compiled code")
}
