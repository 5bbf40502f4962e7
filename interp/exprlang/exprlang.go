// Package exprlang provides a Go-native condition evaluator built on
// expr-lang.  Compared to the ECMAScript evaluator, expressions here
// compile to bytecode and run without a JS runtime, which suits the
// tight applicability checks a search loop makes.
package exprlang

import (
	"context"
	"errors"
	"fmt"

	"github.com/Comcast/strider/model"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// init adds an Evaluator as one of the DefaultEvaluators.
func init() {
	model.DefaultEvaluators["expr"] = NewEvaluator()
}

// Evaluator implements model.Evaluator using expr-lang.
//
// A condition source is a single expression.  The environment
// provides:
//
//	params: the map of the action's bound parameters.
//	fluent(name, args...): the state's value for the given ground
//	  fluent.
//
// So a precondition for a move action might read
//
//	fluent("at","rob") != params.to
//
// See https://github.com/expr-lang/expr.
type Evaluator struct{}

// NewEvaluator makes a new Evaluator.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// AsSource insists the given code is a string.
func AsSource(src interface{}) (code string, err error) {
	switch vv := src.(type) {
	case string:
		code = vv
		return
	default:
		err = fmt.Errorf("bad expr source (%T)", src)
		return
	}
}

// Compile compiles the expression to a vm.Program.
func (e *Evaluator) Compile(ctx context.Context, src interface{}) (interface{}, error) {
	code, err := AsSource(src)
	if err != nil {
		return nil, err
	}
	return expr.Compile(code, expr.AllowUndefinedVariables())
}

// Eval implements the Evaluator method of the same name.
func (e *Evaluator) Eval(ctx context.Context, st *model.State, bs model.Bindings, src interface{}, compiled interface{}) (model.Value, error) {
	if compiled == nil {
		var err error
		if compiled, err = e.Compile(ctx, src); err != nil {
			return model.Value{}, err
		}
	}
	p, is := compiled.(*vm.Program)
	if !is {
		return model.Value{}, fmt.Errorf("expr bad compilation: %T %#v", compiled, compiled)
	}

	env := map[string]interface{}{
		"params": bs.Native(),
		"fluent": func(name string, args ...interface{}) (interface{}, error) {
			vals := make([]model.Value, 0, len(args))
			for _, a := range args {
				v, err := importValue(a)
				if err != nil {
					return nil, err
				}
				vals = append(vals, v)
			}
			key := model.GroundKey(name, vals)
			v, have := st.Value(key)
			if !have {
				return nil, errors.New(`unknown ground fluent "` + key + `"`)
			}
			return v.Native(), nil
		},
	}

	x, err := expr.Run(p, env)
	if err != nil {
		return model.Value{}, err
	}

	return importValue(x)
}

// importValue converts a value produced by the vm into a model.Value.
// A string names an object constant.
func importValue(x interface{}) (model.Value, error) {
	switch v := x.(type) {
	case bool:
		return model.B(v), nil
	case int:
		return model.I(int64(v)), nil
	case int64:
		return model.I(v), nil
	case float64:
		return model.R(v), nil
	case string:
		return model.O(v), nil
	}
	return model.Value{}, fmt.Errorf("bad expr value (%T)", x)
}
