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

// Package goja provides an ECMAScript condition evaluator.
package goja

import (
	"context"
	"errors"
	"fmt"

	"github.com/Comcast/strider/model"

	"github.com/dop251/goja"
)

// init adds an Evaluator as one of the DefaultEvaluators.
func init() {
	e := NewEvaluator()
	model.DefaultEvaluators["goja"] = e
	model.DefaultEvaluators["ecmascript"] = e
}

// Evaluator implements model.Evaluator using Goja, which is a Go
// implementation of ECMAScript 5.1+.
//
// A condition source is a single ECMAScript expression.  The dynamic
// environment provides, at _:
//
//	params: the map of the action's bound parameters (object
//	  values appear as their constants' names).
//	fluent(name, args...): the state's value for the given ground
//	  fluent.  Throws if the instance isn't in the state.
//
// So a precondition for a move action might read
//
//	_.fluent("at","rob") !== _.params.to
//
// Each Eval runs in a fresh runtime, so code can't leak anything
// between calls and the evaluator is safe to share.
//
// See https://github.com/dop251/goja.
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
		err = fmt.Errorf("bad ECMAScript source (%T)", src)
		return
	}
}

func wrapSrc(src string) string {
	return "(" + src + ")"
}

// Compile calls goja.Compile.  This step is optional but cheap to
// reuse.
func (e *Evaluator) Compile(ctx context.Context, src interface{}) (interface{}, error) {
	code, err := AsSource(src)
	if err != nil {
		return nil, err
	}

	code = wrapSrc(code)

	obj, err := goja.Compile("", code, true)
	if err != nil {
		return nil, errors.New(err.Error() + ": " + code)
	}

	return obj, nil
}

func protest(o *goja.Runtime, x interface{}) {
	panic(o.ToValue(x))
}

// Eval implements the Evaluator method of the same name.
func (e *Evaluator) Eval(ctx context.Context, st *model.State, bs model.Bindings, src interface{}, compiled interface{}) (model.Value, error) {
	var p *goja.Program
	if compiled == nil {
		var err error
		if compiled, err = e.Compile(ctx, src); err != nil {
			return model.Value{}, err
		}
	}
	var is bool
	if p, is = compiled.(*goja.Program); !is {
		return model.Value{}, fmt.Errorf("ECMAScript bad compilation: %T %#v", compiled, compiled)
	}

	o := goja.New()

	env := map[string]interface{}{
		"params": bs.Native(),
		"fluent": func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 1 {
				protest(o, "fluent() wants at least a name")
			}
			name := call.Argument(0).String()
			args := make([]model.Value, 0, len(call.Arguments)-1)
			for _, a := range call.Arguments[1:] {
				v, err := importValue(a.Export())
				if err != nil {
					protest(o, err.Error())
				}
				args = append(args, v)
			}
			key := model.GroundKey(name, args)
			v, have := st.Value(key)
			if !have {
				protest(o, `unknown ground fluent "`+key+`"`)
			}
			return o.ToValue(v.Native())
		},
	}

	o.Set("_", env)

	x, err := o.RunProgram(p)
	if err != nil {
		return model.Value{}, err
	}

	return importValue(x.Export())
}

// importValue converts a value exported from the runtime into a
// model.Value.  A string names an object constant.
func importValue(x interface{}) (model.Value, error) {
	switch v := x.(type) {
	case bool:
		return model.B(v), nil
	case int64:
		return model.I(v), nil
	case float64:
		return model.R(v), nil
	case string:
		return model.O(v), nil
	}
	return model.Value{}, fmt.Errorf("bad ECMAScript value (%T)", x)
}
