package interp

import (
	"github.com/Comcast/strider/interp/exprlang"
	gojaeval "github.com/Comcast/strider/interp/goja"
	"github.com/Comcast/strider/interp/native"
	"github.com/Comcast/strider/model"
)

// Standard returns the evaluators this repo provides, keyed by the
// names that ConditionSources use.
func Standard() map[string]model.Evaluator {
	es := make(map[string]model.Evaluator)

	js := gojaeval.NewEvaluator()
	es["goja"] = js
	es["ecmascript"] = js

	es["expr"] = exprlang.NewEvaluator()

	es["native"] = native.NewEvaluator()

	return es
}
