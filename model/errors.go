package model

// These errors are user errors, not internal errors.

// NotCompiled occurs when a Problem is handed to a simulator (say via
// sim.New()) before it has been Compile()ed.
type NotCompiled struct {
	Problem *Problem
}

func (e *NotCompiled) Error() string {
	if e.Problem == nil {
		return "problem <nil> not compiled"
	}
	return `problem "` + e.Problem.Name + `" not compiled`
}

// UnknownFluent occurs when something refers to a fluent that is not
// declared in the Problem.
type UnknownFluent struct {
	Problem *Problem
	Name    string
}

func (e *UnknownFluent) Error() string {
	return `fluent "` + e.Name + `" not found in problem "` + e.Problem.Name + `"`
}

// UnknownObject occurs when something refers to an object constant
// that is not declared in the Problem.
type UnknownObject struct {
	Problem *Problem
	Name    string
}

func (e *UnknownObject) Error() string {
	return `object "` + e.Name + `" not found in problem "` + e.Problem.Name + `"`
}

// UncompiledCondition occurs when a condition evaluation is attempted
// but that ConditionSource hasn't been Compile()ed.  Usually, this
// compilation happens as part of Problem.Compile().
type UncompiledCondition struct {
	Where string
}

func (e *UncompiledCondition) Error() string {
	return "uncompiled condition at " + e.Where
}

// PartialState occurs when Problem.InitialState cannot cover a ground
// fluent instance: no explicit initial value and no fluent default.
type PartialState struct {
	Key string
}

func (e *PartialState) Error() string {
	return `ground fluent "` + e.Key + `" has no initial value and no default`
}

// BadArgs occurs when values given for a fluent's parameters don't
// line up with the fluent's declaration.
type BadArgs struct {
	Fluent string
	Reason string
}

func (e *BadArgs) Error() string {
	return `bad arguments for fluent "` + e.Fluent + `": ` + e.Reason
}
