package sim

// These errors are user errors, not internal errors.

import "errors"

// UsageError occurs when a caller misuses the simulator API:
// supplying both a grounded action instance and explicit parameters,
// giving the wrong number of parameters, or giving a parameter value
// that isn't compatible with its declared type.
//
// A UsageError indicates a programming mistake, not a domain fact.
// It is always surfaced and never recovered internally.
type UsageError struct {
	Method string
	Reason string
}

func (e *UsageError) Error() string {
	return "sim." + e.Method + ": " + e.Reason
}

// InvalidActionError occurs when a grounded action is structurally
// inapplicable in a way that condition evaluation cannot express: an
// effect target outside its fluent's legal domain, a guard that
// doesn't produce a boolean, and the like.
//
// IsApplicable and Apply recover this error internally (the action is
// simply "not applicable").  UnsatisfiedConditions surfaces it, since
// that method's contract is to report, not to decide.
type InvalidActionError struct {
	Action string
	Reason string
}

func (e *InvalidActionError) Error() string {
	return `invalid action "` + e.Action + `": ` + e.Reason
}

// IsInvalidAction reports whether err is (or wraps) an
// InvalidActionError.
func IsInvalidAction(err error) bool {
	var e *InvalidActionError
	return errors.As(err, &e)
}
