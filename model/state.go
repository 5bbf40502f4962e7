package model

import (
	"sort"
	"strings"
)

// State is an immutable snapshot mapping every ground fluent instance
// of a problem to its value.
//
// A State is never mutated: With returns a fresh State and leaves the
// receiver untouched, so any number of goroutines can share a State
// (or a Simulator producing States) with no coordination.
type State struct {
	values map[string]Value
}

// NewState makes a State from the given assignment.  The map is
// copied, so the caller can keep using it.
func NewState(values map[string]Value) *State {
	vs := make(map[string]Value, len(values))
	for k, v := range values {
		vs[k] = v
	}
	return &State{values: vs}
}

// Value returns the value of the given ground fluent instance.
func (s *State) Value(key string) (Value, bool) {
	v, have := s.values[key]
	return v, have
}

// Len returns the number of ground fluent instances.
func (s *State) Len() int {
	return len(s.values)
}

// Keys returns the ground fluent keys in sorted order.
func (s *State) Keys() []string {
	ks := make([]string, 0, len(s.values))
	for k := range s.values {
		ks = append(ks, k)
	}
	sort.Strings(ks)
	return ks
}

// With returns a new State equal to the receiver except for the given
// updates.  The receiver is not modified and remains valid.
func (s *State) With(updates map[string]Value) *State {
	vs := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		vs[k] = v
	}
	for k, v := range updates {
		vs[k] = v
	}
	return &State{values: vs}
}

// Equal reports whether two states assign the same values to the same
// ground fluents.
func (s *State) Equal(t *State) bool {
	if s == nil || t == nil {
		return s == t
	}
	if len(s.values) != len(t.values) {
		return false
	}
	for k, v := range s.values {
		w, have := t.values[k]
		if !have || !v.Equal(w) {
			return false
		}
	}
	return true
}

func (s *State) String() string {
	if s == nil {
		return "nil"
	}
	ks := s.Keys()
	acc := make([]string, len(ks))
	for i, k := range ks {
		acc[i] = k + "=" + s.values[k].String()
	}
	return "{" + strings.Join(acc, " ") + "}"
}
