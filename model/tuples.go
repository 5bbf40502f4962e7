package model

// Tuples enumerates the cartesian product of the given value domains
// in odometer order: the last domain varies fastest.
//
// Zero domains yield exactly one empty tuple, which is what a
// parameterless action or fluent calls for.
type Tuples struct {
	domains [][]Value
	idx     []int
	done    bool
}

// NewTuples makes a Tuples over the given domains.
func NewTuples(domains [][]Value) *Tuples {
	t := &Tuples{
		domains: domains,
		idx:     make([]int, len(domains)),
	}
	for _, d := range domains {
		if 0 == len(d) {
			t.done = true
		}
	}
	return t
}

// Next returns the next tuple.  The returned slice is fresh, so the
// caller can keep it.
func (t *Tuples) Next() ([]Value, bool) {
	if t.done {
		return nil, false
	}
	tuple := make([]Value, len(t.domains))
	for i, d := range t.domains {
		tuple[i] = d[t.idx[i]]
	}
	for i := len(t.domains) - 1; 0 <= i; i-- {
		t.idx[i]++
		if t.idx[i] < len(t.domains[i]) {
			return tuple, true
		}
		t.idx[i] = 0
	}
	t.done = true
	return tuple, true
}
