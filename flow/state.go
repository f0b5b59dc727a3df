package flow

import "fmt"

// State holds the height label and excess of every node.
//
// height(source) = n and height(sink) = 0 for the whole run; every other
// height only grows and never exceeds 2n-1. Excess of a regular node never
// drops below zero. The source's excess goes negative by exactly the amount
// it has sent out.
type State struct {
	source, sink int
	height       []int
	excess       []int64
}

func newState(n, source, sink int) *State {
	st := &State{
		source: source,
		sink:   sink,
		height: make([]int, n),
		excess: make([]int64, n),
	}
	st.height[source] = n

	return st
}

// Height returns the label of v.
func (st *State) Height(v int) int { return st.height[v] }

// Excess returns the excess of v.
func (st *State) Excess(v int) int64 { return st.excess[v] }

// maxHeight is the bound 2n-1 no regular node may exceed.
func (st *State) maxHeight() int { return 2*len(st.height) - 1 }

// AddExcess adds delta (possibly negative) to excess(v). A regular node whose
// excess would become negative yields ErrInvariantViolation and is left unchanged.
func (st *State) AddExcess(v int, delta int64) error {
	next := st.excess[v] + delta
	if next < 0 && v != st.source && v != st.sink {
		return fmt.Errorf("%w: excess of node %d would become %d", ErrInvariantViolation, v, next)
	}
	st.excess[v] = next

	return nil
}

// SetHeight relabels v. Heights of the source and sink are fixed, heights
// never decrease, and no height may exceed 2n-1; each case is an
// ErrInvariantViolation.
func (st *State) SetHeight(v, h int) error {
	switch {
	case v == st.source || v == st.sink:
		return fmt.Errorf("%w: height of terminal node %d is fixed", ErrInvariantViolation, v)
	case h < st.height[v]:
		return fmt.Errorf("%w: height of node %d would drop from %d to %d",
			ErrInvariantViolation, v, st.height[v], h)
	case h > st.maxHeight():
		return fmt.Errorf("%w: height of node %d would reach %d, bound is %d",
			ErrInvariantViolation, v, h, st.maxHeight())
	}
	st.height[v] = h

	return nil
}
