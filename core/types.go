// Package core defines the immutable capacity graph consumed by the flow
// algorithms: a fixed node set [0, n) and directed arcs carrying non-negative
// int64 capacities.
//
// This file declares Arc, Graph, GraphOption, DuplicatePolicy, the sentinel
// errors and the CapacityError type.
//
// Errors:
//
//	ErrBadNodeCount        - fewer than two nodes requested.
//	ErrNodeOutOfRange      - an arc endpoint lies outside [0, n).
//	ErrNegativeCapacity    - an arc carries a capacity below zero.
//	ErrDuplicateArc        - a repeated (from, to) pair under DuplicateReject.
//	ErrCapacityOverflow    - a duplicate sum or an antiparallel pair overflows int64.
//	ErrNonIntegralCapacity - a matrix/graph adapter saw a non-integral weight.
//	ErrNonSquare           - a matrix adapter received a non-square matrix.
//	ErrMalformedEdgeList   - ReadEdgeList could not parse its input.
package core

import (
	"errors"
	"fmt"
)

// Sentinel errors for capacity graph construction.
var (
	// ErrBadNodeCount indicates that the graph would have fewer than two nodes.
	ErrBadNodeCount = errors.New("core: node count must be at least 2")

	// ErrNodeOutOfRange indicates that an arc references a node outside [0, n).
	ErrNodeOutOfRange = errors.New("core: node index out of range")

	// ErrNegativeCapacity indicates that an arc carries a negative capacity.
	ErrNegativeCapacity = errors.New("core: negative capacity")

	// ErrDuplicateArc indicates a repeated (from, to) pair while DuplicateReject is active.
	ErrDuplicateArc = errors.New("core: duplicate arc")

	// ErrCapacityOverflow indicates that summing duplicate arcs, or the two
	// directions of an antiparallel pair, overflowed int64.
	ErrCapacityOverflow = errors.New("core: capacity overflow")

	// ErrNonIntegralCapacity indicates a weight that is NaN, ±Inf or has a fractional part.
	ErrNonIntegralCapacity = errors.New("core: capacity is not a finite integer")

	// ErrNonSquare indicates a capacity matrix whose row and column counts differ.
	ErrNonSquare = errors.New("core: capacity matrix is not square")

	// ErrMalformedEdgeList indicates unparsable edge-list input.
	ErrMalformedEdgeList = errors.New("core: malformed edge list")
)

// CapacityError reports the arc that carried an invalid capacity.
// It unwraps to ErrNegativeCapacity.
type CapacityError struct {
	From, To int
	Cap      int64
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("core: negative capacity on arc %d→%d: %d", e.From, e.To, e.Cap)
}

// Unwrap lets errors.Is(err, ErrNegativeCapacity) match.
func (e *CapacityError) Unwrap() error { return ErrNegativeCapacity }

// Arc is a directed, capacitated connection between two node indices.
type Arc struct {
	// From is the tail node index.
	From int

	// To is the head node index.
	To int

	// Capacity is the maximum flow the arc admits. Zero is equivalent to absence.
	Capacity int64
}

// DuplicatePolicy decides what NewGraph does with repeated (From, To) pairs.
type DuplicatePolicy int

const (
	// DuplicateSum adds the capacities of repeated pairs together.
	DuplicateSum DuplicatePolicy = iota

	// DuplicateReject fails construction with ErrDuplicateArc.
	DuplicateReject
)

// String implements fmt.Stringer.
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateSum:
		return "sum"
	case DuplicateReject:
		return "reject"
	default:
		return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
	}
}

// GraphOption configures graph construction.
type GraphOption func(c *graphConfig)

type graphConfig struct {
	duplicates DuplicatePolicy
}

// WithDuplicates selects how repeated (From, To) pairs are handled.
// The default is DuplicateSum.
func WithDuplicates(p DuplicatePolicy) GraphOption {
	return func(c *graphConfig) { c.duplicates = p }
}

// Graph is an immutable directed capacity graph over nodes [0, n).
//
// Arcs with zero capacity are not stored; self-loops are stored but are
// ignored by the flow algorithms. out[u] lists the heads reachable from u in
// ascending order and capacity[u][v] holds the aggregated capacity.
type Graph struct {
	n        int
	out      [][]int
	capacity []map[int]int64
	arcCount int
}
