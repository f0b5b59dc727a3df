package core

import (
	"fmt"
	"math"
	"sort"
)

// NewGraph validates arcs and builds an immutable Graph with n nodes.
//
// Steps:
//  1. Apply options (duplicate policy).
//  2. Reject n < 2.
//  3. Validate every arc before anything is stored: endpoints in [0, n),
//     capacity ≥ 0, duplicates per policy.
//  4. Materialize sorted successor lists.
//  5. Reject antiparallel pairs whose combined capacity cap(u,v)+cap(v,u)
//     exceeds math.MaxInt64; a residual pair holds that sum in one direction.
//
// No partially-built graph is ever returned alongside an error.
//
// Complexity:
//
//	Time:   O(n + E log d_max)
//	Memory: O(n + E)
func NewGraph(n int, arcs []Arc, opts ...GraphOption) (*Graph, error) {
	cfg := graphConfig{duplicates: DuplicateSum}
	for _, opt := range opts {
		opt(&cfg)
	}

	if n < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrBadNodeCount, n)
	}

	capacity := make([]map[int]int64, n)
	seen := make(map[[2]int]struct{}, len(arcs))
	for i, a := range arcs {
		if a.From < 0 || a.From >= n || a.To < 0 || a.To >= n {
			return nil, fmt.Errorf("%w: arc #%d %d→%d with n=%d", ErrNodeOutOfRange, i, a.From, a.To, n)
		}
		if a.Capacity < 0 {
			return nil, &CapacityError{From: a.From, To: a.To, Cap: a.Capacity}
		}

		key := [2]int{a.From, a.To}
		if _, dup := seen[key]; dup && cfg.duplicates == DuplicateReject {
			return nil, fmt.Errorf("%w: %d→%d", ErrDuplicateArc, a.From, a.To)
		}
		seen[key] = struct{}{}

		if a.Capacity == 0 {
			continue
		}
		if capacity[a.From] == nil {
			capacity[a.From] = make(map[int]int64)
		}
		prev := capacity[a.From][a.To]
		if prev > math.MaxInt64-a.Capacity {
			return nil, fmt.Errorf("%w: %d→%d", ErrCapacityOverflow, a.From, a.To)
		}
		capacity[a.From][a.To] = prev + a.Capacity
	}

	g := &Graph{n: n, out: make([][]int, n), capacity: capacity}
	for u, heads := range capacity {
		if len(heads) == 0 {
			continue
		}
		succ := make([]int, 0, len(heads))
		for v := range heads {
			succ = append(succ, v)
		}
		sort.Ints(succ)
		g.out[u] = succ
		g.arcCount += len(succ)
	}

	for u, succ := range g.out {
		for _, v := range succ {
			back := capacity[v][u]
			if u < v && back > math.MaxInt64-capacity[u][v] {
				return nil, fmt.Errorf("%w: pair %d⇄%d holds %d + %d",
					ErrCapacityOverflow, u, v, capacity[u][v], back)
			}
		}
	}

	return g, nil
}

// NodeCount returns n, the number of nodes.
func (g *Graph) NodeCount() int { return g.n }

// ArcCount returns the number of distinct (From, To) pairs with positive capacity.
func (g *Graph) ArcCount() int { return g.arcCount }

// Capacity returns cap(u,v), or 0 when the arc is absent or an index is out of range.
func (g *Graph) Capacity(u, v int) int64 {
	if u < 0 || u >= g.n || v < 0 || v >= g.n {
		return 0
	}

	return g.capacity[u][v]
}

// Successors returns the heads of u's positive-capacity arcs in ascending order.
// The returned slice is a copy.
func (g *Graph) Successors(u int) []int {
	if u < 0 || u >= g.n {
		return nil
	}

	return append([]int(nil), g.out[u]...)
}

// Arcs returns every positive-capacity arc sorted by (From, To).
// Duplicates have already been aggregated per the construction policy.
func (g *Graph) Arcs() []Arc {
	arcs := make([]Arc, 0, g.arcCount)
	for u, succ := range g.out {
		for _, v := range succ {
			arcs = append(arcs, Arc{From: u, To: v, Capacity: g.capacity[u][v]})
		}
	}

	return arcs
}
