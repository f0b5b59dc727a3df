package core

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/mat"
)

// FromMatrix builds a Graph from a dense row-major capacity matrix where
// m[u][v] is cap(u,v). Every row must have len(m) entries.
func FromMatrix(m [][]int64, opts ...GraphOption) (*Graph, error) {
	n := len(m)
	arcs := make([]Arc, 0, n)
	for u, row := range m {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrNonSquare, u, len(row), n)
		}
		for v, c := range row {
			if c != 0 {
				arcs = append(arcs, Arc{From: u, To: v, Capacity: c})
			}
		}
	}

	return NewGraph(n, arcs, opts...)
}

// FromDense builds a Graph from a gonum matrix. Entries are capacities and
// must be finite integers representable as int64.
func FromDense(m mat.Matrix, opts ...GraphOption) (*Graph, error) {
	r, c := m.Dims()
	if r != c {
		return nil, fmt.Errorf("%w: %dx%d", ErrNonSquare, r, c)
	}

	arcs := make([]Arc, 0, r)
	for u := 0; u < r; u++ {
		for v := 0; v < c; v++ {
			w := m.At(u, v)
			if w == 0 {
				continue
			}
			capUV, err := toCapacity(w)
			if err != nil {
				return nil, fmt.Errorf("%w at (%d,%d)", err, u, v)
			}
			arcs = append(arcs, Arc{From: u, To: v, Capacity: capUV})
		}
	}

	return NewGraph(r, arcs, opts...)
}

// FromWeightedDirected converts a gonum weighted directed graph. Node IDs are
// compacted into [0, n) in ascending ID order; ids[i] is the gonum ID of
// node i. Edge weights are capacities.
func FromWeightedDirected(src graph.WeightedDirected, opts ...GraphOption) (g *Graph, ids []int64, err error) {
	nodes := graph.NodesOf(src.Nodes())
	ids = make([]int64, len(nodes))
	for i, nd := range nodes {
		ids[i] = nd.ID()
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	index := make(map[int64]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	var arcs []Arc
	for _, uid := range ids {
		succ := graph.NodesOf(src.From(uid))
		for _, nd := range succ {
			vid := nd.ID()
			e := src.WeightedEdge(uid, vid)
			if e == nil {
				continue
			}
			capUV, cerr := toCapacity(e.Weight())
			if cerr != nil {
				return nil, nil, fmt.Errorf("%w on edge %d→%d", cerr, uid, vid)
			}
			arcs = append(arcs, Arc{From: index[uid], To: index[vid], Capacity: capUV})
		}
	}

	g, err = NewGraph(len(ids), arcs, opts...)
	if err != nil {
		return nil, nil, err
	}

	return g, ids, nil
}

// toCapacity narrows a float weight to an int64 capacity. Negative integral
// weights pass through so NewGraph reports them as CapacityError.
func toCapacity(w float64) (int64, error) {
	if math.IsNaN(w) || math.IsInf(w, 0) || w != math.Trunc(w) {
		return 0, fmt.Errorf("%w: %g", ErrNonIntegralCapacity, w)
	}
	if w >= math.MaxInt64 || w < math.MinInt64 {
		return 0, fmt.Errorf("%w: %g", ErrCapacityOverflow, w)
	}

	return int64(w), nil
}
