// Package core provides the immutable capacity graph that the flow package
// consumes.
//
// A Graph G = (V, A) has nodes identified by integer indices [0, n) and
// directed arcs with non-negative int64 capacities:
//
//   - Construction validates everything up front; a Graph is never
//     partially built.
//   - Repeated (from, to) pairs are summed by default, or rejected with
//     WithDuplicates(DuplicateReject).
//   - Zero-capacity arcs are equivalent to absent arcs and are not stored.
//   - Self-loops are accepted; flow algorithms ignore them.
//   - Iteration is deterministic: Successors and Arcs are sorted.
//
// Constructors:
//
//	NewGraph(n int, arcs []Arc, opts ...GraphOption) (*Graph, error)
//	FromMatrix(m [][]int64, opts ...GraphOption) (*Graph, error)
//	FromDense(m mat.Matrix, opts ...GraphOption) (*Graph, error)           // gonum
//	FromWeightedDirected(g graph.WeightedDirected, ...) (*Graph, []int64, error) // gonum
//	ReadEdgeList(r io.Reader, opts ...GraphOption) (*Graph, error)
//
// Queries:
//
//	NodeCount() int                 // O(1)
//	ArcCount() int                  // O(1)
//	Capacity(u, v int) int64        // O(1) expected
//	Successors(u int) []int         // O(deg(u))
//	Arcs() []Arc                    // O(E)
//
// Quick ASCII example (the 4-node cycle used throughout the tests):
//
//	0 ──7──▶ 1 ──6──▶ 2 ──8──▶ 3
//	▲                          │
//	└────────────9─────────────┘
//
//	g, _ := core.FromMatrix([][]int64{
//	    {0, 7, 0, 0},
//	    {0, 0, 6, 0},
//	    {0, 0, 0, 8},
//	    {9, 0, 0, 0},
//	})
//
// Since a Graph is never mutated after construction, it is safe to share
// between goroutines and between repeated flow computations.
package core
