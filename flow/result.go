package flow

import "github.com/katalvlaran/preflow/core"

// Result reads the current snapshot of the engine.
//
// Steps:
//  1. Value = excess(sink).
//  2. For each positive-capacity input arc u→v: flow = max(0, f(u,v)), where
//     f is the net antisymmetric flow of the pair. Self-loops carry 0.
//  3. BFS from the source over arcs with res > 0 marks SourceSide.
//  4. Input arcs from SourceSide to its complement form Cut.
//
// When Done() is true, Value is the maximum flow and equals CutCapacity.
//
// Complexity:
//
//	Time:   O(V + E log d_max)
//	Memory: O(V + E)
func (e *Engine) Result() *Result {
	g := e.net.graph
	res := &Result{
		Value:    e.st.excess[e.st.sink],
		Complete: e.Done(),
		Stats:    e.stats,
	}

	arcs := g.Arcs()
	res.Flows = make([]ArcFlow, 0, len(arcs))
	for _, a := range arcs {
		var f int64
		if a.From != a.To {
			f = max(0, e.net.Flow(a.From, a.To))
		}
		res.Flows = append(res.Flows, ArcFlow{From: a.From, To: a.To, Capacity: a.Capacity, Flow: f})
	}

	res.SourceSide = e.net.reachable(e.st.source)
	for _, a := range arcs {
		if res.SourceSide[a.From] && !res.SourceSide[a.To] {
			res.Cut = append(res.Cut, a)
			res.CutCapacity += a.Capacity
		}
	}

	return res
}

// reachable marks every node reachable from s along arcs with positive
// residual capacity.
func (r *Residual) reachable(s int) []bool {
	seen := make([]bool, len(r.arcs))
	seen[s] = true
	queue := []int{s}
	for i := 0; i < len(queue); i++ {
		u := queue[i]
		for _, a := range r.arcs[u] {
			if a.res > 0 && !seen[a.head] {
				seen[a.head] = true
				queue = append(queue, a.head)
			}
		}
	}

	return seen
}

// cutCapacity sums the capacities of input arcs leaving side.
func cutCapacity(g *core.Graph, side []bool) int64 {
	var total int64
	for _, a := range g.Arcs() {
		if side[a.From] && !side[a.To] {
			total += a.Capacity
		}
	}

	return total
}
