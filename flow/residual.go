package flow

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/preflow/core"
)

// residualArc is one half of an arc pair. For every pair {u,v} the arc stored
// at u and its reciprocal stored at v satisfy res(u,v)+res(v,u) = cap(u,v)+cap(v,u).
type residualArc struct {
	head int   // target node
	cap  int64 // original capacity in this direction (0 for a pure reverse arc)
	res  int64 // residual capacity
	rev  int   // index of the reciprocal in arcs[head]
}

// Residual is the mutable residual network derived from a *core.Graph.
//
// Every unordered pair {u,v} with cap(u,v) > 0 or cap(v,u) > 0 is stored once
// as two reciprocal residualArcs, so antiparallel input arcs share a pair.
// arcs[u] is ordered by ascending head, which fixes the scan order used by
// Discharge. The only mutation path is send (exposed as SendFlow).
type Residual struct {
	graph *core.Graph
	arcs  [][]residualArc
}

// NewResidual builds the residual network of g with every flow at zero.
//
// Steps:
//  1. For each positive-capacity arc u→v (self-loops skipped), create the pair
//     {u,v} once with res(u,v)=cap(u,v) and res(v,u)=cap(v,u).
//  2. Sort each adjacency by head, repairing reciprocal indices as we go.
//
// Complexity:
//
//	Time:   O(V + E log d_max)
//	Memory: O(V + E)
func NewResidual(g *core.Graph) *Residual {
	n := g.NodeCount()
	r := &Residual{graph: g, arcs: make([][]residualArc, n)}

	paired := make(map[[2]int]struct{}, g.ArcCount())
	for _, a := range g.Arcs() {
		u, v := a.From, a.To
		if u == v {
			continue
		}
		key := [2]int{min(u, v), max(u, v)}
		if _, ok := paired[key]; ok {
			continue
		}
		paired[key] = struct{}{}

		iu, iv := len(r.arcs[u]), len(r.arcs[v])
		r.arcs[u] = append(r.arcs[u], residualArc{head: v, cap: a.Capacity, res: a.Capacity, rev: iv})
		back := g.Capacity(v, u)
		r.arcs[v] = append(r.arcs[v], residualArc{head: u, cap: back, res: back, rev: iu})
	}

	for u := range r.arcs {
		arcs := r.arcs[u]
		sort.Slice(arcs, func(i, j int) bool { return arcs[i].head < arcs[j].head })
		for i, a := range arcs {
			r.arcs[a.head][a.rev].rev = i
		}
	}

	return r
}

// NodeCount returns the number of nodes in the network.
func (r *Residual) NodeCount() int { return len(r.arcs) }

// Graph returns the capacity graph this network was built from.
func (r *Residual) Graph() *core.Graph { return r.graph }

// find returns the index of the arc u→v in arcs[u], or -1.
func (r *Residual) find(u, v int) int {
	if u < 0 || u >= len(r.arcs) {
		return -1
	}
	arcs := r.arcs[u]
	i := sort.Search(len(arcs), func(i int) bool { return arcs[i].head >= v })
	if i < len(arcs) && arcs[i].head == v {
		return i
	}

	return -1
}

// Residual returns res(u,v); zero when u and v are not adjacent.
func (r *Residual) Residual(u, v int) int64 {
	i := r.find(u, v)
	if i < 0 {
		return 0
	}

	return r.arcs[u][i].res
}

// Flow returns the net flow f(u,v) = cap(u,v) - res(u,v). It is antisymmetric:
// Flow(u,v) == -Flow(v,u).
func (r *Residual) Flow(u, v int) int64 {
	i := r.find(u, v)
	if i < 0 {
		return 0
	}
	a := r.arcs[u][i]

	return a.cap - a.res
}

// Neighbors returns the heads of all residual arcs out of u, including those
// with zero residual capacity, in scan order.
func (r *Residual) Neighbors(u int) []int {
	if u < 0 || u >= len(r.arcs) {
		return nil
	}
	heads := make([]int, len(r.arcs[u]))
	for i, a := range r.arcs[u] {
		heads[i] = a.head
	}

	return heads
}

// SendFlow moves amount units from u to v: res(u,v) -= amount and
// res(v,u) += amount. It fails with ErrInvariantViolation when the pair does
// not exist, amount < 0, or amount > res(u,v).
func (r *Residual) SendFlow(u, v int, amount int64) error {
	i := r.find(u, v)
	if i < 0 {
		return fmt.Errorf("%w: no residual arc %d→%d", ErrInvariantViolation, u, v)
	}

	return r.send(u, i, amount)
}

// send is SendFlow addressed by arc index; the engine's only mutation path.
func (r *Residual) send(u, i int, amount int64) error {
	a := &r.arcs[u][i]
	if amount < 0 {
		return fmt.Errorf("%w: negative send %d on %d→%d", ErrInvariantViolation, amount, u, a.head)
	}
	if amount > a.res {
		return fmt.Errorf("%w: send %d exceeds residual %d on %d→%d",
			ErrInvariantViolation, amount, a.res, u, a.head)
	}
	a.res -= amount
	r.arcs[a.head][a.rev].res += amount

	return nil
}
