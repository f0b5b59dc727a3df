package flow

import (
	"fmt"

	"github.com/katalvlaran/preflow/core"
)

// Verify checks a complete Result against the graph it was computed on:
//
//   - capacity bound: 0 ≤ flow(u,v) ≤ cap(u,v) for every reported arc;
//   - conservation: inflow = outflow at every node other than source and sink;
//   - value: Value ≥ 0 and net inflow at the sink equals Value;
//   - cut: source is on SourceSide, sink is not, and the arcs leaving
//     SourceSide sum to Value.
//
// Any failure is an ErrInvariantViolation. An incomplete Result is rejected
// with ErrInvalidInput since a preflow is not expected to conserve.
func Verify(g *core.Graph, source, sink int, r *Result) error {
	if g == nil || r == nil {
		return fmt.Errorf("%w: nil graph or result", ErrInvalidInput)
	}
	if !r.Complete {
		return fmt.Errorf("%w: result is an unfinished preflow", ErrInvalidInput)
	}
	if r.Value < 0 {
		return fmt.Errorf("%w: negative flow value %d", ErrInvariantViolation, r.Value)
	}
	n := g.NodeCount()
	if len(r.SourceSide) != n {
		return fmt.Errorf("%w: cut covers %d nodes, graph has %d", ErrInvariantViolation, len(r.SourceSide), n)
	}

	net := make([]int64, n) // inflow minus outflow
	for _, af := range r.Flows {
		if af.Flow < 0 || af.Flow > g.Capacity(af.From, af.To) {
			return fmt.Errorf("%w: flow %d on %d→%d outside [0,%d]",
				ErrInvariantViolation, af.Flow, af.From, af.To, g.Capacity(af.From, af.To))
		}
		net[af.To] += af.Flow
		net[af.From] -= af.Flow
	}
	for v, x := range net {
		if v != source && v != sink && x != 0 {
			return fmt.Errorf("%w: node %d is not conserved (net %d)", ErrInvariantViolation, v, x)
		}
	}
	if net[sink] != r.Value {
		return fmt.Errorf("%w: sink receives %d, value is %d", ErrInvariantViolation, net[sink], r.Value)
	}

	if !r.SourceSide[source] || r.SourceSide[sink] {
		return fmt.Errorf("%w: cut does not separate %d from %d", ErrInvariantViolation, source, sink)
	}
	if c := cutCapacity(g, r.SourceSide); c != r.Value || c != r.CutCapacity {
		return fmt.Errorf("%w: cut capacity %d (reported %d) differs from value %d",
			ErrInvariantViolation, c, r.CutCapacity, r.Value)
	}

	return nil
}
