// Package flow computes maximum flows on *core.Graph capacity networks with
// the push-relabel (preflow) method.
//
// The method keeps a preflow (node inflow may exceed outflow) together with a
// height label per node, and repeatedly applies two local operations to
// nodes holding excess:
//
//   - Push(u→v)
//
//   - Legal when excess(u) > 0, res(u,v) > 0 and height(u) = height(v)+1.
//
//   - Moves min(excess(u), res(u,v)) units.
//
//   - Relabel(u)
//
//   - Legal when excess(u) > 0 and no admissible arc leaves u.
//
//   - Sets height(u) = 1 + min height over residual neighbors.
//
// The labeling invariant height(u) ≤ height(v)+1 on every residual arc means
// the sink is unreachable from the source in the residual network, so once no
// node holds excess the preflow is a maximum flow.
//
// # Components
//
//	Residual  — paired residual arcs; SendFlow is the single mutation path.
//	State     — heights and excesses; SetHeight refuses to lower a label.
//	Selector  — the active-node set (FIFO or HighestLabel), owned by the engine.
//	Engine    — preflow initialization, Discharge, Run/Step, Result.
//
// # Complexity
//
//	Time:   O(V² E) (FIFO and generic), O(V² √E) with HighestLabel.
//	Memory: O(V + E).
//	Every non-terminal height stays ≤ 2V-1, so there are O(V²) relabels.
//
// # API
//
//	func PushRelabel(ctx context.Context, g *core.Graph, source, sink int, opts ...Option) (*Result, error)
//	func MaxFlow(ctx context.Context, n, source, sink int, arcs []core.Arc, opts ...Option) (*Result, error)
//	func Verify(g *core.Graph, source, sink int, r *Result) error
//
// Options:
//
//	WithSelection(FIFO | HighestLabel)
//	WithLogger(*zap.Logger)
//	WithVerify()
//	WithDuplicates(core.DuplicateSum | core.DuplicateReject)   // MaxFlow only
//
// For step-wise control, build the pieces directly:
//
//	net := flow.NewResidual(g)
//	sel, _ := flow.NewSelector(flow.FIFO)
//	eng, err := flow.NewEngine(net, s, t, sel, logger)
//	for more := true; more && err == nil; {
//	    more, err = eng.Step()
//	}
//	res := eng.Result()
//
// # Errors
//
//	ErrInvalidInput               - malformed problem, reported before any work.
//	ErrInvariantViolation         - internal bug; the run is aborted.
//	ErrNoOutgoingResidualCapacity - internal bug; a node with excess is stranded.
//	context.Canceled / context.DeadlineExceeded - ctx ended between Discharge calls;
//	    the network then holds a valid preflow that is not yet maximum.
//
// Engines are single-threaded. Distinct engines share nothing but the
// read-only *core.Graph, so separate computations may run in parallel.
package flow
