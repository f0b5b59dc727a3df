package flow

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/preflow/core"
)

// PushRelabel computes the maximum flow from source to sink in g with the
// push-relabel (preflow) method.
//
// It returns:
//   - res : value, per-arc flows, minimum cut and work counters
//   - err : ErrInvalidInput before any work; ErrInvariantViolation or
//     ErrNoOutgoingResidualCapacity on an internal failure; the context
//     error if ctx ends between Discharge calls
//
// Steps:
//  1. Apply options; validate graph, terminals and policy (O(1)).
//  2. Build the residual network (O(V + E log d_max)).
//  3. Initialize the preflow: saturate source arcs, height(s)=n.
//  4. Discharge active nodes until none remain.
//  5. Extract the result; optionally Verify it.
//
// Complexity:
//
//	Time:   O(V² E) for either policy; HighestLabel is O(V² √E).
//	Memory: O(V + E)
func PushRelabel(
	ctx context.Context,
	g *core.Graph,
	source, sink int,
	opts ...Option,
) (*Result, error) {
	// 1) Options and validation
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	if g == nil {
		return nil, fmt.Errorf("%w: graph is nil", ErrInvalidInput)
	}
	n := g.NodeCount()
	if source < 0 || source >= n {
		return nil, fmt.Errorf("%w: source %d outside [0,%d)", ErrInvalidInput, source, n)
	}
	if sink < 0 || sink >= n {
		return nil, fmt.Errorf("%w: sink %d outside [0,%d)", ErrInvalidInput, sink, n)
	}
	if source == sink {
		return nil, fmt.Errorf("%w: source and sink are both %d", ErrInvalidInput, source)
	}
	active, err := NewSelector(o.Selection)
	if err != nil {
		return nil, err
	}

	// 2) + 3) Residual network and preflow
	start := time.Now()
	eng, err := NewEngine(NewResidual(g), source, sink, active, o.Logger)
	if err != nil {
		return nil, err
	}

	// 4) Discharge loop
	if err = eng.Run(ctx); err != nil {
		o.Logger.Warn("push-relabel stopped",
			zap.Error(err),
			zap.Int("discharges", eng.stats.Discharges),
		)
		return nil, err
	}

	// 5) Extraction
	res := eng.Result()
	o.Logger.Info("push-relabel finished",
		zap.Int("nodes", n),
		zap.Int("arcs", g.ArcCount()),
		zap.Stringer("selection", o.Selection),
		zap.Int64("value", res.Value),
		zap.Int("pushes", res.Stats.Pushes),
		zap.Int("relabels", res.Stats.Relabels),
		zap.Duration("elapsed", time.Since(start)),
	)
	if o.Verify {
		if err = Verify(g, source, sink, res); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// MaxFlow builds a graph from n nodes and arcs, then runs PushRelabel. Graph
// validation errors (negative capacity, out-of-range endpoints, rejected
// duplicates) are wrapped in ErrInvalidInput and keep their core sentinel.
func MaxFlow(
	ctx context.Context,
	n, source, sink int,
	arcs []core.Arc,
	opts ...Option,
) (*Result, error) {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	g, err := core.NewGraph(n, arcs, core.WithDuplicates(o.Duplicates))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	return PushRelabel(ctx, g, source, sink, opts...)
}
