package flow

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/preflow/core"
)

// Engine runs push-relabel over one Residual network. It owns the label and
// excess State, the active-node Selector and the per-node current-arc
// pointers. An Engine is single-threaded: no method may be called
// concurrently with another.
type Engine struct {
	net     *Residual
	st      *State
	active  Selector
	queued  []bool // v is currently in active
	current []int  // current-arc index into net.arcs[v]
	stats   Stats
	log     *zap.Logger
}

// NewEngine validates the terminals, initializes the preflow on net and
// returns an engine ready to Run. net must not carry any flow yet and active
// must be empty; both become owned by the engine. A nil logger is replaced by
// zap.NewNop().
func NewEngine(net *Residual, source, sink int, active Selector, logger *zap.Logger) (*Engine, error) {
	if net == nil || active == nil {
		return nil, fmt.Errorf("%w: nil residual network or selector", ErrInvalidInput)
	}
	n := net.NodeCount()
	if source < 0 || source >= n || sink < 0 || sink >= n {
		return nil, fmt.Errorf("%w: source %d / sink %d outside [0,%d)", ErrInvalidInput, source, sink, n)
	}
	if source == sink {
		return nil, fmt.Errorf("%w: source and sink are both %d", ErrInvalidInput, source)
	}
	if active.Len() != 0 {
		return nil, fmt.Errorf("%w: selector is not empty", ErrInvalidInput)
	}
	if !net.fresh() {
		return nil, fmt.Errorf("%w: residual network already carries flow", ErrInvalidInput)
	}
	if err := checkTerminalCapacity(net.graph, source, sink); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := &Engine{
		net:     net,
		st:      newState(n, source, sink),
		active:  active,
		queued:  make([]bool, n),
		current: make([]int, n),
		log:     logger,
	}
	if err := e.initPreflow(); err != nil {
		return nil, err
	}

	return e, nil
}

// checkTerminalCapacity rejects graphs whose capacity out of source or into
// sink does not fit in int64. Every excess, the flow value and the cut
// capacity are bounded by those sums.
func checkTerminalCapacity(g *core.Graph, source, sink int) error {
	var out, in int64
	for _, a := range g.Arcs() {
		if a.From == a.To {
			continue
		}
		if a.From == source {
			if out > math.MaxInt64-a.Capacity {
				return fmt.Errorf("%w: capacity out of source %d exceeds int64", core.ErrCapacityOverflow, source)
			}
			out += a.Capacity
		}
		if a.To == sink {
			if in > math.MaxInt64-a.Capacity {
				return fmt.Errorf("%w: capacity into sink %d exceeds int64", core.ErrCapacityOverflow, sink)
			}
			in += a.Capacity
		}
	}

	return nil
}

// State exposes the labels and excesses for inspection.
func (e *Engine) State() *State { return e.st }

// Residual exposes the residual network for inspection.
func (e *Engine) Residual() *Residual { return e.net }

// Stats returns the work counters accumulated so far.
func (e *Engine) Stats() Stats { return e.stats }

// Done reports whether no active node remains.
func (e *Engine) Done() bool { return e.active.Len() == 0 }

// Run discharges active nodes until none remain. ctx is checked between
// Discharge calls only; on cancellation the context error is returned and
// the network holds a valid preflow that is not yet maximum.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("flow: interrupted with %d active nodes: %w", e.active.Len(), err)
		}
		more, err := e.Step()
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Step pops one active node and discharges it. It returns false once the
// active set is empty.
func (e *Engine) Step() (bool, error) {
	u, ok := e.active.Pop()
	if !ok {
		return false, nil
	}
	e.queued[u] = false
	e.stats.Discharges++

	if err := e.discharge(u); err != nil {
		return false, err
	}

	return true, nil
}

// activate inserts v into the active set unless it is a terminal or already queued.
func (e *Engine) activate(v int) {
	if v == e.st.source || v == e.st.sink || e.queued[v] {
		return
	}
	e.queued[v] = true
	e.active.Push(v, e.st.height[v])
}

// discharge pushes and relabels u until its excess is zero.
//
// Arcs are scanned in ascending head order from u's current arc. An
// admissible arc (res > 0 and height(u) = height(v)+1) receives a push and
// stays current until saturated; any other arc is skipped. Reaching the end
// of the list means no admissible arc exists, so u is relabeled and the scan
// restarts from the first arc.
func (e *Engine) discharge(u int) error {
	arcs := e.net.arcs[u]
	for e.st.excess[u] > 0 {
		if e.current[u] == len(arcs) {
			if err := e.relabel(u); err != nil {
				return err
			}
			e.current[u] = 0
			continue
		}

		i := e.current[u]
		a := &arcs[i]
		if a.res > 0 && e.st.height[u] == e.st.height[a.head]+1 {
			if err := e.push(u, i); err != nil {
				return err
			}
			continue
		}
		e.current[u]++
	}

	return nil
}

// push sends min(excess(u), res(u,v)) along the admissible arc arcs[u][i].
func (e *Engine) push(u, i int) error {
	a := &e.net.arcs[u][i]
	v := a.head
	delta := min(e.st.excess[u], a.res)

	if err := e.net.send(u, i, delta); err != nil {
		return fmt.Errorf("flow: push %d→%d: %w", u, v, err)
	}
	if err := e.st.AddExcess(u, -delta); err != nil {
		return fmt.Errorf("flow: push %d→%d: %w", u, v, err)
	}
	if err := e.st.AddExcess(v, delta); err != nil {
		return fmt.Errorf("flow: push %d→%d: %w", u, v, err)
	}

	e.stats.Pushes++
	if a.res == 0 {
		e.stats.SaturatingPushes++
	}
	if ce := e.log.Check(zap.DebugLevel, "push"); ce != nil {
		ce.Write(zap.Int("u", u), zap.Int("v", v), zap.Int64("delta", delta))
	}
	e.activate(v)

	return nil
}

// relabel lifts u to one above its lowest residual neighbor.
func (e *Engine) relabel(u int) error {
	lowest := -1
	for _, a := range e.net.arcs[u] {
		if a.res > 0 && (lowest < 0 || e.st.height[a.head] < lowest) {
			lowest = e.st.height[a.head]
		}
	}
	if lowest < 0 {
		return fmt.Errorf("flow: relabel node %d with excess %d: %w", u, e.st.excess[u], ErrNoOutgoingResidualCapacity)
	}
	if e.st.height[u] > lowest {
		return fmt.Errorf("%w: relabel node %d at height %d while an admissible arc exists",
			ErrInvariantViolation, u, e.st.height[u])
	}

	h := lowest + 1
	if err := e.st.SetHeight(u, h); err != nil {
		return fmt.Errorf("flow: relabel: %w", err)
	}
	e.stats.Relabels++
	if h > e.stats.MaxHeight {
		e.stats.MaxHeight = h
	}
	if ce := e.log.Check(zap.DebugLevel, "relabel"); ce != nil {
		ce.Write(zap.Int("node", u), zap.Int("height", h), zap.Int64("excess", e.st.excess[u]))
	}

	return nil
}

// CheckLabels verifies the labeling invariant: height(s)=n, height(t)=0 and
// height(u) ≤ height(v)+1 for every residual arc u→v with positive capacity.
func (e *Engine) CheckLabels() error {
	n := e.net.NodeCount()
	if e.st.height[e.st.source] != n || e.st.height[e.st.sink] != 0 {
		return fmt.Errorf("%w: terminal heights moved (source %d, sink %d)",
			ErrInvariantViolation, e.st.height[e.st.source], e.st.height[e.st.sink])
	}
	for u, arcs := range e.net.arcs {
		for _, a := range arcs {
			if a.res > 0 && e.st.height[u] > e.st.height[a.head]+1 {
				return fmt.Errorf("%w: residual arc %d→%d spans heights %d→%d",
					ErrInvariantViolation, u, a.head, e.st.height[u], e.st.height[a.head])
			}
		}
	}

	return nil
}
