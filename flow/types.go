package flow

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/katalvlaran/preflow/core"
)

// Sentinel errors. The engine never retries or clamps: the first invariant
// failure aborts the computation and is returned wrapped with context.
var (
	// ErrInvalidInput indicates a malformed problem: nil graph, source or sink
	// outside [0, n), source == sink, an unknown selection policy, or a wrapped
	// core validation error. Always detected before any flow is pushed.
	ErrInvalidInput = errors.New("flow: invalid input")

	// ErrInvariantViolation indicates an internal bug: sending more than the
	// residual capacity, a negative send, lowering a height, or driving a
	// regular node's excess below zero.
	ErrInvariantViolation = errors.New("flow: invariant violation")

	// ErrNoOutgoingResidualCapacity indicates that a node holding excess has no
	// residual arc at all. Impossible in a correctly initialized network.
	ErrNoOutgoingResidualCapacity = errors.New("flow: no outgoing residual capacity")
)

// Policy selects the order in which active nodes are discharged.
// It never changes the resulting flow value.
type Policy int

const (
	// FIFO discharges active nodes in arrival order.
	FIFO Policy = iota

	// HighestLabel always discharges the active node with the greatest height,
	// breaking ties by the lower node index.
	HighestLabel
)

// String implements fmt.Stringer.
func (p Policy) String() string {
	switch p {
	case FIFO:
		return "fifo"
	case HighestLabel:
		return "highest-label"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps "fifo" or "highest-label" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "fifo":
		return FIFO, nil
	case "highest-label", "highest":
		return HighestLabel, nil
	default:
		return 0, fmt.Errorf("%w: unknown selection policy %q", ErrInvalidInput, s)
	}
}

// Options configures PushRelabel and MaxFlow.
//   - Selection:  active-node policy (default FIFO).
//   - Logger:     structured logger; nil means zap.NewNop().
//   - Verify:     re-check capacity, conservation and cut equality on the result.
//   - Duplicates: how MaxFlow aggregates repeated arcs (default core.DuplicateSum).
type Options struct {
	Selection  Policy
	Logger     *zap.Logger
	Verify     bool
	Duplicates core.DuplicatePolicy
}

// Option is a functional option for Options.
type Option func(*Options)

// WithSelection sets the active-node selection policy.
func WithSelection(p Policy) Option {
	return func(o *Options) { o.Selection = p }
}

// WithLogger routes run summaries and debug traces to l.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithVerify makes every computation finish with Verify.
func WithVerify() Option {
	return func(o *Options) { o.Verify = true }
}

// WithDuplicates sets the duplicate-arc policy MaxFlow uses to build its graph.
func WithDuplicates(p core.DuplicatePolicy) Option {
	return func(o *Options) { o.Duplicates = p }
}

// DefaultOptions returns FIFO selection, a no-op logger, no verification and
// summed duplicates.
func DefaultOptions() Options {
	return Options{
		Selection:  FIFO,
		Logger:     zap.NewNop(),
		Duplicates: core.DuplicateSum,
	}
}

// Stats counts the work performed by one engine run.
type Stats struct {
	Discharges       int
	Pushes           int
	SaturatingPushes int
	Relabels         int
	// MaxHeight is the largest height any non-source node reached.
	MaxHeight int
}

// ArcFlow is the flow assigned to one input arc.
type ArcFlow struct {
	From, To int
	Capacity int64
	Flow     int64
}

// Result is the snapshot read from a finished (or interrupted) engine.
type Result struct {
	// Value is excess(sink): the maximum flow value when Complete.
	Value int64

	// Complete is false when the engine stopped with active nodes left; the
	// flows then form a valid preflow that is not yet maximum.
	Complete bool

	// Flows holds one entry per positive-capacity input arc, in (From, To) order.
	Flows []ArcFlow

	// SourceSide[v] reports whether v is reachable from the source in the
	// final residual network.
	SourceSide []bool

	// Cut lists the input arcs leaving SourceSide; CutCapacity is their sum.
	Cut         []core.Arc
	CutCapacity int64

	Stats Stats
}
