package flow_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/preflow/core"
	"github.com/katalvlaran/preflow/flow"
)

// PushRelabelSuite exercises PushRelabel and MaxFlow under both selection policies.
type PushRelabelSuite struct {
	suite.Suite
	ctx    context.Context
	policy flow.Policy
}

func (s *PushRelabelSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *PushRelabelSuite) run(g *core.Graph, source, sink int) *flow.Result {
	res, err := flow.PushRelabel(s.ctx, g, source, sink,
		flow.WithSelection(s.policy),
		flow.WithVerify(),
	)
	s.Require().NoError(err)
	s.Require().True(res.Complete)
	return res
}

func (s *PushRelabelSuite) graph(n int, arcs ...core.Arc) *core.Graph {
	g, err := core.NewGraph(n, arcs)
	s.Require().NoError(err)
	return g
}

// TestCycleBottleneck: 0→1(7)→2(6)→3(8), 3→0(9); the bottleneck 1→2 gives 6.
func (s *PushRelabelSuite) TestCycleBottleneck() {
	g, err := core.FromMatrix([][]int64{
		{0, 7, 0, 0},
		{0, 0, 6, 0},
		{0, 0, 0, 8},
		{9, 0, 0, 0},
	})
	s.Require().NoError(err)

	res := s.run(g, 0, 3)
	s.Equal(int64(6), res.Value)
	s.Equal([]flow.ArcFlow{
		{From: 0, To: 1, Capacity: 7, Flow: 6},
		{From: 1, To: 2, Capacity: 6, Flow: 6},
		{From: 2, To: 3, Capacity: 8, Flow: 6},
		{From: 3, To: 0, Capacity: 9, Flow: 0},
	}, res.Flows)
	s.Equal([]core.Arc{{From: 1, To: 2, Capacity: 6}}, res.Cut)
	s.Equal(int64(6), res.CutCapacity)
}

// TestDiamond: s→a, s→b, a→t, b→t, all 10; both branches saturate.
func (s *PushRelabelSuite) TestDiamond() {
	g := s.graph(4,
		core.Arc{From: 0, To: 1, Capacity: 10},
		core.Arc{From: 0, To: 2, Capacity: 10},
		core.Arc{From: 1, To: 3, Capacity: 10},
		core.Arc{From: 2, To: 3, Capacity: 10},
	)
	res := s.run(g, 0, 3)
	s.Equal(int64(20), res.Value)
	s.Equal(int64(20), res.CutCapacity)
}

// TestDisconnectedSink: no arc reaches t, so the value is 0 and the cut is empty.
func (s *PushRelabelSuite) TestDisconnectedSink() {
	g := s.graph(4,
		core.Arc{From: 0, To: 1, Capacity: 5},
		core.Arc{From: 1, To: 2, Capacity: 3},
		core.Arc{From: 2, To: 0, Capacity: 1},
	)
	res := s.run(g, 0, 3)
	s.Equal(int64(0), res.Value)
	s.Empty(res.Cut)
	s.Equal([]bool{true, true, true, false}, res.SourceSide)
}

// TestAntiparallelArcs: flow cancels through the shared pair.
func (s *PushRelabelSuite) TestAntiparallelArcs() {
	// 0→1(3), 0→2(2), 1→2(5), 2→1(4), 1→3(2), 2→3(3)
	g := s.graph(4,
		core.Arc{From: 0, To: 1, Capacity: 3},
		core.Arc{From: 0, To: 2, Capacity: 2},
		core.Arc{From: 1, To: 2, Capacity: 5},
		core.Arc{From: 2, To: 1, Capacity: 4},
		core.Arc{From: 1, To: 3, Capacity: 2},
		core.Arc{From: 2, To: 3, Capacity: 3},
	)
	res := s.run(g, 0, 3)
	s.Equal(int64(5), res.Value)

	var f12, f21 int64
	for _, af := range res.Flows {
		switch {
		case af.From == 1 && af.To == 2:
			f12 = af.Flow
		case af.From == 2 && af.To == 1:
			f21 = af.Flow
		}
	}
	s.False(f12 > 0 && f21 > 0, "pair reports net flow in one direction only")
}

// TestSelfLoopAndReverseSourceArcs: loops carry nothing and the surplus at
// node 1 returns along the pair it shares with the source.
func (s *PushRelabelSuite) TestSelfLoopAndReverseSourceArcs() {
	g := s.graph(3,
		core.Arc{From: 0, To: 1, Capacity: 4},
		core.Arc{From: 1, To: 1, Capacity: 8},
		core.Arc{From: 1, To: 0, Capacity: 8},
		core.Arc{From: 1, To: 2, Capacity: 3},
	)
	res := s.run(g, 0, 2)
	s.Equal(int64(3), res.Value)
	for _, af := range res.Flows {
		switch {
		case af.From == af.To:
			s.Equal(int64(0), af.Flow)
		case af.From == 0:
			s.Equal(int64(3), af.Flow)
		case af.To == 0:
			s.Equal(int64(0), af.Flow)
		}
	}
}

// TestZeroCapacity: zero-capacity arcs behave like absent arcs.
func (s *PushRelabelSuite) TestZeroCapacity() {
	g := s.graph(2, core.Arc{From: 0, To: 1, Capacity: 0})
	res := s.run(g, 0, 1)
	s.Equal(int64(0), res.Value)
	s.Empty(res.Flows)
}

// TestSinkAsIntermediate: sink with outgoing arcs keeps whatever it receives.
func (s *PushRelabelSuite) TestSinkAsIntermediate() {
	g := s.graph(3,
		core.Arc{From: 0, To: 1, Capacity: 4},
		core.Arc{From: 1, To: 2, Capacity: 6},
		core.Arc{From: 2, To: 1, Capacity: 6},
	)
	res := s.run(g, 0, 1)
	s.Equal(int64(4), res.Value)
}

// TestRandomGraphsMatchAugmentingPaths cross-checks values against an
// independent Edmonds–Karp on random graphs.
func (s *PushRelabelSuite) TestRandomGraphsMatchAugmentingPaths() {
	r := rand.New(rand.NewSource(7))
	for trial := 0; trial < 40; trial++ {
		n := 2 + r.Intn(12)
		var arcs []core.Arc
		for u := 0; u < n; u++ {
			for v := 0; v < n; v++ {
				if r.Float64() < 0.35 {
					arcs = append(arcs, core.Arc{From: u, To: v, Capacity: r.Int63n(15)})
				}
			}
		}
		g := s.graph(n, arcs...)
		source, sink := 0, n-1

		res := s.run(g, source, sink)
		s.Equal(edmondsKarp(g, source, sink), res.Value, "trial %d", trial)
		s.Equal(res.Value, res.CutCapacity, "trial %d", trial)
	}
}

// TestDeterminism: the same input yields the same flows and stats.
func (s *PushRelabelSuite) TestDeterminism() {
	r := rand.New(rand.NewSource(99))
	var arcs []core.Arc
	for i := 0; i < 200; i++ {
		arcs = append(arcs, core.Arc{From: r.Intn(30), To: r.Intn(30), Capacity: r.Int63n(50)})
	}
	g := s.graph(30, arcs...)

	first := s.run(g, 0, 29)
	second := s.run(g, 0, 29)
	s.Equal(first, second)
}

func TestPushRelabelFIFO(t *testing.T) {
	suite.Run(t, &PushRelabelSuite{policy: flow.FIFO})
}

func TestPushRelabelHighestLabel(t *testing.T) {
	suite.Run(t, &PushRelabelSuite{policy: flow.HighestLabel})
}

// TestPoliciesAgree: both policies reach the same value.
func TestPoliciesAgree(t *testing.T) {
	r := rand.New(rand.NewSource(2024))
	for trial := 0; trial < 25; trial++ {
		n := 5 + r.Intn(20)
		var arcs []core.Arc
		for i := 0; i < 4*n; i++ {
			arcs = append(arcs, core.Arc{From: r.Intn(n), To: r.Intn(n), Capacity: 1 + r.Int63n(100)})
		}
		fifo, err := flow.MaxFlow(context.Background(), n, 0, n-1, arcs, flow.WithSelection(flow.FIFO))
		require.NoError(t, err)
		hl, err := flow.MaxFlow(context.Background(), n, 0, n-1, arcs, flow.WithSelection(flow.HighestLabel))
		require.NoError(t, err)
		require.Equal(t, fifo.Value, hl.Value, "trial %d", trial)
	}
}

// TestInvalidInput: every malformed problem is rejected before any work.
func TestInvalidInput(t *testing.T) {
	ctx := context.Background()
	g, err := core.NewGraph(3, []core.Arc{{From: 0, To: 1, Capacity: 1}})
	require.NoError(t, err)

	cases := []struct {
		name         string
		source, sink int
		g            *core.Graph
		opts         []flow.Option
	}{
		{"nil graph", 0, 1, nil, nil},
		{"source == sink", 1, 1, g, nil},
		{"source out of range", 3, 1, g, nil},
		{"sink negative", 0, -1, g, nil},
		{"unknown policy", 0, 2, g, []flow.Option{flow.WithSelection(flow.Policy(9))}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := flow.PushRelabel(ctx, tc.g, tc.source, tc.sink, tc.opts...)
			require.Nil(t, res)
			require.True(t, errors.Is(err, flow.ErrInvalidInput), "got %v", err)
		})
	}
}

// TestMaxFlowWrapsGraphErrors keeps both the flow and the core sentinel.
func TestMaxFlowWrapsGraphErrors(t *testing.T) {
	ctx := context.Background()

	_, err := flow.MaxFlow(ctx, 3, 0, 2, []core.Arc{{From: 0, To: 1, Capacity: -4}})
	require.True(t, errors.Is(err, flow.ErrInvalidInput))
	require.True(t, errors.Is(err, core.ErrNegativeCapacity))
	var ce *core.CapacityError
	require.True(t, errors.As(err, &ce))
	require.Equal(t, int64(-4), ce.Cap)

	_, err = flow.MaxFlow(ctx, 3, 0, 2, []core.Arc{{From: 0, To: 5, Capacity: 1}})
	require.True(t, errors.Is(err, core.ErrNodeOutOfRange))

	dup := []core.Arc{{From: 0, To: 1, Capacity: 1}, {From: 0, To: 1, Capacity: 2}, {From: 1, To: 2, Capacity: 9}}
	_, err = flow.MaxFlow(ctx, 3, 0, 2, dup, flow.WithDuplicates(core.DuplicateReject))
	require.True(t, errors.Is(err, core.ErrDuplicateArc))

	res, err := flow.MaxFlow(ctx, 3, 0, 2, dup)
	require.NoError(t, err)
	require.Equal(t, int64(3), res.Value, "duplicates are summed by default")
}

func TestCapacityOverflowRejected(t *testing.T) {
	ctx := context.Background()
	const big = math.MaxInt64

	cases := map[string][]core.Arc{
		"source out": {
			{From: 0, To: 1, Capacity: big}, {From: 0, To: 2, Capacity: big},
			{From: 1, To: 3, Capacity: 1}, {From: 2, To: 3, Capacity: 1},
		},
		"sink in": {
			{From: 0, To: 1, Capacity: 1}, {From: 0, To: 2, Capacity: 1},
			{From: 1, To: 3, Capacity: big}, {From: 2, To: 3, Capacity: big},
		},
		"diamond at the limit": {
			{From: 0, To: 1, Capacity: big}, {From: 0, To: 2, Capacity: big},
			{From: 1, To: 3, Capacity: big}, {From: 2, To: 3, Capacity: big},
		},
		"antiparallel pair": {
			{From: 0, To: 1, Capacity: big}, {From: 1, To: 0, Capacity: big},
			{From: 1, To: 3, Capacity: 1},
		},
	}
	for name, arcs := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := flow.MaxFlow(ctx, 4, 0, 3, arcs, flow.WithVerify())
			require.Nil(t, res)
			require.True(t, errors.Is(err, flow.ErrInvalidInput), "%v", err)
			require.True(t, errors.Is(err, core.ErrCapacityOverflow), "%v", err)
		})
	}

	// A prebuilt graph is checked against the chosen terminals.
	g, err := core.NewGraph(4, []core.Arc{
		{From: 0, To: 1, Capacity: big}, {From: 0, To: 2, Capacity: big}, {From: 1, To: 3, Capacity: 1},
	})
	require.NoError(t, err)
	_, err = flow.PushRelabel(ctx, g, 0, 3)
	require.True(t, errors.Is(err, core.ErrCapacityOverflow))
	res, err := flow.PushRelabel(ctx, g, 1, 3, flow.WithVerify())
	require.NoError(t, err)
	require.Equal(t, int64(1), res.Value)
}

func TestCapacityAtInt64Limit(t *testing.T) {
	const half = math.MaxInt64 / 2
	res, err := flow.MaxFlow(context.Background(), 4, 0, 3, []core.Arc{
		{From: 0, To: 1, Capacity: half}, {From: 0, To: 2, Capacity: half + 1},
		{From: 1, To: 3, Capacity: half}, {From: 2, To: 3, Capacity: half + 1},
	}, flow.WithVerify())
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), res.Value)
	require.Equal(t, int64(math.MaxInt64), res.CutCapacity)
}

// TestCancelledContext: the run stops between Discharge calls.
func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g, err := core.NewGraph(3, []core.Arc{{From: 0, To: 1, Capacity: 2}, {From: 1, To: 2, Capacity: 2}})
	require.NoError(t, err)

	res, err := flow.PushRelabel(ctx, g, 0, 2)
	require.Nil(t, res)
	require.True(t, errors.Is(err, context.Canceled))
}

// TestInterruptedEngineKeepsValidPreflow stops after one Discharge and checks
// that the snapshot is flagged incomplete and refused by Verify.
func TestInterruptedEngineKeepsValidPreflow(t *testing.T) {
	g, err := core.NewGraph(4, []core.Arc{
		{From: 0, To: 1, Capacity: 5},
		{From: 1, To: 2, Capacity: 5},
		{From: 2, To: 3, Capacity: 5},
	})
	require.NoError(t, err)

	sel, err := flow.NewSelector(flow.FIFO)
	require.NoError(t, err)
	eng, err := flow.NewEngine(flow.NewResidual(g), 0, 3, sel, nil)
	require.NoError(t, err)

	more, err := eng.Step()
	require.NoError(t, err)
	require.True(t, more)
	require.NoError(t, eng.CheckLabels())

	partial := eng.Result()
	require.False(t, partial.Complete)
	require.Equal(t, int64(0), partial.Value)
	require.True(t, errors.Is(flow.Verify(g, 0, 3, partial), flow.ErrInvalidInput))

	require.NoError(t, eng.Run(context.Background()))
	final := eng.Result()
	require.True(t, final.Complete)
	require.Equal(t, int64(5), final.Value)
	require.NoError(t, flow.Verify(g, 0, 3, final))
	require.Equal(t, 2, final.Stats.Discharges)
}

// TestVerifyCatchesTamperedResult: Verify rejects broken flows.
func TestVerifyCatchesTamperedResult(t *testing.T) {
	g, err := core.NewGraph(3, []core.Arc{{From: 0, To: 1, Capacity: 4}, {From: 1, To: 2, Capacity: 4}})
	require.NoError(t, err)
	res, err := flow.PushRelabel(context.Background(), g, 0, 2)
	require.NoError(t, err)

	over := *res
	over.Flows = append([]flow.ArcFlow(nil), res.Flows...)
	over.Flows[0].Flow = 5
	require.True(t, errors.Is(flow.Verify(g, 0, 2, &over), flow.ErrInvariantViolation))

	leak := *res
	leak.Flows = append([]flow.ArcFlow(nil), res.Flows...)
	leak.Flows[1].Flow = 3
	require.True(t, errors.Is(flow.Verify(g, 0, 2, &leak), flow.ErrInvariantViolation))

	wrong := *res
	wrong.Value = 3
	require.True(t, errors.Is(flow.Verify(g, 0, 2, &wrong), flow.ErrInvariantViolation))

	negative := *res
	negative.Value, negative.CutCapacity = -2, -2
	require.ErrorContains(t, flow.Verify(g, 0, 2, &negative), "negative flow value")
}

// TestLoggerReceivesSummary checks the Info record emitted per run.
func TestLoggerReceivesSummary(t *testing.T) {
	obs, logs := observer.New(zap.InfoLevel)
	g, err := core.NewGraph(2, []core.Arc{{From: 0, To: 1, Capacity: 3}})
	require.NoError(t, err)

	_, err = flow.PushRelabel(context.Background(), g, 0, 1, flow.WithLogger(zap.New(obs)))
	require.NoError(t, err)

	entries := logs.FilterMessage("push-relabel finished").All()
	require.Len(t, entries, 1)
	require.Equal(t, int64(3), entries[0].ContextMap()["value"])
}

// TestDebugLogTracesPushesAndRelabels checks the per-operation debug records
// on a path whose middle node must return one unit to the source.
func TestDebugLogTracesPushesAndRelabels(t *testing.T) {
	obs, logs := observer.New(zap.DebugLevel)
	g, err := core.NewGraph(3, []core.Arc{{From: 0, To: 1, Capacity: 4}, {From: 1, To: 2, Capacity: 3}})
	require.NoError(t, err)

	res, err := flow.PushRelabel(context.Background(), g, 0, 2, flow.WithLogger(zap.New(obs)))
	require.NoError(t, err)

	pushes := logs.FilterMessage("push").All()
	require.Len(t, pushes, res.Stats.Pushes)
	require.Equal(t, map[string]interface{}{"u": int64(1), "v": int64(2), "delta": int64(3)}, pushes[0].ContextMap())
	require.Equal(t, map[string]interface{}{"u": int64(1), "v": int64(0), "delta": int64(1)}, pushes[1].ContextMap())
	require.Len(t, logs.FilterMessage("relabel").All(), res.Stats.Relabels)
}

// edmondsKarp is an independent reference: BFS augmenting paths on a dense
// residual matrix.
func edmondsKarp(g *core.Graph, source, sink int) int64 {
	n := g.NodeCount()
	res := make([][]int64, n)
	for u := range res {
		res[u] = make([]int64, n)
	}
	for _, a := range g.Arcs() {
		if a.From != a.To {
			res[a.From][a.To] += a.Capacity
		}
	}

	var total int64
	for {
		parent := make([]int, n)
		for i := range parent {
			parent[i] = -1
		}
		parent[source] = source
		queue := []int{source}
		for i := 0; i < len(queue) && parent[sink] < 0; i++ {
			u := queue[i]
			for v := 0; v < n; v++ {
				if res[u][v] > 0 && parent[v] < 0 {
					parent[v] = u
					queue = append(queue, v)
				}
			}
		}
		if parent[sink] < 0 {
			return total
		}

		bottle := int64(-1)
		for v := sink; v != source; v = parent[v] {
			if c := res[parent[v]][v]; bottle < 0 || c < bottle {
				bottle = c
			}
		}
		for v := sink; v != source; v = parent[v] {
			res[parent[v]][v] -= bottle
			res[v][parent[v]] += bottle
		}
		total += bottle
	}
}
