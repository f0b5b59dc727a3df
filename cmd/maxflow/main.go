// Command maxflow reads a capacity graph as an edge list and prints its
// maximum flow and a minimum cut.
//
//	maxflow -i network.txt -s 0 -t 3 --selection highest-label --flows
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/katalvlaran/preflow/core"
	"github.com/katalvlaran/preflow/flow"
)

func main() {
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err = run(context.Background(), cfg, os.Stdin, os.Stdout, logger); err != nil {
		logger.Error("maxflow failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}

	return zap.NewProduction()
}

func run(ctx context.Context, cfg config, stdin io.Reader, stdout io.Writer, logger *zap.Logger) error {
	in := stdin
	if cfg.Input != "-" {
		f, err := os.Open(cfg.Input)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	dup := core.DuplicateSum
	if cfg.Duplicates == "reject" {
		dup = core.DuplicateReject
	}
	g, err := core.ReadEdgeList(in, core.WithDuplicates(dup))
	if err != nil {
		return err
	}
	logger.Info("graph loaded",
		zap.String("input", cfg.Input),
		zap.Int("nodes", g.NodeCount()),
		zap.Int("arcs", g.ArcCount()),
	)

	policy, err := flow.ParsePolicy(cfg.Selection)
	if err != nil {
		return err
	}
	opts := []flow.Option{flow.WithSelection(policy), flow.WithLogger(logger)}
	if cfg.Verify {
		opts = append(opts, flow.WithVerify())
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	res, err := flow.PushRelabel(ctx, g, cfg.Source, cfg.Sink, opts...)
	if err != nil {
		return err
	}

	return report(stdout, res, cfg.Flows)
}

func report(out io.Writer, res *flow.Result, withFlows bool) error {
	w := bufio.NewWriter(out)
	fmt.Fprintf(w, "max flow: %d\n", res.Value)
	fmt.Fprintf(w, "min cut (%d arcs, capacity %d):\n", len(res.Cut), res.CutCapacity)
	for _, a := range res.Cut {
		fmt.Fprintf(w, "  %d -> %d  %d\n", a.From, a.To, a.Capacity)
	}
	if withFlows {
		fmt.Fprintln(w, "flows:")
		for _, af := range res.Flows {
			fmt.Fprintf(w, "  %d -> %d  %d/%d\n", af.From, af.To, af.Flow, af.Capacity)
		}
	}

	return w.Flush()
}
