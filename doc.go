// Package preflow computes maximum flows and minimum cuts with the
// push-relabel (preflow-push) method.
//
// 🚀 What is preflow?
//
//	A small, deterministic library plus a command-line tool:
//		• core/       — immutable capacity graphs, edge-list reader, gonum adapters
//		• flow/       — residual network, labels, discharge engine, result & min cut
//		• cmd/maxflow — reads an edge list and prints value, cut and flows
//
// Quick ASCII example:
//
//	0 ──7──▶ 1 ──6──▶ 2 ──8──▶ 3
//	▲                          │
//	└────────────9─────────────┘
//
//	flow from 0 to 3 is 6, and the minimum cut is the single arc 1→2.
//
//	go get github.com/katalvlaran/preflow
package preflow
