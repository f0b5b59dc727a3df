package flow

import "fmt"

// initPreflow saturates every arc out of the source.
//
// Steps:
//  1. For each residual arc s→v with res(s,v) > 0 (which equals cap(s,v) on a
//     fresh network): send the full capacity.
//  2. Credit excess(v), debit excess(s) by the same amount.
//  3. Activate v unless it is the sink.
//
// Heights were already set by newState: height(s)=n, all others 0. Afterwards
// every active node is one hop from the source and the labeling is valid
// because every residual arc out of s is saturated.
func (e *Engine) initPreflow() error {
	s := e.st.source
	for i := range e.net.arcs[s] {
		a := &e.net.arcs[s][i]
		delta := a.res
		if delta == 0 {
			continue
		}
		v := a.head
		if err := e.net.send(s, i, delta); err != nil {
			return fmt.Errorf("flow: preflow on %d→%d: %w", s, v, err)
		}
		if err := e.st.AddExcess(v, delta); err != nil {
			return err
		}
		if err := e.st.AddExcess(s, -delta); err != nil {
			return err
		}
		e.activate(v)
	}

	return nil
}

// fresh reports whether no flow has been sent through r yet.
func (r *Residual) fresh() bool {
	for _, arcs := range r.arcs {
		for _, a := range arcs {
			if a.res != a.cap {
				return false
			}
		}
	}

	return true
}
