package trajcost

import (
	"fmt"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// EvalTerminal runs a full node evaluation: value, Jacobian and Hessian.
// This is the unit a backward pass consumes per node. It adds nothing over
// calling the three methods yourself.
func EvalTerminal(c Terminal, sys System, d *TerminalData, x mat.Vector) error {
	if _, err := c.Value(sys, d, x); err != nil {
		return err
	}
	if err := c.Jacobian(sys, d, x); err != nil {
		return err
	}
	return c.Hessian(sys, d, x)
}

// EvalRunning runs a full node evaluation: value, Jacobian and Hessian.
func EvalRunning(c Running, sys System, d *RunningData, x, u mat.Vector) error {
	if _, err := c.Value(sys, d, x, u); err != nil {
		return err
	}
	if err := c.Jacobian(sys, d, x, u); err != nil {
		return err
	}
	return c.Hessian(sys, d, x, u)
}

// Node pairs a running cost with the data it owns at one trajectory step.
// The solver keeps the node-to-cost mapping; trajcost stores nothing.
type Node struct {
	Cost Running
	Data *RunningData
}

// EvalNodes fully evaluates every node in parallel, node i at (xs[i],
// us[i]). Safe without locking: each node owns its data and reads only its
// own state and control, and sys must not be mutated concurrently. The
// error at the lowest failing index is returned.
func EvalNodes(sys System, nodes []Node, xs, us []mat.Vector) error {
	if len(xs) != len(nodes) {
		return fmt.Errorf("%w: %d states for %d nodes", ErrDimension, len(xs), len(nodes))
	}
	if len(us) != len(nodes) {
		return fmt.Errorf("%w: %d controls for %d nodes", ErrDimension, len(us), len(nodes))
	}

	errs := make([]error, len(nodes))

	var wg sync.WaitGroup
	for i := range nodes {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = EvalRunning(nodes[idx].Cost, sys, nodes[idx].Data, xs[idx], us[idx])
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
