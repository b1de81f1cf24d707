package trajcost

import "gonum.org/v1/gonum/mat"

// System is the read-only model handle the solver passes into every
// evaluation. Costs query it for dimensions and never mutate it. Richer
// model context, such as a reference trajectory, is reached by asserting
// the concrete type, the same way optional capabilities are discovered on
// dynamics models:
//
//	if ref, ok := sys.(interface{ Reference() mat.Vector }); ok {
//	    target := ref.Reference()
//	}
type System interface {
	StateDim() int
	ControlDim() int
}

// Terminal is a cost on the final trajectory node, a function of state
// alone. Implementations must be pure in (sys, x): repeated calls with the
// same inputs produce the same result, and the only side effect is writing
// into d. The three evaluation calls may arrive in any order.
type Terminal interface {
	// CreateData allocates the data this cost fills at one node.
	CreateData(n int) (*TerminalData, error)

	// Value computes the cost at x, stores it in d.Value, and returns it.
	Value(sys System, d *TerminalData, x mat.Vector) (float64, error)

	// Jacobian fills d.Lx with ∂l/∂x.
	Jacobian(sys System, d *TerminalData, x mat.Vector) error

	// Hessian fills d.Lxx with ∂²l/∂x².
	Hessian(sys System, d *TerminalData, x mat.Vector) error
}

// Running is a per-stage cost, a function of state and control. Jacobian
// fills both Lx and Lu; Hessian fills Lxx, Luu and Lux.
type Running interface {
	CreateData(n, m int) (*RunningData, error)
	Value(sys System, d *RunningData, x, u mat.Vector) (float64, error)
	Jacobian(sys System, d *RunningData, x, u mat.Vector) error
	Hessian(sys System, d *RunningData, x, u mat.Vector) error
}
