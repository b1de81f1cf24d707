// Package trajcost defines the cost-function contract consumed by
// trajectory-optimization solvers (DDP, iLQR).
//
// A solver attaches one cost object to every trajectory node. At setup the
// cost allocates the data it will fill, and on each solver iteration the
// solver hands back the current state (and control) together with a
// read-only [System] handle:
//
//   - [Terminal]: state-only cost on the final node
//   - [Running]: state-and-control cost on every other node
//   - [TerminalResidual], [RunningResidual]: least-squares costs l = ½‖r‖²,
//     lifted to the full contract by [NewGaussNewtonTerminal] and
//     [NewGaussNewtonRunning]
//
//	cost := trajcost.NewGaussNewtonTerminal(goal)
//	d, _ := cost.CreateData(sys.StateDim())
//	v, _ := cost.Value(sys, d, x)
//
// # Derivative conventions
//
// For state dimension n and control dimension m, Lx has length n, Lu length
// m, Lxx is n×n, Luu is m×m, and Lux is m×n with control-major indexing:
// Lux.At(i, j) = ∂²l/∂uᵢ∂xⱼ. Lxx and Luu are [mat.SymDense], so symmetry
// holds structurally after every evaluation.
//
// Residual-based costs use the ½‖r‖² normalization, giving lx = rxᵀr and
// the Gauss-Newton Hessians lxx = rxᵀrx, luu = ruᵀru, lux = ruᵀrx. The
// residual's own curvature is never formed; see [GaussNewtonTerminal].
//
// # Thread Safety
//
// Cost objects are stateless per call; all mutable state lives in the
// [TerminalData] or [RunningData] a node owns. Evaluating different nodes
// concurrently is safe as long as the shared [System] is not mutated.
// [EvalNodes] sweeps a whole trajectory this way.
package trajcost
