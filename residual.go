package trajcost

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// TerminalResidual defines a terminal cost through a residual vector r(x)
// of fixed dimension k, so that l(x) = ½‖r(x)‖². Lift it to the full
// [Terminal] contract with NewGaussNewtonTerminal. An implementation that
// misses a method does not satisfy the interface and fails to compile.
type TerminalResidual interface {
	// ResidualDim returns k, fixed at construction of the cost.
	ResidualDim() int

	// Residual fills d.Res.R with r(x).
	Residual(sys System, d *TerminalData, x mat.Vector) error

	// ResidualJacobian fills d.Res.Rx with ∂r/∂x (k×n).
	ResidualJacobian(sys System, d *TerminalData, x mat.Vector) error
}

// RunningResidual defines a running cost through a residual r(x, u).
type RunningResidual interface {
	// ResidualDim returns k, fixed at construction of the cost.
	ResidualDim() int

	// Residual fills d.Res.R with r(x, u).
	Residual(sys System, d *RunningData, x, u mat.Vector) error

	// ResidualJacobianState fills d.Res.Rx with ∂r/∂x (k×n).
	ResidualJacobianState(sys System, d *RunningData, x, u mat.Vector) error

	// ResidualJacobianControl fills d.Res.Ru with ∂r/∂u (k×m).
	ResidualJacobianControl(sys System, d *RunningData, x, u mat.Vector) error
}

// GaussNewtonTerminal derives a full terminal cost from a residual:
//
//	l   = ½‖r‖²
//	lx  = rxᵀ r
//	lxx = rxᵀ rx
//
// The rxᵀrx product drops the residual's own curvature Σᵢ rᵢ·∇²rᵢ. That is
// the Gauss-Newton approximation, not an omission: lxx stays positive
// semi-definite for any residual, and second derivatives of r are never
// needed.
type GaussNewtonTerminal struct {
	res TerminalResidual
}

func NewGaussNewtonTerminal(res TerminalResidual) *GaussNewtonTerminal {
	return &GaussNewtonTerminal{res: res}
}

func (c *GaussNewtonTerminal) CreateData(n int) (*TerminalData, error) {
	return NewTerminalResidualData(n, c.res.ResidualDim())
}

func (c *GaussNewtonTerminal) Value(sys System, d *TerminalData, x mat.Vector) (float64, error) {
	if err := c.prep(d, x); err != nil {
		return 0, err
	}
	if err := c.res.Residual(sys, d, x); err != nil {
		return 0, err
	}
	d.Value = 0.5 * mat.Dot(d.Res.R, d.Res.R)
	if !finite(d.Value) {
		return d.Value, fmt.Errorf("%w: terminal value", ErrNonFinite)
	}
	return d.Value, nil
}

func (c *GaussNewtonTerminal) Jacobian(sys System, d *TerminalData, x mat.Vector) error {
	if err := c.prep(d, x); err != nil {
		return err
	}
	if err := c.res.Residual(sys, d, x); err != nil {
		return err
	}
	if err := c.res.ResidualJacobian(sys, d, x); err != nil {
		return err
	}
	d.Lx.MulVec(d.Res.Rx.T(), d.Res.R)
	return nil
}

func (c *GaussNewtonTerminal) Hessian(sys System, d *TerminalData, x mat.Vector) error {
	if err := c.prep(d, x); err != nil {
		return err
	}
	if err := c.res.ResidualJacobian(sys, d, x); err != nil {
		return err
	}
	d.Lxx.SymOuterK(1, d.Res.Rx.T())
	if !finiteMatrix(d.Lxx) {
		return fmt.Errorf("%w: terminal Hessian", ErrNonFinite)
	}
	return nil
}

func (c *GaussNewtonTerminal) prep(d *TerminalData, x mat.Vector) error {
	if err := d.CheckState(x); err != nil {
		return err
	}
	if d.Res == nil {
		return fmt.Errorf("trajcost: terminal data has no residual block, allocate it with CreateData")
	}
	if d.Res.k != c.res.ResidualDim() {
		return &DimensionError{Field: "r", Got: d.Res.k, Want: c.res.ResidualDim()}
	}
	return nil
}

// GaussNewtonRunning derives a full running cost from a residual r(x, u):
//
//	l   = ½‖r‖²
//	lx  = rxᵀ r      lu  = ruᵀ r
//	lxx = rxᵀ rx     luu = ruᵀ ru     lux = ruᵀ rx
//
// As with [GaussNewtonTerminal], residual Hessians are never formed.
type GaussNewtonRunning struct {
	res RunningResidual
}

func NewGaussNewtonRunning(res RunningResidual) *GaussNewtonRunning {
	return &GaussNewtonRunning{res: res}
}

func (c *GaussNewtonRunning) CreateData(n, m int) (*RunningData, error) {
	return NewRunningResidualData(n, m, c.res.ResidualDim())
}

func (c *GaussNewtonRunning) Value(sys System, d *RunningData, x, u mat.Vector) (float64, error) {
	if err := c.prep(d, x, u); err != nil {
		return 0, err
	}
	if err := c.res.Residual(sys, d, x, u); err != nil {
		return 0, err
	}
	d.Value = 0.5 * mat.Dot(d.Res.R, d.Res.R)
	if !finite(d.Value) {
		return d.Value, fmt.Errorf("%w: running value", ErrNonFinite)
	}
	return d.Value, nil
}

func (c *GaussNewtonRunning) Jacobian(sys System, d *RunningData, x, u mat.Vector) error {
	if err := c.prep(d, x, u); err != nil {
		return err
	}
	if err := c.res.Residual(sys, d, x, u); err != nil {
		return err
	}
	if err := c.res.ResidualJacobianState(sys, d, x, u); err != nil {
		return err
	}
	if err := c.res.ResidualJacobianControl(sys, d, x, u); err != nil {
		return err
	}
	d.Lx.MulVec(d.Res.Rx.T(), d.Res.R)
	d.Lu.MulVec(d.Res.Ru.T(), d.Res.R)
	return nil
}

func (c *GaussNewtonRunning) Hessian(sys System, d *RunningData, x, u mat.Vector) error {
	if err := c.prep(d, x, u); err != nil {
		return err
	}
	if err := c.res.ResidualJacobianState(sys, d, x, u); err != nil {
		return err
	}
	if err := c.res.ResidualJacobianControl(sys, d, x, u); err != nil {
		return err
	}
	d.Lxx.SymOuterK(1, d.Res.Rx.T())
	d.Luu.SymOuterK(1, d.Res.Ru.T())
	d.Lux.Mul(d.Res.Ru.T(), d.Res.Rx)
	if !finiteMatrix(d.Lxx) || !finiteMatrix(d.Luu) || !finiteMatrix(d.Lux) {
		return fmt.Errorf("%w: running Hessian", ErrNonFinite)
	}
	return nil
}

func (c *GaussNewtonRunning) prep(d *RunningData, x, u mat.Vector) error {
	if err := d.CheckState(x); err != nil {
		return err
	}
	if err := d.CheckControl(u); err != nil {
		return err
	}
	if d.Res == nil || d.Res.Ru == nil {
		return fmt.Errorf("trajcost: running data has no residual block, allocate it with CreateData")
	}
	if d.Res.k != c.res.ResidualDim() {
		return &DimensionError{Field: "r", Got: d.Res.k, Want: c.res.ResidualDim()}
	}
	return nil
}
