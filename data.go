package trajcost

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// TerminalData holds one node's terminal cost evaluation. It is allocated
// once by CreateData when the cost is attached to a node, overwritten in
// place on every evaluation, and never shared between nodes.
type TerminalData struct {
	n int

	Value float64
	Lx    *mat.VecDense // n
	Lxx   *mat.SymDense // n×n

	// Res is non-nil iff the owning cost is residual-based.
	Res *ResidualData
}

// RunningData holds one node's running cost evaluation.
//
// Lux is m×n with control-major indexing: Lux.At(i, j) = ∂²l/∂uᵢ∂xⱼ.
// Solver backward passes depend on this orientation.
type RunningData struct {
	n, m int

	Value float64
	Lx    *mat.VecDense // n
	Lu    *mat.VecDense // m
	Lxx   *mat.SymDense // n×n
	Luu   *mat.SymDense // m×m
	Lux   *mat.Dense    // m×n

	// Res is non-nil iff the owning cost is residual-based.
	Res *ResidualData
}

// ResidualData carries the residual vector and its Jacobians for costs of
// the form l = ½‖r‖². The residual dimension k is fixed at construction.
type ResidualData struct {
	k int

	R  *mat.VecDense // k
	Rx *mat.Dense    // k×n
	Ru *mat.Dense    // k×m, nil for terminal costs
}

func NewTerminalData(n int) (*TerminalData, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: state dimension must be positive, got %d", ErrDimension, n)
	}
	return &TerminalData{
		n:   n,
		Lx:  mat.NewVecDense(n, nil),
		Lxx: mat.NewSymDense(n, nil),
	}, nil
}

func NewRunningData(n, m int) (*RunningData, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: state dimension must be positive, got %d", ErrDimension, n)
	}
	if m <= 0 {
		return nil, fmt.Errorf("%w: control dimension must be positive, got %d", ErrDimension, m)
	}
	return &RunningData{
		n:   n,
		m:   m,
		Lx:  mat.NewVecDense(n, nil),
		Lu:  mat.NewVecDense(m, nil),
		Lxx: mat.NewSymDense(n, nil),
		Luu: mat.NewSymDense(m, nil),
		Lux: mat.NewDense(m, n, nil),
	}, nil
}

// NewTerminalResidualData allocates terminal data carrying a residual
// block of dimension k.
func NewTerminalResidualData(n, k int) (*TerminalData, error) {
	d, err := NewTerminalData(n)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: residual dimension must be positive, got %d", ErrDimension, k)
	}
	d.Res = &ResidualData{
		k:  k,
		R:  mat.NewVecDense(k, nil),
		Rx: mat.NewDense(k, n, nil),
	}
	return d, nil
}

// NewRunningResidualData allocates running data carrying a residual block
// of dimension k, including the control Jacobian Ru.
func NewRunningResidualData(n, m, k int) (*RunningData, error) {
	d, err := NewRunningData(n, m)
	if err != nil {
		return nil, err
	}
	if k <= 0 {
		return nil, fmt.Errorf("%w: residual dimension must be positive, got %d", ErrDimension, k)
	}
	d.Res = &ResidualData{
		k:  k,
		R:  mat.NewVecDense(k, nil),
		Rx: mat.NewDense(k, n, nil),
		Ru: mat.NewDense(k, m, nil),
	}
	return d, nil
}

func (d *TerminalData) StateDim() int { return d.n }

// CheckState reports a DimensionError if x does not match the state
// dimension fixed at construction.
func (d *TerminalData) CheckState(x mat.Vector) error {
	if x.Len() != d.n {
		return &DimensionError{Field: "x", Got: x.Len(), Want: d.n}
	}
	return nil
}

// FiniteCheck reports ErrNonFinite if the value or any filled derivative
// contains NaN or Inf.
func (d *TerminalData) FiniteCheck() error {
	if !finite(d.Value) || !finiteMatrix(d.Lx) || !finiteMatrix(d.Lxx) {
		return fmt.Errorf("%w: terminal data", ErrNonFinite)
	}
	if d.Res != nil {
		if !finiteMatrix(d.Res.R) || !finiteMatrix(d.Res.Rx) {
			return fmt.Errorf("%w: terminal residual data", ErrNonFinite)
		}
	}
	return nil
}

func (d *RunningData) StateDim() int   { return d.n }
func (d *RunningData) ControlDim() int { return d.m }

// CheckState reports a DimensionError if x does not match the state
// dimension fixed at construction.
func (d *RunningData) CheckState(x mat.Vector) error {
	if x.Len() != d.n {
		return &DimensionError{Field: "x", Got: x.Len(), Want: d.n}
	}
	return nil
}

// CheckControl reports a DimensionError if u does not match the control
// dimension fixed at construction.
func (d *RunningData) CheckControl(u mat.Vector) error {
	if u.Len() != d.m {
		return &DimensionError{Field: "u", Got: u.Len(), Want: d.m}
	}
	return nil
}

// FiniteCheck reports ErrNonFinite if the value or any filled derivative
// contains NaN or Inf.
func (d *RunningData) FiniteCheck() error {
	if !finite(d.Value) || !finiteMatrix(d.Lx) || !finiteMatrix(d.Lu) ||
		!finiteMatrix(d.Lxx) || !finiteMatrix(d.Luu) || !finiteMatrix(d.Lux) {
		return fmt.Errorf("%w: running data", ErrNonFinite)
	}
	if d.Res != nil {
		if !finiteMatrix(d.Res.R) || !finiteMatrix(d.Res.Rx) || !finiteMatrix(d.Res.Ru) {
			return fmt.Errorf("%w: running residual data", ErrNonFinite)
		}
	}
	return nil
}

func (r *ResidualData) Dim() int { return r.k }

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func finiteMatrix(a mat.Matrix) bool {
	rows, cols := a.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if !finite(a.At(i, j)) {
				return false
			}
		}
	}
	return true
}
