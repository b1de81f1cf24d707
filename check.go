package trajcost

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

// CheckTerminal compares the analytic derivatives of c against central
// finite differences at x, using c's own data object. It returns nil when
// the Jacobian and Hessian agree entry-wise within tol. For residual-based
// costs the Hessian comparison is skipped: rxᵀrx deliberately differs from
// the true Hessian, so a finite-difference check would reject correct
// costs.
func CheckTerminal(c Terminal, sys System, x *mat.VecDense, tol float64) error {
	n := x.Len()
	d, err := c.CreateData(n)
	if err != nil {
		return err
	}

	var evalErr error
	f := func(pt []float64) float64 {
		v, err := c.Value(sys, d, mat.NewVecDense(len(pt), pt))
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return v
	}

	grad := make([]float64, n)
	fd.Gradient(grad, f, vecData(x), &fd.Settings{Formula: fd.Central})
	if evalErr != nil {
		return evalErr
	}

	if err := c.Jacobian(sys, d, x); err != nil {
		return err
	}
	for i := range grad {
		if math.Abs(grad[i]-d.Lx.AtVec(i)) > tol {
			return fmt.Errorf("trajcost: lx[%d] is %g, finite difference gives %g", i, d.Lx.AtVec(i), grad[i])
		}
	}

	if err := c.Hessian(sys, d, x); err != nil {
		return err
	}
	if d.Res != nil {
		return nil
	}

	hess := mat.NewDense(n, n, nil)
	jf := func(dst, pt []float64) {
		if err := c.Jacobian(sys, d, mat.NewVecDense(len(pt), pt)); err != nil && evalErr == nil {
			evalErr = err
		}
		for i := 0; i < len(dst); i++ {
			dst[i] = d.Lx.AtVec(i)
		}
	}
	lxx := mat.NewSymDense(n, nil)
	lxx.CopySym(d.Lxx)
	fd.Jacobian(hess, jf, vecData(x), &fd.JacobianSettings{Formula: fd.Central})
	if evalErr != nil {
		return evalErr
	}
	return compare("lxx", lxx, hess, tol)
}

// CheckRunning is the running-cost analogue of CheckTerminal: Lx and Lu
// are compared against finite differences of the value, and for direct
// costs Lxx, Luu and Lux against finite differences of the Jacobian.
func CheckRunning(c Running, sys System, x, u *mat.VecDense, tol float64) error {
	n, m := x.Len(), u.Len()
	d, err := c.CreateData(n, m)
	if err != nil {
		return err
	}

	var evalErr error
	fx := func(pt []float64) float64 {
		v, err := c.Value(sys, d, mat.NewVecDense(len(pt), pt), u)
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return v
	}
	fu := func(pt []float64) float64 {
		v, err := c.Value(sys, d, x, mat.NewVecDense(len(pt), pt))
		if err != nil && evalErr == nil {
			evalErr = err
		}
		return v
	}

	gradX := make([]float64, n)
	gradU := make([]float64, m)
	fd.Gradient(gradX, fx, vecData(x), &fd.Settings{Formula: fd.Central})
	fd.Gradient(gradU, fu, vecData(u), &fd.Settings{Formula: fd.Central})
	if evalErr != nil {
		return evalErr
	}

	if err := c.Jacobian(sys, d, x, u); err != nil {
		return err
	}
	for i := range gradX {
		if math.Abs(gradX[i]-d.Lx.AtVec(i)) > tol {
			return fmt.Errorf("trajcost: lx[%d] is %g, finite difference gives %g", i, d.Lx.AtVec(i), gradX[i])
		}
	}
	for i := range gradU {
		if math.Abs(gradU[i]-d.Lu.AtVec(i)) > tol {
			return fmt.Errorf("trajcost: lu[%d] is %g, finite difference gives %g", i, d.Lu.AtVec(i), gradU[i])
		}
	}

	if err := c.Hessian(sys, d, x, u); err != nil {
		return err
	}
	if d.Res != nil {
		return nil
	}

	lxx := mat.NewSymDense(n, nil)
	lxx.CopySym(d.Lxx)
	luu := mat.NewSymDense(m, nil)
	luu.CopySym(d.Luu)
	lux := mat.NewDense(m, n, nil)
	lux.Copy(d.Lux)

	jxx := func(dst, pt []float64) {
		if err := c.Jacobian(sys, d, mat.NewVecDense(len(pt), pt), u); err != nil && evalErr == nil {
			evalErr = err
		}
		for i := 0; i < len(dst); i++ {
			dst[i] = d.Lx.AtVec(i)
		}
	}
	juu := func(dst, pt []float64) {
		if err := c.Jacobian(sys, d, x, mat.NewVecDense(len(pt), pt)); err != nil && evalErr == nil {
			evalErr = err
		}
		for i := 0; i < len(dst); i++ {
			dst[i] = d.Lu.AtVec(i)
		}
	}
	jux := func(dst, pt []float64) {
		if err := c.Jacobian(sys, d, mat.NewVecDense(len(pt), pt), u); err != nil && evalErr == nil {
			evalErr = err
		}
		for i := 0; i < len(dst); i++ {
			dst[i] = d.Lu.AtVec(i)
		}
	}

	hxx := mat.NewDense(n, n, nil)
	huu := mat.NewDense(m, m, nil)
	hux := mat.NewDense(m, n, nil)
	fd.Jacobian(hxx, jxx, vecData(x), &fd.JacobianSettings{Formula: fd.Central})
	fd.Jacobian(huu, juu, vecData(u), &fd.JacobianSettings{Formula: fd.Central})
	fd.Jacobian(hux, jux, vecData(x), &fd.JacobianSettings{Formula: fd.Central})
	if evalErr != nil {
		return evalErr
	}

	if err := compare("lxx", lxx, hxx, tol); err != nil {
		return err
	}
	if err := compare("luu", luu, huu, tol); err != nil {
		return err
	}
	return compare("lux", lux, hux, tol)
}

func compare(name string, analytic, numeric mat.Matrix, tol float64) error {
	rows, cols := analytic.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			a, h := analytic.At(i, j), numeric.At(i, j)
			if math.Abs(a-h) > tol {
				return fmt.Errorf("trajcost: %s[%d,%d] is %g, finite difference gives %g", name, i, j, a, h)
			}
		}
	}
	return nil
}

func vecData(v *mat.VecDense) []float64 {
	out := make([]float64, v.Len())
	for i := range out {
		out[i] = v.AtVec(i)
	}
	return out
}
