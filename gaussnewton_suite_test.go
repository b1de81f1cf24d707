package trajcost_test

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/trajcost"
)

type suiteSys struct{ n, m int }

func (s suiteSys) StateDim() int   { return s.n }
func (s suiteSys) ControlDim() int { return s.m }

// affineResidual is a running residual r(x, u) = A·x + B·u - c.
type affineResidual struct {
	a, b *mat.Dense
	c    *mat.VecDense
}

func (r *affineResidual) ResidualDim() int { return r.c.Len() }

func (r *affineResidual) Residual(sys trajcost.System, d *trajcost.RunningData, x, u mat.Vector) error {
	d.Res.R.MulVec(r.a, x)
	var bu mat.VecDense
	bu.MulVec(r.b, u)
	d.Res.R.AddVec(d.Res.R, &bu)
	d.Res.R.SubVec(d.Res.R, r.c)
	return nil
}

func (r *affineResidual) ResidualJacobianState(sys trajcost.System, d *trajcost.RunningData, x, u mat.Vector) error {
	d.Res.Rx.Copy(r.a)
	return nil
}

func (r *affineResidual) ResidualJacobianControl(sys trajcost.System, d *trajcost.RunningData, x, u mat.Vector) error {
	d.Res.Ru.Copy(r.b)
	return nil
}

var _ = Describe("Gauss-Newton running costs", func() {
	const (
		n = 4
		m = 2
		k = 3
	)

	var (
		rng  *rand.Rand
		sys  suiteSys
		res  *affineResidual
		cost *trajcost.GaussNewtonRunning
		d    *trajcost.RunningData
		x, u *mat.VecDense
	)

	randDense := func(rows, cols int) *mat.Dense {
		data := make([]float64, rows*cols)
		for i := range data {
			data[i] = rng.NormFloat64()
		}
		return mat.NewDense(rows, cols, data)
	}
	randVec := func(size int) *mat.VecDense {
		data := make([]float64, size)
		for i := range data {
			data[i] = rng.NormFloat64()
		}
		return mat.NewVecDense(size, data)
	}

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(42))
		sys = suiteSys{n: n, m: m}
		res = &affineResidual{a: randDense(k, n), b: randDense(k, m), c: randVec(k)}
		cost = trajcost.NewGaussNewtonRunning(res)

		var err error
		d, err = cost.CreateData(n, m)
		Expect(err).NotTo(HaveOccurred())

		x = randVec(n)
		u = randVec(m)
	})

	It("computes the value as half the squared residual norm", func() {
		v, err := cost.Value(sys, d, x, u)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(d.Value))
		Expect(v).To(BeNumerically("~", 0.5*mat.Dot(d.Res.R, d.Res.R), 1e-14))
	})

	It("forms the Hessian blocks from the residual Jacobians alone", func() {
		Expect(cost.Hessian(sys, d, x, u)).To(Succeed())

		var lxx, luu, lux mat.Dense
		lxx.Mul(d.Res.Rx.T(), d.Res.Rx)
		luu.Mul(d.Res.Ru.T(), d.Res.Ru)
		lux.Mul(d.Res.Ru.T(), d.Res.Rx)

		Expect(mat.EqualApprox(d.Lxx, &lxx, 1e-12)).To(BeTrue())
		Expect(mat.EqualApprox(d.Luu, &luu, 1e-12)).To(BeTrue())
		Expect(mat.EqualApprox(d.Lux, &lux, 1e-12)).To(BeTrue())
	})

	It("keeps Lxx and Luu symmetric", func() {
		Expect(cost.Hessian(sys, d, x, u)).To(Succeed())

		Expect(mat.EqualApprox(d.Lxx, d.Lxx.T(), 0)).To(BeTrue())
		Expect(mat.EqualApprox(d.Luu, d.Luu.T(), 0)).To(BeTrue())
	})

	It("produces positive semi-definite Hessians for any residual", func() {
		Expect(cost.Hessian(sys, d, x, u)).To(Succeed())

		for trial := 0; trial < 32; trial++ {
			v := randVec(n)
			var lv mat.VecDense
			lv.MulVec(d.Lxx, v)
			Expect(mat.Dot(v, &lv)).To(BeNumerically(">=", -1e-12))

			w := randVec(m)
			var lw mat.VecDense
			lw.MulVec(d.Luu, w)
			Expect(mat.Dot(w, &lw)).To(BeNumerically(">=", -1e-12))
		}
	})

	It("matches the true gradient of the affine least-squares cost", func() {
		Expect(cost.Jacobian(sys, d, x, u)).To(Succeed())

		// For r = Ax + Bu - c the gradient Aᵀr is exact, not approximate.
		var want mat.VecDense
		want.MulVec(res.a.T(), d.Res.R)
		Expect(mat.EqualApprox(d.Lx, &want, 1e-12)).To(BeTrue())

		want.Reset()
		want.MulVec(res.b.T(), d.Res.R)
		Expect(mat.EqualApprox(d.Lu, &want, 1e-12)).To(BeTrue())
	})
})
