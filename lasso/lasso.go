// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lasso formulates the LASSO regression
//
//	minimize ½‖𝐗𝐰 - 𝐲‖² + λ‖𝐰‖₁
//
// through its dual QP
//
//	minimize   ½𝐯ᵀ𝐯 + 𝐲ᵀ𝐯
//	subject to ‖𝐗ᵀ𝐯‖∞ ≤ λ
//
// and solves it with the barrier method.
// The primal weights are read from the constraint multipliers: 𝐰 = 𝐮₋ - 𝐮₊ and 𝐯 = 𝐗𝐰 - 𝐲.
package lasso

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/curioloop/qpbarrier/barrier"
)

// Dataset is a regression design matrix with its response.
type Dataset struct {
	X *mat.Dense // samples × features
	Y []float64  // samples
}

// NewDataset validates and copies the regression data.
func NewDataset(x mat.Matrix, y []float64) (*Dataset, error) {
	if x == nil {
		return nil, errors.New("design matrix is required")
	}
	if r, _ := x.Dims(); r != len(y) {
		return nil, fmt.Errorf("design matrix has %d samples but response has %d", r, len(y))
	}
	return &Dataset{X: mat.DenseCopyOf(x), Y: slices.Clone(y)}, nil
}

// Dims returns the number of samples and features.
func (ds *Dataset) Dims() (samples, features int) {
	return ds.X.Dims()
}

// Dual builds the dual QP with 𝐐 = ½𝐈, 𝐩 = 𝐲, 𝐀 = [𝐗ᵀ; -𝐗ᵀ] and 𝐛 = λ𝟏.
// The first d constraints bound 𝐗ᵀ𝐯 from above and the last d from below.
// The returned problem uses default options.
func Dual(ds *Dataset, lambda float64) (*barrier.Problem, error) {
	if !(lambda > 0) || math.IsInf(lambda, 0) {
		return nil, errors.New("regularization weight must greater than 0")
	}

	n, d := ds.Dims()

	q := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		q.SetSym(i, i, 0.5)
	}

	a := mat.NewDense(2*d, n, nil)
	for j := 0; j < d; j++ {
		for i := 0; i < n; i++ {
			xij := ds.X.At(i, j)
			a.Set(j, i, xij)
			a.Set(d+j, i, -xij)
		}
	}

	b := make([]float64, 2*d)
	floats.AddConst(lambda, b)

	return &barrier.Problem{
		Q: q,
		P: slices.Clone(ds.Y),
		A: a,
		B: b,
	}, nil
}

// FeasibleStart returns 𝐯₀ = 0, which has slack λ in every dual constraint.
func FeasibleStart(ds *Dataset) []float64 {
	n, _ := ds.Dims()
	return make([]float64, n)
}

// Weights recovers the primal weights 𝐰 = 𝐮₋ - 𝐮₊ from the dual estimate of a barrier result.
func Weights(res *barrier.Result) []float64 {
	d := len(res.Dual) / 2
	w := make([]float64, d)
	floats.SubTo(w, res.Dual[d:], res.Dual[:d])
	return w
}

// Primal evaluates ½‖𝐗𝐰 - 𝐲‖² + λ‖𝐰‖₁.
func Primal(ds *Dataset, w []float64, lambda float64) float64 {
	r := residual(ds, w)
	return 0.5*floats.Dot(r, r) + lambda*floats.Norm(w, 1)
}

// residual returns 𝐗𝐰 - 𝐲.
func residual(ds *Dataset, w []float64) []float64 {
	n, _ := ds.Dims()
	r := mat.NewVecDense(n, nil)
	r.MulVec(ds.X, mat.NewVecDense(len(w), w))
	floats.Sub(r.RawVector().Data, ds.Y)
	return r.RawVector().Data
}

// Fit is a solved LASSO instance.
type Fit struct {
	Lambda   float64
	Weights  []float64       // primal weights 𝐰
	Residual []float64       // 𝐗𝐰 - 𝐲
	Primal   float64         // ½‖𝐗𝐰 - 𝐲‖² + λ‖𝐰‖₁
	Dual     float64         // -(½𝐯ᵀ𝐯 + 𝐲ᵀ𝐯), a lower bound of the optimal primal value
	Result   *barrier.Result // the underlying dual QP solution
}

// Gap returns the primal-dual gap of the fit.
func (f *Fit) Gap() float64 {
	return f.Primal - f.Dual
}

// Solver solves LASSO instances with a fixed set of barrier options.
type Solver struct {
	Stop   barrier.Termination
	Search barrier.LineSearch
	Path   barrier.Schedule
	Logger *barrier.Logger
}

// Solve fits the LASSO weights of ds for regularization weight lambda.
func (s *Solver) Solve(ds *Dataset, lambda float64) (*Fit, error) {

	p, err := Dual(ds, lambda)
	if err != nil {
		return nil, err
	}
	p.Stop, p.Search, p.Path = s.Stop, s.Search, s.Path

	o, err := p.New(s.Logger)
	if err != nil {
		return nil, fmt.Errorf("lasso: %w", err)
	}

	res, err := o.Fit(FeasibleStart(ds), o.Init())
	if err != nil {
		return nil, fmt.Errorf("lasso: %w", err)
	}

	w := Weights(res)
	return &Fit{
		Lambda:   lambda,
		Weights:  w,
		Residual: residual(ds, w),
		Primal:   Primal(ds, w, lambda),
		Dual:     -res.F,
		Result:   res,
	}, nil
}
