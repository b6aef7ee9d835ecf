// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Evaluation holds the barrier objective
//
//	φₜ(𝐱) = t(𝐱ᵀ𝐐𝐱 + 𝐩ᵀ𝐱) - Σᵢ log(bᵢ - 𝐚ᵢᵀ𝐱)
//
// with its gradient and Hessian at one point.
type Evaluation struct {
	F float64       // φₜ(𝐱)
	G []float64     // ∇φₜ(𝐱) = t(2𝐐𝐱 + 𝐩) + Σᵢ 𝐚ᵢ/sᵢ
	H *mat.SymDense // ∇²φₜ(𝐱) = 2t𝐐 + Σᵢ 𝐚ᵢ𝐚ᵢᵀ/sᵢ²
	S []float64     // slack 𝐬 = 𝐛 - 𝐀𝐱
}

// Evaluate computes the barrier objective, gradient and Hessian for weight t at x.
// It returns ErrInfeasible when some slack is not positive. The optimizer state is not touched.
func (o *Optimizer) Evaluate(t float64, x []float64) (*Evaluation, error) {
	if len(x) != o.n {
		panic("x dimension not match problem")
	}
	if !(t > zero) {
		return nil, errors.New("barrier weight must greater than 0")
	}

	e := &Evaluation{
		G: make([]float64, o.n),
		H: mat.NewSymDense(o.n, nil),
		S: make([]float64, o.m),
	}
	if i := o.slack(x, e.S); i >= 0 {
		return nil, fmt.Errorf("%w: constraint %d has slack %g", ErrInfeasible, i, e.S[i])
	}
	e.F = o.value(t, x, e.S)
	o.gradient(t, x, e.S, e.G)
	o.hessian(t, e.S, e.H)
	return e, nil
}

// Objective returns the quadratic objective 𝐱ᵀ𝐐𝐱 + 𝐩ᵀ𝐱 without barrier.
func (o *Optimizer) Objective(x []float64) float64 {
	if len(x) != o.n {
		panic("x dimension not match problem")
	}
	xv := mat.NewVecDense(o.n, x)
	return mat.Inner(xv, o.q, xv) + floats.Dot(o.p, x)
}

// slack computes 𝐬 = 𝐛 - 𝐀𝐱 and returns the index of the first
// non-positive component, or -1 when x is strictly feasible.
func (o *Optimizer) slack(x, s []float64) (violated int) {
	violated = -1
	for i := 0; i < o.m; i++ {
		s[i] = o.b[i] - floats.Dot(o.a.RawRowView(i), x)
		// NaN slack is rejected as well
		if !(s[i] > zero) && violated < 0 {
			violated = i
		}
	}
	return
}

// value evaluates φₜ(𝐱) given the positive slack of x.
func (o *Optimizer) value(t float64, x, s []float64) (f float64) {
	f = t * o.Objective(x)
	for _, si := range s {
		f -= math.Log(si)
	}
	return
}

// gradient evaluates ∇φₜ(𝐱) = t(2𝐐𝐱 + 𝐩) + Σᵢ 𝐚ᵢ/sᵢ into g.
func (o *Optimizer) gradient(t float64, x, s, g []float64) {
	gv := mat.NewVecDense(o.n, g)
	gv.MulVec(o.q, mat.NewVecDense(o.n, x))
	floats.Scale(two*t, g)
	floats.AddScaled(g, t, o.p)
	for i, si := range s {
		floats.AddScaled(g, one/si, o.a.RawRowView(i))
	}
}

// hessian evaluates ∇²φₜ(𝐱) = 2t𝐐 + Σᵢ 𝐚ᵢ𝐚ᵢᵀ/sᵢ² into h.
// Every constraint contributes the full rank-one matrix 𝐚ᵢ𝐚ᵢᵀ.
func (o *Optimizer) hessian(t float64, s []float64, h *mat.SymDense) {
	h.ScaleSym(two*t, o.q)
	for i, si := range s {
		h.SymRankOne(h, one/(si*si), o.a.RowView(i))
	}
}
