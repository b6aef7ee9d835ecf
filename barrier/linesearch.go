// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Backtrack performs the backtracking line search for weight t from the strictly feasible
// point x along the descent direction d, where g = ∇φₜ(𝐱). The step s starts at 1 and
// is multiplied by β until 𝐱 + s𝐝 is strictly feasible and satisfies
//
//	φₜ(𝐱 + s𝐝) ≤ φₜ(𝐱) + ɑs𝐠ᵀ𝐝
//
// It returns the accepted point and step, or ErrLineSearch once s drops below the minimum step.
func (o *Optimizer) Backtrack(t float64, x, d, g []float64, w *Workspace) (next []float64, step float64, err error) {

	o.check(x, w)
	if len(d) != o.n || len(g) != o.n {
		panic("direction dimension not match problem")
	}
	if !(t > zero) {
		return nil, zero, errors.New("barrier weight must greater than 0")
	}

	copy(w.x, x)
	copy(w.d, d)
	if i := o.slack(w.x, w.s); i >= 0 {
		return nil, zero, fmt.Errorf("%w: constraint %d has slack %g", ErrInfeasible, i, w.s[i])
	}
	w.f = o.value(t, w.x, w.s)

	gd := floats.Dot(g, d)
	if !(gd < zero) {
		// Line search is impossible when the directional derivative ≥ 0.
		return nil, zero, fmt.Errorf("%w: directional derivative %g is not negative", ErrLineSearch, gd)
	}

	var evals int
	step, evals, err = o.backtrack(t, gd, w)
	w.numEval += evals
	if err != nil {
		return nil, zero, err
	}
	return slices.Clone(w.z), step, nil
}

// backtrack searches along w.d from w.x (with value w.f and slack w.s) given 𝐠ᵀ𝐝 < 0.
// On success the accepted point is left in w.z with slack w.sz and value w.fz.
func (o *Optimizer) backtrack(t, gd float64, w *Workspace) (step float64, evals int, err error) {

	alpha, beta, minStep := o.search.Alpha, o.search.Beta, o.search.MinStep

	for step = one; step >= minStep; step *= beta {
		floats.AddScaledTo(w.z, w.x, step, w.d) // 𝐳 = 𝐱 + s𝐝
		evals++
		if o.slack(w.z, w.sz) >= 0 {
			continue // leave the domain of φₜ
		}
		w.fz = o.value(t, w.z, w.sz)
		if w.fz <= w.f+alpha*step*gd {
			return
		}
	}

	err = fmt.Errorf("%w: step %g below minimum %g after %d trials", ErrLineSearch, step, minStep, evals)
	return
}
