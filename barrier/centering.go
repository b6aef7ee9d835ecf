// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Centering contains the result of one centering step.
type Centering struct {
	OK        bool      // Whether ½λ² ≤ ε was reached within the Newton iteration limit.
	F         float64   // Barrier objective φₜ at X.
	X         []float64 // The (approximate) minimizer of φₜ.
	Decrement float64   // Squared Newton decrement λ² at X.
	NumNewton int       // Number of Newton steps performed.
	NumEval   int       // Number of barrier evaluations made by line-search.
}

// Center minimizes the barrier objective φₜ with damped Newton steps starting at
// the strictly feasible point x. Calling it again on a returned point takes no Newton step.
// Reaching the Newton iteration limit is reported by Centering.OK rather than an error.
func (o *Optimizer) Center(t float64, x []float64, w *Workspace) (*Centering, error) {

	o.check(x, w)
	if !(t > zero) {
		return nil, errors.New("barrier weight must greater than 0")
	}

	w.clear()
	copy(w.x, x)
	if i := o.slack(w.x, w.s); i >= 0 {
		return nil, fmt.Errorf("%w: constraint %d has slack %g", ErrInfeasible, i, w.s[i])
	}
	w.t = t
	w.f = o.value(t, w.x, w.s)

	ok, err := o.center(w)
	if err != nil {
		return nil, err
	}
	return &Centering{
		OK:        ok,
		F:         w.f,
		X:         slices.Clone(w.x),
		Decrement: w.lambda2,
		NumNewton: w.newton,
		NumEval:   w.numEval,
	}, nil
}

// center runs Newton's method on φₜ for t = w.t from w.x, whose slack and value are valid.
func (o *Optimizer) center(w *Workspace) (ok bool, err error) {

	t, eps := w.t, o.stop.Accuracy
	log := o.logger

	w.newton = 0
	for {
		if err = o.newtonStep(w); err != nil {
			return false, fmt.Errorf("centering at t=%g: %w", t, err)
		}

		// ½λ² bounds the suboptimality φₜ(𝐱) - 𝚒𝚗𝚏 φₜ for self-concordant φₜ.
		if w.lambda2/two <= eps {
			return true, nil
		}
		if w.newton >= o.stop.MaxNewtonIterations {
			if log.enable(LogOuter) {
				log.log("WARNING: NEWTON ITERATIONS EXCEED LIMIT %d AT t= %12.5e  λ²/2= %12.5e\n",
					o.stop.MaxNewtonIterations, t, w.lambda2/two)
			}
			return false, nil
		}

		step, evals, err := o.backtrack(t, -w.lambda2, w)
		w.numEval += evals
		if err != nil {
			return false, fmt.Errorf("centering at t=%g: %w", t, err)
		}

		w.accept()
		w.step = step
		w.newton++
		w.numNewton++

		if log.enable(LogNewton) {
			log.out(" %6d %6d %12.5e %12.5e %12.5e %5d\n",
				w.numNewton, w.newton, w.f, w.lambda2/two, step, evals)
			if log.enable(LogVerbose) {
				printVec(&log, " X =", w.x)
			}
		}
	}
}

// newtonStep solves ∇²φₜ 𝚫𝐱 = -∇φₜ at w.x into w.d and sets λ² = -∇φₜᵀ𝚫𝐱.
func (o *Optimizer) newtonStep(w *Workspace) error {

	o.gradient(w.t, w.x, w.s, w.g)
	o.hessian(w.t, w.s, w.h)

	if ok := w.chol.Factorize(w.h); !ok {
		return fmt.Errorf("%w: hessian is not positive definite", ErrSingularHessian)
	}
	if c := w.chol.Cond(); math.IsInf(c, 0) || math.IsNaN(c) {
		return fmt.Errorf("%w: condition number %g", ErrSingularHessian, c)
	}

	dv := mat.NewVecDense(o.n, w.d)
	if err := w.chol.SolveVecTo(dv, mat.NewVecDense(o.n, w.g)); err != nil {
		return fmt.Errorf("%w: %v", ErrSingularHessian, err)
	}
	floats.Scale(-one, w.d)

	w.lambda2 = -floats.Dot(w.g, w.d)
	if math.IsNaN(w.lambda2) || math.IsInf(w.lambda2, 0) {
		return fmt.Errorf("%w: newton decrement is not finite", ErrSingularHessian)
	}
	return nil
}

func printVec(log *Logger, name string, x []float64) {
	log.log("%s", name)
	for i, v := range x {
		log.log(" %.2e", v)
		if (i+1)%6 == 0 {
			log.log("\n     ")
		}
	}
	log.log("\n")
}
