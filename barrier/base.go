// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	zero = 0.0
	one  = 1.0
	two  = 2.0
)

const (
	defaultAccuracy  = 1e-6
	defaultMaxOuter  = 1000
	defaultMaxNewton = 100
	defaultAlpha     = 0.1
	defaultBeta      = 0.7
	defaultT0        = 1.0
	defaultMu        = 20.0
)

// machine epsilon, also the default minimum line-search step.
var epsilon = math.Nextafter(1, 2) - 1

// Status is the terminal state of the outer barrier loop.
type Status int

const (
	// Converged the duality gap bound m/t fell below the accuracy.
	Converged Status = iota
	// MaxIterationsReached the outer iteration limit was exhausted before convergence.
	MaxIterationsReached
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "CONVERGED: DUALITY GAP BOUND BELOW ACCURACY"
	case MaxIterationsReached:
		return "STOP: TOTAL NO. OF OUTER ITERATIONS EXCEEDS LIMIT"
	}
	return "UNKNOWN"
}

type barrierSpec struct {
	// the number of variables
	n int
	// the number of inequality constraints
	m int
	// quadratic term 𝐐 (n × n)
	q *mat.SymDense
	// linear term 𝐩 (n)
	p []float64
	// constraint matrix 𝐀 (m × n), nil when m = 0
	a *mat.Dense
	// constraint bound 𝐛 (m)
	b []float64

	stop   Termination
	search LineSearch
	path   Schedule
	logger Logger
}

type barrierCtx struct {
	// current barrier weight.
	t float64
	// barrier objective at x.
	f float64
	// barrier objective at the trial point z.
	fz float64
	// squared Newton decrement λ² at x.
	lambda2 float64
	// last accepted step length.
	step float64
	// current iterate and its slack 𝐬 = 𝐛 - 𝐀𝐱.
	x, s []float64
	// trial point and its slack.
	z, sz []float64
	// gradient and Newton direction at x.
	g, d []float64
	// Hessian and its factorization.
	h    *mat.SymDense
	chol mat.Cholesky
	// Newton steps in the current centering.
	newton int
	// total Newton steps and barrier evaluations.
	numNewton, numEval int
}

func (c *barrierCtx) init(n, m int) {
	c.x = make([]float64, n)
	c.z = make([]float64, n)
	c.g = make([]float64, n)
	c.d = make([]float64, n)
	c.s = make([]float64, m)
	c.sz = make([]float64, m)
	c.h = mat.NewSymDense(n, nil)
}

func (c *barrierCtx) clear() {
	c.t, c.f, c.fz = zero, zero, zero
	c.lambda2, c.step = zero, zero
	c.newton, c.numNewton, c.numEval = 0, 0, 0
}

// accept moves the trial point into the current iterate.
func (c *barrierCtx) accept() {
	c.x, c.z = c.z, c.x
	c.s, c.sz = c.sz, c.s
	c.f = c.fz
}
