// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// The unconstrained minimizer (1, 1) lies on the boundary of the box.
func TestBoxConstrained(t *testing.T) {

	p := boxProblem(1)
	s, e := p.New(nil)
	if e != nil {
		panic(e)
	}
	w := s.Init()
	r, e := s.Fit([]float64{0, 0}, w)
	if e != nil {
		t.Fatal(e)
	}

	wantX := []float64{1, 1}
	wantF := -1.0

	switch {
	case !r.OK || r.Status != Converged:
		t.Fatal("TestBoxConstrained: Not Converge")
	case r.Warn:
		t.Fatal("TestBoxConstrained: Inexact Centering")
	case r.F-wantF > r.Gap+p.Stop.Accuracy:
		t.Fatal("TestBoxConstrained: Object Too Large")
	case !almostEqual(r.X, wantX, 1e-3):
		t.Fatal("TestBoxConstrained: Bad Solution")
	case !strictlyFeasible(p, r.X):
		t.Fatal("TestBoxConstrained: Solution On Boundary")
	case r.NumOuter != 8:
		t.Fatalf("TestBoxConstrained: %d Outer Iterations", r.NumOuter)
	}

	require.Less(t, r.Gap, p.Stop.Accuracy)
	require.InDelta(t, 1e7, r.T, 1e-3)
}

func TestLooseConstraints(t *testing.T) {

	p := boxProblem(100)
	s, err := p.New(nil)
	require.NoError(t, err)

	r, err := s.Fit([]float64{0, 0}, s.Init())
	require.NoError(t, err)
	require.True(t, r.OK)
	require.True(t, almostEqual(r.X, []float64{1, 1}, 1e-6), "x=%v", r.X)
	require.InDelta(t, -1.0, r.F, 1e-6)
}

// A larger μ trades outer iterations for Newton steps per centering. On this
// box the total Newton count still drops: μ=2 takes 23 outer / 66 Newton steps,
// μ=100 takes 5 outer / 25 Newton steps.
func TestGrowthTradeoff(t *testing.T) {

	run := func(mu float64) *Result {
		p := boxProblem(1)
		p.Path.Mu = mu
		s, err := p.New(nil)
		require.NoError(t, err)
		r, err := s.Fit([]float64{0, 0}, s.Init())
		require.NoError(t, err)
		require.True(t, r.OK, "mu=%g", mu)
		return r
	}

	slow, fast := run(2), run(100)

	require.Less(t, fast.NumOuter, slow.NumOuter)
	require.Greater(t,
		float64(fast.NumNewton)/float64(fast.NumOuter),
		float64(slow.NumNewton)/float64(slow.NumOuter))

	// both follow the same path to the same point
	require.True(t, almostEqual(slow.X, fast.X, 1e-3))
}

func TestInfeasibleStart(t *testing.T) {

	s, err := boxProblem(1).New(nil)
	require.NoError(t, err)
	w := s.Init()

	r, err := s.Fit([]float64{2, 2}, w)
	require.Nil(t, r)
	require.True(t, errors.Is(err, ErrInfeasibleStart), "err=%v", err)
	require.Equal(t, 0, w.numNewton)
	require.Equal(t, 0, w.numEval)

	// boundary points are not strictly feasible either
	_, err = s.Fit([]float64{1, 0}, w)
	require.True(t, errors.Is(err, ErrInfeasibleStart), "err=%v", err)
}

func TestTrajectory(t *testing.T) {

	p := boxProblem(1)
	p.Path.Mu = 4
	s, err := p.New(nil)
	require.NoError(t, err)

	x0 := []float64{0.3, -0.6}
	r, err := s.Fit(x0, s.Init())
	require.NoError(t, err)
	require.True(t, r.OK)

	path := r.Trajectory
	require.Len(t, path, r.NumOuter+1)
	require.Equal(t, x0, path[0].X)
	require.Equal(t, 0, path[0].Newton)
	require.Equal(t, 4.0, path[0].Gap)
	require.Equal(t, r.X, path[len(path)-1].X)
	require.Equal(t, r.NumNewton, path[len(path)-1].Newton)

	// the first centering runs at t₀ like the initial point
	require.Equal(t, path[0].T, path[1].T)
	require.Equal(t, path[0].Gap, path[1].Gap)
	require.GreaterOrEqual(t, path[1].Newton, path[0].Newton)
	for k := 2; k < len(path); k++ {
		require.Less(t, path[k].Gap, path[k-1].Gap, "gap must strictly decrease")
		require.GreaterOrEqual(t, path[k].Newton, path[k-1].Newton)
		require.InDelta(t, path[k-1].T*p.Path.Mu, path[k].T, 1e-9*path[k].T)
	}
	for k, pt := range path {
		require.True(t, strictlyFeasible(p, pt.X), "point %d leaves the interior", k)
		require.InDelta(t, s.Objective(pt.X), pt.F, 1e-15)
	}

	// at most ⌈log_μ(m/(t₀ε))⌉ weight updates
	bound := int(math.Ceil(math.Log(4/1e-6) / math.Log(p.Path.Mu)))
	require.LessOrEqual(t, r.NumOuter, bound+1)
}

// Every accepted Newton iterate stays in the interior. With one Newton step per
// Center call the iterates of a whole run can be inspected one by one.
func TestMonotonicFeasibility(t *testing.T) {

	p := boxProblem(1)
	p.Stop.MaxNewtonIterations = 1
	s, err := p.New(nil)
	require.NoError(t, err)
	w := s.Init()

	x := []float64{-0.5, 0.5}
	steps := 0
	for tw := 1.0; 4/tw >= p.Stop.Accuracy; tw *= p.Path.Mu {
		for {
			c, err := s.Center(tw, x, w)
			require.NoError(t, err)
			require.LessOrEqual(t, c.NumNewton, 1)
			require.True(t, strictlyFeasible(p, c.X), "iterate %v leaves the interior at t=%g", c.X, tw)
			steps += c.NumNewton
			x = c.X
			if c.OK {
				break
			}
		}
	}
	require.Greater(t, steps, 0)
	require.True(t, almostEqual(x, []float64{1, 1}, 1e-2), "x=%v", x)
}

func TestLoggerAndDual(t *testing.T) {

	p := boxProblem(1)
	var msg, out bytes.Buffer
	s, err := p.New(&Logger{Level: LogVerbose, Msg: &msg, Out: &out})
	require.NoError(t, err)

	r, err := s.Fit([]float64{-0.5, 0.5}, s.Init())
	require.NoError(t, err)
	require.True(t, r.OK)

	// one row per Newton step and per centering step plus the headers
	rows := strings.Count(out.String(), "\n")
	require.GreaterOrEqual(t, rows, r.NumNewton+r.NumOuter)
	require.Contains(t, msg.String(), "RUNNING THE BARRIER METHOD")
	require.Contains(t, msg.String(), r.Status.String())

	// dual estimate uᵢsᵢ = 1/t on the central path
	e, err := s.Evaluate(r.T, r.X)
	require.NoError(t, err)
	for i, u := range r.Dual {
		require.Greater(t, u, 0.0)
		require.InDelta(t, 1/r.T, u*e.S[i], 1e-18)
	}
}

func TestMaxOuterIterations(t *testing.T) {

	p := boxProblem(1)
	p.Stop.MaxOuterIterations = 2
	s, err := p.New(nil)
	require.NoError(t, err)

	r, err := s.Fit([]float64{0, 0}, s.Init())
	require.NoError(t, err)
	require.False(t, r.OK)
	require.Equal(t, MaxIterationsReached, r.Status)
	require.Equal(t, 2, r.NumOuter)
	require.Len(t, r.Trajectory, 3)
	require.Equal(t, 10.0, r.T)
	require.InDelta(t, 0.4, r.Gap, 1e-15)
	require.True(t, strictlyFeasible(p, r.X))
}

func TestNewtonLimitWarns(t *testing.T) {

	p := boxProblem(1)
	p.Stop.MaxNewtonIterations = 1
	p.Stop.MaxOuterIterations = 3
	s, err := p.New(nil)
	require.NoError(t, err)

	r, err := s.Fit([]float64{0, 0}, s.Init())
	require.NoError(t, err)
	require.True(t, r.Warn)
	require.Equal(t, 3, r.NumOuter)
	require.LessOrEqual(t, r.NumNewton, 3)
}

func TestUnconstrained(t *testing.T) {

	p := Problem{
		Q: mat.NewSymDense(2, []float64{
			2, 0,
			0, 1,
		}),
		P: []float64{-4, 2},
	}
	s, err := p.New(nil)
	require.NoError(t, err)

	r, err := s.Fit([]float64{5, 5}, s.Init())
	require.NoError(t, err)
	require.True(t, r.OK)
	require.Equal(t, 1, r.NumOuter)
	require.Zero(t, r.Gap)
	require.Empty(t, r.Dual)
	require.True(t, almostEqual(r.X, []float64{1, -1}, 1e-6), "x=%v", r.X)
}

func TestWorkspaceReuse(t *testing.T) {

	s, err := boxProblem(1).New(nil)
	require.NoError(t, err)
	w := s.Init()

	r1, err := s.Fit([]float64{0.5, 0.5}, w)
	require.NoError(t, err)
	r2, err := s.Fit([]float64{0.5, 0.5}, w)
	require.NoError(t, err)

	require.Equal(t, r1.X, r2.X)
	require.Equal(t, r1.Summary, r2.Summary)
}

func TestProblemNotMutated(t *testing.T) {

	p := boxProblem(1)
	s, err := p.New(nil)
	require.NoError(t, err)

	p.B[0] = -5
	p.P[0] = 7

	r, err := s.Fit([]float64{0, 0}, s.Init())
	require.NoError(t, err)
	require.True(t, almostEqual(r.X, []float64{1, 1}, 1e-3))
}

func TestProblemValidation(t *testing.T) {

	valid := func() *Problem { return boxProblem(1) }

	cases := []struct {
		name   string
		modify func(p *Problem)
	}{
		{"missing Q", func(p *Problem) { p.Q = nil }},
		{"linear size", func(p *Problem) { p.P = []float64{1} }},
		{"missing A", func(p *Problem) { p.A = nil }},
		{"A columns", func(p *Problem) { p.A = mat.NewDense(4, 3, nil) }},
		{"A rows", func(p *Problem) { p.B = p.B[:3] }},
		{"accuracy", func(p *Problem) { p.Stop.Accuracy = -1 }},
		{"max outer", func(p *Problem) { p.Stop.MaxOuterIterations = -1 }},
		{"max newton", func(p *Problem) { p.Stop.MaxNewtonIterations = -2 }},
		{"alpha", func(p *Problem) { p.Search.Alpha = 0.5 }},
		{"beta", func(p *Problem) { p.Search.Beta = 1 }},
		{"min step", func(p *Problem) { p.Search.MinStep = -1e-3 }},
		{"t0", func(p *Problem) { p.Path.T0 = -1 }},
		{"mu", func(p *Problem) { p.Path.Mu = 1 }},
		{"mu nan", func(p *Problem) { p.Path.Mu = math.NaN() }},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := valid()
			c.modify(p)
			s, err := p.New(nil)
			require.Error(t, err)
			require.Nil(t, s)
		})
	}

	s, err := valid().New(nil)
	require.NoError(t, err)
	require.Equal(t, defaultAlpha, s.search.Alpha)
	require.Equal(t, defaultBeta, s.search.Beta)
	require.Equal(t, epsilon, s.search.MinStep)
	require.Equal(t, defaultT0, s.path.T0)
	require.Equal(t, defaultMaxOuter, s.stop.MaxOuterIterations)
	require.Equal(t, defaultMaxNewton, s.stop.MaxNewtonIterations)
	n, m := s.Dims()
	require.Equal(t, 2, n)
	require.Equal(t, 4, m)
}
