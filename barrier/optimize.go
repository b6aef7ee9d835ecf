// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"slices"

	"gonum.org/v1/gonum/mat"
)

// LogLevel controls the frequency and type of logger output
type LogLevel int

const (
	// LogNoop no output is generated (level < 0)
	LogNoop LogLevel = -1
	// LogLast print only the summary after the last outer iteration
	LogLast LogLevel = 0
	// LogOuter print also one line per outer (centering) iteration
	LogOuter LogLevel = 1
	// LogNewton print also one line per Newton step
	LogNewton LogLevel = 2
	// LogVerbose print details of every iteration including x
	LogVerbose LogLevel = 3
)

// Logger handles logging output for the optimizer.
// Note the writers must be thread-safe.
type Logger struct {
	Level LogLevel
	Msg   io.Writer // Writer to output log messages.
	Out   io.Writer // Writer for output data.
}

func (l *Logger) enable(level LogLevel) bool {
	return l.Level >= level
}

func (l *Logger) log(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Msg, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Msg, format)
	}
}

func (l *Logger) out(format string, a ...any) {
	if len(a) > 0 {
		_, _ = fmt.Fprintf(l.Out, format, a...)
	} else {
		_, _ = fmt.Fprint(l.Out, format)
	}
}

// Termination specifies the stopping criteria for the barrier method.
type Termination struct {
	// The accuracy ε used by both stopping rules:
	//   - centering stops when ½λ² ≤ ε (λ is the Newton decrement)
	//   - the outer loop stops when m/t < ε
	Accuracy float64
	// The outer loop stops when the number of centering steps exceeds limit.
	MaxOuterIterations int
	// A centering step stops when the number of Newton steps exceeds limit.
	MaxNewtonIterations int
}

// LineSearch specifies the options for the backtracking line-search.
type LineSearch struct {
	// Sufficient decrease constant: f(𝐱 + s𝚫𝐱) ≤ f(𝐱) + ɑs∇fᵀ𝚫𝐱 (0 < ɑ < ½)
	Alpha float64
	// Step shrink factor: s ← βs (0 < β < 1)
	Beta float64
	// The search fails when the step length falls below this value.
	MinStep float64
}

// Schedule specifies how the barrier weight t grows along the central path.
type Schedule struct {
	// Initial barrier weight t₀ > 0.
	T0 float64
	// Growth factor μ > 1 applied after every centering step.
	// Larger μ means fewer outer iterations but more Newton steps per centering.
	Mu float64
}

// Problem specifies the convex QP for the barrier optimizer:
//
//	minimize   𝐱ᵀ𝐐𝐱 + 𝐩ᵀ𝐱
//	subject to 𝐀𝐱 ≤ 𝐛
//
// Zero valued options are replaced by defaults.
type Problem struct {
	Q      mat.Symmetric // Quadratic term, symmetric positive semi-definite (n × n)
	P      []float64     // Linear term (n)
	A      mat.Matrix    // Optional constraint matrix (m × n)
	B      []float64     // Constraint bound (m)
	Stop   Termination   // Stop condition
	Search LineSearch    // LineSearch option
	Path   Schedule      // Barrier weight schedule
}

// New creates a new barrier optimizer for given problem.
// The problem data is copied, so later changes to it do not affect the optimizer.
func (p *Problem) New(logger *Logger) (optimizer *Optimizer, err error) {

	if logger == nil {
		logger = new(Logger)
		logger.Level = LogNoop
	}
	if logger.Msg == nil {
		logger.Msg = os.Stdout
	}
	if logger.Out == nil {
		logger.Out = os.Stderr
	}

	if p.Q == nil {
		return nil, errors.New("quadratic term is required")
	}

	n, m := p.Q.SymmetricDim(), len(p.B)
	stop, search, path := p.Stop, p.Search, p.Path

	if stop.Accuracy == zero {
		stop.Accuracy = defaultAccuracy
	}
	if stop.MaxOuterIterations == 0 {
		stop.MaxOuterIterations = defaultMaxOuter
	}
	if stop.MaxNewtonIterations == 0 {
		stop.MaxNewtonIterations = defaultMaxNewton
	}
	if search.Alpha == zero {
		search.Alpha = defaultAlpha
	}
	if search.Beta == zero {
		search.Beta = defaultBeta
	}
	if search.MinStep == zero {
		search.MinStep = epsilon
	}
	if path.T0 == zero {
		path.T0 = defaultT0
	}
	if path.Mu == zero {
		path.Mu = defaultMu
	}

	switch {
	case n <= 0:
		err = errors.New("problem dimension must greater than 0")
	case len(p.P) != n:
		err = errors.New("linear term size must equal to n")
	case p.A == nil && m > 0:
		err = errors.New("constraint matrix is required when bound is given")
	case !(stop.Accuracy > zero):
		err = errors.New("accuracy must greater than 0")
	case stop.MaxOuterIterations < 0:
		err = errors.New("max outer iteration must not less than 0")
	case stop.MaxNewtonIterations < 0:
		err = errors.New("max newton iteration must not less than 0")
	case !(search.Alpha > zero && search.Alpha < 0.5):
		err = errors.New("line search alpha must in (0, 0.5)")
	case !(search.Beta > zero && search.Beta < one):
		err = errors.New("line search beta must in (0, 1)")
	case !(search.MinStep > zero && search.MinStep < one):
		err = errors.New("line search min step must in (0, 1)")
	case !(path.T0 > zero) || math.IsInf(path.T0, 0):
		err = errors.New("initial barrier weight must greater than 0")
	case !(path.Mu > one) || math.IsInf(path.Mu, 0):
		err = errors.New("barrier weight growth must greater than 1")
	}

	if err == nil && p.A != nil {
		if r, c := p.A.Dims(); c != n {
			err = errors.New(fmt.Sprintf("constraint matrix has %d columns, want %d", c, n))
		} else if r != m {
			err = errors.New(fmt.Sprintf("constraint matrix has %d rows but bound size is %d", r, m))
		}
	}

	if err != nil {
		return
	}

	q := mat.NewSymDense(n, nil)
	q.CopySym(p.Q)

	var a *mat.Dense
	if m > 0 {
		a = mat.DenseCopyOf(p.A)
	}

	optimizer = &Optimizer{
		barrierSpec{
			n: n, m: m,
			q: q, p: slices.Clone(p.P),
			a: a, b: slices.Clone(p.B),
			stop:   stop,
			search: search,
			path:   path,
			logger: *logger,
		},
	}
	return
}

// Optimizer implemented using the logarithmic barrier method.
type Optimizer struct {
	barrierSpec
}

// Dims returns the number of variables n and constraints m.
func (o *Optimizer) Dims() (n, m int) {
	return o.n, o.m
}

// Workspace contains the state and context of the optimization process.
// Given problem dimension n and constraint number m,
// total work space is approximately float64[n² + 4×n + 2×m] plus the Cholesky factor.
type Workspace struct {
	n, m int
	barrierCtx
}

// Point is one record of the central path trajectory.
type Point struct {
	Newton int       // Cumulative number of Newton steps to reach X.
	T      float64   // Barrier weight X was centered for.
	Gap    float64   // Duality gap bound m/t; for the uncentered initial point only m/t₀, not a bound.
	F      float64   // Objective value 𝐱ᵀ𝐐𝐱 + 𝐩ᵀ𝐱.
	X      []float64 // The iterate.
}

// Result contains the final result of the optimization process.
type Result struct {
	OK         bool      // Whether the duality gap bound fell below the accuracy.
	Warn       bool      // Whether some centering step stopped at the Newton iteration limit.
	F          float64   // Final objective value 𝐱ᵀ𝐐𝐱 + 𝐩ᵀ𝐱.
	X          []float64 // Final solution.
	Dual       []float64 // Dual estimate uᵢ = 1/(t sᵢ) of the constraints.
	T          float64   // Final barrier weight.
	Gap        float64   // Duality gap bound m/t of the final solution.
	Trajectory []Point   // Central path, starting with the initial point.
	Summary              // Optimization summary.
}

// Summary contains a summary of the optimization process.
type Summary struct {
	Status    Status // Final status after optimization.
	NumOuter  int    // Number of centering steps performed.
	NumNewton int    // Number of Newton steps performed.
	NumEval   int    // Number of barrier evaluations made by line-search.
}

// Init allocate the workspace for barrier optimizer.
// To avoid race conditions, separate workspaces need to be created for each goroutine.
// But multiple workspaces could share one optimizer.
func (o *Optimizer) Init() *Workspace {
	w := new(Workspace)
	w.n, w.m = o.n, o.m
	w.init(w.n, w.m)
	return w
}

func (o *Optimizer) check(x []float64, w *Workspace) {
	if len(x) != o.n {
		panic("initial x dimension not match problem")
	}
	if w.n != o.n || w.m != o.m {
		panic("workspace dimension not match problem")
	}
}

// Fit runs the barrier method from the strictly feasible point x using workspace w.
// It fails with ErrInfeasibleStart before any Newton step when 𝐀𝐱 < 𝐛 does not hold.
// Exhausting an iteration limit is not an error, it is reported through Result.Status and Result.Warn.
func (o *Optimizer) Fit(x []float64, w *Workspace) (*Result, error) {

	o.check(x, w)

	w.clear()
	copy(w.x, x)
	if i := o.slack(w.x, w.s); i >= 0 {
		return nil, fmt.Errorf("%w: constraint %d has slack %g", ErrInfeasibleStart, i, w.s[i])
	}

	driver := barrierDriver{
		optimizer: o,
		workspace: w,
	}
	return driver.mainLoop()
}
