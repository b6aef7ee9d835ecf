// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import (
	"slices"
)

// barrierDriver follows the central path 𝐱*(t) while t grows geometrically.
type barrierDriver struct {
	optimizer *Optimizer
	workspace *Workspace
}

// gap returns the duality gap bound m/t of a centered point.
func (d *barrierDriver) gap() float64 {
	return float64(d.optimizer.m) / d.workspace.t
}

// record appends the current iterate to the trajectory.
func (d *barrierDriver) record(path []Point) []Point {
	o, w := d.optimizer, d.workspace
	return append(path, Point{
		Newton: w.numNewton,
		T:      w.t,
		Gap:    d.gap(),
		F:      o.Objective(w.x),
		X:      slices.Clone(w.x),
	})
}

// mainLoop alternates centering and weight updates:
//
//	repeat
//	    𝐱 ← 𝐱*(t) by centering from 𝐱
//	    stop if m/t < ε
//	    t ← μt
func (d *barrierDriver) mainLoop() (*Result, error) {

	o, w := d.optimizer, d.workspace
	log := o.logger

	w.t = o.path.T0
	w.f = o.value(w.t, w.x, w.s)

	d.printInit()

	path := d.record(nil)
	status := MaxIterationsReached
	warn := false
	outer := 0

	for outer < o.stop.MaxOuterIterations {

		ok, err := o.center(w)
		if err != nil {
			if log.enable(LogLast) {
				log.log("ERROR: %v\n", err)
			}
			return nil, err
		}
		outer++
		warn = warn || !ok

		path = d.record(path)
		d.printOuter(outer)

		if d.gap() < o.stop.Accuracy {
			status = Converged
			break
		}
		if outer == o.stop.MaxOuterIterations {
			break
		}

		w.t *= o.path.Mu
		w.f = o.value(w.t, w.x, w.s)
	}

	dual := make([]float64, o.m)
	for i, si := range w.s {
		dual[i] = one / (w.t * si)
	}

	res := &Result{
		OK:         status == Converged,
		Warn:       warn,
		F:          o.Objective(w.x),
		X:          slices.Clone(w.x),
		Dual:       dual,
		T:          w.t,
		Gap:        d.gap(),
		Trajectory: path,
		Summary: Summary{
			Status:    status,
			NumOuter:  outer,
			NumNewton: w.numNewton,
			NumEval:   w.numEval,
		},
	}

	d.printExit(res)
	return res, nil
}

func (d *barrierDriver) printInit() {

	o, w := d.optimizer, d.workspace
	log := o.logger

	if log.enable(LogLast) {
		log.log("RUNNING THE BARRIER METHOD\n")
		log.log("           * * *\n")
		log.log("Machine precision = %10.3e\n", epsilon)
		log.log("N = %d    M = %d    t0 = %10.3e    mu = %10.3e\n", o.n, o.m, o.path.T0, o.path.Mu)

		if log.enable(LogOuter) {
			log.out("\n  outer   newton       t          gap            f\n")
			if log.enable(LogNewton) {
				log.out("  total   inner      phi        lambda²/2       step    ls\n")
			}
			if log.enable(LogVerbose) {
				printVec(&log, "\nX0 =", w.x)
			}
		}
	}
}

func (d *barrierDriver) printOuter(outer int) {

	o, w := d.optimizer, d.workspace
	log := o.logger

	if log.enable(LogOuter) {
		log.out(" %6d %6d %12.5e %12.5e %12.5e\n", outer, w.numNewton, w.t, d.gap(), o.Objective(w.x))
	}
}

func (d *barrierDriver) printExit(res *Result) {

	log := d.optimizer.logger
	if !log.enable(LogLast) {
		return
	}

	log.log("\n           * * *\n")
	log.log("Tout  = total number of centering steps\n")
	log.log("Tnt   = total number of Newton steps\n")
	log.log("Tnf   = total number of line-search evaluations\n")
	log.log("Gap   = duality gap bound m/t\n")
	log.log("F     = final function value\n")
	log.log("\n           * * *\n")
	log.log("\n   N   M   Tout    Tnt    Tnf      Gap           F\n")
	log.log("%4d %3d %6d %6d %6d %9.2e %12.5e\n",
		d.optimizer.n, d.optimizer.m, res.NumOuter, res.NumNewton, res.NumEval, res.Gap, res.F)

	if log.enable(LogVerbose) {
		printVec(&log, "\n X =", res.X)
	}

	log.log("\n%v\n", res.Status)
	if res.Warn {
		log.log("WARNING: SOME CENTERING STEP DID NOT REACH THE REQUIRED ACCURACY\n")
	}
}
