// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import (
	"math"
	"reflect"

	"gonum.org/v1/gonum/mat"
)

func almostEqual[T float64 | []float64](a, b T, tol float64) bool {
	equalWithinAbs := func(a, b float64) bool {
		return a == b || math.Abs(a-b) <= tol
	}
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Float64:
		return equalWithinAbs(any(a).(float64), any(b).(float64))
	case reflect.Slice:
		a, b := any(a).([]float64), any(b).([]float64)
		if len(a) != len(b) {
			return false
		}
		for i, a := range a {
			if !equalWithinAbs(a, b[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// boxProblem builds min ½‖𝐱‖² - 𝟏ᵀ𝐱 subject to |xᵢ| ≤ r in two dimensions.
func boxProblem(r float64) *Problem {
	return &Problem{
		Q: mat.NewSymDense(2, []float64{
			0.5, 0,
			0, 0.5,
		}),
		P: []float64{-1, -1},
		A: mat.NewDense(4, 2, []float64{
			1, 0,
			0, 1,
			-1, 0,
			0, -1,
		}),
		B: []float64{r, r, r, r},
		Stop: Termination{
			Accuracy: 1e-6,
		},
		Path: Schedule{
			Mu: 10,
		},
	}
}

// strictlyFeasible reports whether 𝐀𝐱 < 𝐛 holds component-wise.
func strictlyFeasible(p *Problem, x []float64) bool {
	r, _ := p.A.Dims()
	ax := mat.NewVecDense(r, nil)
	ax.MulVec(p.A, mat.NewVecDense(len(x), x))
	for i := 0; i < r; i++ {
		if !(ax.AtVec(i) < p.B[i]) {
			return false
		}
	}
	return true
}
