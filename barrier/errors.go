// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package barrier

import "errors"

var (
	// ErrInfeasibleStart the initial point violates some constraint 𝐀𝐱₀ < 𝐛.
	ErrInfeasibleStart = errors.New("barrier: infeasible start point")
	// ErrInfeasible the barrier objective is undefined at a point with non-positive slack.
	ErrInfeasible = errors.New("barrier: point is not strictly feasible")
	// ErrLineSearch the step length shrinks below the minimum without
	// satisfying feasibility and sufficient decrease.
	ErrLineSearch = errors.New("barrier: line search failure")
	// ErrSingularHessian the Newton system cannot be solved.
	ErrSingularHessian = errors.New("barrier: singular hessian")
)
