// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command qpbarrier solves convex quadratic programs with the barrier method.
//
//	qpbarrier solve problem.yaml
//	qpbarrier lasso --samples 100 --features 20 --lambda 5 --mu 2,10,50 --plot gap.png
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
