// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curioloop/qpbarrier/report"
)

func newSolveCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "solve FILE",
		Short: "Solve the QP described by a YAML file",
		Long: `Solve minimize xᵀQx + pᵀx subject to Ax ≤ b from the strictly feasible point x0.

The YAML file holds the keys q, p, a, b and x0 (matrices as lists of rows)
and an optional options section: eps, mu, t0, alpha, beta, min_step,
max_outer and max_newton.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			pf, err := loadProblem(file)
			if err != nil {
				return err
			}
			p, err := pf.problem()
			if err != nil {
				return err
			}

			o, err := p.New(root.solverLogger(cmd))
			if err != nil {
				return fmt.Errorf("invalid problem: %w", err)
			}
			n, m := o.Dims()
			if len(pf.X0) != n {
				return fmt.Errorf("x0 has %d entries, want %d", len(pf.X0), n)
			}
			slog.Info("solving", "file", args[0], "variables", n, "constraints", m)

			res, err := o.Fit(pf.X0, o.Init())
			if err != nil {
				slog.Error("solve failed", "error", err)
				return err
			}
			if !res.OK {
				slog.Warn("outer iteration limit reached", "gap", res.Gap)
			}
			if res.Warn {
				slog.Warn("some centering step stopped at the newton iteration limit")
			}
			slog.Info("solved", "status", res.Status.String(), "outer", res.NumOuter, "newton", res.NumNewton)

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.Table([]report.Run{{Label: args[0], Result: res}}))
			fmt.Fprintf(out, "x = [%s]\n", formatVec(res.X))
			return nil
		},
	}
}

func formatVec(x []float64) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = strconv.FormatFloat(v, 'g', 10, 64)
	}
	return strings.Join(parts, ", ")
}
