// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"

	"github.com/spf13/cobra"
	"gonum.org/v1/plot/vg"

	"github.com/curioloop/qpbarrier/barrier"
	"github.com/curioloop/qpbarrier/lasso"
	"github.com/curioloop/qpbarrier/report"
)

type lassoFlags struct {
	samples  int
	features int
	support  int
	noise    float64
	lambda   float64
	seed     uint64
	eps      float64
	mus      []float64
	plot     string
}

func newLassoCmd(root *rootFlags) *cobra.Command {
	flags := &lassoFlags{}

	cmd := &cobra.Command{
		Use:   "lasso",
		Short: "Solve the dual of a random LASSO regression for several growth factors",
		Long: `Draw a random sparse regression problem, solve the dual QP of its LASSO
fit once per --mu value and report the duality gap against Newton iterations.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(flags.mus) == 0 {
				return errors.New("at least one --mu is required")
			}
			syn := lasso.Synthetic{
				Samples:  flags.samples,
				Features: flags.features,
				Support:  flags.support,
				Noise:    flags.noise,
			}
			ds, _, err := syn.Generate(rand.NewPCG(flags.seed, flags.seed))
			if err != nil {
				return err
			}

			runs := make([]report.Run, 0, len(flags.mus))
			for _, mu := range flags.mus {
				solver := lasso.Solver{
					Stop:   barrier.Termination{Accuracy: flags.eps},
					Path:   barrier.Schedule{Mu: mu},
					Logger: root.solverLogger(cmd),
				}
				fit, err := solver.Solve(ds, flags.lambda)
				if err != nil {
					slog.Error("lasso solve failed", "mu", mu, "error", err)
					return err
				}
				slog.Info("lasso solved", "mu", mu,
					"outer", fit.Result.NumOuter, "newton", fit.Result.NumNewton,
					"primal", fit.Primal, "gap", fit.Gap())
				runs = append(runs, report.Run{
					Label:  "mu=" + strconv.FormatFloat(mu, 'g', -1, 64),
					Result: fit.Result,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.Table(runs))

			if flags.plot != "" {
				if err := report.SavePlot(runs, flags.plot, 6*vg.Inch, 4*vg.Inch); err != nil {
					return fmt.Errorf("save plot: %w", err)
				}
				slog.Info("plot written", "path", flags.plot)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&flags.samples, "samples", 100, "number of samples")
	f.IntVar(&flags.features, "features", 20, "number of features")
	f.IntVar(&flags.support, "support", 5, "number of non-zero true weights")
	f.Float64Var(&flags.noise, "noise", 0.1, "response noise standard deviation")
	f.Float64Var(&flags.lambda, "lambda", 10, "l1 regularization weight")
	f.Uint64Var(&flags.seed, "seed", 1, "random seed")
	f.Float64Var(&flags.eps, "eps", 1e-6, "solver accuracy")
	f.Float64SliceVar(&flags.mus, "mu", []float64{2, 15, 50, 150}, "barrier weight growth factors")
	f.StringVar(&flags.plot, "plot", "", "write the duality gap plot to this file (png, svg, pdf)")
	return cmd
}
