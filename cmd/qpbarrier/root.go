// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/curioloop/qpbarrier/barrier"
)

type rootFlags struct {
	logLevel string
	trace    int
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:          "qpbarrier",
		Short:        "Solve convex quadratic programs with the logarithmic barrier method",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var level slog.Level
			if err := level.UnmarshalText([]byte(strings.ToUpper(flags.logLevel))); err != nil {
				return fmt.Errorf("invalid --log-level %q", flags.logLevel)
			}
			handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
			slog.SetDefault(slog.New(handler))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	cmd.PersistentFlags().IntVar(&flags.trace, "trace", int(barrier.LogNoop),
		"solver trace level: -1 none, 0 summary, 1 outer steps, 2 newton steps, 3 verbose")

	cmd.AddCommand(newSolveCmd(flags))
	cmd.AddCommand(newLassoCmd(flags))
	return cmd
}

// solverLogger routes the solver trace to the command's stderr.
func (f *rootFlags) solverLogger(cmd *cobra.Command) *barrier.Logger {
	return &barrier.Logger{
		Level: barrier.LogLevel(f.trace),
		Msg:   cmd.ErrOrStderr(),
		Out:   cmd.ErrOrStderr(),
	}
}
