// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report renders barrier method trajectories: the duality gap bound
// against the cumulative Newton step count, and a run summary table.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/curioloop/qpbarrier/barrier"
)

// Run is one labelled barrier result.
type Run struct {
	Label  string
	Result *barrier.Result
}

// GapPoints returns the (Newton steps, m/t) pairs of the trajectory.
// Points with a zero gap bound (no constraints) are dropped.
func GapPoints(res *barrier.Result) plotter.XYs {
	xys := make(plotter.XYs, 0, len(res.Trajectory))
	for _, pt := range res.Trajectory {
		if pt.Gap > 0 {
			xys = append(xys, plotter.XY{X: float64(pt.Newton), Y: pt.Gap})
		}
	}
	return xys
}

// GapPlot draws one staircase per run with a logarithmic gap axis.
func GapPlot(runs []Run) (*plot.Plot, error) {

	if len(runs) == 0 {
		return nil, errors.New("report: no run to plot")
	}

	p := plot.New()
	p.Title.Text = "Barrier method convergence"
	p.X.Label.Text = "Newton iterations"
	p.Y.Label.Text = "duality gap bound m/t"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	for i, run := range runs {
		xys := GapPoints(run.Result)
		if len(xys) == 0 {
			return nil, fmt.Errorf("report: run %q has no positive duality gap", run.Label)
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("report: run %q: %w", run.Label, err)
		}
		line.StepStyle = plotter.PostStep
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i)
		p.Add(line)
		p.Legend.Add(run.Label, line)
	}
	p.Legend.Top = true
	return p, nil
}

// SavePlot writes the gap plot to a file, the format follows the extension.
func SavePlot(runs []Run, path string, width, height vg.Length) error {
	p, err := GapPlot(runs)
	if err != nil {
		return err
	}
	return p.Save(width, height, path)
}

// WritePlot writes the gap plot to w in the given format (png, svg, pdf, ...).
func WritePlot(w io.Writer, runs []Run, format string, width, height vg.Length) error {
	p, err := GapPlot(runs)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, format)
	if err != nil {
		return err
	}
	_, err = wt.WriteTo(w)
	return err
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// Table summarises the runs, one row each.
func Table(runs []Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		res := run.Result
		status := "converged"
		if !res.OK {
			status = "max iterations"
		}
		if res.Warn {
			status += " (inexact)"
		}
		rows = append(rows, []string{
			run.Label,
			status,
			strconv.Itoa(res.NumOuter),
			strconv.Itoa(res.NumNewton),
			strconv.FormatFloat(res.Gap, 'e', 2, 64),
			strconv.FormatFloat(res.F, 'g', 8, 64),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("run", "status", "outer", "newton", "gap", "objective").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}
