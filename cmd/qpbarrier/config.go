// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/curioloop/qpbarrier/barrier"
)

// Options mirrors the barrier solver configuration, zero meaning default.
type Options struct {
	Eps       float64 `yaml:"eps" validate:"gte=0"`
	Mu        float64 `yaml:"mu" validate:"omitempty,gt=1"`
	T0        float64 `yaml:"t0" validate:"gte=0"`
	Alpha     float64 `yaml:"alpha" validate:"omitempty,gt=0,lt=0.5"`
	Beta      float64 `yaml:"beta" validate:"omitempty,gt=0,lt=1"`
	MinStep   float64 `yaml:"min_step" validate:"omitempty,gt=0,lt=1"`
	MaxOuter  int     `yaml:"max_outer" validate:"gte=0"`
	MaxNewton int     `yaml:"max_newton" validate:"gte=0"`
}

// apply copies the options into a problem.
func (o Options) apply(p *barrier.Problem) {
	p.Stop = barrier.Termination{
		Accuracy:            o.Eps,
		MaxOuterIterations:  o.MaxOuter,
		MaxNewtonIterations: o.MaxNewton,
	}
	p.Search = barrier.LineSearch{
		Alpha:   o.Alpha,
		Beta:    o.Beta,
		MinStep: o.MinStep,
	}
	p.Path = barrier.Schedule{
		T0: o.T0,
		Mu: o.Mu,
	}
}

// ProblemFile is the YAML layout of a QP with its starting point.
// Matrices are lists of rows.
type ProblemFile struct {
	Q       [][]float64 `yaml:"q" validate:"required,min=1,dive,min=1"`
	P       []float64   `yaml:"p" validate:"required,min=1"`
	A       [][]float64 `yaml:"a" validate:"omitempty,dive,min=1"`
	B       []float64   `yaml:"b"`
	X0      []float64   `yaml:"x0" validate:"required,min=1"`
	Options Options     `yaml:"options"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// loadProblem decodes and validates a problem file.
func loadProblem(r io.Reader) (*ProblemFile, error) {
	var f ProblemFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode problem: %w", err)
	}
	if err := validate.Struct(&f); err != nil {
		return nil, fmt.Errorf("invalid problem: %w", err)
	}
	return &f, nil
}

// dense converts rows into a matrix, rejecting ragged input.
func dense(name string, rows [][]float64) (*mat.Dense, error) {
	r, c := len(rows), len(rows[0])
	data := make([]float64, 0, r*c)
	for i, row := range rows {
		if len(row) != c {
			return nil, fmt.Errorf("%s row %d has %d columns, want %d", name, i, len(row), c)
		}
		data = append(data, row...)
	}
	return mat.NewDense(r, c, data), nil
}

// problem builds the barrier problem described by the file.
func (f *ProblemFile) problem() (*barrier.Problem, error) {

	q, err := dense("q", f.Q)
	if err != nil {
		return nil, err
	}
	if r, c := q.Dims(); r != c {
		return nil, fmt.Errorf("q is %d×%d, want a square matrix", r, c)
	}
	if !mat.Equal(q, q.T()) {
		return nil, errors.New("q is not symmetric")
	}
	n, _ := q.Dims()
	qs := mat.NewSymDense(n, q.RawMatrix().Data)

	p := &barrier.Problem{Q: qs, P: f.P, B: f.B}
	if len(f.A) > 0 {
		if p.A, err = dense("a", f.A); err != nil {
			return nil, err
		}
	}
	f.Options.apply(p)
	return p, nil
}
