// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lasso

import (
	"errors"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Synthetic describes a random sparse regression instance 𝐲 = 𝐗𝐰 + 𝛜.
type Synthetic struct {
	Samples  int
	Features int
	// Number of non-zero weights, all features when zero.
	Support int
	// Standard deviation of the noise 𝛜.
	Noise float64
}

// Generate draws a dataset with standard normal features and returns it
// together with the weights used to produce the response.
func (s Synthetic) Generate(src rand.Source) (*Dataset, []float64, error) {

	n, d, k := s.Samples, s.Features, s.Support
	if k == 0 {
		k = d
	}

	switch {
	case n <= 0 || d <= 0:
		return nil, nil, errors.New("dataset dimension must greater than 0")
	case k < 0 || k > d:
		return nil, nil, errors.New("support size must in [0, features]")
	case s.Noise < 0:
		return nil, nil, errors.New("noise must not less than 0")
	}

	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	x := mat.NewDense(n, d, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < d; j++ {
			x.Set(i, j, normal.Rand())
		}
	}

	w := make([]float64, d)
	for _, j := range rand.New(src).Perm(d)[:k] {
		w[j] = normal.Rand()
	}

	y := mat.NewVecDense(n, nil)
	y.MulVec(x, mat.NewVecDense(d, w))
	if s.Noise > 0 {
		noise := distuv.Normal{Mu: 0, Sigma: s.Noise, Src: src}
		for i := 0; i < n; i++ {
			y.SetVec(i, y.AtVec(i)+noise.Rand())
		}
	}

	return &Dataset{X: x, Y: y.RawVector().Data}, w, nil
}
