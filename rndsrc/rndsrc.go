// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package rndsrc provides the default coefficient generator that
// uhash.NewCoefficients expects: a source of uniform uint32s in
// [1, uhash.MaxCoefficient). It is grounded on goarista/hash's use of
// golang.org/x/exp/rand (rather than math/rand) for its map hash seed.
package rndsrc

import (
	"golang.org/x/exp/rand"

	"github.com/dzytan/lshbucket/uhash"
)

// Source draws coefficients uniformly from [1, uhash.MaxCoefficient). It
// wraps a *rand.Rand so callers can seed it deterministically for
// reproducible index builds, or share one Source's Next across every
// coefficient vector a process draws.
type Source struct {
	r *rand.Rand
}

// New returns a Source seeded from seed. Two Sources built from the same
// seed draw the same sequence of coefficients.
func New(seed uint64) *Source {
	return &Source{r: rand.New(rand.NewSource(seed))}
}

// Next returns the next coefficient in [1, uhash.MaxCoefficient).
func (s *Source) Next() uint32 {
	return 1 + uint32(s.r.Int63n(uhash.MaxCoefficient-1))
}

// Gen returns a func() uint32 bound to s, suitable as the gen argument to
// uhash.NewCoefficients.
func (s *Source) Gen() func() uint32 {
	return s.Next
}
