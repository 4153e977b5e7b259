// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package rndsrc

import (
	"testing"

	"github.com/dzytan/lshbucket/uhash"
)

func TestNextInRange(t *testing.T) {
	s := New(1)
	for i := 0; i < 1000; i++ {
		v := s.Next()
		if v < 1 || v >= uhash.MaxCoefficient {
			t.Fatalf("Next() = %d, want in [1, %d)", v, uhash.MaxCoefficient)
		}
	}
}

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42)
	b := New(42)
	for i := 0; i < 100; i++ {
		if av, bv := a.Next(), b.Next(); av != bv {
			t.Fatalf("sequence diverged at %d: %d != %d", i, av, bv)
		}
	}
}

func TestGenFeedsCoefficients(t *testing.T) {
	s := New(7)
	c := uhash.NewCoefficients(4, s.Gen())
	if len(c.Main) != 4 || len(c.Ctrl) != 4 {
		t.Fatalf("unexpected coefficient vector lengths: %d, %d", len(c.Main), len(c.Ctrl))
	}
}
