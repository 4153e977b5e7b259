// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package index

import (
	"context"
	"testing"

	"github.com/dzytan/lshbucket/internal/testutil"
	"github.com/dzytan/lshbucket/rndsrc"
	"github.com/dzytan/lshbucket/uhash"
)

func fp(u ...uint32) uhash.Fingerprint { return uhash.Fingerprint{U1: u} }

func TestFleetInsertCompileLookup(t *testing.T) {
	const l, m, d = 8, 101, 4
	coeffs := uhash.NewCoefficients(d, rndsrc.New(1).Gen())
	b := New(l, m, coeffs, false, nil, nil)
	defer b.Free(false)

	fps := make([]uhash.Fingerprint, l)
	for i := range fps {
		fps[i] = fp(1, 2, 3, uint32(i))
	}
	if err := b.Insert(fps, 99); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	compiled, err := b.CompileAll(context.Background())
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	defer func() {
		for _, c := range compiled {
			c.Free(false)
		}
	}()

	got := Lookup(compiled, fps)
	testutil.AssertSamePoints(t, got, []int32{99})
}

func TestFleetManyPointsAtLeastOneTableFinds(t *testing.T) {
	const l, m, d, n = 8, 1013, 4, 2000
	coeffs := uhash.NewCoefficients(d, rndsrc.New(7).Gen())
	b := New(l, m, coeffs, false, nil, nil)
	defer b.Free(false)

	src := rndsrc.New(123)
	allFps := make([][]uhash.Fingerprint, n)
	for i := 0; i < n; i++ {
		fps := make([]uhash.Fingerprint, l)
		for j := 0; j < l; j++ {
			fps[j] = fp(src.Next(), src.Next(), src.Next(), src.Next())
		}
		allFps[i] = fps
		if err := b.Insert(fps, int32(i)); err != nil {
			t.Fatalf("Insert %d: %v", i, err)
		}
	}

	compiled, err := b.WithMaxConcurrentCompiles(4).CompileAll(context.Background())
	if err != nil {
		t.Fatalf("CompileAll: %v", err)
	}
	defer func() {
		for _, c := range compiled {
			c.Free(false)
		}
	}()

	for i := 0; i < n; i++ {
		got := Lookup(compiled, allFps[i])
		found := false
		for _, id := range got {
			if id == int32(i) {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("point %d not found in any of the %d tables", i, l)
		}
	}
}
