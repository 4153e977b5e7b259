// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package lshtable

import (
	"testing"

	"github.com/dzytan/lshbucket/internal/testutil"
	"github.com/dzytan/lshbucket/uhash"
)

func fp(u ...uint32) uhash.Fingerprint { return uhash.Fingerprint{U1: u} }

func collect(t *testing.T, s Stream) []int32 {
	t.Helper()
	return s.Collect(nil)
}

// TestScenarioOne reproduces spec.md §8 scenario 1 through the façade.
func TestScenarioOne(t *testing.T) {
	coeffs := &uhash.Coefficients{Main: []uint32{1, 2, 3, 4}, Ctrl: []uint32{5, 6, 7, 8}}
	tbl := NewLinked(7, coeffs, false, nil)
	defer tbl.Free(false)

	mustInsert := func(x []uint32, id int32) {
		t.Helper()
		if err := tbl.Insert(fp(x...), id); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	mustInsert([]uint32{1, 0, 0, 0}, 10)
	mustInsert([]uint32{1, 0, 0, 0}, 11)
	mustInsert([]uint32{0, 1, 0, 0}, 12)

	hy, err := NewHybridFromLinked(tbl)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	defer hy.Free(false)

	s, ok := hy.Lookup(fp(1, 0, 0, 0))
	if !ok {
		t.Fatal("lookup([1,0,0,0]) missed")
	}
	testutil.AssertSamePoints(t, collect(t, s), []int32{10, 11})

	s, ok = hy.Lookup(fp(0, 1, 0, 0))
	if !ok {
		t.Fatal("lookup([0,1,0,0]) missed")
	}
	testutil.AssertSamePoints(t, collect(t, s), []int32{12})

	if _, ok := hy.Lookup(fp(0, 0, 1, 0)); ok {
		t.Fatal("lookup([0,0,1,0]) should miss")
	}
}

func TestFalseCollisionMerge(t *testing.T) {
	coeffs := &uhash.Coefficients{Main: []uint32{1, 2, 3, 4}, Ctrl: []uint32{5, 6, 7, 8}}
	tbl := NewLinked(7, coeffs, false, nil)
	defer tbl.Free(false)

	xa := []uint32{1, 0, 0, 0}
	// A distinct fingerprint with the same (slot, control) image: 1+Prime
	// reduces to 1 mod Prime in both channels.
	xb := []uint32{1 + uint32(uhash.Prime), 0, 0, 0}
	if err := tbl.Insert(fp(xa...), 1); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Insert(fp(xb...), 2); err != nil {
		t.Fatal(err)
	}

	s, ok := tbl.Lookup(fp(xa...))
	if !ok {
		t.Fatal("lookup(xa) missed")
	}
	testutil.AssertSamePoints(t, collect(t, s), []int32{1, 2})
}

func TestTwoPieceHashModeEquivalence(t *testing.T) {
	main := []uint32{1, 2, 3, 4}
	ctrl := []uint32{9, 8, 7, 6}
	coeffs := &uhash.Coefficients{Main: main, Ctrl: ctrl}

	onDemand := NewLinked(101, coeffs, true, nil)
	defer onDemand.Free(false)
	precomp := NewLinked(101, coeffs, true, nil)
	defer precomp.Free(false)

	g := uhash.Fingerprint{U1: []uint32{1, 2}, U2: []uint32{3, 4}, TwoPiece: true}
	if err := onDemand.Insert(g, 77); err != nil {
		t.Fatal(err)
	}

	u1 := uhash.Precompute(main, ctrl, g.U1)
	u2 := uhash.Precompute(main, ctrl, g.U2)
	if err := precomp.InsertPrecomputed(u1, u2, 77); err != nil {
		t.Fatal(err)
	}

	sOD, ok := onDemand.Lookup(g)
	if !ok {
		t.Fatal("on-demand lookup missed")
	}
	sPC, ok := precomp.LookupPrecomputed(u1, u2)
	if !ok {
		t.Fatal("precomputed lookup missed")
	}
	testutil.AssertSamePoints(t, collect(t, sOD), collect(t, sPC))
}

func TestUsageErrorsRefused(t *testing.T) {
	coeffs := &uhash.Coefficients{Main: []uint32{1, 2, 3, 4}, Ctrl: []uint32{5, 6, 7, 8}}
	tbl := NewLinked(7, coeffs, false, nil)
	if err := tbl.Insert(fp(1, 0, 0, 0), 1); err != nil {
		t.Fatal(err)
	}
	hy, err := NewHybridFromLinked(tbl)
	if err != nil {
		t.Fatalf("NewHybridFromLinked: %v", err)
	}
	defer hy.Free(false)
	defer tbl.Free(false)

	if err := hy.Insert(fp(1, 0, 0, 0), 2); err == nil {
		t.Fatal("Insert on a hybrid table should be refused")
	}
	if err := hy.Clear(); err == nil {
		t.Fatal("Clear on a hybrid table should be refused")
	}
	if _, err := NewHybridFromLinked(hy); err == nil {
		t.Fatal("NewHybridFromLinked on a hybrid model table should be refused")
	}
}

func TestClearRebuildIndependenceFromCompiledHybrid(t *testing.T) {
	coeffs := &uhash.Coefficients{Main: []uint32{1, 2, 3, 4}, Ctrl: []uint32{5, 6, 7, 8}}
	tbl := NewLinked(7, coeffs, false, nil)
	defer tbl.Free(false)

	if err := tbl.Insert(fp(1, 0, 0, 0), 10); err != nil {
		t.Fatal(err)
	}
	hy, err := NewHybridFromLinked(tbl)
	if err != nil {
		t.Fatal(err)
	}
	defer hy.Free(false)

	if err := tbl.Clear(); err != nil {
		t.Fatal(err)
	}
	if err := tbl.Insert(fp(0, 1, 0, 0), 20); err != nil {
		t.Fatal(err)
	}

	s, ok := hy.Lookup(fp(1, 0, 0, 0))
	if !ok {
		t.Fatal("compiled hybrid table should still answer its original lookup")
	}
	testutil.AssertSamePoints(t, collect(t, s), []int32{10})

	if _, ok := hy.Lookup(fp(0, 1, 0, 0)); ok {
		t.Fatal("compiled hybrid table must not observe the rebuilt linked table's new data")
	}
}
