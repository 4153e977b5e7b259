// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package testutil adapts goarista/test's comparison helpers for
// lshbucket's own tests: bucket lookups return point ids in an
// unspecified but stable order (spec.md §5, "order... is not part of the
// public contract"), so tests need set/multiset comparisons with a
// readable diff on failure rather than reflect.DeepEqual on raw slices.
package testutil

import (
	"sort"
	"testing"

	"github.com/kylelemons/godebug/pretty"
)

// AssertSamePoints fails t with a readable diff unless got and want
// contain the same multiset of point ids, irrespective of order.
func AssertSamePoints(t *testing.T, got, want []int32) {
	t.Helper()
	gs := sortedCopy(got)
	ws := sortedCopy(want)
	if diff := pretty.Compare(gs, ws); diff != "" {
		t.Fatalf("point ids differ (-got +want):\n%s", diff)
	}
}

func sortedCopy(s []int32) []int32 {
	out := append([]int32(nil), s...)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
