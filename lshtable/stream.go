// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package lshtable

import (
	"github.com/dzytan/lshbucket/hybrid"
	"github.com/dzytan/lshbucket/linked"
)

// Stream is the bucket-stream spec.md §4.5/§6 exposes to the re-ranker:
// a representation-agnostic view over whichever of the two bucket kinds
// produced it, so callers that only ever look up point ids never need to
// know which Kind backs the Table they queried. The zero Stream is empty.
type Stream struct {
	hy *hybrid.Stream

	lk     []int32 // every point id in the bucket, linked.Bucket.AppendPoints order
	lkNext int
}

// Next returns the next point id in the stream, or ok == false once
// exhausted.
func (s *Stream) Next() (id int32, ok bool) {
	if s.hy != nil {
		return s.hy.Next()
	}
	if s.lkNext >= len(s.lk) {
		return 0, false
	}
	id = s.lk[s.lkNext]
	s.lkNext++
	return id, true
}

// Collect drains the stream into dst, appending every point id.
func (s *Stream) Collect(dst []int32) []int32 {
	if s.hy != nil {
		return s.hy.Collect(dst)
	}
	return append(dst, s.lk[s.lkNext:]...)
}

func newLinkedStream(b *linked.Bucket) Stream {
	return Stream{lk: b.AppendPoints(nil)}
}

func newHybridStream(s hybrid.Stream) Stream {
	return Stream{hy: &s}
}
