// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package index

import (
	"github.com/dzytan/lshbucket/lshtable"
	"github.com/dzytan/lshbucket/uhash"
)

// Lookup unions the bucket-stream results of every table in compiled
// against its corresponding fingerprint in fps, de-duplicating point ids:
// spec.md §8 scenario 6 only guarantees an inserted (g, id) is found in
// at least one of the L tables, so a caller querying the whole fleet
// needs the union, not any single table's result.
func Lookup(compiled []*lshtable.Table, fps []uhash.Fingerprint) []int32 {
	seen := make(map[int32]struct{})
	var out []int32
	for i, t := range compiled {
		s, ok := t.Lookup(fps[i])
		if !ok {
			continue
		}
		for {
			id, ok := s.Next()
			if !ok {
				break
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
