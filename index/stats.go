// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package index

import (
	"fmt"
	"time"

	"github.com/dzytan/lshbucket/lshtable"
	"github.com/dzytan/lshbucket/reporter"
)

func buildStats(tableIndex int, src, hy *lshtable.Table, d time.Duration) reporter.BuildStats {
	allocBkt, allocEnt := src.Allocs()
	return reporter.BuildStats{
		Table:          fmt.Sprintf("table-%d", tableIndex),
		NumPoints:      hy.NumPoints(),
		NumBuckets:     hy.NumBuckets(),
		ArenaWords:     hy.ArenaLen(),
		AllocBuckets:   allocBkt,
		AllocEntries:   allocEnt,
		ChainProbes:    src.ChainProbes(),
		OverflowBucket: hy.HasOverflowBucket(),
		BuildDuration:  d,
	}
}
