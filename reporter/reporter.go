// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package reporter exposes build-time statistics from a compiled bucket
// table (point/bucket/arena counts, whether any bucket overflowed,
// allocator pressure) to
// whichever outside monitoring stack an operator runs, following
// cmd/ocprometheus, cmd/ocsplunk, and influxlib's pattern of one thin
// sink per backend behind a common interface.
package reporter

import "time"

// BuildStats summarizes one table-build cycle: a linked table's lifetime
// up to and including its compaction into a hybrid table.
type BuildStats struct {
	Table string // which table in the fleet this reports on, e.g. "table-3"

	NumPoints      int
	NumBuckets     int
	ArenaWords     int
	AllocBuckets   int
	AllocEntries   int
	ChainProbes    int
	OverflowBucket bool

	BuildDuration time.Duration
}

// Reporter is the common sink interface every backend implements.
type Reporter interface {
	Report(stats BuildStats) error
}

// Multi fans BuildStats out to every Reporter in the list, the way
// ocsplunk/ocprometheus each stand alone today but a fleet build may want
// more than one sink at once. A failure on one sink does not stop the
// others; the first error encountered is returned after all have run.
type Multi []Reporter

// Report reports stats to every sink in m, collecting the first error.
func (m Multi) Report(stats BuildStats) error {
	var firstErr error
	for _, r := range m {
		if err := r.Report(stats); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
