// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package index builds and queries a fleet of L independent LSH tables
// (spec.md §8 scenario 6) on top of package lshtable's façade, compiling
// the whole fleet from linked to hybrid concurrently. The concurrency
// pattern is grounded on gnmireverse/client's errgroup.WithContext fan-out
// and goarista/sync/semaphore's bounded-concurrency gate.
package index

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/dzytan/lshbucket/lshtable"
	"github.com/dzytan/lshbucket/logger"
	"github.com/dzytan/lshbucket/reporter"
	"github.com/dzytan/lshbucket/uhash"
)

// Builder owns L linked.Table-backed façades sharing one set of
// coefficients (the "shared coefficients" mode of spec.md §3). The hybrid
// tables CompileAll produces belong to the caller, not to the Builder.
type Builder struct {
	tables []*lshtable.Table
	coeffs *uhash.Coefficients

	log logger.Logger
	rep reporter.Reporter

	// maxConcurrentCompiles bounds how many tables CompileAll compiles
	// at once; 0 means unbounded.
	maxConcurrentCompiles int64
}

// New creates a Builder with l independent linked tables of size m over
// shared coefficients coeffs. log and rep may be nil.
func New(l, m int, coeffs *uhash.Coefficients, twoPiece bool, log logger.Logger, rep reporter.Reporter) *Builder {
	if log == nil {
		log = logger.NoOp{}
	}
	b := &Builder{coeffs: coeffs, log: log, rep: rep}
	for i := 0; i < l; i++ {
		b.tables = append(b.tables, lshtable.NewLinked(m, coeffs, twoPiece, log))
	}
	return b
}

// WithMaxConcurrentCompiles bounds CompileAll's concurrency to n tables at
// once, following goarista/sync/semaphore's weighted-gate pattern; n <= 0
// means unbounded.
func (b *Builder) WithMaxConcurrentCompiles(n int64) *Builder {
	b.maxConcurrentCompiles = n
	return b
}

// NumTables returns L.
func (b *Builder) NumTables() int { return len(b.tables) }

// Insert inserts point into every table in the fleet under its own
// per-table fingerprint. fps must have exactly NumTables() entries.
func (b *Builder) Insert(fps []uhash.Fingerprint, point int32) error {
	for i, fp := range fps {
		if err := b.tables[i].Insert(fp, point); err != nil {
			return err
		}
	}
	return nil
}

// CompileAll compiles every table in the fleet to Hybrid concurrently,
// bounded by WithMaxConcurrentCompiles, and reports build stats for each
// if a Reporter was configured. It returns the first error encountered,
// per errgroup.WithContext's fail-fast convention
// (gnmireverse/client/client.go's streamResponses): the error cancels the
// group's context, which stops compiles still waiting for a concurrency
// slot; compiles already running finish, and every table compiled so far
// is freed before CompileAll returns.
func (b *Builder) CompileAll(ctx context.Context) ([]*lshtable.Table, error) {
	g, ctx := errgroup.WithContext(ctx)

	var sem *semaphore.Weighted
	if b.maxConcurrentCompiles > 0 {
		sem = semaphore.NewWeighted(b.maxConcurrentCompiles)
	}

	compiled := make([]*lshtable.Table, len(b.tables))
	for i, t := range b.tables {
		i, t := i, t
		g.Go(func() error {
			if sem != nil {
				if err := sem.Acquire(ctx, 1); err != nil {
					return err
				}
				defer sem.Release(1)
			}
			start := time.Now()
			hy, err := lshtable.NewHybridFromLinked(t)
			if err != nil {
				return err
			}
			compiled[i] = hy
			if b.rep != nil {
				_ = b.rep.Report(buildStats(i, t, hy, time.Since(start)))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		for _, hy := range compiled {
			if hy != nil {
				hy.Free(false)
			}
		}
		return nil, err
	}
	return compiled, nil
}

// Free releases every linked table the Builder owns. alsoFreeCoefficients
// is forwarded to the last table's Free call only, since the coefficients
// are shared across all of them.
func (b *Builder) Free(alsoFreeCoefficients bool) {
	for i, t := range b.tables {
		t.Free(alsoFreeCoefficients && i == len(b.tables)-1)
	}
}
