// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package linked implements the mutable, chained bucket table described in
// spec.md §4.3 (component C): an array of M slots, each an optional chain
// of Buckets, each bucket an optional chain of point entries. Table
// recycles nodes through a per-table freelist (component B, spec.md §4.2)
// so repeated Clear+rebuild cycles (common during LSH parameter sweeps)
// stay cheap on the allocator.
//
// Table only ever sees already-reduced (slot, control) pairs: reducing a
// Fingerprint to that pair is package uhash's job (component A), not
// Table's. This keeps Table free of any notion of hashing or coefficients,
// which in turn is what lets coefficients be shared across many Tables
// (spec.md §3, "may be shared") without Table needing to know about it.
package linked

import "github.com/dzytan/lshbucket/logger"

// Table is a mutable hash table mapping (slot, control) pairs to chains of
// point ids. It is not safe for concurrent use: spec.md's concurrency
// model is single-threaded cooperative, and Table assumes exclusive
// access for the lifetime of a build.
type Table struct {
	size int
	free freelist

	slots     []*Bucket
	nBuckets  int
	nPoints   int
	allocBkt  int // buckets drawn fresh from the allocator, not the freelist
	allocEnt  int // entries drawn fresh from the allocator, not the freelist
	chainHops int // bucket-to-bucket hops performed across all Insert/Lookup calls

	log logger.Logger
}

// New creates an empty linked table with m slots. log may be nil.
func New(m int, log logger.Logger) *Table {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Table{size: m, slots: make([]*Bucket, m), log: log}
}

// Size returns M, the number of slots.
func (t *Table) Size() int { return t.size }

// NumPoints returns nHashedPoints: the number of Insert calls since the
// table was created or last Cleared.
func (t *Table) NumPoints() int { return t.nPoints }

// NumBuckets returns nHashedBuckets: the number of distinct (slot,
// control) buckets currently live.
func (t *Table) NumBuckets() int { return t.nBuckets }

// Allocs reports how many Bucket and entry nodes have been drawn fresh
// from the allocator (as opposed to recycled from the freelist) over the
// table's whole lifetime, including across Clear calls. This is the
// freelist-effectiveness counter the original C implementation kept as
// process-global nAllocatedGBuckets/nAllocatedBEntries; here it is
// per-table state instead.
func (t *Table) Allocs() (buckets, entries int) { return t.allocBkt, t.allocEnt }

// ChainProbes reports the total number of bucket-to-bucket chain hops
// performed by Insert and Lookup over the table's lifetime, a cheap proxy
// for the original's nBucketsInChains counter.
func (t *Table) ChainProbes() int { return t.chainHops }

// Head returns the head of slot i's bucket chain, or nil if the slot is
// empty. It is used by package hybrid to compile this table.
func (t *Table) Head(i int) *Bucket { return t.slots[i] }

// Insert adds point to the bucket identified by (slot, control), creating
// that bucket if it does not already exist in slot's chain. Distinct
// fingerprints that reduce to the same (slot, control) are silently
// merged into one bucket: this is the documented false-collision
// contribution to LSH's collision probability (spec.md §4.3).
func (t *Table) Insert(slot int, control uint32, point int32) {
	b := t.slots[slot]
	for b != nil && b.control != control {
		b = b.next
		t.chainHops++
	}
	if b == nil {
		nb, recycled := t.free.drawBucket()
		if !recycled {
			t.allocBkt++
		}
		nb.control = control
		nb.first.point = point
		nb.next = t.slots[slot]
		t.slots[slot] = nb
		t.nBuckets++
	} else {
		e, recycled := t.free.drawEntry()
		if !recycled {
			t.allocEnt++
		}
		e.point = point
		e.next = b.extra
		b.extra = e
	}
	t.nPoints++
}

// Lookup returns the bucket in slot's chain whose control value matches,
// or nil if no such bucket exists.
func (t *Table) Lookup(slot int, control uint32) *Bucket {
	b := t.slots[slot]
	for b != nil && b.control != control {
		b = b.next
		t.chainHops++
	}
	return b
}

// Clear returns every live bucket and entry to the freelist and resets
// the slot array and occupancy counters to empty. Allocation counters are
// left untouched: they describe allocator pressure across rebuilds, not
// current occupancy.
func (t *Table) Clear() {
	for i, b := range t.slots {
		for b != nil {
			next := b.next
			t.free.releaseBucket(b)
			b = next
		}
		t.slots[i] = nil
	}
	t.nBuckets = 0
	t.nPoints = 0
}

// Free releases the table's slot array and every live and freelisted node.
// Coefficients are not Table's concern (see package doc); ownership of
// those is handled by package lshtable.
func (t *Table) Free() {
	t.Clear()
	t.free = freelist{}
	t.slots = nil
}
