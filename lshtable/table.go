// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package lshtable implements the table façade described in spec.md §4.5
// (component E): a tagged variant over the two bucket-table
// representations, linked (package linked) and hybrid (package hybrid),
// that dispatches insert/lookup/clear/free and refuses operations the
// active kind does not support. It also owns the uhash.Hasher that
// reduces fingerprints to the (slot, control) pairs the bucket tables
// operate on, optionally sharing coefficients across many Tables the way
// spec.md §3 allows.
package lshtable

import (
	"fmt"

	"github.com/dzytan/lshbucket/hybrid"
	"github.com/dzytan/lshbucket/linked"
	"github.com/dzytan/lshbucket/logger"
	"github.com/dzytan/lshbucket/uhash"
)

// Kind selects the bucket-table representation a Table wraps.
type Kind int

const (
	// Linked is the mutable, insertable, chained representation.
	Linked Kind = iota
	// Hybrid is the compiled, read-only, compacted representation.
	Hybrid
)

func (k Kind) String() string {
	switch k {
	case Linked:
		return "linked"
	case Hybrid:
		return "hybrid"
	default:
		return fmt.Sprintf("lshtable.Kind(%d)", int(k))
	}
}

// Table is the façade spec.md §4.5 describes: newTable/insert/lookup/
// clear/free dispatched over whichever of linked.Table or hybrid.Table is
// currently active, refusing operations the active kind does not
// support. NewLinked creates a Linked-kind Table; NewHybridFromLinked
// compiles one into a separate Hybrid-kind Table, on which Insert and
// Clear are refused.
type Table struct {
	kind Kind

	hasher *uhash.Hasher

	lk *linked.Table
	hy *hybrid.Table

	log logger.Logger
}

// NewLinked creates a new Linked-kind Table over m slots, using coeffs to
// reduce fingerprints. coeffs may be owned outright or borrowed and
// shared with other Tables (spec.md §5's resource policy); pass the
// matching alsoFreeCoefficients to Free accordingly. log may be nil.
func NewLinked(m int, coeffs *uhash.Coefficients, twoPiece bool, log logger.Logger) *Table {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Table{
		kind:   Linked,
		hasher: uhash.NewHasher(coeffs, m, twoPiece),
		lk:     linked.New(m, log),
		log:    log,
	}
}

// Kind reports the table's current representation.
func (t *Table) Kind() Kind { return t.kind }

// Size returns M, the table's slot count.
func (t *Table) Size() int { return t.hasher.TableM }

// NumPoints returns the number of points hashed into the table.
func (t *Table) NumPoints() int {
	if t.kind == Hybrid {
		return t.hy.NumPoints()
	}
	return t.lk.NumPoints()
}

// NumBuckets returns the number of distinct buckets in the table.
func (t *Table) NumBuckets() int {
	if t.kind == Hybrid {
		return t.hy.NumBuckets()
	}
	return t.lk.NumBuckets()
}

// Allocs reports the Linked table's freelist-effectiveness counters; it
// is 0, 0 on a Hybrid-kind Table, which has no freelist.
func (t *Table) Allocs() (buckets, entries int) {
	if t.kind != Linked {
		return 0, 0
	}
	return t.lk.Allocs()
}

// ChainProbes reports the Linked table's cumulative chain-hop counter; it
// is 0 on a Hybrid-kind Table.
func (t *Table) ChainProbes() int {
	if t.kind != Linked {
		return 0
	}
	return t.lk.ChainProbes()
}

// ArenaLen returns the compiled arena's length in 32-bit words; it is 0
// on a Linked-kind Table, which has no arena.
func (t *Table) ArenaLen() int {
	if t.kind != Hybrid {
		return 0
	}
	return t.hy.ArenaLen()
}

// HasOverflowBucket reports whether the compiled hybrid table has at
// least one overflowed bucket; it is false on a Linked-kind Table.
func (t *Table) HasOverflowBucket() bool {
	if t.kind != Hybrid {
		return false
	}
	return t.hy.HasOverflowBucket()
}

// Insert reduces fp and inserts point into the underlying linked table.
// It is a usage error (spec.md §7) to call Insert on a Hybrid-kind Table.
func (t *Table) Insert(fp uhash.Fingerprint, point int32) error {
	if t.kind != Linked {
		return fmt.Errorf("lshtable: Insert is not valid on a %s table", t.kind)
	}
	slot, control := t.hasher.HashOnDemand(fp)
	t.lk.Insert(slot, control, point)
	return nil
}

// InsertPrecomputed is Insert's precomputed-hash-mode counterpart: it
// reduces (u1, u2) via the Hasher's shared coefficients instead of
// recomputing dot products from fp.
func (t *Table) InsertPrecomputed(u1, u2 uhash.PrecomputedHash, point int32) error {
	if t.kind != Linked {
		return fmt.Errorf("lshtable: Insert is not valid on a %s table", t.kind)
	}
	slot, control := t.hasher.HashPrecomputed(u1, u2)
	t.lk.Insert(slot, control, point)
	return nil
}

// Lookup reduces fp and returns the bucket-stream of point ids sharing
// its (slot, control) image, dispatching to whichever representation is
// active. ok is false on a miss; empty lookups are success, per spec.md
// §7.
func (t *Table) Lookup(fp uhash.Fingerprint) (Stream, bool) {
	slot, control := t.hasher.HashOnDemand(fp)
	return t.lookupSlotControl(slot, control)
}

// LookupPrecomputed is Lookup's precomputed-hash-mode counterpart.
func (t *Table) LookupPrecomputed(u1, u2 uhash.PrecomputedHash) (Stream, bool) {
	slot, control := t.hasher.HashPrecomputed(u1, u2)
	return t.lookupSlotControl(slot, control)
}

func (t *Table) lookupSlotControl(slot int, control uint32) (Stream, bool) {
	switch t.kind {
	case Linked:
		b := t.lk.Lookup(slot, control)
		if b == nil {
			return Stream{}, false
		}
		return newLinkedStream(b), true
	case Hybrid:
		s, ok := t.hy.Lookup(slot, control)
		if !ok {
			return Stream{}, false
		}
		return newHybridStream(s), true
	default:
		panic("lshtable: unreachable table kind")
	}
}

// Clear resets the underlying linked table to empty, returning its nodes
// to the per-table freelist. It is a usage error to call Clear on a
// Hybrid-kind Table.
func (t *Table) Clear() error {
	if t.kind != Linked {
		return fmt.Errorf("lshtable: Clear is not valid on a %s table", t.kind)
	}
	t.lk.Clear()
	return nil
}

// NewHybridFromLinked compiles src's current contents into a new,
// independent Hybrid-kind Table, per spec.md §4.5's newTable(kind, M, D,
// sharedCoeffs?, modelLinked?) with kind = Hybrid. src is read, not
// mutated or taken ownership of (spec.md §8 property 2 and scenario 5):
// the caller may go on inserting into, clearing, and rebuilding src, or
// Free it, independently of the returned Table. The Hybrid Table shares
// src's Hasher, so coefficient ownership follows whichever of the two
// Tables' Free(alsoFreeCoefficients) is called with true; calling it on
// both is a usage error the caller must avoid.
func NewHybridFromLinked(src *Table) (*Table, error) {
	if src.kind != Linked {
		return nil, fmt.Errorf("lshtable: NewHybridFromLinked requires a %s model table, got %s", Linked, src.kind)
	}
	hy, err := hybrid.Compile(src.lk)
	if err != nil {
		return nil, err
	}
	return &Table{kind: Hybrid, hasher: src.hasher, hy: hy, log: src.log}, nil
}

// Free releases every resource the table owns: the linked freelist and
// slots, or the hybrid arena, whichever is active. If alsoFreeCoefficients
// is true, the Hasher's coefficient vectors are dropped too; pass false
// when Coeffs is borrowed and owned by another Table or the caller
// (spec.md §5's borrowed-coefficients resource policy).
func (t *Table) Free(alsoFreeCoefficients bool) {
	switch t.kind {
	case Linked:
		if t.lk != nil {
			t.lk.Free()
			t.lk = nil
		}
	case Hybrid:
		if t.hy != nil {
			t.hy.Free()
			t.hy = nil
		}
	}
	if alsoFreeCoefficients && t.hasher != nil {
		t.hasher.Coeffs = nil
	}
}
