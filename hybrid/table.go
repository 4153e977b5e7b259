// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

// Package hybrid implements the read-optimized, densely packed flat-array
// bucket table described in spec.md §4.4 (component D): a slot-indexed
// array of chain heads into a single contiguous arena of bit-packed
// records, built once from a fully populated linked.Table and immutable
// thereafter.
package hybrid

import "github.com/dzytan/lshbucket/linked"

// Table is the compiled, read-only counterpart of linked.Table. It shares
// no storage with the table it was compiled from and may be queried from
// multiple goroutines concurrently, since nothing about it ever mutates
// after Compile returns.
type Table struct {
	m         int
	head      []int32 // length m; index into arena, or -1 if the slot is empty
	arena     []uint32
	freeArena func()

	nPoints     int
	nBuckets    int
	hadOverflow bool
}

// Compile builds a Table from src, src's universal-hash slot count, and
// does not modify or clear src (spec.md §8 property 2 and the original
// source's treatment of its "model" table as read-only input).
func Compile(src *linked.Table) (*Table, error) {
	n := src.NumPoints() + src.NumBuckets()
	arena, free, err := newArena(n)
	if err != nil {
		return nil, err
	}

	t := &Table{
		m:         src.Size(),
		head:      make([]int32, src.Size()),
		arena:     arena,
		freeArena: free,
		nPoints:   src.NumPoints(),
		nBuckets:  src.NumBuckets(),
	}

	f := 0       // forward cursor
	tail := n - 1 // tail (overflow) cursor

	for i := 0; i < src.Size(); i++ {
		b := src.Head(i)
		if b == nil {
			t.head[i] = -1
			continue
		}
		t.head[i] = int32(f)

		for b != nil {
			entries := b.AppendPoints(nil)
			k := len(entries)
			isLastBucketInChain := b.Next() == nil
			overflow := k > maxNonOverflow
			if overflow {
				t.hadOverflow = true
			}

			arena[f] = header(b.Control())
			f++

			base := f // index of the header-adjacent (first) point record
			var bucketLenField uint32
			if !overflow {
				bucketLenField = uint32(k)
			}
			arena[f] = packRecord(isLastBucketInChain, k == 1, bucketLenField, uint32(entries[0]))
			f++

			switch {
			case !overflow:
				writeIdx := f
				f += k - 1
				for idx := 1; idx < k; idx++ {
					last := idx == k-1
					arena[writeIdx] = packRecord(false, last, 0, uint32(entries[idx]))
					writeIdx++
				}
			default:
				nOverflow := k - maxNonOverflow
				overflowStart := tail - nOverflow + 1
				tail = overflowStart - 1

				value := uint32(overflowStart - base - maxNonOverflow)
				fields := encodeOverflowOffset(value)

				primaryStart := f
				f += maxNonOverflow - 1
				for j := 0; j < fieldsPerOverflowIndex; j++ {
					arena[primaryStart+j] = withBucketLength(arena[primaryStart+j], fields[j])
				}

				writeIdx := primaryStart
				overflowIdx := overflowStart
				for idx := 1; idx < k; idx++ {
					last := idx == k-1
					if writeIdx < primaryStart+maxNonOverflow-1 {
						arena[writeIdx] = withPointAndLast(arena[writeIdx], last, entries[idx])
						writeIdx++
					} else {
						arena[overflowIdx] = packRecord(false, last, 0, uint32(entries[idx]))
						overflowIdx++
					}
				}
			}

			b = b.Next()
		}
	}

	if f != tail+1 {
		t.Free()
		return nil, errArenaNotPacked(f, tail, n)
	}
	return t, nil
}

// NumPoints returns the number of points the table was compiled with.
func (t *Table) NumPoints() int { return t.nPoints }

// NumBuckets returns the number of distinct buckets the table was
// compiled with.
func (t *Table) NumBuckets() int { return t.nBuckets }

// ArenaLen returns the arena's length in 32-bit words.
func (t *Table) ArenaLen() int { return len(t.arena) }

// HasOverflowBucket reports whether compiling this table produced at
// least one bucket whose occupancy exceeded maxNonOverflow.
func (t *Table) HasOverflowBucket() bool { return t.hadOverflow }

// Free releases the arena. The Table must not be used afterwards.
func (t *Table) Free() {
	if t.freeArena != nil {
		t.freeArena()
		t.freeArena = nil
	}
	t.arena = nil
	t.head = nil
}

// Lookup returns the point-record Stream for the bucket identified by
// (slot, control), per spec.md §4.4. ok is false on a miss.
func (t *Table) Lookup(slot int, control uint32) (Stream, bool) {
	idx := t.head[slot]
	if idx < 0 {
		return Stream{}, false
	}
	for {
		if t.arena[idx] == control {
			return newStream(t.arena, int(idx)+1), true
		}
		adj := t.arena[idx+1]
		if recordIsLastBucket(adj) {
			return Stream{}, false
		}
		length := recordBucketLength(adj)
		if length == 0 {
			length = maxNonOverflow
		}
		idx += 1 + int32(length)
	}
}
