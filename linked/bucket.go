// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package linked

// entry is one point-id node in a bucket's entry chain, beyond the first.
// Entries are prepended right after the inline first entry, so among them
// the most recently inserted point is scanned first.
type entry struct {
	point int32
	next  *entry
}

// Bucket is one mutable bucket in a slot's chain: a control value that
// disambiguates fingerprints sharing the slot, an inline first entry, and
// an optional link to the next bucket in the same slot's chain. Buckets
// are prepended to their slot's chain, so the last-inserted bucket is
// probed first.
type Bucket struct {
	control uint32
	first   entry
	extra   *entry
	next    *Bucket
}

// Control returns the bucket's control value.
func (b *Bucket) Control() uint32 {
	return b.control
}

// Next returns the next bucket in this slot's chain, or nil if b is last.
func (b *Bucket) Next() *Bucket {
	return b.next
}

// Len reports how many points are hashed into b, including the inline
// first entry.
func (b *Bucket) Len() int {
	n := 1
	for e := b.extra; e != nil; e = e.next {
		n++
	}
	return n
}

// AppendPoints appends every point id in b to dst and returns the extended
// slice: first the inline entry (the point that created the bucket), then
// the remaining points, most-recently-inserted first.
func (b *Bucket) AppendPoints(dst []int32) []int32 {
	dst = append(dst, b.first.point)
	for e := b.extra; e != nil; e = e.next {
		dst = append(dst, e.point)
	}
	return dst
}
