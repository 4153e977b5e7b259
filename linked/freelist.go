// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package linked

// freelist recycles *Bucket and *entry nodes across successive Clear +
// rebuild cycles, which is common when sweeping LSH parameters over the
// same point stream. Freelists are never shared across tables: each
// Table owns exactly one.
type freelist struct {
	buckets *Bucket
	entries *entry
}

// drawBucket pops a recycled bucket, or allocates a fresh one if the
// freelist is empty. recycled reports which happened, for allocator
// pressure accounting.
func (f *freelist) drawBucket() (b *Bucket, recycled bool) {
	if f.buckets == nil {
		return &Bucket{}, false
	}
	b = f.buckets
	f.buckets = b.next
	*b = Bucket{}
	return b, true
}

// drawEntry pops a recycled entry, or allocates a fresh one if the
// freelist is empty. recycled reports which happened.
func (f *freelist) drawEntry() (e *entry, recycled bool) {
	if f.entries == nil {
		return &entry{}, false
	}
	e = f.entries
	f.entries = e.next
	*e = entry{}
	return e, true
}

// releaseBucket returns b and every entry in its extra chain to the
// freelists. b.next is not followed; callers walk chains themselves.
func (f *freelist) releaseBucket(b *Bucket) {
	e := b.extra
	for e != nil {
		n := e.next
		e.next = f.entries
		f.entries = e
		e = n
	}
	b.next = f.buckets
	f.buckets = b
}
