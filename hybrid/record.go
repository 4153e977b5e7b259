// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package hybrid

// Bit-field layout of a point record, LSB -> MSB:
//
//	bit 0       isLastBucket
//	bit 1       isLastPoint
//	bits [2,10) bucketLength (8 bits)
//	bits [10,32) pointIndex  (22 bits)
//
// bucketLength == 0 signals an overflowed bucket (more than
// maxNonOverflow points); when that happens the bucketLength fields of
// the fieldsPerOverflowIndex point-records following the header-adjacent
// record encode, little-endian base 2^bitsForBucketLength, the distance
// from the end of the bucket's primary region to its overflow region. Those records still carry real point
// indices; only their bucketLength sub-field is repurposed, which is
// safe because a non-overflowed bucket never has more than
// maxNonOverflow points, so these records would otherwise always read
// bucketLength == 0 in overflow mode anyway.
const (
	bitsForBucketLength = 8
	maxNonOverflow      = 1<<bitsForBucketLength - 1 // 255
	pointIndexBits      = 32 - 2 - bitsForBucketLength
	maxPointIndex        = 1<<pointIndexBits - 1

	// fieldsPerOverflowIndex is how many consecutive bucketLength fields
	// are needed to encode any 32-bit overflow offset in base
	// 2^bitsForBucketLength: ceil(31/bitsForBucketLength).
	fieldsPerOverflowIndex = (31 + bitsForBucketLength - 1) / bitsForBucketLength

	bucketLengthMask = uint32(1<<bitsForBucketLength - 1)
)

// header is a bucket header record: the full 32 bits are the control
// value, nothing is packed.
func header(control uint32) uint32 { return control }

// packRecord builds a point record from its fields.
func packRecord(isLastBucket, isLastPoint bool, bucketLength, pointIndex uint32) uint32 {
	if pointIndex > maxPointIndex {
		panic("hybrid: point index does not fit in the packed record")
	}
	var rec uint32
	if isLastBucket {
		rec |= 1
	}
	if isLastPoint {
		rec |= 1 << 1
	}
	rec |= (bucketLength & bucketLengthMask) << 2
	rec |= pointIndex << (2 + bitsForBucketLength)
	return rec
}

func recordIsLastBucket(rec uint32) bool { return rec&1 != 0 }
func recordIsLastPoint(rec uint32) bool  { return rec&(1<<1) != 0 }
func recordBucketLength(rec uint32) uint32 {
	return (rec >> 2) & bucketLengthMask
}
func recordPointIndex(rec uint32) int32 {
	return int32(rec >> (2 + bitsForBucketLength))
}

// withBucketLength returns rec with its bucketLength sub-field replaced,
// preserving isLastBucket/isLastPoint/pointIndex.
func withBucketLength(rec, bucketLength uint32) uint32 {
	return (rec &^ (bucketLengthMask << 2)) | ((bucketLength & bucketLengthMask) << 2)
}

// withPointAndLast returns rec with isLastPoint and pointIndex replaced,
// preserving isLastBucket and bucketLength (used when a point record's
// bucketLength sub-field was pre-seeded with overflow-offset bits before
// the point itself was known).
func withPointAndLast(rec uint32, isLastPoint bool, pointIndex int32) uint32 {
	rec &^= uint32(1 << 1)
	if isLastPoint {
		rec |= 1 << 1
	}
	rec &^= uint32(maxPointIndex) << (2 + bitsForBucketLength)
	rec |= uint32(pointIndex) << (2 + bitsForBucketLength)
	return rec
}

// encodeOverflowOffset returns the fieldsPerOverflowIndex bucketLength
// values (little-endian base 2^bitsForBucketLength) that, written into the
// bucketLength fields of the records immediately following a bucket's
// header-adjacent record, reconstruct offset.
func encodeOverflowOffset(offset uint32) [fieldsPerOverflowIndex]uint32 {
	var out [fieldsPerOverflowIndex]uint32
	v := offset
	for i := 0; i < fieldsPerOverflowIndex; i++ {
		out[i] = v & bucketLengthMask
		v >>= bitsForBucketLength
	}
	return out
}

// decodeOverflowOffset is the inverse of encodeOverflowOffset.
func decodeOverflowOffset(fields [fieldsPerOverflowIndex]uint32) uint32 {
	var v uint32
	for i := fieldsPerOverflowIndex - 1; i >= 0; i-- {
		v = (v << bitsForBucketLength) | fields[i]
	}
	return v
}
