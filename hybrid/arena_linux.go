// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

//go:build linux

package hybrid

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// newArena allocates the hybrid table's point-record arena as one
// contiguous anonymous mmap rather than a GC-managed slice: spec.md §5
// calls the arena "one contiguous allocation of known size", and for the
// large, long-lived, append-only-during-build tables an LSH index builds,
// taking that allocation off the garbage collector's heap avoids scanning
// millions of point records that never contain pointers.
func newArena(n int) (data []uint32, free func(), err error) {
	if n == 0 {
		return nil, func() {}, nil
	}
	buf, err := unix.Mmap(-1, 0, n*4, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, nil, err
	}
	ptr := unsafe.Pointer(&buf[0])
	data = unsafe.Slice((*uint32)(ptr), n)
	freed := false
	free = func() {
		if freed {
			return
		}
		freed = true
		_ = unix.Munmap(buf)
	}
	return data, free, nil
}
