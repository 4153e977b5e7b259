// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

//go:build !linux

package hybrid

// newArena is the portable fallback for platforms without an anonymous
// mmap syscall wired up: a plain GC-managed slice. Semantically
// identical to the linux mmap-backed arena; see arena_linux.go.
func newArena(n int) (data []uint32, free func(), err error) {
	return make([]uint32, n), func() {}, nil
}
