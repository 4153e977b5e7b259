// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package hybrid

import "fmt"

// errArenaNotPacked reports a violation of spec.md §8 property 3 (arena
// packing): this indicates a bug in Compile, not a user error, and is
// fatal per spec.md §7's "invariant violation" error kind.
func errArenaNotPacked(forward, tail, n int) error {
	return fmt.Errorf("hybrid: arena not fully packed: forward cursor %d, tail cursor %d, arena length %d", forward, tail, n)
}
