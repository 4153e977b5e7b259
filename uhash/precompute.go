// Copyright (c) 2024 The lshbucket Authors.
// Use of this source code is governed by the Apache License 2.0
// that can be found in the COPYING file.

package uhash

// Channel indexes into a PrecomputedHash. The "main" channel reduces to a
// table slot, the "control" channel disambiguates fingerprints that land
// in the same slot. NumberOfHashes spaces a u-function's channels apart so
// a second u-function's contribution can be added without colliding with
// the first's.
const (
	MainIndex      = 0
	CtrlIndex      = 1
	NumberOfHashes = 2
)

// PrecomputedHash holds the four dot products needed to assemble a g-hash
// from one u-vector without re-walking the coefficient arrays: main and
// control products against the coefficients (against their first half when
// the u-vector is one half of a two-piece fingerprint), and, in that
// two-piece case only, the same two products against the second half.
type PrecomputedHash [4]uint32

// Precompute computes the products a single u-vector contributes towards
// a g-hash, for a given pair of full-length (main, ctrl) coefficient
// vectors shared across every table that uses this u-function. len(u)
// must be len(main) (single-piece u-function) or len(main)/2 (the u-vector
// is one half of a two-piece g-function); in the latter case all four
// entries are filled, in the former only MainIndex and CtrlIndex are (the
// remaining two are left zero, matching the +NumberOfHashes slots a
// second, distinct u-vector would occupy).
func Precompute(main, ctrl, u []uint32) PrecomputedHash {
	var out PrecomputedHash
	switch {
	case len(u) == len(main):
		out[MainIndex] = uint32(dotMod(0, main, u))
		out[CtrlIndex] = uint32(dotMod(0, ctrl, u))
	case 2*len(u) == len(main):
		out[MainIndex] = uint32(dotMod(0, main[:len(u)], u))
		out[CtrlIndex] = uint32(dotMod(0, ctrl[:len(u)], u))
		out[MainIndex+NumberOfHashes] = uint32(dotMod(0, main[len(u):], u))
		out[CtrlIndex+NumberOfHashes] = uint32(dotMod(0, ctrl[len(u):], u))
	default:
		panic("uhash: u-vector length matches neither the full nor the half coefficient length")
	}
	return out
}

// CombinePrecomputed assembles a g-hash channel (MainIndex or CtrlIndex)
// from one or two precomputed u-vectors. For a single-piece g-function,
// u1 already holds the full g-hash at index; u2 is ignored. For a
// two-piece g-function, the two u-functions' contributions are summed mod
// Prime, with u2's contribution read from its +NumberOfHashes slot.
func CombinePrecomputed(u1, u2 PrecomputedHash, index int, twoPiece bool) uint32 {
	if !twoPiece {
		h := u1[index]
		if h > uint32(Prime) {
			// Dead under the invariant that every stored value is already
			// < Prime; kept only as a defensive no-op (see spec Open Questions).
			h -= uint32(Prime)
		}
		return h
	}
	r := uint64(u1[index]) + uint64(u2[index+NumberOfHashes])
	if r >= Prime {
		r -= Prime
	}
	return uint32(r)
}

// Hasher reduces a Fingerprint to the (slot, control) pair a table needs,
// either by computing the dot products on demand from owned coefficients,
// or by combining hash values precomputed once and shared across every
// table using the same coefficients (the "precomputed-hash mode" of
// spec.md §3). A Hasher is safe for concurrent read-only use once built.
type Hasher struct {
	Coeffs   *Coefficients
	TableM   int
	TwoPiece bool
}

// NewHasher builds a Hasher over coeffs for a table of size m.
func NewHasher(coeffs *Coefficients, m int, twoPiece bool) *Hasher {
	return &Hasher{Coeffs: coeffs, TableM: m, TwoPiece: twoPiece}
}

// HashOnDemand computes (slot, control) directly from fp using the
// Hasher's coefficients, with no precomputation.
func (h *Hasher) HashOnDemand(fp Fingerprint) (slot int, control uint32) {
	main := FingerprintToPair(h.Coeffs.Main, fp)
	ctrl := FingerprintToPair(h.Coeffs.Ctrl, fp)
	return SlotOf(main, h.TableM), ctrl
}

// HashPrecomputed computes (slot, control) from one or two precomputed
// u-vectors previously produced by Precompute against h.Coeffs.
func (h *Hasher) HashPrecomputed(u1, u2 PrecomputedHash) (slot int, control uint32) {
	main := CombinePrecomputed(u1, u2, MainIndex, h.TwoPiece)
	ctrl := CombinePrecomputed(u1, u2, CtrlIndex, h.TwoPiece)
	return SlotOf(main, h.TableM), ctrl
}
