// Package keccakx4 batches four independent, unshared Keccak-f[1600]
// permutations for the verifier's fast paths (WOTS+ chain completion, FORS
// leaf hashing), which never touch masked secret material and so gain
// nothing from sharing — only from batching.
//
// Adapted from the interleave/de-interleave batching pattern of
// cloudflare/circl's keccakf1600 package and of this module's own teacher's
// internal/f1600x4, but without the AVX2 assembly kernel those carry: no
// hand-authored stub can stand in for real vectorised lane arithmetic, so
// this batches by calling the scalar permutation four times — still useful
// as the seam where a future SIMD kernel would slot in.
package keccakx4

import "golang.org/x/sys/cpu"

// Available reports whether the host supports AVX2, the instruction set a
// vectorised four-way Keccak-f[1600] kernel would target. This package has
// no such kernel; Available is exposed for parity with the teacher's
// f1600x4.Available and so callers can log which path ran.
var Available = cpu.X86.HasAVX2

// PermuteX4 runs the unshared Keccak-f[1600] permutation on each of four
// 25-lane states, in place.
func PermuteX4(states [4]*[25]uint64, permute func(*[25]uint64)) {
	for _, s := range states {
		permute(s)
	}
}
