// Package masked implements a first-order side-channel-masked Keccak-f[1600]
// permutation and the SHAKE-256-based primitives built on top of it: the F /
// chain-state evaluator used inside a Winternitz chain or a FORS leaf, and the
// 4-ary PRF tree used to derive WOTS+ and FORS secret material.
//
// Secret state is carried as a 3-share additive (XOR) mask: a logical 64-bit
// lane x is represented as three lanes x0, x1, x2 with x = x0 ^ x1 ^ x2. None
// of the individual shares alone reveals the logical value under a first-order
// probe, provided at least two of them were drawn independently at random.
package masked

// rc holds the 24 round constants of Keccak-f[1600], indexed by round number.
var rc = [24]uint64{
	0x0000000000000001, 0x0000000000008082, 0x800000000000808A, 0x8000000080008000,
	0x000000000000808B, 0x0000000080000001, 0x8000000080008081, 0x8000000000008009,
	0x000000000000008A, 0x0000000000000088, 0x0000000080008009, 0x000000008000000A,
	0x000000008000808B, 0x800000000000008B, 0x8000000000008089, 0x8000000000008003,
	0x8000000000008002, 0x8000000000000080, 0x000000000000800A, 0x800000008000000A,
	0x8000000080008081, 0x8000000000008080, 0x0000000080000001, 0x8000000080008008,
}

// rotc holds the rho-step rotation offsets for lanes 1..24 in the standard
// Keccak lane-traversal order used by the pi step below.
var rotc = [24]uint{1, 3, 6, 10, 15, 21, 28, 36, 45, 55, 2, 14, 27, 41, 56, 8, 25, 43, 62, 18, 39, 61, 20, 44}

// piln holds the destination lane index for the pi step, matching rotc's
// traversal order.
var piln = [24]int{10, 7, 11, 17, 18, 3, 5, 16, 8, 21, 24, 4, 15, 23, 19, 13, 12, 2, 20, 14, 22, 9, 6, 1}

func rol64(x uint64, n uint) uint64 {
	return (x << n) | (x >> (64 - n))
}

// thetaRhoPi applies the linear theta, rho and pi steps of one Keccak round to
// a single 25-lane plane, in place.
func thetaRhoPi(a *[25]uint64) {
	var c [5]uint64
	for x := 0; x < 5; x++ {
		c[x] = a[x] ^ a[x+5] ^ a[x+10] ^ a[x+15] ^ a[x+20]
	}
	var d [5]uint64
	for x := 0; x < 5; x++ {
		d[x] = c[(x+4)%5] ^ rol64(c[(x+1)%5], 1)
	}
	for i := 0; i < 25; i++ {
		a[i] ^= d[i%5]
	}

	t := a[1]
	for i := 0; i < 24; i++ {
		j := piln[i]
		tmp := a[j]
		a[j] = rol64(t, rotc[i])
		t = tmp
	}
}

// chiUnshared applies the nonlinear chi step to a single unshared plane:
// out[i] = a[i] ^ (^a[i+1] & a[i+2]) within each row of 5 lanes.
func chiUnshared(a *[25]uint64) {
	var row [5]uint64
	for y := 0; y < 25; y += 5 {
		copy(row[:], a[y:y+5])
		for x := 0; x < 5; x++ {
			a[y+x] = row[x] ^ (^row[(x+1)%5] & row[(x+2)%5])
		}
	}
}

// roundUnshared performs one full round of Keccak-f[1600] (theta, rho, pi,
// chi, iota) on an unshared 25-lane state.
func roundUnshared(a *[25]uint64, round int) {
	thetaRhoPi(a)
	chiUnshared(a)
	a[0] ^= rc[round]
}

// roundShared performs one full round of Keccak-f[1600] on a 3-share state.
// The linear steps (theta, rho, pi, iota) run independently on each of the
// three planes, with the round constant injected into plane 0 only — since
// iota touches a single lane, adding it to one share alone preserves the XOR
// sum across the triple. Chi is the only nonlinear step: each output share k
// at a given bit position is the XOR of nine cross terms (~a_i) & b_j grouped
// by k = (i+j) mod 3, which reconstructs the logical chi output because 3 is
// odd — complementing an odd number of the XOR terms inverts the result
// exactly once, matching the unshared ~a & b form.
func roundShared(s *[3][25]uint64, round int) {
	for k := 0; k < 3; k++ {
		thetaRhoPi(&s[k])
	}
	chiShared(s)
	s[0][0] ^= rc[round]
}

// chiShared applies the nine-cross-term threshold-implementation chi step to
// a 3-share state, in place.
func chiShared(s *[3][25]uint64) {
	var rows [3][5]uint64
	for y := 0; y < 25; y += 5 {
		for k := 0; k < 3; k++ {
			copy(rows[k][:], s[k][y:y+5])
		}
		var out [3][5]uint64
		for x := 0; x < 5; x++ {
			for i := 0; i < 3; i++ {
				out[i][x] = rows[i][x]
			}
			for i := 0; i < 3; i++ {
				notA := ^rows[i][(x+1)%5]
				for j := 0; j < 3; j++ {
					b := rows[j][(x+2)%5]
					k := (i + j) % 3
					out[k][x] ^= notA & b
				}
			}
		}
		for k := 0; k < 3; k++ {
			copy(s[k][y:y+5], out[k][:])
		}
	}
}
