package masked

import "github.com/templexxx/xor"

// MaxN is the largest supported digest width in bytes (SLH-DSA-SHAKE-256*).
const MaxN = 32

// MaxLanes is MaxN/8, the largest supported digest width in lanes.
const MaxLanes = MaxN / 8

// AdrsLanes is the number of 64-bit lanes a 32-byte ADRS occupies.
const AdrsLanes = 4

// ChainState is the pre-permutation buffer reused across successive F
// (Winternitz-chain / FORS-leaf) calls: a 3-share 25-lane state populated as
//
//	lanes [0, N)          PK.seed, public, held only in plane 0
//	lanes [N, N+4)         ADRS, public, held only in plane 0
//	lanes [N+4, N+4+N)     running secret/digest window, 3-share
//	lane  N+4+N            SHAKE domain-separation/pad byte, plane 0
//	lane  16               end-of-rate pad bit XORed in, plane 0
type ChainState struct {
	S       SharedState
	N       int // digest width in lanes
	Off     int // N+4, the running secret/digest window offset
	adrs    [4]uint64
	pubSeed [MaxLanes]uint64
}

// nLanes returns n (bytes) rounded up to a lane count.
func nLanes(n int) int {
	return (n + 7) / 8
}

// SetUpFBlock assembles a fresh chain state (component D): public seed and
// ADRS are written unshared into plane 0, sharedSecret (a 3n-byte shared
// digest) is written across all three planes at the running-secret offset,
// and the SHAKE rate padding is applied. It returns the lane offset of the
// running-secret window, for use by the caller when reading the emitted
// digest back out or writing the next iteration's masked input in place.
func SetUpFBlock(cs *ChainState, n int, pubSeed []byte, adrs []byte, sharedSecret []byte) int {
	N := nLanes(n)
	cs.N = N
	cs.Off = N + AdrsLanes

	for k := 0; k < 3; k++ {
		cs.S[k] = [25]uint64{}
	}

	BytesToLanes(cs.pubSeed[:N], pubSeed)
	copy(cs.S[0][:N], cs.pubSeed[:N])

	BytesToLanes(cs.adrs[:AdrsLanes], adrs)
	copy(cs.S[0][N:N+AdrsLanes], cs.adrs[:AdrsLanes])

	for k := 0; k < 3; k++ {
		BytesToLanes(cs.S[k][cs.Off:cs.Off+N], sharedSecret[k*n:(k+1)*n])
	}

	cs.S[0][cs.Off+N] ^= SDPad
	cs.S[0][RateLanes-1] ^= uint64(1) << 63

	return cs.Off
}

// SetAdrs re-derives the chain state's ADRS window (plane 0, lanes [N, N+4))
// from a fresh 32-byte ADRS, without disturbing the public seed or the
// running secret/digest window. Callers use this between F-transforms of
// the same chain to advance the ADRS `hash` (or other) subfield.
func SetAdrs(cs *ChainState, adrs []byte) {
	BytesToLanes(cs.adrs[:AdrsLanes], adrs)
	copy(cs.S[0][cs.N:cs.N+AdrsLanes], cs.adrs[:AdrsLanes])
}

// IncrementHashAddr bumps the ADRS `hash` subfield held in the chain state's
// plane 0 and re-derives the affected lane. ADRS fields are logically
// big-endian 32-bit words while Keccak lanes are packed little-endian, so
// rather than replicate raw lane-level bit-shift arithmetic this keeps a
// small structured view of the ADRS's hash word and rewrites just its lane.
func IncrementHashAddr(cs *ChainState, hashWordLane int, newHashBE uint32) {
	lane := cs.adrs[hashWordLane]
	shift := uint((hashWordLane % 2) * 32)
	mask := uint64(0xFFFFFFFF) << shift
	// The word's big-endian bytes sit in ascending byte order within the
	// little-endian lane, so the value is byte-swapped before it is placed.
	swapped := uint64(newHashBE>>24) | uint64(newHashBE>>16&0xff)<<8 |
		uint64(newHashBE>>8&0xff)<<16 | uint64(newHashBE&0xff)<<24
	lane = (lane &^ mask) | (swapped << shift)
	cs.adrs[hashWordLane] = lane
	cs.S[0][cs.N+hashWordLane] = lane
}

// FTransform runs the masked permutation (component B) over the whole chain
// state and copies the emitted digest back into the running-secret window of
// plane 0 (and planes 1, 2 if keepBlinded) so the state is ready for the next
// chain step. After an unblinded transform the masked slots are left stale;
// the next masked transform re-seeds them via SetUpFBlock or by direct copy.
func FTransform(cs *ChainState, keepBlinded bool) {
	var out SharedState
	Permute(cs.S, &out, keepBlinded)

	copy(cs.S[0][cs.Off:cs.Off+cs.N], out[0][:cs.N])
	if keepBlinded {
		copy(cs.S[1][cs.Off:cs.Off+cs.N], out[1][:cs.N])
		copy(cs.S[2][cs.Off:cs.Off+cs.N], out[2][:cs.N])
	}
}

// UntransformF serialises n bytes from a single contiguous lane window
// starting at off into dst.
func UntransformF(dst []byte, lanes []uint64, off, n int) {
	N := nLanes(n)
	LanesToBytes(dst[:n], lanes[off:off+N])
}

// UnmaskDigest XORs the three shares of the running-secret window together
// and serialises the result — used when a masked chain state's current value
// must be unmasked (e.g. the final step of a Winternitz chain).
func UnmaskDigest(dst []byte, cs *ChainState) {
	var b1, b2 [MaxN]byte
	n := len(dst)
	LanesToBytes(dst, cs.S[0][cs.Off:cs.Off+cs.N])
	LanesToBytes(b1[:n], cs.S[1][cs.Off:cs.Off+cs.N])
	LanesToBytes(b2[:n], cs.S[2][cs.Off:cs.Off+cs.N])
	xor.BytesSameLen(dst, dst, b1[:n])
	xor.BytesSameLen(dst, dst, b2[:n])
}
