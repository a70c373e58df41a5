package keccakx4

import "github.com/bwesterb/go-slhdsa-masked/masked"

// FItem is one lane of a FBlockX4 batch: Adrs is the 32-byte SLH-DSA address
// for this F evaluation, Secret is the n-byte input and Out receives the
// n-byte output. Out and Secret may alias the same slice. A nil FItem leaves
// its lane idle.
type FItem struct {
	Adrs   []byte
	Secret []byte
	Out    []byte
}

// FBlockX4 evaluates F = SHAKE-256(pubSeed || adrs || secret), truncated to n
// bytes, for up to four independent (adrs, secret) pairs sharing the same
// pubSeed, batching their single-block permutations the way the masked core's
// component D formats one F block (masked.SetUpFBlock), but unshared — this
// is the verifier-side fast path, which never carries secret material and so
// only stands to gain from batching, not masking. n must be small enough
// that pubSeed || adrs || secret fits in one SHAKE-256 rate block, which
// holds for every n in {16, 24, 32}.
func FBlockX4(n int, pubSeed []byte, items [4]*FItem) {
	nLanes := (n + 7) / 8

	var states [4][25]uint64
	var statePtrs [4]*[25]uint64
	for k := 0; k < 4; k++ {
		statePtrs[k] = &states[k]
		if items[k] == nil {
			continue
		}

		masked.BytesToLanes(states[k][:nLanes], pubSeed)

		var adrsLanes [4]uint64
		masked.BytesToLanes(adrsLanes[:], items[k].Adrs)
		copy(states[k][nLanes:nLanes+4], adrsLanes[:])

		var secretLanes [masked.MaxLanes]uint64
		masked.BytesToLanes(secretLanes[:nLanes], items[k].Secret)
		copy(states[k][nLanes+4:nLanes+4+nLanes], secretLanes[:nLanes])

		states[k][nLanes+4+nLanes] ^= masked.SDPad
		states[k][masked.RateLanes-1] ^= uint64(1) << 63
	}

	PermuteX4(statePtrs, masked.PermuteUnshared)

	for k := 0; k < 4; k++ {
		if items[k] == nil {
			continue
		}
		masked.LanesToBytes(items[k].Out[:n], states[k][nLanes+4:nLanes+4+nLanes])
	}
}
