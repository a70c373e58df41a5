package keccakx4

import "testing"

func TestPermuteX4MatchesScalar(t *testing.T) {
	var states [4]*[25]uint64
	var want [4][25]uint64
	for i := range states {
		var s [25]uint64
		for j := range s {
			s[j] = uint64(i*25+j) * 0x0101010101010101
		}
		want[i] = s
		states[i] = &s
	}

	scalar := func(s *[25]uint64) {
		// Minimal stand-in permutation for the test: apply a fixed
		// invertible-by-inspection transform so we can check every
		// state was visited independently, without depending on the
		// masked package's round kernel from this leaf package.
		for i := range s {
			s[i] ^= uint64(i) + 1
		}
	}

	for i := range want {
		scalar(&want[i])
	}

	PermuteX4(states, scalar)

	for i := range states {
		if *states[i] != want[i] {
			t.Fatalf("state %d: got %v, want %v", i, *states[i], want[i])
		}
	}
}
