package masked

// Zeroise overwrites buf with zero bytes. Callers use it on every exit path
// of a signing operation to scrub shared secret material (chain state,
// iterator path-cache values, session-context buffers) from memory.
func Zeroise(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}

// ZeroiseState overwrites a 3-share Keccak state with zero lanes.
func ZeroiseState(s *SharedState) {
	for k := 0; k < 3; k++ {
		s[k] = [25]uint64{}
	}
}

// ZeroiseIter scrubs every cached interior-node value held by a PRF
// iterator.
func ZeroiseIter(it *PRFIter) {
	for k := 0; k < it.numNode; k++ {
		Zeroise(it.value[k])
	}
}
