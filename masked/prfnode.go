package masked

// PRFHash evaluates a single edge of the PRF tree (component E): SHAKE-256
// over pubSeed || adrs || sharedIn, producing a 3n-byte shared digest in
// sharedOut. adrs must be the 32-byte SLH-DSA address for this edge, already
// marshalled to bytes by the caller.
func PRFHash(sharedOut []byte, n int, pubSeed, adrs []byte, sharedIn []byte) {
	var cs ChainState
	SetUpFBlock(&cs, n, pubSeed, adrs, sharedIn)
	FTransform(&cs, true)

	for k := 0; k < 3; k++ {
		LanesToBytes(sharedOut[k*n:(k+1)*n], cs.S[k][cs.Off:cs.Off+cs.N])
	}
	ZeroiseState(&cs.S)
}
