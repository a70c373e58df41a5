package masked

// EvalSingle computes the shared value of a single external node by index i
// (component G): it derives the path from i to the root via repeated integer
// division by 4, then descends from sharedRoot re-hashing at each level. This
// is O(log4 nExt) hashes with no caching, for callers that need one external
// node without walking the whole range the way PRFIter does.
func EvalSingle(sharedOut []byte, n int, pubSeed []byte, adrsFor AdrsForNode, sharedRoot []byte, i, nExt uint32) {
	minNode := (nExt + 1) / 3
	target := i + minNode

	var path []uint32
	for node := target; node != 0; node = (node - 1) / 4 {
		path = append(path, node)
	}

	value := sharedRoot
	for k := len(path) - 1; k >= 0; k-- {
		out := make([]byte, 3*n)
		PRFHash(out, n, pubSeed, adrsFor(path[k]), value)
		value = out
	}
	copy(sharedOut, value)
}
