package masked

// MaxIterDepth bounds the PRF iterator's descent path, sized for trees of up
// to 2^19 external nodes (component F).
const MaxIterDepth = 12

// AdrsForNode builds the 32-byte PRF-tree edge address for the internal node
// at the given canonical index. Supplied by the caller (the masked core is
// agnostic to ADRS layout beyond the hash-chain fields it owns itself).
type AdrsForNode func(nodeIndex uint32) []byte

// PRFIter walks the external nodes of a 4-ary PRF tree in index order,
// caching interior-node shared values along the current root-to-leaf path.
type PRFIter struct {
	node     [MaxIterDepth]uint32
	count    [MaxIterDepth]int
	value    [MaxIterDepth][]byte
	numNode  int
	curNode  uint32
	minNode  uint32
	stopNode uint32
	done     bool

	n       int
	pubSeed []byte
	adrsFor AdrsForNode
}

// PRFIterInit initialises it to begin emitting external nodes starting at
// external index 0, stopping (inclusive) at external index stopValue.
// sharedRoot is the already-shared 3n-byte value of the tree's root.
func PRFIterInit(it *PRFIter, nExt uint32, stopValue uint32, sharedRoot []byte, n int, pubSeed []byte, adrsFor AdrsForNode) {
	*it = PRFIter{n: n, pubSeed: pubSeed, adrsFor: adrsFor}
	it.minNode = (nExt + 1) / 3
	it.stopNode = stopValue + it.minNode

	var path []uint32
	for i := it.minNode; i != 0; i = (i - 1) / 4 {
		path = append(path, i)
	}
	sp := len(path)
	it.numNode = sp + 1

	it.node[0] = 0
	it.value[0] = append([]byte(nil), sharedRoot...)
	for k := 1; k <= sp; k++ {
		node := path[sp-k]
		it.node[k] = node
		it.count[k] = int((node + 3) % 4)
		it.value[k] = it.hashEdge(node, it.value[k-1])
	}

	it.curNode = it.minNode
}

func (it *PRFIter) hashEdge(node uint32, parentValue []byte) []byte {
	out := make([]byte, 3*it.n)
	PRFHash(out, it.n, it.pubSeed, it.adrsFor(node), parentValue)
	return out
}

// PRFIterNext emits the next external node's shared value into out (which
// must have room for 3n bytes) and returns its external index, or -1 once
// iteration has completed.
func PRFIterNext(it *PRFIter, out []byte) int {
	if it.done {
		return -1
	}

	copy(out, it.value[it.numNode-1])
	index := int(it.curNode - it.minNode)

	if it.curNode == it.stopNode {
		it.done = true
		return index
	}

	i := it.numNode - 1
	for i > 0 && it.count[i] == 3 {
		i--
	}
	if i > 0 {
		it.count[i]++
		it.node[i]++
		it.value[i] = it.hashEdge(it.node[i], it.value[i-1])
	} else {
		// Every digit on the path is full: the index carries past the
		// current depth entirely, so the whole path below the root is
		// recomputed fresh at the new depth.
		it.numNode++
	}
	for j := i + 1; j < it.numNode; j++ {
		it.count[j] = 0
		it.node[j] = 4*it.node[j-1] + 1
		it.value[j] = it.hashEdge(it.node[j], it.value[j-1])
	}

	it.curNode++
	return index
}
