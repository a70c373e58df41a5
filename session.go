package slhdsa

import (
	"github.com/bwesterb/go-slhdsa-masked/masked"
	"github.com/templexxx/xor"
)

// session is the per-signing-call context (spx_ctx): the public seed, the
// shared secret-key seed, the per-layer shared Merkle PRF roots, and the
// shared FORS seed. merkleKey[D-1] holds the top tree's key; merkleKey[0]
// holds the bottom tree's. Every field but p and pubSeed is secret and must
// be zeroised when the session ends (close).
type session struct {
	p       *Params
	pubSeed []byte

	merkleKey [][]byte // D entries, 3n bytes each
	forsSeed  []byte   // 3n bytes
}

// sessionInit implements external interface #1: copies the public seed and
// sets merkleKey[D-1] to a freshly split shared form of skSeed.
func sessionInit(p *Params, pubSeed, skSeed []byte) *session {
	sess := &session{
		p:         p,
		pubSeed:   append([]byte(nil), pubSeed...),
		merkleKey: make([][]byte, p.D),
	}
	sess.merkleKey[p.D-1] = splitShares(p.N, skSeed)
	return sess
}

// close zeroises every shared buffer held by the session.
func (s *session) close() {
	for _, k := range s.merkleKey {
		masked.Zeroise(k)
	}
	masked.Zeroise(s.forsSeed)
}

// prfMerkleAdrsFor builds the internal-only PRF_MERKLE edge address for an
// internal node of the per-layer PRF tree rooted at merkleKey[level].
func prfMerkleAdrsFor(level int, tree uint64) masked.AdrsForNode {
	return func(node uint32) []byte {
		var a address
		a.setLayer(uint32(level))
		a.setTree(tree)
		a.setType(AddrTypePRFMerkle)
		a.setPRFIndex(node)
		return a.toBytes()
	}
}

// sessionPreparePath implements external interface #2 / component H: given
// a selected hypertree path (tree, idxLeaf), derive every layer's Merkle PRF
// root below the top and the FORS seed.
//
// Each hypertree layer's own (tree, leaf) pair is obtained by the same
// bottom-up bit-peeling hypertreeSign/hypertreeVerify use (layer 0 takes the
// raw (tree, idxLeaf); each subsequent layer's pair comes from shifting the
// previous layer's tree index right by the per-layer tree height). Those
// pairs are precomputed for every layer before deriving any key, since the
// derivation here walks layers top-down (from the known top key) while the
// bit-peeling itself runs bottom-up.
func sessionPreparePath(sess *session, tree uint64, idxLeaf uint32) {
	p := sess.p
	th := p.TreeHeight()
	slots := uint32(1) << uint(th)
	nExt := (uint32(p.WotsLen()) + 1) * slots
	mask := uint64(1)<<uint(th) - 1

	layerTree := make([]uint64, p.D)
	layerLeaf := make([]uint32, p.D)
	layerTree[0] = tree
	layerLeaf[0] = idxLeaf
	for level := 0; level < p.D-1; level++ {
		layerLeaf[level+1] = uint32(layerTree[level] & mask)
		layerTree[level+1] = layerTree[level] >> uint(th)
	}

	for level := p.D - 1; level >= 0; level-- {
		parent := sess.merkleKey[level]
		childIdx := uint32(p.WotsLen())*slots + layerLeaf[level]

		child := make([]byte, 3*p.N)
		masked.EvalSingle(child, p.N, sess.pubSeed, prfMerkleAdrsFor(level, layerTree[level]), parent, childIdx, nExt)

		if level == 0 {
			sess.forsSeed = child
		} else {
			sess.merkleKey[level-1] = child
		}
	}
}

// layerIterator returns a PRF iterator over the WOTS+ chain secrets of
// every leaf of the given hypertree layer (external indices
// [0, WotsLen*2^TreeHeight)), rooted at that layer's Merkle key.
func (s *session) layerIterator(level int, pubSeed []byte, adrsBase address) *masked.PRFIter {
	th := s.p.TreeHeight()
	slots := uint32(1) << uint(th)
	nExt := (uint32(s.p.WotsLen()) + 1) * slots
	stop := uint32(s.p.WotsLen())*slots - 1

	curTree := uint64(adrsBase[2])<<32 | uint64(adrsBase[3])

	var it masked.PRFIter
	masked.PRFIterInit(&it, nExt, stop, s.merkleKey[level], s.p.N, pubSeed, prfMerkleAdrsFor(level, curTree))
	return &it
}

// splitShares performs a fresh 2-of-3 XOR split of logical into n-byte
// shares, using a cryptographically strong source for the two free shares.
func splitShares(n int, logical []byte) []byte {
	out := make([]byte, 3*n)
	randomFill(out[:2*n])
	xor.BytesSameLen(out[2*n:3*n], out[:n], out[n:2*n])
	xor.BytesSameLen(out[2*n:3*n], out[2*n:3*n], logical)
	return out
}
