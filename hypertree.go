package slhdsa

import "github.com/bwesterb/go-slhdsa-masked/masked"

// Generalised Merkle-tree construction shared by the FORS trees and every
// hypertree layer: given the full set of leaves of a height-h tree, compute
// its root and the authentication path for one target leaf. leafOracle
// supplies the leaves themselves (WOTS+ public keys for a hypertree layer,
// FORS leaf hashes for a FORS tree) — the closure-based "leaf oracle" design
// note from the core's parameterised Merkle traversal harness (4.I).
type leafOracle func(leafIdx uint32) []byte

// merkleAuthPath builds a height-many-level tree over 2^height leaves
// produced by oracle, returning its root and the authentication path
// (sibling hash at every level, bottom to top) for targetLeaf. leafBase is
// the absolute index of this tree's leftmost leaf within a larger combined
// indexing space (0 when the tree stands alone, e.g. a hypertree layer;
// the FORS-tree-relative offset t*2^a when several same-height trees share
// one ADRS treeIndex numbering) — it is halved at every level alongside the
// node count, so each level's ADRS treeIndex is leafBase>>h + i rather than
// the tree-local i alone.
func merkleAuthPath(p *Params, pubSeed []byte, adrsBase address, height int, targetLeaf uint32, oracle leafOracle, leafBase uint32) (root []byte, authPath []byte) {
	width := uint32(1) << uint(height)
	level := make([][]byte, width)
	for i := uint32(0); i < width; i++ {
		level[i] = oracle(i)
	}

	authPath = make([]byte, height*p.N)
	idx := targetLeaf
	adrs := adrsBase
	base := leafBase

	for h := 0; h < height; h++ {
		copy(authPath[h*p.N:(h+1)*p.N], level[idx^1])

		nextWidth := uint32(len(level)) / 2
		next := make([][]byte, nextWidth)
		adrs.setTreeHeight(uint32(h + 1))
		base /= 2
		for i := uint32(0); i < nextWidth; i++ {
			adrs.setTreeIndex(base + i)
			node := make([]byte, p.N)
			thash(node, p, pubSeed, adrs, level[2*i], level[2*i+1])
			next[i] = node
		}
		level = next
		idx /= 2
	}

	return level[0], authPath
}

// merkleRootFromAuthPath recomputes a Merkle root from a leaf value and its
// authentication path, the unmasked verifier-side counterpart of
// merkleAuthPath. leafBase has the same meaning as in merkleAuthPath.
func merkleRootFromAuthPath(p *Params, pubSeed []byte, adrsBase address, height int, leafIdx uint32, leaf, authPath []byte, leafBase uint32) []byte {
	node := make([]byte, p.N)
	copy(node, leaf)

	idx := leafIdx
	base := leafBase
	adrs := adrsBase
	for h := 0; h < height; h++ {
		sibling := authPath[h*p.N : (h+1)*p.N]
		adrs.setTreeHeight(uint32(h + 1))
		base /= 2
		adrs.setTreeIndex(base + idx/2)

		next := make([]byte, p.N)
		if idx%2 == 0 {
			thash(next, p, pubSeed, adrs, node, sibling)
		} else {
			thash(next, p, pubSeed, adrs, sibling, node)
		}
		node = next
		idx /= 2
	}
	return node
}

// hypertreeSign walks the D hypertree layers bottom-up (layer 0 first),
// signing msgDigest with layer 0's WOTS+ key and each subsequent layer's
// root with the next layer's WOTS+ key, using sess's per-layer Merkle PRF
// roots (component H) to derive every layer's WOTS leaves (component I).
func hypertreeSign(pubSeed []byte, p *Params, sess *session, treeIdx uint64, idxLeaf uint32, msgDigest []byte) []byte {
	th := p.TreeHeight()
	sigSize := p.D * (p.WotsLen()*p.N + th*p.N)
	sig := make([]byte, sigSize)

	message := msgDigest
	curTree := treeIdx
	curLeaf := idxLeaf
	mask := uint64(1)<<uint(th) - 1

	for level := 0; level < p.D; level++ {
		var adrsBase address
		adrsBase.setLayer(uint32(level))
		adrsBase.setTree(curTree)

		digits := wotsDigits(p, message)
		it := sess.layerIterator(level, pubSeed, adrsBase)
		defer masked.ZeroiseIter(it)

		off := level * (p.WotsLen()*p.N + th*p.N)
		wotsSig := sig[off : off+p.WotsLen()*p.N]

		oracle := func(j uint32) []byte {
			var sd []int
			var dst []byte
			if j == curLeaf {
				sd = digits
				dst = wotsSig
			}
			return wotsGenLeafX1(pubSeed, p, it, adrsBase, j, sd, dst)
		}

		treeAdrs := adrsBase
		treeAdrs.setType(AddrTypeTree)
		root, authPath := merkleAuthPath(p, pubSeed, treeAdrs, th, curLeaf, oracle, 0)
		copy(sig[off+p.WotsLen()*p.N:off+p.WotsLen()*p.N+th*p.N], authPath)

		message = root
		curLeaf = uint32(curTree & mask)
		curTree = curTree >> uint(th)
	}

	return sig
}

// hypertreeVerify recomputes the hypertree root from a signature over
// msgDigest and compares it against pkRoot. It never touches the masked
// core.
func hypertreeVerify(pubSeed, pkRoot []byte, p *Params, treeIdx uint64, idxLeaf uint32, msgDigest, sig []byte) bool {
	th := p.TreeHeight()
	message := msgDigest
	curTree := treeIdx
	curLeaf := idxLeaf
	mask := uint64(1)<<uint(th) - 1

	for level := 0; level < p.D; level++ {
		var adrsBase address
		adrsBase.setLayer(uint32(level))
		adrsBase.setTree(curTree)

		off := level * (p.WotsLen()*p.N + th*p.N)
		wotsSig := sig[off : off+p.WotsLen()*p.N]
		authPath := sig[off+p.WotsLen()*p.N : off+p.WotsLen()*p.N+th*p.N]

		leafHash := wotsPkFromSig(pubSeed, p, adrsBase, curLeaf, message, wotsSig)

		treeAdrs := adrsBase
		treeAdrs.setType(AddrTypeTree)
		root := merkleRootFromAuthPath(p, pubSeed, treeAdrs, th, curLeaf, leafHash, authPath, 0)

		message = root
		curLeaf = uint32(curTree & mask)
		curTree = curTree >> uint(th)
	}

	return bytesEqual(message, pkRoot)
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
