package slhdsa

import (
	"github.com/bwesterb/go-slhdsa-masked/internal/keccakx4"
	"github.com/bwesterb/go-slhdsa-masked/masked"
)

// prfForsAdrsFor builds the internal-only PRF edge address for the FORS
// secret-derivation tree rooted at a session's forsSeed.
func prfForsAdrsFor(fullTreeAdrs address) masked.AdrsForNode {
	return func(node uint32) []byte {
		a := fullTreeAdrs
		a.setType(AddrTypeFORSPRF)
		a.setPRFIndex(node)
		return a.toBytes()
	}
}

// forsIndices extracts the FORSTrees per-tree leaf indices from the FORS
// message-digest field of an H_msg output, FORSHeight bits at a time,
// left-to-right.
func forsIndices(p *Params, md []byte) []uint32 {
	idx := make([]uint32, p.FORSTrees)
	bitPos := 0
	for t := 0; t < p.FORSTrees; t++ {
		var v uint32
		for b := 0; b < p.FORSHeight; b++ {
			byteIdx := bitPos / 8
			bitInByte := 7 - (bitPos % 8)
			bit := (md[byteIdx] >> uint(bitInByte)) & 1
			v = (v << 1) | uint32(bit)
			bitPos++
		}
		idx[t] = v
	}
	return idx
}

// forsGenLeafX1 derives one FORS leaf's masked secret from the PRF
// iterator, reveals it into secretOut if reveal is set, and returns the
// leaf's public hash thash(pubSeed, FORS_TREE-adrs, secret) via a single
// unmasked F-transform — FORS leaves have no chain, unlike WOTS+.
func forsGenLeafX1(pubSeed []byte, p *Params, it *masked.PRFIter, leafAdrs address, reveal bool, secretOut []byte) []byte {
	n := p.N
	shared := make([]byte, 3*n)
	masked.PRFIterNext(it, shared)

	if reveal {
		foldShares(secretOut, shared, n)
	}

	var cs masked.ChainState
	masked.SetUpFBlock(&cs, n, pubSeed, leafAdrs.toBytes(), shared)
	masked.FTransform(&cs, false)

	leaf := make([]byte, n)
	masked.UntransformF(leaf, cs.S[0][:], cs.Off, n)
	masked.ZeroiseState(&cs.S)
	masked.Zeroise(shared)
	return leaf
}

// forsSign implements external interface #4 / component I's FORS form: for
// every FORS tree, reveal the indicated leaf's secret and compute that
// tree's authentication path, writing {secret, authPath} per tree into sig.
func forsSign(sess *session, forsAdrsBase address, msgDigest []byte) (sig, pk []byte) {
	p := sess.p
	a := p.FORSHeight
	slots := uint32(1) << uint(a)
	nExt := uint32(p.FORSTrees) * slots
	keyPairAddr := forsAdrsBase[5]

	indices := forsIndices(p, msgDigest)

	sig = make([]byte, p.FORSTrees*(1+a)*p.N)
	roots := make([]byte, p.FORSTrees*p.N)

	var it masked.PRFIter
	masked.PRFIterInit(&it, nExt, nExt-1, sess.forsSeed, p.N, sess.pubSeed, prfForsAdrsFor(forsAdrsBase))
	defer masked.ZeroiseIter(&it)

	for t := 0; t < p.FORSTrees; t++ {
		off := t * (1 + a) * p.N
		secretOut := sig[off : off+p.N]
		authPath := sig[off+p.N : off+(1+a)*p.N]

		// The hypertree tree address carried in forsAdrsBase stays put; the
		// per-FORS-tree and per-leaf position is folded into the combined
		// treeIndex numbering (t*2^a + offset) instead of overwriting it,
		// so distinct FORS trees at the same hypertree position never hash
		// under byte-identical ADRS.
		treeAdrs := forsAdrsBase
		treeAdrs.setType(AddrTypeFORSTree)
		treeAdrs.setKeyPair(keyPairAddr)
		leafBase := uint32(t) * slots

		oracle := func(j uint32) []byte {
			leafAdrs := treeAdrs
			leafAdrs.setTreeIndex(leafBase + j)
			return forsGenLeafX1(sess.pubSeed, p, &it, leafAdrs, j == indices[t], secretOut)
		}

		root, path := merkleAuthPath(p, sess.pubSeed, treeAdrs, a, indices[t], oracle, leafBase)
		copy(authPath, path)
		copy(roots[t*p.N:(t+1)*p.N], root)
	}

	rootsAdrs := forsAdrsBase
	rootsAdrs.setType(AddrTypeFORSRoots)
	rootsAdrs.setKeyPair(keyPairAddr)
	pk = make([]byte, p.N)
	thash(pk, p, sess.pubSeed, rootsAdrs, roots)

	return sig, pk
}

// forsPkFromSig is the unmasked verifier path (external interface #5): it
// never touches the masked core. The FORSTrees leaf hashes are independent of
// one another, so they're computed in batches of four via internal/keccakx4
// before the (inherently sequential) per-tree authentication-path walk.
func forsPkFromSig(pubSeed []byte, p *Params, forsAdrsBase address, msgDigest, sig []byte) []byte {
	a := p.FORSHeight
	slots := uint32(1) << uint(a)
	keyPairAddr := forsAdrsBase[5]
	indices := forsIndices(p, msgDigest)
	roots := make([]byte, p.FORSTrees*p.N)

	treeAdrs := make([]address, p.FORSTrees)
	leafBase := make([]uint32, p.FORSTrees)
	leaves := make([][]byte, p.FORSTrees)
	for t := 0; t < p.FORSTrees; t++ {
		ta := forsAdrsBase
		ta.setType(AddrTypeFORSTree)
		ta.setKeyPair(keyPairAddr)
		treeAdrs[t] = ta
		leafBase[t] = uint32(t) * slots
		leaves[t] = make([]byte, p.N)
	}

	for base := 0; base < p.FORSTrees; base += 4 {
		var items [4]*keccakx4.FItem
		for lane := 0; lane < 4 && base+lane < p.FORSTrees; lane++ {
			t := base + lane
			off := t * (1 + a) * p.N
			leafAdrs := treeAdrs[t]
			leafAdrs.setTreeIndex(leafBase[t] + indices[t])
			items[lane] = &keccakx4.FItem{
				Adrs:   leafAdrs.toBytes(),
				Secret: sig[off : off+p.N],
				Out:    leaves[t],
			}
		}
		keccakx4.FBlockX4(p.N, pubSeed, items)
	}

	for t := 0; t < p.FORSTrees; t++ {
		off := t * (1 + a) * p.N
		authPath := sig[off+p.N : off+(1+a)*p.N]
		root := merkleRootFromAuthPath(p, pubSeed, treeAdrs[t], a, indices[t], leaves[t], authPath, leafBase[t])
		copy(roots[t*p.N:(t+1)*p.N], root)
	}

	rootsAdrs := forsAdrsBase
	rootsAdrs.setType(AddrTypeFORSRoots)
	rootsAdrs.setKeyPair(keyPairAddr)
	forsPk := make([]byte, p.N)
	thash(forsPk, p, pubSeed, rootsAdrs, roots)
	return forsPk
}
