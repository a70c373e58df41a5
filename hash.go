package slhdsa

// Unmasked hash primitives: message hashing, the randomised signing nonce,
// and the plain SHAKE-256 "thash" used for Merkle/L-tree interior nodes,
// WOTS+ public-key compression, and FORS root compression. All of them run
// outside the masked core. thash and hMsg operate on already-public digests,
// commitments and seeds; prfMsg reads SK.prf in unshared form.

import (
	"golang.org/x/crypto/sha3"
)

// thash computes SHAKE-256(pubSeed || adrs || data...) truncated to p.N
// bytes, writing the result into out.
func thash(out []byte, p *Params, pubSeed []byte, adrs address, data ...[]byte) {
	h := sha3.NewShake256()
	h.Write(pubSeed)
	adrsBytes := adrs.toBytes()
	h.Write(adrsBytes)
	for _, d := range data {
		h.Write(d)
	}
	h.Read(out[:p.N])
}

// prfMsg derives the randomised signing nonce R = SHAKE-256(skPRF || optRand
// || msg), p.N bytes.
func prfMsg(out []byte, p *Params, skPRF, optRand, msg []byte) {
	h := sha3.NewShake256()
	h.Write(skPRF)
	h.Write(optRand)
	h.Write(msg)
	h.Read(out[:p.N])
}

// hMsg computes the message digest H_msg(R, pubSeed, pkRoot, msg), of
// arbitrary requested output length (the caller slices out the FORS
// message-digest bits, the tree-address bits and the leaf-index bits from
// this single SHAKE squeeze, per FIPS-205 section 9.2).
func hMsg(out []byte, r, pubSeed, pkRoot, msg []byte) {
	h := sha3.NewShake256()
	h.Write(r)
	h.Write(pubSeed)
	h.Write(pkRoot)
	h.Write(msg)
	h.Read(out)
}

// digestSplitSizes returns the byte lengths of, respectively, the FORS
// message-digest field, the tree-address field and the leaf-index field
// within an H_msg digest, per FIPS-205 section 9.2.
func digestSplitSizes(p *Params) (mdLen, treeLen, leafLen int) {
	mdLen = (p.FORSHeight*p.FORSTrees + 7) / 8
	treeLen = (p.FullHeight - p.FullHeight/p.D + 7) / 8
	leafLen = (p.FullHeight/p.D + 7) / 8
	return
}
