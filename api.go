// Package slhdsa implements SLH-DSA-SHAKE (the stateless hash-based
// signature scheme of FIPS-205, restricted to the SHAKE "simple" parameter
// family), with key generation and signing built on a first-order
// side-channel-masked core (package masked). Public keys and signatures are
// byte-compatible with a standards-compliant SLH-DSA-SHAKE implementation;
// verification runs entirely outside the masked core.
package slhdsa

import (
	"crypto/rand"
	"io"

	"github.com/bwesterb/go-slhdsa-masked/masked"
)

// randomFill fills buf with cryptographically strong randomness.
func randomFill(buf []byte) {
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		panic(err)
	}
}

// PrivateKey holds the four n-byte secrets FIPS-205 calls SK.seed, SK.prf,
// PK.seed and PK.root.
type PrivateKey struct {
	p *Params

	skSeed  []byte
	skPRF   []byte
	pubSeed []byte
	pkRoot  []byte
}

// PublicKey holds PK.seed and PK.root.
type PublicKey struct {
	p *Params

	pubSeed []byte
	pkRoot  []byte
}

// Signature holds the randomiser R, the FORS signature and the hypertree
// signature.
type Signature struct {
	p *Params

	r      []byte
	forsSig []byte
	htSig  []byte
}

// Params returns the parameter set this key was generated under.
func (sk *PrivateKey) Params() *Params { return sk.p }

// Params returns the parameter set this key was generated under.
func (pk *PublicKey) Params() *Params { return pk.p }

// PublicKey returns the public key matching sk.
func (sk *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{p: sk.p, pubSeed: sk.pubSeed, pkRoot: sk.pkRoot}
}

// topLevelRoot derives PK.root: the root of the top hypertree layer's
// Merkle tree over WOTS+ public keys, using the masked core to generate
// every leaf's chain secrets from SK.seed.
func topLevelRoot(p *Params, pubSeed, skSeed []byte) []byte {
	sess := sessionInit(p, pubSeed, skSeed)
	defer sess.close()

	var adrsBase address
	adrsBase.setLayer(uint32(p.D - 1))
	adrsBase.setTree(0)

	it := sess.layerIterator(p.D-1, pubSeed, adrsBase)
	defer masked.ZeroiseIter(it)
	oracle := func(j uint32) []byte {
		return wotsGenLeafX1(pubSeed, p, it, adrsBase, j, nil, nil)
	}

	treeAdrs := adrsBase
	treeAdrs.setType(AddrTypeTree)
	root, _ := merkleAuthPath(p, pubSeed, treeAdrs, p.TreeHeight(), 0, oracle, 0)
	return root
}

// GenerateKeyPair generates a fresh SLH-DSA-SHAKE key pair for the named
// parameter set (e.g. "SLH-DSA-SHAKE-128s"), drawing randomness from rnd.
func GenerateKeyPair(paramsName string, rnd io.Reader) (*PrivateKey, *PublicKey, Error) {
	p, err := ParamsFromName(paramsName)
	if err != nil {
		return nil, nil, err
	}

	skSeed := make([]byte, p.N)
	skPRF := make([]byte, p.N)
	pubSeed := make([]byte, p.N)
	for _, buf := range [][]byte{skSeed, skPRF, pubSeed} {
		if _, e := io.ReadFull(rnd, buf); e != nil {
			return nil, nil, wrapErrorf(e, "reading randomness")
		}
	}

	pkRoot := topLevelRoot(p, pubSeed, skSeed)
	log.Logf("slhdsa: generated %s key pair", p.Name)

	sk := &PrivateKey{p: p, skSeed: skSeed, skPRF: skPRF, pubSeed: pubSeed, pkRoot: pkRoot}
	return sk, sk.PublicKey(), nil
}

// digestParts derives the hypertree path and FORS message digest from a
// message, per FIPS-205 section 9.2.
func digestParts(p *Params, r, pubSeed, pkRoot, msg []byte) (md []byte, treeIdx uint64, idxLeaf uint32) {
	mdLen, treeLen, leafLen := digestSplitSizes(p)
	digest := make([]byte, mdLen+treeLen+leafLen)
	hMsg(digest, r, pubSeed, pkRoot, msg)

	md = digest[:mdLen]

	th := p.TreeHeight()
	treeBits := p.FullHeight - th

	treeRaw := decodeUint64(digest[mdLen : mdLen+treeLen])
	if treeBits < 64 {
		treeRaw &= (uint64(1) << uint(treeBits)) - 1
	}
	treeIdx = treeRaw

	leafRaw := decodeUint64(digest[mdLen+treeLen : mdLen+treeLen+leafLen])
	idxLeaf = uint32(leafRaw & (uint64(1)<<uint(th) - 1))
	return
}

// Sign produces a signature over msg using randomness drawn from rnd for
// the signing nonce R (the `optrand` input of FIPS-205 algorithm 19).
func (sk *PrivateKey) Sign(rnd io.Reader, msg []byte) (*Signature, Error) {
	optRand := make([]byte, sk.p.N)
	if _, e := io.ReadFull(rnd, optRand); e != nil {
		return nil, wrapErrorf(e, "reading randomness")
	}
	return sk.sign(optRand, msg)
}

// SignDeterministic produces a signature over msg the FIPS-205
// deterministic-by-default way: optrand is PK.seed rather than fresh
// randomness, so the same (key, message) pair always yields the same R.
func (sk *PrivateKey) SignDeterministic(msg []byte) (*Signature, Error) {
	return sk.sign(sk.pubSeed, msg)
}

func (sk *PrivateKey) sign(optRand, msg []byte) (*Signature, Error) {
	p := sk.p

	r := make([]byte, p.N)
	prfMsg(r, p, sk.skPRF, optRand, msg)

	md, treeIdx, idxLeaf := digestParts(p, r, sk.pubSeed, sk.pkRoot, msg)

	sess := sessionInit(p, sk.pubSeed, sk.skSeed)
	defer sess.close()
	sessionPreparePath(sess, treeIdx, idxLeaf)

	var forsAdrsBase address
	forsAdrsBase.setLayer(0)
	forsAdrsBase.setTree(treeIdx)
	forsAdrsBase.setKeyPair(idxLeaf)
	forsSig, forsPk := forsSign(sess, forsAdrsBase, md)

	htSig := hypertreeSign(sk.pubSeed, p, sess, treeIdx, idxLeaf, forsPk)

	log.Logf("slhdsa: signed %d-byte message under %s", len(msg), p.Name)

	return &Signature{p: p, r: r, forsSig: forsSig, htSig: htSig}, nil
}

// Verify reports whether sig is a valid signature over msg under pk.
func (pk *PublicKey) Verify(msg []byte, sig *Signature) bool {
	if sig == nil || sig.p == nil || *sig.p != *pk.p {
		return false
	}
	p := pk.p

	md, treeIdx, idxLeaf := digestParts(p, sig.r, pk.pubSeed, pk.pkRoot, msg)

	var forsAdrsBase address
	forsAdrsBase.setLayer(0)
	forsAdrsBase.setTree(treeIdx)
	forsAdrsBase.setKeyPair(idxLeaf)
	forsPk := forsPkFromSig(pk.pubSeed, p, forsAdrsBase, md, sig.forsSig)

	return hypertreeVerify(pk.pubSeed, pk.pkRoot, p, treeIdx, idxLeaf, forsPk, sig.htSig)
}
