package slhdsa

import (
	"bytes"
	"crypto/rand"
	"testing"
)

// TestMerkleAuthPathRoundTrip checks the generic Merkle auth-path machinery
// in isolation from WOTS+ or the masked core: a root computed from synthetic
// leaves, together with the auth path for one of them, must recompute to the
// same root from that leaf alone.
func TestMerkleAuthPathRoundTrip(t *testing.T) {
	p, _ := ParamsFromName("SLH-DSA-SHAKE-128s")
	pubSeed := make([]byte, p.N)
	rand.Read(pubSeed)

	const height = 4
	width := uint32(1) << height
	leaves := make([][]byte, width)
	for i := range leaves {
		leaves[i] = make([]byte, p.N)
		rand.Read(leaves[i])
	}
	oracle := func(j uint32) []byte { return leaves[j] }

	var adrsBase address
	adrsBase.setLayer(2)
	adrsBase.setTree(5)
	adrsBase.setType(AddrTypeTree)

	const target = 11
	root, authPath := merkleAuthPath(p, pubSeed, adrsBase, height, target, oracle, 0)

	root2 := merkleRootFromAuthPath(p, pubSeed, adrsBase, height, target, leaves[target], authPath, 0)
	if !bytes.Equal(root, root2) {
		t.Fatalf("merkleRootFromAuthPath disagrees with merkleAuthPath's own root")
	}

	tampered := append([]byte(nil), leaves[target]...)
	tampered[0] ^= 1
	root3 := merkleRootFromAuthPath(p, pubSeed, adrsBase, height, target, tampered, authPath, 0)
	if bytes.Equal(root, root3) {
		t.Fatalf("a tampered leaf unexpectedly reproduced the same root")
	}
}

// smallHypertreeParams returns a parameter set outside the registry, sized
// for a fast multi-layer round trip rather than any security target.
func smallHypertreeParams() *Params {
	return &Params{
		Name:       "test-small",
		N:          16,
		FullHeight: 6,
		D:          3,
		FORSHeight: 4,
		FORSTrees:  3,
		WotsW:      16,
	}
}

// TestHypertreeSignThenVerify checks property 10: hypertreeVerify accepts a
// signature hypertreeSign produced, against the root topLevelRoot derives
// for the same seeds, for four (tree, leaf) positions including both ends of
// the valid range.
func TestHypertreeSignThenVerify(t *testing.T) {
	p := smallHypertreeParams()

	pubSeed := make([]byte, p.N)
	skSeed := make([]byte, p.N)
	rand.Read(pubSeed)
	rand.Read(skSeed)

	pkRoot := topLevelRoot(p, pubSeed, skSeed)

	th := p.TreeHeight()
	treeBits := p.FullHeight - th
	treeLimit := uint64(1) << uint(treeBits)
	leafLimit := uint32(1) << uint(th)

	for _, c := range []struct {
		tree uint64
		leaf uint32
	}{
		{0, 0},
		{1, 1},
		{treeLimit - 1, leafLimit - 1},
		{treeLimit / 2, leafLimit / 2},
	} {
		msgDigest := make([]byte, p.N)
		rand.Read(msgDigest)

		sess := sessionInit(p, pubSeed, skSeed)
		sessionPreparePath(sess, c.tree, c.leaf)
		sig := hypertreeSign(pubSeed, p, sess, c.tree, c.leaf, msgDigest)
		sess.close()

		if !hypertreeVerify(pubSeed, pkRoot, p, c.tree, c.leaf, msgDigest, sig) {
			t.Fatalf("tree=%d leaf=%d: hypertreeVerify rejected a genuine signature", c.tree, c.leaf)
		}
	}
}

func TestHypertreeVerifyRejectsWrongDigest(t *testing.T) {
	p := smallHypertreeParams()

	pubSeed := make([]byte, p.N)
	skSeed := make([]byte, p.N)
	rand.Read(pubSeed)
	rand.Read(skSeed)

	pkRoot := topLevelRoot(p, pubSeed, skSeed)

	var tree uint64 = 2
	var leaf uint32 = 1

	msgDigest := make([]byte, p.N)
	rand.Read(msgDigest)

	sess := sessionInit(p, pubSeed, skSeed)
	sessionPreparePath(sess, tree, leaf)
	sig := hypertreeSign(pubSeed, p, sess, tree, leaf, msgDigest)
	sess.close()

	wrongDigest := make([]byte, p.N)
	rand.Read(wrongDigest)
	if hypertreeVerify(pubSeed, pkRoot, p, tree, leaf, wrongDigest, sig) {
		t.Fatalf("verifying against the wrong message digest unexpectedly succeeded")
	}
}

func TestHypertreeVerifyRejectsWrongRoot(t *testing.T) {
	p := smallHypertreeParams()

	pubSeed := make([]byte, p.N)
	skSeed := make([]byte, p.N)
	rand.Read(pubSeed)
	rand.Read(skSeed)

	var tree uint64 = 3
	var leaf uint32 = 0

	msgDigest := make([]byte, p.N)
	rand.Read(msgDigest)

	sess := sessionInit(p, pubSeed, skSeed)
	sessionPreparePath(sess, tree, leaf)
	sig := hypertreeSign(pubSeed, p, sess, tree, leaf, msgDigest)
	sess.close()

	wrongRoot := make([]byte, p.N)
	rand.Read(wrongRoot)
	if hypertreeVerify(pubSeed, wrongRoot, p, tree, leaf, msgDigest, sig) {
		t.Fatalf("verifying against the wrong root unexpectedly succeeded")
	}
}
