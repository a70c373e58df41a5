package slhdsa

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestThashDeterministic(t *testing.T) {
	p, err := ParamsFromName("SLH-DSA-SHAKE-128s")
	if err != nil {
		t.Fatalf("ParamsFromName: %v", err)
	}

	pubSeed := make([]byte, p.N)
	rand.Read(pubSeed)
	var adrs address
	adrs.setLayer(3)
	data := make([]byte, 2*p.N)
	rand.Read(data)

	out1 := make([]byte, p.N)
	out2 := make([]byte, p.N)
	thash(out1, p, pubSeed, adrs, data[:p.N], data[p.N:])
	thash(out2, p, pubSeed, adrs, data[:p.N], data[p.N:])
	if !bytes.Equal(out1, out2) {
		t.Fatalf("thash is not deterministic")
	}

	adrs.setLayer(4)
	out3 := make([]byte, p.N)
	thash(out3, p, pubSeed, adrs, data[:p.N], data[p.N:])
	if bytes.Equal(out1, out3) {
		t.Fatalf("thash did not change when the ADRS changed")
	}
}

func TestPrfMsgDistinguishesOptRand(t *testing.T) {
	p, _ := ParamsFromName("SLH-DSA-SHAKE-128s")
	skPRF := make([]byte, p.N)
	rand.Read(skPRF)
	msg := []byte("a message to be signed")

	optRand1 := make([]byte, p.N)
	optRand2 := make([]byte, p.N)
	rand.Read(optRand1)
	rand.Read(optRand2)

	r1 := make([]byte, p.N)
	r2 := make([]byte, p.N)
	prfMsg(r1, p, skPRF, optRand1, msg)
	prfMsg(r2, p, skPRF, optRand2, msg)

	if bytes.Equal(r1, r2) {
		t.Fatalf("prfMsg produced the same R for two different optRand values")
	}
}

func TestDigestSplitSizesCoverWholeMessageDigest(t *testing.T) {
	for _, name := range ListNames() {
		p, err := ParamsFromName(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		mdLen, treeLen, leafLen := digestSplitSizes(p)

		expectMdBits := p.FORSHeight * p.FORSTrees
		if mdLen*8 < expectMdBits {
			t.Fatalf("%s: mdLen=%d bytes too small for %d digest bits", name, mdLen, expectMdBits)
		}

		treeBits := p.FullHeight - p.TreeHeight()
		if treeLen*8 < treeBits {
			t.Fatalf("%s: treeLen=%d bytes too small for %d tree-index bits", name, treeLen, treeBits)
		}

		if leafLen*8 < p.TreeHeight() {
			t.Fatalf("%s: leafLen=%d bytes too small for %d leaf-index bits", name, leafLen, p.TreeHeight())
		}
	}
}

func TestHMsgIsSensitiveToEveryInput(t *testing.T) {
	n := 16
	r := make([]byte, n)
	pubSeed := make([]byte, n)
	pkRoot := make([]byte, n)
	msg := []byte("message")
	rand.Read(r)
	rand.Read(pubSeed)
	rand.Read(pkRoot)

	base := make([]byte, 64)
	hMsg(base, r, pubSeed, pkRoot, msg)

	variants := [][]byte{
		func() []byte { r2 := append([]byte(nil), r...); r2[0] ^= 1; out := make([]byte, 64); hMsg(out, r2, pubSeed, pkRoot, msg); return out }(),
		func() []byte { s2 := append([]byte(nil), pubSeed...); s2[0] ^= 1; out := make([]byte, 64); hMsg(out, r, s2, pkRoot, msg); return out }(),
		func() []byte { k2 := append([]byte(nil), pkRoot...); k2[0] ^= 1; out := make([]byte, 64); hMsg(out, r, pubSeed, k2, msg); return out }(),
		func() []byte { out := make([]byte, 64); hMsg(out, r, pubSeed, pkRoot, []byte("Message")); return out }(),
	}
	for i, v := range variants {
		if bytes.Equal(base, v) {
			t.Fatalf("variant %d did not change H_msg's output", i)
		}
	}
}
