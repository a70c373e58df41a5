package masked

import (
	"bytes"
	"crypto/rand"
	"testing"

	"golang.org/x/crypto/sha3"
)

func plainSHAKE(n int, pubSeed, adrs, secret []byte) []byte {
	h := sha3.NewShake256()
	h.Write(pubSeed)
	h.Write(adrs)
	h.Write(secret)
	out := make([]byte, n)
	h.Read(out)
	return out
}

// share splits logical into a fresh 2-of-3 XOR split, n bytes per share.
func share(n int, logical []byte) []byte {
	out := make([]byte, 3*n)
	rand.Read(out[:2*n])
	for i := 0; i < n; i++ {
		out[2*n+i] = logical[i] ^ out[i] ^ out[n+i]
	}
	return out
}

func unshare(n int, shared []byte) []byte {
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		out[i] = shared[i] ^ shared[n+i] ^ shared[2*n+i]
	}
	return out
}

func testAdrsFor(base byte) AdrsForNode {
	return func(node uint32) []byte {
		a := make([]byte, 32)
		a[0] = base
		a[28] = byte(node >> 24)
		a[29] = byte(node >> 16)
		a[30] = byte(node >> 8)
		a[31] = byte(node)
		return a
	}
}

// TestMaskedFEqualsPlainF is scenario S4: for random (pubSeed, adrs, secret)
// triples, the unmasked output of a masked F transform equals plain
// SHAKE-256 of pubSeed || adrs || secret.
func TestMaskedFEqualsPlainF(t *testing.T) {
	n := 32
	for trial := 0; trial < 64; trial++ {
		pubSeed := make([]byte, n)
		adrs := make([]byte, 32)
		secret := make([]byte, n)
		rand.Read(pubSeed)
		rand.Read(adrs)
		rand.Read(secret)

		sharedSecret := share(n, secret)

		var cs ChainState
		SetUpFBlock(&cs, n, pubSeed, adrs, sharedSecret)
		FTransform(&cs, false)

		got := make([]byte, n)
		UntransformF(got, cs.S[0][:], cs.Off, n)

		want := plainSHAKE(n, pubSeed, adrs, secret)
		if !bytes.Equal(got, want) {
			t.Fatalf("trial %d: masked F = %x, want %x", trial, got, want)
		}
	}
}

// TestPRFHashReconstruction is invariant 1 applied to the PRF node
// evaluator: the shared digest it emits reconstructs to plain SHAKE-256 of
// the same input.
func TestPRFHashReconstruction(t *testing.T) {
	n := 16
	pubSeed := make([]byte, n)
	adrs := make([]byte, 32)
	secret := make([]byte, n)
	rand.Read(pubSeed)
	rand.Read(adrs)
	rand.Read(secret)

	sharedIn := share(n, secret)
	sharedOut := make([]byte, 3*n)
	PRFHash(sharedOut, n, pubSeed, adrs, sharedIn)

	got := unshare(n, sharedOut)
	want := plainSHAKE(n, pubSeed, adrs, secret)
	if !bytes.Equal(got, want) {
		t.Fatalf("PRFHash reconstructs to %x, want %x", got, want)
	}
}

// TestIncrementHashAddr is scenario S5: incrementing the chain-state's hash
// address k times matches building the state directly with hash_addr = k.
func TestIncrementHashAddr(t *testing.T) {
	n := 16
	pubSeed := make([]byte, n)
	secret := make([]byte, n)
	rand.Read(pubSeed)
	rand.Read(secret)
	sharedSecret := share(n, secret)

	for _, k := range []uint32{1, 7, 15} {
		var csInc ChainState
		adrs0 := make([]byte, 32)
		SetUpFBlock(&csInc, n, pubSeed, adrs0, sharedSecret)
		for i := uint32(0); i < k; i++ {
			IncrementHashAddr(&csInc, 3, i+1)
		}

		var csDirect ChainState
		adrsK := make([]byte, 32)
		adrsK[31] = byte(k)
		SetUpFBlock(&csDirect, n, pubSeed, adrsK, sharedSecret)

		if csInc.S[0][csInc.N+3] != csDirect.S[0][csDirect.N+3] {
			t.Fatalf("k=%d: incremented ADRS lane %x != direct %x", k, csInc.S[0][csInc.N+3], csDirect.S[0][csDirect.N+3])
		}
	}
}

// TestBParameterEquivalenceUnsharedPath is invariant 7: the masked permutation's logical
// output does not depend on BlindRounds. Since BlindRounds is a package
// constant in this implementation, this test instead checks the unshared
// fallback path agrees with a from-scratch unshared permutation for B=3
// (the only compiled value), documenting the invariant the constant must
// uphold if ever changed to 2.
func TestBParameterEquivalenceUnsharedPath(t *testing.T) {
	var state [25]uint64
	rand.Read(lanesAsBytes(state[:]))
	want := state
	PermuteUnshared(&want)

	var shared SharedState
	shared[0] = state
	var out SharedState
	Permute(shared, &out, false)

	got := out[0]
	for i := range out[1] {
		got[i] ^= out[1][i] ^ out[2][i]
	}
	if got != want {
		t.Fatalf("masked permutation with trivial sharing disagrees with plain permutation")
	}
}

func lanesAsBytes(lanes []uint64) []byte {
	b := make([]byte, 8*len(lanes))
	for i, l := range lanes {
		for j := 0; j < 8; j++ {
			b[8*i+j] = byte(l >> (8 * j))
		}
		_ = l
	}
	return b
}

// TestPRFIterMatchesEvalSingle is scenario S3: the iterator's emitted
// external-node values match independent calls to EvalSingle, in order.
func TestPRFIterMatchesEvalSingle(t *testing.T) {
	n := 16
	nExt := uint32(64)
	pubSeed := make([]byte, n)
	rand.Read(pubSeed)
	root := make([]byte, 3*n)
	rand.Read(root)
	adrsFor := testAdrsFor(0x01)

	var it PRFIter
	PRFIterInit(&it, nExt, nExt-1, root, n, pubSeed, adrsFor)

	for i := uint32(0); i < nExt; i++ {
		gotShared := make([]byte, 3*n)
		idx := PRFIterNext(&it, gotShared)
		if idx != int(i) {
			t.Fatalf("iterator index %d, want %d", idx, i)
		}

		wantShared := make([]byte, 3*n)
		EvalSingle(wantShared, n, pubSeed, adrsFor, root, i, nExt)

		if !bytes.Equal(unshare(n, gotShared), unshare(n, wantShared)) {
			t.Fatalf("external node %d: iterator %x, eval_single %x", i, unshare(n, gotShared), unshare(n, wantShared))
		}
	}

	if idx := PRFIterNext(&it, make([]byte, 3*n)); idx != -1 {
		t.Fatalf("iterator should be exhausted, got index %d", idx)
	}
}

// TestPRFIterSingleExternalNode is the n_ext = 1 boundary behaviour: the
// iterator yields the single external node at index 0 (with
// minNode = (1+1)/3 = 0 that node is the root itself) and then returns -1.
func TestPRFIterSingleExternalNode(t *testing.T) {
	n := 16
	pubSeed := make([]byte, n)
	root := make([]byte, 3*n)
	rand.Read(root)
	adrsFor := testAdrsFor(0x02)

	var it PRFIter
	PRFIterInit(&it, 1, 0, root, n, pubSeed, adrsFor)

	out := make([]byte, 3*n)
	if idx := PRFIterNext(&it, out); idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}
	if idx := PRFIterNext(&it, out); idx != -1 {
		t.Fatalf("expected -1 after single node, got %d", idx)
	}
}
