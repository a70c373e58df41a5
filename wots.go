package slhdsa

import (
	"github.com/bwesterb/go-slhdsa-masked/internal/keccakx4"
	"github.com/bwesterb/go-slhdsa-masked/masked"
	"github.com/templexxx/xor"
)

// toBaseW splits an n-byte digest into outLen digits in base WotsW (16 for
// this parameter family, i.e. nibbles).
func toBaseW(x []byte, outLen int) []int {
	out := make([]int, outLen)
	for i := 0; i < outLen; i++ {
		b := x[i/2]
		if i%2 == 0 {
			out[i] = int(b >> 4)
		} else {
			out[i] = int(b & 0x0f)
		}
	}
	return out
}

// wotsDigits computes the full WotsLen base-16 digit sequence for a message
// digest: the WotsLen1 message digits followed by the WotsLen2 checksum
// digits.
func wotsDigits(p *Params, msgDigest []byte) []int {
	digits := make([]int, p.WotsLen())
	copy(digits, toBaseW(msgDigest, p.WotsLen1()))

	csum := 0
	for i := 0; i < p.WotsLen1(); i++ {
		csum += p.WotsW - 1 - digits[i]
	}
	// Left-align the checksum within the bits needed for WotsLen2 digits.
	csum <<= uint(8 - (p.WotsLen2()*4)%8)
	csumBytes := make([]byte, (p.WotsLen2()*4+7)/8)
	encodeUint64Into(uint64(csum), csumBytes)
	copy(digits[p.WotsLen1():], toBaseW(csumBytes, p.WotsLen2()))
	return digits
}

// foldShares XORs the three n-byte shares of shared together into dst.
func foldShares(dst []byte, shared []byte, n int) {
	xor.BytesSameLen(dst, shared[:n], shared[n:2*n])
	xor.BytesSameLen(dst, dst, shared[2*n:3*n])
}

// wotsGenLeafX1 is the masked WOTS+ leaf generator (component I, WOTS
// form, external interface #3 `wots_leaf`). For every chain it draws the
// chain's starting secret from the PRF iterator it, keeps the chain masked
// through successive F-transforms (component D+B), and — if signDigits is
// non-nil (this is the leaf actually being signed) — reveals the chain value
// at the precomputed Winternitz step into sig. It always returns the leaf's
// public key hash (the thash compression of every chain's topmost value).
func wotsGenLeafX1(pubSeed []byte, p *Params, it *masked.PRFIter, layerAdrs address, leafIdx uint32, signDigits []int, sig []byte) []byte {
	n := p.N
	pkChains := make([]byte, p.WotsLen()*n)

	chainAdrs := layerAdrs
	chainAdrs.setType(AddrTypeWOTSHash)
	chainAdrs.setKeyPair(leafIdx)

	for i := 0; i < p.WotsLen(); i++ {
		shared := make([]byte, 3*n)
		masked.PRFIterNext(it, shared)

		chainAdrs.setChain(uint32(i))
		chainAdrs.setHash(0)

		target := p.WotsW - 1
		revealAt := -1
		if signDigits != nil {
			revealAt = signDigits[i]
		}

		var plain []byte // non-nil once the chain value has been unmasked

		if revealAt == 0 {
			plain = make([]byte, n)
			foldShares(plain, shared, n)
			copy(sig[i*n:(i+1)*n], plain)
		}

		var cs masked.ChainState
		if plain == nil {
			masked.SetUpFBlock(&cs, n, pubSeed, chainAdrs.toBytes(), shared)
		}

		for step := 0; step < target; step++ {
			if plain != nil {
				chainAdrs.setHash(uint32(step))
				thash(plain, p, pubSeed, chainAdrs, plain)
				if revealAt == step+1 {
					copy(sig[i*n:(i+1)*n], plain)
				}
				continue
			}

			if step > 0 {
				chainAdrs.setHash(uint32(step))
				masked.SetAdrs(&cs, chainAdrs.toBytes())
			}

			last := step == target-1
			reveal := revealAt == step+1
			masked.FTransform(&cs, !(last || reveal))

			if last || reveal {
				plain = make([]byte, n)
				masked.UntransformF(plain, cs.S[0][:], cs.Off, n)
				if reveal {
					copy(sig[i*n:(i+1)*n], plain)
				}
			}
		}

		copy(pkChains[i*n:(i+1)*n], plain)
		masked.ZeroiseState(&cs.S)
		masked.Zeroise(shared)
	}

	leafAdrs := layerAdrs
	leafAdrs.setType(AddrTypeWOTSPK)
	leafAdrs.setKeyPair(leafIdx)
	leaf := make([]byte, n)
	thash(leaf, p, pubSeed, leafAdrs, pkChains)
	return leaf
}

// wotsPkFromSig is the unmasked verifier reconstruction: given a WOTS+
// signature and the message digest it signs, it completes every chain from
// the revealed point to the top and recomputes the leaf public key hash. It
// never touches the masked core; since every chain advances independently of
// every other, the per-step F evaluations are batched four at a time via
// internal/keccakx4 rather than run one at a time through the generic thash
// sponge.
func wotsPkFromSig(pubSeed []byte, p *Params, layerAdrs address, leafIdx uint32, msgDigest, sig []byte) []byte {
	n := p.N
	wlen := p.WotsLen()
	digits := wotsDigits(p, msgDigest)
	pkChains := make([]byte, wlen*n)

	chainAdrs := make([]address, wlen)
	v := make([][]byte, wlen)
	remaining := make([]int, wlen)
	maxRemaining := 0
	for i := 0; i < wlen; i++ {
		a := layerAdrs
		a.setType(AddrTypeWOTSHash)
		a.setKeyPair(leafIdx)
		a.setChain(uint32(i))
		chainAdrs[i] = a

		v[i] = make([]byte, n)
		copy(v[i], sig[i*n:(i+1)*n])

		remaining[i] = p.WotsW - 1 - digits[i]
		if remaining[i] > maxRemaining {
			maxRemaining = remaining[i]
		}
	}

	for round := 0; round < maxRemaining; round++ {
		for base := 0; base < wlen; base += 4 {
			var items [4]*keccakx4.FItem
			for lane := 0; lane < 4 && base+lane < wlen; lane++ {
				i := base + lane
				if round >= remaining[i] {
					continue
				}
				chainAdrs[i].setHash(uint32(digits[i] + round))
				items[lane] = &keccakx4.FItem{
					Adrs:   chainAdrs[i].toBytes(),
					Secret: v[i],
					Out:    v[i],
				}
			}
			keccakx4.FBlockX4(n, pubSeed, items)
		}
	}

	for i := 0; i < wlen; i++ {
		copy(pkChains[i*n:(i+1)*n], v[i])
	}

	leafAdrs := layerAdrs
	leafAdrs.setType(AddrTypeWOTSPK)
	leafAdrs.setKeyPair(leafIdx)
	leaf := make([]byte, n)
	thash(leaf, p, pubSeed, leafAdrs, pkChains)
	return leaf
}
