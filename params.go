package slhdsa

import "fmt"

// Params describes one SLH-DSA-SHAKE parameter set (FIPS-205 table 2,
// restricted to the SHAKE "simple" family, per this core's non-goals).
type Params struct {
	Name string

	N          int // security parameter / digest width in bytes
	FullHeight int // total hypertree height (hPrime*D)
	D          int // number of hypertree layers
	FORSHeight int // height of each FORS tree (a)
	FORSTrees  int // number of FORS trees (k)

	WotsW int // Winternitz parameter, fixed at 16 for this family

	OID uint32
}

// TreeHeight is the height of a single Merkle tree within one hypertree
// layer.
func (p *Params) TreeHeight() int { return p.FullHeight / p.D }

// WotsLogW is log2(WotsW).
func (p *Params) WotsLogW() int { return 4 }

// WotsLen1 is the number of base-w digits needed to encode an n-byte
// message digest.
func (p *Params) WotsLen1() int { return (8 * p.N) / p.WotsLogW() }

// WotsLen2 is the number of base-w digits in the WOTS+ checksum; fixed at 3
// for WotsW=16 and n in {16,24,32}.
func (p *Params) WotsLen2() int { return 3 }

// WotsLen is the total number of WOTS+ chains.
func (p *Params) WotsLen() int { return p.WotsLen1() + p.WotsLen2() }

// SigSize is the total byte length of a signature under this parameter set:
// the randomiser R, the FORS signature, and D WOTS+ signatures each paired
// with a Merkle authentication path.
func (p *Params) SigSize() int {
	forsSig := p.FORSTrees * (1 + p.FORSHeight) * p.N
	wotsSig := p.WotsLen() * p.N
	authPath := p.TreeHeight() * p.N
	return p.N + forsSig + p.D*(wotsSig+authPath)
}

// PublicKeySize is the byte length of a marshalled public key: pub_seed || root.
func (p *Params) PublicKeySize() int { return 2 * p.N }

// PrivateKeySize is the byte length of a marshalled private key:
// sk_seed || sk_prf || pub_seed || root.
func (p *Params) PrivateKeySize() int { return 4 * p.N }

type regEntry struct {
	params Params
}

var registry map[string]regEntry
var oidIndex map[uint32]string

func register(p Params) {
	registry[p.Name] = regEntry{params: p}
	oidIndex[p.OID] = p.Name
}

func init() {
	registry = make(map[string]regEntry)
	oidIndex = make(map[uint32]string)

	register(Params{Name: "SLH-DSA-SHAKE-128s", N: 16, FullHeight: 63, D: 7, FORSHeight: 12, FORSTrees: 14, WotsW: 16, OID: 0x1A})
	register(Params{Name: "SLH-DSA-SHAKE-128f", N: 16, FullHeight: 66, D: 22, FORSHeight: 6, FORSTrees: 33, WotsW: 16, OID: 0x1B})
	register(Params{Name: "SLH-DSA-SHAKE-192s", N: 24, FullHeight: 63, D: 7, FORSHeight: 14, FORSTrees: 17, WotsW: 16, OID: 0x1C})
	register(Params{Name: "SLH-DSA-SHAKE-192f", N: 24, FullHeight: 66, D: 22, FORSHeight: 8, FORSTrees: 33, WotsW: 16, OID: 0x1D})
	register(Params{Name: "SLH-DSA-SHAKE-256s", N: 32, FullHeight: 64, D: 8, FORSHeight: 14, FORSTrees: 22, WotsW: 16, OID: 0x1E})
	register(Params{Name: "SLH-DSA-SHAKE-256f", N: 32, FullHeight: 68, D: 17, FORSHeight: 9, FORSTrees: 35, WotsW: 16, OID: 0x1F})
}

// ParamsFromName looks up a parameter set by its SLH-DSA name, e.g.
// "SLH-DSA-SHAKE-128s".
func ParamsFromName(name string) (*Params, Error) {
	entry, ok := registry[name]
	if !ok {
		return nil, errorf("unknown parameter set %s", name)
	}
	p := entry.params
	return &p, nil
}

// ParamsFromOid looks up a parameter set by its FIPS-205 OID suffix byte.
func ParamsFromOid(oid uint32) (*Params, Error) {
	name, ok := oidIndex[oid]
	if !ok {
		return nil, errorf("unknown parameter OID %#x", oid)
	}
	return ParamsFromName(name)
}

// ListNames returns the names of all registered parameter sets.
func ListNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

func (p *Params) String() string {
	return fmt.Sprintf("%s(n=%d)", p.Name, p.N)
}
