package slhdsa

// MarshalBinary encodes pk as PK.seed || PK.root, FIPS-205's public-key
// wire format.
func (pk *PublicKey) MarshalBinary() ([]byte, error) {
	out := make([]byte, 2*pk.p.N)
	copy(out, pk.pubSeed)
	copy(out[pk.p.N:], pk.pkRoot)
	return out, nil
}

// UnmarshalPublicKey decodes a public key previously produced by
// MarshalBinary for the named parameter set.
func UnmarshalPublicKey(paramsName string, buf []byte) (*PublicKey, Error) {
	p, err := ParamsFromName(paramsName)
	if err != nil {
		return nil, err
	}
	if len(buf) != p.PublicKeySize() {
		return nil, errorf("public key has %d bytes, expected %d", len(buf), p.PublicKeySize())
	}
	return &PublicKey{
		p:       p,
		pubSeed: append([]byte(nil), buf[:p.N]...),
		pkRoot:  append([]byte(nil), buf[p.N:2*p.N]...),
	}, nil
}

// MarshalBinary encodes sk as SK.seed || SK.prf || PK.seed || PK.root,
// FIPS-205's private-key wire format.
func (sk *PrivateKey) MarshalBinary() ([]byte, error) {
	n := sk.p.N
	out := make([]byte, 4*n)
	copy(out[0*n:], sk.skSeed)
	copy(out[1*n:], sk.skPRF)
	copy(out[2*n:], sk.pubSeed)
	copy(out[3*n:], sk.pkRoot)
	return out, nil
}

// UnmarshalPrivateKey decodes a private key previously produced by
// MarshalBinary for the named parameter set.
func UnmarshalPrivateKey(paramsName string, buf []byte) (*PrivateKey, Error) {
	p, err := ParamsFromName(paramsName)
	if err != nil {
		return nil, err
	}
	if len(buf) != p.PrivateKeySize() {
		return nil, errorf("private key has %d bytes, expected %d", len(buf), p.PrivateKeySize())
	}
	n := p.N
	return &PrivateKey{
		p:       p,
		skSeed:  append([]byte(nil), buf[0*n:1*n]...),
		skPRF:   append([]byte(nil), buf[1*n:2*n]...),
		pubSeed: append([]byte(nil), buf[2*n:3*n]...),
		pkRoot:  append([]byte(nil), buf[3*n:4*n]...),
	}, nil
}

// MarshalBinary encodes sig as R || FORS-signature || hypertree-signature.
func (sig *Signature) MarshalBinary() ([]byte, error) {
	out := make([]byte, 0, sig.p.N+len(sig.forsSig)+len(sig.htSig))
	out = append(out, sig.r...)
	out = append(out, sig.forsSig...)
	out = append(out, sig.htSig...)
	return out, nil
}

// UnmarshalSignature decodes a signature previously produced by
// MarshalBinary for the named parameter set.
func UnmarshalSignature(paramsName string, buf []byte) (*Signature, Error) {
	p, err := ParamsFromName(paramsName)
	if err != nil {
		return nil, err
	}
	if len(buf) != p.SigSize() {
		return nil, errorf("signature has %d bytes, expected %d", len(buf), p.SigSize())
	}

	n := p.N
	a := p.FORSHeight
	forsSigSize := p.FORSTrees * (1 + a) * n
	htSigSize := p.D * (p.WotsLen()*n + p.TreeHeight()*n)

	return &Signature{
		p:       p,
		r:       append([]byte(nil), buf[:n]...),
		forsSig: append([]byte(nil), buf[n:n+forsSigSize]...),
		htSig:   append([]byte(nil), buf[n+forsSigSize:n+forsSigSize+htSigSize]...),
	}, nil
}
