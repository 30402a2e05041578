package bbs

import (
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// SignatureParams are the public generators a signer and every verifier must
// agree on: a G1 generator g1, a G2 generator g2, a blinding base h0, and one
// message-specific base per supported message slot.
type SignatureParams struct {
	G1 bls12381.G1Affine
	G2 bls12381.G2Affine
	H0 bls12381.G1Affine
	H  []bls12381.G1Affine
}

// SupportedMessageCount returns the number of message slots these parameters
// support (len(H)).
func (p *SignatureParams) SupportedMessageCount() int {
	return len(p.H)
}

// IsValid reports whether every generator is a non-identity element. It does
// not check subgroup membership; see DeserializeSignatureParams.
func (p *SignatureParams) IsValid() bool {
	if p.G1.IsInfinity() || p.G2.IsInfinity() || p.H0.IsInfinity() {
		return false
	}
	for i := range p.H {
		if p.H[i].IsInfinity() {
			return false
		}
	}
	return true
}

// MessageVector maps a 1-based message slot index to its scalar value. Sign,
// Verify and ProveKnowledge require an entry for every slot in
// 1..SupportedMessageCount(); which slots a proof discloses is given by a
// separate disclosed map, not by which entries are present.
type MessageVector map[int]*big.Int

// SecretKey is the BBS+ signing exponent x. It is move-only: callers must
// call Destroy exactly once when finished and must not copy the struct by
// value across goroutine boundaries after doing so.
type SecretKey struct {
	x         *big.Int
	destroyed bool
}

// PublicKey is w = g2^x. It carries no reference to the SignatureParams it
// was derived under; callers that accept a (PublicKey, SignatureParams) pair
// from different sources are responsible for checking they are meant to be
// used together (see Verify's precondition).
type PublicKey struct {
	W bls12381.G2Affine
}

// IsValid reports whether W is a non-identity element.
func (pk *PublicKey) IsValid() bool {
	return !pk.W.IsInfinity()
}

// Signature is a BBS+ signature (A, e, s) over a committed message vector.
type Signature struct {
	A bls12381.G1Affine
	E *big.Int
	S *big.Int
}
