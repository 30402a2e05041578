package bbs

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/internal/common"
	"github.com/cryptoutil/bbsplus/pkg/utils"
)

// SecretKeyProof is a Schnorr proof of knowledge of x such that w = g2^x,
// binding a PublicKey to its issuer without revealing x. This is a separate
// relation from the signature proof of knowledge in proof.go: it proves
// possession of the key itself, not of a signature issued under it.
type SecretKeyProof struct {
	T bls12381.G2Affine
	Z *big.Int
}

// ProveSecretKey proves knowledge of sk's scalar relative to params.G2: it
// commits T = g2^r for a fresh random r, derives the challenge c from
// (T, w, header), and responds z = r + c*x mod Order.
func ProveSecretKey(sk *SecretKey, params *SignatureParams, header []byte, rng io.Reader) (*SecretKeyProof, error) {
	if sk == nil || params == nil {
		return nil, fmt.Errorf("bbs: %w", common.ErrInvalidParameter)
	}

	r, err := utils.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to draw secret key proof blinding: %w", err)
	}
	t := scalarMulG2(params.G2, r)

	w := PublicKeyFromSecret(sk, params).W
	c := computeSecretKeyChallenge(t, w, header)

	z := new(big.Int).Mul(c, sk.value())
	z.Add(z, r)
	z.Mod(z, common.Order)

	return &SecretKeyProof{T: t, Z: z}, nil
}

// VerifySecretKeyProof checks proof against pk, params, and header: it
// recomputes the challenge from (proof.T, pk.W, header) and checks
// g2^z == T · w^c.
func VerifySecretKeyProof(pk *PublicKey, params *SignatureParams, proof *SecretKeyProof, header []byte) error {
	if pk == nil || params == nil || proof == nil {
		return fmt.Errorf("bbs: %w", common.ErrInvalidParameter)
	}
	if !pk.IsValid() {
		return fmt.Errorf("bbs: %w", common.ErrInvalidPublicKey)
	}

	c := computeSecretKeyChallenge(proof.T, pk.W, header)

	lhs := scalarMulG2(params.G2, proof.Z)

	var tJac bls12381.G2Jac
	tJac.FromAffine(&proof.T)
	var wcJac bls12381.G2Jac
	wcJac.FromAffine(&pk.W)
	wcJac.ScalarMultiplication(&wcJac, c)
	tJac.AddAssign(&wcJac)

	var rhs bls12381.G2Affine
	rhs.FromJacobian(&tJac)

	if !lhs.Equal(&rhs) {
		return fmt.Errorf("bbs: %w: secret key proof of knowledge rejected", common.ErrInvalidProof)
	}
	return nil
}

func computeSecretKeyChallenge(t, w bls12381.G2Affine, header []byte) *big.Int {
	h := sha256.New()
	h.Write(t.Marshal())
	h.Write(w.Marshal())
	h.Write(header)
	digest := h.Sum(nil)
	c := new(big.Int).SetBytes(digest)
	return c.Mod(c, common.Order)
}

func scalarMulG2(p bls12381.G2Affine, s *big.Int) bls12381.G2Affine {
	var jac bls12381.G2Jac
	jac.FromAffine(&p)
	jac.ScalarMultiplication(&jac, s)
	var out bls12381.G2Affine
	out.FromJacobian(&jac)
	return out
}
