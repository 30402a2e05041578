package bbs

import (
	"crypto/rand"
	"fmt"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/internal/common"
	"github.com/cryptoutil/bbsplus/pkg/utils"
)

// Verify checks that sig is a valid BBS+ signature over messages under
// (pk, params), via the pairing equation e(A, w·g2^e) = e(B(m,s), g2),
// restated as the single product-of-pairings check
// e(A, w·g2^e) · e(B(m,s), -g2) = 1 so a single call to the pairing product
// suffices. Callers are responsible for ensuring pk was generated under
// params; Verify does not and cannot check that binding.
func Verify(pk *PublicKey, params *SignatureParams, sig *Signature, messages MessageVector) error {
	if pk == nil || params == nil || sig == nil {
		return fmt.Errorf("bbs: %w", common.ErrInvalidParameter)
	}
	if sig.A.IsInfinity() {
		return fmt.Errorf("bbs: %w: A is the identity", common.ErrInvalidSignature)
	}
	if !pk.IsValid() {
		return fmt.Errorf("bbs: %w", common.ErrInvalidPublicKey)
	}

	b, err := params.B(messages, sig.S)
	if err != nil {
		return fmt.Errorf("bbs: failed to recompute B: %w", err)
	}

	var g2eJac bls12381.G2Jac
	g2eJac.FromAffine(&params.G2)
	g2eJac.ScalarMultiplication(&g2eJac, sig.E)

	var wJac bls12381.G2Jac
	wJac.FromAffine(&pk.W)
	wJac.AddAssign(&g2eJac)

	var rhs bls12381.G2Affine
	rhs.FromJacobian(&wJac)

	var negG2Jac bls12381.G2Jac
	negG2Jac.FromAffine(&params.G2)
	negG2Jac.Neg(&negG2Jac)

	var negG2 bls12381.G2Affine
	negG2.FromJacobian(&negG2Jac)

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{sig.A, b},
		[]bls12381.G2Affine{rhs, negG2},
	)
	if err != nil {
		return fmt.Errorf("bbs: pairing computation failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("bbs: %w", common.ErrSignatureVerificationFailed)
	}
	return nil
}

// BatchVerify checks a slice of (signature, messages) pairs under a single
// (pk, params). Each signature's pairing terms are scaled by an independent
// random coefficient before being combined into one product-of-pairings
// check: without this, an attacker holding two signatures that each fail
// verification individually could in principle construct a pair whose
// pairing terms cancel in an unweighted sum and pass a batch check neither
// would pass alone (the small-exponents batching attack classic to
// pairing-based batch verification). Random per-signature weights make that
// cancellation negligible. Still fails closed: a single invalid signature in
// the batch fails the whole batch, with no indication of which one.
func BatchVerify(pk *PublicKey, params *SignatureParams, sigs []*Signature, messageSets []MessageVector) error {
	if pk == nil || params == nil {
		return fmt.Errorf("bbs: %w", common.ErrInvalidParameter)
	}
	if len(sigs) != len(messageSets) {
		return fmt.Errorf("bbs: %w", common.ErrMismatchedLengths)
	}
	if len(sigs) == 0 {
		return nil
	}
	if !pk.IsValid() {
		return fmt.Errorf("bbs: %w", common.ErrInvalidPublicKey)
	}

	g1Points := make([]bls12381.G1Affine, 0, 2*len(sigs))
	g2Points := make([]bls12381.G2Affine, 0, 2*len(sigs))

	var negG2Jac bls12381.G2Jac
	negG2Jac.FromAffine(&params.G2)
	negG2Jac.Neg(&negG2Jac)
	var negG2 bls12381.G2Affine
	negG2.FromJacobian(&negG2Jac)

	for i, sig := range sigs {
		if sig == nil || sig.A.IsInfinity() {
			return fmt.Errorf("bbs: %w: signature %d has identity A", common.ErrInvalidSignature, i)
		}

		b, err := params.B(messageSets[i], sig.S)
		if err != nil {
			return fmt.Errorf("bbs: failed to recompute B for signature %d: %w", i, err)
		}

		var g2eJac bls12381.G2Jac
		g2eJac.FromAffine(&params.G2)
		g2eJac.ScalarMultiplication(&g2eJac, sig.E)

		var wJac bls12381.G2Jac
		wJac.FromAffine(&pk.W)
		wJac.AddAssign(&g2eJac)

		var rhs bls12381.G2Affine
		rhs.FromJacobian(&wJac)

		// Skip a random weight for the first signature: scaling every term
		// by the same nonzero constant does not change whether the product
		// equals one, so one signature can keep weight 1 and save a scalar
		// multiplication without weakening the randomization.
		if i == 0 {
			g1Points = append(g1Points, sig.A, b)
			g2Points = append(g2Points, rhs, negG2)
			continue
		}

		weight, err := utils.RandomScalar(rand.Reader)
		if err != nil {
			return fmt.Errorf("bbs: failed to draw batch weight for signature %d: %w", i, err)
		}

		var weightedA bls12381.G1Jac
		weightedA.FromAffine(&sig.A)
		weightedA.ScalarMultiplication(&weightedA, weight)
		var weightedAAff bls12381.G1Affine
		weightedAAff.FromJacobian(&weightedA)

		var weightedB bls12381.G1Jac
		weightedB.FromAffine(&b)
		weightedB.ScalarMultiplication(&weightedB, weight)
		var weightedBAff bls12381.G1Affine
		weightedBAff.FromJacobian(&weightedB)

		g1Points = append(g1Points, weightedAAff, weightedBAff)
		g2Points = append(g2Points, rhs, negG2)
	}

	ok, err := bls12381.PairingCheck(g1Points, g2Points)
	if err != nil {
		return fmt.Errorf("bbs: pairing computation failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("bbs: %w", common.ErrSignatureVerificationFailed)
	}
	return nil
}
