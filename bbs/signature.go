package bbs

import (
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/internal/common"
	"github.com/cryptoutil/bbsplus/pkg/utils"
)

// Sign produces a BBS+ signature over every message slot 1..params.SupportedMessageCount().
// It samples e and s uniformly, computes b = B(messages, s), and sets
// A = b^(1/(e+x)). On the negligible event e+x ≡ 0 (mod Order) it resamples
// e rather than fail, retrying on a degenerate exponent
// pattern.
func Sign(sk *SecretKey, params *SignatureParams, messages MessageVector, rng io.Reader) (*Signature, error) {
	if sk == nil || params == nil {
		return nil, fmt.Errorf("bbs: %w", common.ErrInvalidParameter)
	}

	s, err := utils.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to draw s: %w", err)
	}

	b, err := params.B(messages, s)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to compute B: %w", err)
	}

	var e *big.Int
	var exponent *big.Int
	for {
		e, err = utils.RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("bbs: failed to draw e: %w", err)
		}
		exponent = new(big.Int).Add(e, sk.value())
		exponent.Mod(exponent, common.Order)
		if exponent.Sign() != 0 {
			break
		}
	}

	inv := new(big.Int).ModInverse(exponent, common.Order)
	if inv == nil {
		return nil, fmt.Errorf("bbs: e+x has no inverse mod Order")
	}

	var bJac bls12381.G1Jac
	bJac.FromAffine(&b)
	bJac.ScalarMultiplication(&bJac, inv)

	var a bls12381.G1Affine
	a.FromJacobian(&bJac)

	return &Signature{A: a, E: e, S: s}, nil
}

// BlindSign produces the signer's half of a blind signature over a holder
// commitment on the hidden message slots plus a signer-known message vector
// over the remaining slots. commitment must equal
// params.CommitToMessages(hiddenMessages, s') for some blinding s' only the
// holder knows. BlindSign samples its own s'' and e, and returns a Signature
// whose S field holds s'' rather than the final s; the holder combines it as
// s = s' + s'' before using the signature, since only the holder knows s'.
func BlindSign(sk *SecretKey, params *SignatureParams, commitment bls12381.G1Affine, knownMessages MessageVector, rng io.Reader) (*Signature, error) {
	if sk == nil || params == nil {
		return nil, fmt.Errorf("bbs: %w", common.ErrInvalidParameter)
	}
	if commitment.IsInfinity() {
		return nil, fmt.Errorf("bbs: commitment must not be the identity: %w", common.ErrInvalidParameter)
	}

	sDoublePrime, err := utils.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to draw s'': %w", err)
	}

	known, err := params.CommitToMessages(knownMessages, sDoublePrime)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to commit known messages: %w", err)
	}

	var bJac bls12381.G1Jac
	bJac.FromAffine(&params.G1)
	var commitJac bls12381.G1Jac
	commitJac.FromAffine(&commitment)
	bJac.AddAssign(&commitJac)
	var knownJac bls12381.G1Jac
	knownJac.FromAffine(&known)
	bJac.AddAssign(&knownJac)

	var e *big.Int
	var exponent *big.Int
	for {
		e, err = utils.RandomScalar(rng)
		if err != nil {
			return nil, fmt.Errorf("bbs: failed to draw e: %w", err)
		}
		exponent = new(big.Int).Add(e, sk.value())
		exponent.Mod(exponent, common.Order)
		if exponent.Sign() != 0 {
			break
		}
	}

	inv := new(big.Int).ModInverse(exponent, common.Order)
	if inv == nil {
		return nil, fmt.Errorf("bbs: e+x has no inverse mod Order")
	}

	bJac.ScalarMultiplication(&bJac, inv)

	var a bls12381.G1Affine
	a.FromJacobian(&bJac)

	return &Signature{A: a, E: e, S: sDoublePrime}, nil
}
