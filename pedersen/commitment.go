package pedersen

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/internal/common"
	"github.com/cryptoutil/bbsplus/pkg/crypto"
)

// Commitment is C = prod(bases[j]^openings[j]) together with the bases it
// was built from, so a verifier can check a proof against it without being
// handed the bases out of band.
type Commitment struct {
	Bases []bls12381.G1Affine
	C     bls12381.G1Affine
}

// NewCommitment computes C from bases and openings, one opening per base.
func NewCommitment(bases []bls12381.G1Affine, openings []*big.Int) (*Commitment, error) {
	if len(bases) != len(openings) {
		return nil, fmt.Errorf("pedersen: %w", common.ErrMismatchedLengths)
	}
	if len(bases) == 0 {
		return nil, fmt.Errorf("pedersen: %w: at least one base required", common.ErrInvalidParameter)
	}
	c, err := crypto.MultiScalarMulG1(bases, openings)
	if err != nil {
		return nil, fmt.Errorf("pedersen: failed to compute commitment: %w", err)
	}
	return &Commitment{Bases: append([]bls12381.G1Affine(nil), bases...), C: c}, nil
}
