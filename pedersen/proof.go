package pedersen

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/internal/common"
	"github.com/cryptoutil/bbsplus/pkg/crypto"
)

// Commit is the output of the commit phase of a Pedersen PoK: the Schnorr
// commitment T = prod(bases[j]^blindings[j]).
type Commit struct {
	T bls12381.G1Affine
}

// BlindingState is the prover's secret state carried from the commit phase
// to the response phase. It must be used exactly once.
type BlindingState struct {
	Bases     []bls12381.G1Affine
	Openings  []*big.Int
	Blindings []*big.Int
}

// Response is the set of per-base Schnorr responses z_j = alpha_j + c*m_j.
type Response struct {
	Z []*big.Int
}

// ProveWithBlindings runs the commit phase of the Pedersen PoK: for each
// base j, it uses blindings[j] if non-nil, otherwise draws one via rng, and
// forms T = prod(bases[j]^blindings[j]). The returned BlindingState must be
// passed to Respond once the challenge is known.
//
// Passing a pre-chosen blindings slice is the hook the composition engine
// uses to force this commitment to share a blinding scalar with another
// statement's witness in the same equality class.
func ProveWithBlindings(bases []bls12381.G1Affine, openings []*big.Int, blindings []*big.Int, rng func() (*big.Int, error)) (*Commit, *BlindingState, error) {
	if len(bases) != len(openings) {
		return nil, nil, fmt.Errorf("pedersen: %w", common.ErrMismatchedLengths)
	}
	if blindings != nil && len(blindings) != len(bases) {
		return nil, nil, fmt.Errorf("pedersen: %w: blindings length must match bases", common.ErrMismatchedLengths)
	}

	resolved := make([]*big.Int, len(bases))
	for j := range bases {
		if blindings != nil && blindings[j] != nil {
			resolved[j] = blindings[j]
			continue
		}
		a, err := rng()
		if err != nil {
			return nil, nil, fmt.Errorf("pedersen: failed to draw blinding %d: %w", j, err)
		}
		resolved[j] = a
	}

	t, err := crypto.MultiScalarMulG1(bases, resolved)
	if err != nil {
		return nil, nil, fmt.Errorf("pedersen: failed to compute commitment: %w", err)
	}

	return &Commit{T: t}, &BlindingState{
		Bases:     append([]bls12381.G1Affine(nil), bases...),
		Openings:  append([]*big.Int(nil), openings...),
		Blindings: resolved,
	}, nil
}

// Respond computes z_j = alpha_j + c·m_j for every base.
func (bs *BlindingState) Respond(challenge *big.Int) *Response {
	z := make([]*big.Int, len(bs.Bases))
	for j := range bs.Bases {
		v := new(big.Int).Mul(challenge, bs.Openings[j])
		v.Add(v, bs.Blindings[j])
		v.Mod(v, common.Order)
		z[j] = v
	}
	return &Response{Z: z}
}

// Verify checks prod(bases[j]^z_j) == T · C^challenge.
func Verify(bases []bls12381.G1Affine, c bls12381.G1Affine, challenge *big.Int, commit *Commit, resp *Response) error {
	if len(bases) != len(resp.Z) {
		return fmt.Errorf("pedersen: %w", common.ErrMismatchedLengths)
	}

	lhs, err := crypto.MultiScalarMulG1(bases, resp.Z)
	if err != nil {
		return fmt.Errorf("pedersen: failed to recompute response side: %w", err)
	}

	var cJac bls12381.G1Jac
	cJac.FromAffine(&c)
	cJac.ScalarMultiplication(&cJac, challenge)

	var tJac bls12381.G1Jac
	tJac.FromAffine(&commit.T)
	tJac.AddAssign(&cJac)

	var rhs bls12381.G1Affine
	rhs.FromJacobian(&tJac)

	if !lhs.Equal(&rhs) {
		return fmt.Errorf("pedersen: %w", common.ErrInvalidProof)
	}
	return nil
}
