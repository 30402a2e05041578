package bbs

import (
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/internal/common"
	"github.com/cryptoutil/bbsplus/pkg/crypto"
	"github.com/cryptoutil/bbsplus/pkg/utils"
	"github.com/cryptoutil/bbsplus/pkg/xof"
)

// NewSignatureParamsDeterministic derives SignatureParams entirely from
// (label, l): g1, g2, h0, and h_1..h_l are all drawn by try-and-increment
// hash-to-curve keyed on label and a per-element suffix (g1 and h0/h_i land
// in G1, g2 lands in G2), so two callers who agree on (label, l) always
// agree on the same parameters without exchanging any bytes, and distinct
// labels yield independent, unrelated parameters.
func NewSignatureParamsDeterministic(label string, l int) (*SignatureParams, error) {
	if l < 1 {
		return nil, fmt.Errorf("bbs: message count must be positive: %w", common.ErrInvalidParameter)
	}

	seed := []byte(label)

	g1, err := xof.HashToG1(seed, label+" : g1")
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to derive g1: %w", err)
	}
	g2, err := xof.HashToG2(seed, label+" : g2")
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to derive g2: %w", err)
	}

	h0, err := xof.HashToG1(seed, common.XofLabelParamsH0)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to derive h0: %w", err)
	}

	h := make([]bls12381.G1Affine, l)
	for i := 0; i < l; i++ {
		h[i], err = xof.HashToG1(seed, fmt.Sprintf("%s-%d", common.XofLabelParamsHi, i+1))
		if err != nil {
			return nil, fmt.Errorf("bbs: failed to derive h[%d]: %w", i+1, err)
		}
	}

	return &SignatureParams{G1: g1, G2: g2, H0: h0, H: h}, nil
}

// NewSignatureParamsRandom draws every element — g1, g2, h0, h_1..h_l — as a
// uniformly random scalar multiple of the corresponding standard generator,
// using rng. Unlike the deterministic constructor, two callers calling this
// function will not agree on the same parameters.
func NewSignatureParamsRandom(rng io.Reader, l int) (*SignatureParams, error) {
	if l < 1 {
		return nil, fmt.Errorf("bbs: message count must be positive: %w", common.ErrInvalidParameter)
	}

	_, _, stdG1, stdG2 := bls12381.Generators()

	g1, err := randomG1(rng, &stdG1)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to draw g1: %w", err)
	}
	g2, err := randomG2(rng, &stdG2)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to draw g2: %w", err)
	}

	h0, err := randomG1(rng, &stdG1)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to draw h0: %w", err)
	}

	h := make([]bls12381.G1Affine, l)
	for i := range h {
		h[i], err = randomG1(rng, &stdG1)
		if err != nil {
			return nil, fmt.Errorf("bbs: failed to draw h[%d]: %w", i+1, err)
		}
	}

	return &SignatureParams{G1: g1, G2: g2, H0: h0, H: h}, nil
}

func randomG1(rng io.Reader, base *bls12381.G1Affine) (bls12381.G1Affine, error) {
	s, err := utils.RandomScalar(rng)
	if err != nil {
		return bls12381.G1Affine{}, err
	}
	var jac bls12381.G1Jac
	jac.FromAffine(base)
	jac.ScalarMultiplication(&jac, s)
	var aff bls12381.G1Affine
	aff.FromJacobian(&jac)
	return aff, nil
}

// randomG2 is randomG1's G2 counterpart.
func randomG2(rng io.Reader, base *bls12381.G2Affine) (bls12381.G2Affine, error) {
	s, err := utils.RandomScalar(rng)
	if err != nil {
		return bls12381.G2Affine{}, err
	}
	var jac bls12381.G2Jac
	jac.FromAffine(base)
	jac.ScalarMultiplication(&jac, s)
	var aff bls12381.G2Affine
	aff.FromJacobian(&jac)
	return aff, nil
}

// CommitToMessages computes the product of h0^s and h_i^m_i over the entries
// present in m, using the indices present in m as the only contributing
// message slots. It is used both for B(m, s) over a fully known message
// vector and for the holder-side Pedersen-style commitment in blind signing,
// where m contains only the messages the holder wants to hide from the signer.
func (p *SignatureParams) CommitToMessages(m MessageVector, s *big.Int) (bls12381.G1Affine, error) {
	points := make([]bls12381.G1Affine, 0, len(m)+1)
	scalars := make([]*big.Int, 0, len(m)+1)

	points = append(points, p.H0)
	scalars = append(scalars, s)

	for idx, val := range m {
		if idx < 1 || idx > len(p.H) {
			return bls12381.G1Affine{}, fmt.Errorf("bbs: %w", &common.InvalidMessageIndexError{Index: idx, Max: len(p.H)})
		}
		points = append(points, p.H[idx-1])
		scalars = append(scalars, val)
	}

	return crypto.MultiScalarMulG1(points, scalars)
}

// B computes g1 · h0^s · prod(h_i^m_i) for every slot 1..SupportedMessageCount(),
// the base BBS+ signs.
func (p *SignatureParams) B(m MessageVector, s *big.Int) (bls12381.G1Affine, error) {
	for i := 1; i <= len(p.H); i++ {
		if _, ok := m[i]; !ok {
			return bls12381.G1Affine{}, fmt.Errorf("bbs: missing message at slot %d: %w", i, common.ErrInvalidParameter)
		}
	}

	commit, err := p.CommitToMessages(m, s)
	if err != nil {
		return bls12381.G1Affine{}, err
	}

	var jac bls12381.G1Jac
	jac.FromAffine(&p.G1)
	var commitJac bls12381.G1Jac
	commitJac.FromAffine(&commit)
	jac.AddAssign(&commitJac)

	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out, nil
}
