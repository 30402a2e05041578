package compose

import (
	"fmt"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/bbs"
	"github.com/cryptoutil/bbsplus/internal/common"
	"github.com/cryptoutil/bbsplus/pedersen"
)

// Verify checks proof against spec: it rebuilds the shared Fiat-Shamir
// challenge from the sub-proofs' own commitments and nonce and confirms it
// matches proof.Challenge, verifies every sub-proof individually against
// that challenge, and checks every cross-statement equality class resolves
// to a single consistent value.
//
// nonce must equal the bytes passed to Prove; a mismatch (including a
// verifier expecting a nonce the prover omitted, or vice versa) makes the
// recomputed challenge disagree with proof.Challenge and Verify rejects.
func Verify(spec *ProofSpec, proof *Proof, nonce []byte) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if len(proof.SubProofs) != len(spec.Statements) {
		return fmt.Errorf("compose: %w: sub-proof count does not match statement count", common.ErrProofVerificationFailed)
	}

	cs := &commitments{
		pedersen: make(map[int]bls12381.G1Affine),
		bbs:      make(map[int]bbs.ProofCommitment),
	}
	for i, sp := range proof.SubProofs {
		switch sp.Kind {
		case KindPedersen:
			if sp.Pedersen == nil {
				return fmt.Errorf("compose: %w: statement %d missing pedersen sub-proof", common.ErrProofVerificationFailed, i)
			}
			cs.pedersen[i] = sp.Pedersen.T
		case KindBBSPlus:
			if sp.BBSPlus == nil {
				return fmt.Errorf("compose: %w: statement %d missing bbs+ sub-proof", common.ErrProofVerificationFailed, i)
			}
			cs.bbs[i] = bbs.ProofCommitment{
				APrime: sp.BBSPlus.APrime, ABar: sp.BBSPlus.ABar, D: sp.BBSPlus.D,
				T1: sp.BBSPlus.T1, T2: sp.BBSPlus.T2,
			}
		}
	}

	challenge := computeSharedChallenge(spec, cs, nonce)
	if challenge.Cmp(proof.Challenge) != 0 {
		return fmt.Errorf("compose: %w: recomputed challenge does not match", common.ErrProofVerificationFailed)
	}

	for i, st := range spec.Statements {
		sp := proof.SubProofs[i]
		switch s := st.(type) {
		case *PedersenStatement:
			if sp.Kind != KindPedersen {
				return fmt.Errorf("compose: %w: statement %d kind mismatch", common.ErrWitnessKindMismatch, i)
			}
			err := pedersen.Verify(s.Bases, s.C, challenge,
				&pedersen.Commit{T: sp.Pedersen.T},
				&pedersen.Response{Z: sp.Pedersen.Z})
			if err != nil {
				return fmt.Errorf("compose: statement %d: %w", i, err)
			}

		case *BBSPlusStatement:
			if sp.Kind != KindBBSPlus {
				return fmt.Errorf("compose: %w: statement %d kind mismatch", common.ErrWitnessKindMismatch, i)
			}
			params := spec.Setup.BBSParams[s.Setup.ParamsIndex]
			pk := spec.Setup.BBSPublicKeys[s.Setup.KeyIndex]
			err := bbs.VerifyKnowledgeWithChallenge(pk, params, sp.BBSPlus, s.DisclosedMessages, s.Disclosed, challenge)
			if err != nil {
				return fmt.Errorf("compose: statement %d: %w", i, err)
			}
		}
	}

	for classIdx, class := range spec.equalityClasses {
		var want *big.Int
		for _, ref := range class {
			got, err := resolvedScalar(spec, proof, ref)
			if err != nil {
				return fmt.Errorf("compose: equality class %d: %w", classIdx, err)
			}
			if want == nil {
				want = got
				continue
			}
			if want.Cmp(got) != 0 {
				return fmt.Errorf("compose: %w: equality class %d has inconsistent values", common.ErrWitnessEqualityViolation, classIdx)
			}
		}
	}

	return nil
}

// resolvedScalar returns the value a WitnessRef resolves to for equality
// checking: the claimed disclosed value for a disclosed BBS+ message slot,
// or the sub-proof's Schnorr response otherwise (which is only comparable
// across statements because shared equality classes are given the same
// blinding scalar at proof time, so z = alpha + c*w matches iff w matches).
func resolvedScalar(spec *ProofSpec, proof *Proof, ref WitnessRef) (*big.Int, error) {
	if msgIdx, disclosed, ok := isDisclosedRef(spec, ref); ok && disclosed {
		bst := spec.Statements[ref.StatementIndex].(*BBSPlusStatement)
		v, present := bst.DisclosedMessages[msgIdx]
		if !present {
			return nil, fmt.Errorf("statement %d: disclosed message %d missing value", ref.StatementIndex, msgIdx)
		}
		return v, nil
	}

	sp := proof.SubProofs[ref.StatementIndex]
	switch spec.Statements[ref.StatementIndex].(type) {
	case *PedersenStatement:
		if ref.WitnessIndex < 0 || ref.WitnessIndex >= len(sp.Pedersen.Z) {
			return nil, fmt.Errorf("statement %d: witness index %d out of range", ref.StatementIndex, ref.WitnessIndex)
		}
		return sp.Pedersen.Z[ref.WitnessIndex], nil

	case *BBSPlusStatement:
		switch ref.WitnessIndex {
		case bbs.WitnessSlotE:
			return sp.BBSPlus.EHat, nil
		case bbs.WitnessSlotR2:
			return sp.BBSPlus.R2Hat, nil
		case bbs.WitnessSlotR3:
			return sp.BBSPlus.R3Hat, nil
		case bbs.WitnessSlotSPrime:
			return sp.BBSPlus.SHat, nil
		default:
			msgIdx := ref.WitnessIndex - bbs.MessageWitnessSlot(1) + 1
			v, present := sp.BBSPlus.MHat[msgIdx]
			if !present {
				return nil, fmt.Errorf("statement %d: no response for message slot %d (was it disclosed?)", ref.StatementIndex, msgIdx)
			}
			return v, nil
		}
	}
	return nil, fmt.Errorf("statement %d: unresolvable witness ref", ref.StatementIndex)
}
