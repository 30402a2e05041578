package compose

import (
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/bbs"
	"github.com/cryptoutil/bbsplus/internal/common"
	"github.com/cryptoutil/bbsplus/pedersen"
	"github.com/cryptoutil/bbsplus/pkg/utils"
)

// Prove runs the commit/challenge/respond state machine across every
// statement in spec: Validate resolves setup refs and merges
// equality classes, a single shared blinding scalar is drawn per equality
// class so the per-statement responses agree, every statement commits, one
// Fiat-Shamir challenge is derived from all commitments together with nonce,
// and every statement responds against that shared challenge.
//
// nonce binds the proof to a single verification session: a verifier
// supplies a fresh nonce per request, and Verify rejects unless the same
// bytes were hashed into the challenge at proof time, so a proof cannot be
// captured and replayed against a later challenge from the same verifier.
// A nil or empty nonce is valid but means the caller has opted out of that
// protection.
func Prove(spec *ProofSpec, witnesses []Witness, nonce []byte, rng io.Reader) (*Proof, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if len(witnesses) != len(spec.Statements) {
		return nil, fmt.Errorf("compose: %w: witnesses must match statements 1:1", common.ErrMismatchedLengths)
	}

	draw := func() (*big.Int, error) { return utils.RandomScalar(rng) }

	pedersenBlindings := make(map[int][]*big.Int, len(spec.Statements))
	bbsBlindings := make(map[int]map[int]*big.Int, len(spec.Statements))
	for i, st := range spec.Statements {
		switch st.(type) {
		case *PedersenStatement:
			pedersenBlindings[i] = make([]*big.Int, st.WitnessCount())
		case *BBSPlusStatement:
			bbsBlindings[i] = make(map[int]*big.Int)
		}
	}

	for _, class := range spec.equalityClasses {
		shared, err := draw()
		if err != nil {
			return nil, fmt.Errorf("compose: failed to draw shared blinding: %w", err)
		}
		for _, ref := range class {
			if _, disclosed, ok := isDisclosedRef(spec, ref); ok && disclosed {
				continue
			}
			switch spec.Statements[ref.StatementIndex].(type) {
			case *PedersenStatement:
				pedersenBlindings[ref.StatementIndex][ref.WitnessIndex] = shared
			case *BBSPlusStatement:
				bbsBlindings[ref.StatementIndex][ref.WitnessIndex] = shared
			}
		}
	}

	cs := &commitments{
		pedersen: make(map[int]bls12381.G1Affine),
		bbs:      make(map[int]bbs.ProofCommitment),
	}
	pedersenStates := make(map[int]*pedersen.BlindingState)
	bbsStates := make(map[int]*bbs.ProverState)

	for i, st := range spec.Statements {
		switch s := st.(type) {
		case *PedersenStatement:
			w, ok := witnesses[i].(*PedersenWitness)
			if !ok {
				return nil, fmt.Errorf("compose: %w: statement %d expects a pedersen witness", common.ErrWitnessKindMismatch, i)
			}
			commit, state, err := pedersen.ProveWithBlindings(s.Bases, w.Openings, pedersenBlindings[i], draw)
			if err != nil {
				return nil, fmt.Errorf("compose: statement %d: %w", i, err)
			}
			cs.pedersen[i] = commit.T
			pedersenStates[i] = state

		case *BBSPlusStatement:
			w, ok := witnesses[i].(*BBSPlusWitness)
			if !ok {
				return nil, fmt.Errorf("compose: %w: statement %d expects a bbs+ witness", common.ErrWitnessKindMismatch, i)
			}
			params := spec.Setup.BBSParams[s.Setup.ParamsIndex]
			pk := spec.Setup.BBSPublicKeys[s.Setup.KeyIndex]
			commit, state, err := bbs.CommitKnowledge(pk, params, w.Signature, w.Messages, s.Disclosed, bbsBlindings[i], draw)
			if err != nil {
				return nil, fmt.Errorf("compose: statement %d: %w", i, err)
			}
			cs.bbs[i] = *commit
			bbsStates[i] = state

		default:
			return nil, fmt.Errorf("compose: %w: unknown statement kind at index %d", common.ErrProofSpecInvalid, i)
		}
	}

	challenge := computeSharedChallenge(spec, cs, nonce)

	subProofs := make([]SubProof, len(spec.Statements))
	for i, st := range spec.Statements {
		switch st.(type) {
		case *PedersenStatement:
			resp := pedersenStates[i].Respond(challenge)
			subProofs[i] = SubProof{
				Kind: KindPedersen,
				Pedersen: &PedersenSubProof{
					T: cs.pedersen[i],
					Z: resp.Z,
				},
			}
		case *BBSPlusStatement:
			subProofs[i] = SubProof{Kind: KindBBSPlus, BBSPlus: bbsStates[i].Respond(challenge)}
		}
	}

	return &Proof{SubProofs: subProofs, Challenge: challenge}, nil
}
