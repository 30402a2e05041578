package bbs

import (
	"fmt"
	"math/big"
	"sort"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/internal/common"
	"github.com/cryptoutil/bbsplus/pkg/crypto"
	"github.com/cryptoutil/bbsplus/pkg/utils"
)

// Witness-slot numbering for ProveKnowledge's cooperative blindings map and
// for compose's WitnessRef addressing. Slots 0..3 are fixed; the witness
// slot for message index i (1-based) is always witnessSlotMessageBase+i-1,
// regardless of whether i ends up disclosed or undisclosed in a given call —
// this keeps the numbering stable across calls with different disclosure
// sets, which compose's equality classes depend on.
const (
	WitnessSlotE      = 0
	WitnessSlotR2     = 1
	WitnessSlotR3     = 2
	WitnessSlotSPrime = 3
	witnessSlotMessageBase = 4
)

// MessageWitnessSlot returns the witness slot for message index
// messageIndex (1-based).
func MessageWitnessSlot(messageIndex int) int {
	return witnessSlotMessageBase + messageIndex - 1
}

// ProofOfKnowledge is a zero-knowledge proof of possession of a valid BBS+
// signature over messages, selectively disclosing the indices marked in the
// disclosed map passed to ProveKnowledge.
type ProofOfKnowledge struct {
	APrime bls12381.G1Affine
	ABar   bls12381.G1Affine
	D      bls12381.G1Affine
	T1     bls12381.G1Affine
	T2     bls12381.G1Affine

	// MHat holds z_{m_i} for every undisclosed message index i.
	MHat map[int]*big.Int
	EHat *big.Int
	R2Hat *big.Int
	R3Hat *big.Int
	SHat *big.Int
}

func sortedUndisclosed(l int, disclosed map[int]bool) []int {
	u := make([]int, 0, l)
	for i := 1; i <= l; i++ {
		if !disclosed[i] {
			u = append(u, i)
		}
	}
	sort.Ints(u)
	return u
}

// ProofCommitment is the public, pre-challenge half of a signature proof of
// knowledge: the randomized signature (A', Ā, d) and the Schnorr commitments
// T1, T2. compose hashes these together with every other statement's
// commitment to derive one shared Fiat-Shamir challenge.
type ProofCommitment struct {
	APrime, ABar, D, T1, T2 bls12381.G1Affine
}

// ProverState is the prover's half of a CommitKnowledge call retained across
// the Fiat-Shamir challenge: the actual witnesses (e, r2, r3, s', messages)
// and the blinding scalars committed to in T1/T2. Respond consumes a
// challenge (either recomputed locally by ProveKnowledge, or the shared
// challenge compose derives across every statement in a ProofSpec) and
// produces the final responses.
type ProverState struct {
	commitment ProofCommitment

	e, r2, r3, sPrime *big.Int
	alphaE, alphaR2, alphaR3, alphaSPrime *big.Int
	alphaM      map[int]*big.Int
	messages    MessageVector
	undisclosed []int
}

// CommitKnowledge performs the randomization and commitment phase of the
// signature proof of knowledge, stopping short of the Fiat-Shamir
// challenge so the caller can fold this commitment into a larger transcript
// (compose) or derive a local one (ProveKnowledge).
//
// blindings, if non-nil, supplies precomputed blinding scalars keyed by the
// witness-slot numbering above; a nil or absent entry is sampled fresh. This
// is the hook compose uses to inject a shared blinding across a
// cross-statement equality class.
func CommitKnowledge(pk *PublicKey, params *SignatureParams, sig *Signature, messages MessageVector, disclosed map[int]bool, blindings map[int]*big.Int, rng func() (*big.Int, error)) (*ProofCommitment, *ProverState, error) {
	if pk == nil || params == nil || sig == nil {
		return nil, nil, fmt.Errorf("bbs: %w", common.ErrInvalidParameter)
	}
	l := params.SupportedMessageCount()
	und := sortedUndisclosed(l, disclosed)

	draw := func(slot int) (*big.Int, error) {
		if blindings != nil {
			if v, ok := blindings[slot]; ok && v != nil {
				return v, nil
			}
		}
		return rng()
	}

	r1, err := rng()
	if err != nil {
		return nil, nil, fmt.Errorf("bbs: failed to draw r1: %w", err)
	}
	r2, err := rng()
	if err != nil {
		return nil, nil, fmt.Errorf("bbs: failed to draw r2: %w", err)
	}

	b, err := params.B(messages, sig.S)
	if err != nil {
		return nil, nil, fmt.Errorf("bbs: failed to compute B: %w", err)
	}

	aPrime := scalarMulG1(sig.A, r1)

	// Ā = A'^{-e} · b^{r1}
	aBar := addG1(scalarMulG1(aPrime, negMod(sig.E)), scalarMulG1(b, r1))

	// d = b^{r1} · h0^{-r2}
	d := addG1(scalarMulG1(b, r1), scalarMulG1(params.H0, negMod(r2)))

	r3 := modInverse(r1)
	sPrime := new(big.Int).Mul(r2, r3)
	sPrime.Mod(sPrime, common.Order)
	sPrime.Sub(sig.S, sPrime)
	sPrime.Mod(sPrime, common.Order)

	// --- R1 commitment: T1 = A'^{-alphaE} · h0^{alphaR2}
	alphaE, err := draw(WitnessSlotE)
	if err != nil {
		return nil, nil, fmt.Errorf("bbs: failed to draw alpha_e: %w", err)
	}
	alphaR2, err := draw(WitnessSlotR2)
	if err != nil {
		return nil, nil, fmt.Errorf("bbs: failed to draw alpha_r2: %w", err)
	}
	t1 := addG1(scalarMulG1(aPrime, negMod(alphaE)), scalarMulG1(params.H0, alphaR2))

	// --- R2 commitment: T2 = d^{alphaR3} · h0^{-alphaSPrime} · prod h_i^{-alphaM_i}
	alphaR3, err := draw(WitnessSlotR3)
	if err != nil {
		return nil, nil, fmt.Errorf("bbs: failed to draw alpha_r3: %w", err)
	}
	alphaSPrime, err := draw(WitnessSlotSPrime)
	if err != nil {
		return nil, nil, fmt.Errorf("bbs: failed to draw alpha_s': %w", err)
	}

	alphaM := make(map[int]*big.Int, len(und))
	t2 := addG1(scalarMulG1(d, alphaR3), scalarMulG1(params.H0, negMod(alphaSPrime)))
	for _, idx := range und {
		a, err := draw(MessageWitnessSlot(idx))
		if err != nil {
			return nil, nil, fmt.Errorf("bbs: failed to draw alpha_m[%d]: %w", idx, err)
		}
		alphaM[idx] = a
		t2 = addG1(t2, scalarMulG1(params.H[idx-1], negMod(a)))
	}

	commitment := &ProofCommitment{APrime: aPrime, ABar: aBar, D: d, T1: t1, T2: t2}
	state := &ProverState{
		commitment:  *commitment,
		e:           sig.E,
		r2:          r2,
		r3:          r3,
		sPrime:      sPrime,
		alphaE:      alphaE,
		alphaR2:     alphaR2,
		alphaR3:     alphaR3,
		alphaSPrime: alphaSPrime,
		alphaM:      alphaM,
		messages:    messages,
		undisclosed: und,
	}
	return commitment, state, nil
}

// Respond consumes the Fiat-Shamir challenge and produces the final proof.
func (st *ProverState) Respond(challenge *big.Int) *ProofOfKnowledge {
	mhat := make(map[int]*big.Int, len(st.undisclosed))
	for _, idx := range st.undisclosed {
		mhat[idx] = schnorrResponse(st.alphaM[idx], challenge, st.messages[idx])
	}
	return &ProofOfKnowledge{
		APrime: st.commitment.APrime, ABar: st.commitment.ABar, D: st.commitment.D,
		T1: st.commitment.T1, T2: st.commitment.T2,
		MHat:  mhat,
		EHat:  schnorrResponse(st.alphaE, challenge, st.e),
		R2Hat: schnorrResponse(st.alphaR2, challenge, st.r2),
		R3Hat: schnorrResponse(st.alphaR3, challenge, st.r3),
		SHat:  schnorrResponse(st.alphaSPrime, challenge, st.sPrime),
	}
}

// ProveKnowledge constructs the signature proof of knowledge: the prover
// randomizes A into (A', Ā, d), proves R1 (knowledge of e, r2
// consistent with Ā/d) and R2 (knowledge of r3, s', and every undisclosed
// message consistent with the public base g1 and the disclosed messages),
// and folds both sub-relations' commitments into a single Fiat-Shamir
// challenge together with header.
func ProveKnowledge(pk *PublicKey, params *SignatureParams, sig *Signature, messages MessageVector, disclosed map[int]bool, blindings map[int]*big.Int, header []byte, rng func() (*big.Int, error)) (*ProofOfKnowledge, error) {
	commitment, state, err := CommitKnowledge(pk, params, sig, messages, disclosed, blindings, rng)
	if err != nil {
		return nil, err
	}
	c := computeChallenge(commitment.APrime, commitment.ABar, commitment.D, commitment.T1, commitment.T2, pk, params, messages, disclosed, header)
	return state.Respond(c), nil
}

// VerifyKnowledge checks proof against pk, params, the disclosed messages,
// and header. It recomputes the Fiat-Shamir challenge from proof's own
// commitments, then delegates to VerifyKnowledgeWithChallenge.
func VerifyKnowledge(pk *PublicKey, params *SignatureParams, proof *ProofOfKnowledge, disclosedMessages MessageVector, disclosed map[int]bool, header []byte) error {
	if pk == nil || params == nil || proof == nil {
		return fmt.Errorf("bbs: %w", common.ErrInvalidParameter)
	}
	c := computeChallenge(proof.APrime, proof.ABar, proof.D, proof.T1, proof.T2, pk, params, disclosedMessages, disclosed, header)
	return VerifyKnowledgeWithChallenge(pk, params, proof, disclosedMessages, disclosed, c)
}

// VerifyKnowledgeWithChallenge checks proof against an externally supplied
// Fiat-Shamir challenge instead of recomputing one from header. compose uses
// this to verify a BBS+ sub-proof against the single challenge shared by
// every statement in a ProofSpec.
//
// It recomputes T1', T2' from the responses and challenge, checks they match
// the prover's T1, T2, and checks the pairing equation e(A', w) = e(Ā, g2).
// Rejects identity A'.
func VerifyKnowledgeWithChallenge(pk *PublicKey, params *SignatureParams, proof *ProofOfKnowledge, disclosedMessages MessageVector, disclosed map[int]bool, c *big.Int) error {
	if pk == nil || params == nil || proof == nil {
		return fmt.Errorf("bbs: %w", common.ErrInvalidParameter)
	}
	if proof.APrime.IsInfinity() {
		return fmt.Errorf("bbs: %w: A' is identity", common.ErrInvalidProof)
	}

	y1 := addG1(proof.ABar, scalarMulG1(proof.D, negMod(big.NewInt(1))))
	t1Prime := addG1(addG1(scalarMulG1(proof.APrime, negMod(proof.EHat)), scalarMulG1(params.H0, proof.R2Hat)), scalarMulG1(y1, negMod(c)))
	if !t1Prime.Equal(&proof.T1) {
		return fmt.Errorf("bbs: %w: R1 response mismatch", common.ErrInvalidProof)
	}

	l := params.SupportedMessageCount()
	y2, err := relationR2LHS(params, disclosedMessages, disclosed, l)
	if err != nil {
		return fmt.Errorf("bbs: %w", err)
	}

	t2Prime := addG1(scalarMulG1(proof.D, proof.R3Hat), scalarMulG1(params.H0, negMod(proof.SHat)))
	for idx, z := range proof.MHat {
		if idx < 1 || idx > l {
			return fmt.Errorf("bbs: %w: response for out-of-range slot %d", common.ErrInvalidProof, idx)
		}
		t2Prime = addG1(t2Prime, scalarMulG1(params.H[idx-1], negMod(z)))
	}
	t2Prime = addG1(t2Prime, scalarMulG1(y2, negMod(c)))
	if !t2Prime.Equal(&proof.T2) {
		return fmt.Errorf("bbs: %w: R2 response mismatch", common.ErrInvalidProof)
	}

	ok, err := bls12381.PairingCheck(
		[]bls12381.G1Affine{proof.APrime, proof.ABar},
		[]bls12381.G2Affine{pk.W, negG2(params)},
	)
	if err != nil {
		return fmt.Errorf("bbs: pairing computation failed: %w", err)
	}
	if !ok {
		return fmt.Errorf("bbs: %w: A'/Ā pairing check failed", common.ErrInvalidProof)
	}
	return nil
}

// relationR2LHS computes g1 · prod_{i in D} h_i^{m_i}, the known side of R2.
func relationR2LHS(params *SignatureParams, disclosedMessages MessageVector, disclosed map[int]bool, l int) (bls12381.G1Affine, error) {
	points := make([]bls12381.G1Affine, 0, l+1)
	scalars := make([]*big.Int, 0, l+1)
	points = append(points, params.G1)
	scalars = append(scalars, big.NewInt(1))
	for i := 1; i <= l; i++ {
		if !disclosed[i] {
			continue
		}
		m, ok := disclosedMessages[i]
		if !ok {
			return bls12381.G1Affine{}, fmt.Errorf("missing disclosed message at slot %d", i)
		}
		points = append(points, params.H[i-1])
		scalars = append(scalars, m)
	}
	return crypto.MultiScalarMulG1(points, scalars)
}

func negG2(params *SignatureParams) bls12381.G2Affine {
	var jac bls12381.G2Jac
	jac.FromAffine(&params.G2)
	jac.Neg(&jac)
	var out bls12381.G2Affine
	out.FromJacobian(&jac)
	return out
}

func schnorrResponse(alpha, c, witness *big.Int) *big.Int {
	z := new(big.Int).Mul(c, witness)
	z.Add(z, alpha)
	return z.Mod(z, common.Order)
}

func negMod(x *big.Int) *big.Int {
	n := new(big.Int).Neg(x)
	return n.Mod(n, common.Order)
}

func modInverse(x *big.Int) *big.Int {
	return new(big.Int).ModInverse(x, common.Order)
}

func scalarMulG1(p bls12381.G1Affine, s *big.Int) bls12381.G1Affine {
	var jac bls12381.G1Jac
	jac.FromAffine(&p)
	jac.ScalarMultiplication(&jac, s)
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out
}

func addG1(a, b bls12381.G1Affine) bls12381.G1Affine {
	var jac bls12381.G1Jac
	jac.FromAffine(&a)
	var bJac bls12381.G1Jac
	bJac.FromAffine(&b)
	jac.AddAssign(&bJac)
	var out bls12381.G1Affine
	out.FromJacobian(&jac)
	return out
}

// NewRNG adapts an io.Reader into the rng func() (*big.Int, error) shape
// ProveKnowledge expects. Callers that need particular blinding values pass
// them through the blindings map rather than through rng.
func NewRNG(reader rngReader) func() (*big.Int, error) {
	return func() (*big.Int, error) { return utils.RandomScalar(reader) }
}

type rngReader interface {
	Read(p []byte) (n int, err error)
}
