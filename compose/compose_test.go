package compose

import (
	"crypto/rand"
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/bbs"
	"github.com/cryptoutil/bbsplus/pedersen"
	"github.com/cryptoutil/bbsplus/pkg/utils"
)

func issueTestCredential(t *testing.T, l int) (*bbs.SignatureParams, *bbs.PublicKey, *bbs.Signature, bbs.MessageVector) {
	t.Helper()
	params, err := bbs.NewSignatureParamsDeterministic("compose-test", l)
	if err != nil {
		t.Fatalf("NewSignatureParamsDeterministic: %v", err)
	}
	sk, err := bbs.SecretKeyFromRandom(rand.Reader)
	if err != nil {
		t.Fatalf("SecretKeyFromRandom: %v", err)
	}
	pk := bbs.PublicKeyFromSecret(sk, params)

	messages := make(bbs.MessageVector, l)
	for i := 1; i <= l; i++ {
		messages[i] = big.NewInt(int64(100 + i))
	}
	sig, err := bbs.Sign(sk, params, messages, rand.Reader)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	return params, pk, sig, messages
}

func TestProveVerifySingleBBSStatementSelectiveDisclosure(t *testing.T) {
	params, pk, sig, messages := issueTestCredential(t, 4)

	disclosed := map[int]bool{1: true}
	disclosedMessages := bbs.MessageVector{1: messages[1]}

	spec := &ProofSpec{
		Statements: []Statement{
			&BBSPlusStatement{
				Setup:             SetupRef{ParamsIndex: 0, KeyIndex: 0},
				Disclosed:         disclosed,
				DisclosedMessages: disclosedMessages,
				MessageSlotCount:  4,
			},
		},
		Setup: &SetupParams{
			BBSParams:     []*bbs.SignatureParams{params},
			BBSPublicKeys: []*bbs.PublicKey{pk},
		},
	}
	witnesses := []Witness{&BBSPlusWitness{Signature: sig, Messages: messages}}
	nonce := []byte("verifier-session-nonce")

	proof, err := Prove(spec, witnesses, nonce, rand.Reader)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := Verify(spec, proof, nonce); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsTamperedNonce(t *testing.T) {
	params, pk, sig, messages := issueTestCredential(t, 4)

	disclosed := map[int]bool{1: true}
	disclosedMessages := bbs.MessageVector{1: messages[1]}

	spec := &ProofSpec{
		Statements: []Statement{
			&BBSPlusStatement{
				Setup:             SetupRef{ParamsIndex: 0, KeyIndex: 0},
				Disclosed:         disclosed,
				DisclosedMessages: disclosedMessages,
				MessageSlotCount:  4,
			},
		},
		Setup: &SetupParams{
			BBSParams:     []*bbs.SignatureParams{params},
			BBSPublicKeys: []*bbs.PublicKey{pk},
		},
	}
	witnesses := []Witness{&BBSPlusWitness{Signature: sig, Messages: messages}}

	proof, err := Prove(spec, witnesses, []byte("nonce-a"), rand.Reader)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := Verify(spec, proof, []byte("nonce-b")); err == nil {
		t.Fatal("Verify accepted a proof against a different nonce than it was proven with")
	}
}

func TestProveVerifyCrossStatementEquality(t *testing.T) {
	params, pk, sig, messages := issueTestCredential(t, 3)

	disclosed := map[int]bool{}
	bbsStatement := &BBSPlusStatement{
		Setup:             SetupRef{ParamsIndex: 0, KeyIndex: 0},
		Disclosed:         disclosed,
		DisclosedMessages: bbs.MessageVector{},
		MessageSlotCount:  3,
	}

	_, _, g1, _ := bls12381.Generators()
	base2, err := randomBase(rand.Reader, &g1)
	if err != nil {
		t.Fatalf("randomBase: %v", err)
	}
	bases := []bls12381.G1Affine{g1, base2}
	opening := messages[1]
	openings := []*big.Int{opening, big.NewInt(777)}

	var cJac bls12381.G1Jac
	var p0 bls12381.G1Jac
	p0.FromAffine(&bases[0])
	p0.ScalarMultiplication(&p0, openings[0])
	var p1 bls12381.G1Jac
	p1.FromAffine(&bases[1])
	p1.ScalarMultiplication(&p1, openings[1])
	cJac.Set(&p0)
	cJac.AddAssign(&p1)
	var c bls12381.G1Affine
	c.FromJacobian(&cJac)

	pedersenStatement := &PedersenStatement{Bases: bases, C: c}

	spec := &ProofSpec{
		Statements: []Statement{bbsStatement, pedersenStatement},
		MetaStatements: []MetaStatement{
			{Refs: []WitnessRef{
				{StatementIndex: 0, WitnessIndex: bbs.MessageWitnessSlot(1)},
				{StatementIndex: 1, WitnessIndex: 0},
			}},
		},
		Setup: &SetupParams{
			BBSParams:     []*bbs.SignatureParams{params},
			BBSPublicKeys: []*bbs.PublicKey{pk},
		},
	}
	witnesses := []Witness{
		&BBSPlusWitness{Signature: sig, Messages: messages},
		&PedersenWitness{Openings: openings},
	}

	nonce := []byte("verifier-session-nonce")
	proof, err := Prove(spec, witnesses, nonce, rand.Reader)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := Verify(spec, proof, nonce); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsBrokenEquality(t *testing.T) {
	params, pk, sig, messages := issueTestCredential(t, 2)

	bbsStatement := &BBSPlusStatement{
		Setup:             SetupRef{ParamsIndex: 0, KeyIndex: 0},
		Disclosed:         map[int]bool{},
		DisclosedMessages: bbs.MessageVector{},
		MessageSlotCount:  2,
	}

	_, _, g1, _ := bls12381.Generators()
	bases := []bls12381.G1Affine{g1}
	// Deliberately mismatched opening (not messages[1]) so the equality
	// constraint cannot hold even though both sub-proofs verify alone.
	openings := []*big.Int{big.NewInt(999999)}
	var cJac bls12381.G1Jac
	cJac.FromAffine(&bases[0])
	cJac.ScalarMultiplication(&cJac, openings[0])
	var c bls12381.G1Affine
	c.FromJacobian(&cJac)

	pedersenStatement := &PedersenStatement{Bases: bases, C: c}

	spec := &ProofSpec{
		Statements: []Statement{bbsStatement, pedersenStatement},
		MetaStatements: []MetaStatement{
			{Refs: []WitnessRef{
				{StatementIndex: 0, WitnessIndex: bbs.MessageWitnessSlot(1)},
				{StatementIndex: 1, WitnessIndex: 0},
			}},
		},
		Setup: &SetupParams{
			BBSParams:     []*bbs.SignatureParams{params},
			BBSPublicKeys: []*bbs.PublicKey{pk},
		},
	}
	witnesses := []Witness{
		&BBSPlusWitness{Signature: sig, Messages: messages},
		&PedersenWitness{Openings: openings},
	}

	// The pedersen opening does not equal the BBS+ message at the claimed
	// equality, so even though both sub-proofs verify individually (each
	// proves knowledge of its own witness honestly), the shared responses
	// diverge and the equality check must reject.
	nonce := []byte("verifier-session-nonce")
	proof, err := Prove(spec, witnesses, nonce, rand.Reader)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}
	if err := Verify(spec, proof, nonce); err == nil {
		t.Fatal("Verify accepted a proof with an unsatisfiable equality constraint")
	}
}

// TestProveVerifyPedersenSharedSetupParams proves three Pedersen commitments
// that all reference the same 5-base commitment key by SetupIndex rather
// than inlining it, with two cross-statement equalities between their
// witnesses, mirroring a shared commitment key reused across several
// statements.
func TestProveVerifyPedersenSharedSetupParams(t *testing.T) {
	_, _, g1, _ := bls12381.Generators()
	const count = 5
	bases := make([]bls12381.G1Affine, count)
	for i := range bases {
		b, err := randomBase(rand.Reader, &g1)
		if err != nil {
			t.Fatalf("randomBase: %v", err)
		}
		bases[i] = b
	}

	drawScalars := func() []*big.Int {
		s := make([]*big.Int, count)
		for i := range s {
			v, err := utils.RandomScalar(rand.Reader)
			if err != nil {
				t.Fatalf("RandomScalar: %v", err)
			}
			s[i] = v
		}
		return s
	}

	scalars1 := drawScalars()
	scalars2 := drawScalars()
	scalars2[1] = scalars1[3]
	scalars2[4] = scalars1[0]
	scalars3 := drawScalars()

	commit := func(openings []*big.Int) bls12381.G1Affine {
		c, err := pedersen.NewCommitment(bases, openings)
		if err != nil {
			t.Fatalf("NewCommitment: %v", err)
		}
		return c.C
	}

	setupIdx := 0
	statements := []Statement{
		&PedersenStatement{C: commit(scalars1), SetupIndex: &setupIdx},
		&PedersenStatement{C: commit(scalars2), SetupIndex: &setupIdx},
		&PedersenStatement{C: commit(scalars3), SetupIndex: &setupIdx},
	}

	spec := &ProofSpec{
		Statements: statements,
		MetaStatements: []MetaStatement{
			{Refs: []WitnessRef{{StatementIndex: 0, WitnessIndex: 3}, {StatementIndex: 1, WitnessIndex: 1}}},
			{Refs: []WitnessRef{{StatementIndex: 0, WitnessIndex: 0}, {StatementIndex: 1, WitnessIndex: 4}}},
		},
		Setup: &SetupParams{
			PedersenCommitmentKeys: [][]bls12381.G1Affine{bases},
		},
		Context: []byte("test"),
	}
	witnesses := []Witness{
		&PedersenWitness{Openings: scalars1},
		&PedersenWitness{Openings: scalars2},
		&PedersenWitness{Openings: scalars3},
	}

	nonce := []byte("test nonce")
	proof, err := Prove(spec, witnesses, nonce, rand.Reader)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	for _, st := range spec.Statements {
		pst := st.(*PedersenStatement)
		if len(pst.Bases) != count {
			t.Fatalf("SetupIndex was not resolved into Bases: got %d bases, want %d", len(pst.Bases), count)
		}
	}

	if err := Verify(spec, proof, nonce); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func randomBase(rng interface{ Read([]byte) (int, error) }, base *bls12381.G1Affine) (bls12381.G1Affine, error) {
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
