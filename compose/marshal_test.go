package compose

import (
	"crypto/rand"
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/bbs"
)

func TestPedersenStatementMarshalRoundTrip(t *testing.T) {
	_, _, g1, _ := bls12381.Generators()
	base2, err := randomBase(rand.Reader, &g1)
	if err != nil {
		t.Fatalf("randomBase: %v", err)
	}
	idx := 3
	st := &PedersenStatement{Bases: []bls12381.G1Affine{g1, base2}, C: base2, SetupIndex: &idx}

	enc, err := marshalStatement(st)
	if err != nil {
		t.Fatalf("marshalStatement: %v", err)
	}
	decoded, rest, err := unmarshalStatement(enc)
	if err != nil {
		t.Fatalf("unmarshalStatement: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("unmarshalStatement left %d trailing bytes", len(rest))
	}
	pst, ok := decoded.(*PedersenStatement)
	if !ok {
		t.Fatalf("decoded statement has kind %v, want pedersen", decoded.Kind())
	}
	if len(pst.Bases) != 2 || !pst.Bases[0].Equal(&g1) || !pst.Bases[1].Equal(&base2) {
		t.Fatal("pedersen statement round trip changed Bases")
	}
	if !pst.C.Equal(&base2) {
		t.Fatal("pedersen statement round trip changed C")
	}
	if pst.SetupIndex == nil || *pst.SetupIndex != 3 {
		t.Fatal("pedersen statement round trip changed SetupIndex")
	}
}

func TestBBSPlusStatementMarshalRoundTrip(t *testing.T) {
	st := &BBSPlusStatement{
		Setup:             SetupRef{ParamsIndex: 1, KeyIndex: 2},
		Disclosed:         map[int]bool{2: true},
		DisclosedMessages: bbs.MessageVector{2: big.NewInt(42)},
		Header:            []byte("statement-header"),
		MessageSlotCount:  4,
	}

	enc, err := marshalStatement(st)
	if err != nil {
		t.Fatalf("marshalStatement: %v", err)
	}
	decoded, rest, err := unmarshalStatement(enc)
	if err != nil {
		t.Fatalf("unmarshalStatement: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("unmarshalStatement left %d trailing bytes", len(rest))
	}
	bst, ok := decoded.(*BBSPlusStatement)
	if !ok {
		t.Fatalf("decoded statement has kind %v, want bbs+", decoded.Kind())
	}
	if bst.Setup != st.Setup {
		t.Fatal("bbs+ statement round trip changed Setup")
	}
	if !bst.Disclosed[2] || len(bst.Disclosed) != 1 {
		t.Fatal("bbs+ statement round trip changed Disclosed")
	}
	if bst.DisclosedMessages[2].Cmp(big.NewInt(42)) != 0 {
		t.Fatal("bbs+ statement round trip changed DisclosedMessages")
	}
	if string(bst.Header) != "statement-header" {
		t.Fatal("bbs+ statement round trip changed Header")
	}
	if bst.MessageSlotCount != 4 {
		t.Fatal("bbs+ statement round trip changed MessageSlotCount")
	}
}

func TestWitnessMarshalRoundTrip(t *testing.T) {
	pw := &PedersenWitness{Openings: []*big.Int{big.NewInt(1), big.NewInt(2)}}
	enc, err := marshalWitness(pw)
	if err != nil {
		t.Fatalf("marshalWitness: %v", err)
	}
	decoded, rest, err := unmarshalWitness(enc)
	if err != nil {
		t.Fatalf("unmarshalWitness: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("unmarshalWitness left %d trailing bytes", len(rest))
	}
	decodedPW, ok := decoded.(*PedersenWitness)
	if !ok || len(decodedPW.Openings) != 2 || decodedPW.Openings[0].Cmp(big.NewInt(1)) != 0 || decodedPW.Openings[1].Cmp(big.NewInt(2)) != 0 {
		t.Fatal("pedersen witness round trip changed Openings")
	}

	_, pk, sig, messages := issueTestCredential(t, 2)
	bw := &BBSPlusWitness{Signature: sig, Messages: messages}
	enc, err = marshalWitness(bw)
	if err != nil {
		t.Fatalf("marshalWitness: %v", err)
	}
	decoded, rest, err = unmarshalWitness(enc)
	if err != nil {
		t.Fatalf("unmarshalWitness: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("unmarshalWitness left %d trailing bytes", len(rest))
	}
	decodedBW, ok := decoded.(*BBSPlusWitness)
	if !ok {
		t.Fatalf("decoded witness has kind %v, want bbs+", decoded.Kind())
	}
	if !decodedBW.Signature.A.Equal(&sig.A) || decodedBW.Signature.E.Cmp(sig.E) != 0 || decodedBW.Signature.S.Cmp(sig.S) != 0 {
		t.Fatal("bbs+ witness round trip changed Signature")
	}
	for idx, m := range messages {
		if decodedBW.Messages[idx].Cmp(m) != 0 {
			t.Fatalf("bbs+ witness round trip changed message %d", idx)
		}
	}
	_ = pk
}

func TestProofSpecMarshalRoundTrip(t *testing.T) {
	params, pk, sig, messages := issueTestCredential(t, 3)

	disclosed := map[int]bool{1: true}
	disclosedMessages := bbs.MessageVector{1: messages[1]}
	bbsStatement := &BBSPlusStatement{
		Setup:             SetupRef{ParamsIndex: 0, KeyIndex: 0},
		Disclosed:         disclosed,
		DisclosedMessages: disclosedMessages,
		MessageSlotCount:  3,
	}

	_, _, g1, _ := bls12381.Generators()
	base2, err := randomBase(rand.Reader, &g1)
	if err != nil {
		t.Fatalf("randomBase: %v", err)
	}
	bases := []bls12381.G1Affine{g1, base2}
	openings := []*big.Int{messages[2], big.NewInt(5)}

	var cJac bls12381.G1Jac
	var p0, p1 bls12381.G1Jac
	p0.FromAffine(&bases[0])
	p0.ScalarMultiplication(&p0, openings[0])
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
				{StatementIndex: 0, WitnessIndex: bbs.MessageWitnessSlot(2)},
				{StatementIndex: 1, WitnessIndex: 0},
			}},
		},
		Setup: &SetupParams{
			BBSParams:              []*bbs.SignatureParams{params},
			BBSPublicKeys:          []*bbs.PublicKey{pk},
			PedersenCommitmentKeys: [][]bls12381.G1Affine{bases},
		},
		Context: []byte("proof-spec-marshal-test"),
	}

	enc, err := spec.Marshal()
	if err != nil {
		t.Fatalf("ProofSpec.Marshal: %v", err)
	}
	decoded, err := DeserializeProofSpec(enc)
	if err != nil {
		t.Fatalf("DeserializeProofSpec: %v", err)
	}

	if err := decoded.Validate(); err != nil {
		t.Fatalf("Validate on decoded spec: %v", err)
	}
	witnesses := []Witness{&BBSPlusWitness{Signature: sig, Messages: messages}, &PedersenWitness{Openings: openings}}
	nonce := []byte("proofspec-roundtrip-nonce")
	proof, err := Prove(decoded, witnesses, nonce, rand.Reader)
	if err != nil {
		t.Fatalf("Prove on decoded spec: %v", err)
	}
	if err := Verify(decoded, proof, nonce); err != nil {
		t.Fatalf("Verify on decoded spec: %v", err)
	}
}

func TestProofMarshalRoundTrip(t *testing.T) {
	params, pk, sig, messages := issueTestCredential(t, 2)

	spec := &ProofSpec{
		Statements: []Statement{
			&BBSPlusStatement{
				Setup:             SetupRef{ParamsIndex: 0, KeyIndex: 0},
				Disclosed:         map[int]bool{},
				DisclosedMessages: bbs.MessageVector{},
				MessageSlotCount:  2,
			},
		},
		Setup: &SetupParams{
			BBSParams:     []*bbs.SignatureParams{params},
			BBSPublicKeys: []*bbs.PublicKey{pk},
		},
	}
	witnesses := []Witness{&BBSPlusWitness{Signature: sig, Messages: messages}}
	nonce := []byte("proof-marshal-test-nonce")

	proof, err := Prove(spec, witnesses, nonce, rand.Reader)
	if err != nil {
		t.Fatalf("Prove: %v", err)
	}

	decoded, err := DeserializeProof(proof.Marshal())
	if err != nil {
		t.Fatalf("DeserializeProof: %v", err)
	}
	if err := Verify(spec, decoded, nonce); err != nil {
		t.Fatalf("Verify on decoded proof: %v", err)
	}
}
