package pedersen

import (
	"crypto/rand"
	"math/big"
	"testing"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/pkg/utils"
)

func testBases(t *testing.T, n int) []bls12381.G1Affine {
	t.Helper()
	_, _, g1, _ := bls12381.Generators()
	bases := make([]bls12381.G1Affine, n)
	for i := range bases {
		s, err := utils.RandomScalar(rand.Reader)
		if err != nil {
			t.Fatalf("RandomScalar: %v", err)
		}
		var jac bls12381.G1Jac
		jac.FromAffine(&g1)
		jac.ScalarMultiplication(&jac, s)
		bases[i].FromJacobian(&jac)
	}
	return bases
}

func testRNG() func() (*big.Int, error) {
	return func() (*big.Int, error) { return utils.RandomScalar(rand.Reader) }
}

func TestProveVerifyRoundTrip(t *testing.T) {
	bases := testBases(t, 3)
	openings := []*big.Int{big.NewInt(11), big.NewInt(22), big.NewInt(33)}

	commitment, err := NewCommitment(bases, openings)
	if err != nil {
		t.Fatalf("NewCommitment: %v", err)
	}

	commit, state, err := ProveWithBlindings(bases, openings, nil, testRNG())
	if err != nil {
		t.Fatalf("ProveWithBlindings: %v", err)
	}

	challenge := big.NewInt(12345)
	resp := state.Respond(challenge)

	if err := Verify(bases, commitment.C, challenge, commit, resp); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsWrongOpening(t *testing.T) {
	bases := testBases(t, 2)
	openings := []*big.Int{big.NewInt(5), big.NewInt(6)}

	commitment, err := NewCommitment(bases, openings)
	if err != nil {
		t.Fatalf("NewCommitment: %v", err)
	}

	wrongOpenings := []*big.Int{big.NewInt(5), big.NewInt(7)}
	commit, state, err := ProveWithBlindings(bases, wrongOpenings, nil, testRNG())
	if err != nil {
		t.Fatalf("ProveWithBlindings: %v", err)
	}

	challenge := big.NewInt(99)
	resp := state.Respond(challenge)

	if err := Verify(bases, commitment.C, challenge, commit, resp); err == nil {
		t.Fatal("Verify succeeded despite mismatched opening, want error")
	}
}

func TestCommitmentMarshalRoundTrip(t *testing.T) {
	bases := testBases(t, 3)
	openings := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
	commitment, err := NewCommitment(bases, openings)
	if err != nil {
		t.Fatalf("NewCommitment: %v", err)
	}

	decoded, err := DeserializeCommitment(commitment.Marshal())
	if err != nil {
		t.Fatalf("DeserializeCommitment: %v", err)
	}
	if !decoded.C.Equal(&commitment.C) {
		t.Fatal("commitment round trip changed C")
	}
	if len(decoded.Bases) != len(commitment.Bases) {
		t.Fatalf("bases length mismatch: got %d, want %d", len(decoded.Bases), len(commitment.Bases))
	}
	for i := range commitment.Bases {
		if !decoded.Bases[i].Equal(&commitment.Bases[i]) {
			t.Fatalf("bases[%d] mismatch after round trip", i)
		}
	}
}

func TestCommitAndResponseMarshalRoundTrip(t *testing.T) {
	bases := testBases(t, 2)
	openings := []*big.Int{big.NewInt(9), big.NewInt(10)}

	commit, state, err := ProveWithBlindings(bases, openings, nil, testRNG())
	if err != nil {
		t.Fatalf("ProveWithBlindings: %v", err)
	}
	challenge := big.NewInt(321)
	resp := state.Respond(challenge)

	decodedCommit, err := DeserializeCommit(commit.Marshal())
	if err != nil {
		t.Fatalf("DeserializeCommit: %v", err)
	}
	decodedResp, err := DeserializeResponse(resp.Marshal())
	if err != nil {
		t.Fatalf("DeserializeResponse: %v", err)
	}

	commitment, err := NewCommitment(bases, openings)
	if err != nil {
		t.Fatalf("NewCommitment: %v", err)
	}
	if err := Verify(bases, commitment.C, challenge, decodedCommit, decodedResp); err != nil {
		t.Fatalf("Verify with decoded commit/response: %v", err)
	}
}

func TestProveWithSharedBlinding(t *testing.T) {
	bases := testBases(t, 2)
	openings := []*big.Int{big.NewInt(7), big.NewInt(8)}

	shared, err := utils.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	blindings := []*big.Int{shared, nil}

	_, state, err := ProveWithBlindings(bases, openings, blindings, testRNG())
	if err != nil {
		t.Fatalf("ProveWithBlindings: %v", err)
	}
	if state.Blindings[0].Cmp(shared) != 0 {
		t.Fatal("shared blinding was not honored")
	}
}
