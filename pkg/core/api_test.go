package core

import (
	"bytes"
	"math/big"
	"testing"

	"github.com/cryptoutil/bbsplus/pkg/utils"
)

func testMessages(n int) []*big.Int {
	m := make([]*big.Int, n)
	for i := range m {
		m[i] = big.NewInt(int64(i + 1))
	}
	return m
}

func TestSignVerifyRoundTrip(t *testing.T) {
	kp, err := GenerateKeyPair(4, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	messages := testMessages(4)
	sig, err := Sign(kp.PrivateKey, kp.PublicKey, messages, []byte("header"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Verify(kp.PublicKey, sig, messages, []byte("header")); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	kp, err := GenerateKeyPair(3, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	messages := testMessages(3)
	sig, err := Sign(kp.PrivateKey, kp.PublicKey, messages, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tampered := testMessages(3)
	tampered[0] = big.NewInt(999)
	if err := Verify(kp.PublicKey, sig, tampered, nil); err == nil {
		t.Fatal("Verify succeeded on a tampered message, want error")
	}
}

func TestDerivePublicKeyMatchesGenerated(t *testing.T) {
	seed := bytes.Repeat([]byte{0x5a}, 40)
	kp, err := GenerateKeyPair(2, bytes.NewReader(seed))
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	// GenerateKeyPair draws its secret scalar with utils.RandomScalar, so
	// replaying the same bytes recovers the scalar kp.PrivateKey wraps.
	x, err := utils.RandomScalar(bytes.NewReader(seed))
	if err != nil {
		t.Fatalf("RandomScalar: %v", err)
	}
	derived, err := DerivePublicKey(x, 2)
	if err != nil {
		t.Fatalf("DerivePublicKey: %v", err)
	}
	if derived.MessageCount != 2 {
		t.Fatalf("MessageCount = %d, want 2", derived.MessageCount)
	}
	if !derived.publicKey.W.Equal(&kp.PublicKey.publicKey.W) {
		t.Fatal("derived public key differs from the generated one")
	}
}

func TestCreateProofVerifyProofSelectiveDisclosure(t *testing.T) {
	kp, err := GenerateKeyPair(5, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	messages := testMessages(5)
	sig, err := Sign(kp.PrivateKey, kp.PublicKey, messages, []byte("ctx"))
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	proof, disclosed, err := CreateProof(kp.PublicKey, sig, messages, []int{0, 2}, []byte("ctx"))
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}
	if len(disclosed) != 2 {
		t.Fatalf("len(disclosed) = %d, want 2", len(disclosed))
	}

	if err := VerifyProof(kp.PublicKey, proof, disclosed, []byte("ctx")); err != nil {
		t.Fatalf("VerifyProof: %v", err)
	}
}

func TestVerifyProofRejectsWrongDisclosedValue(t *testing.T) {
	kp, err := GenerateKeyPair(3, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	messages := testMessages(3)
	sig, err := Sign(kp.PrivateKey, kp.PublicKey, messages, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	proof, disclosed, err := CreateProof(kp.PublicKey, sig, messages, []int{1}, nil)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}
	disclosed[1] = big.NewInt(7777)

	if err := VerifyProof(kp.PublicKey, proof, disclosed, nil); err == nil {
		t.Fatal("VerifyProof succeeded with a tampered disclosed value, want error")
	}
}

func TestBatchVerifyProofsRejectsOneBadProof(t *testing.T) {
	kp1, err := GenerateKeyPair(2, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}
	kp2, err := GenerateKeyPair(2, nil)
	if err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	messages := testMessages(2)
	sig1, err := Sign(kp1.PrivateKey, kp1.PublicKey, messages, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	sig2, err := Sign(kp2.PrivateKey, kp2.PublicKey, messages, nil)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	proof1, disclosed1, err := CreateProof(kp1.PublicKey, sig1, messages, []int{0}, nil)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}
	proof2, disclosed2, err := CreateProof(kp2.PublicKey, sig2, messages, []int{0}, nil)
	if err != nil {
		t.Fatalf("CreateProof: %v", err)
	}
	disclosed2[0] = big.NewInt(42424242)

	err = BatchVerifyProofs(
		[]*PublicKey{kp1.PublicKey, kp2.PublicKey},
		[]*ProofOfKnowledge{proof1, proof2},
		[]map[int]*big.Int{disclosed1, disclosed2},
		nil,
	)
	if err == nil {
		t.Fatal("BatchVerifyProofs succeeded with one tampered proof, want error")
	}
}
