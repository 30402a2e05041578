package bbs

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/cryptoutil/bbsplus/internal/common"
)

func testSetup(t *testing.T, l int) (*SecretKey, *PublicKey, *SignatureParams) {
	t.Helper()
	params, err := NewSignatureParamsDeterministic("bbs-test", l)
	if err != nil {
		t.Fatalf("NewSignatureParamsDeterministic: %v", err)
	}
	sk, err := SecretKeyFromRandom(rand.Reader)
	if err != nil {
		t.Fatalf("SecretKeyFromRandom: %v", err)
	}
	pk := PublicKeyFromSecret(sk, params)
	return sk, pk, params
}

func testMessages(l int) MessageVector {
	m := make(MessageVector, l)
	for i := 1; i <= l; i++ {
		m[i] = newBigInt(int64(i))
	}
	return m
}

func newBigInt(v int64) *big.Int { return big.NewInt(v) }

func TestSignVerifyRoundTrip(t *testing.T) {
	sk, pk, params := testSetup(t, 4)
	defer sk.Destroy()

	messages := testMessages(4)
	sig, err := Sign(sk, params, messages, rand.Reader)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Verify(pk, params, sig, messages); err != nil {
		t.Fatalf("Verify: %v", err)
	}
}

func TestVerifyRejectsTamperedMessage(t *testing.T) {
	sk, pk, params := testSetup(t, 3)
	defer sk.Destroy()

	messages := testMessages(3)
	sig, err := Sign(sk, params, messages, rand.Reader)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	tampered := testMessages(3)
	tampered[1] = newBigInt(999)
	if err := Verify(pk, params, sig, tampered); err == nil {
		t.Fatal("Verify succeeded on a tampered message, want error")
	}
}

func TestVerifyRejectsWrongKey(t *testing.T) {
	sk, _, params := testSetup(t, 2)
	defer sk.Destroy()
	otherSK, err := SecretKeyFromRandom(rand.Reader)
	if err != nil {
		t.Fatalf("SecretKeyFromRandom: %v", err)
	}
	defer otherSK.Destroy()
	otherPK := PublicKeyFromSecret(otherSK, params)

	messages := testMessages(2)
	sig, err := Sign(sk, params, messages, rand.Reader)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if err := Verify(otherPK, params, sig, messages); err == nil {
		t.Fatal("Verify succeeded under the wrong public key, want error")
	}
}

func TestSecretKeyDestroyPreventsReuse(t *testing.T) {
	sk, err := SecretKeyFromRandom(rand.Reader)
	if err != nil {
		t.Fatalf("SecretKeyFromRandom: %v", err)
	}
	sk.Destroy()
	if sk.IsValid() {
		t.Fatal("destroyed key reports valid")
	}

	defer func() {
		if recover() == nil {
			t.Fatal("expected panic using a destroyed key")
		}
	}()
	_ = sk.value()
}

func TestProveVerifyKnowledgeSelectiveDisclosure(t *testing.T) {
	sk, pk, params := testSetup(t, 5)
	defer sk.Destroy()

	messages := testMessages(5)
	sig, err := Sign(sk, params, messages, rand.Reader)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	disclosed := map[int]bool{1: true, 3: true}
	disclosedMessages := MessageVector{1: messages[1], 3: messages[3]}
	header := []byte("presentation-nonce")

	proof, err := ProveKnowledge(pk, params, sig, messages, disclosed, nil, header, NewRNG(rand.Reader))
	if err != nil {
		t.Fatalf("ProveKnowledge: %v", err)
	}
	if err := VerifyKnowledge(pk, params, proof, disclosedMessages, disclosed, header); err != nil {
		t.Fatalf("VerifyKnowledge: %v", err)
	}
}

func TestVerifyKnowledgeRejectsWrongDisclosedValue(t *testing.T) {
	sk, pk, params := testSetup(t, 3)
	defer sk.Destroy()

	messages := testMessages(3)
	sig, err := Sign(sk, params, messages, rand.Reader)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	disclosed := map[int]bool{2: true}
	header := []byte("nonce")
	proof, err := ProveKnowledge(pk, params, sig, messages, disclosed, nil, header, NewRNG(rand.Reader))
	if err != nil {
		t.Fatalf("ProveKnowledge: %v", err)
	}

	wrong := MessageVector{2: newBigInt(777)}
	if err := VerifyKnowledge(pk, params, proof, wrong, disclosed, header); err == nil {
		t.Fatal("VerifyKnowledge accepted a forged disclosed value, want error")
	}
}

func TestDeterministicParamsDifferByLabel(t *testing.T) {
	a, err := NewSignatureParamsDeterministic("label-a", 4)
	if err != nil {
		t.Fatalf("NewSignatureParamsDeterministic(label-a): %v", err)
	}
	b, err := NewSignatureParamsDeterministic("label-b", 4)
	if err != nil {
		t.Fatalf("NewSignatureParamsDeterministic(label-b): %v", err)
	}

	if a.G1.Equal(&b.G1) {
		t.Fatal("g1 is identical across distinct labels")
	}
	if a.G2.Equal(&b.G2) {
		t.Fatal("g2 is identical across distinct labels")
	}
	if a.H0.Equal(&b.H0) {
		t.Fatal("h0 is identical across distinct labels")
	}
}

func TestDeterministicParamsReproducible(t *testing.T) {
	a, err := NewSignatureParamsDeterministic("same-label", 3)
	if err != nil {
		t.Fatalf("NewSignatureParamsDeterministic: %v", err)
	}
	b, err := NewSignatureParamsDeterministic("same-label", 3)
	if err != nil {
		t.Fatalf("NewSignatureParamsDeterministic: %v", err)
	}
	if !a.G1.Equal(&b.G1) || !a.G2.Equal(&b.G2) || !a.H0.Equal(&b.H0) {
		t.Fatal("two calls with the same label produced different params")
	}
}

func TestProveVerifySecretKeyRoundTrip(t *testing.T) {
	sk, pk, params := testSetup(t, 2)
	defer sk.Destroy()

	header := []byte("issuer-binding")
	proof, err := ProveSecretKey(sk, params, header, rand.Reader)
	if err != nil {
		t.Fatalf("ProveSecretKey: %v", err)
	}
	if err := VerifySecretKeyProof(pk, params, proof, header); err != nil {
		t.Fatalf("VerifySecretKeyProof: %v", err)
	}
}

func TestVerifySecretKeyProofRejectsWrongKey(t *testing.T) {
	sk, _, params := testSetup(t, 2)
	defer sk.Destroy()
	otherSK, err := SecretKeyFromRandom(rand.Reader)
	if err != nil {
		t.Fatalf("SecretKeyFromRandom: %v", err)
	}
	defer otherSK.Destroy()
	otherPK := PublicKeyFromSecret(otherSK, params)

	header := []byte("issuer-binding")
	proof, err := ProveSecretKey(sk, params, header, rand.Reader)
	if err != nil {
		t.Fatalf("ProveSecretKey: %v", err)
	}
	if err := VerifySecretKeyProof(otherPK, params, proof, header); err == nil {
		t.Fatal("VerifySecretKeyProof accepted a proof against the wrong public key, want error")
	}
}

func TestBlindSignRoundTrip(t *testing.T) {
	sk, pk, params := testSetup(t, 3)
	defer sk.Destroy()

	hiddenIdx := 1
	sPrime := newBigInt(42)
	hidden := MessageVector{hiddenIdx: newBigInt(100)}
	commitment, err := params.CommitToMessages(hidden, sPrime)
	if err != nil {
		t.Fatalf("CommitToMessages: %v", err)
	}

	known := MessageVector{2: newBigInt(200), 3: newBigInt(300)}
	sig, err := BlindSign(sk, params, commitment, known, rand.Reader)
	if err != nil {
		t.Fatalf("BlindSign: %v", err)
	}

	sig.S.Add(sig.S, sPrime)
	sig.S.Mod(sig.S, common.Order)

	full := MessageVector{hiddenIdx: hidden[hiddenIdx], 2: known[2], 3: known[3]}
	if err := Verify(pk, params, sig, full); err != nil {
		t.Fatalf("Verify on blind-signed signature: %v", err)
	}
}
