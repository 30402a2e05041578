package core

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"

	"github.com/cryptoutil/bbsplus/bbs"
	"github.com/cryptoutil/bbsplus/internal/common"
)

// paramsLabel is the domain label GenerateKeyPair derives deterministic
// SignatureParams under. Every KeyPair sharing a message count is therefore
// mutually verifiable without a separate parameter-exchange step; callers
// needing independent parameters per issuer should use the bbs package
// directly with NewSignatureParamsRandom.
const paramsLabel = "cryptoutil/bbsplus/core"

// GenerateKeyPair creates a new BBS+ key pair for the given number of
// messages. The randomness source can be provided, or nil to use crypto/rand.
func GenerateKeyPair(messageCount int, rng io.Reader) (*KeyPair, error) {
	if messageCount < 1 {
		return nil, common.ErrInvalidParameter
	}
	if rng == nil {
		rng = rand.Reader
	}

	params, err := bbs.NewSignatureParamsDeterministic(paramsLabel, messageCount)
	if err != nil {
		return nil, fmt.Errorf("core: failed to derive params: %w", err)
	}
	sk, err := bbs.SecretKeyFromRandom(rng)
	if err != nil {
		return nil, fmt.Errorf("core: failed to generate secret key: %w", err)
	}
	pk := bbs.PublicKeyFromSecret(sk, params)

	return &KeyPair{
		PrivateKey:   &PrivateKey{secretKey: sk},
		PublicKey:    &PublicKey{publicKey: pk, params: params, MessageCount: messageCount},
		MessageCount: messageCount,
	}, nil
}

// DerivePublicKey derives a public key from a private key for the given
// number of messages, under the facade's shared deterministic params.
func DerivePublicKey(privateKey *big.Int, messageCount int) (*PublicKey, error) {
	if privateKey == nil || privateKey.Sign() <= 0 {
		return nil, common.ErrInvalidParameter
	}
	if messageCount < 1 {
		return nil, common.ErrInvalidParameter
	}

	params, err := bbs.NewSignatureParamsDeterministic(paramsLabel, messageCount)
	if err != nil {
		return nil, fmt.Errorf("core: failed to derive params: %w", err)
	}
	sk := bbs.SecretKeyFromScalar(privateKey)
	pk := bbs.PublicKeyFromSecret(sk, params)
	return &PublicKey{publicKey: pk, params: params, MessageCount: messageCount}, nil
}

func toMessageVector(messages []*big.Int) bbs.MessageVector {
	mv := make(bbs.MessageVector, len(messages))
	for i, m := range messages {
		mv[i+1] = m
	}
	return mv
}

// Sign creates a BBS+ signature on the given messages using the provided key
// pair. The header is not used: the underlying BBS+ signature binds no header.
func Sign(privateKey *PrivateKey, publicKey *PublicKey, messages []*big.Int, header []byte) (*Signature, error) {
	if privateKey == nil || publicKey == nil {
		return nil, common.ErrInvalidParameter
	}
	if len(messages) != publicKey.MessageCount {
		return nil, common.ErrMismatchedLengths
	}

	sig, err := bbs.Sign(privateKey.secretKey, publicKey.params, toMessageVector(messages), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	return &Signature{sig: sig}, nil
}

// Verify checks if a BBS+ signature is valid for the given messages and
// public key.
func Verify(publicKey *PublicKey, signature *Signature, messages []*big.Int, header []byte) error {
	if publicKey == nil || signature == nil {
		return common.ErrInvalidParameter
	}
	if len(messages) != publicKey.MessageCount {
		return common.ErrMismatchedLengths
	}
	return bbs.Verify(publicKey.publicKey, publicKey.params, signature.sig, toMessageVector(messages))
}

// CreateProof generates a selective disclosure proof for the given messages.
// disclosedIndices are 0-based indices into messages. The optional header is
// bound into the proof's challenge and must match the one passed to VerifyProof.
func CreateProof(
	publicKey *PublicKey,
	signature *Signature,
	messages []*big.Int,
	disclosedIndices []int,
	header []byte,
) (*ProofOfKnowledge, map[int]*big.Int, error) {
	if publicKey == nil || signature == nil {
		return nil, nil, common.ErrInvalidParameter
	}
	if len(messages) != publicKey.MessageCount {
		return nil, nil, common.ErrMismatchedLengths
	}

	disclosed := make(map[int]bool, len(disclosedIndices))
	disclosedMessages := make(map[int]*big.Int, len(disclosedIndices))
	for _, idx := range disclosedIndices {
		if idx < 0 || idx >= len(messages) {
			return nil, nil, common.ErrInvalidParameter
		}
		disclosed[idx+1] = true
		disclosedMessages[idx] = messages[idx]
	}

	pok, err := bbs.ProveKnowledge(publicKey.publicKey, publicKey.params, signature.sig, toMessageVector(messages), disclosed, nil, header, bbs.NewRNG(rand.Reader))
	if err != nil {
		return nil, nil, fmt.Errorf("core: %w", err)
	}
	return &ProofOfKnowledge{pok: pok}, disclosedMessages, nil
}

// VerifyProof checks if a selective disclosure proof is valid. disclosedMessages
// is keyed by the same 0-based indices CreateProof returned.
func VerifyProof(
	publicKey *PublicKey,
	proof *ProofOfKnowledge,
	disclosedMessages map[int]*big.Int,
	header []byte,
) error {
	if publicKey == nil || proof == nil {
		return common.ErrInvalidParameter
	}

	disclosed := make(map[int]bool, len(disclosedMessages))
	disclosedVec := make(bbs.MessageVector, len(disclosedMessages))
	for idx, m := range disclosedMessages {
		disclosed[idx+1] = true
		disclosedVec[idx+1] = m
	}
	return bbs.VerifyKnowledge(publicKey.publicKey, publicKey.params, proof.pok, disclosedVec, disclosed, header)
}

// BatchVerifyProofs verifies multiple signature proofs of knowledge. It
// verifies each proof against its own recomputed challenge independently:
// the single-pairing-check batching in bbs.BatchVerify applies to plain
// signatures, not to proofs of knowledge, which each carry their own
// Schnorr responses that must be checked individually regardless.
func BatchVerifyProofs(
	keys []*PublicKey,
	proofs []*ProofOfKnowledge,
	disclosedMessagesList []map[int]*big.Int,
	headers [][]byte,
) error {
	if len(keys) != len(proofs) || len(proofs) != len(disclosedMessagesList) {
		return common.ErrMismatchedLengths
	}
	if len(headers) != 0 && len(headers) != len(keys) {
		return common.ErrMismatchedLengths
	}

	for i := range proofs {
		var header []byte
		if len(headers) != 0 {
			header = headers[i]
		}
		if err := VerifyProof(keys[i], proofs[i], disclosedMessagesList[i], header); err != nil {
			return fmt.Errorf("core: proof %d: %w", i, err)
		}
	}
	return nil
}
