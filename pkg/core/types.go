package core

import (
	"math/big"

	"github.com/cryptoutil/bbsplus/bbs"
)

// KeyPair represents a BBS+ key pair.
type KeyPair struct {
	PrivateKey *PrivateKey
	PublicKey  *PublicKey

	// MessageCount is the number of messages this key pair supports.
	MessageCount int
}

// PrivateKey wraps a BBS+ signing exponent.
type PrivateKey struct {
	secretKey *bbs.SecretKey
}

// PublicKey wraps a BBS+ public key together with the SignatureParams it was
// derived under, so callers of this facade never have to juggle the two
// separately the way the lower-level bbs package requires.
type PublicKey struct {
	publicKey *bbs.PublicKey
	params    *bbs.SignatureParams

	// MessageCount is the number of messages this key supports.
	MessageCount int
}

// Signature represents a BBS+ signature.
type Signature struct {
	sig *bbs.Signature
}

// ProofOfKnowledge represents a BBS+ selective disclosure proof.
type ProofOfKnowledge struct {
	pok *bbs.ProofOfKnowledge
}

// SignOptions contains options for the Sign operation. Sign takes no
// SignOptions argument and always samples e and s at random.
type SignOptions struct {
	// BlindingFactors holds fixed (e, s) values for reproducible test vectors.
	BlindingFactors *SignatureBlindingFactors
}

// SignatureBlindingFactors fixes a signature's randomization scalars.
type SignatureBlindingFactors struct {
	E *big.Int
	S *big.Int
}

// ProofOptions contains options for proof creation. CreateProof takes no
// ProofOptions argument and discloses exactly the indices it is given.
type ProofOptions struct {
	// RevealAll marks every message as disclosed.
	RevealAll bool
}

// VerifyOptions contains options for signature verification. Verify takes no
// VerifyOptions argument and checks a single signature with bbs.Verify.
type VerifyOptions struct {
	// Batch names bbs.BatchVerify's single-pairing-check path for multiple
	// signatures under the same key and params.
	Batch bool
}