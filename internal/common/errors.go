package common

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across bbs, pedersen, and compose.
var (
	// ErrInvalidParameter indicates a bad caller-supplied argument: a nil
	// pointer, an out-of-range index, or (for SignatureParams) an identity
	// group element where a generator was required.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrInvalidPublicKey indicates a public key W component is the identity.
	ErrInvalidPublicKey = errors.New("invalid public key: identity element")

	// ErrInvalidSignature indicates a signature's A component is the identity.
	// A failed verification equation is ErrSignatureVerificationFailed.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrSignatureVerificationFailed indicates the pairing equation rejected.
	ErrSignatureVerificationFailed = errors.New("signature verification failed")

	// ErrInvalidProof indicates a sub-proof failed its own verification equation.
	ErrInvalidProof = errors.New("invalid proof")

	// ErrProofVerificationFailed indicates at least one sub-proof rejected.
	ErrProofVerificationFailed = errors.New("proof verification failed")

	// ErrProofSpecInvalid indicates ProofSpec.Validate found a structural problem:
	// an unresolved setup reference, a message slot count that does not match
	// its params, or a malformed or out-of-range equality reference.
	ErrProofSpecInvalid = errors.New("proof specification invalid")

	// ErrWitnessKindMismatch indicates a witness's kind does not match the
	// statement kind it is paired with.
	ErrWitnessKindMismatch = errors.New("witness kind does not match statement kind")

	// ErrWitnessEqualityViolation indicates responses within an equality class
	// disagree at verification time.
	ErrWitnessEqualityViolation = errors.New("witness equality violation")

	// ErrSerialization indicates a canonical decode failed.
	ErrSerialization = errors.New("serialization error")

	// ErrMismatchedLengths indicates mismatched lengths between parallel slices
	// (e.g. points and scalars passed to multi-scalar multiplication).
	ErrMismatchedLengths = errors.New("mismatched input lengths")

	// ErrKeyDestroyed indicates use of a SecretKey after Destroy was called.
	ErrKeyDestroyed = errors.New("secret key has been destroyed")
)

// InvalidMessageIndexError reports a message index outside 1..L for a given
// SignatureParams instance.
type InvalidMessageIndexError struct {
	Index int
	Max   int
}

func (e *InvalidMessageIndexError) Error() string {
	return fmt.Sprintf("invalid message index %d (must be in 1..%d)", e.Index, e.Max)
}

// Is allows errors.Is(err, ErrInvalidMessageIndex-shaped sentinels) style
// matching against any InvalidMessageIndexError regardless of its fields.
func (e *InvalidMessageIndexError) Is(target error) bool {
	_, ok := target.(*InvalidMessageIndexError)
	return ok
}
