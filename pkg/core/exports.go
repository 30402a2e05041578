package core

import (
	"github.com/cryptoutil/bbsplus/internal/common"
)

// Public error variables from the BBS+ library
var (
	// ErrInvalidSignature indicates a signature whose A component is the identity
	ErrInvalidSignature = common.ErrInvalidSignature

	// ErrInvalidProof indicates a proof verification failure
	ErrInvalidProof = common.ErrInvalidProof

	// ErrInvalidPublicKey indicates an invalid public key
	ErrInvalidPublicKey = common.ErrInvalidPublicKey

	// ErrInvalidParameter indicates an invalid parameter
	ErrInvalidParameter = common.ErrInvalidParameter

	// ErrMismatchedLengths indicates mismatched lengths in inputs
	ErrMismatchedLengths = common.ErrMismatchedLengths
)

// Order is the order of the BLS12-381 scalar field.
var Order = common.Order
