// Package crypto provides cryptographic primitives for the BBS+ signature scheme.
//
// It contains one low-level operation: parallel multi-scalar
// multiplication on BLS12-381 G1. Pairings come from gnark-crypto directly,
// and hashing to the curve lives in pkg/xof.
//
// This package is used internally by the bbs and pedersen packages but can
// also be used directly for advanced use cases requiring finer control over
// cryptographic operations.
//
// Example usage:
//
//     // Multi-scalar multiplication
//     result, err := crypto.MultiScalarMulG1(points, scalars)
//
// Most applications will not need to use this package directly and should
// use the core package instead.
package crypto

// Domain separation tags
const (
	// DST_G1 is the domain separation tag for hashing to G1
	DST_G1 = "BBS_BLS12381G1_XMD:SHA-256_SSWU_RO_"
	
	// DST_G2 is the domain separation tag for hashing to G2
	DST_G2 = "BBS_BLS12381G2_XMD:SHA-256_SSWU_RO_"
)