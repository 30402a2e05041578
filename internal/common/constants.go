package common

import (
	"math/big"
)

// BLS12-381 scalar field order r, shared by every package that needs the
// group of exponents: bbs, pedersen, compose, pkg/crypto, pkg/xof.
var Order *big.Int

// BaseFieldSize is the BLS12-381 base field modulus p, used only by the
// hash-to-curve try-and-increment constructors in pkg/xof: curve points live
// in (Fp, Fp) or (Fp2, Fp2) coordinates, distinct from the Fr scalar field.
var BaseFieldSize *big.Int

func init() {
	var ok bool
	Order, ok = new(big.Int).SetString("73eda753299d7d483339d80809a1d80553bda402fffe5bfeffffffff00000001", 16)
	if !ok {
		panic("common: failed to parse BLS12-381 scalar field order")
	}
	BaseFieldSize, ok = new(big.Int).SetString("1a0111ea397fe69a4b1ba7b6434bacd764774b84f38512bf6730d2a0f6b0f6241eabfffeb153ffffb9feffffffffaaab", 16)
	if !ok {
		panic("common: failed to parse BLS12-381 base field size")
	}
}

// G1Cofactor and G2Cofactor clear the curve subgroup down to the prime-order
// r-torsion subgroup that every BBS+ generator must live in.
var (
	G1Cofactor *big.Int
	G2Cofactor *big.Int
)

func init() {
	var ok bool
	G1Cofactor, ok = new(big.Int).SetString("396c8c005555e1568c00aaab0000aaab", 16)
	if !ok {
		panic("common: failed to parse BLS12-381 G1 cofactor")
	}
	G2Cofactor, ok = new(big.Int).SetString("5d543a95414e7f1091d50792876a202cd91de4547085abaa68a205b2e5a7ddfa628f1cb4d9e82ef21537e293a6691ae1616ec6e786f0c70cf1c38e31c7238e5", 16)
	if !ok {
		panic("common: failed to parse BLS12-381 G2 cofactor")
	}
}

// Domain separation tags, one
// tag per curve/purpose. XofLabel* feed the RFC6979-style expansion in
// pkg/xof; the try-and-increment hash-to-curve constructors append a
// 4-byte big-endian attempt counter after the label.
const (
	DSTG1    = "BBSPLUS_BLS12381G1_XMD:SHA-256_SSWU_RO_"
	DSTG2    = "BBSPLUS_BLS12381G2_XMD:SHA-256_SSWU_RO_"
	DSTProof = "BBSPLUS_BLS12381_PROOF_"
	DSTSig   = "BBSPLUS_BLS12381_SIG_"

	XofLabelParamsG1 = "sig-params-g1"
	XofLabelParamsH0 = "sig-params-h0"
	XofLabelParamsHi = "sig-params-h"
	XofLabelKeySeed  = "BBS-SIG-KEYGEN-SALT-"
)
