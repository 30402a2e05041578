package bbs

import (
	"fmt"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/internal/common"
	"github.com/cryptoutil/bbsplus/pkg/utils"
	"github.com/cryptoutil/bbsplus/pkg/xof"
)

// SecretKeyFromSeed derives a SecretKey deterministically from seed via
// wide-reduction hash expansion. Equal seeds always produce equal keys; the
// caller is responsible for seed secrecy and uniqueness.
func SecretKeyFromSeed(seed []byte) *SecretKey {
	x := xof.ScalarFromSeed(seed, common.XofLabelKeySeed)
	return &SecretKey{x: x}
}

// SecretKeyFromScalar wraps an existing scalar as a SecretKey. The caller
// retains ownership of x; SecretKey takes no copy, so mutating x afterward
// mutates the key.
func SecretKeyFromScalar(x *big.Int) *SecretKey {
	return &SecretKey{x: x}
}

// SecretKeyFromRandom draws a SecretKey uniformly at random from rng.
func SecretKeyFromRandom(rng io.Reader) (*SecretKey, error) {
	x, err := utils.RandomScalar(rng)
	if err != nil {
		return nil, fmt.Errorf("bbs: failed to draw secret key: %w", err)
	}
	return &SecretKey{x: x}, nil
}

// value returns the underlying scalar, panicking if the key has already
// been destroyed.
func (sk *SecretKey) value() *big.Int {
	if sk.destroyed {
		panic(common.ErrKeyDestroyed)
	}
	return sk.x
}

// Destroy overwrites the key's backing words and marks it unusable. Callers
// own the key and must call Destroy exactly once when done with it; there is
// deliberately no Clone, since a SecretKey should have exactly one owner.
func (sk *SecretKey) Destroy() {
	if sk.destroyed {
		return
	}
	words := sk.x.Bits()
	for i := range words {
		words[i] = 0
	}
	sk.x.SetInt64(0)
	sk.destroyed = true
}

// IsValid reports whether the key has not been destroyed and holds a
// non-zero scalar.
func (sk *SecretKey) IsValid() bool {
	return !sk.destroyed && sk.x.Sign() != 0
}

// PublicKeyFromSecret computes w = g2^x under params.G2.
func PublicKeyFromSecret(sk *SecretKey, params *SignatureParams) *PublicKey {
	var jac bls12381.G2Jac
	jac.FromAffine(&params.G2)
	jac.ScalarMultiplication(&jac, sk.value())

	var w bls12381.G2Affine
	w.FromJacobian(&jac)
	return &PublicKey{W: w}
}
