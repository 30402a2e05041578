package pool

import (
	"math/big"
	"sync"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
)

// ObjectPool recycles the scratch values that signing, verification, and
// proof construction allocate in bulk: big.Int accumulators, Jacobian and
// affine curve points, and scalar slices sized for a message vector. Every
// BBS+, Pedersen, and composed-proof operation in this module draws from a
// single shared pool so that repeated proof generation under load does not
// re-churn the allocator.
type ObjectPool struct {
	bigInt      sync.Pool
	bigIntSlice sync.Pool

	g1Jac         sync.Pool
	g1Affine      sync.Pool
	g1AffineSlice sync.Pool

	g2Jac         sync.Pool
	g2Affine      sync.Pool
	g2AffineSlice sync.Pool

	scalarSlice sync.Pool
}

// New returns a fresh ObjectPool. Most callers should use Default instead;
// New exists for tests and for callers that want an isolated pool.
func New() *ObjectPool {
	p := &ObjectPool{}
	p.bigInt.New = func() any { return new(big.Int) }
	p.bigIntSlice.New = func() any { return make([]*big.Int, 0, 16) }
	p.g1Jac.New = func() any { return new(bls12381.G1Jac) }
	p.g1Affine.New = func() any { return new(bls12381.G1Affine) }
	p.g1AffineSlice.New = func() any { return make([]bls12381.G1Affine, 0, 16) }
	p.g2Jac.New = func() any { return new(bls12381.G2Jac) }
	p.g2Affine.New = func() any { return new(bls12381.G2Affine) }
	p.g2AffineSlice.New = func() any { return make([]bls12381.G2Affine, 0, 16) }
	p.scalarSlice.New = func() any { return make([]big.Int, 0, 16) }
	return p
}

var defaultPool = New()

// Default returns the package-wide shared pool.
func Default() *ObjectPool { return defaultPool }

// GetBigInt returns a zeroed *big.Int from the pool.
func (p *ObjectPool) GetBigInt() *big.Int {
	v := p.bigInt.Get().(*big.Int)
	v.SetInt64(0)
	return v
}

// PutBigInt returns b to the pool. b must not be used by the caller again.
func (p *ObjectPool) PutBigInt(b *big.Int) {
	if b == nil {
		return
	}
	p.bigInt.Put(b)
}

// GetBigIntSlice returns an empty *big.Int slice with spare capacity.
func (p *ObjectPool) GetBigIntSlice() []*big.Int {
	return p.bigIntSlice.Get().([]*big.Int)[:0]
}

// PutBigIntSlice returns s to the pool.
func (p *ObjectPool) PutBigIntSlice(s []*big.Int) {
	p.bigIntSlice.Put(s[:0])
}

// GetG1Jac returns a scratch G1 Jacobian point.
func (p *ObjectPool) GetG1Jac() *bls12381.G1Jac {
	return p.g1Jac.Get().(*bls12381.G1Jac)
}

// PutG1Jac returns pt to the pool.
func (p *ObjectPool) PutG1Jac(pt *bls12381.G1Jac) {
	if pt == nil {
		return
	}
	p.g1Jac.Put(pt)
}

// GetG1Affine returns a scratch G1 affine point.
func (p *ObjectPool) GetG1Affine() *bls12381.G1Affine {
	return p.g1Affine.Get().(*bls12381.G1Affine)
}

// PutG1Affine returns pt to the pool.
func (p *ObjectPool) PutG1Affine(pt *bls12381.G1Affine) {
	if pt == nil {
		return
	}
	p.g1Affine.Put(pt)
}

// GetG1AffineSlice returns an empty G1Affine slice with spare capacity.
func (p *ObjectPool) GetG1AffineSlice() []bls12381.G1Affine {
	return p.g1AffineSlice.Get().([]bls12381.G1Affine)[:0]
}

// PutG1AffineSlice returns s to the pool.
func (p *ObjectPool) PutG1AffineSlice(s []bls12381.G1Affine) {
	p.g1AffineSlice.Put(s[:0])
}

// GetG2Jac returns a scratch G2 Jacobian point.
func (p *ObjectPool) GetG2Jac() *bls12381.G2Jac {
	return p.g2Jac.Get().(*bls12381.G2Jac)
}

// PutG2Jac returns pt to the pool.
func (p *ObjectPool) PutG2Jac(pt *bls12381.G2Jac) {
	if pt == nil {
		return
	}
	p.g2Jac.Put(pt)
}

// GetG2Affine returns a scratch G2 affine point.
func (p *ObjectPool) GetG2Affine() *bls12381.G2Affine {
	return p.g2Affine.Get().(*bls12381.G2Affine)
}

// PutG2Affine returns pt to the pool.
func (p *ObjectPool) PutG2Affine(pt *bls12381.G2Affine) {
	if pt == nil {
		return
	}
	p.g2Affine.Put(pt)
}

// GetG2AffineSlice returns an empty G2Affine slice with spare capacity.
func (p *ObjectPool) GetG2AffineSlice() []bls12381.G2Affine {
	return p.g2AffineSlice.Get().([]bls12381.G2Affine)[:0]
}

// PutG2AffineSlice returns s to the pool.
func (p *ObjectPool) PutG2AffineSlice(s []bls12381.G2Affine) {
	p.g2AffineSlice.Put(s[:0])
}

// GetScalarSlice returns an empty fr.Element-sized big.Int value slice.
func (p *ObjectPool) GetScalarSlice() []big.Int {
	return p.scalarSlice.Get().([]big.Int)[:0]
}

// PutScalarSlice returns s to the pool.
func (p *ObjectPool) PutScalarSlice(s []big.Int) {
	p.scalarSlice.Put(s[:0])
}
