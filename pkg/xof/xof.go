package xof

import (
	"crypto/hmac"
	"crypto/sha256"
	"io"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fp"

	"github.com/cryptoutil/bbsplus/internal/common"
)

// reader is an RFC 6979-style HMAC-SHA256 counter-mode expander: it derives
// an unbounded pseudorandom byte stream from a fixed (seed, salt) pair by
// keying an HMAC on seed||salt and repeatedly re-MACing its own output, the
// same key/value construction used for deterministic nonce derivation.
type reader struct {
	mac hash256Factory
	v   []byte
	buf []byte
}

type hash256Factory func() *hmacState

type hmacState struct {
	key []byte
}

func newMAC(key []byte) *hmacState { return &hmacState{key: key} }

func (h *hmacState) sum(data ...[]byte) []byte {
	m := hmac.New(sha256.New, h.key)
	for _, d := range data {
		m.Write(d)
	}
	return m.Sum(nil)
}

// New returns an io.Reader producing an unbounded deterministic stream keyed
// on seed and salt. Distinct (seed, salt) pairs are independent for the
// purposes of this library's constructions.
func New(seed, salt []byte) io.Reader {
	mac := newMAC(append(append([]byte{}, seed...), salt...))
	v := mac.sum([]byte{0x01})
	return &reader{v: v, buf: nil, mac: func() *hmacState { return mac }}
}

func (r *reader) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(r.buf) == 0 {
			mac := r.mac()
			r.v = mac.sum(r.v)
			r.buf = append([]byte{}, r.v...)
		}
		c := copy(p[n:], r.buf)
		r.buf = r.buf[c:]
		n += c
	}
	return n, nil
}

// ScalarFromSeed derives a scalar in [1, Order-1] from seed and label using
// wide reduction: 64 extra bits of output beyond Order's bit length are drawn
// before reducing modulo Order, keeping the reduction bias statistically
// negligible rather than rejection-sampling.
func ScalarFromSeed(seed []byte, label string) *big.Int {
	byteLen := (common.Order.BitLen() + 64 + 7) / 8
	buf := make([]byte, byteLen)
	if _, err := io.ReadFull(New(seed, []byte(label)), buf); err != nil {
		panic("xof: deterministic reader never returns an error: " + err.Error())
	}
	x := new(big.Int).SetBytes(buf)
	x.Mod(x, common.Order)
	if x.Sign() == 0 {
		x.SetInt64(1)
	}
	return x
}

// HashToG1 maps label to a point in the prime-order G1 subgroup via
// try-and-increment: successive candidate x-coordinates are drawn from the
// XOF keyed on seed||label until x³+4 is a quadratic residue in the base
// field, then the resulting curve point is cleared of its cofactor.
func HashToG1(seed []byte, label string) (bls12381.G1Affine, error) {
	b := big.NewInt(4)
	p := common.BaseFieldSize
	for counter := 0; ; counter++ {
		x := candidateFieldElement(seed, label, counter, p)

		y2 := new(big.Int).Exp(x, big.NewInt(3), p)
		y2.Add(y2, b)
		y2.Mod(y2, p)

		y, ok := sqrtModP(y2, p)
		if !ok {
			continue
		}

		var xe, ye fp.Element
		xe.SetBigInt(x)
		ye.SetBigInt(y)

		jac := bls12381.G1Jac{X: xe, Y: ye}
		jac.Z.SetOne()
		jac.ScalarMultiplication(&jac, common.G1Cofactor)

		var aff bls12381.G1Affine
		aff.FromJacobian(&jac)
		if aff.IsInfinity() {
			continue
		}
		return aff, nil
	}
}

// candidateFieldElement draws the counter-th try-and-increment candidate for
// x, reduced modulo p.
func candidateFieldElement(seed []byte, label string, counter int, p *big.Int) *big.Int {
	byteLen := (p.BitLen() + 64 + 7) / 8
	buf := make([]byte, byteLen)
	salt := append([]byte(label), byte(counter>>24), byte(counter>>16), byte(counter>>8), byte(counter))
	if _, err := io.ReadFull(New(seed, salt), buf); err != nil {
		panic("xof: deterministic reader never returns an error: " + err.Error())
	}
	x := new(big.Int).SetBytes(buf)
	return x.Mod(x, p)
}

// sqrtModP computes a square root of a modulo p for p ≡ 3 (mod 4), which
// holds for the BLS12-381 base field: sqrt(a) = a^((p+1)/4).
func sqrtModP(a, p *big.Int) (*big.Int, bool) {
	if a.Sign() == 0 {
		return big.NewInt(0), true
	}
	exp := new(big.Int).Add(p, big.NewInt(1))
	exp.Rsh(exp, 2)
	root := new(big.Int).Exp(a, exp, p)

	check := new(big.Int).Exp(root, big.NewInt(2), p)
	if check.Cmp(new(big.Int).Mod(a, p)) != 0 {
		return nil, false
	}
	return root, true
}

// fp2 is an element a0 + a1*u of the quadratic extension field G2's
// coordinates live in, where u² = -1.
type fp2 struct {
	a0, a1 *big.Int
}

func fp2Mul(a, b fp2, p *big.Int) fp2 {
	t0 := new(big.Int).Mul(a.a0, b.a0)
	t1 := new(big.Int).Mul(a.a1, b.a1)
	real := new(big.Int).Sub(t0, t1)
	real.Mod(real, p)

	t2 := new(big.Int).Mul(a.a0, b.a1)
	t3 := new(big.Int).Mul(a.a1, b.a0)
	imag := new(big.Int).Add(t2, t3)
	imag.Mod(imag, p)

	return fp2{a0: real, a1: imag}
}

func fp2Add(a, b fp2, p *big.Int) fp2 {
	return fp2{
		a0: new(big.Int).Mod(new(big.Int).Add(a.a0, b.a0), p),
		a1: new(big.Int).Mod(new(big.Int).Add(a.a1, b.a1), p),
	}
}

func fp2Cube(a fp2, p *big.Int) fp2 {
	sq := fp2Mul(a, a, p)
	return fp2Mul(sq, a, p)
}

// fp2Sqrt computes a square root of a in Fp2 using the complex method valid
// for p ≡ 3 (mod 4): writing a = a0 + a1*u, the norm alpha = a0²+a1² is a
// square in Fp whenever a is a square in Fp2. Its root delta lets
// t = (a0±delta)/2 yield a real part x0 = sqrt(t) and imaginary part
// x1 = a1/(2·x0). a1 == 0 is handled separately since the norm trick
// degenerates (delta would just be |a0|, giving t = a0 or 0).
func fp2Sqrt(a fp2, p *big.Int) (fp2, bool) {
	if a.a1.Sign() == 0 {
		if root, ok := sqrtModP(a.a0, p); ok {
			return fp2{a0: root, a1: big.NewInt(0)}, true
		}
		neg := new(big.Int).Neg(a.a0)
		neg.Mod(neg, p)
		root, ok := sqrtModP(neg, p)
		if !ok {
			return fp2{}, false
		}
		return fp2{a0: big.NewInt(0), a1: root}, true
	}

	inv2 := new(big.Int).ModInverse(big.NewInt(2), p)

	alpha := new(big.Int).Mul(a.a0, a.a0)
	t1 := new(big.Int).Mul(a.a1, a.a1)
	alpha.Add(alpha, t1)
	alpha.Mod(alpha, p)

	delta, ok := sqrtModP(alpha, p)
	if !ok {
		return fp2{}, false
	}

	x0, ok := fp2SqrtRealPart(a.a0, delta, inv2, p)
	if !ok {
		x0, ok = fp2SqrtRealPart(a.a0, new(big.Int).Neg(delta), inv2, p)
		if !ok {
			return fp2{}, false
		}
	}

	x0Inv := new(big.Int).ModInverse(x0, p)
	x1 := new(big.Int).Mul(a.a1, x0Inv)
	x1.Mul(x1, inv2)
	x1.Mod(x1, p)

	cand := fp2{a0: x0, a1: x1}
	check := fp2Mul(cand, cand, p)
	if check.a0.Cmp(new(big.Int).Mod(a.a0, p)) != 0 || check.a1.Cmp(new(big.Int).Mod(a.a1, p)) != 0 {
		return fp2{}, false
	}
	return cand, true
}

// fp2SqrtRealPart tries t = (a0+delta)/2 as a candidate real part and returns
// its square root in Fp, if one exists.
func fp2SqrtRealPart(a0, delta, inv2, p *big.Int) (*big.Int, bool) {
	t := new(big.Int).Add(a0, delta)
	t.Mul(t, inv2)
	t.Mod(t, p)
	return sqrtModP(t, p)
}

// HashToG2 maps label to a point in the prime-order G2 subgroup, the Fp2
// analogue of HashToG1: successive candidate x-coordinates in Fp2 are drawn
// from the XOF keyed on seed||label until x³+4(1+u) is a square in Fp2, then
// the resulting curve point is cleared of G2's cofactor.
func HashToG2(seed []byte, label string) (bls12381.G2Affine, error) {
	p := common.BaseFieldSize
	b := fp2{a0: big.NewInt(4), a1: big.NewInt(4)}

	for counter := 0; ; counter++ {
		x0 := candidateFieldElement(seed, label+"-c0", counter, p)
		x1 := candidateFieldElement(seed, label+"-c1", counter, p)
		x := fp2{a0: x0, a1: x1}

		y2 := fp2Add(fp2Cube(x, p), b, p)
		y, ok := fp2Sqrt(y2, p)
		if !ok {
			continue
		}

		var xe, ye bls12381.E2
		xe.A0.SetBigInt(x.a0)
		xe.A1.SetBigInt(x.a1)
		ye.A0.SetBigInt(y.a0)
		ye.A1.SetBigInt(y.a1)

		jac := bls12381.G2Jac{X: xe, Y: ye}
		jac.Z.SetOne()
		jac.ScalarMultiplication(&jac, common.G2Cofactor)

		var aff bls12381.G2Affine
		aff.FromJacobian(&jac)
		if aff.IsInfinity() {
			continue
		}
		return aff, nil
	}
}
