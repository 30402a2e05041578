package bbs

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"sort"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/cryptoutil/bbsplus/internal/common"
)

// Compressed point sizes for BLS12-381: 48 bytes for a G1 affine point, 96
// for G2, matching gnark-crypto's Marshal output.
const (
	g1Size = 48
	g2Size = 96
)

func marshalScalar(s *big.Int) []byte {
	b := s.Bytes()
	out := make([]byte, 0, 1+len(b))
	out = append(out, byte(len(b)))
	out = append(out, b...)
	return out
}

func unmarshalScalar(data []byte) (*big.Int, []byte, error) {
	if len(data) < 1 {
		return nil, nil, fmt.Errorf("bbs: %w: truncated scalar length", common.ErrSerialization)
	}
	n := int(data[0])
	if len(data) < 1+n {
		return nil, nil, fmt.Errorf("bbs: %w: truncated scalar value", common.ErrSerialization)
	}
	return new(big.Int).SetBytes(data[1 : 1+n]), data[1+n:], nil
}

// Marshal encodes params as G1, G2, H0 compressed points followed by a
// 4-byte big-endian count and that many compressed G1 points for H.
func (p *SignatureParams) Marshal() []byte {
	out := make([]byte, 0, g1Size*2+g2Size+4+g1Size*len(p.H))
	out = append(out, p.G1.Marshal()...)
	out = append(out, p.G2.Marshal()...)
	out = append(out, p.H0.Marshal()...)
	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(p.H)))
	out = append(out, countBuf[:]...)
	for i := range p.H {
		out = append(out, p.H[i].Marshal()...)
	}
	return out
}

// DeserializeSignatureParams decodes the output of Marshal. It does not
// check subgroup membership: a caller receiving params from an untrusted
// source inherits whatever trust boundary applies to that source. The layout
// is fixed and carries no version field.
func DeserializeSignatureParams(data []byte) (*SignatureParams, error) {
	if len(data) < g1Size*2+g2Size+4 {
		return nil, fmt.Errorf("bbs: %w: truncated signature params", common.ErrSerialization)
	}
	var g1 bls12381.G1Affine
	if err := g1.Unmarshal(data[:g1Size]); err != nil {
		return nil, fmt.Errorf("bbs: %w: g1: %v", common.ErrSerialization, err)
	}
	data = data[g1Size:]

	var g2 bls12381.G2Affine
	if err := g2.Unmarshal(data[:g2Size]); err != nil {
		return nil, fmt.Errorf("bbs: %w: g2: %v", common.ErrSerialization, err)
	}
	data = data[g2Size:]

	var h0 bls12381.G1Affine
	if err := h0.Unmarshal(data[:g1Size]); err != nil {
		return nil, fmt.Errorf("bbs: %w: h0: %v", common.ErrSerialization, err)
	}
	data = data[g1Size:]

	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]

	if len(data) < int(count)*g1Size {
		return nil, fmt.Errorf("bbs: %w: truncated H generators", common.ErrSerialization)
	}
	h := make([]bls12381.G1Affine, count)
	for i := range h {
		if err := h[i].Unmarshal(data[:g1Size]); err != nil {
			return nil, fmt.Errorf("bbs: %w: h[%d]: %v", common.ErrSerialization, i, err)
		}
		data = data[g1Size:]
	}

	return &SignatureParams{G1: g1, G2: g2, H0: h0, H: h}, nil
}

// Marshal encodes sk as a single length-prefixed scalar. It panics if sk has
// already been Destroy()'d, matching value()'s panic-on-destroyed-access
// behavior: a destroyed key's backing scalar has been zeroized, so there is
// nothing meaningful to serialize.
func (sk *SecretKey) Marshal() []byte {
	return marshalScalar(sk.value())
}

// DeserializeSecretKey decodes the output of SecretKey.Marshal.
func DeserializeSecretKey(data []byte) (*SecretKey, error) {
	x, _, err := unmarshalScalar(data)
	if err != nil {
		return nil, err
	}
	return &SecretKey{x: x}, nil
}

// Marshal encodes pk as a compressed G2 point.
func (pk *PublicKey) Marshal() []byte {
	return pk.W.Marshal()
}

// DeserializePublicKey decodes the output of PublicKey.Marshal.
func DeserializePublicKey(data []byte) (*PublicKey, error) {
	if len(data) != g2Size {
		return nil, fmt.Errorf("bbs: %w: public key must be %d bytes", common.ErrSerialization, g2Size)
	}
	var w bls12381.G2Affine
	if err := w.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("bbs: %w: %v", common.ErrSerialization, err)
	}
	return &PublicKey{W: w}, nil
}

// Marshal encodes sig as a compressed G1 point followed by length-prefixed
// e and s scalars.
func (sig *Signature) Marshal() []byte {
	out := make([]byte, 0, g1Size+64)
	out = append(out, sig.A.Marshal()...)
	out = append(out, marshalScalar(sig.E)...)
	out = append(out, marshalScalar(sig.S)...)
	return out
}

// DeserializeSignature decodes the output of Signature.Marshal.
func DeserializeSignature(data []byte) (*Signature, error) {
	if len(data) < g1Size {
		return nil, fmt.Errorf("bbs: %w: truncated signature", common.ErrSerialization)
	}
	var a bls12381.G1Affine
	if err := a.Unmarshal(data[:g1Size]); err != nil {
		return nil, fmt.Errorf("bbs: %w: A: %v", common.ErrSerialization, err)
	}
	rest := data[g1Size:]

	e, rest, err := unmarshalScalar(rest)
	if err != nil {
		return nil, err
	}
	s, _, err := unmarshalScalar(rest)
	if err != nil {
		return nil, err
	}
	return &Signature{A: a, E: e, S: s}, nil
}

// Marshal encodes proof as five compressed G1 points (A', Ā, d, T1, T2),
// four length-prefixed scalars (ê, r̂2, r̂3, ŝ), and a 4-byte count followed
// by that many (4-byte index, length-prefixed scalar) entries for MHat, in
// ascending index order so Marshal is deterministic.
func (proof *ProofOfKnowledge) Marshal() []byte {
	out := make([]byte, 0, g1Size*5+256)
	out = append(out, proof.APrime.Marshal()...)
	out = append(out, proof.ABar.Marshal()...)
	out = append(out, proof.D.Marshal()...)
	out = append(out, proof.T1.Marshal()...)
	out = append(out, proof.T2.Marshal()...)
	out = append(out, marshalScalar(proof.EHat)...)
	out = append(out, marshalScalar(proof.R2Hat)...)
	out = append(out, marshalScalar(proof.R3Hat)...)
	out = append(out, marshalScalar(proof.SHat)...)

	indices := make([]int, 0, len(proof.MHat))
	for idx := range proof.MHat {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	var countBuf [4]byte
	binary.BigEndian.PutUint32(countBuf[:], uint32(len(indices)))
	out = append(out, countBuf[:]...)
	for _, idx := range indices {
		var idxBuf [4]byte
		binary.BigEndian.PutUint32(idxBuf[:], uint32(idx))
		out = append(out, idxBuf[:]...)
		out = append(out, marshalScalar(proof.MHat[idx])...)
	}
	return out
}

// DeserializeProofOfKnowledge decodes the output of ProofOfKnowledge.Marshal.
func DeserializeProofOfKnowledge(data []byte) (*ProofOfKnowledge, error) {
	points := make([]bls12381.G1Affine, 5)
	for i := range points {
		if len(data) < g1Size {
			return nil, fmt.Errorf("bbs: %w: truncated proof point %d", common.ErrSerialization, i)
		}
		if err := points[i].Unmarshal(data[:g1Size]); err != nil {
			return nil, fmt.Errorf("bbs: %w: proof point %d: %v", common.ErrSerialization, i, err)
		}
		data = data[g1Size:]
	}

	scalars := make([]*big.Int, 4)
	var err error
	for i := range scalars {
		scalars[i], data, err = unmarshalScalar(data)
		if err != nil {
			return nil, err
		}
	}

	if len(data) < 4 {
		return nil, fmt.Errorf("bbs: %w: truncated MHat count", common.ErrSerialization)
	}
	count := binary.BigEndian.Uint32(data[:4])
	data = data[4:]

	mhat := make(map[int]*big.Int, count)
	for i := uint32(0); i < count; i++ {
		if len(data) < 4 {
			return nil, fmt.Errorf("bbs: %w: truncated MHat index", common.ErrSerialization)
		}
		idx := int(binary.BigEndian.Uint32(data[:4]))
		data = data[4:]
		var v *big.Int
		v, data, err = unmarshalScalar(data)
		if err != nil {
			return nil, err
		}
		mhat[idx] = v
	}

	return &ProofOfKnowledge{
		APrime: points[0], ABar: points[1], D: points[2], T1: points[3], T2: points[4],
		EHat: scalars[0], R2Hat: scalars[1], R3Hat: scalars[2], SHat: scalars[3],
		MHat: mhat,
	}, nil
}

// Marshal encodes proof as a compressed G2 point followed by a
// length-prefixed scalar.
func (proof *SecretKeyProof) Marshal() []byte {
	out := make([]byte, 0, g2Size+40)
	out = append(out, proof.T.Marshal()...)
	out = append(out, marshalScalar(proof.Z)...)
	return out
}

// DeserializeSecretKeyProof decodes the output of SecretKeyProof.Marshal.
func DeserializeSecretKeyProof(data []byte) (*SecretKeyProof, error) {
	if len(data) < g2Size {
		return nil, fmt.Errorf("bbs: %w: truncated secret key proof", common.ErrSerialization)
	}
	var t bls12381.G2Affine
	if err := t.Unmarshal(data[:g2Size]); err != nil {
		return nil, fmt.Errorf("bbs: %w: T: %v", common.ErrSerialization, err)
	}
	z, _, err := unmarshalScalar(data[g2Size:])
	if err != nil {
		return nil, err
	}
	return &SecretKeyProof{T: t, Z: z}, nil
}
